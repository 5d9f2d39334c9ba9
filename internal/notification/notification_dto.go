package notification

type NotificationResponse struct {
	ID          string  `json:"id"`
	EventType   string  `json:"event_type"`
	RequestKind string  `json:"request_kind"`
	AbsenceID   string  `json:"absence_id"`
	SenderID    string  `json:"sender_id"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	DeepLink    string  `json:"deep_link"`
	ReadAt      *string `json:"read_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
