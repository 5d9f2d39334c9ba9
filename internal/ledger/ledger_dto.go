package ledger

// CommitRequest describes the allowance an approved request consumes.
// Start and End are inclusive YYYY-MM-DD dates.
type CommitRequest struct {
	RequestID   string
	Kind        string
	CompanyID   string
	EmployeeID  string
	Category    string
	Start       string
	End         string
	CommittedBy string
}

type CommitResponse struct {
	ID          string `json:"id"`
	RequestID   string `json:"request_id"`
	Kind        string `json:"kind"`
	EmployeeID  string `json:"employee_id"`
	Category    string `json:"category"`
	Period      int    `json:"period"`
	Units       string `json:"units"`
	CommittedBy string `json:"committed_by"`
	CommittedAt string `json:"committed_at"`
}

type BalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Category   string `json:"category"`
	Period     int    `json:"period"`
	Consumed   string `json:"consumed"`
}
