package domain

// EnforceRequest asks whether a role may perform action on resource within
// a company. Policies are global today; CompanyID is carried for auditing.
type EnforceRequest struct {
	Role      string `json:"role" binding:"required"`
	CompanyID string `json:"company_id"`
	Resource  string `json:"resource" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
