package absence

import "go-erp/internal/workflow"

// Actor is the authenticated caller as seen by the orchestrator.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       workflow.Role
}

// Identity names the actor on approvals, ledger commits and notifications.
// Callers without an employee profile fall back to their user id.
func (a Actor) Identity() string {
	if a.EmployeeID != "" {
		return a.EmployeeID
	}
	return a.UserID
}

func (a Actor) IsApprover() bool {
	return a.Role == workflow.RoleAdmin || a.Role == workflow.RoleHR
}

type SubmitRequest struct {
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	Category   string `json:"category"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

type UpdateRequest struct {
	Category  string `json:"category"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type TransitionRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=approve reject cancel"`
	Notes   string `json:"notes"`
}

type ListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending_hr pending_admin approved rejected_hr rejected_admin cancelled"`
}

type Response struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	CompanyID    string  `json:"company_id"`
	EmployeeID   string  `json:"employee_id"`
	Category     *string `json:"category,omitempty"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalDays    int     `json:"total_days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovalDate *string `json:"approval_date,omitempty"`
	CreatedBy    string  `json:"created_by"`
	CreatedAt    string  `json:"created_at"`
}
