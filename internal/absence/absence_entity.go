package absence

import (
	"time"

	"go-erp/internal/workflow"

	"github.com/google/uuid"
)

// Request is one row of leave_requests or wfh_requests. Both tables share
// this shape; the table is chosen by the workflow.Kind the repository is
// built for. Dates stay text so malformed legacy values can still be loaded.
type Request struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Category  *string `gorm:"type:varchar(20)"`
	StartDate string  `gorm:"type:varchar(10);not null"`
	EndDate   string  `gorm:"type:varchar(10);not null"`
	TotalDays int     `gorm:"type:int;not null;default:1"`
	Reason    string  `gorm:"type:text;not null"`

	Status       string  `gorm:"type:varchar(20);not null;index"`
	Notes        *string `gorm:"type:text"`
	ApprovedBy   *string `gorm:"type:varchar(64)"`
	ApprovalDate *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// OwnerRole is filled from the employees join on reads and never written.
	OwnerRole string `gorm:"->;-:migration;column:owner_role"`
}

func (r Request) CurrentStatus() workflow.Status {
	return workflow.Status(r.Status)
}

func (r Request) CategoryValue() workflow.Category {
	if r.Category == nil {
		return ""
	}
	return workflow.Category(*r.Category)
}

// StatusChange is what a successful transition writes.
type StatusChange struct {
	To           workflow.Status
	Notes        *string
	ApprovedBy   *string
	ApprovalDate *time.Time
}

// Details are the owner-editable fields of a pending request.
type Details struct {
	Category  *string
	StartDate string
	EndDate   string
	TotalDays int
	Reason    string
}

// ListFilter narrows FindAll. OwnerID limits rows to one employee;
// HideAdminOwned drops rows owned by admins except those of ViewerID.
type ListFilter struct {
	OwnerID        string
	ViewerID       string
	HideAdminOwned bool
	Status         string
}
