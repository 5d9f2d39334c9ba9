package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the directory record. Role is the workflow role the identity
// provider also puts in the access token.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index:idx_employees_company_role"`
	UserID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_employee_user"`
	FullName  string     `gorm:"type:varchar(150);not null"`
	Email     string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email"`
	Role      string     `gorm:"type:varchar(20);not null;default:'employee';index:idx_employees_company_role"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
