package employee

type CreateEmployeeRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	UserID   string `json:"user_id" binding:"omitempty,uuid"`
	Role     string `json:"role" binding:"omitempty,oneof=admin hr employee"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin hr employee"`
}

type EmployeeResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
	CompanyID string `json:"company_id"`
	UserID    string `json:"user_id,omitempty"`
	Role      string `json:"role"`
}
