package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Website string `json:"website" validate:"omitempty,url"`
}

type AddMemberRequest struct {
	Email string          `json:"email" validate:"required,email"`
	Role  models.TeamRole `json:"role" validate:"required,is-team-role"`
}

type UpdateMemberRoleRequest struct {
	Role models.TeamRole `json:"role" validate:"required,is-team-role"`
}

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type MemberResponse struct {
	UserID   string          `json:"user_id"`
	Email    string          `json:"email,omitempty"`
	FullName string          `json:"full_name,omitempty"`
	Role     models.TeamRole `json:"role"`
	IsOwner  bool            `json:"is_owner"`
	JoinedAt time.Time       `json:"joined_at"`
}

func NewCompanyResponse(c *models.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Website:   c.Website,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
	}
}
