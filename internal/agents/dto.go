package agents

import (
	"time"

	"github.com/casalia/realty-backend/pkg/db/models"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateInput holds the validated payload to register a directory member.
type CreateInput struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
	Avatar    *string
	Roles     []enums.UserRole
}

// UpdateInput patches a directory member. Nil fields are left untouched.
type UpdateInput struct {
	Phone     *string
	FirstName *string
	LastName  *string
	Avatar    *string
	Roles     *[]enums.UserRole
}

// ListParams pairs directory filters with the requested page.
type ListParams struct {
	Role     *enums.UserRole
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

// View is the outward directory shape. The password hash never leaves the package.
type View struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Avatar      *string          `json:"avatar,omitempty"`
	Roles       []enums.UserRole `json:"roles"`
	IsActive    bool             `json:"is_active"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func newView(user models.User) View {
	return View{
		ID:          user.ID,
		Email:       user.Email,
		Phone:       user.Phone,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Avatar:      user.Avatar,
		Roles:       user.Roles.Roles(),
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
