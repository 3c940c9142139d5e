package models

import (
	"time"

	dbtypes "github.com/casalia/realty-backend/pkg/db/types"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity; agents are users whose
// role set contains ADMIN or SUPERADMIN.
type User struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Email        string             `gorm:"type:text;not null;uniqueIndex"`
	Phone        string             `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	FirstName    string             `gorm:"column:first_name;not null"`
	LastName     string             `gorm:"column:last_name;not null"`
	Avatar       *string            `gorm:"column:avatar"`
	Roles        dbtypes.RoleArray  `gorm:"type:text;column:roles;not null;default:'{USER}'"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time         `gorm:"column:last_login_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (u User) AgentCapable() bool {
	return enums.AnyAgentCapable(u.Roles.Roles())
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
