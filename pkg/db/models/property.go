package models

import (
	"time"

	dbtypes "github.com/casalia/realty-backend/pkg/db/types"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Property is a listing owned by exactly one agent.
type Property struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Title       string               `gorm:"type:text;not null"`
	Description string               `gorm:"type:text;not null"`
	Price       decimal.Decimal      `gorm:"type:numeric(14,2);not null"`
	Type        enums.PropertyType   `gorm:"type:text;not null"`
	Status      enums.PropertyStatus `gorm:"type:text;not null"`
	Bedrooms    int                  `gorm:"not null;default:0"`
	Bathrooms   int                  `gorm:"not null;default:0"`
	AreaSqm     float64              `gorm:"column:area_sqm;not null;default:0"`
	Images      dbtypes.StringArray  `gorm:"type:text;not null;default:'{}'"`
	Featured    bool                 `gorm:"not null;default:false"`

	Street  string `gorm:"type:text;not null"`
	City    string `gorm:"type:text;not null"`
	State   string `gorm:"type:text;not null"`
	Country string `gorm:"type:text;not null"`

	AgentID   uuid.UUID `gorm:"type:uuid;column:agent_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
