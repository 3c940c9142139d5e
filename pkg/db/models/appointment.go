package models

import (
	"time"

	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/google/uuid"
)

// Appointment is a viewing request tying a client to a property and the
// agent who will host the visit. AppointmentAt is the exact visit instant;
// conflict detection treats the agent as busy for just under an hour on
// either side of it.
type Appointment struct {
	ID          uuid.UUID               `gorm:"type:uuid;primaryKey"`
	PropertyID  uuid.UUID               `gorm:"type:uuid;column:property_id;not null;index"`
	AgentID     uuid.UUID               `gorm:"type:uuid;column:agent_id;not null;index:idx_appointments_agent_time,priority:1"`
	ClientName  string                  `gorm:"column:client_name;not null"`
	ClientEmail string                  `gorm:"column:client_email;not null;index"`
	ClientPhone string                  `gorm:"column:client_phone;not null;index"`
	Message     string                  `gorm:"type:text;not null"`
	Status      enums.AppointmentStatus `gorm:"type:text;not null;default:'PENDING'"`

	AppointmentAt time.Time `gorm:"column:appointment_at;not null;index:idx_appointments_agent_time,priority:2"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
