package appointments

import (
	"time"

	"github.com/casalia/realty-backend/pkg/db/models"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput is the payload for booking a new viewing.
type CreateInput struct {
	PropertyID    uuid.UUID
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	Message       string
	AppointmentAt time.Time
}

// UpdateInput patches an existing appointment. Nil fields are left untouched.
type UpdateInput struct {
	ClientName    *string
	ClientEmail   *string
	ClientPhone   *string
	Message       *string
	Status        *enums.AppointmentStatus
	AppointmentAt *time.Time
}

// ListParams filters the admin listing.
type ListParams struct {
	Status     *enums.AppointmentStatus
	AgentID    *uuid.UUID
	PropertyID *uuid.UUID
	Search     string
	Page       int
	Limit      int
}

// AgentSummary is the slim agent projection embedded in appointment views.
type AgentSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

// PropertySummary is the slim listing projection embedded in appointment views.
type PropertySummary struct {
	ID    uuid.UUID            `json:"id"`
	Title string               `json:"title"`
	City  string               `json:"city"`
	Type  enums.PropertyType   `json:"type"`
	Price decimal.Decimal      `json:"price"`
	State enums.PropertyStatus `json:"status"`
}

// View is the outward appointment shape with both sides populated.
type View struct {
	ID            uuid.UUID               `json:"id"`
	PropertyID    uuid.UUID               `json:"property_id"`
	AgentID       uuid.UUID               `json:"agent_id"`
	ClientName    string                  `json:"client_name"`
	ClientEmail   string                  `json:"client_email"`
	ClientPhone   string                  `json:"client_phone"`
	Message       string                  `json:"message"`
	Status        enums.AppointmentStatus `json:"status"`
	AppointmentAt time.Time               `json:"appointment_at"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`

	Agent    *AgentSummary    `json:"agent,omitempty"`
	Property *PropertySummary `json:"property,omitempty"`
}

func newView(appointment models.Appointment, property *models.Property, agent *models.User) View {
	view := View{
		ID:            appointment.ID,
		PropertyID:    appointment.PropertyID,
		AgentID:       appointment.AgentID,
		ClientName:    appointment.ClientName,
		ClientEmail:   appointment.ClientEmail,
		ClientPhone:   appointment.ClientPhone,
		Message:       appointment.Message,
		Status:        appointment.Status,
		AppointmentAt: appointment.AppointmentAt,
		CreatedAt:     appointment.CreatedAt,
		UpdatedAt:     appointment.UpdatedAt,
	}
	if property != nil {
		view.Property = &PropertySummary{
			ID:    property.ID,
			Title: property.Title,
			City:  property.City,
			Type:  property.Type,
			Price: property.Price,
			State: property.Status,
		}
	}
	if agent != nil {
		view.Agent = &AgentSummary{
			ID:    agent.ID,
			Name:  agent.FullName(),
			Email: agent.Email,
			Phone: agent.Phone,
		}
	}
	return view
}
