package properties

import (
	"time"

	"github.com/casalia/realty-backend/pkg/db/models"
	dbtypes "github.com/casalia/realty-backend/pkg/db/types"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput holds the validated payload to create a listing.
type CreateInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Type        enums.PropertyType
	Status      enums.PropertyStatus
	Bedrooms    int
	Bathrooms   int
	AreaSqm     float64
	Images      []string
	Featured    bool
	Street      string
	City        string
	State       string
	Country     string
	AgentID     uuid.UUID
}

// UpdateInput patches a listing. Nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Type        *enums.PropertyType
	Status      *enums.PropertyStatus
	Bedrooms    *int
	Bathrooms   *int
	AreaSqm     *float64
	Images      *[]string
	Featured    *bool
	Street      *string
	City        *string
	State       *string
	Country     *string
	AgentID     *uuid.UUID
}

// ListFilters describe the browse endpoint filter knobs.
type ListFilters struct {
	Type     *enums.PropertyType   `json:"type,omitempty"`
	Status   *enums.PropertyStatus `json:"status,omitempty"`
	City     string                `json:"city,omitempty"`
	State    string                `json:"state,omitempty"`
	PriceMin *decimal.Decimal      `json:"price_min,omitempty"`
	PriceMax *decimal.Decimal      `json:"price_max,omitempty"`
	Bedrooms *int                  `json:"bedrooms,omitempty"`
	Featured *bool                 `json:"featured,omitempty"`
	AgentID  *uuid.UUID            `json:"agent_id,omitempty"`
	Search   string                `json:"q,omitempty"`
}

// ListParams pairs filters with the requested page.
type ListParams struct {
	Filters ListFilters
	Page    int
	Limit   int
}

// View is the outward listing shape.
type View struct {
	ID          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Price       decimal.Decimal      `json:"price"`
	Type        enums.PropertyType   `json:"type"`
	Status      enums.PropertyStatus `json:"status"`
	Bedrooms    int                  `json:"bedrooms"`
	Bathrooms   int                  `json:"bathrooms"`
	AreaSqm     float64              `json:"area_sqm"`
	Images      []string             `json:"images"`
	Featured    bool                 `json:"featured"`
	Street      string               `json:"street"`
	City        string               `json:"city"`
	State       string               `json:"state"`
	Country     string               `json:"country"`
	AgentID     uuid.UUID            `json:"agent_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func newView(property models.Property) View {
	images := []string(property.Images)
	if images == nil {
		images = []string{}
	}
	return View{
		ID:          property.ID,
		Title:       property.Title,
		Description: property.Description,
		Price:       property.Price,
		Type:        property.Type,
		Status:      property.Status,
		Bedrooms:    property.Bedrooms,
		Bathrooms:   property.Bathrooms,
		AreaSqm:     property.AreaSqm,
		Images:      images,
		Featured:    property.Featured,
		Street:      property.Street,
		City:        property.City,
		State:       property.State,
		Country:     property.Country,
		AgentID:     property.AgentID,
		CreatedAt:   property.CreatedAt,
		UpdatedAt:   property.UpdatedAt,
	}
}

func imagesValue(images []string) dbtypes.StringArray {
	if images == nil {
		return dbtypes.StringArray{}
	}
	return dbtypes.StringArray(images)
}
