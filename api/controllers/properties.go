package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casalia/realty-backend/api/responses"
	"github.com/casalia/realty-backend/api/validators"
	"github.com/casalia/realty-backend/internal/properties"
	"github.com/casalia/realty-backend/pkg/enums"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/logger"
)

type createPropertyRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       string   `json:"price" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=apartment house villa land commercial"`
	Status      string   `json:"status" validate:"required,oneof=sale rent sold rented"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int      `json:"bathrooms" validate:"gte=0"`
	AreaSqm     float64  `json:"areaSqm" validate:"gte=0"`
	Images      []string `json:"images"`
	Featured    bool     `json:"featured"`
	Street      string   `json:"street" validate:"required"`
	City        string   `json:"city" validate:"required"`
	State       string   `json:"state" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	AgentID     string   `json:"agentId" validate:"required,uuid"`
}

type updatePropertyRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *string   `json:"price,omitempty"`
	Type        *string   `json:"type,omitempty" validate:"omitempty,oneof=apartment house villa land commercial"`
	Status      *string   `json:"status,omitempty" validate:"omitempty,oneof=sale rent sold rented"`
	Bedrooms    *int      `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms   *int      `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	AreaSqm     *float64  `json:"areaSqm,omitempty" validate:"omitempty,gte=0"`
	Images      *[]string `json:"images,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
	Street      *string   `json:"street,omitempty"`
	City        *string   `json:"city,omitempty"`
	State       *string   `json:"state,omitempty"`
	Country     *string   `json:"country,omitempty"`
	AgentID     *string   `json:"agentId,omitempty" validate:"omitempty,uuid"`
}

// CreateProperty registers a new listing. ADMIN+.
func CreateProperty(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPropertyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}
		agentID, err := uuid.Parse(req.AgentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent id"))
			return
		}
		propertyType, _ := enums.ParsePropertyType(req.Type)
		propertyStatus, _ := enums.ParsePropertyStatus(req.Status)

		view, err := svc.Create(r.Context(), properties.CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       price,
			Type:        propertyType,
			Status:      propertyStatus,
			Bedrooms:    req.Bedrooms,
			Bathrooms:   req.Bathrooms,
			AreaSqm:     req.AreaSqm,
			Images:      req.Images,
			Featured:    req.Featured,
			Street:      req.Street,
			City:        req.City,
			State:       req.State,
			Country:     req.Country,
			AgentID:     agentID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListProperties is the public browse endpoint.
func ListProperties(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := properties.ListFilters{
			City:   strings.TrimSpace(r.URL.Query().Get("city")),
			State:  strings.TrimSpace(r.URL.Query().Get("state")),
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			propertyType, ok := enums.ParsePropertyType(raw)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown property type"))
				return
			}
			filters.Type = &propertyType
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, ok := enums.ParsePropertyStatus(raw)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown property status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("priceMin")); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priceMin"))
				return
			}
			filters.PriceMin = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("priceMax")); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priceMax"))
				return
			}
			filters.PriceMax = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("bedrooms")); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil || value < 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "bedrooms must be a non-negative integer"))
				return
			}
			filters.Bedrooms = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid featured value"))
				return
			}
			filters.Featured = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("agentId")); raw != "" {
			agentID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent id"))
				return
			}
			filters.AgentID = &agentID
		}

		page, limit, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), properties.ListParams{Filters: filters, Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetProperty returns one listing by id. Public.
func GetProperty(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateProperty patches a listing. ADMIN+.
func UpdateProperty(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updatePropertyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := properties.UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Bedrooms:    req.Bedrooms,
			Bathrooms:   req.Bathrooms,
			AreaSqm:     req.AreaSqm,
			Images:      req.Images,
			Featured:    req.Featured,
			Street:      req.Street,
			City:        req.City,
			State:       req.State,
			Country:     req.Country,
		}
		if req.Price != nil {
			price, err := decimal.NewFromString(*req.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
				return
			}
			input.Price = &price
		}
		if req.Type != nil {
			propertyType, ok := enums.ParsePropertyType(*req.Type)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown property type"))
				return
			}
			input.Type = &propertyType
		}
		if req.Status != nil {
			status, ok := enums.ParsePropertyStatus(*req.Status)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown property status"))
				return
			}
			input.Status = &status
		}
		if req.AgentID != nil {
			agentID, err := uuid.Parse(*req.AgentID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent id"))
				return
			}
			input.AgentID = &agentID
		}

		view, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DeleteProperty removes a listing. ADMIN+.
func DeleteProperty(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "propertyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
