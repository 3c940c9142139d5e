package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/casalia/realty-backend/api/middleware"
	"github.com/casalia/realty-backend/api/responses"
	"github.com/casalia/realty-backend/api/validators"
	"github.com/casalia/realty-backend/internal/appointments"
	"github.com/casalia/realty-backend/pkg/enums"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/logger"
	"github.com/casalia/realty-backend/pkg/pagination"
)

type createAppointmentRequest struct {
	PropertyID      string `json:"propertyId" validate:"required,uuid"`
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
	Message         string `json:"message" validate:"required,min=10"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
}

type updateAppointmentRequest struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber     *string `json:"phoneNumber,omitempty"`
	Message         *string `json:"message,omitempty" validate:"omitempty,min=10"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONTACTED CONFIRMED CANCELLED"`
	AppointmentDate *string `json:"appointmentDate,omitempty"`
}

type reassignAgentRequest struct {
	NewAgentID string `json:"newAgentId" validate:"required,uuid"`
}

// CreateAppointment books a viewing for a listing. Public.
func CreateAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAppointmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		propertyID, err := uuid.Parse(req.PropertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property id"))
			return
		}
		at, err := time.Parse(time.RFC3339, req.AppointmentDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "appointmentDate must be RFC 3339"))
			return
		}

		view, err := svc.Create(r.Context(), appointments.CreateInput{
			PropertyID:    propertyID,
			ClientName:    req.Name,
			ClientEmail:   req.Email,
			ClientPhone:   req.PhoneNumber,
			Message:       req.Message,
			AppointmentAt: at,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListAppointments returns the admin listing with filters.
func ListAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := appointments.ListParams{Search: strings.TrimSpace(r.URL.Query().Get("search"))}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, ok := enums.ParseAppointmentStatus(raw)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			params.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("agentId")); raw != "" {
			agentID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent id"))
				return
			}
			params.AgentID = &agentID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("propertyId")); raw != "" {
			propertyID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property id"))
				return
			}
			params.PropertyID = &propertyID
		}

		page, limit, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Page, params.Limit = page, limit

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MyAppointments returns the caller's own bookings, matched by the
// authenticated email and an optional phone query parameter.
func MyAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := middleware.UserEmailFromContext(r.Context())
		phone := strings.TrimSpace(r.URL.Query().Get("phone"))

		page, limit, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListForClient(r.Context(), email, phone, pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetAppointment returns one appointment by id.
func GetAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "appointmentId")
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

// UpdateAppointment patches client details, status, or the booked instant.
func UpdateAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "appointmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateAppointmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := appointments.UpdateInput{
			ClientName:  req.Name,
			ClientEmail: req.Email,
			ClientPhone: req.PhoneNumber,
			Message:     req.Message,
		}
		if req.Status != nil {
			status, ok := enums.ParseAppointmentStatus(*req.Status)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown appointment status"))
				return
			}
			input.Status = &status
		}
		if req.AppointmentDate != nil {
			at, err := time.Parse(time.RFC3339, *req.AppointmentDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "appointmentDate must be RFC 3339"))
				return
			}
			input.AppointmentAt = &at
		}

		view, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ReassignAppointmentAgent moves the appointment to another agent.
func ReassignAppointmentAgent(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "appointmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req reassignAgentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		agentID, err := uuid.Parse(req.NewAgentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent id"))
			return
		}

		view, err := svc.ReassignAgent(r.Context(), id, agentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DeleteAppointment removes the appointment outright.
func DeleteAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "appointmentId")
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

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}

func pageParams(r *http.Request) (int, int, error) {
	page := 0
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "page must be a positive integer")
		}
		page = value
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
		}
		limit = value
	}
	return page, limit, nil
}
