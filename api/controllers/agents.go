package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/casalia/realty-backend/api/responses"
	"github.com/casalia/realty-backend/api/validators"
	"github.com/casalia/realty-backend/internal/agents"
	"github.com/casalia/realty-backend/pkg/enums"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/logger"
)

type createAgentRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone" validate:"required"`
	Password  string   `json:"password" validate:"required,min=8"`
	FirstName string   `json:"firstName" validate:"required"`
	LastName  string   `json:"lastName" validate:"required"`
	Avatar    *string  `json:"avatar,omitempty"`
	Roles     []string `json:"roles" validate:"omitempty,dive,oneof=USER ADMIN SUPERADMIN"`
}

type updateAgentRequest struct {
	Phone     *string   `json:"phone,omitempty"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	Roles     *[]string `json:"roles,omitempty" validate:"omitempty,dive,oneof=USER ADMIN SUPERADMIN"`
}

// CreateAgent registers a directory member. ADMIN+.
func CreateAgent(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAgentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		roles, err := parseRoles(req.Roles)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), agents.CreateInput{
			Email:     req.Email,
			Phone:     req.Phone,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Avatar:    req.Avatar,
			Roles:     roles,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListAgents returns the directory listing. ADMIN+.
func ListAgents(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := agents.ListParams{Search: strings.TrimSpace(r.URL.Query().Get("search"))}

		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, ok := enums.ParseUserRole(raw)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown role filter"))
				return
			}
			params.Role = &role
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("active")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid active value"))
				return
			}
			params.IsActive = &value
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

// GetAgent returns one directory member by id. ADMIN+.
func GetAgent(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "agentId")
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

// UpdateAgent patches a directory member. ADMIN+.
func UpdateAgent(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateAgentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := agents.UpdateInput{
			Phone:     req.Phone,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Avatar:    req.Avatar,
		}
		if req.Roles != nil {
			roles, err := parseRoles(*req.Roles)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Roles = &roles
		}

		view, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// DeactivateAgent flips the member inactive once nothing depends on them. ADMIN+.
func DeactivateAgent(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func parseRoles(raw []string) ([]enums.UserRole, error) {
	roles := make([]enums.UserRole, 0, len(raw))
	for _, value := range raw {
		role, ok := enums.ParseUserRole(value)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role").
				WithDetails(map[string]any{"role": value})
		}
		roles = append(roles, role)
	}
	return roles, nil
}
