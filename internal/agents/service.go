package agents

import (
	"context"
	"strings"

	"github.com/casalia/realty-backend/pkg/config"
	"github.com/casalia/realty-backend/pkg/db/models"
	dbtypes "github.com/casalia/realty-backend/pkg/db/types"
	"github.com/casalia/realty-backend/pkg/enums"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/pagination"
	"github.com/casalia/realty-backend/pkg/security"
	"github.com/google/uuid"
)

// Service exposes the agent directory operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[View], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*View, error)
}

// ListingCounter reports how many listings an agent currently holds.
type ListingCounter interface {
	CountByAgent(ctx context.Context, agentID uuid.UUID) (int64, error)
}

// AppointmentCounter reports how many appointments still need the agent.
type AppointmentCounter interface {
	CountBlockingForAgent(ctx context.Context, agentID uuid.UUID) (int64, error)
}

type service struct {
	repo         Repository
	listings     ListingCounter
	appointments AppointmentCounter
	password     config.PasswordConfig
}

// NewService wires the agent directory dependencies.
func NewService(repo Repository, listings ListingCounter, appointments AppointmentCounter, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "agents repository required")
	}
	if listings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "listing counter required")
	}
	if appointments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "appointment counter required")
	}
	return &service{
		repo:         repo,
		listings:     listings,
		appointments: appointments,
		password:     password,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	roles := input.Roles
	if len(roles) == 0 {
		roles = []enums.UserRole{enums.UserRoleUser}
	}
	for _, role := range roles {
		if !role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role").
				WithDetails(map[string]any{"role": role})
		}
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Avatar:       input.Avatar,
		Roles:        dbtypes.RoleArray(roles),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	view := newView(*user)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newView(*user)
	return &view, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[View], error) {
	pageParams := pagination.Params{Page: params.Page, Limit: params.Limit}
	rows, total, err := s.repo.List(ctx, ListFilters{
		Role:     params.Role,
		IsActive: params.IsActive,
		Search:   params.Search,
	}, pageParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, newView(row))
	}
	page := pagination.NewPage(views, total, pageParams)
	return &page, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil {
		if strings.TrimSpace(*input.Phone) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
		}
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}
	if input.Roles != nil {
		if len(*input.Roles) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one role required")
		}
		for _, role := range *input.Roles {
			if !role.IsValid() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role").
					WithDetails(map[string]any{"role": role})
			}
		}
		user.Roles = dbtypes.RoleArray(*input.Roles)
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}

	view := newView(*user)
	return &view, nil
}

// Deactivate flips the active flag off. Agents still holding listings or
// appointments in PENDING/CONTACTED cannot be deactivated.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*View, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		view := newView(*user)
		return &view, nil
	}

	listings, err := s.listings.CountByAgent(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count listings")
	}
	blocking, err := s.appointments.CountBlockingForAgent(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count appointments")
	}
	if listings > 0 || blocking > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "agent still has active assignments").
			WithDetails(map[string]any{
				"listings":     listings,
				"appointments": blocking,
			})
	}

	user.IsActive = false
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}

	view := newView(*user)
	return &view, nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}
