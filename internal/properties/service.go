package properties

import (
	"context"
	"strings"

	"github.com/casalia/realty-backend/pkg/config"
	"github.com/casalia/realty-backend/pkg/db/models"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/logger"
	"github.com/casalia/realty-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service exposes the property catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[View], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// AgentLookup resolves the agent a listing is assigned to.
type AgentLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo   Repository
	agents AgentLookup
	cache  *listCache
	logg   *logger.Logger
}

// NewService wires the property catalog. cacheStore may be nil, which
// disables the list cache.
func NewService(repo Repository, agents AgentLookup, cacheStore CacheStore, cacheCfg config.CacheConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "properties repository required")
	}
	if agents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "agent lookup required")
	}
	return &service{
		repo:   repo,
		agents: agents,
		cache:  newListCache(cacheStore, cacheCfg.PropertyListTTL, logg),
		logg:   logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	if err := s.ensureAgent(ctx, input.AgentID); err != nil {
		return nil, err
	}

	property := &models.Property{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Type:        input.Type,
		Status:      input.Status,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		AreaSqm:     input.AreaSqm,
		Images:      imagesValue(input.Images),
		Featured:    input.Featured,
		Street:      strings.TrimSpace(input.Street),
		City:        strings.TrimSpace(input.City),
		State:       strings.TrimSpace(input.State),
		Country:     strings.TrimSpace(input.Country),
		AgentID:     input.AgentID,
	}
	if err := s.repo.Create(ctx, property); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create property")
	}
	s.cache.Invalidate(ctx)

	view := newView(*property)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	property, err := s.loadProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newView(*property)
	return &view, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[View], error) {
	if cached := s.cache.Lookup(ctx, params); cached != nil {
		return cached, nil
	}

	pageParams := pagination.Params{Page: params.Page, Limit: params.Limit}
	rows, total, err := s.repo.List(ctx, params.Filters, pageParams)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list properties")
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, newView(row))
	}
	page := pagination.NewPage(views, total, pageParams)
	s.cache.Store(ctx, params, &page)
	return &page, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	property, err := s.loadProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
		}
		property.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		property.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		property.Price = *input.Price
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown property type")
		}
		property.Type = *input.Type
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown property status")
		}
		property.Status = *input.Status
	}
	if input.Bedrooms != nil {
		property.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		property.Bathrooms = *input.Bathrooms
	}
	if input.AreaSqm != nil {
		property.AreaSqm = *input.AreaSqm
	}
	if input.Images != nil {
		property.Images = imagesValue(*input.Images)
	}
	if input.Featured != nil {
		property.Featured = *input.Featured
	}
	if input.Street != nil {
		property.Street = strings.TrimSpace(*input.Street)
	}
	if input.City != nil {
		property.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		property.State = strings.TrimSpace(*input.State)
	}
	if input.Country != nil {
		property.Country = strings.TrimSpace(*input.Country)
	}
	if input.AgentID != nil && *input.AgentID != property.AgentID {
		if err := s.ensureAgent(ctx, *input.AgentID); err != nil {
			return nil, err
		}
		property.AgentID = *input.AgentID
	}

	if err := s.repo.Save(ctx, property); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save property")
	}
	s.cache.Invalidate(ctx)

	view := newView(*property)
	return &view, nil
}

func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete property")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *service) loadProperty(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	if property == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
	}
	return property, nil
}

func (s *service) ensureAgent(ctx context.Context, agentID uuid.UUID) error {
	if agentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "agent id required")
	}
	agent, err := s.agents.FindByID(ctx, agentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	if agent == nil || !agent.IsActive || !agent.AgentCapable() {
		return pkgerrors.New(pkgerrors.CodeInvalidAgent, "target is not a valid agent").
			WithDetails(map[string]any{"agent_id": agentID})
	}
	return nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if input.Price.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown property type")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown property status")
	}
	return nil
}
