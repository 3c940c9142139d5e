package appointments

import (
	"context"
	"strings"
	"time"

	"github.com/casalia/realty-backend/internal/mailer"
	"github.com/casalia/realty-backend/pkg/config"
	"github.com/casalia/realty-backend/pkg/db/models"
	"github.com/casalia/realty-backend/pkg/enums"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/logger"
	"github.com/casalia/realty-backend/pkg/metrics"
	"github.com/casalia/realty-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the scheduling engine: booking, rescheduling, reassignment and
// cancellation of property viewings with per-agent conflict detection.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	List(ctx context.Context, params ListParams) (*pagination.Page[View], error)
	ListForClient(ctx context.Context, email, phone string, params pagination.Params) (*pagination.Page[View], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	ReassignAgent(ctx context.Context, id, agentID uuid.UUID) (*View, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// PropertyDirectory is the listing lookup surface the engine needs.
type PropertyDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error)
}

// AgentDirectory is the user lookup surface the engine needs.
type AgentDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Leaser provides the cross-instance booking lease. May be nil.
type Leaser interface {
	AcquireLease(ctx context.Context, scope, owner string, ttl time.Duration) (bool, func(), error)
}

// BookingNotifier dispatches the booked emails. May be nil.
type BookingNotifier interface {
	NotifyBooked(ctx context.Context, msg mailer.BookingNotification) error
}

type service struct {
	repo       Repository
	properties PropertyDirectory
	agents     AgentDirectory
	tx         TxRunner
	lease      Leaser
	locks      *agentLocks
	notifier   BookingNotifier
	metrics    *metrics.SchedulingMetrics
	logg       *logger.Logger
	booking    config.BookingConfig
}

// NewService wires the scheduling engine dependencies.
func NewService(
	repo Repository,
	properties PropertyDirectory,
	agents AgentDirectory,
	tx TxRunner,
	lease Leaser,
	notifier BookingNotifier,
	schedMetrics *metrics.SchedulingMetrics,
	logg *logger.Logger,
	booking config.BookingConfig,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "appointments repository required")
	}
	if properties == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "property directory required")
	}
	if agents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "agent directory required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:       repo,
		properties: properties,
		agents:     agents,
		tx:         tx,
		lease:      lease,
		locks:      newAgentLocks(),
		notifier:   notifier,
		metrics:    schedMetrics,
		logg:       logg,
		booking:    booking,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	start := time.Now()

	if input.PropertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}
	if input.AppointmentAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment time required")
	}
	if len(strings.TrimSpace(input.Message)) < 10 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message must be at least 10 characters")
	}

	property, err := s.properties.FindByID(ctx, input.PropertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	if property == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
	}

	// The listing's agent hosts the viewing, whatever the caller sent. A
	// listing without a resolvable agent is corrupt data, not a bad request.
	agentID := property.AgentID
	if agentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "listing has no agent")
	}

	agent, err := s.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	if agent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "listing agent missing from directory")
	}

	appointment := &models.Appointment{
		ID:            uuid.New(),
		PropertyID:    property.ID,
		AgentID:       agentID,
		ClientName:    strings.TrimSpace(input.ClientName),
		ClientEmail:   strings.TrimSpace(input.ClientEmail),
		ClientPhone:   strings.TrimSpace(input.ClientPhone),
		Message:       strings.TrimSpace(input.Message),
		Status:        enums.AppointmentStatusPending,
		AppointmentAt: input.AppointmentAt.UTC(),
	}

	if err := s.bookSlot(ctx, agentID, appointment.AppointmentAt, nil, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, appointment)
	}); err != nil {
		s.observe("create", start, err)
		return nil, err
	}
	s.observe("create", start, nil)

	s.dispatchBookedEmails(ctx, appointment, property, agent)

	view := newView(*appointment, property, agent)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, *appointment)
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[View], error) {
	pageParams := pagination.Params{Page: params.Page, Limit: params.Limit}
	rows, total, err := s.repo.List(ctx, ListQuery{
		Status:     params.Status,
		AgentID:    params.AgentID,
		PropertyID: params.PropertyID,
		Search:     params.Search,
		Pagination: pageParams,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}

	views, err := s.buildViews(ctx, rows)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(views, total, pageParams)
	return &page, nil
}

func (s *service) ListForClient(ctx context.Context, email, phone string, params pagination.Params) (*pagination.Page[View], error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email or phone required")
	}

	rows, total, err := s.repo.FindForClient(ctx, email, phone, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list client appointments")
	}

	views, err := s.buildViews(ctx, rows)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(views, total, params)
	return &page, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	start := time.Now()

	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ClientName != nil {
		appointment.ClientName = strings.TrimSpace(*input.ClientName)
	}
	if input.ClientEmail != nil {
		appointment.ClientEmail = strings.TrimSpace(*input.ClientEmail)
	}
	if input.ClientPhone != nil {
		appointment.ClientPhone = strings.TrimSpace(*input.ClientPhone)
	}
	if input.Message != nil {
		if len(strings.TrimSpace(*input.Message)) < 10 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "message must be at least 10 characters")
		}
		appointment.Message = strings.TrimSpace(*input.Message)
	}
	if input.Status != nil {
		next := *input.Status
		if !next.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown appointment status")
		}
		if !appointment.Status.CanTransitionTo(next) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "state transition disallowed").
				WithDetails(map[string]any{"from": appointment.Status, "to": next})
		}
		appointment.Status = next
	}

	timeChanged := input.AppointmentAt != nil && !input.AppointmentAt.UTC().Equal(appointment.AppointmentAt)
	if timeChanged {
		appointment.AppointmentAt = input.AppointmentAt.UTC()
	}

	if timeChanged {
		// Rescheduling re-probes the window, excluding this appointment.
		excludeID := appointment.ID
		err = s.bookSlot(ctx, appointment.AgentID, appointment.AppointmentAt, &excludeID, func(tx *gorm.DB) error {
			return saveExisting(ctx, s.repo.WithTx(tx), appointment)
		})
	} else {
		err = saveExisting(ctx, s.repo, appointment)
	}
	if err != nil {
		s.observe("update", start, err)
		return nil, err
	}
	s.observe("update", start, nil)

	return s.buildView(ctx, *appointment)
}

func (s *service) ReassignAgent(ctx context.Context, id, agentID uuid.UUID) (*View, error) {
	start := time.Now()

	if agentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent id required")
	}

	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	// Same agent is a no-op, not an error.
	if appointment.AgentID == agentID {
		return s.buildView(ctx, *appointment)
	}

	target, err := s.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load target agent")
	}
	if target == nil || !target.IsActive || !target.AgentCapable() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAgent, "target is not a valid agent").
			WithDetails(map[string]any{"agent_id": agentID})
	}

	excludeID := appointment.ID
	err = s.bookSlot(ctx, agentID, appointment.AppointmentAt, &excludeID, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpdateAgent(ctx, appointment.ID, agentID)
	})
	if err != nil {
		s.observe("reassign", start, err)
		return nil, err
	}
	s.observe("reassign", start, nil)

	appointment.AgentID = agentID
	return s.buildView(ctx, *appointment)
}

func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete appointment")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}
	return nil
}

// bookSlot serializes the probe-then-write pair for one agent: in-process
// mutex first, then the cross-instance lease, then the conflict probe and the
// write inside one transaction.
func (s *service) bookSlot(ctx context.Context, agentID uuid.UUID, at time.Time, excludeID *uuid.UUID, write func(tx *gorm.DB) error) error {
	unlock := s.locks.Lock(agentID)
	defer unlock()

	release, err := s.acquireAgentLease(ctx, agentID)
	if err != nil {
		return err
	}
	defer release()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		conflicts, err := s.repo.WithTx(tx).FindConflicting(ctx, agentID, at, excludeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "probe conflicts")
		}
		// The 409 body names the busy agent only. The colliding booking
		// belongs to another client and none of its fields may leak.
		if len(conflicts) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "agent already has an appointment near this time").
				WithDetails(map[string]any{"agent_id": agentID})
		}
		if err := write(tx); err != nil {
			if pkgerrors.As(err) != nil {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write appointment")
		}
		return nil
	})
}

// saveExisting persists a loaded appointment and maps a vanished row to
// NotFound instead of letting the update silently do nothing.
func saveExisting(ctx context.Context, repo Repository, appointment *models.Appointment) error {
	found, err := repo.Save(ctx, appointment)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save appointment")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}
	return nil
}

// acquireAgentLease takes the redis lease for the agent, retrying until the
// configured wait limit. Redis being down degrades to the local mutex only.
func (s *service) acquireAgentLease(ctx context.Context, agentID uuid.UUID) (func(), error) {
	if s.lease == nil {
		return func() {}, nil
	}

	scope := "agent:" + agentID.String()
	owner := uuid.NewString()
	deadline := time.Now().Add(s.booking.LockWaitLimit)

	for {
		won, release, err := s.lease.AcquireLease(ctx, scope, owner, s.booking.LockTTL)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "booking.lease.unavailable")
			}
			return func() {}, nil
		}
		if won {
			return release, nil
		}
		if time.Now().After(deadline) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "agent is being booked, retry shortly")
		}
		select {
		case <-ctx.Done():
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "booking cancelled")
		case <-time.After(s.booking.LockRetry):
		}
	}
}

func (s *service) loadAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}
	if appointment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}
	return appointment, nil
}

func (s *service) buildView(ctx context.Context, appointment models.Appointment) (*View, error) {
	views, err := s.buildViews(ctx, []models.Appointment{appointment})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) buildViews(ctx context.Context, rows []models.Appointment) ([]View, error) {
	if len(rows) == 0 {
		return []View{}, nil
	}

	propertyIDs := make([]uuid.UUID, 0, len(rows))
	agentIDs := make([]uuid.UUID, 0, len(rows))
	seenProperties := map[uuid.UUID]bool{}
	seenAgents := map[uuid.UUID]bool{}
	for _, row := range rows {
		if !seenProperties[row.PropertyID] {
			seenProperties[row.PropertyID] = true
			propertyIDs = append(propertyIDs, row.PropertyID)
		}
		if !seenAgents[row.AgentID] {
			seenAgents[row.AgentID] = true
			agentIDs = append(agentIDs, row.AgentID)
		}
	}

	properties, err := s.properties.FindByIDs(ctx, propertyIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load properties")
	}
	agents, err := s.agents.FindByIDs(ctx, agentIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agents")
	}

	propertyByID := make(map[uuid.UUID]*models.Property, len(properties))
	for i := range properties {
		propertyByID[properties[i].ID] = &properties[i]
	}
	agentByID := make(map[uuid.UUID]*models.User, len(agents))
	for i := range agents {
		agentByID[agents[i].ID] = &agents[i]
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, newView(row, propertyByID[row.PropertyID], agentByID[row.AgentID]))
	}
	return views, nil
}

func (s *service) dispatchBookedEmails(ctx context.Context, appointment *models.Appointment, property *models.Property, agent *models.User) {
	if s.notifier == nil {
		return
	}

	msg := mailer.BookingNotification{
		ClientName:    appointment.ClientName,
		ClientEmail:   appointment.ClientEmail,
		AgentName:     agent.FullName(),
		AgentEmail:    agent.Email,
		PropertyTitle: property.Title,
		AppointmentAt: appointment.AppointmentAt,
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.NotifyBooked(bg, msg); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(bg, "error", err.Error()), "booking.notify.failed")
		}
	}()
}

func (s *service) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(op, time.Since(start))
	switch {
	case err == nil:
		s.metrics.IncBooked(op)
	case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeConflict:
		s.metrics.IncConflict(op)
	default:
		s.metrics.IncFailure(op)
	}
}

