package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/casalia/realty-backend/pkg/db/models"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/casalia/realty-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for appointments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	// FindConflicting returns non-cancelled appointments for the agent whose
	// instant falls strictly inside the busy window around at. excludeID
	// removes the appointment being rescheduled from its own probe.
	FindConflicting(ctx context.Context, agentID uuid.UUID, at time.Time, excludeID *uuid.UUID) ([]models.Appointment, error)
	List(ctx context.Context, params ListQuery) ([]models.Appointment, int64, error)
	FindForClient(ctx context.Context, email, phone string, params pagination.Params) ([]models.Appointment, int64, error)
	CountBlockingForAgent(ctx context.Context, agentID uuid.UUID) (int64, error)
	// Save updates an existing row and reports false when it no longer
	// exists, so a concurrent delete never turns into a re-insert.
	Save(ctx context.Context, appointment *models.Appointment) (bool, error)
	UpdateAgent(ctx context.Context, id, agentID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ListQuery filters the admin-facing appointment listing.
type ListQuery struct {
	Status     *enums.AppointmentStatus
	AgentID    *uuid.UUID
	PropertyID *uuid.UUID
	Search     string
	Pagination pagination.Params
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an appointments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *repositoryImpl) FindConflicting(ctx context.Context, agentID uuid.UUID, at time.Time, excludeID *uuid.UUID) ([]models.Appointment, error) {
	from, to := conflictWindow(at)

	query := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("agent_id = ?", agentID).
		Where("appointment_at > ? AND appointment_at < ?", from, to).
		Where("status <> ?", enums.AppointmentStatusCancelled)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var conflicts []models.Appointment
	if err := query.Order("appointment_at ASC").Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

func (r *repositoryImpl) List(ctx context.Context, params ListQuery) ([]models.Appointment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Appointment{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.AgentID != nil {
		query = query.Where("agent_id = ?", *params.AgentID)
	}
	if params.PropertyID != nil {
		query = query.Where("property_id = ?", *params.PropertyID)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(client_name) LIKE ? OR LOWER(client_email) LIKE ? OR client_phone LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Pagination.Normalize()
	var rows []models.Appointment
	err := query.
		Order("appointment_at DESC").
		Limit(page.Limit).
		Offset(params.Pagination.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) FindForClient(ctx context.Context, email, phone string, params pagination.Params) ([]models.Appointment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Appointment{})

	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	switch {
	case email != "" && phone != "":
		query = query.Where("client_email = ? OR client_phone = ?", email, phone)
	case email != "":
		query = query.Where("client_email = ?", email)
	default:
		query = query.Where("client_phone = ?", phone)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Normalize()
	var rows []models.Appointment
	err := query.
		Order("appointment_at DESC").
		Limit(page.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) CountBlockingForAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("agent_id = ?", agentID).
		Where("status IN ?", []enums.AppointmentStatus{enums.AppointmentStatusPending, enums.AppointmentStatusContacted}).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) Save(ctx context.Context, appointment *models.Appointment) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointment.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(appointment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) UpdateAgent(ctx context.Context, id, agentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		UpdateColumn("agent_id", agentID).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
