package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/casalia/realty-backend/pkg/db/models"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/casalia/realty-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAppointmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	appointments := `
CREATE TABLE IF NOT EXISTS appointments (
  id TEXT PRIMARY KEY,
  property_id TEXT NOT NULL,
  agent_id TEXT NOT NULL,
  client_name TEXT NOT NULL,
  client_email TEXT NOT NULL,
  client_phone TEXT NOT NULL,
  message TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  appointment_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(appointments).Error)
	return db
}

func seedAppointment(t *testing.T, db *gorm.DB, agentID uuid.UUID, at time.Time, status enums.AppointmentStatus) *models.Appointment {
	t.Helper()

	appointment := &models.Appointment{
		ID:            uuid.New(),
		PropertyID:    uuid.New(),
		AgentID:       agentID,
		ClientName:    "Dana Client",
		ClientEmail:   "dana@example.com",
		ClientPhone:   "+15550001111",
		Message:       "I would like to view this property",
		Status:        status,
		AppointmentAt: at,
	}
	require.NoError(t, db.Create(appointment).Error)
	return appointment
}

func TestFindConflictingWindowBounds(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	base := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	seedAppointment(t, db, agent, base, enums.AppointmentStatusPending)

	// Strictly inside the window clashes.
	conflicts, err := repo.FindConflicting(ctx, agent, base.Add(30*time.Minute), nil)
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)

	// Exactly on the open boundary does not.
	conflicts, err = repo.FindConflicting(ctx, agent, base.Add(3599000*time.Millisecond), nil)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	conflicts, err = repo.FindConflicting(ctx, agent, base.Add(-3599000*time.Millisecond), nil)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	// One millisecond inside the boundary clashes again.
	conflicts, err = repo.FindConflicting(ctx, agent, base.Add(3598999*time.Millisecond), nil)
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
}

func TestFindConflictingScopesByAgent(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	busyAgent := uuid.New()
	base := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	seedAppointment(t, db, busyAgent, base, enums.AppointmentStatusPending)

	conflicts, err := repo.FindConflicting(ctx, uuid.New(), base, nil)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictingIgnoresCancelled(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	base := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	seedAppointment(t, db, agent, base, enums.AppointmentStatusCancelled)

	conflicts, err := repo.FindConflicting(ctx, agent, base, nil)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictingExcludesSelf(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	base := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	existing := seedAppointment(t, db, agent, base, enums.AppointmentStatusPending)

	// Rescheduling the same appointment within its own window is fine.
	conflicts, err := repo.FindConflicting(ctx, agent, base.Add(10*time.Minute), &existing.ID)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	// But another appointment still clashes.
	other := seedAppointment(t, db, agent, base.Add(2*time.Hour), enums.AppointmentStatusPending)
	conflicts, err = repo.FindConflicting(ctx, agent, base.Add(90*time.Minute), &existing.ID)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, other.ID, conflicts[0].ID)
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedAppointment(t, db, agent, base.Add(time.Duration(i)*2*time.Hour), enums.AppointmentStatusPending)
	}
	cancelledAt := base.Add(24 * time.Hour)
	seedAppointment(t, db, agent, cancelledAt, enums.AppointmentStatusCancelled)

	status := enums.AppointmentStatusPending
	rows, total, err := repo.List(ctx, ListQuery{
		Status:     &status,
		AgentID:    &agent,
		Pagination: pagination.Params{Page: 1, Limit: 3},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, rows, 3)

	rows, total, err = repo.List(ctx, ListQuery{
		Status:     &status,
		AgentID:    &agent,
		Pagination: pagination.Params{Page: 2, Limit: 3},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, rows, 2)
}

func TestListSearchesClientFields(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	match := seedAppointment(t, db, agent, base, enums.AppointmentStatusPending)
	seedOther := seedAppointment(t, db, agent, base.Add(3*time.Hour), enums.AppointmentStatusPending)
	require.NoError(t, db.Model(seedOther).UpdateColumns(map[string]any{
		"client_name":  "Sam Other",
		"client_email": "sam@other.test",
	}).Error)

	rows, total, err := repo.List(ctx, ListQuery{Search: "dana@", Pagination: pagination.Params{}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, match.ID, rows[0].ID)
}

func TestFindForClientMatchesEmailOrPhone(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	seedAppointment(t, db, agent, base, enums.AppointmentStatusPending)
	other := seedAppointment(t, db, agent, base.Add(3*time.Hour), enums.AppointmentStatusPending)
	require.NoError(t, db.Model(other).UpdateColumns(map[string]any{
		"client_email": "sam@other.test",
		"client_phone": "+15559998888",
	}).Error)

	rows, total, err := repo.FindForClient(ctx, "dana@example.com", "", pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, rows, 1)

	rows, total, err = repo.FindForClient(ctx, "", "+15559998888", pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, other.ID, rows[0].ID)

	rows, total, err = repo.FindForClient(ctx, "dana@example.com", "+15559998888", pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)
}

func TestCountBlockingForAgent(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	seedAppointment(t, db, agent, base, enums.AppointmentStatusPending)
	seedAppointment(t, db, agent, base.Add(2*time.Hour), enums.AppointmentStatusContacted)
	seedAppointment(t, db, agent, base.Add(4*time.Hour), enums.AppointmentStatusConfirmed)
	seedAppointment(t, db, agent, base.Add(6*time.Hour), enums.AppointmentStatusCancelled)

	count, err := repo.CountBlockingForAgent(ctx, agent)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestDeleteReportsMissingRows(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	appointment := seedAppointment(t, db, agent, time.Now().UTC(), enums.AppointmentStatusPending)

	found, err := repo.Delete(ctx, appointment.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Delete(ctx, appointment.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateAgentPersistsOnlyAgent(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := uuid.New()
	appointment := seedAppointment(t, db, agent, time.Now().UTC(), enums.AppointmentStatusContacted)

	newAgent := uuid.New()
	require.NoError(t, repo.UpdateAgent(ctx, appointment.ID, newAgent))

	reloaded, err := repo.FindByID(ctx, appointment.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, newAgent, reloaded.AgentID)
	assert.Equal(t, enums.AppointmentStatusContacted, reloaded.Status)
	assert.Equal(t, appointment.ClientEmail, reloaded.ClientEmail)
}

func TestSaveUpdatesExistingOnly(t *testing.T) {
	db := setupAppointmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	appointment := seedAppointment(t, db, uuid.New(), at, enums.AppointmentStatusPending)
	appointment.Status = enums.AppointmentStatusContacted
	appointment.Message = "Client confirmed availability by phone"

	found, err := repo.Save(ctx, appointment)
	require.NoError(t, err)
	assert.True(t, found)

	stored, err := repo.FindByID(ctx, appointment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, enums.AppointmentStatusContacted, stored.Status)

	// A row deleted out from under the caller must not be re-inserted.
	deleted, err := repo.Delete(ctx, appointment.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	found, err = repo.Save(ctx, appointment)
	require.NoError(t, err)
	assert.False(t, found)

	stored, err = repo.FindByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
