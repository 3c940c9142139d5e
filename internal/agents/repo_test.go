package agents

import (
	"context"
	"testing"

	"github.com/casalia/realty-backend/pkg/db/models"
	dbtypes "github.com/casalia/realty-backend/pkg/db/types"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/casalia/realty-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAgentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  avatar TEXT,
  roles TEXT NOT NULL DEFAULT '{USER}',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, mutate func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@casalia.test",
		Phone:        "+1555" + uuid.NewString()[:8],
		PasswordHash: "argon2id$stub",
		FirstName:    "Alex",
		LastName:     "Agent",
		Roles:        dbtypes.RoleArray{enums.UserRoleAdmin},
		IsActive:     true,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestFindByEmailIsCaseInsensitive(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedUser(t, db, func(u *models.User) { u.Email = "alex@casalia.test" })

	user, err := repo.FindByEmail(ctx, "  ALEX@Casalia.Test ")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alex@casalia.test", user.Email)

	missing, err := repo.FindByEmail(ctx, "nobody@casalia.test")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListFiltersByRoleAndActive(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	admin := seedUser(t, db, nil)
	seedUser(t, db, func(u *models.User) {
		u.Roles = dbtypes.RoleArray{enums.UserRoleUser}
	})
	seedUser(t, db, func(u *models.User) {
		u.IsActive = false
	})

	role := enums.UserRoleAdmin
	active := true
	rows, total, err := repo.List(ctx, ListFilters{Role: &role, IsActive: &active}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, admin.ID, rows[0].ID)
}

func TestListSearchesNameAndEmail(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	match := seedUser(t, db, func(u *models.User) {
		u.FirstName = "Beatriz"
		u.LastName = "Moreira"
	})
	seedUser(t, db, nil)

	rows, total, err := repo.List(ctx, ListFilters{Search: "beatriz"}, pagination.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, match.ID, rows[0].ID)
}

func TestRolesRoundTripThroughText(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, func(u *models.User) {
		u.Roles = dbtypes.RoleArray{enums.UserRoleAdmin, enums.UserRoleSuperAdmin}
	})

	user, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.Roles.Contains(enums.UserRoleAdmin))
	assert.True(t, user.Roles.Contains(enums.UserRoleSuperAdmin))
	assert.True(t, user.AgentCapable())
}

func TestFindByIDsSkipsUnknown(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := seedUser(t, db, nil)
	second := seedUser(t, db, nil)

	rows, err := repo.FindByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
