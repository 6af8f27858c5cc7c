package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxmaindev/citizen-appeals/entity"
)

func TestCreatePersistsInactiveUsers(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	inactive := entity.User{Email: "off@example.com", Role: entity.RoleDispatcher, IsActive: false}
	require.NoError(t, repo.Create(&inactive))
	active := entity.User{Email: "on@example.com", Role: entity.RoleDispatcher, IsActive: true}
	require.NoError(t, repo.Create(&active))

	got, err := repo.FindByID(inactive.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	staff, err := repo.ActiveByRoles(entity.RoleDispatcher)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, active.ID, staff[0].ID)
}
