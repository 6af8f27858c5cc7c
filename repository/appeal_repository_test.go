package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.Category{}, &entity.Service{},
		&entity.Appeal{}, &entity.AppealHistory{},
	))
	return db
}

func seedAppeals(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()
	user := entity.User{Email: "u@example.com", Role: entity.RoleCitizen, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	svc := entity.Service{Name: "Road maintenance", IsActive: true}
	require.NoError(t, db.Create(&svc).Error)

	for i := 0; i < 5; i++ {
		a := entity.Appeal{
			UserID:      user.ID,
			Title:       fmt.Sprintf("Pothole number %d", i),
			Description: "A deep pothole near the crossing",
			Status:      entity.StatusNew,
			Priority:    2,
		}
		if i%2 == 0 {
			a.Status = entity.StatusInProgress
			a.ServiceID = &svc.ID
		}
		require.NoError(t, db.Create(&a).Error)
	}
	return user.ID, svc.ID
}

func TestListFilters(t *testing.T) {
	db := testDB(t)
	_, svcID := seedAppeals(t, db)
	repo := NewAppealRepository(db)

	appeals, total, err := repo.List(AppealFilter{Status: entity.StatusNew})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, appeals, 2)

	appeals, total, err = repo.List(AppealFilter{ServiceID: &svcID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, a := range appeals {
		require.NotNil(t, a.ServiceID)
		assert.Equal(t, svcID, *a.ServiceID)
	}

	_, total, err = repo.List(AppealFilter{Search: "number 3"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(AppealFilter{Search: "no such appeal"})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListClampsPageAndLimit(t *testing.T) {
	db := testDB(t)
	seedAppeals(t, db)
	repo := NewAppealRepository(db)

	// out-of-range values normalize instead of erroring
	appeals, total, err := repo.List(AppealFilter{Page: -3, Limit: 100000})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, appeals, 5)

	appeals, _, err = repo.List(AppealFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, appeals, 2)
}

func TestListSortsByPriority(t *testing.T) {
	db := testDB(t)
	userID, _ := seedAppeals(t, db)
	repo := NewAppealRepository(db)

	urgent := entity.Appeal{
		UserID:      userID,
		Title:       "Open manhole on the sidewalk",
		Description: "Immediate danger to pedestrians",
		Status:      entity.StatusNew,
		Priority:    1,
	}
	require.NoError(t, db.Create(&urgent).Error)

	appeals, _, err := repo.List(AppealFilter{SortBy: "priority"})
	require.NoError(t, err)
	require.NotEmpty(t, appeals)
	assert.Equal(t, 1, appeals[0].Priority)
}

func TestAssignForcesAssignedStatus(t *testing.T) {
	db := testDB(t)
	userID, svcID := seedAppeals(t, db)
	repo := NewAppealRepository(db)

	a := entity.Appeal{
		UserID:      userID,
		Title:       "Fallen tree on the road",
		Description: "Blocked lane after last night's storm",
		Status:      entity.StatusInProgress,
		Priority:    2,
	}
	require.NoError(t, db.Create(&a).Error)

	// no priority passed keeps the stored one
	got, err := repo.Assign(a.ID, userID, svcID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAssigned, got.Status)
	assert.Equal(t, 2, got.Priority)
	require.NotNil(t, got.ServiceID)
	assert.Equal(t, svcID, *got.ServiceID)

	p := 1
	got, err = repo.Assign(a.ID, userID, svcID, &p)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Priority)

	history, err := repo.GetHistory(a.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpdateStatusStampsClosedAtOnce(t *testing.T) {
	db := testDB(t)
	userID, _ := seedAppeals(t, db)
	repo := NewAppealRepository(db)

	a := entity.Appeal{
		UserID:      userID,
		Title:       "Graffiti on the school wall",
		Description: "Fresh paint over the mural near the entrance",
		Status:      entity.StatusInProgress,
		Priority:    2,
	}
	require.NoError(t, db.Create(&a).Error)

	got, changed, err := repo.UpdateStatus(a.ID, userID, entity.StatusCompleted, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, got.ClosedAt)
	firstStamp := *got.ClosedAt

	got, changed, err = repo.UpdateStatus(a.ID, userID, entity.StatusClosed, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, got.ClosedAt)
	assert.Equal(t, firstStamp.Unix(), got.ClosedAt.Unix())

	_, changed, err = repo.UpdateStatus(a.ID, userID, entity.StatusClosed, nil)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdatePriorityUnknownAppeal(t *testing.T) {
	db := testDB(t)
	userID, _ := seedAppeals(t, db)
	repo := NewAppealRepository(db)

	err := repo.UpdatePriority(99999, 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	a := entity.Appeal{
		UserID:      userID,
		Title:       "Fallen tree on the bike lane",
		Description: "Blocking the lane after last night's storm",
		Status:      entity.StatusNew,
		Priority:    2,
	}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, repo.UpdatePriority(a.ID, 3))

	var got entity.Appeal
	require.NoError(t, db.First(&got, a.ID).Error)
	assert.Equal(t, 3, got.Priority)
}
