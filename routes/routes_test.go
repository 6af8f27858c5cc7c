package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/configs"
	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/utils"
)

const testSecret = "test-secret"

type env struct {
	router *gin.Engine
	db     *gorm.DB
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.Category{}, &entity.Service{},
		&entity.CategoryService{}, &entity.UserService{},
		&entity.Appeal{}, &entity.AppealHistory{},
		&entity.Comment{}, &entity.Photo{}, &entity.Notification{},
	))

	dir := t.TempDir()
	cfg := &configs.Config{
		JWTSecret:     testSecret,
		JWTTTL:        time.Hour,
		CORSOrigins:   []string{"*"},
		UploadPath:    filepath.Join(dir, "uploads"),
		MaxUploadSize: 5 * 1024 * 1024,
		SettingsPath:  filepath.Join(dir, "settings.json"),
	}

	r := gin.New()
	require.NoError(t, RegisterRoutes(r, db, cfg))
	return &env{router: r, db: db}
}

func (e *env) user(t *testing.T, email, role string) (*entity.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, e.db.Create(&u).Error)

	token, err := utils.GenerateToken(u.ID, role, testSecret, time.Hour)
	require.NoError(t, err)
	return &u, token
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.True(t, envelope.Success, envelope.Error)
	var out map[string]any
	require.NoError(t, json.Unmarshal(envelope.Data, &out))
	return out
}

func (e *env) seedCategory(t *testing.T) *entity.Category {
	t.Helper()
	cat := entity.Category{Name: "Roads", DefaultPriority: 2, IsActive: true}
	require.NoError(t, e.db.Create(&cat).Error)
	return &cat
}

func TestRegisterAndLogin(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":      "citizen@example.com",
		"password":   "secret123",
		"first_name": "Olena",
		"last_name":  "K",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	d := data(t, w)
	assert.NotEmpty(t, d["token"])

	w = e.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "citizen@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "citizen@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	d = data(t, w)
	user := d["user"].(map[string]any)
	assert.Equal(t, "citizen", user["role"])
}

func TestCreateAppealDefaults(t *testing.T) {
	e := setup(t)
	cat := e.seedCategory(t)
	_, token := e.user(t, "citizen@example.com", entity.RoleCitizen)

	w := e.do(t, http.MethodPost, "/appeals", token, gin.H{
		"title":       "Pothole on Main Street",
		"description": "A deep pothole near the crossing, dangerous for cyclists",
		"category_id": cat.ID,
		"latitude":    50.45,
		"longitude":   30.52,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	d := data(t, w)
	assert.NotZero(t, d["id"])
	assert.Equal(t, "new", d["status"])
	assert.Nil(t, d["service_id"])
	assert.Equal(t, float64(2), d["priority"])

	// open appeals carry the computed deadline block; a sliver of the first
	// day is already spent by response time, so 29 full days remain
	slaBlock, ok := d["sla"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", slaBlock["band"])
	assert.Equal(t, float64(29), slaBlock["days_remaining"])
}

func TestCreateAppealValidation(t *testing.T) {
	e := setup(t)
	_, token := e.user(t, "citizen@example.com", entity.RoleCitizen)

	// title too short, no category
	w := e.do(t, http.MethodPost, "/appeals", token, gin.H{
		"title":       "Pot",
		"description": "A deep pothole near the crossing",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unauthenticated
	w = e.do(t, http.MethodPost, "/appeals", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssignAppeal(t *testing.T) {
	e := setup(t)
	cat := e.seedCategory(t)
	citizen, citizenToken := e.user(t, "citizen@example.com", entity.RoleCitizen)
	_, dispatcherToken := e.user(t, "dispatcher@example.com", entity.RoleDispatcher)

	svc := entity.Service{Name: "Road maintenance", IsActive: true}
	require.NoError(t, e.db.Create(&svc).Error)

	w := e.do(t, http.MethodPost, "/appeals", citizenToken, gin.H{
		"title":       "Pothole on Main Street",
		"description": "A deep pothole near the crossing, dangerous for cyclists",
		"category_id": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	appealID := uint(data(t, w)["id"].(float64))

	// citizens cannot assign
	w = e.do(t, http.MethodPatch, fmt.Sprintf("/appeals/%d/assign", appealID), citizenToken, gin.H{
		"service_id": svc.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPatch, fmt.Sprintf("/appeals/%d/assign", appealID), dispatcherToken, gin.H{
		"service_id": svc.ID,
		"priority":   3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := data(t, w)
	assert.Equal(t, "assigned", d["status"])
	assert.Equal(t, float64(svc.ID), d["service_id"])
	assert.Equal(t, float64(3), d["priority"])

	// exactly one history row, recording the transition
	w = e.do(t, http.MethodGet, fmt.Sprintf("/appeals/%d/history", appealID), dispatcherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []entity.AppealHistory `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "assigned", envelope.Data[0].NewStatus)
	assert.Equal(t, "new", *envelope.Data[0].OldStatus)
	assert.Equal(t, "assigned", envelope.Data[0].Action)

	// the appeal's creator keeps seeing their own appeal
	w = e.do(t, http.MethodGet, fmt.Sprintf("/appeals/%d", appealID), citizenToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(citizen.ID), data(t, w)["user_id"])
}

func TestStatusChangeStampsClosedAt(t *testing.T) {
	e := setup(t)
	cat := e.seedCategory(t)
	_, citizenToken := e.user(t, "citizen@example.com", entity.RoleCitizen)
	_, dispatcherToken := e.user(t, "dispatcher@example.com", entity.RoleDispatcher)

	w := e.do(t, http.MethodPost, "/appeals", citizenToken, gin.H{
		"title":       "Broken street lamp",
		"description": "The lamp near house 12 has been dark for a week",
		"category_id": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	appealID := uint(data(t, w)["id"].(float64))

	w = e.do(t, http.MethodPatch, fmt.Sprintf("/appeals/%d/status", appealID), dispatcherToken, gin.H{
		"status": "closed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := data(t, w)
	assert.Equal(t, "closed", d["status"])
	assert.NotNil(t, d["closed_at"])
	// closed appeals carry no deadline block
	assert.Nil(t, d["sla"])

	// repeating the same status adds no history row
	w = e.do(t, http.MethodPatch, fmt.Sprintf("/appeals/%d/status", appealID), dispatcherToken, gin.H{
		"status": "closed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, e.db.Model(&entity.AppealHistory{}).
		Where("appeal_id = ?", appealID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNotificationsMarkRead(t *testing.T) {
	e := setup(t)
	u, token := e.user(t, "citizen@example.com", entity.RoleCitizen)

	for i := 0; i < 2; i++ {
		n := entity.Notification{
			UserID:  u.ID,
			Type:    entity.NotificationStatusChanged,
			Title:   "Appeal status changed",
			Message: fmt.Sprintf("update %d", i),
		}
		require.NoError(t, e.db.Create(&n).Error)
	}

	w := e.do(t, http.MethodGet, "/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), data(t, w)["count"])

	w = e.do(t, http.MethodGet, "/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := data(t, w)["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, false, first["is_read"])
	id := uint(first["id"].(float64))

	w = e.do(t, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, data(t, w)["is_read"])

	w = e.do(t, http.MethodGet, "/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), data(t, w)["count"])

	// someone else's notification is untouchable
	_, otherToken := e.user(t, "other@example.com", entity.RoleCitizen)
	w = e.do(t, http.MethodPut, fmt.Sprintf("/notifications/%d/read", id), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	e := setup(t)
	_, citizenToken := e.user(t, "citizen@example.com", entity.RoleCitizen)
	_, adminToken := e.user(t, "admin@example.com", entity.RoleAdmin)

	w := e.do(t, http.MethodGet, "/settings", citizenToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.8, data(t, w)["confidence_threshold"])

	// only admins may write
	w = e.do(t, http.MethodPut, "/settings", citizenToken, gin.H{"confidence_threshold": 0.9})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPut, "/settings", adminToken, gin.H{
		"city_name":            "Lviv",
		"map_center_lat":       49.84,
		"map_center_lng":       24.03,
		"map_zoom":             13,
		"confidence_threshold": 0.9,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := data(t, w)
	assert.Equal(t, "Lviv", d["city_name"])
	assert.Equal(t, 0.9, d["confidence_threshold"])
}

func TestAppealsListScoping(t *testing.T) {
	e := setup(t)
	cat := e.seedCategory(t)
	_, aliceToken := e.user(t, "alice@example.com", entity.RoleCitizen)
	_, bobToken := e.user(t, "bob@example.com", entity.RoleCitizen)
	_, dispatcherToken := e.user(t, "dispatcher@example.com", entity.RoleDispatcher)

	w := e.do(t, http.MethodPost, "/appeals", aliceToken, gin.H{
		"title":       "Pothole on Main Street",
		"description": "A deep pothole near the pedestrian crossing",
		"category_id": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	appealID := uint(data(t, w)["id"].(float64))

	// other citizens neither list nor read it
	w = e.do(t, http.MethodGet, "/appeals", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, data(t, w)["items"])

	w = e.do(t, http.MethodGet, fmt.Sprintf("/appeals/%d", appealID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// dispatchers see everything
	w = e.do(t, http.MethodGet, "/appeals", dispatcherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), data(t, w)["total"])
}
