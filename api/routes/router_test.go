package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/davidmreyes/pricewatch-backend/internal/auth"
	"github.com/davidmreyes/pricewatch-backend/internal/categories"
	"github.com/davidmreyes/pricewatch-backend/internal/inflation"
	"github.com/davidmreyes/pricewatch-backend/internal/items"
	"github.com/davidmreyes/pricewatch-backend/internal/observations"
	"github.com/davidmreyes/pricewatch-backend/internal/preferences"
	"github.com/davidmreyes/pricewatch-backend/internal/shoppinglists"
	"github.com/davidmreyes/pricewatch-backend/internal/stores"
	"github.com/davidmreyes/pricewatch-backend/internal/users"
	pkgAuth "github.com/davidmreyes/pricewatch-backend/pkg/auth"
	"github.com/davidmreyes/pricewatch-backend/pkg/config"
	"github.com/davidmreyes/pricewatch-backend/pkg/db"
	"github.com/davidmreyes/pricewatch-backend/pkg/db/models"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	"github.com/davidmreyes/pricewatch-backend/pkg/logger"
)

type memoryRedis struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{counts: map[string]int64{}}
}

func (m *memoryRedis) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memoryRedis) Ping(ctx context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh-" + accessID, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "pricewatch-test",
			ExpirationMinutes: 15,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:        time.Minute,
			LoginEmailLimit:    5,
			LoginIPLimit:       20,
			RegisterWindow:     time.Minute,
			RegisterEmailLimit: 3,
			RegisterIPLimit:    2,
		},
	}
}

func buildRouter(t *testing.T) (http.Handler, *config.Config, *db.Client) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:router_" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logg)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(
		&models.User{}, &models.UserPreferences{},
		&models.Category{}, &models.Item{}, &models.Store{},
		&models.PriceObservation{},
		&models.ShoppingList{}, &models.ShoppingListItem{},
	))
	t.Cleanup(func() { client.Close() })

	cfg := testConfig()
	gdb := client.DB()
	userRepo := users.NewRepository(gdb)
	storeRepo := stores.NewRepository(gdb)
	categoryRepo := categories.NewRepository(gdb)
	itemRepo := items.NewRepository(gdb)

	authService, err := auth.NewService(auth.ServiceParams{
		DB:             client,
		UserRepo:       userRepo,
		SessionManager: stubSessionManager{},
		JWTConfig:      cfg.JWT,
	})
	require.NoError(t, err)
	userService, err := users.NewService(userRepo)
	require.NoError(t, err)
	preferencesService, err := preferences.NewService(preferences.NewRepository(gdb), storeRepo)
	require.NoError(t, err)
	categoryService, err := categories.NewService(categoryRepo)
	require.NoError(t, err)
	storeService, err := stores.NewService(storeRepo)
	require.NoError(t, err)
	itemService, err := items.NewService(itemRepo, categoryRepo)
	require.NoError(t, err)
	observationService, err := observations.NewService(client, itemRepo)
	require.NoError(t, err)
	inflationService, err := inflation.NewService(itemRepo, inflation.NewRepo(gdb))
	require.NoError(t, err)
	shoppingListService, err := shoppinglists.NewService(shoppinglists.NewRepository(gdb), itemRepo, storeRepo)
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:              cfg,
		Logger:              logg,
		DB:                  client,
		Redis:               newMemoryRedis(),
		SessionChecker:      stubSessionManager{},
		AuthService:         authService,
		UserService:         userService,
		PreferencesService:  preferencesService,
		CategoryService:     categoryService,
		StoreService:        storeService,
		ItemService:         itemService,
		ObservationService:  observationService,
		InflationService:    inflationService,
		ShoppingListService: shoppingListService,
	})
	return handler, cfg, client
}

func mintToken(t *testing.T, cfg *config.Config, userID uuid.UUID, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func TestHealthLive(t *testing.T) {
	handler, _, _ := buildRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"live"`)
}

func TestHealthReady(t *testing.T) {
	handler, _, _ := buildRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	handler, _, _ := buildRouter(t)

	for _, path := range []string{"/api/v1/users/me", "/api/v1/items", "/api/v1/categories", "/api/v1/shopping-lists"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	handler, cfg, client := buildRouter(t)

	user := &models.User{Email: "shopper@example.com", FirstName: "Sam", LastName: "Lee", PasswordHash: "x", Role: enums.UserRoleUser, Status: enums.RecordStatusActive}
	require.NoError(t, client.DB().Create(user).Error)
	token := mintToken(t, cfg, user.ID, enums.UserRoleUser)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name":"Dairy"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"Dairy"`)
}

func TestUserProfileRoundTrip(t *testing.T) {
	handler, cfg, client := buildRouter(t)

	user := &models.User{Email: "shopper@example.com", FirstName: "Sam", LastName: "Lee", PasswordHash: "x", Role: enums.UserRoleUser, Status: enums.RecordStatusActive}
	require.NoError(t, client.DB().Create(user).Error)
	token := mintToken(t, cfg, user.ID, enums.UserRoleUser)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`{"first_name":"Samuel"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"Samuel"`)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// deactivated accounts stop resolving
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminStoreRouteRequiresAdminRole(t *testing.T) {
	handler, cfg, client := buildRouter(t)

	user := &models.User{Email: "shopper@example.com", FirstName: "Sam", LastName: "Lee", PasswordHash: "x", Role: enums.UserRoleUser, Status: enums.RecordStatusActive}
	require.NoError(t, client.DB().Create(user).Error)
	admin := &models.User{Email: "admin@example.com", FirstName: "Ada", LastName: "Ng", PasswordHash: "x", Role: enums.UserRoleAdmin, Status: enums.RecordStatusActive}
	require.NoError(t, client.DB().Create(admin).Error)

	body := `{"name":"Everywhere Mart","type":"supermarket"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/stores", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, user.ID, enums.UserRoleUser))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/stores", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, admin.ID, enums.UserRoleAdmin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"global":true`)
}

func TestRegisterRateLimitByIP(t *testing.T) {
	handler, _, _ := buildRouter(t)

	send := func(email string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(
			`{"email":"`+email+`","password":"longenoughpw","first_name":"Sam","last_name":"Lee"}`))
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// configured IP limit is 2
	first := send("a@example.com")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := send("b@example.com")
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())
	third := send("c@example.com")
	require.Equal(t, http.StatusTooManyRequests, third.Code)
}
