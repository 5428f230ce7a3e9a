package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/planora/todo-planner-api/internal/constants"
	"github.com/planora/todo-planner-api/internal/dto"
	apierrors "github.com/planora/todo-planner-api/internal/errors"
	"github.com/planora/todo-planner-api/internal/identity"
	"github.com/planora/todo-planner-api/internal/middleware"
	"github.com/planora/todo-planner-api/internal/models"
	"github.com/planora/todo-planner-api/internal/repository"
	"github.com/planora/todo-planner-api/internal/services"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	router      *gin.Engine
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &identity.Credential{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	provider := identity.NewLocalProvider(db)
	authService := services.NewAuthService(provider, repository.NewProfileRepository(db))
	handler := NewAuthHandler(authService, zap.NewNop())

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/register", handler.Register)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/logout", handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(), handler.GetCurrentUser)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		router:      r,
	}
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.ID)
	require.Equal(t, "Alice", response.Name)
	require.Equal(t, "alice@example.com", response.Email)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "12345",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, apierrors.ErrCodeValidation, apiErr.Code)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	}

	w := postJSON(t, env.router, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, env.router, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, apierrors.ErrCodeAlreadyExists, apiErr.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := postJSON(t, env.router, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Alice", response.Name)

	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")
}

func TestAuthHandler_Login_WrongPasswordIsNonSpecific(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	wrong := postJSON(t, env.router, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongsecret",
	}, nil)
	unknown := postJSON(t, env.router, "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	// The two failures are indistinguishable.
	require.JSONEq(t, wrong.Body.String(), unknown.Body.String())
}

func TestAuthHandler_LoginThenMe(t *testing.T) {
	env := setupAuthTestEnv(t)

	registered, err := env.authService.Register(services.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	login := postJSON(t, env.router, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, registered.ID, response.ID)
	require.Equal(t, "alice@example.com", response.Email)
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, apierrors.ErrCodeUnauthenticated, apiErr.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	login := postJSON(t, env.router, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	logout := postJSON(t, env.router, "/api/auth/logout", map[string]string{}, login.Result().Cookies())
	require.Equal(t, http.StatusOK, logout.Code)

	// Session is gone: /me with the post-logout cookie fails.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range logout.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_WithoutSessionStillSucceeds(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/auth/logout", map[string]string{}, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
