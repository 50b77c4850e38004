package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "flesk/internal/errors"
	"flesk/internal/middleware"
	"flesk/internal/models"
	"flesk/internal/services"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.Refresh)
	r.GET("/profile", injectUserID(testUserID), handler.GetProfile)
	return r
}

// tokenStore is an in-memory refresh hash slot shared by the mock hooks.
type tokenStore struct{ hash string }

func (s *tokenStore) userService(base *mockUserService) *mockUserService {
	base.storeRefreshTokenHashFn = func(_, hash string) error {
		s.hash = hash
		return nil
	}
	base.getRefreshTokenHashFn = func(string) (string, error) { return s.hash, nil }
	return base
}

func echoUser(email, _, firstName, lastName string) (*models.User, error) {
	return &models.User{Base: models.Base{ID: testUserID}, Email: email, FirstName: firstName, LastName: lastName}, nil
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("issues a token pair and audits", func(t *testing.T) {
		store := &tokenStore{}
		audit := &mockAuditService{}
		r := setupAuthRouter(NewAuthHandler(store.userService(&mockUserService{createUserFn: echoUser}), audit))

		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"email":"ada@example.com","password":"password123","first_name":"Ada","last_name":"Lovelace"}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		result := parseJSON(t, rec)
		assert.NotEmpty(t, result["access_token"])
		refresh, _ := result["refresh_token"].(string)
		require.NotEmpty(t, refresh)
		assert.Equal(t, middleware.HashToken(refresh), store.hash)
		assert.Len(t, store.hash, 64)

		user := result["user"].(map[string]interface{})
		assert.Equal(t, "ada@example.com", user["email"])
		assert.Equal(t, "Lovelace", user["last_name"])

		require.Len(t, audit.entries, 1)
		assert.Equal(t, auditEntry{testUserID, services.AuditActionRegister, "user", testUserID}, audit.entries[0])
	})

	failures := []struct {
		name   string
		body   string
		svc    *mockUserService
		status int
		code   string
	}{
		{"missing email", `{"password":"password123"}`, &mockUserService{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"short password", `{"email":"ada@example.com","password":"short"}`, &mockUserService{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed email", `{"email":"ada","password":"password123"}`, &mockUserService{}, http.StatusBadRequest, "INVALID_INPUT"},
		{
			"duplicate email", `{"email":"dup@example.com","password":"password123"}`,
			&mockUserService{createUserFn: func(_, _, _, _ string) (*models.User, error) { return nil, apperrors.ErrDuplicateEmail }},
			http.StatusConflict, "DUPLICATE_EMAIL",
		},
		{
			"token storage failure", `{"email":"ada@example.com","password":"password123"}`,
			&mockUserService{
				createUserFn:            echoUser,
				storeRefreshTokenHashFn: func(_, _ string) error { return errors.New("db connection lost") },
			},
			http.StatusInternalServerError, "INTERNAL_ERROR",
		},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			audit := &mockAuditService{}
			r := setupAuthRouter(NewAuthHandler(tc.svc, audit))

			rec := doRequest(r, http.MethodPost, "/auth/register", tc.body)

			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			assertErrorCode(t, parseJSON(t, rec), tc.code)
			assert.NotContains(t, rec.Body.String(), "db connection lost")
			assert.Empty(t, audit.entries)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success audits the login", func(t *testing.T) {
		audit := &mockAuditService{}
		svc := &mockUserService{attemptLoginFn: func(email, _ string) (*models.User, error) {
			return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
		}}
		r := setupAuthRouter(NewAuthHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"password123"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, parseJSON(t, rec)["access_token"])
		require.Len(t, audit.entries, 1)
		assert.Equal(t, services.AuditActionLogin, audit.entries[0].Action)
	})

	for _, tc := range []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"wrong password", `{"email":"ada@example.com","password":"wrong"}`, apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"locked account", `{"email":"ada@example.com","password":"password123"}`, apperrors.ErrAccountLocked, http.StatusLocked, "ACCOUNT_LOCKED"},
		{"empty body", `{}`, nil, http.StatusBadRequest, "INVALID_INPUT"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockUserService{attemptLoginFn: func(_, _ string) (*models.User, error) { return nil, tc.err }}
			r := setupAuthRouter(NewAuthHandler(svc, &mockAuditService{}))

			rec := doRequest(r, http.MethodPost, "/auth/login", tc.body)

			require.Equal(t, tc.status, rec.Code)
			assertErrorCode(t, parseJSON(t, rec), tc.code)
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	user := &models.User{Base: models.Base{ID: testUserID}, Email: "ada@example.com"}
	refreshBody := func(token string) string { return fmt.Sprintf(`{"refresh_token":%q}`, token) }

	t.Run("rotates the pair and retires the old token", func(t *testing.T) {
		original, err := middleware.GenerateRefreshToken(user)
		require.NoError(t, err)
		store := &tokenStore{hash: middleware.HashToken(original)}
		r := setupAuthRouter(NewAuthHandler(store.userService(&mockUserService{}), &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/refresh", refreshBody(original))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rotated, _ := parseJSON(t, rec)["refresh_token"].(string)
		require.NotEmpty(t, rotated)
		assert.NotEqual(t, original, rotated)
		assert.Equal(t, middleware.HashToken(rotated), store.hash)

		replay := doRequest(r, http.MethodPost, "/auth/refresh", refreshBody(original))
		assert.Equal(t, http.StatusUnauthorized, replay.Code)
		assertErrorCode(t, parseJSON(t, replay), "INVALID_TOKEN")
	})

	t.Run("superseded token", func(t *testing.T) {
		token, err := middleware.GenerateRefreshToken(user)
		require.NoError(t, err)
		store := &tokenStore{hash: strings.Repeat("0", 64)}
		r := setupAuthRouter(NewAuthHandler(store.userService(&mockUserService{}), &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/refresh", refreshBody(token))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TOKEN")
	})

	t.Run("access token is refused", func(t *testing.T) {
		access, err := middleware.GenerateAccessToken(user)
		require.NoError(t, err)
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/refresh", refreshBody(access))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/refresh", refreshBody("not-a-jwt"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("renders the user without secrets", func(t *testing.T) {
		lastLogin := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
		svc := &mockUserService{getUserByIDFn: func(id string) (*models.User, error) {
			return &models.User{
				Base:             models.Base{ID: id},
				Email:            "ada@example.com",
				Password:         "$2a$10$hash",
				RefreshTokenHash: "stored-hash",
				FirstName:        "Ada",
				LastLoginAt:      &lastLogin,
			}, nil
		}}
		r := setupAuthRouter(NewAuthHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/profile", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		assert.Equal(t, testUserID, user["id"])
		assert.Equal(t, "Ada", user["first_name"])
		assert.NotContains(t, rec.Body.String(), "stored-hash")
		assert.NotContains(t, rec.Body.String(), "$2a$10$hash")
	})

	t.Run("requires an authenticated user", func(t *testing.T) {
		r := gin.New()
		r.GET("/profile", NewAuthHandler(&mockUserService{}, &mockAuditService{}).GetProfile)

		rec := doRequest(r, http.MethodGet, "/profile", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := &mockUserService{getUserByIDFn: func(string) (*models.User, error) { return nil, apperrors.ErrUserNotFound }}
		r := setupAuthRouter(NewAuthHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/profile", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})
}
