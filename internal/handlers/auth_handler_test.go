package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/boardhub/backend/internal/middleware"
	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/sessions"
	"github.com/boardhub/backend/internal/shared"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAuthService struct {
	registerUser *models.User
	registerErr  error
	verifyUser   *models.User
	verifyErr    error
	roles        []string
	rolesErr     error

	registeredEmail string
	verifiedEmail   string
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	m.registeredEmail = email
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return m.registerUser, nil
}

func (m *mockAuthService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	m.verifiedEmail = email
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.verifyUser, nil
}

func (m *mockAuthService) RolesFor(ctx context.Context, userID int) ([]string, error) {
	if m.rolesErr != nil {
		return nil, m.rolesErr
	}
	return m.roles, nil
}

// newAuthRouter wires the auth handler the way main does: session
// resolution in front, routes scoped under the API prefix.
func newAuthRouter(svc AuthService, store *sessions.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(store))
	NewAuthHandler(svc, store, zap.NewNop()).RegisterRoutes(r)
	return r
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *mockAuthService
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: `{"name":"Taro","email":"taro@example.com","password":"pass1234"}`,
			svc: &mockAuthService{registerUser: &models.User{
				ID: 1, Name: "Taro", Email: "taro@example.com",
			}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			body:       `{"name":"Taro","email":"taro@example.com","password":"pass1234"}`,
			svc:        &mockAuthService{registerErr: shared.ErrDuplicateEmail},
			wantStatus: http.StatusConflict,
			wantError:  "email already registered",
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			svc:        &mockAuthService{},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "missing fields",
			body:       `{"name":"Taro"}`,
			svc:        &mockAuthService{},
			wantStatus: http.StatusBadRequest,
			wantError:  "name, email, and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(tt.svc, sessions.NewStore(time.Hour))

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	svc := &mockAuthService{
		verifyUser: &models.User{ID: 7, Name: "Taro", Email: "taro@example.com"},
		roles:      []string{models.RoleUser},
	}
	store := sessions.NewStore(time.Hour)
	router := newAuthRouter(svc, store)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"taro@example.com","password":"pass1234"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	// The cookie value must resolve to the logged-in identity in the store.
	identity, ok := store.Get(cookie.Value)
	require.True(t, ok)
	assert.Equal(t, 7, identity.UserID)
	assert.Equal(t, "taro@example.com", identity.Email)
	assert.Equal(t, []string{models.RoleUser}, identity.Roles)

	var body models.SessionContext
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 7, body.UserID)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable to the client.
	tests := []struct {
		name string
		err  error
	}{
		{name: "unknown email", err: shared.ErrNotFound},
		{name: "wrong password", err: shared.ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := sessions.NewStore(time.Hour)
			router := newAuthRouter(&mockAuthService{verifyErr: tt.err}, store)

			req := httptest.NewRequest(http.MethodPost, "/auth/login",
				strings.NewReader(`{"email":"taro@example.com","password":"nope"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "invalid email or password", body["error"])
			assert.Nil(t, sessionCookie(t, rec))
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	store := sessions.NewStore(time.Hour)
	sid := store.Create(models.SessionContext{UserID: 7, Roles: []string{models.RoleUser}})
	router := newAuthRouter(&mockAuthService{}, store)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sid})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	_, ok := store.Get(sid)
	assert.False(t, ok, "logout must destroy the server-side session")

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.Empty(t, cookie.Value)
}
