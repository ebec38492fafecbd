package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RubachokBoss/internhub/internal/config"
	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoActor(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Actor", actor.ID+"/"+string(actor.Role))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthenticator(config.AuthConfig{Enabled: true, JWTSecret: "secret", Issuer: "internhub"}, zerolog.Nop())
	other := NewAuthenticator(config.AuthConfig{Enabled: true, JWTSecret: "other", Issuer: "internhub"}, zerolog.Nop())

	valid, err := auth.Issue(models.Actor{ID: "s1", Role: models.RoleSupervisor}, time.Hour)
	require.NoError(t, err)
	expired, err := auth.Issue(models.Actor{ID: "s1", Role: models.RoleSupervisor}, -time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue(models.Actor{ID: "root", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	badRole, err := auth.Issue(models.Actor{ID: "x", Role: "janitor"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		actor  string
	}{
		{name: "valid token", header: "Bearer " + valid, status: http.StatusOK, actor: "s1/supervisor"},
		{name: "lowercase scheme", header: "bearer " + valid, status: http.StatusOK, actor: "s1/supervisor"},
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + forged, status: http.StatusUnauthorized},
		{name: "unknown role", header: "Bearer " + badRole, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/interns", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			auth.Authenticate(echoActor(t)).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.actor, rec.Header().Get("X-Actor"))
		})
	}
}

func TestAuthenticate_Disabled(t *testing.T) {
	auth := NewAuthenticator(config.AuthConfig{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	auth.Authenticate(echoActor(t)).ServeHTTP(rec, req)
	assert.Equal(t, "admin/admin", rec.Header().Get("X-Actor"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "a")
	req.Header.Set(HeaderUserRole, "intern")
	rec = httptest.NewRecorder()
	auth.Authenticate(echoActor(t)).ServeHTTP(rec, req)
	assert.Equal(t, "a/intern", rec.Header().Get("X-Actor"))
}

func TestRequireRoles(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireRoles(models.RoleAdmin, models.RoleSupervisor)(ok)

	tests := []struct {
		name   string
		actor  *models.Actor
		status int
	}{
		{name: "admin", actor: &models.Actor{ID: "root", Role: models.RoleAdmin}, status: http.StatusNoContent},
		{name: "supervisor", actor: &models.Actor{ID: "s1", Role: models.RoleSupervisor}, status: http.StatusNoContent},
		{name: "intern", actor: &models.Actor{ID: "a", Role: models.RoleIntern}, status: http.StatusForbidden},
		{name: "anonymous", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.actor != nil {
				req = req.WithContext(WithActor(req.Context(), *tt.actor))
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
