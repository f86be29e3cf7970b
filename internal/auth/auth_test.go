package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamart/novamart-api/internal/domain/user"
)

func TestIssueAndVerifyToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	u := &user.User{ID: 42, Email: "jane@example.com", Role: user.RoleAdmin}
	token, err := m.IssueToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
	assert.Equal(t, "jane@example.com", claims.Subject)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).IssueToken(&user.User{ID: 1, Role: user.RoleUser})
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	token, err := m.IssueToken(&user.User{ID: 1, Role: user.RoleUser})
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2!", hash)

	assert.NoError(t, CheckPassword(hash, "hunter2!"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestMiddleware(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		require.NotNil(t, claims)
		w.WriteHeader(http.StatusNoContent)
	})

	adminToken, err := m.IssueToken(&user.User{ID: 1, Role: user.RoleAdmin})
	require.NoError(t, err)
	userToken, err := m.IssueToken(&user.User{ID: 2, Role: user.RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name  string
		roles []user.Role
		token string
		want  int
	}{
		{"no token", []user.Role{RoleAny}, "", http.StatusUnauthorized},
		{"garbage token", []user.Role{RoleAny}, "not-a-token", http.StatusUnauthorized},
		{"any role admits user", []user.Role{RoleAny}, userToken, http.StatusNoContent},
		{"admin only rejects user", []user.Role{user.RoleAdmin}, userToken, http.StatusForbidden},
		{"admin only admits admin", []user.Role{user.RoleAdmin}, adminToken, http.StatusNoContent},
		{"multiple roles", []user.Role{user.RoleAdmin, user.RoleUser}, userToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			m.Middleware(tt.roles...)(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
