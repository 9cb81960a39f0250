package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakegate/internal/domain"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v *stubValidator) Validate(_ context.Context, _ string) (*JWTClaims, error) {
	return v.claims, v.err
}

type stubAPIKeys struct {
	keys map[string]*domain.APIKey // hash -> key
}

func (s *stubAPIKeys) Create(_ context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	return k, nil
}

func (s *stubAPIKeys) GetByHash(_ context.Context, keyHash string) (*domain.APIKey, error) {
	k, ok := s.keys[keyHash]
	if !ok {
		return nil, domain.ErrNotFound("api key not found")
	}
	return k, nil
}

// nextHandler records the context principal the middleware installed.
func nextHandler() (http.Handler, func() (domain.ContextPrincipal, bool)) {
	var cp domain.ContextPrincipal
	var found bool
	h := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		cp, found = domain.PrincipalFromContext(r.Context())
	})
	return h, func() (domain.ContextPrincipal, bool) { return cp, found }
}

func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

func TestAuth_ValidJWT(t *testing.T) {
	handler, getPrincipal := nextHandler()
	mw := Auth(&stubValidator{claims: &JWTClaims{Subject: "alice"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()
	mw(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cp, found := getPrincipal()
	require.True(t, found)
	assert.Equal(t, "alice", cp.Name)
	assert.Equal(t, "user", cp.Type)
}

func TestAuth_InvalidJWT(t *testing.T) {
	handler, getPrincipal := nextHandler()
	mw := Auth(&stubValidator{err: fmt.Errorf("token expired")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	w := httptest.NewRecorder()
	mw(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	_, found := getPrincipal()
	assert.False(t, found)
}

func TestAuth_JWTWithoutSubjectRejected(t *testing.T) {
	handler, _ := nextHandler()
	mw := Auth(&stubValidator{claims: &JWTClaims{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anonymous")
	w := httptest.NewRecorder()
	mw(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_APIKey(t *testing.T) {
	handler, getPrincipal := nextHandler()
	repo := &stubAPIKeys{keys: map[string]*domain.APIKey{
		hashKey("svc-key-123"): {Name: "ci", PrincipalName: "ci-bot"},
	}}
	mw := Auth(&stubValidator{err: fmt.Errorf("no jwt")}, repo)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "svc-key-123")
	w := httptest.NewRecorder()
	mw(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cp, found := getPrincipal()
	require.True(t, found)
	assert.Equal(t, "ci-bot", cp.Name)
	assert.Equal(t, "service_principal", cp.Type)
}

func TestAuth_UnknownAPIKey(t *testing.T) {
	handler, _ := nextHandler()
	mw := Auth(nil, &stubAPIKeys{keys: map[string]*domain.APIKey{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()
	mw(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_NoCredentials(t *testing.T) {
	handler, _ := nextHandler()
	mw := Auth(&stubValidator{claims: &JWTClaims{Subject: "alice"}}, nil)

	w := httptest.NewRecorder()
	mw(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
