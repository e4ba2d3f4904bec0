package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kgpnow-api/internal/domain"
	jwtinfra "github.com/kgpnow-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) GetByID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestProvider(t *testing.T, secret string, expiry time.Duration) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(secret, expiry)
	require.NoError(t, err)
	return p
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func serve(t *testing.T, h http.Handler, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code == http.StatusOK {
		return rr.Code, ""
	}
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body["message"]
}

func TestAuth_MissingHeader(t *testing.T) {
	p := newTestProvider(t, "s3cret", time.Hour)
	code, msg := serve(t, Auth(p, &mockAccounts{}, nil)(http.HandlerFunc(okHandler)), "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Not authorized, no token", msg)
}

func TestAuth_BadToken(t *testing.T) {
	p := newTestProvider(t, "s3cret", time.Hour)
	code, msg := serve(t, Auth(p, &mockAccounts{}, nil)(http.HandlerFunc(okHandler)), "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Not authorized, token failed", msg)
}

func TestAuth_TokenFromOtherSecret(t *testing.T) {
	other := newTestProvider(t, "other", time.Hour)
	signed, err := other.Issue("u1")
	require.NoError(t, err)

	p := newTestProvider(t, "s3cret", time.Hour)
	code, _ := serve(t, Auth(p, &mockAccounts{}, nil)(http.HandlerFunc(okHandler)), "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuth_UnknownUser(t *testing.T) {
	p := newTestProvider(t, "s3cret", time.Hour)
	signed, err := p.Issue("gone")
	require.NoError(t, err)
	accounts := &mockAccounts{}
	accounts.On("GetByID", mock.Anything, "gone").Return(nil, domain.ErrNotFound)

	code, msg := serve(t, Auth(p, accounts, nil)(http.HandlerFunc(okHandler)), "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "User not found", msg)
}

func TestAuth_StoreFailure(t *testing.T) {
	p := newTestProvider(t, "s3cret", time.Hour)
	signed, err := p.Issue("u1")
	require.NoError(t, err)
	accounts := &mockAccounts{}
	accounts.On("GetByID", mock.Anything, "u1").Return(nil, errors.New("timeout"))

	code, msg := serve(t, Auth(p, accounts, nil)(http.HandlerFunc(okHandler)), "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Not authorized, token failed", msg)
}

func TestAuth_ValidToken_InjectsAccount(t *testing.T) {
	p := newTestProvider(t, "s3cret", time.Hour)
	signed, err := p.Issue("u1")
	require.NoError(t, err)
	accounts := &mockAccounts{}
	accounts.On("GetByID", mock.Anything, "u1").Return(&domain.Account{ID: "u1", Name: "Ann Lee"}, nil)

	var got *domain.Account
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = AccountFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	code, _ := serve(t, Auth(p, accounts, nil)(capture), "Bearer "+signed)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, got)
	assert.Equal(t, "Ann Lee", got.Name)
}

func TestAccountFromContext_Empty(t *testing.T) {
	_, ok := AccountFromContext(context.Background())
	assert.False(t, ok)
}
