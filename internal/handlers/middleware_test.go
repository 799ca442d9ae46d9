package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Adambhr/Socpanel/internal/domain"
	"github.com/Adambhr/Socpanel/internal/utils/jwt"
)

func TestAuthMiddleware(t *testing.T) {
	jwtManager := jwt.NewManager("test-secret", time.Hour)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		require.True(t, ok)
		assert.Equal(t, int64(1), userID)
		w.WriteHeader(http.StatusOK)
	})

	middleware := AuthMiddleware(jwtManager)(okHandler)

	t.Run("Valid token", func(t *testing.T) {
		token, err := jwtManager.Generate(1)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil)
		req.Header.Set("Authorization", "token-without-scheme")
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil)
		req.Header.Set("Authorization", "Bearer invalid.token.here")
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		otherManager := jwt.NewManager("other-secret", time.Hour)
		token, err := otherManager.Generate(1)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminMiddleware(t *testing.T) {
	logger := zap.NewNop()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Admin passes", func(t *testing.T) {
		accounts := new(mockLedgerService)
		accounts.On("GetAccount", mock.Anything, int64(1)).
			Return(&domain.Account{UserID: 1, IsAdmin: true}, nil)

		middleware := AdminMiddleware(accounts, logger)(okHandler)

		req := authedRequest(http.MethodGet, "/api/admin/orders", nil, 1)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Non-admin forbidden", func(t *testing.T) {
		accounts := new(mockLedgerService)
		accounts.On("GetAccount", mock.Anything, int64(1)).
			Return(&domain.Account{UserID: 1, IsAdmin: false}, nil)

		middleware := AdminMiddleware(accounts, logger)(okHandler)

		req := authedRequest(http.MethodGet, "/api/admin/orders", nil, 1)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("No user in context", func(t *testing.T) {
		accounts := new(mockLedgerService)
		middleware := AdminMiddleware(accounts, logger)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		accounts.AssertNotCalled(t, "GetAccount", mock.Anything, mock.Anything)
	})

	t.Run("Account lookup error", func(t *testing.T) {
		accounts := new(mockLedgerService)
		accounts.On("GetAccount", mock.Anything, int64(1)).
			Return(nil, errors.New("database error"))

		middleware := AdminMiddleware(accounts, logger)(okHandler)

		req := authedRequest(http.MethodGet, "/api/admin/orders", nil, 1)
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, ok := r.Context().Value(RequestIDKey).(string)
		require.True(t, ok)
		assert.NotEmpty(t, requestID)
		w.WriteHeader(http.StatusOK)
	})

	middleware := RequestIDMiddleware()(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	middleware.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	middleware := RecoveryMiddleware(zap.NewNop())(panicHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		middleware.ServeHTTP(rr, req)
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
