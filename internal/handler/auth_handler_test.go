package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/service"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created with token", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "alice", "alice@x.com", "secret123").
			Return(&model.User{ID: uuid.New(), Username: "alice", Email: "alice@x.com"}, "signed-token", nil)
		h := NewAuthHandler(svc)

		c, rec := newTestContext(t, http.MethodPost, "/api/auth/register",
			`{"username":"alice","email":"alice@x.com","password":"secret123"}`)

		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
		require.NotNil(t, resp.User)
		assert.Equal(t, "alice", resp.User.Username)
	})

	t.Run("request validation rejects bad email", func(t *testing.T) {
		h := NewAuthHandler(new(MockAuthService))

		c, _ := newTestContext(t, http.MethodPost, "/api/auth/register",
			`{"username":"alice","email":"nope","password":"secret123"}`)

		assertHTTPError(t, h.Register(c), http.StatusBadRequest)
	})

	t.Run("uniqueness conflict maps to 400 with field detail", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "alice", "alice@x.com", "secret123").
			Return(nil, "", apperrors.NewValidationError(map[string]string{"email": "already registered"}))
		h := NewAuthHandler(svc)

		c, _ := newTestContext(t, http.MethodPost, "/api/auth/register",
			`{"username":"alice","email":"alice@x.com","password":"secret123"}`)

		assertHTTPError(t, h.Register(c), http.StatusBadRequest)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns token and user", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "alice@x.com", "secret123").
			Return(&model.User{Username: "alice"}, "signed-token", nil)
		h := NewAuthHandler(svc)

		c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
			`{"email":"alice@x.com","password":"secret123"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "alice@x.com", "wrongpass").
			Return(nil, "", service.ErrInvalidCredentials)
		h := NewAuthHandler(svc)

		c, _ := newTestContext(t, http.MethodPost, "/api/auth/login",
			`{"email":"alice@x.com","password":"wrongpass"}`)

		assertHTTPError(t, h.Login(c), http.StatusUnauthorized)
	})
}
