package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/inkwell-social/backend/internal/middleware"
	"github.com/inkwell-social/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestRegisterIssuesToken(t *testing.T) {
	var created *models.User
	userRepo := &fakeUserRepository{
		CreateUserFn: func(user *models.User) error {
			user.ID = 42
			created = user
			return nil
		},
	}
	h := NewAuthHandler(userRepo)

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/register", body, 0)
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	// The password must never be stored in the clear.
	assert.NotEqual(t, "hunter22", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter22")))

	var resp struct {
		Data struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)

	claims, err := middleware.ParseToken(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := &fakeUserRepository{
		GetUserByEmailFn: func(email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		},
	}
	h := NewAuthHandler(userRepo)

	body := `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`
	c, _ := newTestContext(http.MethodPost, "/api/v1/register", body, 0)
	err := h.Register(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo := &fakeUserRepository{
		GetUserByEmailFn: func(email string) (*models.User, error) {
			return &models.User{ID: 42, Email: email, Password: string(hash)}, nil
		},
	}
	h := NewAuthHandler(userRepo)

	c, rec := newTestContext(http.MethodPost, "/api/v1/login", `{"email":"ada@example.com","password":"hunter22"}`, 0)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := middleware.ParseToken(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo := &fakeUserRepository{
		GetUserByEmailFn: func(email string) (*models.User, error) {
			return &models.User{ID: 42, Email: email, Password: string(hash)}, nil
		},
	}
	h := NewAuthHandler(userRepo)

	c, _ := newTestContext(http.MethodPost, "/api/v1/login", `{"email":"ada@example.com","password":"wrong"}`, 0)
	loginErr := h.Login(c)
	require.Error(t, loginErr)
	httpErr, ok := loginErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := &fakeUserRepository{
		GetUserByEmailFn: func(email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := NewAuthHandler(userRepo)

	c, _ := newTestContext(http.MethodPost, "/api/v1/login", `{"email":"ada@example.com","password":"hunter22"}`, 0)
	loginErr := h.Login(c)
	require.Error(t, loginErr)
	httpErr, ok := loginErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
