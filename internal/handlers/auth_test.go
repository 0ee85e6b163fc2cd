package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/types"
	"gorm.io/gorm"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	r := setupRouter(t)

	token, userID := registerUser(t, r, "alice@example.com", "Alice")
	require.NotEmpty(t, token)

	// The freshly issued token resolves to the same user.
	w := doRequest(t, r, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	me := decodeData[types.UserResponse](t, w)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "alice@example.com", me.Email)

	// So does a token from a subsequent login.
	w = doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		User  types.UserResponse `json:"user"`
		Token string             `json:"token"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, userID, login.User.ID)

	w = doRequest(t, r, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupRouter(t)

	registerUser(t, r, "alice@example.com", "Alice")

	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
		"name":     "Alice Again",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Email already registered", env.Message)
}

func TestDuplicateEmailStoreErrorTranslated(t *testing.T) {
	r := setupRouter(t)

	registerUser(t, r, "alice@example.com", "Alice")

	// When the unique index itself reports the duplicate, the store error
	// surfaces as the translated sentinel, not a raw driver error.
	err := db.DB.Create(&models.User{
		Name:         "Alice Again",
		Email:        "alice@example.com",
		PasswordHash: "irrelevant",
	}).Error

	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRegisterValidationErrors(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "not-an-email",
		"password": "short",
		"name":     "Alice",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)

	fields := make(map[string]string)
	for _, fe := range env.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := setupRouter(t)

	registerUser(t, r, "alice@example.com", "Alice")

	// Wrong password and unknown email produce the identical response.
	wrongPassword := doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	unknownEmail := doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestMeRequiresToken(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(t, r, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, "/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
