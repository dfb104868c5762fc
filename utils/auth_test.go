package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-foodorder/models"
)

func testUser() models.User {
	return models.User{
		ID:       primitive.NewObjectID(),
		Email:    "alice@example.com",
		Username: "alice",
		Role:     models.RoleCustomer,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := NewTokenService([]byte("test-secret"))
	user := testUser()

	token, err := ts.Generate(user)
	require.NoError(t, err)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, models.RoleCustomer, claims.Role)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService([]byte("secret-a")).Generate(testUser())
	require.NoError(t, err)

	_, err = NewTokenService([]byte("secret-b")).Parse(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	claims := &Claims{
		UserID: primitive.NewObjectID().Hex(),
		Email:  "alice@example.com",
		Role:   models.RoleCustomer,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenService(secret).Parse(expired)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	_, err := NewTokenService([]byte("test-secret")).Parse("not-a-token")
	assert.Error(t, err)
}
