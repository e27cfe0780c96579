package utils

import (
	"testing"

	"boutique_back_end/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")

	user := models.User{
		ID:      primitive.NewObjectID(),
		Name:    "Alice",
		Email:   "alice@example.com",
		IsAdmin: true,
	}

	token, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, true, claims["is_admin"])
	assert.NotNil(t, claims["exp"])
}

func TestParseJWTRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")

	user := models.User{ID: primitive.NewObjectID(), Email: "bob@example.com"}
	token, err := GenerateJWT(user)
	require.NoError(t, err)

	_, err = ParseJWT(token + "x")
	assert.Error(t, err)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret_de_test")
	user := models.User{ID: primitive.NewObjectID(), Email: "bob@example.com"}
	token, err := GenerateJWT(user)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "autre_secret")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}
