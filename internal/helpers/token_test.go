package helpers

import (
	"testing"

	"github.com/nosregor/learning-platform/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() models.User {
	return models.User{
		ID:    uuid.New(),
		Email: "ada@example.com",
		Role:  models.RoleStudent,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	user := testUser()

	token, err := NewAccessToken(testSecret, &user, 15)
	require.NoError(t, err)

	claims, err := ParseAccessToken(testSecret, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
}

func TestParseAccessToken_RequiresBearerPrefix(t *testing.T) {
	user := testUser()

	token, err := NewAccessToken(testSecret, &user, 15)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, token)
	assert.Error(t, err)
}

func TestTokenAudiencesAreNotInterchangeable(t *testing.T) {
	user := testUser()

	accessToken, err := NewAccessToken(testSecret, &user, 15)
	require.NoError(t, err)
	refreshToken, err := NewRefreshToken(testSecret, &user, 60)
	require.NoError(t, err)

	_, err = ParseRefreshToken(testSecret, accessToken)
	assert.Error(t, err)

	_, err = ParseAccessToken(testSecret, "Bearer "+refreshToken)
	assert.Error(t, err)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	user := testUser()

	token, err := NewAccessToken(testSecret, &user, 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("another-secret-another-secret-32", "Bearer "+token)
	assert.Error(t, err)
}

func TestCreateHash(t *testing.T) {
	hash, err := CreateHash("secret-password")
	require.NoError(t, err)
	assert.NotContains(t, hash, "secret-password")
	assert.Contains(t, hash, "$argon2id$")
}
