package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_SignAndValidate(t *testing.T) {
	a := NewAuthenticator("secret")

	token, err := a.Sign("user-1", time.Hour)
	require.NoError(t, err)

	userID, err := a.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestAuthenticator_RejectsForeignSecret(t *testing.T) {
	token, err := NewAuthenticator("other").Sign("user-1", time.Hour)
	require.NoError(t, err)

	_, err = NewAuthenticator("secret").Validate(token)
	assert.Error(t, err)
}

func TestAuthenticator_RejectsExpiredToken(t *testing.T) {
	a := NewAuthenticator("secret")

	token, err := a.Sign("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = a.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAuthenticator_RejectsTokenWithoutUser(t *testing.T) {
	a := NewAuthenticator("secret")

	token, err := a.Sign("", time.Hour)
	require.NoError(t, err)

	_, err = a.Validate(token)
	assert.Error(t, err)
}

func TestAuthenticator_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewAuthenticator("secret").Validate(token)
	assert.Error(t, err)
}
