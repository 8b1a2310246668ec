package websocket

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "handshake-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestIdentityFromToken_ValidToken(t *testing.T) {
	req := require.New(t)
	userID := uuid.New()
	token := signedToken(t, testSecret, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	identity := identityFromToken(token, testSecret)
	req.NotNil(identity)
	req.Equal(userID, *identity)
}

func TestIdentityFromToken_AnonymousCases(t *testing.T) {
	req := require.New(t)
	userID := uuid.New()

	// No token at all.
	req.Nil(identityFromToken("", testSecret))

	// Wrong signing secret.
	forged := signedToken(t, "some-other-secret", jwt.MapClaims{"user_id": userID.String()})
	req.Nil(identityFromToken(forged, testSecret))

	// Expired token.
	expired := signedToken(t, testSecret, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	req.Nil(identityFromToken(expired, testSecret))

	// Garbage user_id claim: never fall back to treating the raw
	// string as an identity.
	junk := signedToken(t, testSecret, jwt.MapClaims{"user_id": "undefined"})
	req.Nil(identityFromToken(junk, testSecret))

	// Missing claim.
	missing := signedToken(t, testSecret, jwt.MapClaims{"sub": "nobody"})
	req.Nil(identityFromToken(missing, testSecret))
}
