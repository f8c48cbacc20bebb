package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "verifier-secret"

func issueToken(t *testing.T, secret string, payload jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerify_Success(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := issueToken(t, testSecret, jwt.MapClaims{
		"userId": "USR_abc",
		"email":  "aut@campus.edu",
		"rol":    "authority",
		"area":   "seguridad",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	claims, err := verifier.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, "USR_abc", claims.SubjectID)
	assert.Equal(t, "aut@campus.edu", claims.Email)
	assert.Equal(t, models.RoleAuthority, claims.Role)
	assert.Equal(t, "seguridad", claims.Area)
}

func TestVerify_EmptyToken(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	_, err := verifier.Verify("")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := issueToken(t, "other-secret", jwt.MapClaims{
		"userId": "USR_abc",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	_, err := verifier.Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := issueToken(t, testSecret, jwt.MapClaims{
		"userId": "USR_abc",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})

	_, err := verifier.Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingSubject(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := issueToken(t, testSecret, jwt.MapClaims{
		"email": "anonymous@campus.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := verifier.Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNonHMACAlgorithm(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	// Токен с alg=none не должен проходить проверку
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "USR_abc",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
