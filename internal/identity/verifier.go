package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shenikar/campus_alert_system/internal/models"
)

// ErrInvalidToken - токен отсутствует, не прошел проверку подписи или истек
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier проверяет предъявленный токен и извлекает из него claims.
// Выпуск токенов - забота внешнего сервиса аутентификации.
type Verifier interface {
	Verify(token string) (models.Claims, error)
}

// JWTVerifier - реализация Verifier для HS256 токенов внешнего издателя
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// tokenClaims - формат полезной нагрузки токена, как его пишет издатель
type tokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"rol"`
	Area   string `json:"area,omitempty"`
	jwt.RegisteredClaims
}

// Verify проверяет подпись и срок действия токена и возвращает claims
func (v *JWTVerifier) Verify(token string) (models.Claims, error) {
	if token == "" {
		return models.Claims{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return models.Claims{}, ErrInvalidToken
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return models.Claims{}, ErrInvalidToken
	}

	claims := models.Claims{
		SubjectID: tc.UserID,
		Email:     tc.Email,
		Role:      models.Role(tc.Role),
		Area:      tc.Area,
	}
	if claims.SubjectID == "" {
		return models.Claims{}, ErrInvalidToken
	}
	return claims, nil
}
