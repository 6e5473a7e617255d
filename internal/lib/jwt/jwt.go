package jwt

import (
	"errors"
	"fmt"
	"time"

	"pg_wallpaper/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")
	ErrWrongTokenType     = errors.New("wrong token type")
)

// TokenType separates short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims is what the service needs back from a verified token.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

func NewToken(user models.User, typ TokenType, duration time.Duration, secret string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = user.ID.String()
	claims["email"] = user.Email
	claims["typ"] = string(typ)
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()
	// jti keeps two tokens issued within the same second distinct
	claims["jti"] = uuid.NewString()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature, expiry and token type and extracts the claims.
func ParseToken(tokenString string, typ TokenType, secret string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidTokenClaims
	}

	if t, _ := mc["typ"].(string); t != string(typ) {
		return Claims{}, ErrWrongTokenType
	}

	uid, ok := mc["uid"].(string)
	if !ok {
		return Claims{}, ErrInvalidTokenClaims
	}

	id, err := uuid.Parse(uid)
	if err != nil {
		return Claims{}, ErrInvalidTokenClaims
	}

	email, _ := mc["email"].(string)

	return Claims{UserID: id, Email: email}, nil
}
