package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// Tokens issues and validates the HS256 session tokens handed out on sign-in.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for uid.
func (t *Tokens) Issue(uid, phone string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub":   uid,
		"phone": phone,
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates tokenString and returns its subject and phone claims.
func (t *Tokens) Parse(tokenString string) (uid, phone string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}
	uid, _ = claims["sub"].(string)
	if uid == "" {
		return "", "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	phone, _ = claims["phone"].(string)
	return uid, phone, nil
}
