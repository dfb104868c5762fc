package utils

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"go-foodorder/models"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

// Claims represents the JWT claims carried by a session token.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

// TokenService signs and verifies session tokens with the server secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService around the configured secret.
func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret}
}

// Generate issues a signed token for a user.
func (ts *TokenService) Generate(user models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(TokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Parse validates a token string and returns its claims. Expired or
// tampered tokens fail.
func (ts *TokenService) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
