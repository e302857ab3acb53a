package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/studydeck/studydeck-server/internal/model"
)

// Claims represents JWT claims with token type and user ID. The registered
// subject claim carries the user's email.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey}
}

const (
	accessTTL   = 30 * time.Minute
	refreshTTL  = 30 * 24 * time.Hour
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// GenerateAccessToken creates an access token valid for 30 minutes.
func (j *JWT) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
		UserID:    userID,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a long-lived refresh token and returns its JTI.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID, email string) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTTL)),
		},
		UserID:    userID,
		TokenType: typeRefresh,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, jti, nil
}

// ParseAccessToken validates an access token and extracts its holder.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenDetails, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return model.TokenDetails{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.TokenType != typeAccess {
		return model.TokenDetails{}, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return model.TokenDetails{UserID: claims.UserID, Email: claims.Subject}, nil
}

// ParseRefreshToken validates a refresh token and extracts its holder and JTI.
func (j *JWT) ParseRefreshToken(tokenString string) (model.TokenDetails, string, error) {
	claims, err := j.parse(tokenString)
	if err != nil {
		return model.TokenDetails{}, "", fmt.Errorf("failed to parse refresh token: %w", err)
	}
	if claims.TokenType != typeRefresh {
		return model.TokenDetails{}, "", fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return model.TokenDetails{UserID: claims.UserID, Email: claims.Subject}, claims.ID, nil
}

func (j *JWT) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	return claims, nil
}
