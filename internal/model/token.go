package model

import "github.com/google/uuid"

// TokenDetails identifies the user a token was issued to. Email is the token
// subject.
type TokenDetails struct {
	UserID uuid.UUID
	Email  string
}

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	GenerateRefreshToken(userID uuid.UUID, email string) (token string, jti string, err error)
	ParseAccessToken(token string) (TokenDetails, error)
	ParseRefreshToken(token string) (details TokenDetails, jti string, err error)
}
