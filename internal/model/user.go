package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users and their purchase set.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	HasPurchased(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) (bool, error)
	GetPurchasedNoteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// User represents a registered student.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	University   string
	Earnings     float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterParams contains parameters to register a new user.
type RegisterParams struct {
	Email      string
	Password   string
	Name       string
	University string
}

// UpdateProfileParams contains a partial profile update. Nil fields are left
// unchanged.
type UpdateProfileParams struct {
	Name       *string
	University *string
	Password   *string
}

// Session is the result of a successful registration or login.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	User         User
}

// Profile is the per-user view returned by the profile endpoint. Withdrawn is
// recomputed from completed withdrawal history on every read, never stored.
type Profile struct {
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	University       string    `json:"university"`
	Earnings         float64   `json:"earnings"`
	Withdrawn        float64   `json:"withdrawn"`
	AvailableBalance float64   `json:"available_balance"`
	CanWithdraw      bool      `json:"can_withdraw"`
	NotesUploaded    int       `json:"notes_uploaded"`
	NotesPurchased   int       `json:"notes_purchased"`
	CreatedAt        time.Time `json:"created_at"`
}
