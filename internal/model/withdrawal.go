package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Withdrawal statuses. A withdrawal is created pending and synchronously
// completed; no failure path is modeled.
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusCompleted = "completed"
)

// WithdrawalStore defines persistence operations for withdrawal requests.
type WithdrawalStore interface {
	Create(ctx context.Context, withdrawal Withdrawal) (Withdrawal, error)
	Complete(ctx context.Context, id uuid.UUID, processedAt time.Time) (Withdrawal, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Withdrawal, error)
	SumCompletedByUserID(ctx context.Context, userID uuid.UUID) (float64, error)
}

// Withdrawal is a seller's payout request.
type Withdrawal struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"-"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// Balance is a seller's earnings position. Available is Earnings minus the
// sum of completed withdrawals and never goes negative through a withdrawal.
type Balance struct {
	Earnings    float64
	Withdrawn   float64
	Available   float64
	CanWithdraw bool
}

// BalanceProvider computes a user's current balance.
type BalanceProvider interface {
	Balance(ctx context.Context, user User) (Balance, error)
}
