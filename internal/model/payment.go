package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CommissionRate is the platform's fixed cut of every sale. The remainder is
// credited to the seller.
const CommissionRate = 0.30

// PaymentStatusCompleted is the only payment status the mocked processor
// produces; no pending or failed states are modeled.
const PaymentStatusCompleted = "completed"

// PaymentStore defines persistence operations for the purchase ledger.
//
// RecordPurchase applies the four purchase effects as one transaction: insert
// the payment, add the note to the buyer's purchase set, credit the seller's
// earnings with SellerAmount, and increment the note's download counter.
type PaymentStore interface {
	RecordPurchase(ctx context.Context, payment Payment) (Payment, error)
	GetByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]Payment, error)
}

// Payment is an immutable purchase ledger entry with the commission split.
type Payment struct {
	ID            uuid.UUID `json:"id"`
	BuyerID       uuid.UUID `json:"-"`
	BuyerEmail    string    `json:"buyer_email"`
	SellerID      uuid.UUID `json:"-"`
	SellerEmail   string    `json:"seller_email"`
	NoteID        uuid.UUID `json:"note_id"`
	Amount        float64   `json:"amount"`
	Commission    float64   `json:"commission"`
	SellerAmount  float64   `json:"seller_amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentProcessor executes a payment or payout with an external provider.
// The shipped implementation is a mock that always succeeds after an
// artificial delay; a real integration substitutes here without touching
// calling code.
type PaymentProcessor interface {
	Process(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

// PaymentRequest describes a charge or payout to process.
type PaymentRequest struct {
	Amount float64
	Method string
}

// PaymentResult is the processor's outcome.
type PaymentResult struct {
	Reference string
	Status    string
}
