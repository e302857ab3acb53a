package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/model"
)

// MinWithdrawalAmount is the fixed withdrawal floor in SEK.
const MinWithdrawalAmount = 150

var _ model.BalanceProvider = (*Ledger)(nil)

// Ledger owns the money paths: purchases with commission splitting, seller
// earnings, withdrawal requests, and balance computation.
type Ledger struct {
	userStore       model.UserStore
	noteStore       model.NoteStore
	paymentStore    model.PaymentStore
	withdrawalStore model.WithdrawalStore
	processor       model.PaymentProcessor
	logger          *logger.Logger
}

func NewLedger(
	userStore model.UserStore,
	noteStore model.NoteStore,
	paymentStore model.PaymentStore,
	withdrawalStore model.WithdrawalStore,
	processor model.PaymentProcessor,
	logger *logger.Logger,
) *Ledger {
	return &Ledger{
		userStore:       userStore,
		noteStore:       noteStore,
		paymentStore:    paymentStore,
		withdrawalStore: withdrawalStore,
		processor:       processor,
		logger:          logger,
	}
}

// Purchase buys a note for the given user. Free notes produce a zero-amount
// payment. A soft-deleted or unknown note is reported as not found either way.
func (l *Ledger) Purchase(ctx context.Context, buyer model.User, noteID uuid.UUID, paymentMethod string) (model.Payment, error) {
	l.logger.Debug("Ledger service: purchasing note",
		"buyer_id", buyer.ID,
		"note_id", noteID)

	note, err := l.noteStore.GetByID(ctx, noteID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Payment{}, apierrors.NewErrNoteNotFound(noteID)
	}
	if err != nil {
		return model.Payment{}, fmt.Errorf("failed to get note: %w", err)
	}
	if note.Deleted() {
		return model.Payment{}, apierrors.NewErrNoteNotFound(noteID)
	}

	purchased, err := l.userStore.HasPurchased(ctx, buyer.ID, noteID)
	if err != nil {
		return model.Payment{}, fmt.Errorf("failed to check purchase: %w", err)
	}
	if purchased {
		return model.Payment{}, apierrors.NewErrAlreadyPurchased(noteID)
	}

	result, err := l.processor.Process(ctx, model.PaymentRequest{
		Amount: note.Price,
		Method: paymentMethod,
	})
	if err != nil {
		return model.Payment{}, fmt.Errorf("failed to process payment: %w", err)
	}

	commission := roundToOre(note.Price * model.CommissionRate)
	payment := model.Payment{
		ID:            uuid.New(),
		BuyerID:       buyer.ID,
		BuyerEmail:    buyer.Email,
		SellerID:      note.OwnerID,
		SellerEmail:   note.UploaderEmail,
		NoteID:        noteID,
		Amount:        note.Price,
		Commission:    commission,
		SellerAmount:  roundToOre(note.Price - commission),
		PaymentMethod: paymentMethod,
		Status:        result.Status,
	}

	payment, err = l.paymentStore.RecordPurchase(ctx, payment)
	if err != nil {
		return model.Payment{}, fmt.Errorf("failed to record purchase: %w", err)
	}

	l.logger.Info("Ledger service: purchase completed",
		"payment_id", payment.ID,
		"buyer_id", buyer.ID,
		"note_id", noteID,
		"amount", payment.Amount)

	return payment, nil
}

func (l *Ledger) Purchases(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	payments, err := l.paymentStore.GetByBuyerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, nil
}

// RequestWithdrawal creates a pending withdrawal, runs it through the payment
// processor, and marks it completed. The amount must be at least the fixed
// minimum and must not exceed the available balance.
func (l *Ledger) RequestWithdrawal(ctx context.Context, user model.User, amount float64, paymentMethod string) (model.Withdrawal, error) {
	l.logger.Debug("Ledger service: requesting withdrawal",
		"user_id", user.ID,
		"amount", amount)

	if amount < MinWithdrawalAmount {
		return model.Withdrawal{}, apierrors.NewErrWithdrawalBelowMinimum(MinWithdrawalAmount)
	}

	balance, err := l.Balance(ctx, user)
	if err != nil {
		return model.Withdrawal{}, err
	}
	if amount > balance.Available {
		return model.Withdrawal{}, apierrors.NewErrInsufficientFunds(balance.Available)
	}

	withdrawal := model.Withdrawal{
		ID:            uuid.New(),
		UserID:        user.ID,
		Amount:        amount,
		PaymentMethod: paymentMethod,
		Status:        model.WithdrawalStatusPending,
	}

	withdrawal, err = l.withdrawalStore.Create(ctx, withdrawal)
	if err != nil {
		return model.Withdrawal{}, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	if _, err := l.processor.Process(ctx, model.PaymentRequest{
		Amount: amount,
		Method: paymentMethod,
	}); err != nil {
		return model.Withdrawal{}, fmt.Errorf("failed to process payout: %w", err)
	}

	withdrawal, err = l.withdrawalStore.Complete(ctx, withdrawal.ID, time.Now())
	if err != nil {
		return model.Withdrawal{}, fmt.Errorf("failed to complete withdrawal: %w", err)
	}

	l.logger.Info("Ledger service: withdrawal completed",
		"withdrawal_id", withdrawal.ID,
		"user_id", user.ID,
		"amount", amount)

	return withdrawal, nil
}

func (l *Ledger) Withdrawals(ctx context.Context, userID uuid.UUID) ([]model.Withdrawal, error) {
	withdrawals, err := l.withdrawalStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawals: %w", err)
	}
	return withdrawals, nil
}

// Balance recomputes the user's position from withdrawal history. Withdrawn
// is never stored on the user record.
func (l *Ledger) Balance(ctx context.Context, user model.User) (model.Balance, error) {
	withdrawn, err := l.withdrawalStore.SumCompletedByUserID(ctx, user.ID)
	if err != nil {
		return model.Balance{}, fmt.Errorf("failed to sum withdrawals: %w", err)
	}

	available := roundToOre(user.Earnings - withdrawn)

	return model.Balance{
		Earnings:    user.Earnings,
		Withdrawn:   withdrawn,
		Available:   available,
		CanWithdraw: available >= MinWithdrawalAmount,
	}, nil
}

// roundToOre rounds to the currency minor unit with round-half-even.
func roundToOre(amount float64) float64 {
	return math.RoundToEven(amount*100) / 100
}
