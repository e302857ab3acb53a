package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/studydeck/studydeck-server/internal/model"
)

var _ model.WithdrawalStore = (*WithdrawalRepository)(nil)

type WithdrawalRepository struct {
	db *Connection
}

func NewWithdrawalRepository(db *Connection) *WithdrawalRepository {
	return &WithdrawalRepository{
		db: db,
	}
}

func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal model.Withdrawal) (model.Withdrawal, error) {
	query := `
		INSERT INTO withdrawals (id, user_id, amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		withdrawal.ID, withdrawal.UserID, withdrawal.Amount,
		withdrawal.PaymentMethod, withdrawal.Status,
	).Scan(&withdrawal.CreatedAt)
	if err != nil {
		return model.Withdrawal{}, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	return withdrawal, nil
}

func (r *WithdrawalRepository) Complete(ctx context.Context, id uuid.UUID, processedAt time.Time) (model.Withdrawal, error) {
	query := `
		UPDATE withdrawals
		SET status = $2, processed_at = $3
		WHERE id = $1
		RETURNING id, user_id, amount, payment_method, status, created_at, processed_at`

	var withdrawal model.Withdrawal
	err := r.db.QueryRow(ctx, query, id, model.WithdrawalStatusCompleted, processedAt).Scan(
		&withdrawal.ID, &withdrawal.UserID, &withdrawal.Amount,
		&withdrawal.PaymentMethod, &withdrawal.Status,
		&withdrawal.CreatedAt, &withdrawal.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Withdrawal{}, model.ErrNotFound
		}
		return model.Withdrawal{}, fmt.Errorf("failed to complete withdrawal: %w", err)
	}

	return withdrawal, nil
}

func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Withdrawal, error) {
	query := `
		SELECT id, user_id, amount, payment_method, status, created_at, processed_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []model.Withdrawal
	for rows.Next() {
		var withdrawal model.Withdrawal
		err := rows.Scan(
			&withdrawal.ID, &withdrawal.UserID, &withdrawal.Amount,
			&withdrawal.PaymentMethod, &withdrawal.Status,
			&withdrawal.CreatedAt, &withdrawal.ProcessedAt,
		)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return withdrawals, nil
}

func (r *WithdrawalRepository) SumCompletedByUserID(ctx context.Context, userID uuid.UUID) (float64, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE user_id = $1 AND status = $2`

	var sum float64
	err := r.db.QueryRow(ctx, query, userID, model.WithdrawalStatusCompleted).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum withdrawals: %w", err)
	}

	return sum, nil
}
