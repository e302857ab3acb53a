package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/studydeck/studydeck-server/internal/model"
)

var _ model.PaymentStore = (*PaymentRepository)(nil)

type PaymentRepository struct {
	db *Connection
}

func NewPaymentRepository(db *Connection) *PaymentRepository {
	return &PaymentRepository{
		db: db,
	}
}

// RecordPurchase applies all purchase effects atomically: the payment row, the
// buyer's purchase entry, the seller's earnings credit, and the note's download
// counter either all land or none do.
func (r *PaymentRepository) RecordPurchase(ctx context.Context, payment model.Payment) (model.Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Payment{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	paymentQuery := `
		INSERT INTO payments (id, buyer_id, seller_id, note_id, amount, commission,
		                      seller_amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err = tx.QueryRow(ctx, paymentQuery,
		payment.ID, payment.BuyerID, payment.SellerID, payment.NoteID,
		payment.Amount, payment.Commission, payment.SellerAmount,
		payment.PaymentMethod, payment.Status,
	).Scan(&payment.CreatedAt)
	if err != nil {
		return model.Payment{}, fmt.Errorf("failed to insert payment: %w", err)
	}

	purchaseQuery := `INSERT INTO purchases (user_id, note_id) VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, purchaseQuery, payment.BuyerID, payment.NoteID); err != nil {
		return model.Payment{}, fmt.Errorf("failed to insert purchase: %w", err)
	}

	earningsQuery := `UPDATE users SET earnings = earnings + $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, earningsQuery, payment.SellerID, payment.SellerAmount); err != nil {
		return model.Payment{}, fmt.Errorf("failed to credit seller earnings: %w", err)
	}

	downloadsQuery := `UPDATE notes SET downloads = downloads + 1, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, downloadsQuery, payment.NoteID); err != nil {
		return model.Payment{}, fmt.Errorf("failed to increment downloads: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Payment{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return payment, nil
}

func (r *PaymentRepository) GetByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]model.Payment, error) {
	query := `
		SELECT p.id, p.buyer_id, b.email, p.seller_id, s.email, p.note_id,
		       p.amount, p.commission, p.seller_amount, p.payment_method, p.status, p.created_at
		FROM payments p
		JOIN users b ON b.id = p.buyer_id
		JOIN users s ON s.id = p.seller_id
		WHERE p.buyer_id = $1
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var payment model.Payment
		err := rows.Scan(
			&payment.ID, &payment.BuyerID, &payment.BuyerEmail,
			&payment.SellerID, &payment.SellerEmail, &payment.NoteID,
			&payment.Amount, &payment.Commission, &payment.SellerAmount,
			&payment.PaymentMethod, &payment.Status, &payment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
