package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/studydeck/studydeck-server/internal/model"
)

var _ model.CommentStore = (*CommentRepository)(nil)

type CommentRepository struct {
	db *Connection
}

func NewCommentRepository(db *Connection) *CommentRepository {
	return &CommentRepository{
		db: db,
	}
}

// Add inserts the comment and recomputes the note's aggregate rating from the
// full comment set inside one transaction.
func (r *CommentRepository) Add(ctx context.Context, comment model.Comment) (model.Comment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO comments (id, note_id, user_id, user_email, user_name, body, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err = tx.QueryRow(ctx, insertQuery,
		comment.ID, comment.NoteID, comment.UserID, comment.UserEmail,
		comment.UserName, comment.Body, comment.Rating,
	).Scan(&comment.CreatedAt)
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}

	ratingQuery := `
		UPDATE notes
		SET rating = (SELECT COALESCE(AVG(rating), 0) FROM comments WHERE note_id = $1),
		    rating_count = (SELECT COUNT(*) FROM comments WHERE note_id = $1),
		    updated_at = NOW()
		WHERE id = $1`

	if _, err := tx.Exec(ctx, ratingQuery, comment.NoteID); err != nil {
		return model.Comment{}, fmt.Errorf("failed to refresh note rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Comment{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return comment, nil
}

func (r *CommentRepository) GetByNoteID(ctx context.Context, noteID uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT id, note_id, user_id, user_email, user_name, body, rating, created_at
		FROM comments
		WHERE note_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var comment model.Comment
		err := rows.Scan(
			&comment.ID, &comment.NoteID, &comment.UserID, &comment.UserEmail,
			&comment.UserName, &comment.Body, &comment.Rating, &comment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
