package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/studydeck/studydeck-server/internal/model"
)

var _ model.NoteStore = (*NoteRepository)(nil)

type NoteRepository struct {
	db *Connection
}

func NewNoteRepository(db *Connection) *NoteRepository {
	return &NoteRepository{
		db: db,
	}
}

const noteColumns = `n.id, n.owner_id, u.email, u.name, n.title, n.university, n.course_code,
       n.book_reference, n.description, n.price, n.file_name, n.file_key, n.summary,
       n.flashcards, n.quiz, n.downloads, n.rating, n.rating_count, n.created_at, n.updated_at, n.deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (model.Note, error) {
	var note model.Note
	var flashcards, quiz []byte

	err := row.Scan(
		&note.ID, &note.OwnerID, &note.UploaderEmail, &note.UploaderName,
		&note.Title, &note.University, &note.CourseCode,
		&note.BookReference, &note.Description, &note.Price,
		&note.FileName, &note.FileKey, &note.Summary,
		&flashcards, &quiz,
		&note.Downloads, &note.Rating, &note.RatingCount,
		&note.CreatedAt, &note.UpdatedAt, &note.DeletedAt,
	)
	if err != nil {
		return model.Note{}, err
	}

	if err := json.Unmarshal(flashcards, &note.Flashcards); err != nil {
		return model.Note{}, fmt.Errorf("failed to unmarshal flashcards: %w", err)
	}
	if err := json.Unmarshal(quiz, &note.Quiz); err != nil {
		return model.Note{}, fmt.Errorf("failed to unmarshal quiz: %w", err)
	}

	return note, nil
}

func collectNotes(rows pgx.Rows) ([]model.Note, error) {
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *NoteRepository) Create(ctx context.Context, note model.Note) (model.Note, error) {
	flashcards, err := json.Marshal(note.Flashcards)
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to marshal flashcards: %w", err)
	}
	quiz, err := json.Marshal(note.Quiz)
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to marshal quiz: %w", err)
	}

	query := `
		INSERT INTO notes (id, owner_id, title, university, course_code, book_reference,
		                   description, price, file_name, file_key, summary, flashcards, quiz)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		note.ID, note.OwnerID, note.Title, note.University, note.CourseCode, note.BookReference,
		note.Description, note.Price, note.FileName, note.FileKey, note.Summary, flashcards, quiz,
	).Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// GetByID returns the note regardless of its soft-delete state; the service
// layer decides who may see a deleted note.
func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes n
		JOIN users u ON u.id = n.owner_id
		WHERE n.id = $1`

	note, err := scanNote(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Note{}, model.ErrNotFound
		}
		return model.Note{}, err
	}

	return note, nil
}

func (r *NoteRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + noteColumns + `
		FROM notes n
		JOIN users u ON u.id = n.owner_id
		WHERE n.id = ANY($1)
		ORDER BY n.created_at DESC`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}

	return collectNotes(rows)
}

func (r *NoteRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes n
		JOIN users u ON u.id = n.owner_id
		WHERE n.owner_id = $1
		ORDER BY n.created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}

	return collectNotes(rows)
}

func (r *NoteRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int, error) {
	const query = `SELECT COUNT(*) FROM notes WHERE owner_id = $1 AND deleted_at IS NULL`

	var count int
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notes by owner: %w", err)
	}

	return count, nil
}

func (r *NoteRepository) Update(ctx context.Context, note model.Note) (model.Note, error) {
	query := `
		UPDATE notes
		SET title = $2, university = $3, course_code = $4, book_reference = $5,
		    description = $6, price = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		note.ID, note.Title, note.University, note.CourseCode, note.BookReference,
		note.Description, note.Price,
	).Scan(&note.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Note{}, model.ErrNotFound
		}
		return model.Note{}, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

func (r *NoteRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE notes SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Search matches live notes with case-insensitive substring filters. Keyword
// matches title, description, or summary.
func (r *NoteRepository) Search(ctx context.Context, filter model.NoteFilter) ([]model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes n
		JOIN users u ON u.id = n.owner_id
		WHERE n.deleted_at IS NULL`
	var args []any

	if filter.University != "" {
		args = append(args, filter.University)
		query += fmt.Sprintf(" AND n.university ILIKE '%%' || $%d || '%%'", len(args))
	}
	if filter.CourseCode != "" {
		args = append(args, filter.CourseCode)
		query += fmt.Sprintf(" AND n.course_code ILIKE '%%' || $%d || '%%'", len(args))
	}
	if filter.BookReference != "" {
		args = append(args, filter.BookReference)
		query += fmt.Sprintf(" AND n.book_reference ILIKE '%%' || $%d || '%%'", len(args))
	}
	if filter.Keyword != "" {
		args = append(args, filter.Keyword)
		n := len(args)
		query += fmt.Sprintf(
			" AND (n.title ILIKE '%%' || $%d || '%%' OR n.description ILIKE '%%' || $%d || '%%' OR n.summary ILIKE '%%' || $%d || '%%')",
			n, n, n,
		)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY n.created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return collectNotes(rows)
}
