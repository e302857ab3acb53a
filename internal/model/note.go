package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NoteStore defines persistence operations for notes.
//
// GetByID and GetByIDs return soft-deleted rows as well; visibility of deleted
// notes is decided by the service layer, because owners and purchasers retain
// access after deletion. Search never returns deleted rows.
type NoteStore interface {
	Create(ctx context.Context, note Note) (Note, error)
	GetByID(ctx context.Context, id uuid.UUID) (Note, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Note, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Note, error)
	CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int, error)
	Update(ctx context.Context, note Note) (Note, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter NoteFilter) ([]Note, error)
}

// CommentStore defines persistence operations for note comments. Add appends
// the comment and refreshes the note's aggregate rating from the full comment
// set in the same transaction.
type CommentStore interface {
	Add(ctx context.Context, comment Comment) (Comment, error)
	GetByNoteID(ctx context.Context, noteID uuid.UUID) ([]Comment, error)
}

// Note represents an uploaded set of course notes with generated study aids.
// FileKey is the object storage key and is never serialized; access to the
// file is granted through NoteView.FileURL only.
type Note struct {
	ID            uuid.UUID      `json:"id"`
	OwnerID       uuid.UUID      `json:"-"`
	UploaderEmail string         `json:"uploader_email"`
	UploaderName  string         `json:"uploader_name"`
	Title         string         `json:"title"`
	University    string         `json:"university"`
	CourseCode    string         `json:"course_code"`
	BookReference string         `json:"book_reference,omitempty"`
	Description   string         `json:"description,omitempty"`
	Price         float64        `json:"price"`
	FileName      string         `json:"file_name"`
	FileKey       string         `json:"-"`
	Summary       string         `json:"summary"`
	Flashcards    []Flashcard    `json:"flashcards"`
	Quiz          []QuizQuestion `json:"quiz"`
	Downloads     int            `json:"downloads"`
	Rating        float64        `json:"rating"`
	RatingCount   int            `json:"rating_count"`
	Comments      []Comment      `json:"comments,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"-"`
	DeletedAt     *time.Time     `json:"-"`
}

// Deleted reports whether the note has been soft-deleted.
func (n Note) Deleted() bool {
	return n.DeletedAt != nil
}

// NoteView is a note as seen by a particular requester. FileURL is set only
// when the requester has full access; otherwise AccessRequired is true and the
// file reference is withheld while metadata and study aids stay visible.
type NoteView struct {
	Note
	FileURL        string `json:"file_url,omitempty"`
	AccessRequired bool   `json:"access_required,omitempty"`
}

// Comment is an immutable rating comment appended to a note.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	NoteID    uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"-"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	Body      string    `json:"comment"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Flashcard is a generated question/answer pair.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion is a generated multiple-choice question. Correct indexes into
// Options.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// NoteFilter describes a note search. All text fields are case-insensitive
// substring matches; Keyword matches title, description, or summary.
type NoteFilter struct {
	University    string
	CourseCode    string
	BookReference string
	Keyword       string
	Limit         int
}

// UploadNoteParams contains parameters to upload a new note.
type UploadNoteParams struct {
	Title         string
	University    string
	CourseCode    string
	BookReference string
	Description   string
	Price         float64
	FileName      string
	Data          []byte
}

// UpdateNoteParams contains a partial note update. Nil fields are left
// unchanged.
type UpdateNoteParams struct {
	Title         *string
	University    *string
	CourseCode    *string
	BookReference *string
	Description   *string
	Price         *float64
}
