package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/model"
)

const pdfContentType = "application/pdf"

// Note implements the note lifecycle: upload with study aid generation,
// visibility-aware reads, owner edits, soft delete, and rating comments.
type Note struct {
	noteStore    model.NoteStore
	commentStore model.CommentStore
	userStore    model.UserStore
	storage      model.Storage
	extractor    model.TextExtractor
	generator    model.StudyAidsGenerator
	logger       *logger.Logger
}

func NewNote(
	noteStore model.NoteStore,
	commentStore model.CommentStore,
	userStore model.UserStore,
	storage model.Storage,
	extractor model.TextExtractor,
	generator model.StudyAidsGenerator,
	logger *logger.Logger,
) *Note {
	return &Note{
		noteStore:    noteStore,
		commentStore: commentStore,
		userStore:    userStore,
		storage:      storage,
		extractor:    extractor,
		generator:    generator,
		logger:       logger,
	}
}

// Upload stores the PDF, generates study aids, and persists the note. If the
// database insert fails the stored object is removed again.
func (s *Note) Upload(ctx context.Context, owner model.User, params model.UploadNoteParams) (model.Note, error) {
	s.logger.Debug("Note service: uploading note",
		"owner_id", owner.ID,
		"title", params.Title)

	if !strings.HasSuffix(params.FileName, ".pdf") {
		return model.Note{}, apierrors.NewErrInvalidFileType()
	}
	if params.Price < 0 {
		return model.Note{}, apierrors.NewErrInvalidPrice(params.Price)
	}

	fileKey := fmt.Sprintf("%s_%s", uuid.NewString(), params.FileName)

	err := s.storage.Upload(ctx, fileKey, bytes.NewReader(params.Data), int64(len(params.Data)), pdfContentType)
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to store file: %w", err)
	}

	// Extraction failure is non-fatal; the mock generator does not depend on
	// the text.
	text, err := s.extractor.Extract(params.Data)
	if err != nil {
		s.logger.Info("Note service: text extraction failed",
			"file_key", fileKey,
			"error", err.Error())
		text = ""
	}

	aids, err := s.generator.Generate(ctx, text)
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to generate study aids: %w", err)
	}

	note := model.Note{
		ID:            uuid.New(),
		OwnerID:       owner.ID,
		UploaderEmail: owner.Email,
		UploaderName:  owner.Name,
		Title:         params.Title,
		University:    params.University,
		CourseCode:    params.CourseCode,
		BookReference: params.BookReference,
		Description:   params.Description,
		Price:         params.Price,
		FileName:      params.FileName,
		FileKey:       fileKey,
		Summary:       aids.Summary,
		Flashcards:    aids.Flashcards,
		Quiz:          aids.Quiz,
	}

	note, err = s.noteStore.Create(ctx, note)
	if err != nil {
		if delErr := s.storage.Delete(ctx, fileKey); delErr != nil {
			s.logger.Error("Note service: failed to remove orphaned file",
				"file_key", fileKey,
				"error", delErr.Error())
		}
		return model.Note{}, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Info("Note service: note uploaded",
		"note_id", note.ID,
		"owner_id", owner.ID)

	return note, nil
}

// Get returns a note as seen by the requester, with comments attached.
func (s *Note) Get(ctx context.Context, requester model.User, id uuid.UUID) (model.NoteView, error) {
	note, err := s.noteStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.NoteView{}, apierrors.NewErrNoteNotFound(id)
	}
	if err != nil {
		return model.NoteView{}, fmt.Errorf("failed to get note: %w", err)
	}

	view, err := s.resolveView(ctx, requester, note)
	if err != nil {
		return model.NoteView{}, err
	}

	comments, err := s.commentStore.GetByNoteID(ctx, id)
	if err != nil {
		return model.NoteView{}, fmt.Errorf("failed to get comments: %w", err)
	}
	view.Comments = comments

	return view, nil
}

// resolveView applies the visibility rules in one place. A soft-deleted note
// is visible only to its owner and purchasers; to anyone else it does not
// exist. Full access (file reference) requires ownership, a purchase, or a
// zero price; otherwise metadata and study aids are returned with the access
// flag set.
func (s *Note) resolveView(ctx context.Context, requester model.User, note model.Note) (model.NoteView, error) {
	owner := note.OwnerID == requester.ID

	purchased := false
	if !owner {
		var err error
		purchased, err = s.userStore.HasPurchased(ctx, requester.ID, note.ID)
		if err != nil {
			return model.NoteView{}, fmt.Errorf("failed to check purchase: %w", err)
		}
	}

	if note.Deleted() && !owner && !purchased {
		return model.NoteView{}, apierrors.NewErrNoteNotFound(note.ID)
	}

	view := model.NoteView{Note: note}
	if owner || purchased || note.Price == 0 {
		view.FileURL = fileURL(note.FileKey)
	} else {
		view.AccessRequired = true
	}

	return view, nil
}

func (s *Note) Search(ctx context.Context, filter model.NoteFilter) ([]model.Note, error) {
	notes, err := s.noteStore.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	return notes, nil
}

// Update applies a partial edit. Only the owner may edit, and deleted notes
// cannot be edited.
func (s *Note) Update(ctx context.Context, requester model.User, id uuid.UUID, params model.UpdateNoteParams) (model.Note, error) {
	note, err := s.noteStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Note{}, apierrors.NewErrNoteNotFound(id)
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to get note: %w", err)
	}

	if note.OwnerID != requester.ID {
		return model.Note{}, apierrors.NewErrNotNoteOwner()
	}
	if note.Deleted() {
		return model.Note{}, apierrors.NewErrNoteNotFound(id)
	}

	if params.Title != nil {
		note.Title = *params.Title
	}
	if params.University != nil {
		note.University = *params.University
	}
	if params.CourseCode != nil {
		note.CourseCode = *params.CourseCode
	}
	if params.BookReference != nil {
		note.BookReference = *params.BookReference
	}
	if params.Description != nil {
		note.Description = *params.Description
	}
	if params.Price != nil {
		if *params.Price < 0 {
			return model.Note{}, apierrors.NewErrInvalidPrice(*params.Price)
		}
		note.Price = *params.Price
	}

	note, err = s.noteStore.Update(ctx, note)
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// Delete soft-deletes a note. The stored file is kept so purchasers retain
// access.
func (s *Note) Delete(ctx context.Context, requester model.User, id uuid.UUID) error {
	note, err := s.noteStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNoteNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	if note.OwnerID != requester.ID {
		return apierrors.NewErrNotNoteOwner()
	}
	if note.Deleted() {
		return apierrors.NewErrNoteNotFound(id)
	}

	if err := s.noteStore.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.logger.Info("Note service: note deleted",
		"note_id", id,
		"owner_id", requester.ID)

	return nil
}

// AddComment appends a rating comment; the note's aggregate rating is
// recomputed from the full comment set.
func (s *Note) AddComment(ctx context.Context, requester model.User, noteID uuid.UUID, body string, rating int) (model.Comment, error) {
	if rating < 1 || rating > 5 {
		return model.Comment{}, apierrors.NewErrInvalidRating(rating)
	}

	note, err := s.noteStore.GetByID(ctx, noteID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Comment{}, apierrors.NewErrNoteNotFound(noteID)
	}
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to get note: %w", err)
	}

	if _, err := s.resolveView(ctx, requester, note); err != nil {
		return model.Comment{}, err
	}

	comment := model.Comment{
		ID:        uuid.New(),
		NoteID:    noteID,
		UserID:    requester.ID,
		UserEmail: requester.Email,
		UserName:  requester.Name,
		Body:      body,
		Rating:    rating,
	}

	comment, err = s.commentStore.Add(ctx, comment)
	if err != nil {
		return model.Comment{}, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

// MyNotes returns the requester's uploads, deleted ones included, with file
// access.
func (s *Note) MyNotes(ctx context.Context, requester model.User) ([]model.NoteView, error) {
	notes, err := s.noteStore.GetByOwnerID(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes by owner: %w", err)
	}

	return ownedViews(notes), nil
}

// MyPurchases returns the notes the requester has bought, deleted ones
// included, with file access.
func (s *Note) MyPurchases(ctx context.Context, requester model.User) ([]model.NoteView, error) {
	ids, err := s.userStore.GetPurchasedNoteIDs(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchased note ids: %w", err)
	}

	notes, err := s.noteStore.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchased notes: %w", err)
	}

	return ownedViews(notes), nil
}

// Download streams a stored note file by its object key.
func (s *Note) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check file: %w", err)
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return rc, nil
}

func ownedViews(notes []model.Note) []model.NoteView {
	views := make([]model.NoteView, 0, len(notes))
	for _, note := range notes {
		views = append(views, model.NoteView{
			Note:    note,
			FileURL: fileURL(note.FileKey),
		})
	}
	return views
}

func fileURL(key string) string {
	return "/uploads/" + key
}
