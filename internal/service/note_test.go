package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/mocks"
	"github.com/studydeck/studydeck-server/internal/model"
	"github.com/studydeck/studydeck-server/internal/testutil"
)

type noteFixture struct {
	service      *Note
	noteStore    *mocks.NoteStore
	commentStore *mocks.CommentStore
	userStore    *mocks.UserStore
	storage      *mocks.Storage
	extractor    *mocks.TextExtractor
	generator    *mocks.StudyAidsGenerator
}

func newNoteFixture(t *testing.T) noteFixture {
	t.Helper()

	f := noteFixture{
		noteStore:    &mocks.NoteStore{},
		commentStore: &mocks.CommentStore{},
		userStore:    &mocks.UserStore{},
		storage:      &mocks.Storage{},
		extractor:    &mocks.TextExtractor{},
		generator:    &mocks.StudyAidsGenerator{},
	}
	f.service = NewNote(f.noteStore, f.commentStore, f.userStore, f.storage, f.extractor, f.generator, testutil.MakeNoopLogger())
	return f
}

func TestNote_Upload(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	owner := model.User{ID: uuid.New(), Email: "anna@kth.se", Name: "Anna"}
	data := []byte("%PDF-1.4 fake content")

	f.storage.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
		return len(key) > len("_lecture.pdf")
	}), mock.Anything, int64(len(data)), "application/pdf").Return(nil)
	f.extractor.On("Extract", data).Return("extracted text", nil)
	f.generator.On("Generate", ctx, "extracted text").Return(model.StudyAids{
		Summary:    "summary",
		Flashcards: []model.Flashcard{{Question: "q", Answer: "a"}},
		Quiz:       []model.QuizQuestion{{Question: "q", Options: []string{"a", "b"}, Correct: 0}},
	}, nil)
	f.noteStore.On("Create", ctx, mock.MatchedBy(func(n model.Note) bool {
		return n.OwnerID == owner.ID &&
			n.UploaderEmail == "anna@kth.se" &&
			n.Title == "Algorithms" &&
			n.Summary == "summary" &&
			n.FileName == "lecture.pdf"
	})).Return(model.Note{ID: uuid.New(), Title: "Algorithms", Summary: "summary"}, nil)

	note, err := f.service.Upload(ctx, owner, model.UploadNoteParams{
		Title:      "Algorithms",
		University: "KTH",
		CourseCode: "DD1338",
		Price:      49,
		FileName:   "lecture.pdf",
		Data:       data,
	})
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", note.Title)
	f.storage.AssertExpectations(t)
}

func TestNote_Upload_NotPDF(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.service.Upload(context.Background(), model.User{ID: uuid.New()}, model.UploadNoteParams{
		FileName: "notes.docx",
	})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_file_type", apiErr.Code)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNote_Upload_NegativePrice(t *testing.T) {
	f := newNoteFixture(t)

	_, err := f.service.Upload(context.Background(), model.User{ID: uuid.New()}, model.UploadNoteParams{
		FileName: "notes.pdf",
		Price:    -1,
	})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_price", apiErr.Code)
}

func TestNote_Upload_ExtractionFailureNonFatal(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	owner := model.User{ID: uuid.New()}
	data := []byte("broken pdf")

	f.storage.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.extractor.On("Extract", data).Return("", assert.AnError)
	f.generator.On("Generate", ctx, "").Return(model.StudyAids{Summary: "s"}, nil)
	f.noteStore.On("Create", ctx, mock.Anything).Return(model.Note{ID: uuid.New()}, nil)

	_, err := f.service.Upload(ctx, owner, model.UploadNoteParams{
		FileName: "notes.pdf",
		Data:     data,
	})
	require.NoError(t, err)
	f.generator.AssertCalled(t, "Generate", ctx, "")
}

func TestNote_Upload_CreateFailureRemovesFile(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	data := []byte("pdf")
	var uploadedKey string
	f.storage.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploadedKey = args.String(1) }).Return(nil)
	f.extractor.On("Extract", data).Return("text", nil)
	f.generator.On("Generate", ctx, "text").Return(model.StudyAids{}, nil)
	f.noteStore.On("Create", ctx, mock.Anything).Return(model.Note{}, assert.AnError)
	f.storage.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
		return key == uploadedKey
	})).Return(nil)

	_, err := f.service.Upload(ctx, model.User{ID: uuid.New()}, model.UploadNoteParams{
		FileName: "notes.pdf",
		Data:     data,
	})
	require.Error(t, err)
	f.storage.AssertCalled(t, "Delete", ctx, mock.Anything)
}

func TestNote_Get_Owner(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	owner := model.User{ID: uuid.New()}
	noteID := uuid.New()

	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{
		ID:      noteID,
		OwnerID: owner.ID,
		Price:   50,
		FileKey: "abc_notes.pdf",
	}, nil)
	f.commentStore.On("GetByNoteID", ctx, noteID).Return([]model.Comment{{Body: "great"}}, nil)

	view, err := f.service.Get(ctx, owner, noteID)
	require.NoError(t, err)

	assert.Equal(t, "/uploads/abc_notes.pdf", view.FileURL)
	assert.False(t, view.AccessRequired)
	assert.Len(t, view.Comments, 1)
}

func TestNote_Get_StrangerPaidNote(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	requester := model.User{ID: uuid.New()}
	noteID := uuid.New()

	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{
		ID:      noteID,
		OwnerID: uuid.New(),
		Price:   50,
		FileKey: "abc_notes.pdf",
		Summary: "summary stays visible",
	}, nil)
	f.userStore.On("HasPurchased", ctx, requester.ID, noteID).Return(false, nil)
	f.commentStore.On("GetByNoteID", ctx, noteID).Return(nil, nil)

	view, err := f.service.Get(ctx, requester, noteID)
	require.NoError(t, err)

	assert.Empty(t, view.FileURL)
	assert.True(t, view.AccessRequired)
	assert.Equal(t, "summary stays visible", view.Summary)
}

func TestNote_Get_StrangerFreeNote(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	requester := model.User{ID: uuid.New()}
	noteID := uuid.New()

	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{
		ID:      noteID,
		OwnerID: uuid.New(),
		Price:   0,
		FileKey: "abc_notes.pdf",
	}, nil)
	f.userStore.On("HasPurchased", ctx, requester.ID, noteID).Return(false, nil)
	f.commentStore.On("GetByNoteID", ctx, noteID).Return(nil, nil)

	view, err := f.service.Get(ctx, requester, noteID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc_notes.pdf", view.FileURL)
}

func TestNote_Get_Purchaser(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	requester := model.User{ID: uuid.New()}
	noteID := uuid.New()

	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{
		ID:      noteID,
		OwnerID: uuid.New(),
		Price:   50,
		FileKey: "abc_notes.pdf",
	}, nil)
	f.userStore.On("HasPurchased", ctx, requester.ID, noteID).Return(true, nil)
	f.commentStore.On("GetByNoteID", ctx, noteID).Return(nil, nil)

	view, err := f.service.Get(ctx, requester, noteID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc_notes.pdf", view.FileURL)
}

func TestNote_Get_DeletedHiddenFromStranger(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	requester := model.User{ID: uuid.New()}
	noteID := uuid.New()
	deletedAt := time.Now()

	// Even a free deleted note must look like a missing one to a stranger.
	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{
		ID:        noteID,
		OwnerID:   uuid.New(),
		Price:     0,
		DeletedAt: &deletedAt,
	}, nil)
	f.userStore.On("HasPurchased", ctx, requester.ID, noteID).Return(false, nil)

	_, err := f.service.Get(ctx, requester, noteID)
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestNote_Get_DeletedVisibleToPurchaser(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	requester := model.User{ID: uuid.New()}
	noteID := uuid.New()
	deletedAt := time.Now()

	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{
		ID:        noteID,
		OwnerID:   uuid.New(),
		Price:     50,
		FileKey:   "abc_notes.pdf",
		DeletedAt: &deletedAt,
	}, nil)
	f.userStore.On("HasPurchased", ctx, requester.ID, noteID).Return(true, nil)
	f.commentStore.On("GetByNoteID", ctx, noteID).Return(nil, nil)

	view, err := f.service.Get(ctx, requester, noteID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc_notes.pdf", view.FileURL)
}

func TestNote_Update_NotOwner(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	noteID := uuid.New()
	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{ID: noteID, OwnerID: uuid.New()}, nil)

	title := "new title"
	_, err := f.service.Update(ctx, model.User{ID: uuid.New()}, noteID, model.UpdateNoteParams{Title: &title})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
}

func TestNote_Update(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	owner := model.User{ID: uuid.New()}
	noteID := uuid.New()

	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{
		ID:      noteID,
		OwnerID: owner.ID,
		Title:   "old",
		Price:   10,
	}, nil)

	title := "new"
	price := 25.0
	f.noteStore.On("Update", ctx, mock.MatchedBy(func(n model.Note) bool {
		return n.Title == "new" && n.Price == 25.0
	})).Return(model.Note{ID: noteID, Title: "new", Price: 25}, nil)

	note, err := f.service.Update(ctx, owner, noteID, model.UpdateNoteParams{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "new", note.Title)
}

func TestNote_Delete(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	owner := model.User{ID: uuid.New()}
	noteID := uuid.New()

	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{ID: noteID, OwnerID: owner.ID}, nil)
	f.noteStore.On("SoftDelete", ctx, noteID).Return(nil)

	require.NoError(t, f.service.Delete(ctx, owner, noteID))

	// The stored file stays for purchasers.
	f.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestNote_Delete_NotOwner(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	noteID := uuid.New()
	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{ID: noteID, OwnerID: uuid.New()}, nil)

	err := f.service.Delete(ctx, model.User{ID: uuid.New()}, noteID)
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
	f.noteStore.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestNote_AddComment(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	requester := model.User{ID: uuid.New(), Email: "anna@kth.se", Name: "Anna"}
	noteID := uuid.New()

	f.noteStore.On("GetByID", ctx, noteID).Return(model.Note{ID: noteID, OwnerID: uuid.New(), Price: 0}, nil)
	f.userStore.On("HasPurchased", ctx, requester.ID, noteID).Return(false, nil)
	f.commentStore.On("Add", ctx, mock.MatchedBy(func(c model.Comment) bool {
		return c.NoteID == noteID && c.UserEmail == "anna@kth.se" && c.Rating == 4 && c.Body == "solid notes"
	})).Return(model.Comment{Body: "solid notes", Rating: 4}, nil)

	comment, err := f.service.AddComment(ctx, requester, noteID, "solid notes", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, comment.Rating)
}

func TestNote_AddComment_InvalidRating(t *testing.T) {
	f := newNoteFixture(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.service.AddComment(context.Background(), model.User{ID: uuid.New()}, uuid.New(), "x", rating)
		require.Error(t, err)

		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "invalid_rating", apiErr.Code)
	}
	f.commentStore.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestNote_MyNotes_IncludesDeleted(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	owner := model.User{ID: uuid.New()}
	deletedAt := time.Now()

	f.noteStore.On("GetByOwnerID", ctx, owner.ID).Return([]model.Note{
		{ID: uuid.New(), OwnerID: owner.ID, FileKey: "a.pdf"},
		{ID: uuid.New(), OwnerID: owner.ID, FileKey: "b.pdf", DeletedAt: &deletedAt},
	}, nil)

	views, err := f.service.MyNotes(ctx, owner)
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "/uploads/a.pdf", views[0].FileURL)
	assert.Equal(t, "/uploads/b.pdf", views[1].FileURL)
}

func TestNote_MyPurchases(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	requester := model.User{ID: uuid.New()}
	noteID := uuid.New()

	f.userStore.On("GetPurchasedNoteIDs", ctx, requester.ID).Return([]uuid.UUID{noteID}, nil)
	f.noteStore.On("GetByIDs", ctx, []uuid.UUID{noteID}).Return([]model.Note{
		{ID: noteID, FileKey: "bought.pdf"},
	}, nil)

	views, err := f.service.MyPurchases(ctx, requester)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "/uploads/bought.pdf", views[0].FileURL)
}
