package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studydeck/studydeck-server/internal/api/http/httpctx"
	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/model"
	"github.com/studydeck/studydeck-server/internal/service"
)

// maxUploadSize caps note PDFs at 32 MiB.
const maxUploadSize = 32 << 20

// Note handles note upload, discovery, editing, comments, and file download.
type Note struct {
	service *service.Note
	logger  *logger.Logger
}

// NewNote creates a new Note handler instance.
func NewNote(service *service.Note, logger *logger.Logger) *Note {
	return &Note{service: service, logger: logger}
}

type commentRequest struct {
	NoteID  string `json:"note_id" binding:"required"`
	Comment string `json:"comment" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
}

type updateNoteRequest struct {
	Title         *string  `json:"title"`
	University    *string  `json:"university"`
	CourseCode    *string  `json:"course_code"`
	BookReference *string  `json:"book_reference"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
}

// Upload accepts a multipart form with the PDF and note metadata.
func (h *Note) Upload(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest("file is required"))
		return
	}
	if fileHeader.Size > maxUploadSize {
		handleError(c, h.logger, apierrors.NewErrBadRequest("file is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest("failed to read file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest("failed to read file"))
		return
	}

	title := c.PostForm("title")
	university := c.PostForm("university")
	courseCode := c.PostForm("course_code")
	if title == "" || university == "" || courseCode == "" {
		handleError(c, h.logger, apierrors.NewErrBadRequest("title, university and course_code are required"))
		return
	}

	price := 0.0
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err = strconv.ParseFloat(priceStr, 64)
		if err != nil {
			handleError(c, h.logger, apierrors.NewErrBadRequest("price must be a number"))
			return
		}
	}

	note, err := h.service.Upload(c.Request.Context(), user, model.UploadNoteParams{
		Title:         title,
		University:    university,
		CourseCode:    courseCode,
		BookReference: c.PostForm("book_reference"),
		Description:   c.PostForm("description"),
		Price:         price,
		FileName:      fileHeader.Filename,
		Data:          data,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Note uploaded successfully",
		"note_id":    note.ID,
		"summary":    note.Summary,
		"flashcards": note.Flashcards,
		"quiz":       note.Quiz,
	})
}

// Search is the only unauthenticated note endpoint.
func (h *Note) Search(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			handleError(c, h.logger, apierrors.NewErrBadRequest("limit must be an integer"))
			return
		}
		limit = parsed
	}

	notes, err := h.service.Search(c.Request.Context(), model.NoteFilter{
		University:    c.Query("university"),
		CourseCode:    c.Query("course_code"),
		BookReference: c.Query("book_reference"),
		Keyword:       c.Query("keyword"),
		Limit:         limit,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *Note) Get(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest("invalid note id"))
		return
	}

	view, err := h.service.Get(c.Request.Context(), user, id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Note) Update(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest("invalid note id"))
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	note, err := h.service.Update(c.Request.Context(), user, id, model.UpdateNoteParams{
		Title:         req.Title,
		University:    req.University,
		CourseCode:    req.CourseCode,
		BookReference: req.BookReference,
		Description:   req.Description,
		Price:         req.Price,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Note updated successfully",
		"note":    note,
	})
}

func (h *Note) Delete(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest("invalid note id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, id); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

func (h *Note) Comment(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	noteID, err := uuid.Parse(req.NoteID)
	if err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest("invalid note id"))
		return
	}

	if _, err := h.service.AddComment(c.Request.Context(), user, noteID, req.Comment, req.Rating); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment added successfully"})
}

func (h *Note) MyNotes(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	notes, err := h.service.MyNotes(c.Request.Context(), user)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *Note) MyPurchases(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	notes, err := h.service.MyPurchases(c.Request.Context(), user)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// Download streams a stored note file.
func (h *Note) Download(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		handleError(c, h.logger, apierrors.NewErrBadRequest("file key is required"))
		return
	}

	rc, err := h.service.Download(c.Request.Context(), key)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/pdf")
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.logger.Error("Note handler: failed to stream file",
			"key", key,
			"error", err.Error())
	}
}
