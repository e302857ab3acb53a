// Package apierrors holds typed errors that cross the service boundary and
// carry the HTTP status they should be surfaced with. Services return these
// for caller mistakes; everything else is wrapped and mapped to 500 by the
// handler layer.
package apierrors

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// APIError is an error with an associated HTTP status and stable code.
type APIError struct {
	Status  int
	Code    string
	Message string
	err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.err
}

// NewErrEmailTaken reports a registration attempt with an existing email.
func NewErrEmailTaken(email string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "email_taken",
		Message: fmt.Sprintf("email %s is already registered", email),
	}
}

// NewErrInvalidCredentials reports a failed login. The message is identical
// for unknown email and wrong password.
func NewErrInvalidCredentials() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "invalid_credentials",
		Message: "invalid email or password",
	}
}

// NewErrMissingAuthorizationToken reports a request without a bearer token.
func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "missing_token",
		Message: "authorization token is required",
	}
}

// NewErrInvalidAuthorizationToken reports a malformed, expired, or orphaned
// bearer token.
func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "invalid_token",
		Message: "invalid authentication credentials",
	}
}

// NewErrNoteNotFound reports an unknown note id. Soft-deleted notes produce
// the same error for requesters without a prior relationship to the note.
func NewErrNoteNotFound(id uuid.UUID) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "note_not_found",
		Message: fmt.Sprintf("note %s not found", id),
	}
}

// NewErrNotNoteOwner reports a mutation attempt by a non-owner.
func NewErrNotNoteOwner() *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Code:    "not_note_owner",
		Message: "only the note owner may do this",
	}
}

// NewErrAlreadyPurchased reports a repeated purchase of the same note.
func NewErrAlreadyPurchased(id uuid.UUID) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "already_purchased",
		Message: fmt.Sprintf("note %s already purchased", id),
	}
}

// NewErrInvalidFileType reports an upload that is not a PDF.
func NewErrInvalidFileType() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_file_type",
		Message: "only PDF files are allowed",
	}
}

// NewErrInvalidRating reports a comment rating outside [1,5].
func NewErrInvalidRating(rating int) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_rating",
		Message: fmt.Sprintf("rating %d is out of range, must be between 1 and 5", rating),
	}
}

// NewErrInvalidPrice reports a negative note price.
func NewErrInvalidPrice(price float64) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_price",
		Message: fmt.Sprintf("price %.2f must not be negative", price),
	}
}

// NewErrWithdrawalBelowMinimum reports a withdrawal under the fixed minimum.
func NewErrWithdrawalBelowMinimum(minimum float64) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "below_minimum",
		Message: fmt.Sprintf("minimum withdrawal amount is %.0f SEK", minimum),
	}
}

// NewErrInsufficientFunds reports a withdrawal exceeding the available
// balance.
func NewErrInsufficientFunds(available float64) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "insufficient_funds",
		Message: fmt.Sprintf("requested amount exceeds available balance of %.2f SEK", available),
	}
}

// NewErrBadRequest reports malformed input.
func NewErrBadRequest(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: message,
	}
}

// NewErrInternalServerError wraps an unexpected error without leaking its
// details to the client.
func NewErrInternalServerError(err error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "internal server error",
		err:     err,
	}
}
