package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studydeck/studydeck-server/internal/api/http/httpctx"
	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/service"
)

// Ledger handles purchases and withdrawals.
type Ledger struct {
	service *service.Ledger
	logger  *logger.Logger
}

// NewLedger creates a new Ledger handler instance.
func NewLedger(service *service.Ledger, logger *logger.Logger) *Ledger {
	return &Ledger{service: service, logger: logger}
}

type purchaseRequest struct {
	NoteID        string `json:"note_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type withdrawRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

func (h *Ledger) Purchase(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	noteID, err := uuid.Parse(req.NoteID)
	if err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest("invalid note id"))
		return
	}

	payment, err := h.service.Purchase(c.Request.Context(), user, noteID, req.PaymentMethod)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Purchase successful",
		"payment_id": payment.ID,
		"amount":     payment.Amount,
	})
}

func (h *Ledger) Withdraw(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	withdrawal, err := h.service.RequestWithdrawal(c.Request.Context(), user, req.Amount, req.PaymentMethod)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Withdrawal completed",
		"withdrawal": withdrawal,
	})
}

func (h *Ledger) Withdrawals(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	withdrawals, err := h.service.Withdrawals(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}
