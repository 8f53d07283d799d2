package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
	"famledger/internal/services"
)

// InvoiceHandler handles invoice lifecycle requests.
type InvoiceHandler struct {
	invoiceService services.InvoiceServicer
	cardService    services.CardServicer
	auditService   services.AuditServicer
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService services.InvoiceServicer, cardService services.CardServicer, auditService services.AuditServicer) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, cardService: cardService, auditService: auditService}
}

// CloseInvoiceRequest represents the payload for closing a billing cycle.
type CloseInvoiceRequest struct {
	CardID      uint      `json:"card_id" binding:"required"`
	Period      string    `json:"period" binding:"required,month"`
	Amount      int64     `json:"amount" binding:"required,gt=0"`
	ClosureDate time.Time `json:"closure_date"`
}

// ApplyPaymentRequest represents the payload for paying an invoice. Amount is
// the cumulative figure paid so far, not an increment.
type ApplyPaymentRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CloseInvoice handles closing a card's billing cycle into an invoice.
// @Summary     Close invoice
// @Description Snapshot a card's billing cycle into an immutable invoice; one per (card, month)
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CloseInvoiceRequest true "Invoice details"
// @Success     201 {object} models.Invoice "Invoice created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     409 {object} ErrorResponse "Duplicate (card, month)"
// @Router      /invoices [post]
func (h *InvoiceHandler) CloseInvoice(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CloseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.CloseInvoice(actor.AccountID, req.CardID, req.Period, req.Amount, req.ClosureDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if card, cardErr := h.cardService.GetCardByID(actor.AccountID, req.CardID); cardErr == nil {
		h.auditService.Log(card.ProfileID, models.AuditActionInsert, models.AuditTableInvoices, invoice.ID, c.ClientIP(),
			map[string]interface{}{"period": req.Period, "amount": req.Amount})
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// ApplyPayment handles applying a payment against an invoice.
// @Summary     Apply payment
// @Description Record the cumulative amount paid; clamped to the closed amount, never decreasing
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Invoice ID"
// @Param       request body ApplyPaymentRequest true "Cumulative amount paid"
// @Success     200 {object} models.Invoice "Updated invoice"
// @Failure     400 {object} ErrorResponse "Missing amount or decreasing payment"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Router      /invoices/{id}/pay [put]
func (h *InvoiceHandler) ApplyPayment(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.ApplyPayment(actor.AccountID, invoiceID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if card, cardErr := h.cardService.GetCardByID(actor.AccountID, invoice.CreditCardID); cardErr == nil {
		h.auditService.Log(card.ProfileID, models.AuditActionUpdate, models.AuditTableInvoices, invoice.ID, c.ClientIP(),
			map[string]interface{}{"amount_paid": invoice.AmountPaid, "paid": invoice.Paid})
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// ListInvoices handles listing invoices by card or by profile.
// @Summary     List invoices
// @Description List invoices for a card or across all of a profile's cards, closure date descending
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       card_id    query int false "Card ID"
// @Param       profile_id query int false "Profile ID"
// @Param       page       query int false "Page number (default 1)"
// @Param       page_size  query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Invoice] "Paginated invoices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cardID, hasCard, err := parseQueryID(c, "card_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	profileID, hasProfile, err := parseQueryID(c, "profile_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	switch {
	case hasCard:
		result, err := h.invoiceService.ListByCard(actor.AccountID, cardID, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	case hasProfile:
		result, err := h.invoiceService.ListByProfile(actor.AccountID, profileID, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "card_id or profile_id is required"))
	}
}
