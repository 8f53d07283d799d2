package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
	"famledger/internal/services"
)

// CardHandler handles credit card requests.
type CardHandler struct {
	cardService  services.CardServicer
	auditService services.AuditServicer
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService services.CardServicer, auditService services.AuditServicer) *CardHandler {
	return &CardHandler{cardService: cardService, auditService: auditService}
}

// CreateCardRequest represents the payload for registering a credit card.
type CreateCardRequest struct {
	ProfileID uint             `json:"profile_id" binding:"required"`
	Name      string           `json:"name" binding:"required,min=1,max=100"`
	Brand     models.CardBrand `json:"brand" binding:"required,card_brand"`
	Limit     int64            `json:"limit" binding:"required,gt=0"`
	DueDay    int              `json:"due_day" binding:"required,min=1,max=31"`
}

// UpdateCardRequest represents the payload for updating a card.
type UpdateCardRequest struct {
	Name   string `json:"name" binding:"omitempty,min=1,max=100"`
	Limit  *int64 `json:"limit" binding:"omitempty,gt=0"`
	DueDay *int   `json:"due_day" binding:"omitempty,min=1,max=31"`
}

// RegisterSpendRequest represents the payload for registering spend on a card.
type RegisterSpendRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CreateCard handles registering a credit card.
// @Summary     Create a credit card
// @Description Register a credit card for a profile
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCardRequest true "Card details"
// @Success     201 {object} models.CreditCard "Card created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.CreateCard(actor.AccountID, req.ProfileID, req.Name, req.Brand, req.Limit, req.DueDay)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.ProfileID, models.AuditActionInsert, models.AuditTableCreditCards, card.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "brand": req.Brand, "limit": req.Limit})

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

// ListCards handles listing a profile's credit cards.
// @Summary     List credit cards
// @Description List a profile's credit cards
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       profile_id query int true  "Profile ID"
// @Param       page       query int false "Page number (default 1)"
// @Param       page_size  query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.CreditCard] "Paginated cards"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /cards [get]
func (h *CardHandler) ListCards(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, ok, err := parseQueryID(c, "profile_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !ok {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "profile_id is required"))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.cardService.ListCards(actor.AccountID, profileID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateCard handles updating a credit card.
// @Summary     Update credit card
// @Description Update a card's name, limit or due day
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Card ID"
// @Param       request body UpdateCardRequest true "Updated fields"
// @Success     200 {object} models.CreditCard "Updated card"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.UpdateCard(actor.AccountID, cardID, req.Name, req.Limit, req.DueDay)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(card.ProfileID, models.AuditActionUpdate, models.AuditTableCreditCards, cardID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// DeleteCard handles deleting a credit card.
// @Summary     Delete credit card
// @Description Delete a card that has no invoices
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {object} MessageResponse "Card deleted"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     409 {object} ErrorResponse "Card still has invoices"
// @Router      /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.GetCardByID(actor.AccountID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.DeleteCard(actor.AccountID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(card.ProfileID, models.AuditActionDelete, models.AuditTableCreditCards, cardID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}

// RegisterSpend handles registering spend on a card.
// @Summary     Register card spend
// @Description Add spend to the card's running total; refused past the limit
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Card ID"
// @Param       request body RegisterSpendRequest true "Spend amount"
// @Success     200 {object} models.CreditCard "Updated card"
// @Failure     400 {object} ErrorResponse "Invalid input or limit exceeded"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id}/spend [post]
func (h *CardHandler) RegisterSpend(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RegisterSpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.RegisterSpend(actor.AccountID, cardID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(card.ProfileID, models.AuditActionUpdate, models.AuditTableCreditCards, cardID, c.ClientIP(),
		map[string]interface{}{"spend": req.Amount})

	c.JSON(http.StatusOK, gin.H{"card": card})
}
