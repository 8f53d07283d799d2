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

// IncomeHandler handles income ledger requests.
type IncomeHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *IncomeHandler {
	return &IncomeHandler{ledgerService: ledgerService, auditService: auditService}
}

// CreateIncomeRequest represents the payload for recording an income.
type CreateIncomeRequest struct {
	ProfileID    uint              `json:"profile_id" binding:"required"`
	CategoryID   uint              `json:"category_id" binding:"required"`
	Amount       int64             `json:"amount" binding:"required,gt=0"`
	ReceivedDate time.Time         `json:"received_date"`
	Description  string            `json:"description" binding:"max=255"`
	Recurrence   models.Recurrence `json:"recurrence" binding:"required,recurrence"`
	Fixed        bool              `json:"fixed"`
}

// CreateIncome handles recording an income entry.
// @Summary     Record an income
// @Description Record an income entry for a profile
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Missing permission"
// @Failure     404 {object} ErrorResponse "Profile or category not found"
// @Router      /incomes [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	income, err := h.ledgerService.AddIncome(actor, req.ProfileID, req.CategoryID, req.Amount,
		req.ReceivedDate, req.Description, req.Recurrence, req.Fixed)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.ProfileID, models.AuditActionInsert, models.AuditTableIncomes, income.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category_id": req.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// ListIncomes handles listing a profile's incomes.
// @Summary     List incomes
// @Description List a profile's incomes; a month filter also returns fixed entries
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       profile_id query int    true  "Profile ID"
// @Param       month      query string false "Month filter (YYYY-MM)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Income] "Paginated incomes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Missing permission"
// @Router      /incomes [get]
func (h *IncomeHandler) ListIncomes(c *gin.Context) {
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

	var month *string
	if v := c.Query("month"); v != "" {
		month = &v
	}

	result, err := h.ledgerService.ListIncomes(actor, profileID, month, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteIncome handles deleting an income entry.
// @Summary     Delete income
// @Description Delete an income entry by ID
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path  int true "Income ID"
// @Param       profile_id query int true "Profile ID"
// @Success     200 {object} MessageResponse "Income deleted"
// @Failure     403 {object} ErrorResponse "Missing permission"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
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

	if err := h.ledgerService.DeleteIncome(actor, profileID, incomeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, models.AuditActionDelete, models.AuditTableIncomes, incomeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Income deleted successfully"})
}
