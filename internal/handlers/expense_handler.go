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

// ExpenseHandler handles expense ledger requests.
type ExpenseHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{ledgerService: ledgerService, auditService: auditService}
}

// CreateExpenseRequest represents the payload for recording an expense.
type CreateExpenseRequest struct {
	ProfileID     uint                 `json:"profile_id" binding:"required"`
	CategoryID    uint                 `json:"category_id" binding:"required"`
	Amount        int64                `json:"amount" binding:"required,gt=0"`
	DeliveryDate  time.Time            `json:"delivery_date"`
	DueDate       time.Time            `json:"due_date"`
	Description   string               `json:"description" binding:"max=255"`
	Recurrence    models.Recurrence    `json:"recurrence" binding:"required,recurrence"`
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required,payment_status"`
	AccountKind   models.AccountKind   `json:"account_kind" binding:"required,account_kind"`
	Fixed         bool                 `json:"fixed"`
}

// CreateExpense handles recording an expense entry.
// @Summary     Record an expense
// @Description Record an expense entry for a profile
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Missing permission"
// @Failure     404 {object} ErrorResponse "Profile or category not found"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.ledgerService.AddExpense(actor, req.ProfileID, req.CategoryID, req.Amount,
		req.DeliveryDate, req.DueDate, req.Description, req.Recurrence, req.PaymentStatus,
		req.AccountKind, req.Fixed)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.ProfileID, models.AuditActionInsert, models.AuditTableExpenses, expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category_id": req.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ListExpenses handles listing a profile's expenses.
// @Summary     List expenses
// @Description List a profile's expenses; a month filter also returns fixed entries
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       profile_id query int    true  "Profile ID"
// @Param       month      query string false "Month filter (YYYY-MM)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Missing permission"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
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

	result, err := h.ledgerService.ListExpenses(actor, profileID, month, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteExpense handles deleting an expense entry.
// @Summary     Delete expense
// @Description Delete an expense entry by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path  int true "Expense ID"
// @Param       profile_id query int true "Profile ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     403 {object} ErrorResponse "Missing permission"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
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

	if err := h.ledgerService.DeleteExpense(actor, profileID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, models.AuditActionDelete, models.AuditTableExpenses, expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
