package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
	"famledger/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the payload for creating a budget.
type CreateBudgetRequest struct {
	ProfileID uint   `json:"profile_id" binding:"required"`
	Period    string `json:"period" binding:"required,month"`
	Ceiling   int64  `json:"ceiling" binding:"required,gt=0"`
}

// UpdateBudgetRequest represents the payload for updating a budget's ceiling.
type UpdateBudgetRequest struct {
	Ceiling int64 `json:"ceiling" binding:"required,gt=0"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a spending ceiling for a (profile, month) pair
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Failure     409 {object} ErrorResponse "Duplicate (profile, month)"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(actor.AccountID, req.ProfileID, req.Period, req.Ceiling)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(req.ProfileID, models.AuditActionInsert, models.AuditTableBudgets, budget.ID, c.ClientIP(),
		map[string]interface{}{"period": req.Period, "ceiling": req.Ceiling})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// ListBudgets handles listing a profile's budgets.
// @Summary     List budgets
// @Description List a profile's budgets, newest period first
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       profile_id query int true  "Profile ID"
// @Param       page       query int false "Page number (default 1)"
// @Param       page_size  query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
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

	result, err := h.budgetService.ListBudgets(actor.AccountID, profileID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateBudget handles updating a budget's ceiling.
// @Summary     Update budget
// @Description Change the ceiling of an existing budget; the (profile, month) pair is immutable
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Budget ID"
// @Param       request body UpdateBudgetRequest true "New ceiling"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(actor.AccountID, budgetID, req.Ceiling)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(budget.ProfileID, models.AuditActionUpdate, models.AuditTableBudgets, budgetID, c.ClientIP(),
		map[string]interface{}{"ceiling": req.Ceiling})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// EvaluateBudget handles budget-vs-actual evaluation for a month.
// @Summary     Evaluate budget
// @Description Compare a month's summed expenses against the ceiling; computed on demand
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       profile_id query int    true "Profile ID"
// @Param       month      query string true "Month (YYYY-MM)"
// @Success     200 {object} services.BudgetEvaluation "Evaluation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/evaluation [get]
func (h *BudgetHandler) EvaluateBudget(c *gin.Context) {
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

	month := c.Query("month")
	if month == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month is required"))
		return
	}

	evaluation, err := h.budgetService.Evaluate(actor.AccountID, profileID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluation": evaluation})
}
