package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
	"famledger/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn func(accountID, profileID uint, period string, ceiling int64) (*models.Budget, error)
	listBudgetsFn  func(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	updateBudgetFn func(accountID, budgetID uint, ceiling int64) (*models.Budget, error)
	evaluateFn     func(accountID, profileID uint, period string) (*services.BudgetEvaluation, error)
}

func (m *mockBudgetService) CreateBudget(accountID, profileID uint, period string, ceiling int64) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(accountID, profileID, period, ceiling)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) ListBudgets(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	if m.listBudgetsFn != nil {
		return m.listBudgetsFn(accountID, profileID, page)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) UpdateBudget(accountID, budgetID uint, ceiling int64) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(accountID, budgetID, ceiling)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) Evaluate(accountID, profileID uint, period string) (*services.BudgetEvaluation, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(accountID, profileID, period)
	}
	return &services.BudgetEvaluation{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectAccount(1))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.ListBudgets)
	auth.GET("/budgets/evaluation", handler.EvaluateBudget)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_, profileID uint, period string, ceiling int64) (*models.Budget, error) {
				return &models.Budget{
					Base:      models.Base{ID: 1},
					ProfileID: profileID,
					Period:    period,
					Ceiling:   ceiling,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"profile_id":2,"period":"2025-03","ceiling":150000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["period"] != "2025-03" {
			t.Errorf("expected period 2025-03, got %v", budget["period"])
		}
		if budget["ceiling"].(float64) != 150000 {
			t.Errorf("expected ceiling 150000, got %v", budget["ceiling"])
		}
	})

	t.Run("returns 400 on malformed period", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"profile_id":2,"period":"2025-3","ceiling":150000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate period", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_, _ uint, _ string, _ int64) (*models.Budget, error) {
				return nil, apperrors.ErrDuplicateBudget
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"profile_id":2,"period":"2025-03","ceiling":150000}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_BUDGET_PERIOD")
	})
}

func TestBudgetHandler_ListBudgets(t *testing.T) {
	t.Run("returns paginated budgets", func(t *testing.T) {
		svc := &mockBudgetService{
			listBudgetsFn: func(_, profileID uint, _ pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
				resp := pagination.NewPageResponse([]models.Budget{
					{Base: models.Base{ID: 1}, ProfileID: profileID, Period: "2025-03", Ceiling: 150000},
				}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?profile_id=2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected 1 item, got %v", result["total_items"])
		}
	})

	t.Run("requires profile_id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("returns updated budget", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(_, budgetID uint, ceiling int64) (*models.Budget, error) {
				return &models.Budget{
					Base:      models.Base{ID: budgetID},
					ProfileID: 2,
					Period:    "2025-03",
					Ceiling:   ceiling,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/1", `{"ceiling":200000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["ceiling"].(float64) != 200000 {
			t.Errorf("expected ceiling 200000, got %v", budget["ceiling"])
		}
	})

	t.Run("returns 404 on missing budget", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(_, _ uint, _ int64) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/999", `{"ceiling":200000}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_EvaluateBudget(t *testing.T) {
	t.Run("returns evaluation", func(t *testing.T) {
		svc := &mockBudgetService{
			evaluateFn: func(_, profileID uint, period string) (*services.BudgetEvaluation, error) {
				return &services.BudgetEvaluation{
					ProfileID:  profileID,
					Period:     period,
					Ceiling:    100000,
					Spent:      75000,
					Remaining:  25000,
					Percentage: 75,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/evaluation?profile_id=2&month=2025-03", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		eval := result["evaluation"].(map[string]interface{})
		if eval["spent"].(float64) != 75000 {
			t.Errorf("expected spent 75000, got %v", eval["spent"])
		}
	})

	t.Run("requires month", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/evaluation?profile_id=2", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
