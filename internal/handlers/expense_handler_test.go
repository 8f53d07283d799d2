package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
	"famledger/internal/services"
)

// --- mock ledger service ---

type mockLedgerService struct {
	addExpenseFn    func(actor services.Actor, profileID, categoryID uint, amount int64, deliveryDate, dueDate time.Time, description string, recurrence models.Recurrence, status models.PaymentStatus, accountKind models.AccountKind, fixed bool) (*models.Expense, error)
	addIncomeFn     func(actor services.Actor, profileID, categoryID uint, amount int64, receivedDate time.Time, description string, recurrence models.Recurrence, fixed bool) (*models.Income, error)
	listExpensesFn  func(actor services.Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	listIncomesFn   func(actor services.Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)
	deleteExpenseFn func(actor services.Actor, profileID, expenseID uint) error
	deleteIncomeFn  func(actor services.Actor, profileID, incomeID uint) error
}

func (m *mockLedgerService) AddExpense(actor services.Actor, profileID, categoryID uint, amount int64, deliveryDate, dueDate time.Time,
	description string, recurrence models.Recurrence, status models.PaymentStatus,
	accountKind models.AccountKind, fixed bool) (*models.Expense, error) {
	if m.addExpenseFn != nil {
		return m.addExpenseFn(actor, profileID, categoryID, amount, deliveryDate, dueDate, description, recurrence, status, accountKind, fixed)
	}
	return &models.Expense{}, nil
}

func (m *mockLedgerService) AddIncome(actor services.Actor, profileID, categoryID uint, amount int64, receivedDate time.Time,
	description string, recurrence models.Recurrence, fixed bool) (*models.Income, error) {
	if m.addIncomeFn != nil {
		return m.addIncomeFn(actor, profileID, categoryID, amount, receivedDate, description, recurrence, fixed)
	}
	return &models.Income{}, nil
}

func (m *mockLedgerService) ListExpenses(actor services.Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(actor, profileID, month, page)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockLedgerService) ListIncomes(actor services.Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	if m.listIncomesFn != nil {
		return m.listIncomesFn(actor, profileID, month, page)
	}
	resp := pagination.NewPageResponse([]models.Income{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockLedgerService) DeleteExpense(actor services.Actor, profileID, expenseID uint) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(actor, profileID, expenseID)
	}
	return nil
}

func (m *mockLedgerService) DeleteIncome(actor services.Actor, profileID, incomeID uint) error {
	if m.deleteIncomeFn != nil {
		return m.deleteIncomeFn(actor, profileID, incomeID)
	}
	return nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectProfile(1, 2))
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses", handler.ListExpenses)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("records expense", func(t *testing.T) {
		mock := &mockLedgerService{
			addExpenseFn: func(actor services.Actor, profileID, categoryID uint, amount int64, deliveryDate, dueDate time.Time,
				description string, recurrence models.Recurrence, status models.PaymentStatus,
				accountKind models.AccountKind, fixed bool) (*models.Expense, error) {
				if actor.AccountID != 1 || actor.ProfileID != 2 {
					t.Errorf("unexpected actor: %+v", actor)
				}
				return &models.Expense{
					Base:       models.Base{ID: 7},
					ProfileID:  profileID,
					CategoryID: categoryID,
					Amount:     amount,
					Fixed:      fixed,
				}, nil
			},
		}
		handler := NewExpenseHandler(mock, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"profile_id":2,"category_id":3,"amount":12500,"due_date":"2025-03-10T00:00:00Z","description":"Compras","recurrence":"one_off","payment_status":"pending","account_kind":"checking","fixed":true}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["amount"].(float64) != 12500 || expense["fixed"] != true {
			t.Errorf("unexpected expense payload: %v", expense)
		}
	})

	t.Run("rejects unknown recurrence", func(t *testing.T) {
		handler := NewExpenseHandler(&mockLedgerService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"profile_id":2,"category_id":3,"amount":12500,"due_date":"2025-03-10T00:00:00Z","recurrence":"weekly","payment_status":"pending","account_kind":"checking"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("surfaces missing permission", func(t *testing.T) {
		mock := &mockLedgerService{
			addExpenseFn: func(actor services.Actor, profileID, categoryID uint, amount int64, deliveryDate, dueDate time.Time,
				description string, recurrence models.Recurrence, status models.PaymentStatus,
				accountKind models.AccountKind, fixed bool) (*models.Expense, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		handler := NewExpenseHandler(mock, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "POST", "/expenses",
			`{"profile_id":2,"category_id":3,"amount":12500,"due_date":"2025-03-10T00:00:00Z","recurrence":"one_off","payment_status":"pending","account_kind":"checking"}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")
	})
}

func TestExpenseHandler_ListExpenses(t *testing.T) {
	t.Run("passes month filter through", func(t *testing.T) {
		mock := &mockLedgerService{
			listExpensesFn: func(actor services.Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
				if month == nil || *month != "2025-03" {
					t.Errorf("expected month 2025-03, got %v", month)
				}
				expenses := []models.Expense{{Base: models.Base{ID: 1}, ProfileID: profileID, Amount: 12500}}
				resp := pagination.NewPageResponse(expenses, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewExpenseHandler(mock, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses?profile_id=2&month=2025-03", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected 1 expense, got %v", result["total_items"])
		}
	})

	t.Run("requires profile id", func(t *testing.T) {
		handler := NewExpenseHandler(&mockLedgerService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "GET", "/expenses", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	t.Run("deletes expense", func(t *testing.T) {
		mock := &mockLedgerService{
			deleteExpenseFn: func(actor services.Actor, profileID, expenseID uint) error {
				if profileID != 2 || expenseID != 7 {
					t.Errorf("unexpected ids: profile=%d expense=%d", profileID, expenseID)
				}
				return nil
			},
		}
		handler := NewExpenseHandler(mock, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/7?profile_id=2", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		mock := &mockLedgerService{
			deleteExpenseFn: func(actor services.Actor, profileID, expenseID uint) error {
				return apperrors.ErrEntryNotFound
			},
		}
		handler := NewExpenseHandler(mock, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/99?profile_id=2", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ENTRY_NOT_FOUND")
	})

	t.Run("requires profile id", func(t *testing.T) {
		handler := NewExpenseHandler(&mockLedgerService{}, &mockAuditService{})
		r := setupExpenseRouter(handler)

		rec := doRequest(r, "DELETE", "/expenses/7", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}
