package services

import (
	"time"

	"famledger/internal/models"
	"famledger/internal/pagination"
)

// Actor identifies the authenticated principal performing an operation.
// ProfileID is zero for account-level sessions, which bypass per-profile
// permission checks.
type Actor struct {
	AccountID uint
	ProfileID uint
}

// AccountServicer defines the contract for family-account business logic.
type AccountServicer interface {
	CreateAccount(name, email, password string) (*models.FamilyAccount, error)
	GetAccountByEmail(email string) (*models.FamilyAccount, error)
	GetAccountByID(id uint) (*models.FamilyAccount, error)
	VerifyPassword(account *models.FamilyAccount, password string) bool
}

// PermissionFlags holds the four capabilities granted to a profile.
type PermissionFlags struct {
	CanCreate  bool
	CanEdit    bool
	CanDelete  bool
	CanViewAll bool
}

// AllPermissions returns flags with every capability granted.
func AllPermissions() PermissionFlags {
	return PermissionFlags{CanCreate: true, CanEdit: true, CanDelete: true, CanViewAll: true}
}

// ProfileServicer defines the contract for profile business logic. Profile
// creation is atomic with its permission grant: either both rows exist
// afterwards or neither does.
type ProfileServicer interface {
	CreateFirstProfile(accountID uint, name, role, password string) (*models.Profile, error)
	CreateAdditionalProfile(accountID uint, name, role, password string, income int64, perms PermissionFlags) (*models.Profile, error)
	ListProfiles(accountID uint) ([]models.Profile, error)
	GetProfileByID(accountID, profileID uint) (*models.Profile, error)
	GetProfileByCode(code string) (*models.Profile, error)
	UpdateProfile(accountID, profileID uint, name, role string, income *int64) (*models.Profile, error)
	DeleteProfile(accountID, profileID uint) error
	GetPermission(profileID uint) (*models.Permission, error)
	VerifyPassword(profile *models.Profile, password string) bool
}

// CategoryServicer defines the contract for the global category taxonomy.
type CategoryServicer interface {
	CreateCategory(name string, kind models.CategoryKind) (*models.Category, error)
	ListCategories(kind *models.CategoryKind, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(id uint) (*models.Category, error)
	DeleteCategory(id uint) error
}

// LedgerServicer defines the contract for income/expense entries. Entries are
// append/delete only; there is no update operation.
type LedgerServicer interface {
	AddExpense(actor Actor, profileID, categoryID uint, amount int64, deliveryDate, dueDate time.Time,
		description string, recurrence models.Recurrence, status models.PaymentStatus,
		accountKind models.AccountKind, fixed bool) (*models.Expense, error)
	AddIncome(actor Actor, profileID, categoryID uint, amount int64, receivedDate time.Time,
		description string, recurrence models.Recurrence, fixed bool) (*models.Income, error)
	ListExpenses(actor Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	ListIncomes(actor Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)
	DeleteExpense(actor Actor, profileID, expenseID uint) error
	DeleteIncome(actor Actor, profileID, incomeID uint) error
}

// BudgetEvaluation compares a month's summed expenses against the ceiling.
// Computed on demand; never persisted.
type BudgetEvaluation struct {
	ProfileID  uint    `json:"profile_id"`
	Period     string  `json:"period"`
	Ceiling    int64   `json:"ceiling"`
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
	Exceeded   bool    `json:"exceeded"`
}

// BudgetServicer defines the contract for budget business logic. Operations
// are scoped to the caller's family account.
type BudgetServicer interface {
	CreateBudget(accountID, profileID uint, period string, ceiling int64) (*models.Budget, error)
	ListBudgets(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	UpdateBudget(accountID, budgetID uint, ceiling int64) (*models.Budget, error)
	Evaluate(accountID, profileID uint, period string) (*BudgetEvaluation, error)
}

// CardServicer defines the contract for credit card business logic.
// Operations are scoped to the caller's family account.
type CardServicer interface {
	CreateCard(accountID, profileID uint, name string, brand models.CardBrand, limit int64, dueDay int) (*models.CreditCard, error)
	ListCards(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CreditCard], error)
	GetCardByID(accountID, cardID uint) (*models.CreditCard, error)
	UpdateCard(accountID, cardID uint, name string, limit *int64, dueDay *int) (*models.CreditCard, error)
	DeleteCard(accountID, cardID uint) error
	RegisterSpend(accountID, cardID uint, delta int64) (*models.CreditCard, error)
}

// InvoiceServicer defines the contract for the invoice settlement state
// machine: closed -> partially paid -> paid. The closed amount is immutable
// and the cumulative amount paid only ever increases. Operations are scoped
// to the caller's family account through the invoice's card.
type InvoiceServicer interface {
	CloseInvoice(accountID, cardID uint, period string, amount int64, closureDate time.Time) (*models.Invoice, error)
	ApplyPayment(accountID, invoiceID uint, amount int64) (*models.Invoice, error)
	GetInvoiceByID(accountID, invoiceID uint) (*models.Invoice, error)
	ListByCard(accountID, cardID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error)
	ListByProfile(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error)
}

// AuditServicer defines the contract for append-only audit logging. Reads
// are scoped to the caller's family account.
type AuditServicer interface {
	Log(profileID uint, action models.AuditAction, table models.AuditTable, recordID uint, ipAddress string, changes map[string]interface{})
	ListByProfile(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
