package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"famledger/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates a family account with a hashed password and unique email.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.FamilyAccount {
	t.Helper()
	email := fmt.Sprintf("family%d@test.com", nextID())
	return CreateTestAccountWithEmail(t, db, email)
}

// CreateTestAccountWithEmail creates a family account with the given email.
func CreateTestAccountWithEmail(t *testing.T, db *gorm.DB, email string) *models.FamilyAccount {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	account := &models.FamilyAccount{
		Name:     fmt.Sprintf("Test Family %d", nextID()),
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestProfile creates a profile with its permission row, all capabilities granted.
func CreateTestProfile(t *testing.T, db *gorm.DB, accountID uint) *models.Profile {
	t.Helper()
	return CreateTestProfileWithPermissions(t, db, accountID, true, true, true, true)
}

// CreateTestProfileWithPermissions creates a profile with the given capability flags.
func CreateTestProfileWithPermissions(t *testing.T, db *gorm.DB, accountID uint, canCreate, canEdit, canDelete, canViewAll bool) *models.Profile {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	profile := &models.Profile{
		FamilyAccountID: accountID,
		Code:            fmt.Sprintf("TST%03d", n),
		Name:            fmt.Sprintf("Test Member %d", n),
		Role:            "member",
		Password:        string(hash),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}

	permission := &models.Permission{
		ProfileID:  profile.ID,
		CanCreate:  canCreate,
		CanEdit:    canEdit,
		CanDelete:  canDelete,
		CanViewAll: canViewAll,
	}
	if err := db.Create(permission).Error; err != nil {
		t.Fatalf("failed to create test permission: %v", err)
	}
	profile.Permission = permission
	return profile
}

// CreateTestCategory creates a category of the given kind.
func CreateTestCategory(t *testing.T, db *gorm.DB, kind models.CategoryKind) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("Test Category %d", nextID()),
		Kind: kind,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense entry with the given amount (in cents).
func CreateTestExpense(t *testing.T, db *gorm.DB, profileID, categoryID uint, amount int64) *models.Expense {
	t.Helper()
	return CreateTestExpenseOn(t, db, profileID, categoryID, amount, time.Now())
}

// CreateTestExpenseOn creates an expense entry due on the given date.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, profileID, categoryID uint, amount int64, dueDate time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		ProfileID:     profileID,
		CategoryID:    categoryID,
		Amount:        amount,
		DeliveryDate:  dueDate,
		DueDate:       dueDate,
		Recurrence:    models.RecurrenceOneOff,
		PaymentStatus: models.PaymentStatusPending,
		AccountKind:   models.AccountKindChecking,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestFixedExpense creates an expense flagged as fixed.
func CreateTestFixedExpense(t *testing.T, db *gorm.DB, profileID, categoryID uint, amount int64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		ProfileID:     profileID,
		CategoryID:    categoryID,
		Amount:        amount,
		DeliveryDate:  time.Now(),
		DueDate:       time.Now(),
		Recurrence:    models.RecurrenceRecurring,
		PaymentStatus: models.PaymentStatusPending,
		AccountKind:   models.AccountKindChecking,
		Fixed:         true,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test fixed expense: %v", err)
	}
	return expense
}

// CreateTestIncome creates an income entry with the given amount (in cents).
func CreateTestIncome(t *testing.T, db *gorm.DB, profileID, categoryID uint, amount int64) *models.Income {
	t.Helper()

	income := &models.Income{
		ProfileID:    profileID,
		CategoryID:   categoryID,
		Amount:       amount,
		ReceivedDate: time.Now(),
		Recurrence:   models.RecurrenceOneOff,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestBudget creates a budget for the given period with the given ceiling (in cents).
func CreateTestBudget(t *testing.T, db *gorm.DB, profileID uint, period string, ceiling int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		ProfileID: profileID,
		Period:    period,
		Ceiling:   ceiling,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCard creates a credit card with the given limit (in cents).
func CreateTestCard(t *testing.T, db *gorm.DB, profileID uint, limit int64) *models.CreditCard {
	t.Helper()

	card := &models.CreditCard{
		ProfileID: profileID,
		Name:      fmt.Sprintf("Test Card %d", nextID()),
		Brand:     models.CardBrandVisa,
		Limit:     limit,
		DueDay:    10,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}

// CreateTestInvoice creates a closed invoice for the given period and amount (in cents).
func CreateTestInvoice(t *testing.T, db *gorm.DB, cardID uint, period string, amount int64) *models.Invoice {
	t.Helper()

	invoice := &models.Invoice{
		CreditCardID: cardID,
		Period:       period,
		Amount:       amount,
		ClosureDate:  time.Now(),
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("failed to create test invoice: %v", err)
	}
	return invoice
}
