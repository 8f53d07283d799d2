package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
)

// ledgerService handles income and expense entries.
type ledgerService struct {
	db             *gorm.DB
	profileService ProfileServicer
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB, profileService ProfileServicer) LedgerServicer {
	return &ledgerService{db: db, profileService: profileService}
}

// capability names a permission bit checked before a ledger operation.
type capability int

const (
	capCreate capability = iota
	capDelete
	capViewAll
)

// authorize verifies that the acting principal may perform the operation on
// the target profile. Account-level sessions pass unconditionally; profile
// sessions are checked against their permission row. Acting on another
// profile's entries always requires the view-all capability.
func (s *ledgerService) authorize(actor Actor, targetProfileID uint, cap capability) error {
	// The target must exist inside the actor's account regardless of session kind.
	if _, err := s.profileService.GetProfileByID(actor.AccountID, targetProfileID); err != nil {
		return err
	}

	if actor.ProfileID == 0 {
		return nil
	}

	perm, err := s.profileService.GetPermission(actor.ProfileID)
	if err != nil {
		return err
	}

	if actor.ProfileID != targetProfileID && !perm.CanViewAll {
		return apperrors.ErrForbidden
	}

	switch cap {
	case capCreate:
		if !perm.CanCreate {
			return apperrors.ErrForbidden
		}
	case capDelete:
		if !perm.CanDelete {
			return apperrors.ErrForbidden
		}
	case capViewAll:
		// Cross-profile access was already checked above.
	}
	return nil
}

// categoryOfKind loads a category and checks it has the expected kind.
func (s *ledgerService) categoryOfKind(categoryID uint, kind models.CategoryKind) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Kind != kind {
		return nil, apperrors.ErrCategoryKind
	}
	return &category, nil
}

// AddExpense records an expense entry for a profile.
func (s *ledgerService) AddExpense(actor Actor, profileID, categoryID uint, amount int64, deliveryDate, dueDate time.Time,
	description string, recurrence models.Recurrence, status models.PaymentStatus,
	accountKind models.AccountKind, fixed bool) (*models.Expense, error) {

	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := s.authorize(actor, profileID, capCreate); err != nil {
		return nil, err
	}
	category, err := s.categoryOfKind(categoryID, models.CategoryKindExpense)
	if err != nil {
		return nil, err
	}

	if deliveryDate.IsZero() {
		deliveryDate = time.Now()
	}
	if dueDate.IsZero() {
		dueDate = deliveryDate
	}

	expense := &models.Expense{
		ProfileID:     profileID,
		CategoryID:    category.ID,
		Amount:        amount,
		DeliveryDate:  deliveryDate,
		DueDate:       dueDate,
		Description:   description,
		Recurrence:    recurrence,
		PaymentStatus: status,
		AccountKind:   accountKind,
		Fixed:         fixed,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	expense.Category = *category
	return expense, nil
}

// AddIncome records an income entry for a profile.
func (s *ledgerService) AddIncome(actor Actor, profileID, categoryID uint, amount int64, receivedDate time.Time,
	description string, recurrence models.Recurrence, fixed bool) (*models.Income, error) {

	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if err := s.authorize(actor, profileID, capCreate); err != nil {
		return nil, err
	}
	category, err := s.categoryOfKind(categoryID, models.CategoryKindIncome)
	if err != nil {
		return nil, err
	}

	if receivedDate.IsZero() {
		receivedDate = time.Now()
	}

	income := &models.Income{
		ProfileID:    profileID,
		CategoryID:   category.ID,
		Amount:       amount,
		ReceivedDate: receivedDate,
		Description:  description,
		Recurrence:   recurrence,
		Fixed:        fixed,
	}
	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	income.Category = *category
	return income, nil
}

// monthOrFixed scopes a query to entries dated inside the month window or
// flagged as fixed. Fixed entries recur in every month's view.
func monthOrFixed(q *gorm.DB, dateColumn string, month *string) (*gorm.DB, error) {
	if month == nil {
		return q, nil
	}
	start, end, err := monthWindow(*month)
	if err != nil {
		return nil, err
	}
	return q.Where("("+dateColumn+" >= ? AND "+dateColumn+" < ?) OR fixed = ?", start, end, true), nil
}

// ListExpenses returns a profile's expenses, optionally filtered by month.
func (s *ledgerService) ListExpenses(actor Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if err := s.authorize(actor, profileID, capViewAll); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("profile_id = ?", profileID)
	base, err := monthOrFixed(base, "delivery_date", month)
	if err != nil {
		return nil, err
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("delivery_date DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListIncomes returns a profile's incomes, optionally filtered by month.
func (s *ledgerService) ListIncomes(actor Actor, profileID uint, month *string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	if err := s.authorize(actor, profileID, capViewAll); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Income{}).Where("profile_id = ?", profileID)
	base, err := monthOrFixed(base, "received_date", month)
	if err != nil {
		return nil, err
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("received_date DESC").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteExpense removes an expense entry.
func (s *ledgerService) DeleteExpense(actor Actor, profileID, expenseID uint) error {
	if err := s.authorize(actor, profileID, capDelete); err != nil {
		return err
	}

	var expense models.Expense
	if err := s.db.Where("id = ? AND profile_id = ?", expenseID, profileID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEntryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteIncome removes an income entry.
func (s *ledgerService) DeleteIncome(actor Actor, profileID, incomeID uint) error {
	if err := s.authorize(actor, profileID, capDelete); err != nil {
		return err
	}

	var income models.Income
	if err := s.db.Where("id = ? AND profile_id = ?", incomeID, profileID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEntryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&income).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
