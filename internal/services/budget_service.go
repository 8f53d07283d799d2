package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
)

// budgetService handles per-profile monthly spending ceilings. Every lookup
// is scoped to the authenticated family account through the budget's profile.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a budget for a (profile, month) pair. The pair is
// unique: a second budget for the same month fails and callers must use
// UpdateBudget instead.
func (s *budgetService) CreateBudget(accountID, profileID uint, period string, ceiling int64) (*models.Budget, error) {
	if ceiling <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ceiling must be greater than zero")
	}
	if _, _, err := monthWindow(period); err != nil {
		return nil, err
	}

	if err := requireProfileInAccount(s.db, accountID, profileID); err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&models.Budget{}).Where("profile_id = ? AND period = ?", profileID, period).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.Budget{ProfileID: profileID, Period: period, Ceiling: ceiling}
	if err := s.db.Create(budget).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateBudget
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// ListBudgets returns a profile's budgets, newest period first.
func (s *budgetService) ListBudgets(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	if err := requireProfileInAccount(s.db, accountID, profileID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("profile_id = ?", profileID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Order("period DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateBudget changes the ceiling of an existing budget. The (profile,
// period) pair never changes after creation.
func (s *budgetService) UpdateBudget(accountID, budgetID uint, ceiling int64) (*models.Budget, error) {
	if ceiling <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ceiling must be greater than zero")
	}

	var budget models.Budget
	if err := s.db.Where("id = ? AND profile_id IN (?)", budgetID, accountProfiles(s.db, accountID)).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget.Ceiling = ceiling
	if err := s.db.Save(&budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// Evaluate compares the month's summed expenses against the ceiling. Fixed
// expenses count towards every month. The result is computed on demand and
// never stored.
func (s *budgetService) Evaluate(accountID, profileID uint, period string) (*BudgetEvaluation, error) {
	start, end, err := monthWindow(period)
	if err != nil {
		return nil, err
	}

	if err := requireProfileInAccount(s.db, accountID, profileID); err != nil {
		return nil, err
	}

	var budget models.Budget
	if err := s.db.Where("profile_id = ? AND period = ?", profileID, period).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var spent int64
	row := s.db.Model(&models.Expense{}).
		Where("profile_id = ?", profileID).
		Where("(delivery_date >= ? AND delivery_date < ?) OR fixed = ?", start, end, true).
		Select("COALESCE(SUM(amount), 0)")
	if err := row.Scan(&spent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	eval := &BudgetEvaluation{
		ProfileID: profileID,
		Period:    period,
		Ceiling:   budget.Ceiling,
		Spent:     spent,
		Remaining: budget.Ceiling - spent,
		Exceeded:  spent > budget.Ceiling,
	}
	if budget.Ceiling > 0 {
		eval.Percentage = float64(spent) / float64(budget.Ceiling) * 100
	}
	return eval, nil
}
