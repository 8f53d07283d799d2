package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
)

// cardService handles credit card business logic. Every lookup is scoped to
// the authenticated family account so one household can never touch
// another's cards.
type cardService struct {
	db *gorm.DB
}

// NewCardService creates a new CardServicer.
func NewCardService(db *gorm.DB) CardServicer {
	return &cardService{db: db}
}

// CreateCard registers a credit card for a profile.
func (s *cardService) CreateCard(accountID, profileID uint, name string, brand models.CardBrand, limit int64, dueDay int) (*models.CreditCard, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if limit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be greater than zero")
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due day must be between 1 and 31")
	}

	if err := requireProfileInAccount(s.db, accountID, profileID); err != nil {
		return nil, err
	}

	card := &models.CreditCard{
		ProfileID: profileID,
		Name:      name,
		Brand:     brand,
		Limit:     limit,
		DueDay:    dueDay,
	}
	if err := s.db.Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// ListCards returns a profile's credit cards.
func (s *cardService) ListCards(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CreditCard], error) {
	if err := requireProfileInAccount(s.db, accountID, profileID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.CreditCard{}).Where("profile_id = ?", profileID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.CreditCard
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cards, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCardByID retrieves one of the account's cards by ID. Cards of other
// accounts are indistinguishable from missing ones.
func (s *cardService) GetCardByID(accountID, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := s.db.Where("id = ? AND profile_id IN (?)", cardID, accountProfiles(s.db, accountID)).
		First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}

// UpdateCard updates the mutable fields of a card.
func (s *cardService) UpdateCard(accountID, cardID uint, name string, limit *int64, dueDay *int) (*models.CreditCard, error) {
	card, err := s.GetCardByID(accountID, cardID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		card.Name = name
	}
	if limit != nil {
		if *limit <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be greater than zero")
		}
		card.Limit = *limit
	}
	if dueDay != nil {
		if *dueDay < 1 || *dueDay > 31 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due day must be between 1 and 31")
		}
		card.DueDay = *dueDay
	}

	if err := s.db.Save(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// DeleteCard removes a card. The delete is refused while invoices exist for it.
func (s *cardService) DeleteCard(accountID, cardID uint) error {
	card, err := s.GetCardByID(accountID, cardID)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Invoice{}).Where("credit_card_id = ?", cardID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrCardHasInvoices
	}

	if err := s.db.Delete(card).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RegisterSpend adds delta to the card's running spend. The card row is
// re-read inside the transaction so concurrent spends cannot slip past the
// limit together.
func (s *cardService) RegisterSpend(accountID, cardID uint, delta int64) (*models.CreditCard, error) {
	if delta <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "spend must be greater than zero")
	}

	var card models.CreditCard
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND profile_id IN (?)", cardID, accountProfiles(tx, accountID)).
			First(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCardNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if card.CurrentSpend+delta > card.Limit {
			return apperrors.ErrCardLimitExceeded
		}

		card.CurrentSpend += delta
		if err := tx.Save(&card).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}
