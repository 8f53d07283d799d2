package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/pagination"
)

// invoiceService implements the invoice settlement state machine. An invoice
// is created when a billing cycle closes and then moves through partially
// paid to paid; the closed amount never changes and the cumulative amount
// paid never decreases. Every lookup is scoped to the authenticated family
// account through the invoice's card.
type invoiceService struct {
	db          *gorm.DB
	cardService CardServicer
}

// NewInvoiceService creates a new InvoiceServicer.
func NewInvoiceService(db *gorm.DB, cardService CardServicer) InvoiceServicer {
	return &invoiceService{db: db, cardService: cardService}
}

// CloseInvoice snapshots a card's billing cycle into an immutable invoice.
// At most one invoice may exist per (card, month); the existence check gives
// a friendly conflict, the unique index on (credit_card_id, period) is the
// actual guarantee against a concurrent close.
func (s *invoiceService) CloseInvoice(accountID, cardID uint, period string, amount int64, closureDate time.Time) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if _, _, err := monthWindow(period); err != nil {
		return nil, err
	}
	if _, err := s.cardService.GetCardByID(accountID, cardID); err != nil {
		return nil, err
	}

	if closureDate.IsZero() {
		closureDate = time.Now()
	}

	var invoice *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Invoice{}).
			Where("credit_card_id = ? AND period = ?", cardID, period).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateInvoice
		}

		invoice = &models.Invoice{
			CreditCardID: cardID,
			Period:       period,
			Amount:       amount,
			ClosureDate:  closureDate,
			AmountPaid:   0,
			Paid:         false,
		}
		if err := tx.Create(invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateInvoice
			}
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
	return invoice, nil
}

// ApplyPayment records the cumulative amount paid against an invoice.
// Amounts below the stored figure are rejected so settlement is monotonic;
// amounts above the closed amount are clamped to it, so no overpayment is
// ever persisted. Paid is recomputed on every call, which makes retries with
// the same or a larger figure idempotent.
func (s *invoiceService) ApplyPayment(accountID, invoiceID uint, amount int64) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var invoice models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND credit_card_id IN (?)", invoiceID, accountCards(tx, accountID)).
			First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvoiceNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if amount < invoice.AmountPaid {
			return apperrors.ErrPaymentDecrease
		}

		if amount > invoice.Amount {
			amount = invoice.Amount
		}

		invoice.AmountPaid = amount
		invoice.Paid = invoice.AmountPaid >= invoice.Amount
		if err := tx.Save(&invoice).Error; err != nil {
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
	return &invoice, nil
}

// GetInvoiceByID retrieves one of the account's invoices by ID.
func (s *invoiceService) GetInvoiceByID(accountID, invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Where("id = ? AND credit_card_id IN (?)", invoiceID, accountCards(s.db, accountID)).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invoice, nil
}

// ListByCard returns a card's invoices ordered by closure date descending.
func (s *invoiceService) ListByCard(accountID, cardID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error) {
	if _, err := s.cardService.GetCardByID(accountID, cardID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Invoice{}).Where("credit_card_id = ?", cardID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invoices []models.Invoice
	if err := base.Scopes(pagination.Paginate(page)).
		Order("closure_date DESC").Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(invoices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListByProfile returns invoices across all of a profile's cards, ordered by
// closure date descending.
func (s *invoiceService) ListByProfile(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error) {
	if err := requireProfileInAccount(s.db, accountID, profileID); err != nil {
		return nil, err
	}
	page.Defaults()

	sub := s.db.Model(&models.CreditCard{}).Select("id").Where("profile_id = ?", profileID)
	base := s.db.Model(&models.Invoice{}).Where("credit_card_id IN (?)", sub)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invoices []models.Invoice
	if err := base.Scopes(pagination.Paginate(page)).
		Order("closure_date DESC").Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(invoices, page.Page, page.PageSize, totalItems)
	return &result, nil
}
