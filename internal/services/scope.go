package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
)

// accountProfiles returns a subquery selecting the ids of an account's
// profiles. Used to scope card, invoice, and budget lookups to the
// authenticated family account.
func accountProfiles(db *gorm.DB, accountID uint) *gorm.DB {
	return db.Model(&models.Profile{}).Select("id").Where("family_account_id = ?", accountID)
}

// accountCards returns a subquery selecting the ids of an account's cards.
func accountCards(db *gorm.DB, accountID uint) *gorm.DB {
	return db.Model(&models.CreditCard{}).Select("id").
		Where("profile_id IN (?)", accountProfiles(db, accountID))
}

// requireProfileInAccount verifies that a profile belongs to the account.
func requireProfileInAccount(db *gorm.DB, accountID, profileID uint) error {
	var profile models.Profile
	if err := db.Where("id = ? AND family_account_id = ?", profileID, accountID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProfileNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
