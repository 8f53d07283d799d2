package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/models"
	"famledger/internal/shortcode"
)

// profileService handles profile business logic. Profile and permission rows
// are always written in the same database transaction.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// CreateFirstProfile creates the administrative profile of a freshly created
// account together with a full permission grant, all-or-nothing.
func (s *profileService) CreateFirstProfile(accountID uint, name, role, password string) (*models.Profile, error) {
	return s.createProfile(accountID, name, role, password, 0, true, AllPermissions())
}

// CreateAdditionalProfile creates a non-admin profile with the given starting
// income and permission grant, under the same atomicity contract.
func (s *profileService) CreateAdditionalProfile(accountID uint, name, role, password string, income int64, perms PermissionFlags) (*models.Profile, error) {
	return s.createProfile(accountID, name, role, password, income, false, perms)
}

func (s *profileService) createProfile(accountID uint, name, role, password string, income int64, isAdmin bool, perms PermissionFlags) (*models.Profile, error) {
	if name == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and password are required")
	}
	if income < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income must not be negative")
	}

	var account models.FamilyAccount
	if err := s.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var profile *models.Profile
	err = s.db.Transaction(func(tx *gorm.DB) error {
		code, txErr := s.uniqueCode(tx)
		if txErr != nil {
			return txErr
		}

		profile = &models.Profile{
			FamilyAccountID: accountID,
			Code:            code,
			Name:            name,
			Role:            role,
			Income:          income,
			IsAdmin:         isAdmin,
			Password:        string(hashed),
		}
		if txErr := tx.Create(profile).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		permission := &models.Permission{
			ProfileID:  profile.ID,
			CanCreate:  perms.CanCreate,
			CanEdit:    perms.CanEdit,
			CanDelete:  perms.CanDelete,
			CanViewAll: perms.CanViewAll,
		}
		if txErr := tx.Create(permission).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		profile.Permission = permission
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return profile, nil
}

// uniqueCode draws short codes until one is free. The unique index on
// profiles.code remains the real guarantee against a concurrent winner.
func (s *profileService) uniqueCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code := shortcode.New()
		var count int64
		if err := tx.Model(&models.Profile{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("could not allocate a unique profile code"))
}

// ListProfiles returns all profiles of an account with their permissions.
func (s *profileService) ListProfiles(accountID uint) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.Preload("Permission").Where("family_account_id = ?", accountID).
		Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(profiles) == 0 {
		return nil, apperrors.ErrNoProfiles
	}
	return profiles, nil
}

// GetProfileByID retrieves a profile by ID scoped to an account.
func (s *profileService) GetProfileByID(accountID, profileID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Preload("Permission").Where("id = ? AND family_account_id = ?", profileID, accountID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// GetProfileByCode retrieves a profile by its short code.
func (s *profileService) GetProfileByCode(code string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Preload("Permission").Where("code = ?", code).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// UpdateProfile updates the mutable fields of a profile.
func (s *profileService) UpdateProfile(accountID, profileID uint, name, role string, income *int64) (*models.Profile, error) {
	profile, err := s.GetProfileByID(accountID, profileID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		profile.Name = name
	}
	if role != "" {
		profile.Role = role
	}
	if income != nil {
		if *income < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income must not be negative")
		}
		profile.Income = *income
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}

// DeleteProfile removes a profile and its permission row. The delete is
// refused while the profile still owns ledger entries, budgets or cards.
func (s *profileService) DeleteProfile(accountID, profileID uint) error {
	profile, err := s.GetProfileByID(accountID, profileID)
	if err != nil {
		return err
	}

	dependents := []struct {
		model interface{}
		where string
	}{
		{&models.Expense{}, "profile_id = ?"},
		{&models.Income{}, "profile_id = ?"},
		{&models.Budget{}, "profile_id = ?"},
		{&models.CreditCard{}, "profile_id = ?"},
	}
	for _, dep := range dependents {
		var count int64
		if err := s.db.Model(dep.model).Where(dep.where, profileID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrProfileHasRecords
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&models.Permission{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(profile).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetPermission retrieves the permission row of a profile.
func (s *profileService) GetPermission(profileID uint) (*models.Permission, error) {
	var permission models.Permission
	if err := s.db.Where("profile_id = ?", profileID).First(&permission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &permission, nil
}

// VerifyPassword checks if the provided password matches the stored hash.
func (s *profileService) VerifyPassword(profile *models.Profile, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password))
	return err == nil
}
