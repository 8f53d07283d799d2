package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "famledger/internal/errors"
	"famledger/internal/logger"
	"famledger/internal/models"
	"famledger/internal/pagination"
)

// auditService handles the append-only audit trail.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(profileID uint, action models.AuditAction, table models.AuditTable, recordID uint, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		ProfileID: profileID,
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		IPAddress: ipAddress,
		Changes:   changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"profile_id", profileID,
			"action", action,
			"table", table,
			"record_id", recordID,
		)
	}
}

// ListByProfile returns a profile's audit entries, newest first. The profile
// must belong to the caller's account.
func (s *auditService) ListByProfile(accountID, profileID uint, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if err := requireProfileInAccount(s.db, accountID, profileID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.AuditLog{}).Where("profile_id = ?", profileID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}
