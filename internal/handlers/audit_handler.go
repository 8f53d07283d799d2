package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/pagination"
	"famledger/internal/services"
)

// AuditHandler handles audit trail requests.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListAuditEntries handles listing a profile's audit entries.
// @Summary     List audit entries
// @Description List the append-only audit trail for a profile, newest first
// @Tags        audit
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       profile_id query int true  "Profile ID"
// @Param       page       query int false "Page number (default 1)"
// @Param       page_size  query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Paginated audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /audit [get]
func (h *AuditHandler) ListAuditEntries(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, ok, err := parseQueryID(c, "profile_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !ok {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "profile_id is required"))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.auditService.ListByProfile(actor.AccountID, profileID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
