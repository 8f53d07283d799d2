package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/services"
)

// ProfileHandler handles profile-related requests.
type ProfileHandler struct {
	profileService services.ProfileServicer
	accountService services.AccountServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer, accountService services.AccountServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, accountService: accountService}
}

// CreateFirstProfileRequest represents the payload for the atomic creation of
// an account's administrative profile.
type CreateFirstProfileRequest struct {
	AccountID uint   `json:"account_id" binding:"required"`
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Role      string `json:"role" binding:"max=100"`
	Password  string `json:"password" binding:"required,min=4,max=128"`
}

// CreateProfileRequest represents the payload for creating an additional
// profile. Omitted permission fields default to granted.
type CreateProfileRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Role       string `json:"role" binding:"max=100"`
	Password   string `json:"password" binding:"required,min=4,max=128"`
	Income     int64  `json:"income" binding:"omitempty,min=0"`
	CanCreate  *bool  `json:"can_create"`
	CanEdit    *bool  `json:"can_edit"`
	CanDelete  *bool  `json:"can_delete"`
	CanViewAll *bool  `json:"can_view_all"`
}

// UpdateProfileRequest represents the payload for updating a profile.
type UpdateProfileRequest struct {
	Name   string `json:"name" binding:"omitempty,min=1,max=100"`
	Role   string `json:"role" binding:"omitempty,max=100"`
	Income *int64 `json:"income" binding:"omitempty,min=0"`
}

// CreateFirstProfile handles the atomic creation of the admin profile and its
// full permission grant.
// @Summary     Create first profile
// @Description Create the account's administrative profile with full permissions, atomically
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Param       request body CreateFirstProfileRequest true "Profile details"
// @Success     201 {object} models.Profile "Profile created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Transactional failure"
// @Router      /profiles/first [post]
func (h *ProfileHandler) CreateFirstProfile(c *gin.Context) {
	var req CreateFirstProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.CreateFirstProfile(req.AccountID, req.Name, req.Role, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// CreateProfile handles the atomic creation of an additional profile.
// @Summary     Create additional profile
// @Description Create a non-admin profile and its permission grant, atomically
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProfileRequest true "Profile details"
// @Success     201 {object} models.Profile "Profile created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Transactional failure"
// @Router      /profiles [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	perms := services.AllPermissions()
	if req.CanCreate != nil {
		perms.CanCreate = *req.CanCreate
	}
	if req.CanEdit != nil {
		perms.CanEdit = *req.CanEdit
	}
	if req.CanDelete != nil {
		perms.CanDelete = *req.CanDelete
	}
	if req.CanViewAll != nil {
		perms.CanViewAll = *req.CanViewAll
	}

	profile, err := h.profileService.CreateAdditionalProfile(actor.AccountID, req.Name, req.Role, req.Password, req.Income, perms)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(actor.AccountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"profile":      profile,
		"account_name": account.Name,
	})
}

// ListProfiles handles listing an account's profiles with their permissions.
// @Summary     List profiles
// @Description List all profiles of an account, each with its permission set
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Success     200 {array} models.Profile "Profiles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Foreign account"
// @Failure     404 {object} ErrorResponse "No profiles found"
// @Router      /accounts/{id}/profiles [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if accountID != actor.AccountID {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	profiles, err := h.profileService.ListProfiles(accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// UpdateProfile handles updating a profile.
// @Summary     Update profile
// @Description Update a profile's name, role or income
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Profile ID"
// @Param       request body UpdateProfileRequest true "Updated fields"
// @Success     200 {object} models.Profile "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.UpdateProfile(actor.AccountID, profileID, req.Name, req.Role, req.Income)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// DeleteProfile handles deleting a profile.
// @Summary     Delete profile
// @Description Delete a profile and its permission; refused while it still owns records
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Profile ID"
// @Success     200 {object} MessageResponse "Profile deleted"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Failure     409 {object} ErrorResponse "Profile still owns records"
// @Router      /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.profileService.DeleteProfile(actor.AccountID, profileID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted successfully"})
}
