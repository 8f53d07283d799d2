package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/middleware"
	"famledger/internal/services"
)

// AuthHandler handles account creation and login requests.
type AuthHandler struct {
	accountService services.AccountServicer
	profileService services.ProfileServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService services.AccountServicer, profileService services.ProfileServicer) *AuthHandler {
	return &AuthHandler{accountService: accountService, profileService: profileService}
}

// CreateAccountRequest represents the account registration payload.
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginRequest represents the account login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileLoginRequest represents the profile login payload. Profiles
// authenticate by their short code, independently of the account credential.
type ProfileLoginRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateAccount handles family account registration.
// @Summary     Create a family account
// @Description Register a new family account; no profile is created yet
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} map[string]interface{} "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate email"
// @Router      /accounts [post]
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account": gin.H{
			"id":    account.ID,
			"name":  account.Name,
			"email": account.Email,
		},
	})
}

// Login handles family account login.
// @Summary     Account login
// @Description Authenticate a family account and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Account credentials"
// @Success     200 {object} map[string]interface{} "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.GetAccountByEmail(req.Email)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}
	if !h.accountService.VerifyPassword(account, req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := middleware.GenerateAccountToken(account)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"account": gin.H{
			"id":    account.ID,
			"name":  account.Name,
			"email": account.Email,
		},
	})
}

// ProfileLogin handles profile login by short code.
// @Summary     Profile login
// @Description Authenticate a profile by code and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ProfileLoginRequest true "Profile credentials"
// @Success     200 {object} map[string]interface{} "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/profile-login [post]
func (h *AuthHandler) ProfileLogin(c *gin.Context) {
	var req ProfileLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.GetProfileByCode(req.Code)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}
	if !h.profileService.VerifyPassword(profile, req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := middleware.GenerateProfileToken(profile)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"profile": gin.H{
			"id":       profile.ID,
			"code":     profile.Code,
			"name":     profile.Name,
			"is_admin": profile.IsAdmin,
		},
	})
}
