package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "famledger/internal/errors"
	"famledger/internal/logger"
	"famledger/internal/services"
)

// ErrorResponse documents the error body shape for swagger.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MessageResponse documents simple message bodies for swagger.
type MessageResponse struct {
	Message string `json:"message"`
}

// getActor extracts the authenticated principal from the Gin context.
// Returns ErrUnauthorized if no account is present.
func getActor(c *gin.Context) (services.Actor, error) {
	accountID, exists := c.Get("accountID")
	if !exists {
		return services.Actor{}, apperrors.ErrUnauthorized
	}
	actor := services.Actor{AccountID: accountID.(uint)}
	if profileID, ok := c.Get("profileID"); ok {
		actor.ProfileID = profileID.(uint)
	}
	return actor, nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// parseQueryID parses an optional uint query parameter. Missing values
// return (0, false, nil).
func parseQueryID(c *gin.Context, param string) (uint, bool, error) {
	v := c.Query(param)
	if v == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), true, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
