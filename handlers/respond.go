package handlers

import (
	"errors"
	"net/http"

	"homestay/middleware"
	"homestay/services/booking"
	"homestay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	switch booking.KindOf(err) {
	case booking.KindValidation:
		return http.StatusBadRequest
	case booking.KindAuth:
		return http.StatusUnauthorized
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure envelope. Internal details are logged, not returned.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	var e *booking.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	if status == http.StatusBadGateway {
		getLogger(c, logger).Warn("upstream call failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	if status == http.StatusInternalServerError {
		getLogger(c, logger).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		msg = "internal server error"
	}
	c.JSON(status, utils.ErrorResponse{Error: msg})
}

func respondBadRequest(c *gin.Context, msg string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	utils.JSONError(c, http.StatusBadRequest, msg, details)
}

// callerID is the subject set by the auth middleware.
func callerID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

func callerIsAdmin(c *gin.Context) bool {
	return c.GetBool(middleware.ContextAdmin)
}
