package v1

import (
	"errors"
	"net/http"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options carries what every controller needs besides its service
type Options struct {
	Log        *zap.Logger
	Production bool
}

func (o Options) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// fail maps a service error onto the failure envelope
func (o Options) fail(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal Server Error"
	switch {
	case errors.Is(err, services.ErrTreeNotFound):
		status, message = http.StatusNotFound, "Tree not found"
	case errors.Is(err, services.ErrRiskAlertNotFound):
		status, message = http.StatusNotFound, "Risk alert not found"
	case errors.Is(err, services.ErrTreeTagTaken):
		status, message = http.StatusConflict, "QR code or NFC tag already in use"
	case errors.Is(err, services.ErrEmailTaken):
		status, message = http.StatusConflict, "Email already registered"
	case errors.Is(err, services.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, services.ErrIncorrectPassword):
		status, message = http.StatusUnauthorized, "Current password is incorrect"
	case errors.Is(err, services.ErrUserNotFound):
		status, message = http.StatusUnauthorized, "User not found or inactive"
	}

	resp := dto.ErrorResponse{Success: false, Error: message}
	if status >= http.StatusInternalServerError {
		o.logger().Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		if !o.Production {
			resp.Message = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, resp)
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.DataResponse{Success: true, Data: data})
}
