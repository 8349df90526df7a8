package middleware

import (
	"github.com/arboriq/arboriq-api/dto"
	"github.com/gin-gonic/gin"
)

// abort ends the chain with the failure envelope
func abort(c *gin.Context, status int, message string, details ...dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}
