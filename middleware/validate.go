package middleware

import (
	"fmt"
	"net/http"

	"github.com/arboriq/arboriq-api/validation"
	"github.com/gin-gonic/gin"
)

const (
	bodyKey  = "validated_body"
	queryKey = "validated_query"
)

// ValidateUUID rejects the request before the handler when a path parameter is not a UUID
func ValidateUUID(params ...string) gin.HandlerFunc {
	if len(params) == 0 {
		params = []string{"id"}
	}
	return func(c *gin.Context) {
		for _, name := range params {
			if !validation.IsUUID(c.Param(name)) {
				abort(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format. Must be a valid UUID.", name))
				return
			}
		}
		c.Next()
	}
}

// ValidateJSON binds and validates the body as T, reporting every violation.
// Handlers read the result with Body.
func ValidateJSON[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T
		if details := validation.BindJSON(c.Request, &body); len(details) > 0 {
			abort(c, http.StatusBadRequest, "Validation failed", details...)
			return
		}
		c.Set(bodyKey, body)
		c.Next()
	}
}

// ValidateQuery binds, defaults and validates the query string as T.
// Handlers read the result with Query.
func ValidateQuery[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query T
		if details := validation.BindQuery(c.Request, &query); len(details) > 0 {
			abort(c, http.StatusBadRequest, "Invalid query parameters", details...)
			return
		}
		c.Set(queryKey, query)
		c.Next()
	}
}

// Body returns the value stored by ValidateJSON[T]
func Body[T any](c *gin.Context) T {
	v, _ := c.Get(bodyKey)
	body, _ := v.(T)
	return body
}

// Query returns the value stored by ValidateQuery[T]
func Query[T any](c *gin.Context) T {
	v, _ := c.Get(queryKey)
	query, _ := v.(T)
	return query
}
