package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pokedex/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared size exceeds maxBytes and caps
// the body reader for the rest. maxBytes <= 0 disables the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
