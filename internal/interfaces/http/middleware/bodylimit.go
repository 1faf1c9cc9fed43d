package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellercentric/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body at maxBytes. Requests that declare a
// larger Content-Length are rejected up front; chunked bodies are cut
// off by a MaxBytesReader once they cross the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				"REQUEST_TOO_LARGE",
				"Request body exceeds the maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
