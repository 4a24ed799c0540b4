package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"acompanhamento-obras/pkg/response"
)

// BodyLimit limita o tamanho do corpo da requisição (fotos e planilhas incluídas).
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 41300, "corpo da requisição excede o limite")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		for _, ginErr := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(ginErr.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 41300, "corpo da requisição excede o limite")
				return
			}
		}
	}
}
