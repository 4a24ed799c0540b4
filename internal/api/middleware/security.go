package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders cabeçalhos de segurança. photoOrigin é a origem pública do
// armazenamento de fotos de conclusão, liberada em img-src; vazio restringe
// as imagens ao próprio servidor.
func SecurityHeaders(photoOrigin string) gin.HandlerFunc {
	imgSrc := []string{"'self'", "data:", "blob:"}
	if photoOrigin != "" {
		imgSrc = append(imgSrc, photoOrigin)
	}
	csp := "default-src 'self'; img-src " + strings.Join(imgSrc, " ") +
		"; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'"

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)
		// câmera para a foto de conclusão tirada no canteiro
		c.Header("Permissions-Policy", "camera=(self), microphone=(), geolocation=()")

		// respostas da API carregam dados de obra e tokens
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Header("Cache-Control", "no-store")
		}

		c.Next()
	}
}
