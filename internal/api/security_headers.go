package api

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware 为所有响应追加安全头
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		// 防止 MIME 嗅探
		h.Set("X-Content-Type-Options", "nosniff")
		// 禁止被嵌入 iframe
		h.Set("X-Frame-Options", "DENY")
		// HSTS
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}
