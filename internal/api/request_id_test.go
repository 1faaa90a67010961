package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/api"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestRequestIDMiddleware_Generate 测试未携带请求 ID 时自动生成
func TestRequestIDMiddleware_Generate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(api.RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		assert.NotEmpty(t, c.GetString("request_id"))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// TestRequestIDMiddleware_Passthrough 测试透传客户端请求 ID
func TestRequestIDMiddleware_Passthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(api.RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-12345")
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-12345", w.Header().Get("X-Request-ID"))
}
