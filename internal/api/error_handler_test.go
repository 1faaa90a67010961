package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/api"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// serveError 把错误交给 HandleServiceError 并返回响应状态码
func serveError(t *testing.T, err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	api.HandleServiceError(c, err, "process request")
	return w.Code
}

// TestHandleServiceError 测试服务层错误到 HTTP 状态码的映射
func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"记录不存在", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"包装的记录不存在", fmt.Errorf("quotation not found: %w", gorm.ErrRecordNotFound), http.StatusNotFound},
		{"审批已终态", approval.ErrAlreadyCompleted, http.StatusConflict},
		{"乐观锁冲突", repository.ErrOptimisticLock, http.StatusConflict},
		{"重复提交", service.ErrAlreadySubmitted, http.StatusConflict},
		{"越级审批", approval.ErrOutOfOrderApproval, http.StatusUnprocessableEntity},
		{"链外用户", approval.ErrUnauthorized, http.StatusForbidden},
		{"前置单据未审批", service.ErrDocumentNotApproved, http.StatusUnprocessableEntity},
		{"出货超量", service.ErrQuantityExceeded, http.StatusUnprocessableEntity},
		{"拒绝缺少原因", approval.ErrMissingRejectionReason, http.StatusBadRequest},
		{"空白评论", approval.ErrBlankComment, http.StatusBadRequest},
		{"空审批链", approval.ErrEmptyChain, http.StatusBadRequest},
		{"级别配置非法", approval.ErrInvalidConfiguration, http.StatusBadRequest},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, serveError(t, tc.err))
		})
	}
}

// TestErrorHandlerMiddleware 测试错误处理中间件
func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(api.ErrorHandlerMiddleware())
	router.GET("/api-error", func(c *gin.Context) {
		_ = c.Error(api.WrapError(errors.New("boom"), http.StatusBadGateway, "upstream failed"))
	})
	router.GET("/plain-error", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-error", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain-error", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
