package api

import (
	"errors"
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}

// HandleServiceError 将服务层错误映射为 HTTP 响应
// 审批状态机错误按冲突类型区分:
//   - 已终态 / 并发修改 / 重复提交 → 409
//   - 非当前级别审批人 → 422 (链上有份但没轮到)
//   - 链外用户 → 403
//   - 参数类错误 → 400
func HandleServiceError(ctx *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		Error(ctx, http.StatusNotFound, "resource not found", err.Error())
	case errors.Is(err, approval.ErrAlreadyCompleted):
		Error(ctx, http.StatusConflict, "approval request already completed", err.Error())
	case errors.Is(err, repository.ErrOptimisticLock):
		Error(ctx, http.StatusConflict, "request was modified concurrently, please retry", err.Error())
	case errors.Is(err, service.ErrAlreadySubmitted):
		Error(ctx, http.StatusConflict, "document already submitted for approval", err.Error())
	case errors.Is(err, approval.ErrOutOfOrderApproval):
		Error(ctx, http.StatusUnprocessableEntity, "not your turn to decide", err.Error())
	case errors.Is(err, approval.ErrUnauthorized):
		Error(ctx, http.StatusForbidden, "not an approver of this request", err.Error())
	case errors.Is(err, service.ErrDocumentNotApproved):
		Error(ctx, http.StatusUnprocessableEntity, "document is not approved", err.Error())
	case errors.Is(err, service.ErrQuantityExceeded):
		Error(ctx, http.StatusUnprocessableEntity, "delivery quantity exceeds remaining quoted quantity", err.Error())
	case errors.Is(err, approval.ErrMissingRejectionReason),
		errors.Is(err, approval.ErrBlankComment),
		errors.Is(err, approval.ErrEmptyChain),
		errors.Is(err, approval.ErrInvalidConfiguration):
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
	default:
		Error(ctx, http.StatusInternalServerError, "failed to "+operation, err.Error())
	}
}
