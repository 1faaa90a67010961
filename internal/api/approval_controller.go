package api

import (
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/gin-gonic/gin"
)

// ApprovalController 审批请求控制器
// 审批请求由各单据的 submit 接口创建,这里只承载决策和讨论
type ApprovalController struct {
	approvalService service.ApprovalService
}

// NewApprovalController 创建审批请求控制器
func NewApprovalController(approvalService service.ApprovalService) *ApprovalController {
	return &ApprovalController{
		approvalService: approvalService,
	}
}

// validateRequestID 验证审批请求 ID 并返回错误响应（如果无效）
func (c *ApprovalController) validateRequestID(ctx *gin.Context, id string) bool {
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request ID", err.Error())
		return false
	}
	return true
}

// Get 获取审批请求
// @Summary      获取审批请求
// @Description  根据 ID 获取审批请求聚合,含级别决策、历史和讨论
// @Tags         审批
// @Produce      json
// @Param        id path string true "审批请求 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /approvals/{id} [get]
// @Security     BearerAuth
func (c *ApprovalController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	req, err := c.approvalService.Get(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "approval request not found", err.Error())
		return
	}

	Success(ctx, req)
}

// Approve 审批同意
// @Summary      审批同意
// @Description  当前级别审批人同意;中间级别推进到下一级,最终级别整体批准
// @Tags         审批
// @Accept       json
// @Produce      json
// @Param        id path string true "审批请求 ID"
// @Param        request body service.ApproveRequest true "审批意见"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /approvals/{id}/approve [post]
// @Security     BearerAuth
func (c *ApprovalController) Approve(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	var req service.ApproveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := c.approvalService.Approve(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(ctx, err, "approve request")
		return
	}

	Success(ctx, result)
}

// Reject 审批拒绝
// @Summary      审批拒绝
// @Description  当前级别审批人拒绝,整条审批链立即终止;拒绝原因必填
// @Tags         审批
// @Accept       json
// @Produce      json
// @Param        id path string true "审批请求 ID"
// @Param        request body service.RejectRequest true "拒绝原因"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /approvals/{id}/reject [post]
// @Security     BearerAuth
func (c *ApprovalController) Reject(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	var req service.RejectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := c.approvalService.Reject(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(ctx, err, "reject request")
		return
	}

	Success(ctx, result)
}

// AddComment 添加讨论
// @Summary      添加审批讨论
// @Description  任何用户都可以在审批请求上留言,终态后仍可讨论
// @Tags         审批
// @Accept       json
// @Produce      json
// @Param        id path string true "审批请求 ID"
// @Param        request body service.AddCommentRequest true "讨论内容"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /approvals/{id}/comments [post]
// @Security     BearerAuth
func (c *ApprovalController) AddComment(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	var req service.AddCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := c.approvalService.AddComment(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(ctx, err, "add comment")
		return
	}

	Success(ctx, result)
}
