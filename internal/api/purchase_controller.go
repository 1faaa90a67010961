package api

import (
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/gin-gonic/gin"
)

// PurchaseController 采购申请控制器
type PurchaseController struct {
	purchaseService service.PurchaseService
}

// NewPurchaseController 创建采购申请控制器
func NewPurchaseController(purchaseService service.PurchaseService) *PurchaseController {
	return &PurchaseController{
		purchaseService: purchaseService,
	}
}

// Create 创建采购申请
// @Summary      创建采购申请
// @Description  创建采购申请或询价单草稿,用 kind 区分
// @Tags         采购管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreatePurchaseRequest true "采购申请信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /purchase-requests [post]
// @Security     BearerAuth
func (c *PurchaseController) Create(ctx *gin.Context) {
	var req service.CreatePurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	pr, err := c.purchaseService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err, "create purchase request")
		return
	}

	Success(ctx, pr)
}

// Get 获取采购申请
// @Summary      获取采购申请详情
// @Tags         采购管理
// @Produce      json
// @Param        id path string true "采购申请 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /purchase-requests/{id} [get]
// @Security     BearerAuth
func (c *PurchaseController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid purchase request ID", err.Error())
		return
	}

	pr, err := c.purchaseService.Get(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "purchase request not found", err.Error())
		return
	}

	Success(ctx, pr)
}

// ListByProject 列出项目下的采购申请
// @Summary      项目采购申请列表
// @Tags         采购管理
// @Produce      json
// @Param        id path string true "项目 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /projects/{id}/purchase-requests [get]
// @Security     BearerAuth
func (c *PurchaseController) ListByProject(ctx *gin.Context) {
	projectID := ctx.Param("id")
	if err := utils.ValidateResourceID(projectID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid project ID", err.Error())
		return
	}

	requests, err := c.purchaseService.ListByProject(projectID)
	if err != nil {
		HandleServiceError(ctx, err, "list purchase requests")
		return
	}

	Success(ctx, requests)
}

// Submit 提交采购申请审批
// @Summary      提交采购申请审批
// @Description  采购申请和询价单分别走各自类型的审批链
// @Tags         采购管理
// @Produce      json
// @Param        id path string true "采购申请 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /purchase-requests/{id}/submit [post]
// @Security     BearerAuth
func (c *PurchaseController) Submit(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid purchase request ID", err.Error())
		return
	}

	request, err := c.purchaseService.SubmitForApproval(ctx.Request.Context(), id)
	if err != nil {
		HandleServiceError(ctx, err, "submit purchase request")
		return
	}

	Success(ctx, request)
}
