package api

import (
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/gin-gonic/gin"
)

// QuotationController 报价单控制器
type QuotationController struct {
	quotationService service.QuotationService
}

// NewQuotationController 创建报价单控制器
func NewQuotationController(quotationService service.QuotationService) *QuotationController {
	return &QuotationController{
		quotationService: quotationService,
	}
}

// Create 创建报价单
// @Summary      创建报价单
// @Description  在项目下创建报价单草稿,总金额按单价和数量计算
// @Tags         报价管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateQuotationRequest true "报价信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /quotations [post]
// @Security     BearerAuth
func (c *QuotationController) Create(ctx *gin.Context) {
	var req service.CreateQuotationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	quotation, err := c.quotationService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err, "create quotation")
		return
	}

	Success(ctx, quotation)
}

// Get 获取报价单
// @Summary      获取报价单详情
// @Tags         报价管理
// @Produce      json
// @Param        id path string true "报价单 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /quotations/{id} [get]
// @Security     BearerAuth
func (c *QuotationController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid quotation ID", err.Error())
		return
	}

	quotation, err := c.quotationService.Get(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "quotation not found", err.Error())
		return
	}

	Success(ctx, quotation)
}

// ListByProject 列出项目下的报价单
// @Summary      项目报价单列表
// @Tags         报价管理
// @Produce      json
// @Param        id path string true "项目 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /projects/{id}/quotations [get]
// @Security     BearerAuth
func (c *QuotationController) ListByProject(ctx *gin.Context) {
	projectID := ctx.Param("id")
	if err := utils.ValidateResourceID(projectID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid project ID", err.Error())
		return
	}

	quotations, err := c.quotationService.ListByProject(projectID)
	if err != nil {
		HandleServiceError(ctx, err, "list quotations")
		return
	}

	Success(ctx, quotations)
}

// Submit 提交报价单审批
// @Summary      提交报价单审批
// @Description  按启用中的报价审批链创建审批请求;草稿或被拒绝的报价单才能提交
// @Tags         报价管理
// @Produce      json
// @Param        id path string true "报价单 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /quotations/{id}/submit [post]
// @Security     BearerAuth
func (c *QuotationController) Submit(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid quotation ID", err.Error())
		return
	}

	request, err := c.quotationService.SubmitForApproval(ctx.Request.Context(), id)
	if err != nil {
		HandleServiceError(ctx, err, "submit quotation")
		return
	}

	Success(ctx, request)
}
