package api

import (
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/gin-gonic/gin"
)

// InvoiceController 发票控制器
type InvoiceController struct {
	invoiceService service.InvoiceService
}

// NewInvoiceController 创建发票控制器
func NewInvoiceController(invoiceService service.InvoiceService) *InvoiceController {
	return &InvoiceController{
		invoiceService: invoiceService,
	}
}

// Create 创建发票
// @Summary      创建发票
// @Tags         发票管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateInvoiceRequest true "发票信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /invoices [post]
// @Security     BearerAuth
func (c *InvoiceController) Create(ctx *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	invoice, err := c.invoiceService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err, "create invoice")
		return
	}

	Success(ctx, invoice)
}

// Get 获取发票
// @Summary      获取发票详情
// @Tags         发票管理
// @Produce      json
// @Param        id path string true "发票 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /invoices/{id} [get]
// @Security     BearerAuth
func (c *InvoiceController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid invoice ID", err.Error())
		return
	}

	invoice, err := c.invoiceService.Get(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "invoice not found", err.Error())
		return
	}

	Success(ctx, invoice)
}

// ListByProject 列出项目下的发票
// @Summary      项目发票列表
// @Tags         发票管理
// @Produce      json
// @Param        id path string true "项目 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /projects/{id}/invoices [get]
// @Security     BearerAuth
func (c *InvoiceController) ListByProject(ctx *gin.Context) {
	projectID := ctx.Param("id")
	if err := utils.ValidateResourceID(projectID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid project ID", err.Error())
		return
	}

	invoices, err := c.invoiceService.ListByProject(projectID)
	if err != nil {
		HandleServiceError(ctx, err, "list invoices")
		return
	}

	Success(ctx, invoices)
}

// Submit 提交发票审批
// @Summary      提交发票审批
// @Description  按启用中的发票审批链创建审批请求
// @Tags         发票管理
// @Produce      json
// @Param        id path string true "发票 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /invoices/{id}/submit [post]
// @Security     BearerAuth
func (c *InvoiceController) Submit(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid invoice ID", err.Error())
		return
	}

	request, err := c.invoiceService.SubmitForApproval(ctx.Request.Context(), id)
	if err != nil {
		HandleServiceError(ctx, err, "submit invoice")
		return
	}

	Success(ctx, request)
}

// MarkPaid 登记回款
// @Summary      登记发票回款
// @Description  已批准的发票才能登记回款
// @Tags         发票管理
// @Produce      json
// @Param        id path string true "发票 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /invoices/{id}/paid [post]
// @Security     BearerAuth
func (c *InvoiceController) MarkPaid(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid invoice ID", err.Error())
		return
	}

	if err := c.invoiceService.MarkPaid(ctx.Request.Context(), id); err != nil {
		HandleServiceError(ctx, err, "mark invoice paid")
		return
	}

	Success(ctx, nil)
}
