package api

import (
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/gin-gonic/gin"
)

// DeliveryController 出货单控制器
type DeliveryController struct {
	deliveryService service.DeliveryService
}

// NewDeliveryController 创建出货单控制器
func NewDeliveryController(deliveryService service.DeliveryService) *DeliveryController {
	return &DeliveryController{
		deliveryService: deliveryService,
	}
}

// Create 创建出货单
// @Summary      创建出货单
// @Description  按已批准的报价单出货;累计出货数量不能超过报价数量
// @Tags         出货管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateDeliveryRequest true "出货信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /deliveries [post]
// @Security     BearerAuth
func (c *DeliveryController) Create(ctx *gin.Context) {
	var req service.CreateDeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	delivery, err := c.deliveryService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err, "create delivery")
		return
	}

	Success(ctx, delivery)
}

// Get 获取出货单
// @Summary      获取出货单详情
// @Tags         出货管理
// @Produce      json
// @Param        id path string true "出货单 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /deliveries/{id} [get]
// @Security     BearerAuth
func (c *DeliveryController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid delivery ID", err.Error())
		return
	}

	delivery, err := c.deliveryService.Get(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "delivery not found", err.Error())
		return
	}

	Success(ctx, delivery)
}

// ListByQuotation 列出报价单下的出货单
// @Summary      报价单出货记录
// @Tags         出货管理
// @Produce      json
// @Param        id path string true "报价单 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /quotations/{id}/deliveries [get]
// @Security     BearerAuth
func (c *DeliveryController) ListByQuotation(ctx *gin.Context) {
	quotationID := ctx.Param("id")
	if err := utils.ValidateResourceID(quotationID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid quotation ID", err.Error())
		return
	}

	deliveries, err := c.deliveryService.ListByQuotation(quotationID)
	if err != nil {
		HandleServiceError(ctx, err, "list deliveries")
		return
	}

	Success(ctx, deliveries)
}

// Remaining 报价单剩余可出货数量
// @Summary      剩余可出货数量
// @Description  报价数量减去累计已出货数量
// @Tags         出货管理
// @Produce      json
// @Param        id path string true "报价单 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /quotations/{id}/deliveries/remaining [get]
// @Security     BearerAuth
func (c *DeliveryController) Remaining(ctx *gin.Context) {
	quotationID := ctx.Param("id")
	if err := utils.ValidateResourceID(quotationID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid quotation ID", err.Error())
		return
	}

	remaining, err := c.deliveryService.RemainingQuantity(quotationID)
	if err != nil {
		HandleServiceError(ctx, err, "get remaining quantity")
		return
	}

	Success(ctx, gin.H{"remaining_quantity": remaining})
}
