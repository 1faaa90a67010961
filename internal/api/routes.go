package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/auth"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/websocket"
)

// Controllers 路由装配需要的全部控制器
type Controllers struct {
	Template  *TemplateController
	Approval  *ApprovalController
	Query     *QueryController
	Project   *ProjectController
	Quotation *QuotationController
	Delivery  *DeliveryController
	Invoice   *InvoiceController
	Purchase  *PurchaseController
}

// RouterOptions 路由配置项
type RouterOptions struct {
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	EnableTracing      bool
}

// SetupRoutes 配置路由
func SetupRoutes(
	controllers *Controllers,
	hub *websocket.Hub,
	validator *auth.TokenValidator,
	db *gorm.DB,
	opts *RouterOptions,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(VersionMiddleware())
	if opts != nil {
		if len(opts.CORSAllowedOrigins) > 0 {
			router.Use(CORSMiddleware(opts.CORSAllowedOrigins))
		}
		if opts.RateLimitRPS > 0 {
			router.Use(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))
		}
		if opts.EnableTracing {
			router.Use(TracingMiddleware())
		}
	}

	// 健康检查
	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// WebSocket 路由: 订阅单个审批请求的事件推送
	if hub != nil && validator != nil {
		router.GET("/ws/approvals/:id", websocket.Handler(hub, validator))
	}

	// Swagger UI 路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// API v1 路由组,全部走 JWT 认证
	v1 := router.Group("/api/v1")
	if validator != nil {
		v1.Use(auth.AuthMiddleware(validator))
	}
	{
		// 审批链模板管理
		templates := v1.Group("/templates")
		{
			templates.POST("", controllers.Template.Create)
			templates.GET("", controllers.Template.List)
			templates.GET("/:id", controllers.Template.Get)
			templates.PUT("/:id", controllers.Template.Update)
			templates.PUT("/:id/levels", controllers.Template.ReplaceLevels)
			templates.POST("/:id/activate", controllers.Template.Activate)
			templates.DELETE("/:id", controllers.Template.Delete)
		}

		// 审批请求
		approvals := v1.Group("/approvals")
		{
			approvals.GET("", controllers.Query.List)
			approvals.GET("/inbox", controllers.Query.Inbox)
			approvals.GET("/:id", controllers.Approval.Get)
			approvals.GET("/:id/detail", controllers.Query.Detail)
			approvals.GET("/:id/events", controllers.Query.Events)
			approvals.POST("/:id/approve", controllers.Approval.Approve)
			approvals.POST("/:id/reject", controllers.Approval.Reject)
			approvals.POST("/:id/comments", controllers.Approval.AddComment)
		}

		// 单据维度的审批记录
		v1.GET("/documents/:type/:id/approvals", controllers.Query.EntityRequests)

		// 项目
		projects := v1.Group("/projects")
		{
			projects.POST("", controllers.Project.Create)
			projects.GET("", controllers.Project.List)
			projects.GET("/:id", controllers.Project.Get)
			projects.PUT("/:id", controllers.Project.Update)
			projects.GET("/:id/quotations", controllers.Quotation.ListByProject)
			projects.GET("/:id/invoices", controllers.Invoice.ListByProject)
			projects.GET("/:id/purchase-requests", controllers.Purchase.ListByProject)
		}

		// 报价单
		quotations := v1.Group("/quotations")
		{
			quotations.POST("", controllers.Quotation.Create)
			quotations.GET("/:id", controllers.Quotation.Get)
			quotations.POST("/:id/submit", controllers.Quotation.Submit)
			quotations.GET("/:id/deliveries", controllers.Delivery.ListByQuotation)
			quotations.GET("/:id/deliveries/remaining", controllers.Delivery.Remaining)
		}

		// 出货单
		deliveries := v1.Group("/deliveries")
		{
			deliveries.POST("", controllers.Delivery.Create)
			deliveries.GET("/:id", controllers.Delivery.Get)
		}

		// 发票
		invoices := v1.Group("/invoices")
		{
			invoices.POST("", controllers.Invoice.Create)
			invoices.GET("/:id", controllers.Invoice.Get)
			invoices.POST("/:id/submit", controllers.Invoice.Submit)
			invoices.POST("/:id/paid", controllers.Invoice.MarkPaid)
		}

		// 采购申请/询价
		purchases := v1.Group("/purchase-requests")
		{
			purchases.POST("", controllers.Purchase.Create)
			purchases.GET("/:id", controllers.Purchase.Get)
			purchases.POST("/:id/submit", controllers.Purchase.Submit)
		}

		// 统计
		statistics := v1.Group("/statistics")
		{
			statistics.GET("/requests/by-status", controllers.Query.StatisticsByStatus)
			statistics.GET("/requests/by-entity-type", controllers.Query.StatisticsByEntityType)
			statistics.GET("/requests/by-time", controllers.Query.StatisticsByTime)
			statistics.GET("/summary", controllers.Query.StatisticsSummary)
		}
	}

	return router
}
