package container

import (
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/api"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/auth"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/config"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/database"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/lock"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/metrics"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理数据库、仓储、服务、控制器等全部应用依赖
type Container struct {
	db             *gorm.DB
	logger         *logrus.Logger
	hub            *websocket.Hub
	eventSvc       service.EventService
	tokenValidator *auth.TokenValidator
	collector      *metrics.Collector
	controllers    *api.Controllers
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化数据库（带重试机制）
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 2. 初始化日志
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 3. 初始化仓储层
	templateRepo := repository.NewChainTemplateRepository(db)
	requestRepo := repository.NewApprovalRequestRepository(db)
	eventRepo := repository.NewEventRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	purchaseRepo := repository.NewPurchaseRequestRepository(db)

	// 4. 初始化 WebSocket Hub,兼作事件推送出口
	hub := websocket.NewHub()

	// 5. 初始化基础服务
	auditLogSvc := service.NewAuditLogService(auditRepo)
	templateSvc := service.NewTemplateService(templateRepo, auditLogSvc)
	eventSvc := service.NewEventService(eventRepo, hub, logger, cfg.Event.Workers)

	// 6. 初始化审批服务
	approvalSvc := service.NewApprovalService(requestRepo, templateSvc, auditLogSvc, eventSvc)

	// 7. 初始化业务单据服务
	// 报价/发票/采购服务在构造时向审批服务注册终态回调
	projectSvc := service.NewProjectService(projectRepo, auditLogSvc)
	quotationSvc := service.NewQuotationService(quotationRepo, projectRepo, approvalSvc, auditLogSvc)
	deliverySvc := service.NewDeliveryService(deliveryRepo, quotationRepo, lock.NewEntityLocker(), auditLogSvc)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, projectRepo, approvalSvc, auditLogSvc)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, projectRepo, approvalSvc, auditLogSvc)

	// 8. 初始化查询与统计服务
	querySvc := service.NewQueryService(requestRepo)
	statisticsSvc := service.NewStatisticsService(db)

	// 9. 初始化 Token 验证器
	tokenValidator := auth.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// 10. 初始化指标采集器（每 30 秒轮询数据库状态）
	collector := metrics.NewCollector(db, 30*time.Second)

	// 11. 初始化控制器
	controllers := &api.Controllers{
		Template:  api.NewTemplateController(templateSvc),
		Approval:  api.NewApprovalController(approvalSvc),
		Query:     api.NewQueryController(querySvc, eventSvc, statisticsSvc),
		Project:   api.NewProjectController(projectSvc),
		Quotation: api.NewQuotationController(quotationSvc),
		Delivery:  api.NewDeliveryController(deliverySvc),
		Invoice:   api.NewInvoiceController(invoiceSvc),
		Purchase:  api.NewPurchaseController(purchaseSvc),
	}

	return &Container{
		db:             db,
		logger:         logger,
		hub:            hub,
		eventSvc:       eventSvc,
		tokenValidator: tokenValidator,
		collector:      collector,
		controllers:    controllers,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Logger 获取日志器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// Hub 获取 WebSocket Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// TokenValidator 获取 Token 验证器
func (c *Container) TokenValidator() *auth.TokenValidator {
	return c.tokenValidator
}

// MetricsCollector 获取指标采集器
func (c *Container) MetricsCollector() *metrics.Collector {
	return c.collector
}

// Controllers 获取控制器集合
func (c *Container) Controllers() *api.Controllers {
	return c.controllers
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	// 先停止事件推送,保证队列中的事件处理完毕
	if c.eventSvc != nil {
		c.eventSvc.Close()
	}

	if c.collector != nil {
		c.collector.Stop()
	}

	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return nil
}
