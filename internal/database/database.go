package database

import (
	"context"
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/config"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// GetPoolConfig 获取连接池配置
func GetPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: 3600, // 1 小时
		ConnMaxIdleTime: 600,  // 10 分钟
	}
}

// Connect 连接数据库
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 从配置中读取连接池参数,未设置的项用默认值补齐
	poolConfig := GetPoolConfig()
	if cfg.MaxIdleConns > 0 {
		poolConfig.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.ConnMaxLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolConfig.ConnMaxIdleTime = cfg.ConnMaxIdleTime
	}

	sqlDB.SetMaxIdleConns(poolConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(poolConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(poolConfig.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(poolConfig.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	// 检测数据库类型
	dialector := db.Dialector.Name()

	// SQLite 不支持 jsonb,需要手动创建表
	// GORM SQLite dialector 的名称可能是 "sqlite" 或 "sqlite3"
	if dialector == "sqlite" || dialector == "sqlite3" {
		if err := createSQLiteTables(db); err != nil {
			return fmt.Errorf("failed to create SQLite tables: %w", err)
		}
	} else {
		// PostgreSQL 等其他数据库使用 AutoMigrate
		if err := db.AutoMigrate(
			&model.ChainTemplateModel{},
			&model.ApprovalRequestModel{},
			&model.EventModel{},
			&model.AuditLogModel{},
			&model.ProjectModel{},
			&model.QuotationModel{},
			&model.DeliveryModel{},
			&model.InvoiceModel{},
			&model.PurchaseRequestModel{},
		); err != nil {
			return fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	// 创建索引
	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createSQLiteTables 为 SQLite 手动创建表（使用 TEXT 替代 jsonb）
func createSQLiteTables(db *gorm.DB) error {
	// 审批链模板表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS chain_templates (
			id VARCHAR(64) PRIMARY KEY,
			entity_type VARCHAR(32) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			active BOOLEAN NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			created_by INTEGER,
			updated_by INTEGER
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create chain_templates table: %w", err)
	}

	// 审批请求表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS approval_requests (
			id VARCHAR(64) PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			entity_type VARCHAR(32) NOT NULL,
			entity_id VARCHAR(64) NOT NULL,
			entity_description VARCHAR(255),
			current_level INTEGER NOT NULL,
			total_levels INTEGER NOT NULL,
			status VARCHAR(32) NOT NULL,
			submitted_by INTEGER NOT NULL,
			submitted_at DATETIME NOT NULL,
			completed_at DATETIME,
			current_approver INTEGER,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create approval_requests table: %w", err)
	}

	// 审批事件表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS approval_events (
			id VARCHAR(64) PRIMARY KEY,
			request_id VARCHAR(64) NOT NULL,
			type VARCHAR(32) NOT NULL,
			data TEXT NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			retry_count INTEGER DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create approval_events table: %w", err)
	}

	// 审计日志表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id VARCHAR(64) PRIMARY KEY,
			user_id INTEGER NOT NULL,
			action VARCHAR(64) NOT NULL,
			resource_type VARCHAR(32) NOT NULL,
			resource_id VARCHAR(64) NOT NULL,
			request_id VARCHAR(64),
			ip VARCHAR(45),
			user_agent TEXT,
			details TEXT,
			created_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create audit_logs table: %w", err)
	}

	// 项目表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id VARCHAR(64) PRIMARY KEY,
			job_code VARCHAR(32) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			description TEXT,
			status VARCHAR(32) NOT NULL,
			due_date DATETIME,
			created_by INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}

	// 报价单表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS quotations (
			id VARCHAR(64) PRIMARY KEY,
			project_id VARCHAR(64) NOT NULL,
			quotation_no VARCHAR(32) NOT NULL UNIQUE,
			item_name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price INTEGER NOT NULL,
			total_amount INTEGER NOT NULL,
			status VARCHAR(32) NOT NULL,
			approval_request_id VARCHAR(64),
			created_by INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create quotations table: %w", err)
	}

	// 出货单表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS deliveries (
			id VARCHAR(64) PRIMARY KEY,
			quotation_id VARCHAR(64) NOT NULL,
			delivery_no VARCHAR(32) NOT NULL UNIQUE,
			quantity INTEGER NOT NULL,
			delivered_at DATETIME NOT NULL,
			receiver_name VARCHAR(255),
			memo TEXT,
			created_by INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create deliveries table: %w", err)
	}

	// 发票表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS invoices (
			id VARCHAR(64) PRIMARY KEY,
			project_id VARCHAR(64) NOT NULL,
			invoice_no VARCHAR(32) NOT NULL UNIQUE,
			amount INTEGER NOT NULL,
			issued_at DATETIME NOT NULL,
			due_date DATETIME,
			paid_at DATETIME,
			status VARCHAR(32) NOT NULL,
			approval_request_id VARCHAR(64),
			created_by INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create invoices table: %w", err)
	}

	// 采购申请表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS purchase_requests (
			id VARCHAR(64) PRIMARY KEY,
			project_id VARCHAR(64) NOT NULL,
			request_no VARCHAR(32) NOT NULL UNIQUE,
			kind VARCHAR(32) NOT NULL,
			item_name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL,
			estimated_amount INTEGER NOT NULL,
			vendor_name VARCHAR(255),
			status VARCHAR(32) NOT NULL,
			approval_request_id VARCHAR(64),
			created_by INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create purchase_requests table: %w", err)
	}

	return nil
}

// CreateIndexes 创建数据库索引
func CreateIndexes(db *gorm.DB) error {
	// 检测数据库类型
	dialector := db.Dialector.Name()

	indexes := []struct {
		name string
		sql  string
	}{
		// chain_templates 表索引
		{"idx_templates_entity_type", "CREATE INDEX IF NOT EXISTS idx_templates_entity_type ON chain_templates(entity_type)"},
		{"idx_templates_active", "CREATE INDEX IF NOT EXISTS idx_templates_active ON chain_templates(entity_type, active)"},

		// approval_requests 表索引
		{"idx_requests_entity", "CREATE INDEX IF NOT EXISTS idx_requests_entity ON approval_requests(entity_type, entity_id)"},
		{"idx_requests_status", "CREATE INDEX IF NOT EXISTS idx_requests_status ON approval_requests(status)"},
		{"idx_requests_inbox", "CREATE INDEX IF NOT EXISTS idx_requests_inbox ON approval_requests(status, current_approver)"},
		{"idx_requests_submitted_by", "CREATE INDEX IF NOT EXISTS idx_requests_submitted_by ON approval_requests(submitted_by)"},
		{"idx_requests_submitted_at", "CREATE INDEX IF NOT EXISTS idx_requests_submitted_at ON approval_requests(submitted_at)"},

		// approval_events 表索引
		{"idx_events_request_id", "CREATE INDEX IF NOT EXISTS idx_events_request_id ON approval_events(request_id)"},
		{"idx_events_status", "CREATE INDEX IF NOT EXISTS idx_events_status ON approval_events(status)"},

		// audit_logs 表索引
		{"idx_audit_resource", "CREATE INDEX IF NOT EXISTS idx_audit_resource ON audit_logs(resource_type, resource_id)"},
		{"idx_audit_user_id", "CREATE INDEX IF NOT EXISTS idx_audit_user_id ON audit_logs(user_id)"},
		{"idx_audit_created_at", "CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_logs(created_at)"},

		// 业务单据表索引
		{"idx_projects_status", "CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)"},
		{"idx_quotations_project", "CREATE INDEX IF NOT EXISTS idx_quotations_project ON quotations(project_id)"},
		{"idx_deliveries_quotation", "CREATE INDEX IF NOT EXISTS idx_deliveries_quotation ON deliveries(quotation_id)"},
		{"idx_invoices_project", "CREATE INDEX IF NOT EXISTS idx_invoices_project ON invoices(project_id)"},
		{"idx_purchase_requests_project", "CREATE INDEX IF NOT EXISTS idx_purchase_requests_project ON purchase_requests(project_id)"},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", idx.name, err)
		}
	}

	// PostgreSQL 特定的 GIN 索引
	if dialector == "postgres" {
		if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_templates_data_gin ON chain_templates USING GIN (data)").Error; err != nil {
			return fmt.Errorf("failed to create idx_templates_data_gin: %w", err)
		}
		if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_requests_data_gin ON approval_requests USING GIN (data)").Error; err != nil {
			return fmt.Errorf("failed to create idx_requests_data_gin: %w", err)
		}
	}

	return nil
}

// ConnectWithRetry 带重试的数据库连接
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		// 如果不是最后一次重试,等待后重试
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2 // 指数退避
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return false
	}

	return true
}
