package model

import (
	"errors"
	"time"
)

// 单据状态
// 提交审批后单据冻结,审批结果回写 Status
const (
	DocStatusDraft           = "draft"
	DocStatusPendingApproval = "pending_approval"
	DocStatusApproved        = "approved"
	DocStatusRejected        = "rejected"
	DocStatusPaid            = "paid" // 仅发票使用
)

// QuotationModel 报价单数据模型
type QuotationModel struct {
	ID                string    `gorm:"primaryKey;type:varchar(64)"`
	ProjectID         string    `gorm:"type:varchar(64);not null;index"`
	QuotationNo       string    `gorm:"type:varchar(32);not null;uniqueIndex"` // 报价单号,如 QT-2026-0001
	ItemName          string    `gorm:"type:varchar(255);not null"`
	Quantity          int       `gorm:"type:int;not null"` // 报价数量,出货累计不可超过
	UnitPrice         int64     `gorm:"not null"`          // 单价(韩元)
	TotalAmount       int64     `gorm:"not null"`          // 总金额(韩元)
	Status            string    `gorm:"type:varchar(32);not null;index"`
	ApprovalRequestID string    `gorm:"type:varchar(64);index"` // 关联的审批请求
	CreatedBy         int64     `gorm:"index"`
	CreatedAt         time.Time `gorm:"not null;index"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName 指定表名
func (QuotationModel) TableName() string {
	return "quotations"
}

// Validate 验证报价单模型
func (qm *QuotationModel) Validate() error {
	if qm.ID == "" {
		return errors.New("quotation ID is required")
	}
	if qm.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if qm.QuotationNo == "" {
		return errors.New("quotation number is required")
	}
	if qm.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if qm.Status == "" {
		return errors.New("quotation status is required")
	}
	return nil
}
