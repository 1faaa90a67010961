package model

import (
	"errors"
	"time"
)

// InvoiceModel 发票数据模型
type InvoiceModel struct {
	ID                string     `gorm:"primaryKey;type:varchar(64)"`
	ProjectID         string     `gorm:"type:varchar(64);not null;index"`
	InvoiceNo         string     `gorm:"type:varchar(32);not null;uniqueIndex"` // 发票号,如 IV-2026-0001
	Amount            int64      `gorm:"not null"`                              // 金额(韩元)
	IssuedAt          time.Time  `gorm:"not null;index"`
	DueDate           *time.Time `gorm:"index"`
	PaidAt            *time.Time `gorm:""`
	Status            string     `gorm:"type:varchar(32);not null;index"` // draft/pending_approval/approved/rejected/paid
	ApprovalRequestID string     `gorm:"type:varchar(64);index"`
	CreatedBy         int64      `gorm:"index"`
	CreatedAt         time.Time  `gorm:"not null;index"`
	UpdatedAt         time.Time  `gorm:"not null"`
}

// TableName 指定表名
func (InvoiceModel) TableName() string {
	return "invoices"
}

// Validate 验证发票模型
func (im *InvoiceModel) Validate() error {
	if im.ID == "" {
		return errors.New("invoice ID is required")
	}
	if im.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if im.InvoiceNo == "" {
		return errors.New("invoice number is required")
	}
	if im.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if im.Status == "" {
		return errors.New("invoice status is required")
	}
	return nil
}
