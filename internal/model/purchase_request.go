package model

import (
	"errors"
	"time"
)

// PurchaseRequestModel 采购申请数据模型
// 覆盖采购申请和询价(RFQ)两类单据,用 Kind 区分
type PurchaseRequestModel struct {
	ID                string    `gorm:"primaryKey;type:varchar(64)"`
	ProjectID         string    `gorm:"type:varchar(64);not null;index"`
	RequestNo         string    `gorm:"type:varchar(32);not null;uniqueIndex"` // 申请单号,如 PR-2026-0001
	Kind              string    `gorm:"type:varchar(32);not null;index"`       // purchase_request/rfq
	ItemName          string    `gorm:"type:varchar(255);not null"`
	Quantity          int       `gorm:"type:int;not null"`
	EstimatedAmount   int64     `gorm:"not null"` // 预估金额(韩元)
	VendorName        string    `gorm:"type:varchar(255)"`
	Status            string    `gorm:"type:varchar(32);not null;index"`
	ApprovalRequestID string    `gorm:"type:varchar(64);index"`
	CreatedBy         int64     `gorm:"index"`
	CreatedAt         time.Time `gorm:"not null;index"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName 指定表名
func (PurchaseRequestModel) TableName() string {
	return "purchase_requests"
}

// Validate 验证采购申请模型
func (pm *PurchaseRequestModel) Validate() error {
	if pm.ID == "" {
		return errors.New("purchase request ID is required")
	}
	if pm.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if pm.RequestNo == "" {
		return errors.New("request number is required")
	}
	if pm.Kind == "" {
		return errors.New("request kind is required")
	}
	if pm.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if pm.Status == "" {
		return errors.New("request status is required")
	}
	return nil
}
