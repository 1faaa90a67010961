package model

import (
	"errors"
	"time"
)

// DeliveryModel 出货单数据模型
// 同一报价单下所有出货的数量累计不得超过报价数量,该不变量由
// 出货服务在实体锁内校验
type DeliveryModel struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)"`
	QuotationID string    `gorm:"type:varchar(64);not null;index"`
	DeliveryNo  string    `gorm:"type:varchar(32);not null;uniqueIndex"` // 出货单号,如 DL-2026-0001
	Quantity    int       `gorm:"type:int;not null"`
	DeliveredAt time.Time `gorm:"not null;index"`
	ReceiverName string   `gorm:"type:varchar(255)"`
	Memo        string    `gorm:"type:text"`
	CreatedBy   int64     `gorm:"index"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName 指定表名
func (DeliveryModel) TableName() string {
	return "deliveries"
}

// Validate 验证出货单模型
func (dm *DeliveryModel) Validate() error {
	if dm.ID == "" {
		return errors.New("delivery ID is required")
	}
	if dm.QuotationID == "" {
		return errors.New("quotation ID is required")
	}
	if dm.DeliveryNo == "" {
		return errors.New("delivery number is required")
	}
	if dm.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return nil
}
