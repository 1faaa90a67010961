package model

import (
	"errors"
	"time"
)

// ApprovalRequestModel 审批请求数据模型
// 聚合整体序列化后存入 Data 列,三个子集合(级别决定/历史/讨论)随聚合
// 一起读写;常用查询字段冗余为独立列
type ApprovalRequestModel struct {
	ID                string     `gorm:"primaryKey;type:varchar(64)"`
	Version           int        `gorm:"type:int;not null;default:1"` // 乐观锁版本
	EntityType        string     `gorm:"type:varchar(32);not null;index"`
	EntityID          string     `gorm:"type:varchar(64);not null;index"`
	EntityDescription string     `gorm:"type:varchar(255)"`
	CurrentLevel      int        `gorm:"type:int;not null"`
	TotalLevels       int        `gorm:"type:int;not null"`
	Status            string     `gorm:"type:varchar(32);not null;index"`
	SubmittedBy       int64      `gorm:"not null;index"`
	SubmittedAt       time.Time  `gorm:"not null;index"`
	CompletedAt       *time.Time `gorm:"index"`
	CurrentApprover   int64      `gorm:"index"` // 当前级别审批人,用于待办查询
	Data              []byte     `gorm:"type:jsonb;not null"` // 序列化后的 Request 聚合
	CreatedAt         time.Time  `gorm:"not null;index"`
	UpdatedAt         time.Time  `gorm:"not null"`
}

// TableName 指定表名
func (ApprovalRequestModel) TableName() string {
	return "approval_requests"
}

// Validate 验证审批请求模型
func (m *ApprovalRequestModel) Validate() error {
	if m.ID == "" {
		return errors.New("request ID is required")
	}
	if m.EntityType == "" {
		return errors.New("entity type is required")
	}
	if m.EntityID == "" {
		return errors.New("entity ID is required")
	}
	if m.Status == "" {
		return errors.New("request status is required")
	}
	if m.Version < 1 {
		return errors.New("request version must be at least 1")
	}
	if len(m.Data) == 0 {
		return errors.New("request data is required")
	}
	return nil
}
