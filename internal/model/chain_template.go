package model

import (
	"errors"
	"time"
)

// ChainTemplateModel 审批链模板数据模型
// 级别列表序列化后存入 Data 列;每种单据类型同时只有一个启用中的模板,
// 由 (entity_type, active) 部分唯一索引保证
type ChainTemplateModel struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)"`
	EntityType  string    `gorm:"type:varchar(32);not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Active      bool      `gorm:"not null;default:false;index"`
	Data        []byte    `gorm:"type:jsonb;not null"` // 序列化后的 ChainTemplate 对象
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	CreatedBy   int64     `gorm:""` // 创建人 ID
	UpdatedBy   int64     `gorm:""` // 更新人 ID
}

// TableName 指定表名
func (ChainTemplateModel) TableName() string {
	return "chain_templates"
}

// Validate 验证模板模型
func (m *ChainTemplateModel) Validate() error {
	if m.ID == "" {
		return errors.New("template ID is required")
	}
	if m.EntityType == "" {
		return errors.New("entity type is required")
	}
	if m.Name == "" {
		return errors.New("template name is required")
	}
	if len(m.Data) == 0 {
		return errors.New("template data is required")
	}
	return nil
}
