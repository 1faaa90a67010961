package model

import (
	"errors"
	"time"
)

// ProjectModel 项目数据模型
// 制造/外包业务的根单据,报价、出货、发票、采购都挂在项目下
type ProjectModel struct {
	ID           string     `gorm:"primaryKey;type:varchar(64)"`
	JobCode      string     `gorm:"type:varchar(32);not null;uniqueIndex"` // 项目编号,如 JOB-2026-0001
	Name         string     `gorm:"type:varchar(255);not null"`
	CustomerName string     `gorm:"type:varchar(255);not null;index"`
	Description  string     `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(32);not null;index"` // active/completed/cancelled
	DueDate      *time.Time `gorm:""`
	CreatedBy    int64      `gorm:"index"`
	CreatedAt    time.Time  `gorm:"not null;index"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

// TableName 指定表名
func (ProjectModel) TableName() string {
	return "projects"
}

// Validate 验证项目模型
func (pm *ProjectModel) Validate() error {
	if pm.ID == "" {
		return errors.New("project ID is required")
	}
	if pm.JobCode == "" {
		return errors.New("job code is required")
	}
	if pm.Name == "" {
		return errors.New("project name is required")
	}
	if pm.Status == "" {
		return errors.New("project status is required")
	}
	return nil
}
