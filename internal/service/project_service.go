package service

import (
	"context"
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/google/uuid"
)

// ProjectService 项目服务接口
type ProjectService interface {
	Create(ctx context.Context, req *CreateProjectRequest) (*model.ProjectModel, error)
	Get(id string) (*model.ProjectModel, error)
	List(filter *repository.ProjectFilter) ([]*model.ProjectModel, int64, error)
	Update(ctx context.Context, id string, req *UpdateProjectRequest) (*model.ProjectModel, error)
}

// CreateProjectRequest 创建项目请求
// @Description 创建项目的请求参数
type CreateProjectRequest struct {
	Name         string     `json:"name" example:"车床零件加工" binding:"required"`   // 项目名称
	CustomerName string     `json:"customer_name" example:"현대정밀" binding:"required"` // 客户名称
	Description  string     `json:"description" example:""`                           // 项目说明
	DueDate      *time.Time `json:"due_date"`                                         // 交期
}

// UpdateProjectRequest 更新项目请求
// @Description 更新项目的请求参数
type UpdateProjectRequest struct {
	Name         string     `json:"name"`          // 项目名称
	CustomerName string     `json:"customer_name"` // 客户名称
	Description  string     `json:"description"`   // 项目说明
	Status       string     `json:"status"`        // active/completed/cancelled
	DueDate      *time.Time `json:"due_date"`      // 交期
}

// projectService 项目服务实现
type projectService struct {
	projectRepo repository.ProjectRepository
	auditLogSvc AuditLogService
}

// NewProjectService 创建项目服务
func NewProjectService(projectRepo repository.ProjectRepository, auditLogSvc AuditLogService) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		auditLogSvc: auditLogSvc,
	}
}

// generateJobCode 生成项目编号
func generateJobCode() string {
	return fmt.Sprintf("JOB-%d-%s", time.Now().Year(), uuid.New().String()[:8])
}

// Create 创建项目
func (s *projectService) Create(ctx context.Context, req *CreateProjectRequest) (*model.ProjectModel, error) {
	userID := getUserIDFromContext(ctx)
	now := time.Now()

	project := &model.ProjectModel{
		ID:           uuid.New().String(),
		JobCode:      generateJobCode(),
		Name:         req.Name,
		CustomerName: req.CustomerName,
		Description:  req.Description,
		Status:       "active",
		DueDate:      req.DueDate,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.projectRepo.Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "create", "project", project.ID, map[string]interface{}{
			"job_code": project.JobCode,
			"name":     project.Name,
		})
	}

	return project, nil
}

// Get 获取项目详情
func (s *projectService) Get(id string) (*model.ProjectModel, error) {
	return s.projectRepo.FindByID(id)
}

// List 分页列出项目
func (s *projectService) List(filter *repository.ProjectFilter) ([]*model.ProjectModel, int64, error) {
	return s.projectRepo.FindByFilter(filter)
}

// Update 更新项目
func (s *projectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*model.ProjectModel, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.CustomerName != "" {
		project.CustomerName = req.CustomerName
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	userID := getUserIDFromContext(ctx)
	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "update", "project", id, req)
	}

	return project, nil
}
