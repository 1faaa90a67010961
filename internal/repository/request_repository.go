package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"gorm.io/gorm"
)

// ErrOptimisticLock 乐观锁冲突: 保存时版本已被并发修改
// 调用方应重新加载后重试,或提示用户请求已被他人处理
var ErrOptimisticLock = errors.New("approval request was modified concurrently")

// ApprovalRequestRepository 审批请求仓储接口
// 聚合整体读写;Update 以版本号做比较交换,并发修改恰有一方成功
type ApprovalRequestRepository interface {
	Create(req *model.ApprovalRequestModel) error
	FindByID(id string) (*model.ApprovalRequestModel, error)
	FindByEntity(entityType string, entityID string) ([]*model.ApprovalRequestModel, error)
	FindByFilter(filter *RequestFilter) ([]*model.ApprovalRequestModel, int64, error)
	FindPendingByApprover(approverID int64) ([]*model.ApprovalRequestModel, error)
	Update(req *model.ApprovalRequestModel, expectedVersion int) error
}

// RequestFilter 审批请求查询过滤器
type RequestFilter struct {
	EntityType  *string
	EntityID    *string
	Status      *string
	SubmittedBy *int64
	StartTime   *time.Time
	EndTime     *time.Time
	SortBy      string // 排序字段,白名单校验后拼入 ORDER BY
	Order       string // asc/desc
	Page        int
	PageSize    int
}

// approvalRequestRepository 审批请求仓储实现
type approvalRequestRepository struct {
	db *gorm.DB
}

// NewApprovalRequestRepository 创建审批请求仓储
func NewApprovalRequestRepository(db *gorm.DB) ApprovalRequestRepository {
	return &approvalRequestRepository{db: db}
}

// Create 保存新建的审批请求
func (r *approvalRequestRepository) Create(req *model.ApprovalRequestModel) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return r.db.Create(req).Error
}

// FindByID 根据 ID 查找审批请求
func (r *approvalRequestRepository) FindByID(id string) (*model.ApprovalRequestModel, error) {
	var req model.ApprovalRequestModel
	if err := r.db.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByEntity 查找某个业务单据的全部审批请求
func (r *approvalRequestRepository) FindByEntity(entityType string, entityID string) ([]*model.ApprovalRequestModel, error) {
	var reqs []*model.ApprovalRequestModel
	err := r.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("submitted_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// FindByFilter 根据过滤器分页查找审批请求
func (r *approvalRequestRepository) FindByFilter(filter *RequestFilter) ([]*model.ApprovalRequestModel, int64, error) {
	query := r.db.Model(&model.ApprovalRequestModel{})

	if filter != nil {
		if filter.EntityType != nil {
			query = query.Where("entity_type = ?", *filter.EntityType)
		}
		if filter.EntityID != nil {
			query = query.Where("entity_id = ?", *filter.EntityID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.SubmittedBy != nil {
			query = query.Where("submitted_by = ?", *filter.SubmittedBy)
		}
		if filter.StartTime != nil {
			query = query.Where("submitted_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("submitted_at <= ?", *filter.EndTime)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil && filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderClause := "submitted_at DESC"
	if filter != nil && filter.SortBy != "" {
		if err := utils.ValidateSortField(filter.SortBy); err != nil {
			return nil, 0, fmt.Errorf("invalid sort field: %w", err)
		}
		direction := "DESC"
		if strings.EqualFold(filter.Order, "asc") {
			direction = "ASC"
		}
		orderClause = filter.SortBy + " " + direction
	}

	var reqs []*model.ApprovalRequestModel
	err := query.Order(orderClause).Find(&reqs).Error
	return reqs, total, err
}

// FindPendingByApprover 查找等待某审批人处理的请求(待办列表)
func (r *approvalRequestRepository) FindPendingByApprover(approverID int64) ([]*model.ApprovalRequestModel, error) {
	var reqs []*model.ApprovalRequestModel
	err := r.db.Where("status = ? AND current_approver = ?", "PENDING", approverID).
		Order("submitted_at ASC").
		Find(&reqs).Error
	return reqs, err
}

// Update 以乐观锁保存审批请求
// 仅当数据库中的版本等于 expectedVersion 时更新成功;
// RowsAffected 为 0 说明版本已被并发修改,返回 ErrOptimisticLock
func (r *approvalRequestRepository) Update(req *model.ApprovalRequestModel, expectedVersion int) error {
	if err := req.Validate(); err != nil {
		return err
	}

	res := r.db.Model(&model.ApprovalRequestModel{}).
		Where("id = ? AND version = ?", req.ID, expectedVersion).
		Updates(map[string]interface{}{
			"version":          req.Version,
			"current_level":    req.CurrentLevel,
			"status":           req.Status,
			"completed_at":     req.CompletedAt,
			"current_approver": req.CurrentApprover,
			"data":             req.Data,
			"updated_at":       req.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}
	return nil
}
