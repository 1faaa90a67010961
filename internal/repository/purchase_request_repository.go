package repository

import (
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/gorm"
)

// PurchaseRequestRepository 采购申请仓储接口
type PurchaseRequestRepository interface {
	Save(pr *model.PurchaseRequestModel) error
	FindByID(id string) (*model.PurchaseRequestModel, error)
	FindByProjectID(projectID string) ([]*model.PurchaseRequestModel, error)
	UpdateApprovalState(id string, status string, approvalRequestID string) error
}

// purchaseRequestRepository 采购申请仓储实现
type purchaseRequestRepository struct {
	db *gorm.DB
}

// NewPurchaseRequestRepository 创建采购申请仓储
func NewPurchaseRequestRepository(db *gorm.DB) PurchaseRequestRepository {
	return &purchaseRequestRepository{db: db}
}

// Save 保存采购申请
func (r *purchaseRequestRepository) Save(pr *model.PurchaseRequestModel) error {
	if err := pr.Validate(); err != nil {
		return err
	}
	return r.db.Save(pr).Error
}

// FindByID 根据 ID 查找采购申请
func (r *purchaseRequestRepository) FindByID(id string) (*model.PurchaseRequestModel, error) {
	var pr model.PurchaseRequestModel
	if err := r.db.Where("id = ?", id).First(&pr).Error; err != nil {
		return nil, err
	}
	return &pr, nil
}

// FindByProjectID 查找项目下的所有采购申请
func (r *purchaseRequestRepository) FindByProjectID(projectID string) ([]*model.PurchaseRequestModel, error) {
	var prs []*model.PurchaseRequestModel
	err := r.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&prs).Error
	return prs, err
}

// UpdateApprovalState 回写审批状态和关联的审批请求 ID
func (r *purchaseRequestRepository) UpdateApprovalState(id string, status string, approvalRequestID string) error {
	updates := map[string]interface{}{"status": status}
	if approvalRequestID != "" {
		updates["approval_request_id"] = approvalRequestID
	}
	return r.db.Model(&model.PurchaseRequestModel{}).Where("id = ?", id).Updates(updates).Error
}
