package repository

import (
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/gorm"
)

// QuotationRepository 报价单仓储接口
type QuotationRepository interface {
	Save(quotation *model.QuotationModel) error
	FindByID(id string) (*model.QuotationModel, error)
	FindByProjectID(projectID string) ([]*model.QuotationModel, error)
	UpdateApprovalState(id string, status string, approvalRequestID string) error
}

// quotationRepository 报价单仓储实现
type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository 创建报价单仓储
func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

// Save 保存报价单
func (r *quotationRepository) Save(quotation *model.QuotationModel) error {
	if err := quotation.Validate(); err != nil {
		return err
	}
	return r.db.Save(quotation).Error
}

// FindByID 根据 ID 查找报价单
func (r *quotationRepository) FindByID(id string) (*model.QuotationModel, error) {
	var quotation model.QuotationModel
	if err := r.db.Where("id = ?", id).First(&quotation).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

// FindByProjectID 查找项目下的所有报价单
func (r *quotationRepository) FindByProjectID(projectID string) ([]*model.QuotationModel, error) {
	var quotations []*model.QuotationModel
	err := r.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&quotations).Error
	return quotations, err
}

// UpdateApprovalState 回写审批状态和关联的审批请求 ID
func (r *quotationRepository) UpdateApprovalState(id string, status string, approvalRequestID string) error {
	updates := map[string]interface{}{"status": status}
	if approvalRequestID != "" {
		updates["approval_request_id"] = approvalRequestID
	}
	return r.db.Model(&model.QuotationModel{}).Where("id = ?", id).Updates(updates).Error
}
