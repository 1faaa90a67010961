package repository

import (
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/gorm"
)

// InvoiceRepository 发票仓储接口
type InvoiceRepository interface {
	Save(invoice *model.InvoiceModel) error
	FindByID(id string) (*model.InvoiceModel, error)
	FindByProjectID(projectID string) ([]*model.InvoiceModel, error)
	UpdateApprovalState(id string, status string, approvalRequestID string) error
}

// invoiceRepository 发票仓储实现
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建发票仓储
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Save 保存发票
func (r *invoiceRepository) Save(invoice *model.InvoiceModel) error {
	if err := invoice.Validate(); err != nil {
		return err
	}
	return r.db.Save(invoice).Error
}

// FindByID 根据 ID 查找发票
func (r *invoiceRepository) FindByID(id string) (*model.InvoiceModel, error) {
	var invoice model.InvoiceModel
	if err := r.db.Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByProjectID 查找项目下的所有发票
func (r *invoiceRepository) FindByProjectID(projectID string) ([]*model.InvoiceModel, error) {
	var invoices []*model.InvoiceModel
	err := r.db.Where("project_id = ?", projectID).Order("issued_at DESC").Find(&invoices).Error
	return invoices, err
}

// UpdateApprovalState 回写审批状态和关联的审批请求 ID
func (r *invoiceRepository) UpdateApprovalState(id string, status string, approvalRequestID string) error {
	updates := map[string]interface{}{"status": status}
	if approvalRequestID != "" {
		updates["approval_request_id"] = approvalRequestID
	}
	return r.db.Model(&model.InvoiceModel{}).Where("id = ?", id).Updates(updates).Error
}
