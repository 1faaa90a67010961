package repository

import (
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/gorm"
)

// ChainTemplateRepository 审批链模板仓储接口
type ChainTemplateRepository interface {
	Save(tpl *model.ChainTemplateModel) error
	FindByID(id string) (*model.ChainTemplateModel, error)
	FindActiveByEntityType(entityType string) (*model.ChainTemplateModel, error)
	FindAll() ([]*model.ChainTemplateModel, error)
	Activate(id string) error
	Delete(id string) error
}

// chainTemplateRepository 审批链模板仓储实现
type chainTemplateRepository struct {
	db *gorm.DB
}

// NewChainTemplateRepository 创建审批链模板仓储
func NewChainTemplateRepository(db *gorm.DB) ChainTemplateRepository {
	return &chainTemplateRepository{db: db}
}

// Save 保存模板
func (r *chainTemplateRepository) Save(tpl *model.ChainTemplateModel) error {
	if err := tpl.Validate(); err != nil {
		return err
	}
	return r.db.Save(tpl).Error
}

// FindByID 根据 ID 查找模板
func (r *chainTemplateRepository) FindByID(id string) (*model.ChainTemplateModel, error) {
	var tpl model.ChainTemplateModel
	if err := r.db.Where("id = ?", id).First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

// FindActiveByEntityType 查找某单据类型当前启用的模板
func (r *chainTemplateRepository) FindActiveByEntityType(entityType string) (*model.ChainTemplateModel, error) {
	var tpl model.ChainTemplateModel
	err := r.db.Where("entity_type = ? AND active = ?", entityType, true).First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// FindAll 查找所有模板
func (r *chainTemplateRepository) FindAll() ([]*model.ChainTemplateModel, error) {
	var tpls []*model.ChainTemplateModel
	err := r.db.Order("created_at DESC").Find(&tpls).Error
	return tpls, err
}

// Activate 启用模板并停用同单据类型的其他模板
// 在事务中完成,保证每种单据类型恰有一个启用中的模板
func (r *chainTemplateRepository) Activate(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var tpl model.ChainTemplateModel
		if err := tx.Where("id = ?", id).First(&tpl).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.ChainTemplateModel{}).
			Where("entity_type = ? AND id <> ?", tpl.EntityType, id).
			Update("active", false).Error; err != nil {
			return err
		}

		return tx.Model(&model.ChainTemplateModel{}).
			Where("id = ?", id).
			Update("active", true).Error
	})
}

// Delete 删除模板
func (r *chainTemplateRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.ChainTemplateModel{}).Error
}
