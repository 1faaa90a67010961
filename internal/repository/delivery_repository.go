package repository

import (
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/gorm"
)

// DeliveryRepository 出货单仓储接口
type DeliveryRepository interface {
	Save(delivery *model.DeliveryModel) error
	FindByID(id string) (*model.DeliveryModel, error)
	FindByQuotationID(quotationID string) ([]*model.DeliveryModel, error)
	SumQuantityByQuotation(quotationID string) (int, error)
}

// deliveryRepository 出货单仓储实现
type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository 创建出货单仓储
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

// Save 保存出货单
func (r *deliveryRepository) Save(delivery *model.DeliveryModel) error {
	if err := delivery.Validate(); err != nil {
		return err
	}
	return r.db.Save(delivery).Error
}

// FindByID 根据 ID 查找出货单
func (r *deliveryRepository) FindByID(id string) (*model.DeliveryModel, error) {
	var delivery model.DeliveryModel
	if err := r.db.Where("id = ?", id).First(&delivery).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

// FindByQuotationID 查找报价单下的所有出货单
func (r *deliveryRepository) FindByQuotationID(quotationID string) ([]*model.DeliveryModel, error) {
	var deliveries []*model.DeliveryModel
	err := r.db.Where("quotation_id = ?", quotationID).Order("delivered_at ASC").Find(&deliveries).Error
	return deliveries, err
}

// SumQuantityByQuotation 统计报价单下已出货的累计数量
func (r *deliveryRepository) SumQuantityByQuotation(quotationID string) (int, error) {
	var sum int64
	err := r.db.Model(&model.DeliveryModel{}).
		Where("quotation_id = ?", quotationID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	return int(sum), err
}
