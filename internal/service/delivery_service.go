package service

import (
	"context"
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/lock"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/google/uuid"
)

// DeliveryService 出货单服务接口
// 出货挂在已审批通过的报价单下;同一报价单的累计出货数量不得超过
// 报价数量,该校验在报价单粒度的实体锁内完成,并发创建时不会超发
type DeliveryService interface {
	Create(ctx context.Context, req *CreateDeliveryRequest) (*model.DeliveryModel, error)
	Get(id string) (*model.DeliveryModel, error)
	ListByQuotation(quotationID string) ([]*model.DeliveryModel, error)
	RemainingQuantity(quotationID string) (int, error)
}

// CreateDeliveryRequest 创建出货单请求
// @Description 创建出货单的请求参数
type CreateDeliveryRequest struct {
	QuotationID  string     `json:"quotation_id" example:"quo-001" binding:"required"` // 报价单 ID
	Quantity     int        `json:"quantity" example:"100" binding:"required,gt=0"`    // 出货数量
	DeliveredAt  *time.Time `json:"delivered_at"`                                      // 出货时间,缺省为当前时间
	ReceiverName string     `json:"receiver_name" example:"김담당"`                     // 收货人
	Memo         string     `json:"memo" example:""`                                   // 备注
}

// deliveryService 出货单服务实现
type deliveryService struct {
	deliveryRepo  repository.DeliveryRepository
	quotationRepo repository.QuotationRepository
	locker        *lock.EntityLocker
	auditLogSvc   AuditLogService
}

// NewDeliveryService 创建出货单服务
func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	quotationRepo repository.QuotationRepository,
	locker *lock.EntityLocker,
	auditLogSvc AuditLogService,
) DeliveryService {
	return &deliveryService{
		deliveryRepo:  deliveryRepo,
		quotationRepo: quotationRepo,
		locker:        locker,
		auditLogSvc:   auditLogSvc,
	}
}

// generateDeliveryNo 生成出货单号
func generateDeliveryNo() string {
	return fmt.Sprintf("DL-%d-%s", time.Now().Year(), uuid.New().String()[:8])
}

// Create 创建出货单
// 读取累计数量-校验-写入 整段持有报价单锁,保证并发创建时
// 累计出货数量不变量成立
func (s *deliveryService) Create(ctx context.Context, req *CreateDeliveryRequest) (*model.DeliveryModel, error) {
	quotation, err := s.quotationRepo.FindByID(req.QuotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation not found: %w", err)
	}
	if quotation.Status != model.DocStatusApproved {
		return nil, ErrDocumentNotApproved
	}

	unlock := s.locker.Lock("QUOTATION", req.QuotationID)
	defer unlock()

	delivered, err := s.deliveryRepo.SumQuantityByQuotation(req.QuotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum delivered quantity: %w", err)
	}
	if delivered+req.Quantity > quotation.Quantity {
		return nil, ErrQuantityExceeded
	}

	userID := getUserIDFromContext(ctx)
	now := time.Now()
	deliveredAt := now
	if req.DeliveredAt != nil {
		deliveredAt = *req.DeliveredAt
	}

	delivery := &model.DeliveryModel{
		ID:           uuid.New().String(),
		QuotationID:  req.QuotationID,
		DeliveryNo:   generateDeliveryNo(),
		Quantity:     req.Quantity,
		DeliveredAt:  deliveredAt,
		ReceiverName: req.ReceiverName,
		Memo:         req.Memo,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.deliveryRepo.Save(delivery); err != nil {
		return nil, fmt.Errorf("failed to save delivery: %w", err)
	}

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "create", "delivery", delivery.ID, map[string]interface{}{
			"delivery_no":  delivery.DeliveryNo,
			"quotation_id": req.QuotationID,
			"quantity":     req.Quantity,
		})
	}

	return delivery, nil
}

// Get 获取出货单详情
func (s *deliveryService) Get(id string) (*model.DeliveryModel, error) {
	return s.deliveryRepo.FindByID(id)
}

// ListByQuotation 列出报价单下的出货单
func (s *deliveryService) ListByQuotation(quotationID string) ([]*model.DeliveryModel, error) {
	return s.deliveryRepo.FindByQuotationID(quotationID)
}

// RemainingQuantity 查询报价单的剩余可出货数量
func (s *deliveryService) RemainingQuantity(quotationID string) (int, error) {
	quotation, err := s.quotationRepo.FindByID(quotationID)
	if err != nil {
		return 0, fmt.Errorf("quotation not found: %w", err)
	}
	delivered, err := s.deliveryRepo.SumQuantityByQuotation(quotationID)
	if err != nil {
		return 0, err
	}
	return quotation.Quantity - delivered, nil
}
