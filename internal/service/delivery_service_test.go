package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/lock"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupDeliveryService 装配出货单服务
func setupDeliveryService(t *testing.T, db *gorm.DB) service.DeliveryService {
	return service.NewDeliveryService(
		repository.NewDeliveryRepository(db),
		repository.NewQuotationRepository(db),
		lock.NewEntityLocker(),
		nil,
	)
}

// seedApprovedQuotation 直接入库一张已审批通过的报价单
func seedApprovedQuotation(t *testing.T, db *gorm.DB, quantity int) *model.QuotationModel {
	now := time.Now()
	quotation := &model.QuotationModel{
		ID:          uuid.New().String(),
		ProjectID:   "prj-001",
		QuotationNo: "QT-2026-" + uuid.New().String()[:8],
		ItemName:    "铝合金外壳",
		Quantity:    quantity,
		UnitPrice:   12000,
		TotalAmount: 12000 * int64(quantity),
		Status:      model.DocStatusApproved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(quotation).Error)
	return quotation
}

// TestDeliveryService_Create 测试创建出货单
func TestDeliveryService_Create(t *testing.T) {
	db := setupServiceTestDB(t)
	deliverySvc := setupDeliveryService(t, db)
	quotation := seedApprovedQuotation(t, db, 500)

	delivery, err := deliverySvc.Create(ctxWithUser(100), &service.CreateDeliveryRequest{
		QuotationID: quotation.ID,
		Quantity:    200,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, delivery.DeliveryNo)
	assert.Equal(t, 200, delivery.Quantity)

	remaining, err := deliverySvc.RemainingQuantity(quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, remaining)
}

// TestDeliveryService_Create_NotApproved 测试未通过审批的报价单不能出货
func TestDeliveryService_Create_NotApproved(t *testing.T) {
	db := setupServiceTestDB(t)
	deliverySvc := setupDeliveryService(t, db)

	quotation := seedApprovedQuotation(t, db, 500)
	require.NoError(t, db.Model(&model.QuotationModel{}).
		Where("id = ?", quotation.ID).
		Update("status", model.DocStatusDraft).Error)

	_, err := deliverySvc.Create(ctxWithUser(100), &service.CreateDeliveryRequest{
		QuotationID: quotation.ID,
		Quantity:    100,
	})
	assert.ErrorIs(t, err, service.ErrDocumentNotApproved)
}

// TestDeliveryService_Create_QuantityExceeded 测试累计出货超量被拒绝
func TestDeliveryService_Create_QuantityExceeded(t *testing.T) {
	db := setupServiceTestDB(t)
	deliverySvc := setupDeliveryService(t, db)
	quotation := seedApprovedQuotation(t, db, 500)

	_, err := deliverySvc.Create(ctxWithUser(100), &service.CreateDeliveryRequest{
		QuotationID: quotation.ID,
		Quantity:    400,
	})
	require.NoError(t, err)

	// 剩余 100,再出 200 超量
	_, err = deliverySvc.Create(ctxWithUser(100), &service.CreateDeliveryRequest{
		QuotationID: quotation.ID,
		Quantity:    200,
	})
	assert.ErrorIs(t, err, service.ErrQuantityExceeded)

	// 恰好出完允许
	_, err = deliverySvc.Create(ctxWithUser(100), &service.CreateDeliveryRequest{
		QuotationID: quotation.ID,
		Quantity:    100,
	})
	assert.NoError(t, err)

	remaining, err := deliverySvc.RemainingQuantity(quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

// TestDeliveryService_Create_Concurrent 测试并发创建不超发
// 总量 100,十个并发各出 30,最多三单成功
func TestDeliveryService_Create_Concurrent(t *testing.T) {
	db := setupServiceTestDB(t)
	deliverySvc := setupDeliveryService(t, db)
	quotation := seedApprovedQuotation(t, db, 100)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := deliverySvc.Create(ctxWithUser(100), &service.CreateDeliveryRequest{
				QuotationID: quotation.ID,
				Quantity:    30,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, succeeded, 3)

	remaining, err := deliverySvc.RemainingQuantity(quotation.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, remaining, 0)
	assert.Equal(t, 100-succeeded*30, remaining)
}

// TestDeliveryService_ListByQuotation 测试列出报价单下的出货单
func TestDeliveryService_ListByQuotation(t *testing.T) {
	db := setupServiceTestDB(t)
	deliverySvc := setupDeliveryService(t, db)
	quotation := seedApprovedQuotation(t, db, 500)

	for i := 0; i < 3; i++ {
		_, err := deliverySvc.Create(ctxWithUser(100), &service.CreateDeliveryRequest{
			QuotationID: quotation.ID,
			Quantity:    50,
		})
		require.NoError(t, err)
	}

	deliveries, err := deliverySvc.ListByQuotation(quotation.ID)
	assert.NoError(t, err)
	assert.Len(t, deliveries, 3)
}
