package service_test

import (
	"testing"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupPurchaseService 装配采购申请服务及其依赖
func setupPurchaseService(t *testing.T, db *gorm.DB) (service.PurchaseService, service.ApprovalService, service.TemplateService) {
	approvalSvc, templateSvc := setupApprovalService(t, db)
	purchaseSvc := service.NewPurchaseService(repository.NewPurchaseRequestRepository(db), repository.NewProjectRepository(db), approvalSvc, nil)
	return purchaseSvc, approvalSvc, templateSvc
}

// activatePurchaseTemplates 为采购申请和询价分别启用单级审批模板
func activatePurchaseTemplates(t *testing.T, templateSvc service.TemplateService) {
	ctx := ctxWithUser(1)
	for _, entityType := range []string{"PURCHASE_REQUEST", "RFQ"} {
		tpl, err := templateSvc.Create(ctx, &service.CreateTemplateRequest{
			EntityType: entityType,
			Name:       entityType + " 审批链",
			Levels: []approval.ChainLevel{
				{LevelOrder: 1, LevelName: "采购审批", ApproverUserID: 500, Required: true},
			},
		})
		require.NoError(t, err)
		require.NoError(t, templateSvc.Activate(ctx, tpl.ID))
	}
}

// TestPurchaseService_Create 测试两类采购单据的创建和单号前缀
func TestPurchaseService_Create(t *testing.T) {
	db := setupServiceTestDB(t)
	purchaseSvc, _, _ := setupPurchaseService(t, db)
	project := createProject(t, db)

	pr, err := purchaseSvc.Create(ctxWithUser(100), &service.CreatePurchaseRequest{
		ProjectID:       project.ID,
		Kind:            service.PurchaseKindRequest,
		ItemName:        "SUS304 板材",
		Quantity:        20,
		EstimatedAmount: 800000,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusDraft, pr.Status)
	assert.Contains(t, pr.RequestNo, "PR-")

	rfq, err := purchaseSvc.Create(ctxWithUser(100), &service.CreatePurchaseRequest{
		ProjectID:       project.ID,
		Kind:            service.PurchaseKindRFQ,
		ItemName:        "热处理外协",
		Quantity:        1,
		EstimatedAmount: 300000,
	})
	require.NoError(t, err)
	assert.Contains(t, rfq.RequestNo, "RFQ-")

	// 未知类型被拒绝
	_, err = purchaseSvc.Create(ctxWithUser(100), &service.CreatePurchaseRequest{
		ProjectID:       project.ID,
		Kind:            "lease",
		ItemName:        "叉车",
		Quantity:        1,
		EstimatedAmount: 100000,
	})
	assert.Error(t, err)

	list, err := purchaseSvc.ListByProject(project.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// TestPurchaseService_SubmitByKind 测试按类型路由到对应审批链
func TestPurchaseService_SubmitByKind(t *testing.T) {
	db := setupServiceTestDB(t)
	purchaseSvc, approvalSvc, templateSvc := setupPurchaseService(t, db)
	activatePurchaseTemplates(t, templateSvc)
	project := createProject(t, db)

	pr, err := purchaseSvc.Create(ctxWithUser(100), &service.CreatePurchaseRequest{
		ProjectID:       project.ID,
		Kind:            service.PurchaseKindRFQ,
		ItemName:        "热处理外协",
		Quantity:        1,
		EstimatedAmount: 300000,
	})
	require.NoError(t, err)

	req, err := purchaseSvc.SubmitForApproval(ctxWithUser(100), pr.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.EntityTypeRFQ, req.EntityType)

	// 审批通过后回写状态
	_, err = approvalSvc.Approve(ctxWithUser(500), req.ID, &service.ApproveRequest{})
	require.NoError(t, err)

	approved, err := purchaseSvc.Get(pr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusApproved, approved.Status)
}
