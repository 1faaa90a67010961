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

// setupQuotationService 装配报价单服务及其依赖
func setupQuotationService(t *testing.T, db *gorm.DB) (service.QuotationService, service.ApprovalService, service.TemplateService) {
	auditSvc := service.NewAuditLogService(repository.NewAuditLogRepository(db))
	templateSvc := service.NewTemplateService(repository.NewChainTemplateRepository(db), auditSvc)
	approvalSvc := service.NewApprovalService(repository.NewApprovalRequestRepository(db), templateSvc, auditSvc, nil)
	quotationSvc := service.NewQuotationService(repository.NewQuotationRepository(db), repository.NewProjectRepository(db), approvalSvc, auditSvc)
	return quotationSvc, approvalSvc, templateSvc
}

// createProject 创建测试项目
func createProject(t *testing.T, db *gorm.DB) *model.ProjectModel {
	projectSvc := service.NewProjectService(repository.NewProjectRepository(db), nil)
	project, err := projectSvc.Create(ctxWithUser(1), &service.CreateProjectRequest{
		Name:         "车床零件加工",
		CustomerName: "현대정밀",
	})
	require.NoError(t, err)
	return project
}

// TestQuotationService_Create 测试创建报价单草稿
func TestQuotationService_Create(t *testing.T) {
	db := setupServiceTestDB(t)
	quotationSvc, _, _ := setupQuotationService(t, db)
	project := createProject(t, db)

	quotation, err := quotationSvc.Create(ctxWithUser(100), &service.CreateQuotationRequest{
		ProjectID: project.ID,
		ItemName:  "铝合金外壳",
		Quantity:  500,
		UnitPrice: 12000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.DocStatusDraft, quotation.Status)
	assert.Equal(t, int64(6000000), quotation.TotalAmount)
	assert.NotEmpty(t, quotation.QuotationNo)
}

// TestQuotationService_Create_ProjectMissing 测试项目不存在时创建失败
func TestQuotationService_Create_ProjectMissing(t *testing.T) {
	db := setupServiceTestDB(t)
	quotationSvc, _, _ := setupQuotationService(t, db)

	_, err := quotationSvc.Create(ctxWithUser(100), &service.CreateQuotationRequest{
		ProjectID: "prj-missing",
		ItemName:  "铝合金外壳",
		Quantity:  500,
		UnitPrice: 12000,
	})
	assert.Error(t, err)
}

// TestQuotationService_SubmitAndApprove 测试提交审批并通过后状态回写
func TestQuotationService_SubmitAndApprove(t *testing.T) {
	db := setupServiceTestDB(t)
	quotationSvc, approvalSvc, templateSvc := setupQuotationService(t, db)
	activateQuotationTemplate(t, templateSvc)
	project := createProject(t, db)

	quotation, err := quotationSvc.Create(ctxWithUser(100), &service.CreateQuotationRequest{
		ProjectID: project.ID,
		ItemName:  "铝合金外壳",
		Quantity:  500,
		UnitPrice: 12000,
	})
	require.NoError(t, err)

	req, err := quotationSvc.SubmitForApproval(ctxWithUser(100), quotation.ID)
	require.NoError(t, err)

	// 提交后单据冻结
	submitted, err := quotationSvc.Get(quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusPendingApproval, submitted.Status)
	assert.Equal(t, req.ID, submitted.ApprovalRequestID)

	// 重复提交被拒绝
	_, err = quotationSvc.SubmitForApproval(ctxWithUser(100), quotation.ID)
	assert.ErrorIs(t, err, service.ErrAlreadySubmitted)

	// 两级审批通过后回写单据状态
	_, err = approvalSvc.Approve(ctxWithUser(200), req.ID, &service.ApproveRequest{})
	require.NoError(t, err)
	_, err = approvalSvc.Approve(ctxWithUser(300), req.ID, &service.ApproveRequest{})
	require.NoError(t, err)

	approved, err := quotationSvc.Get(quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusApproved, approved.Status)
}

// TestQuotationService_SubmitAfterRejection 测试被拒绝的报价单可以重新提交
func TestQuotationService_SubmitAfterRejection(t *testing.T) {
	db := setupServiceTestDB(t)
	quotationSvc, approvalSvc, templateSvc := setupQuotationService(t, db)
	activateQuotationTemplate(t, templateSvc)
	project := createProject(t, db)

	quotation, err := quotationSvc.Create(ctxWithUser(100), &service.CreateQuotationRequest{
		ProjectID: project.ID,
		ItemName:  "铝合金外壳",
		Quantity:  500,
		UnitPrice: 12000,
	})
	require.NoError(t, err)

	req, err := quotationSvc.SubmitForApproval(ctxWithUser(100), quotation.ID)
	require.NoError(t, err)

	_, err = approvalSvc.Reject(ctxWithUser(200), req.ID, &service.RejectRequest{Reason: "价格超出预算"})
	require.NoError(t, err)

	rejected, err := quotationSvc.Get(quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusRejected, rejected.Status)

	// 拒绝后可以再次发起审批
	req2, err := quotationSvc.SubmitForApproval(ctxWithUser(100), quotation.ID)
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, req2.ID)
	assert.Equal(t, approval.StatusPending, req2.Status)
}
