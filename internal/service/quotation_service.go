package service

import (
	"context"
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/google/uuid"
)

// QuotationService 报价单服务接口
// 报价单创建后为草稿,提交审批时基于启用中的模板发起审批请求,
// 审批终态经 CompletionHandler 回写单据状态
type QuotationService interface {
	Create(ctx context.Context, req *CreateQuotationRequest) (*model.QuotationModel, error)
	Get(id string) (*model.QuotationModel, error)
	ListByProject(projectID string) ([]*model.QuotationModel, error)
	SubmitForApproval(ctx context.Context, id string) (*approval.Request, error)
}

// CreateQuotationRequest 创建报价单请求
// @Description 创建报价单的请求参数
type CreateQuotationRequest struct {
	ProjectID string `json:"project_id" example:"prj-001" binding:"required"` // 项目 ID
	ItemName  string `json:"item_name" example:"铝合金外壳" binding:"required"` // 品目名称
	Quantity  int    `json:"quantity" example:"500" binding:"required,gt=0"`    // 报价数量
	UnitPrice int64  `json:"unit_price" example:"12000" binding:"required,gt=0"` // 单价(韩元)
}

// quotationService 报价单服务实现
type quotationService struct {
	quotationRepo repository.QuotationRepository
	projectRepo   repository.ProjectRepository
	approvalSvc   ApprovalService
	auditLogSvc   AuditLogService
}

// NewQuotationService 创建报价单服务并注册审批终态回调
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	projectRepo repository.ProjectRepository,
	approvalSvc ApprovalService,
	auditLogSvc AuditLogService,
) QuotationService {
	s := &quotationService{
		quotationRepo: quotationRepo,
		projectRepo:   projectRepo,
		approvalSvc:   approvalSvc,
		auditLogSvc:   auditLogSvc,
	}
	approvalSvc.RegisterCompletionHandler(approval.EntityTypeQuotation, s.onApprovalCompleted)
	return s
}

// generateQuotationNo 生成报价单号
func generateQuotationNo() string {
	return fmt.Sprintf("QT-%d-%s", time.Now().Year(), uuid.New().String()[:8])
}

// Create 创建报价单(草稿)
func (s *quotationService) Create(ctx context.Context, req *CreateQuotationRequest) (*model.QuotationModel, error) {
	// 项目必须存在
	if _, err := s.projectRepo.FindByID(req.ProjectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	userID := getUserIDFromContext(ctx)
	now := time.Now()

	quotation := &model.QuotationModel{
		ID:          uuid.New().String(),
		ProjectID:   req.ProjectID,
		QuotationNo: generateQuotationNo(),
		ItemName:    req.ItemName,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalAmount: req.UnitPrice * int64(req.Quantity),
		Status:      model.DocStatusDraft,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.quotationRepo.Save(quotation); err != nil {
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "create", "quotation", quotation.ID, map[string]interface{}{
			"quotation_no": quotation.QuotationNo,
			"quantity":     quotation.Quantity,
			"total_amount": quotation.TotalAmount,
		})
	}

	return quotation, nil
}

// Get 获取报价单详情
func (s *quotationService) Get(id string) (*model.QuotationModel, error) {
	return s.quotationRepo.FindByID(id)
}

// ListByProject 列出项目下的报价单
func (s *quotationService) ListByProject(projectID string) ([]*model.QuotationModel, error) {
	return s.quotationRepo.FindByProjectID(projectID)
}

// SubmitForApproval 提交报价单审批
// 草稿或被拒绝的报价单可以提交;提交后单据冻结等待审批结果
func (s *quotationService) SubmitForApproval(ctx context.Context, id string) (*approval.Request, error) {
	quotation, err := s.quotationRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("quotation not found: %w", err)
	}

	if quotation.Status != model.DocStatusDraft && quotation.Status != model.DocStatusRejected {
		return nil, ErrAlreadySubmitted
	}

	userID := getUserIDFromContext(ctx)
	description := fmt.Sprintf("%s %s x%d", quotation.QuotationNo, quotation.ItemName, quotation.Quantity)

	req, err := s.approvalSvc.CreateRequest(ctx, approval.EntityTypeQuotation, quotation.ID, description, userID)
	if err != nil {
		return nil, err
	}

	if err := s.quotationRepo.UpdateApprovalState(id, model.DocStatusPendingApproval, req.ID); err != nil {
		return nil, fmt.Errorf("failed to update quotation status: %w", err)
	}

	return req, nil
}

// onApprovalCompleted 审批终态回写报价单状态
func (s *quotationService) onApprovalCompleted(ctx context.Context, entityID string, status approval.RequestStatus) error {
	docStatus := model.DocStatusRejected
	if status == approval.StatusApproved {
		docStatus = model.DocStatusApproved
	}
	return s.quotationRepo.UpdateApprovalState(entityID, docStatus, "")
}
