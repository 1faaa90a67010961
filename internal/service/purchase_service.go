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

// 采购申请类型
const (
	PurchaseKindRequest = "purchase_request" // 采购申请
	PurchaseKindRFQ     = "rfq"              // 询价单
)

// PurchaseService 采购申请服务接口
// 覆盖采购申请和询价两类单据,审批链按类型分别配置
type PurchaseService interface {
	Create(ctx context.Context, req *CreatePurchaseRequest) (*model.PurchaseRequestModel, error)
	Get(id string) (*model.PurchaseRequestModel, error)
	ListByProject(projectID string) ([]*model.PurchaseRequestModel, error)
	SubmitForApproval(ctx context.Context, id string) (*approval.Request, error)
}

// CreatePurchaseRequest 创建采购申请请求
// @Description 创建采购申请/询价单的请求参数
type CreatePurchaseRequest struct {
	ProjectID       string `json:"project_id" example:"prj-001" binding:"required"`        // 项目 ID
	Kind            string `json:"kind" example:"purchase_request" binding:"required"`     // purchase_request/rfq
	ItemName        string `json:"item_name" example:"SUS304 板材" binding:"required"`     // 品目名称
	Quantity        int    `json:"quantity" example:"20" binding:"required,gt=0"`          // 数量
	EstimatedAmount int64  `json:"estimated_amount" example:"800000" binding:"required,gt=0"` // 预估金额(韩元)
	VendorName      string `json:"vendor_name" example:"대한금속"`                         // 供应商
}

// purchaseService 采购申请服务实现
type purchaseService struct {
	purchaseRepo repository.PurchaseRequestRepository
	projectRepo  repository.ProjectRepository
	approvalSvc  ApprovalService
	auditLogSvc  AuditLogService
}

// NewPurchaseService 创建采购申请服务并注册审批终态回调
func NewPurchaseService(
	purchaseRepo repository.PurchaseRequestRepository,
	projectRepo repository.ProjectRepository,
	approvalSvc ApprovalService,
	auditLogSvc AuditLogService,
) PurchaseService {
	s := &purchaseService{
		purchaseRepo: purchaseRepo,
		projectRepo:  projectRepo,
		approvalSvc:  approvalSvc,
		auditLogSvc:  auditLogSvc,
	}
	approvalSvc.RegisterCompletionHandler(approval.EntityTypePurchaseRequest, s.onApprovalCompleted)
	approvalSvc.RegisterCompletionHandler(approval.EntityTypeRFQ, s.onApprovalCompleted)
	return s
}

// generatePurchaseNo 生成采购申请单号
func generatePurchaseNo(kind string) string {
	prefix := "PR"
	if kind == PurchaseKindRFQ {
		prefix = "RFQ"
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().Year(), uuid.New().String()[:8])
}

// entityTypeForKind 采购单据类型对应的审批单据类型
func entityTypeForKind(kind string) approval.EntityType {
	if kind == PurchaseKindRFQ {
		return approval.EntityTypeRFQ
	}
	return approval.EntityTypePurchaseRequest
}

// Create 创建采购申请(草稿)
func (s *purchaseService) Create(ctx context.Context, req *CreatePurchaseRequest) (*model.PurchaseRequestModel, error) {
	if req.Kind != PurchaseKindRequest && req.Kind != PurchaseKindRFQ {
		return nil, fmt.Errorf("unknown purchase kind: %q", req.Kind)
	}
	if _, err := s.projectRepo.FindByID(req.ProjectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	userID := getUserIDFromContext(ctx)
	now := time.Now()

	pr := &model.PurchaseRequestModel{
		ID:              uuid.New().String(),
		ProjectID:       req.ProjectID,
		RequestNo:       generatePurchaseNo(req.Kind),
		Kind:            req.Kind,
		ItemName:        req.ItemName,
		Quantity:        req.Quantity,
		EstimatedAmount: req.EstimatedAmount,
		VendorName:      req.VendorName,
		Status:          model.DocStatusDraft,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.purchaseRepo.Save(pr); err != nil {
		return nil, fmt.Errorf("failed to save purchase request: %w", err)
	}

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "create", "purchase_request", pr.ID, map[string]interface{}{
			"request_no": pr.RequestNo,
			"kind":       pr.Kind,
			"amount":     pr.EstimatedAmount,
		})
	}

	return pr, nil
}

// Get 获取采购申请详情
func (s *purchaseService) Get(id string) (*model.PurchaseRequestModel, error) {
	return s.purchaseRepo.FindByID(id)
}

// ListByProject 列出项目下的采购申请
func (s *purchaseService) ListByProject(projectID string) ([]*model.PurchaseRequestModel, error) {
	return s.purchaseRepo.FindByProjectID(projectID)
}

// SubmitForApproval 提交采购申请审批
func (s *purchaseService) SubmitForApproval(ctx context.Context, id string) (*approval.Request, error) {
	pr, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("purchase request not found: %w", err)
	}

	if pr.Status != model.DocStatusDraft && pr.Status != model.DocStatusRejected {
		return nil, ErrAlreadySubmitted
	}

	userID := getUserIDFromContext(ctx)
	description := fmt.Sprintf("%s %s x%d", pr.RequestNo, pr.ItemName, pr.Quantity)

	req, err := s.approvalSvc.CreateRequest(ctx, entityTypeForKind(pr.Kind), pr.ID, description, userID)
	if err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.UpdateApprovalState(id, model.DocStatusPendingApproval, req.ID); err != nil {
		return nil, fmt.Errorf("failed to update purchase request status: %w", err)
	}

	return req, nil
}

// onApprovalCompleted 审批终态回写采购申请状态
func (s *purchaseService) onApprovalCompleted(ctx context.Context, entityID string, status approval.RequestStatus) error {
	docStatus := model.DocStatusRejected
	if status == approval.StatusApproved {
		docStatus = model.DocStatusApproved
	}
	return s.purchaseRepo.UpdateApprovalState(entityID, docStatus, "")
}
