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

// InvoiceService 发票服务接口
type InvoiceService interface {
	Create(ctx context.Context, req *CreateInvoiceRequest) (*model.InvoiceModel, error)
	Get(id string) (*model.InvoiceModel, error)
	ListByProject(projectID string) ([]*model.InvoiceModel, error)
	SubmitForApproval(ctx context.Context, id string) (*approval.Request, error)
	MarkPaid(ctx context.Context, id string) error
}

// CreateInvoiceRequest 创建发票请求
// @Description 创建发票的请求参数
type CreateInvoiceRequest struct {
	ProjectID string     `json:"project_id" example:"prj-001" binding:"required"` // 项目 ID
	Amount    int64      `json:"amount" example:"6000000" binding:"required,gt=0"` // 金额(韩元)
	IssuedAt  *time.Time `json:"issued_at"`                                        // 开票时间,缺省为当前时间
	DueDate   *time.Time `json:"due_date"`                                         // 付款期限
}

// invoiceService 发票服务实现
type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	projectRepo repository.ProjectRepository
	approvalSvc ApprovalService
	auditLogSvc AuditLogService
}

// NewInvoiceService 创建发票服务并注册审批终态回调
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	projectRepo repository.ProjectRepository,
	approvalSvc ApprovalService,
	auditLogSvc AuditLogService,
) InvoiceService {
	s := &invoiceService{
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		approvalSvc: approvalSvc,
		auditLogSvc: auditLogSvc,
	}
	approvalSvc.RegisterCompletionHandler(approval.EntityTypeInvoice, s.onApprovalCompleted)
	return s
}

// generateInvoiceNo 生成发票号
func generateInvoiceNo() string {
	return fmt.Sprintf("IV-%d-%s", time.Now().Year(), uuid.New().String()[:8])
}

// Create 创建发票(草稿)
func (s *invoiceService) Create(ctx context.Context, req *CreateInvoiceRequest) (*model.InvoiceModel, error) {
	if _, err := s.projectRepo.FindByID(req.ProjectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	userID := getUserIDFromContext(ctx)
	now := time.Now()
	issuedAt := now
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}

	invoice := &model.InvoiceModel{
		ID:        uuid.New().String(),
		ProjectID: req.ProjectID,
		InvoiceNo: generateInvoiceNo(),
		Amount:    req.Amount,
		IssuedAt:  issuedAt,
		DueDate:   req.DueDate,
		Status:    model.DocStatusDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.invoiceRepo.Save(invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "create", "invoice", invoice.ID, map[string]interface{}{
			"invoice_no": invoice.InvoiceNo,
			"amount":     invoice.Amount,
		})
	}

	return invoice, nil
}

// Get 获取发票详情
func (s *invoiceService) Get(id string) (*model.InvoiceModel, error) {
	return s.invoiceRepo.FindByID(id)
}

// ListByProject 列出项目下的发票
func (s *invoiceService) ListByProject(projectID string) ([]*model.InvoiceModel, error) {
	return s.invoiceRepo.FindByProjectID(projectID)
}

// SubmitForApproval 提交发票审批
func (s *invoiceService) SubmitForApproval(ctx context.Context, id string) (*approval.Request, error) {
	invoice, err := s.invoiceRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}

	if invoice.Status != model.DocStatusDraft && invoice.Status != model.DocStatusRejected {
		return nil, ErrAlreadySubmitted
	}

	userID := getUserIDFromContext(ctx)
	description := fmt.Sprintf("%s %d원", invoice.InvoiceNo, invoice.Amount)

	req, err := s.approvalSvc.CreateRequest(ctx, approval.EntityTypeInvoice, invoice.ID, description, userID)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateApprovalState(id, model.DocStatusPendingApproval, req.ID); err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	return req, nil
}

// MarkPaid 标记发票已付款
// 只有审批通过的发票可以收款
func (s *invoiceService) MarkPaid(ctx context.Context, id string) error {
	invoice, err := s.invoiceRepo.FindByID(id)
	if err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}
	if invoice.Status != model.DocStatusApproved {
		return ErrDocumentNotApproved
	}

	now := time.Now()
	invoice.Status = model.DocStatusPaid
	invoice.PaidAt = &now
	invoice.UpdatedAt = now
	if err := s.invoiceRepo.Save(invoice); err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}

	userID := getUserIDFromContext(ctx)
	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "mark_paid", "invoice", id, nil)
	}
	return nil
}

// onApprovalCompleted 审批终态回写发票状态
func (s *invoiceService) onApprovalCompleted(ctx context.Context, entityID string, status approval.RequestStatus) error {
	docStatus := model.DocStatusRejected
	if status == approval.StatusApproved {
		docStatus = model.DocStatusApproved
	}
	return s.invoiceRepo.UpdateApprovalState(entityID, docStatus, "")
}
