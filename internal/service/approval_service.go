package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/metrics"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/google/uuid"
)

// CompletionHandler 审批进入终态后的回调
// 由各单据服务注册,用于把审批结果回写到业务单据状态
type CompletionHandler func(ctx context.Context, entityID string, status approval.RequestStatus) error

// ApprovalService 审批请求服务接口
// 聚合的 加载-变更-保存 在这里完成:聚合本身只做内存状态转换,
// 持久化用版本号做乐观锁,事件和审计日志在保存成功后才发出
type ApprovalService interface {
	CreateRequest(ctx context.Context, entityType approval.EntityType, entityID string, entityDescription string, submittedBy int64) (*approval.Request, error)
	Get(id string) (*approval.Request, error)
	Approve(ctx context.Context, id string, req *ApproveRequest) (*approval.Request, error)
	Reject(ctx context.Context, id string, req *RejectRequest) (*approval.Request, error)
	AddComment(ctx context.Context, id string, req *AddCommentRequest) (*approval.Request, error)
	RegisterCompletionHandler(entityType approval.EntityType, handler CompletionHandler)
}

// ApproveRequest 审批同意请求
// @Description 审批同意的请求参数
type ApproveRequest struct {
	Comments string `json:"comments" example:"同意"` // 审批意见,可选
}

// RejectRequest 审批拒绝请求
// @Description 审批拒绝的请求参数
type RejectRequest struct {
	Reason   string `json:"reason" example:"价格超出预算" binding:"required"` // 拒绝原因,必填
	Comments string `json:"comments" example:""`                            // 附加意见,可选
}

// AddCommentRequest 添加讨论请求
// @Description 审批讨论的请求参数
type AddCommentRequest struct {
	Text string `json:"text" example:"请补充交期信息" binding:"required"` // 讨论内容
}

// approvalService 审批请求服务实现
type approvalService struct {
	requestRepo        repository.ApprovalRequestRepository
	templateProvider   ChainTemplateProvider
	auditLogSvc        AuditLogService
	eventSvc           EventService
	completionHandlers map[approval.EntityType]CompletionHandler
}

// NewApprovalService 创建审批请求服务
func NewApprovalService(
	requestRepo repository.ApprovalRequestRepository,
	templateProvider ChainTemplateProvider,
	auditLogSvc AuditLogService,
	eventSvc EventService,
) ApprovalService {
	return &approvalService{
		requestRepo:        requestRepo,
		templateProvider:   templateProvider,
		auditLogSvc:        auditLogSvc,
		eventSvc:           eventSvc,
		completionHandlers: make(map[approval.EntityType]CompletionHandler),
	}
}

// RegisterCompletionHandler 注册终态回调
// 在装配阶段调用,运行期不再变更
func (s *approvalService) RegisterCompletionHandler(entityType approval.EntityType, handler CompletionHandler) {
	s.completionHandlers[entityType] = handler
}

// generateRequestID 生成审批请求 ID
func generateRequestID() string {
	return "apr-" + uuid.New().String()
}

// toRequestModel 将聚合序列化为数据模型
func toRequestModel(req *approval.Request) (*model.ApprovalRequestModel, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal approval request: %w", err)
	}

	// 冗余当前审批人列,供待办查询
	var currentApprover int64
	if req.IsPending() {
		if d, ok := req.LevelDecisionAt(req.CurrentLevel); ok {
			currentApprover = int64(d.ExpectedApproverUserID)
		}
	}

	return &model.ApprovalRequestModel{
		ID:                req.ID,
		Version:           req.Version,
		EntityType:        string(req.EntityType),
		EntityID:          req.EntityID,
		EntityDescription: req.EntityDescription,
		CurrentLevel:      req.CurrentLevel,
		TotalLevels:       req.TotalLevels,
		Status:            string(req.Status),
		SubmittedBy:       int64(req.SubmittedBy),
		SubmittedAt:       req.SubmittedAt,
		CompletedAt:       req.CompletedAt,
		CurrentApprover:   currentApprover,
		Data:              data,
		CreatedAt:         req.SubmittedAt,
		UpdatedAt:         time.Now(),
	}, nil
}

// fromRequestModel 从数据模型反序列化聚合
func fromRequestModel(m *model.ApprovalRequestModel) (*approval.Request, error) {
	var req approval.Request
	if err := json.Unmarshal(m.Data, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal approval request: %w", err)
	}
	// 版本以列为准
	req.Version = m.Version
	return &req, nil
}

// CreateRequest 为业务单据发起审批
// 从启用中的模板快照级别;模板未配置级别时创建失败,不产生任何记录
func (s *approvalService) CreateRequest(ctx context.Context, entityType approval.EntityType, entityID string, entityDescription string, submittedBy int64) (*approval.Request, error) {
	tpl, err := s.templateProvider.ActiveTemplate(entityType)
	if err != nil {
		return nil, err
	}

	req, err := approval.NewRequest(generateRequestID(), entityType, entityID, entityDescription, approval.UserID(submittedBy), tpl)
	if err != nil {
		return nil, err
	}

	m, err := toRequestModel(req)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Create(m); err != nil {
		return nil, fmt.Errorf("failed to save approval request: %w", err)
	}

	metrics.RecordRequestCreated(string(entityType))

	if s.auditLogSvc != nil && submittedBy != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, submittedBy, "submit", "approval_request", req.ID, map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   entityID,
		})
	}
	if s.eventSvc != nil {
		s.eventSvc.Emit(EventSubmitted, req)
	}

	return req, nil
}

// Get 获取审批请求详情
func (s *approvalService) Get(id string) (*approval.Request, error) {
	m, err := s.requestRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("approval request not found: %w", err)
	}
	return fromRequestModel(m)
}

// Approve 当前级别审批人同意
func (s *approvalService) Approve(ctx context.Context, id string, req *ApproveRequest) (*approval.Request, error) {
	userID := getUserIDFromContext(ctx)

	loaded, err := s.mutate(id, func(r *approval.Request) error {
		return r.Approve(approval.UserID(userID), req.Comments)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApproval("approve")

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "approve", "approval_request", id, map[string]interface{}{
			"comments": req.Comments,
		})
	}
	if s.eventSvc != nil {
		s.eventSvc.Emit(EventApproved, loaded)
	}

	s.handleCompletion(ctx, loaded)
	return loaded, nil
}

// Reject 当前级别审批人拒绝,整条审批链立即终止
func (s *approvalService) Reject(ctx context.Context, id string, req *RejectRequest) (*approval.Request, error) {
	userID := getUserIDFromContext(ctx)

	loaded, err := s.mutate(id, func(r *approval.Request) error {
		return r.Reject(approval.UserID(userID), req.Reason, req.Comments)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApproval("reject")

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "reject", "approval_request", id, map[string]interface{}{
			"reason": req.Reason,
		})
	}
	if s.eventSvc != nil {
		s.eventSvc.Emit(EventRejected, loaded)
	}

	s.handleCompletion(ctx, loaded)
	return loaded, nil
}

// AddComment 添加讨论,终态后仍可评论
func (s *approvalService) AddComment(ctx context.Context, id string, req *AddCommentRequest) (*approval.Request, error) {
	userID := getUserIDFromContext(ctx)

	loaded, err := s.mutate(id, func(r *approval.Request) error {
		return r.AddComment(approval.UserID(userID), req.Text)
	})
	if err != nil {
		return nil, err
	}

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "comment", "approval_request", id, nil)
	}
	if s.eventSvc != nil {
		s.eventSvc.Emit(EventCommented, loaded)
	}

	return loaded, nil
}

// mutate 执行一次 加载-变更-保存 循环
// 保存以加载时的版本为条件,两次并发变更恰有一方拿到 ErrOptimisticLock;
// 重试与否由调用方决定,这里不做自动重试
func (s *approvalService) mutate(id string, fn func(*approval.Request) error) (*approval.Request, error) {
	m, err := s.requestRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("approval request not found: %w", err)
	}

	req, err := fromRequestModel(m)
	if err != nil {
		return nil, err
	}

	loadedVersion := req.Version
	if err := fn(req); err != nil {
		return nil, err
	}
	req.Version = loadedVersion + 1

	updated, err := toRequestModel(req)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(updated, loadedVersion); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			metrics.RecordLockConflict()
		}
		return nil, err
	}

	return req, nil
}

// handleCompletion 终态回写业务单据状态
// 审批请求已持久化成功,回写失败只记审计,不回滚审批结果
func (s *approvalService) handleCompletion(ctx context.Context, req *approval.Request) {
	if !req.IsCompleted() {
		return
	}
	handler, ok := s.completionHandlers[req.EntityType]
	if !ok {
		return
	}
	if err := handler(ctx, req.EntityID, req.Status); err != nil && s.auditLogSvc != nil {
		_ = s.auditLogSvc.RecordAction(ctx, int64(req.SubmittedBy), "completion_writeback_failed", "approval_request", req.ID, map[string]interface{}{
			"error": err.Error(),
		})
	}
}
