package service

import (
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
)

// QueryService 审批查询服务接口
// 只读视图:待办列表走冗余列查询,详情视图从聚合投影
type QueryService interface {
	PendingForApprover(approverID int64) ([]*RequestSummary, error)
	ListRequests(query *RequestQuery) (*RequestPage, error)
	RequestsForEntity(entityType approval.EntityType, entityID string) ([]*RequestSummary, error)
	RequestDetail(id string) (*RequestDetail, error)
}

// RequestQuery 审批请求查询参数
// @Description 审批请求列表的查询条件
type RequestQuery struct {
	EntityType  string `form:"entity_type" example:"QUOTATION"`  // 单据类型
	EntityID    string `form:"entity_id" example:"qt-001"`       // 单据 ID
	Status      string `form:"status" example:"PENDING"`         // 审批状态
	SubmittedBy int64  `form:"submitted_by" example:"101"`       // 提交人
	StartTime   string `form:"start_time" example:"2026-01-01T00:00:00Z"` // 提交时间下限
	EndTime     string `form:"end_time" example:"2026-12-31T23:59:59Z"`   // 提交时间上限
	SortBy      string `form:"sort_by" example:"submitted_at"`   // 排序字段
	Order       string `form:"order" example:"desc"`             // 排序方向
	Page        int    `form:"page" example:"1"`                 // 页码
	PageSize    int    `form:"page_size" example:"20"`           // 每页数量
}

// RequestSummary 审批请求摘要
// 列表接口不下发级别决策和历史,只保留可排序过滤的列
type RequestSummary struct {
	ID                string     `json:"id"`
	EntityType        string     `json:"entity_type"`
	EntityID          string     `json:"entity_id"`
	EntityDescription string     `json:"entity_description"`
	CurrentLevel      int        `json:"current_level"`
	TotalLevels       int        `json:"total_levels"`
	Status            string     `json:"status"`
	SubmittedBy       int64      `json:"submitted_by"`
	SubmittedAt       time.Time  `json:"submitted_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// RequestPage 分页的审批请求列表
type RequestPage struct {
	Items    []*RequestSummary `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// RequestDetail 审批请求详情视图
// 含级别决策、历史和讨论的完整快照
type RequestDetail struct {
	RequestSummary
	Version        int                      `json:"version"`
	LevelDecisions []approval.LevelDecision `json:"level_decisions"`
	History        []approval.HistoryEntry  `json:"history"`
	Comments       []approval.CommentEntry  `json:"comments"`
}

// queryService 审批查询服务实现
type queryService struct {
	requestRepo repository.ApprovalRequestRepository
}

// NewQueryService 创建审批查询服务
func NewQueryService(requestRepo repository.ApprovalRequestRepository) QueryService {
	return &queryService{requestRepo: requestRepo}
}

// PendingForApprover 某审批人的待办列表
// 按冗余的当前审批人列查询,只含轮到该用户处理的请求
func (s *queryService) PendingForApprover(approverID int64) ([]*RequestSummary, error) {
	models, err := s.requestRepo.FindPendingByApprover(approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending requests: %w", err)
	}

	summaries := make([]*RequestSummary, 0, len(models))
	for _, m := range models {
		summaries = append(summaries, &RequestSummary{
			ID:                m.ID,
			EntityType:        m.EntityType,
			EntityID:          m.EntityID,
			EntityDescription: m.EntityDescription,
			CurrentLevel:      m.CurrentLevel,
			TotalLevels:       m.TotalLevels,
			Status:            m.Status,
			SubmittedBy:       m.SubmittedBy,
			SubmittedAt:       m.SubmittedAt,
			CompletedAt:       m.CompletedAt,
		})
	}
	return summaries, nil
}

// ListRequests 按条件分页查询审批请求
func (s *queryService) ListRequests(query *RequestQuery) (*RequestPage, error) {
	filter := &repository.RequestFilter{
		SortBy:   query.SortBy,
		Order:    query.Order,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	if query.EntityType != "" {
		filter.EntityType = &query.EntityType
	}
	if query.EntityID != "" {
		filter.EntityID = &query.EntityID
	}
	if query.Status != "" {
		filter.Status = &query.Status
	}
	if query.SubmittedBy != 0 {
		filter.SubmittedBy = &query.SubmittedBy
	}
	if query.StartTime != "" {
		t, err := time.Parse(time.RFC3339, query.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time: %w", err)
		}
		filter.StartTime = &t
	}
	if query.EndTime != "" {
		t, err := time.Parse(time.RFC3339, query.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end_time: %w", err)
		}
		filter.EndTime = &t
	}

	models, total, err := s.requestRepo.FindByFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}

	items := make([]*RequestSummary, 0, len(models))
	for _, m := range models {
		items = append(items, &RequestSummary{
			ID:                m.ID,
			EntityType:        m.EntityType,
			EntityID:          m.EntityID,
			EntityDescription: m.EntityDescription,
			CurrentLevel:      m.CurrentLevel,
			TotalLevels:       m.TotalLevels,
			Status:            m.Status,
			SubmittedBy:       m.SubmittedBy,
			SubmittedAt:       m.SubmittedAt,
			CompletedAt:       m.CompletedAt,
		})
	}

	return &RequestPage{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// RequestsForEntity 某业务单据的审批记录,按提交时间倒序
// 单据被拒绝后重新提交会产生多条记录
func (s *queryService) RequestsForEntity(entityType approval.EntityType, entityID string) ([]*RequestSummary, error) {
	models, err := s.requestRepo.FindByEntity(string(entityType), entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity requests: %w", err)
	}

	summaries := make([]*RequestSummary, 0, len(models))
	for _, m := range models {
		summaries = append(summaries, &RequestSummary{
			ID:                m.ID,
			EntityType:        m.EntityType,
			EntityID:          m.EntityID,
			EntityDescription: m.EntityDescription,
			CurrentLevel:      m.CurrentLevel,
			TotalLevels:       m.TotalLevels,
			Status:            m.Status,
			SubmittedBy:       m.SubmittedBy,
			SubmittedAt:       m.SubmittedAt,
			CompletedAt:       m.CompletedAt,
		})
	}
	return summaries, nil
}

// RequestDetail 审批请求详情,含级别决策、历史和讨论
func (s *queryService) RequestDetail(id string) (*RequestDetail, error) {
	m, err := s.requestRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("approval request not found: %w", err)
	}

	req, err := fromRequestModel(m)
	if err != nil {
		return nil, err
	}

	return &RequestDetail{
		RequestSummary: RequestSummary{
			ID:                req.ID,
			EntityType:        string(req.EntityType),
			EntityID:          req.EntityID,
			EntityDescription: req.EntityDescription,
			CurrentLevel:      req.CurrentLevel,
			TotalLevels:       req.TotalLevels,
			Status:            string(req.Status),
			SubmittedBy:       int64(req.SubmittedBy),
			SubmittedAt:       req.SubmittedAt,
			CompletedAt:       req.CompletedAt,
		},
		Version:        req.Version,
		LevelDecisions: req.GetLevelDecisions(),
		History:        req.GetHistoryEntries(),
		Comments:       req.GetComments(),
	}, nil
}
