package approval

import (
	"strings"
	"time"
)

// Request 审批请求聚合根
// 一个请求对应一个业务单据,持有全部级别决定、审批历史和讨论记录
// 所有不变量由 Approve/Reject/AddComment 三个变更入口集中保证:
//   - 1 <= CurrentLevel <= TotalLevels
//   - PENDING 时恰有一个级别等待决定,即 CurrentLevel 对应的决定槽
//   - 进入终态后不再记录任何决定,停止点之后的级别永远保持 PENDING
//   - 历史记录首条必为 submitted,终态时恰有一条终结记录
//
// 聚合本身是纯内存状态机,不做任何 I/O;持久化、通知均由调用方在
// 变更成功后完成
type Request struct {
	ID                string          `json:"id"`
	Version           int             `json:"version"` // 乐观锁版本,由持久化层比较
	EntityType        EntityType      `json:"entity_type"`
	EntityID          string          `json:"entity_id"`
	EntityDescription string          `json:"entity_description"`
	CurrentLevel      int             `json:"current_level"` // 1 起始游标
	TotalLevels       int             `json:"total_levels"`
	Status            RequestStatus   `json:"status"`
	SubmittedBy       UserID          `json:"submitted_by"`
	SubmittedAt       time.Time       `json:"submitted_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	LevelDecisions    []LevelDecision `json:"level_decisions"`
	HistoryEntries    []HistoryEntry  `json:"history_entries"`
	Comments          []CommentEntry  `json:"comments"`
}

// NewRequest 创建审批请求,这是聚合的唯一构造路径
// 从启用中的模板快照级别列表,之后模板的修改不影响在途请求
// 模板未配置级别时返回 ErrEmptyChain,不会构造任何聚合
func NewRequest(id string, entityType EntityType, entityID string, entityDescription string, submittedBy UserID, tpl *ChainTemplate) (*Request, error) {
	if tpl == nil || !tpl.HasLevels() {
		return nil, ErrEmptyChain
	}

	now := time.Now()
	decisions := tpl.CreateLevelDecisions()

	r := &Request{
		ID:                id,
		Version:           1,
		EntityType:        entityType,
		EntityID:          entityID,
		EntityDescription: entityDescription,
		CurrentLevel:      1,
		TotalLevels:       len(decisions),
		Status:            StatusPending,
		SubmittedBy:       submittedBy,
		SubmittedAt:       now,
		LevelDecisions:    decisions,
		HistoryEntries:    []HistoryEntry{},
		Comments:          []CommentEntry{},
	}

	r.HistoryEntries = append(r.HistoryEntries, HistoryEntry{
		Action:      ActionSubmitted,
		ActorUserID: submittedBy,
		CreatedAt:   now,
	})

	return r, nil
}

// Approve 当前级别审批人同意
// 前置条件按顺序校验,任一失败立即返回且聚合保持不变:
//  1. 请求仍为 PENDING,否则 ErrAlreadyCompleted
//  2. 操作人是当前级别的期望审批人;若只是其他级别的审批人返回
//     ErrOutOfOrderApproval,否则返回 ErrUnauthorized
//
// 同意使游标前进一级;在最后一级同意则整个请求进入 APPROVED 终态
func (r *Request) Approve(approver UserID, comments string) error {
	if err := r.authorize(approver); err != nil {
		return err
	}

	now := time.Now()
	decision := r.currentDecision()
	decision.markApproved(approver, comments, now)

	r.HistoryEntries = append(r.HistoryEntries, HistoryEntry{
		Action:      ActionApproved,
		LevelOrder:  r.CurrentLevel,
		ActorUserID: approver,
		Comment:     comments,
		CreatedAt:   now,
	})

	if r.CurrentLevel == r.TotalLevels {
		r.Status = StatusApproved
		r.CompletedAt = &now
	} else {
		r.CurrentLevel++
	}
	return nil
}

// Reject 当前级别审批人拒绝
// 授权校验与 Approve 一致,另要求拒绝原因非空白,否则 ErrMissingRejectionReason
// 任意级别的拒绝都立即终止整条审批链,不会前进也不会再查看后续级别;
// 同意前进一级而拒绝终结全链是这里的核心业务规则
// 拒绝原因同时写入审批历史和讨论记录
func (r *Request) Reject(approver UserID, reason string, comments string) error {
	if err := r.authorize(approver); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return ErrMissingRejectionReason
	}

	now := time.Now()
	decision := r.currentDecision()
	decision.markRejected(approver, comments, now)

	r.HistoryEntries = append(r.HistoryEntries, HistoryEntry{
		Action:      ActionRejected,
		LevelOrder:  r.CurrentLevel,
		ActorUserID: approver,
		Comment:     reason,
		CreatedAt:   now,
	})
	r.Comments = append(r.Comments, CommentEntry{
		Kind:         CommentKindRejectionReason,
		AuthorUserID: approver,
		Text:         reason,
		CreatedAt:    now,
	})

	r.Status = StatusRejected
	r.CompletedAt = &now
	return nil
}

// AddComment 追加讨论记录
// 不受请求状态限制,终态后仍可评论以便存档;空白内容返回 ErrBlankComment
func (r *Request) AddComment(author UserID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrBlankComment
	}
	r.Comments = append(r.Comments, CommentEntry{
		Kind:         CommentKindDiscussion,
		AuthorUserID: author,
		Text:         text,
		CreatedAt:    time.Now(),
	})
	return nil
}

// authorize 校验操作人能否对当前级别作出决定
func (r *Request) authorize(u UserID) error {
	if r.Status != StatusPending {
		return ErrAlreadyCompleted
	}
	if r.IsExpectedApprover(u) {
		return nil
	}
	if r.IsApproverAtAnyLevel(u) {
		return ErrOutOfOrderApproval
	}
	return ErrUnauthorized
}

// currentDecision 返回当前级别的决定槽
// PENDING 状态下必然存在,由创建时的快照保证
func (r *Request) currentDecision() *LevelDecision {
	for i := range r.LevelDecisions {
		if r.LevelDecisions[i].LevelOrder == r.CurrentLevel {
			return &r.LevelDecisions[i]
		}
	}
	return nil
}

// IsPending 判断请求是否仍在审批中
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// IsCompleted 判断请求是否已进入终态
func (r *Request) IsCompleted() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// IsAtFinalLevel 判断游标是否在最后一级
func (r *Request) IsAtFinalLevel() bool {
	return r.CurrentLevel == r.TotalLevels
}

// LevelDecisionAt 查找指定级别的决定槽副本
func (r *Request) LevelDecisionAt(levelOrder int) (LevelDecision, bool) {
	for _, d := range r.LevelDecisions {
		if d.LevelOrder == levelOrder {
			return d, true
		}
	}
	return LevelDecision{}, false
}

// IsExpectedApprover 判断用户是否为当前级别的期望审批人
func (r *Request) IsExpectedApprover(u UserID) bool {
	d := r.currentDecision()
	return d != nil && d.ExpectedApproverUserID == u
}

// IsApproverAtAnyLevel 判断用户是否出现在任意级别上
// 用于区分 "还没轮到" 和 "无权限" 两种错误
func (r *Request) IsApproverAtAnyLevel(u UserID) bool {
	for _, d := range r.LevelDecisions {
		if d.ExpectedApproverUserID == u {
			return true
		}
	}
	return false
}

// GetLevelDecisions 返回级别决定的只读快照
func (r *Request) GetLevelDecisions() []LevelDecision {
	out := make([]LevelDecision, len(r.LevelDecisions))
	copy(out, r.LevelDecisions)
	return out
}

// GetHistoryEntries 返回审批历史的只读快照
func (r *Request) GetHistoryEntries() []HistoryEntry {
	out := make([]HistoryEntry, len(r.HistoryEntries))
	copy(out, r.HistoryEntries)
	return out
}

// GetComments 返回讨论记录的只读快照
func (r *Request) GetComments() []CommentEntry {
	out := make([]CommentEntry, len(r.Comments))
	copy(out, r.Comments)
	return out
}
