package approval_test

import (
	"encoding/json"
	"testing"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRequest 基于三级模板构造审批请求
func newTestRequest(t *testing.T) *approval.Request {
	t.Helper()
	req, err := approval.NewRequest("req-001", approval.EntityTypeQuotation, "quo-001", "QT-2026-0001 报价单", 1, newTestTemplate(t))
	require.NoError(t, err)
	return req
}

// TestNewRequest 测试请求创建
func TestNewRequest(t *testing.T) {
	req := newTestRequest(t)

	assert.Equal(t, approval.StatusPending, req.Status)
	assert.Equal(t, 1, req.CurrentLevel)
	assert.Equal(t, 3, req.TotalLevels)
	assert.Equal(t, 1, req.Version)
	assert.Len(t, req.LevelDecisions, 3)
	assert.Nil(t, req.CompletedAt)
	assert.True(t, req.IsPending())
	assert.False(t, req.IsCompleted())

	// 创建时恰有一条 submitted 历史
	require.Len(t, req.HistoryEntries, 1)
	assert.Equal(t, approval.ActionSubmitted, req.HistoryEntries[0].Action)
	assert.Equal(t, approval.UserID(1), req.HistoryEntries[0].ActorUserID)
}

// TestNewRequestEmptyChain 测试空模板无法发起审批
func TestNewRequestEmptyChain(t *testing.T) {
	empty := &approval.ChainTemplate{ID: "tpl-empty", EntityType: approval.EntityTypeInvoice}

	req, err := approval.NewRequest("req-002", approval.EntityTypeInvoice, "inv-001", "", 1, empty)
	assert.ErrorIs(t, err, approval.ErrEmptyChain)
	assert.Nil(t, req)

	req, err = approval.NewRequest("req-003", approval.EntityTypeInvoice, "inv-001", "", 1, nil)
	assert.ErrorIs(t, err, approval.ErrEmptyChain)
	assert.Nil(t, req)
}

// TestApproveSequence 测试按顺序逐级同意,恰在第 N 次通过
func TestApproveSequence(t *testing.T) {
	req := newTestRequest(t)

	require.NoError(t, req.Approve(101, "同意"))
	assert.Equal(t, approval.StatusPending, req.Status)
	assert.Equal(t, 2, req.CurrentLevel)

	require.NoError(t, req.Approve(102, ""))
	assert.Equal(t, approval.StatusPending, req.Status)
	assert.Equal(t, 3, req.CurrentLevel)
	assert.True(t, req.IsAtFinalLevel())

	require.NoError(t, req.Approve(103, "最终同意"))
	assert.Equal(t, approval.StatusApproved, req.Status)
	assert.Equal(t, 3, req.CurrentLevel)
	require.NotNil(t, req.CompletedAt)

	// 历史: submitted + 3 次 approved
	assert.Len(t, req.HistoryEntries, 4)

	// 每个决定槽都已记录
	for i, d := range req.GetLevelDecisions() {
		assert.Equal(t, approval.DecisionApproved, d.Decision, "level %d", i+1)
		require.NotNil(t, d.DecidedByUserID)
		assert.NotNil(t, d.DecidedAt)
	}
}

// TestApproveAuthorization 测试同意的授权校验
func TestApproveAuthorization(t *testing.T) {
	req := newTestRequest(t)

	// 链上其他级别的审批人: 还没轮到
	err := req.Approve(103, "")
	assert.ErrorIs(t, err, approval.ErrOutOfOrderApproval)

	// 链外用户: 无权限
	err = req.Approve(999, "")
	assert.ErrorIs(t, err, approval.ErrUnauthorized)

	// 校验失败不改变任何状态
	assert.Equal(t, 1, req.CurrentLevel)
	assert.Len(t, req.HistoryEntries, 1)
	d, _ := req.LevelDecisionAt(1)
	assert.True(t, d.IsPending())
}

// TestRejectHaltsChain 测试任意级别的拒绝立即终止全链
func TestRejectHaltsChain(t *testing.T) {
	req := newTestRequest(t)
	require.NoError(t, req.Approve(101, ""))

	// 第二级拒绝
	require.NoError(t, req.Reject(102, "价格超出预算", ""))
	assert.Equal(t, approval.StatusRejected, req.Status)
	require.NotNil(t, req.CompletedAt)

	// 第三级保持 PENDING,不会被查看
	d, ok := req.LevelDecisionAt(3)
	require.True(t, ok)
	assert.True(t, d.IsPending())

	// 拒绝原因同时进入历史和讨论
	last := req.HistoryEntries[len(req.HistoryEntries)-1]
	assert.Equal(t, approval.ActionRejected, last.Action)
	assert.Equal(t, "价格超出预算", last.Comment)
	require.Len(t, req.Comments, 1)
	assert.Equal(t, approval.CommentKindRejectionReason, req.Comments[0].Kind)
	assert.Equal(t, "价格超出预算", req.Comments[0].Text)

	// 终态后任何决定都被拒绝
	assert.ErrorIs(t, req.Approve(103, ""), approval.ErrAlreadyCompleted)
	assert.ErrorIs(t, req.Reject(103, "reason", ""), approval.ErrAlreadyCompleted)
}

// TestRejectRequiresReason 测试拒绝原因必填
func TestRejectRequiresReason(t *testing.T) {
	req := newTestRequest(t)

	assert.ErrorIs(t, req.Reject(101, "", ""), approval.ErrMissingRejectionReason)
	assert.ErrorIs(t, req.Reject(101, "   ", ""), approval.ErrMissingRejectionReason)

	// 状态保持不变
	assert.Equal(t, approval.StatusPending, req.Status)
	assert.Equal(t, 1, req.CurrentLevel)
	assert.Empty(t, req.Comments)
	assert.Len(t, req.HistoryEntries, 1)

	// 授权校验先于原因校验: 链外用户空原因拒绝返回 Unauthorized
	assert.ErrorIs(t, req.Reject(999, "", ""), approval.ErrUnauthorized)
}

// TestAddComment 测试讨论记录
func TestAddComment(t *testing.T) {
	req := newTestRequest(t)

	assert.ErrorIs(t, req.AddComment(101, ""), approval.ErrBlankComment)
	assert.ErrorIs(t, req.AddComment(101, "  \t "), approval.ErrBlankComment)

	require.NoError(t, req.AddComment(101, "请补充交期信息"))
	require.Len(t, req.Comments, 1)
	assert.Equal(t, approval.CommentKindDiscussion, req.Comments[0].Kind)

	// 终态后仍可评论
	require.NoError(t, req.Reject(101, "资料不全", ""))
	require.NoError(t, req.AddComment(102, "下次请先走询价流程"))
	assert.Len(t, req.Comments, 3) // 讨论 + 拒绝原因 + 讨论
}

// TestApprovalScenario 测试完整场景: 两级同意后第三级拒绝
func TestApprovalScenario(t *testing.T) {
	req := newTestRequest(t)

	// U1 同意
	require.NoError(t, req.Approve(101, ""))
	assert.Equal(t, 2, req.CurrentLevel)
	assert.Equal(t, approval.StatusPending, req.Status)

	// U3 抢跑
	assert.ErrorIs(t, req.Approve(103, ""), approval.ErrOutOfOrderApproval)

	// U2 同意
	require.NoError(t, req.Approve(102, ""))
	assert.Equal(t, 3, req.CurrentLevel)

	// U3 拒绝
	require.NoError(t, req.Reject(103, "price too high", ""))
	assert.Equal(t, approval.StatusRejected, req.Status)
	assert.NotNil(t, req.CompletedAt)

	history := req.GetHistoryEntries()
	require.Len(t, history, 4)
	assert.Equal(t, approval.ActionSubmitted, history[0].Action)
	assert.Equal(t, approval.ActionApproved, history[1].Action)
	assert.Equal(t, approval.ActionApproved, history[2].Action)
	assert.Equal(t, approval.ActionRejected, history[3].Action)

	comments := req.GetComments()
	require.Len(t, comments, 1)
	assert.Equal(t, approval.CommentKindRejectionReason, comments[0].Kind)
}

// TestRequestRoundTrip 测试序列化往返后行为一致
func TestRequestRoundTrip(t *testing.T) {
	req := newTestRequest(t)
	require.NoError(t, req.Approve(101, "ok"))

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var loaded approval.Request
	require.NoError(t, json.Unmarshal(data, &loaded))

	assert.Equal(t, req.CurrentLevel, loaded.CurrentLevel)
	assert.Equal(t, req.Status, loaded.Status)
	assert.Equal(t, req.TotalLevels, loaded.TotalLevels)
	assert.Len(t, loaded.LevelDecisions, 3)

	// 反序列化后的聚合继续走完审批,结果与原实例一致
	assert.ErrorIs(t, loaded.Approve(103, ""), approval.ErrOutOfOrderApproval)
	require.NoError(t, loaded.Approve(102, ""))
	require.NoError(t, loaded.Approve(103, ""))
	assert.Equal(t, approval.StatusApproved, loaded.Status)
	assert.NotNil(t, loaded.CompletedAt)
}

// TestQueryHelpers 测试只读查询方法
func TestQueryHelpers(t *testing.T) {
	req := newTestRequest(t)

	assert.True(t, req.IsExpectedApprover(101))
	assert.False(t, req.IsExpectedApprover(102))
	assert.True(t, req.IsApproverAtAnyLevel(103))
	assert.False(t, req.IsApproverAtAnyLevel(999))

	d, ok := req.LevelDecisionAt(2)
	require.True(t, ok)
	assert.Equal(t, approval.UserID(102), d.ExpectedApproverUserID)
	_, ok = req.LevelDecisionAt(9)
	assert.False(t, ok)

	// 快照是副本,外部修改不影响聚合
	snapshot := req.GetLevelDecisions()
	snapshot[0].Decision = approval.DecisionApproved
	fresh, _ := req.LevelDecisionAt(1)
	assert.Equal(t, approval.DecisionPending, fresh.Decision)
}
