package approval

import "time"

// LevelDecision 审批请求中一个级别的决定槽
// 创建请求时从模板快照而来,一旦作出决定即不可变更
type LevelDecision struct {
	LevelOrder             int           `json:"level_order"`
	LevelName              string        `json:"level_name"`
	ExpectedApproverUserID UserID        `json:"expected_approver_user_id"`
	Decision               DecisionState `json:"decision"`
	DecidedByUserID        *UserID       `json:"decided_by_user_id,omitempty"`
	Comments               string        `json:"comments,omitempty"`
	DecidedAt              *time.Time    `json:"decided_at,omitempty"`
}

// IsPending 判断该级别是否尚未作出决定
func (d *LevelDecision) IsPending() bool {
	return d.Decision == DecisionPending
}

// markApproved 记录同意决定
// 仅供聚合根调用,外部不可直接变更决定槽
func (d *LevelDecision) markApproved(approver UserID, comments string, at time.Time) {
	d.Decision = DecisionApproved
	d.DecidedByUserID = &approver
	d.Comments = comments
	d.DecidedAt = &at
}

// markRejected 记录拒绝决定
func (d *LevelDecision) markRejected(approver UserID, comments string, at time.Time) {
	d.Decision = DecisionRejected
	d.DecidedByUserID = &approver
	d.Comments = comments
	d.DecidedAt = &at
}
