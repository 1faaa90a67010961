package approval

import "errors"

// 审批核心的领域错误
// 所有错误由变更方法同步返回,返回错误时聚合状态保持不变
var (
	// ErrEmptyChain 模板未配置任何审批级别,无法发起审批
	ErrEmptyChain = errors.New("approval chain has no levels configured")

	// ErrInvalidConfiguration 级别顺序不是从 1 开始的连续序列
	ErrInvalidConfiguration = errors.New("chain levels must be a contiguous sequence starting at 1")

	// ErrAlreadyCompleted 请求已进入终态,不允许再操作
	ErrAlreadyCompleted = errors.New("approval request is already completed")

	// ErrUnauthorized 操作人不在审批链的任何级别上
	ErrUnauthorized = errors.New("user is not an approver on this chain")

	// ErrOutOfOrderApproval 操作人是审批链上的审批人,但当前还未轮到
	ErrOutOfOrderApproval = errors.New("user is an approver on this chain but not at the current level")

	// ErrMissingRejectionReason 拒绝时必须填写原因
	ErrMissingRejectionReason = errors.New("rejection reason is required")

	// ErrBlankComment 评论内容不能为空
	ErrBlankComment = errors.New("comment text is required")
)
