package approval

import "time"

// HistoryEntry 审批历史记录,随状态转换追加,只增不改
type HistoryEntry struct {
	Action      HistoryAction `json:"action"`
	LevelOrder  int           `json:"level_order,omitempty"` // submitted 记录无级别
	ActorUserID UserID        `json:"actor_user_id"`
	Comment     string        `json:"comment,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CommentEntry 讨论记录
// 拒绝原因会同时进入审批历史和讨论记录,保证两条线索都可见
type CommentEntry struct {
	Kind         CommentKind `json:"kind"`
	AuthorUserID UserID      `json:"author_user_id"`
	Text         string      `json:"text"`
	CreatedAt    time.Time   `json:"created_at"`
}
