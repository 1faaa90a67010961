package approval

import (
	"sort"
	"time"
)

// ChainLevel 审批链上的一个级别,绑定唯一的期望审批人
type ChainLevel struct {
	LevelOrder     int    `json:"level_order"`      // 级别顺序,从 1 开始连续递增
	LevelName      string `json:"level_name"`       // 级别名称,如 "组长审批"
	ApproverUserID UserID `json:"approver_user_id"` // 期望审批人
	Required       bool   `json:"required"`         // 是否必审
}

// ChainTemplate 审批链模板
// 每种单据类型配置一个启用中的模板,由管理员维护
// 级别列表只能通过 ReplaceAllLevels 整体替换,避免出现部分有序的中间状态
type ChainTemplate struct {
	ID          string       `json:"id"`
	EntityType  EntityType   `json:"entity_type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Active      bool         `json:"active"`
	Levels      []ChainLevel `json:"levels"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ValidateLevels 校验级别顺序: 允许为空,非空时必须是从 1 开始的连续序列,不允许重复或跳号
func ValidateLevels(levels []ChainLevel) error {
	if len(levels) == 0 {
		return nil
	}

	orders := make([]int, len(levels))
	for i, lvl := range levels {
		orders[i] = lvl.LevelOrder
	}
	sort.Ints(orders)

	for i, order := range orders {
		if order != i+1 {
			return ErrInvalidConfiguration
		}
	}
	return nil
}

// HasLevels 判断模板是否配置了审批级别
func (t *ChainTemplate) HasLevels() bool {
	return len(t.Levels) > 0
}

// ReplaceAllLevels 整体替换级别列表
// 这是级别的唯一变更入口,不提供单级增删,保证顺序不变量的原子性
func (t *ChainTemplate) ReplaceAllLevels(levels []ChainLevel) error {
	if err := ValidateLevels(levels); err != nil {
		return err
	}

	replaced := make([]ChainLevel, len(levels))
	copy(replaced, levels)
	sort.Slice(replaced, func(i, j int) bool {
		return replaced[i].LevelOrder < replaced[j].LevelOrder
	})

	t.Levels = replaced
	t.UpdatedAt = time.Now()
	return nil
}

// CreateLevelDecisions 将当前级别投影为全新的待审批决定槽
// 纯函数,按 LevelOrder 升序返回,仅在创建审批请求时调用一次
func (t *ChainTemplate) CreateLevelDecisions() []LevelDecision {
	decisions := make([]LevelDecision, 0, len(t.Levels))
	for _, lvl := range t.Levels {
		decisions = append(decisions, LevelDecision{
			LevelOrder:             lvl.LevelOrder,
			LevelName:              lvl.LevelName,
			ExpectedApproverUserID: lvl.ApproverUserID,
			Decision:               DecisionPending,
		})
	}
	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].LevelOrder < decisions[j].LevelOrder
	})
	return decisions
}

// ApproverUserIDAt 查找指定级别的审批人,供审批链展示使用
func (t *ChainTemplate) ApproverUserIDAt(levelOrder int) (UserID, bool) {
	for _, lvl := range t.Levels {
		if lvl.LevelOrder == levelOrder {
			return lvl.ApproverUserID, true
		}
	}
	return 0, false
}
