package approval

// UserID 用户标识,由已认证的调用方提供,核心只做比较
type UserID int64

// EntityType 可审批的业务单据类型
type EntityType string

const (
	EntityTypeQuotation       EntityType = "QUOTATION"        // 报价单
	EntityTypePurchaseOrder   EntityType = "PURCHASE_ORDER"   // 采购订单
	EntityTypeDelivery        EntityType = "DELIVERY"         // 出货单
	EntityTypeInvoice         EntityType = "INVOICE"          // 发票
	EntityTypePurchaseRequest EntityType = "PURCHASE_REQUEST" // 采购申请
	EntityTypeRFQ             EntityType = "RFQ"              // 询价单
	EntityTypeProject         EntityType = "PROJECT"          // 项目
)

// AllEntityTypes 返回全部单据类型
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityTypeQuotation,
		EntityTypePurchaseOrder,
		EntityTypeDelivery,
		EntityTypeInvoice,
		EntityTypePurchaseRequest,
		EntityTypeRFQ,
		EntityTypeProject,
	}
}

// IsValid 判断单据类型是否合法
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeQuotation, EntityTypePurchaseOrder, EntityTypeDelivery,
		EntityTypeInvoice, EntityTypePurchaseRequest, EntityTypeRFQ, EntityTypeProject:
		return true
	}
	return false
}

// RequestStatus 审批请求状态
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"  // 审批中
	StatusApproved RequestStatus = "APPROVED" // 已通过(终态)
	StatusRejected RequestStatus = "REJECTED" // 已拒绝(终态)
)

// DecisionState 单个审批级别的决定结果
type DecisionState string

const (
	DecisionPending  DecisionState = "PENDING"
	DecisionApproved DecisionState = "APPROVED"
	DecisionRejected DecisionState = "REJECTED"
)

// HistoryAction 审批历史动作类型
type HistoryAction string

const (
	ActionSubmitted HistoryAction = "submitted"
	ActionApproved  HistoryAction = "approved"
	ActionRejected  HistoryAction = "rejected"
)

// CommentKind 讨论记录类型
type CommentKind string

const (
	CommentKindDiscussion      CommentKind = "discussion"       // 普通讨论
	CommentKindRejectionReason CommentKind = "rejection_reason" // 拒绝原因
)
