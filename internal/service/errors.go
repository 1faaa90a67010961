package service

import "errors"

// 单据服务的业务错误
var (
	// ErrAlreadySubmitted 单据已提交审批,不能重复提交
	ErrAlreadySubmitted = errors.New("document has already been submitted for approval")

	// ErrDocumentNotApproved 前置单据未通过审批
	ErrDocumentNotApproved = errors.New("document has not been approved")

	// ErrQuantityExceeded 累计出货数量超过报价数量
	ErrQuantityExceeded = errors.New("cumulative delivered quantity exceeds quoted quantity")
)
