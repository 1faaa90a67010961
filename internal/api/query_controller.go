package api

import (
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/gin-gonic/gin"
)

// QueryController 审批查询控制器
// 只读接口:待办、列表、单据维度的审批记录和详情视图
type QueryController struct {
	queryService      service.QueryService
	eventService      service.EventService
	statisticsService service.StatisticsService
}

// NewQueryController 创建审批查询控制器
func NewQueryController(
	queryService service.QueryService,
	eventService service.EventService,
	statisticsService service.StatisticsService,
) *QueryController {
	return &QueryController{
		queryService:      queryService,
		eventService:      eventService,
		statisticsService: statisticsService,
	}
}

// Inbox 当前用户的待办列表
// @Summary      审批待办
// @Description  列出等待当前用户处理的审批请求,只含轮到该用户的级别
// @Tags         审批查询
// @Produce      json
// @Success      200  {object}  Response
// @Failure      401  {object}  ErrorResponse
// @Router       /approvals/inbox [get]
// @Security     BearerAuth
func (c *QueryController) Inbox(ctx *gin.Context) {
	userID := ctx.GetInt64("user_id")
	if userID == 0 {
		Error(ctx, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	requests, err := c.queryService.PendingForApprover(userID)
	if err != nil {
		HandleServiceError(ctx, err, "query inbox")
		return
	}

	Success(ctx, requests)
}

// List 审批请求列表
// @Summary      审批请求列表
// @Description  按单据类型、状态、提交人、时间范围分页查询审批请求
// @Tags         审批查询
// @Produce      json
// @Param        entity_type query string false "单据类型"
// @Param        entity_id query string false "单据 ID"
// @Param        status query string false "审批状态" Enums(PENDING, APPROVED, REJECTED)
// @Param        submitted_by query int false "提交人 ID"
// @Param        start_time query string false "提交时间下限 (RFC3339)"
// @Param        end_time query string false "提交时间上限 (RFC3339)"
// @Param        sort_by query string false "排序字段" default(submitted_at)
// @Param        order query string false "排序方向" Enums(asc, desc) default(desc)
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200  {object}  PaginatedResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /approvals [get]
// @Security     BearerAuth
func (c *QueryController) List(ctx *gin.Context) {
	var query service.RequestQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	page, err := c.queryService.ListRequests(&query)
	if err != nil {
		HandleServiceError(ctx, err, "list requests")
		return
	}

	Paginated(ctx, page.Items, NewPaginationInfo(page.Page, page.PageSize, page.Total))
}

// EntityRequests 单据的审批记录
// @Summary      单据审批记录
// @Description  列出某业务单据的全部审批请求,拒绝后重新提交会有多条
// @Tags         审批查询
// @Produce      json
// @Param        type path string true "单据类型"
// @Param        id path string true "单据 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /documents/{type}/{id}/approvals [get]
// @Security     BearerAuth
func (c *QueryController) EntityRequests(ctx *gin.Context) {
	entityType := approval.EntityType(ctx.Param("type"))
	if !entityType.IsValid() {
		Error(ctx, http.StatusBadRequest, "invalid entity type", string(entityType))
		return
	}

	entityID := ctx.Param("id")
	if err := utils.ValidateResourceID(entityID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid entity ID", err.Error())
		return
	}

	requests, err := c.queryService.RequestsForEntity(entityType, entityID)
	if err != nil {
		HandleServiceError(ctx, err, "query entity requests")
		return
	}

	Success(ctx, requests)
}

// Detail 审批请求详情视图
// @Summary      审批请求详情
// @Description  审批请求的完整视图,含版本号、级别决策、历史和讨论
// @Tags         审批查询
// @Produce      json
// @Param        id path string true "审批请求 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /approvals/{id}/detail [get]
// @Security     BearerAuth
func (c *QueryController) Detail(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request ID", err.Error())
		return
	}

	detail, err := c.queryService.RequestDetail(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "approval request not found", err.Error())
		return
	}

	Success(ctx, detail)
}

// Events 审批请求的事件记录
// @Summary      审批事件记录
// @Description  审批请求产生的事件发件箱记录,含推送状态
// @Tags         审批查询
// @Produce      json
// @Param        id path string true "审批请求 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /approvals/{id}/events [get]
// @Security     BearerAuth
func (c *QueryController) Events(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request ID", err.Error())
		return
	}

	events, err := c.eventService.History(id)
	if err != nil {
		HandleServiceError(ctx, err, "query events")
		return
	}

	Success(ctx, events)
}

// StatisticsByStatus 按状态统计
// @Summary      按状态统计审批请求
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response
// @Router       /statistics/requests/by-status [get]
// @Security     BearerAuth
func (c *QueryController) StatisticsByStatus(ctx *gin.Context) {
	stats, err := c.statisticsService.GetRequestStatisticsByStatus()
	if err != nil {
		HandleServiceError(ctx, err, "get statistics")
		return
	}

	Success(ctx, stats)
}

// StatisticsByEntityType 按单据类型统计
// @Summary      按单据类型统计审批请求
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response
// @Router       /statistics/requests/by-entity-type [get]
// @Security     BearerAuth
func (c *QueryController) StatisticsByEntityType(ctx *gin.Context) {
	stats, err := c.statisticsService.GetRequestStatisticsByEntityType()
	if err != nil {
		HandleServiceError(ctx, err, "get statistics")
		return
	}

	Success(ctx, stats)
}

// StatisticsByTime 按日期统计
// @Summary      按提交日期统计审批请求
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response
// @Router       /statistics/requests/by-time [get]
// @Security     BearerAuth
func (c *QueryController) StatisticsByTime(ctx *gin.Context) {
	stats, err := c.statisticsService.GetRequestStatisticsByTime()
	if err != nil {
		HandleServiceError(ctx, err, "get statistics")
		return
	}

	Success(ctx, stats)
}

// StatisticsSummary 审批总体统计
// @Summary      审批总体统计
// @Description  总量、状态分布、批准率和平均审批时长
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response
// @Router       /statistics/summary [get]
// @Security     BearerAuth
func (c *QueryController) StatisticsSummary(ctx *gin.Context) {
	stats, err := c.statisticsService.GetApprovalStatistics()
	if err != nil {
		HandleServiceError(ctx, err, "get statistics")
		return
	}

	Success(ctx, stats)
}
