package api

import (
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/gin-gonic/gin"
)

// ProjectController 项目控制器
type ProjectController struct {
	projectService service.ProjectService
}

// NewProjectController 创建项目控制器
func NewProjectController(projectService service.ProjectService) *ProjectController {
	return &ProjectController{
		projectService: projectService,
	}
}

// Create 创建项目
// @Summary      创建项目
// @Description  创建新项目并自动分配 JOB 编号
// @Tags         项目管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateProjectRequest true "项目信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /projects [post]
// @Security     BearerAuth
func (c *ProjectController) Create(ctx *gin.Context) {
	var req service.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	project, err := c.projectService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err, "create project")
		return
	}

	Success(ctx, project)
}

// Get 获取项目
// @Summary      获取项目详情
// @Tags         项目管理
// @Produce      json
// @Param        id path string true "项目 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id} [get]
// @Security     BearerAuth
func (c *ProjectController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid project ID", err.Error())
		return
	}

	project, err := c.projectService.Get(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "project not found", err.Error())
		return
	}

	Success(ctx, project)
}

// List 列出项目
// @Summary      获取项目列表
// @Description  分页获取项目列表,支持按状态和客户筛选
// @Tags         项目管理
// @Produce      json
// @Param        status query string false "项目状态"
// @Param        customer_name query string false "客户名称"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200  {object}  PaginatedResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /projects [get]
// @Security     BearerAuth
func (c *ProjectController) List(ctx *gin.Context) {
	var query struct {
		Status       string `form:"status"`
		CustomerName string `form:"customer_name"`
		Page         int    `form:"page"`
		PageSize     int    `form:"page_size"`
	}
	if err := ctx.ShouldBindQuery(&query); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 || query.PageSize > 100 {
		query.PageSize = 20
	}

	filter := &repository.ProjectFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		filter.Status = &query.Status
	}
	if query.CustomerName != "" {
		filter.CustomerName = &query.CustomerName
	}

	projects, total, err := c.projectService.List(filter)
	if err != nil {
		HandleServiceError(ctx, err, "list projects")
		return
	}

	Paginated(ctx, projects, NewPaginationInfo(query.Page, query.PageSize, total))
}

// Update 更新项目
// @Summary      更新项目
// @Tags         项目管理
// @Accept       json
// @Produce      json
// @Param        id path string true "项目 ID"
// @Param        request body service.UpdateProjectRequest true "项目信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id} [put]
// @Security     BearerAuth
func (c *ProjectController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateResourceID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid project ID", err.Error())
		return
	}

	var req service.UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	project, err := c.projectService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(ctx, err, "update project")
		return
	}

	Success(ctx, project)
}
