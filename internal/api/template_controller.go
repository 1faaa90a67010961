package api

import (
	"net/http"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/gin-gonic/gin"
)

// TemplateController 审批链模板控制器
type TemplateController struct {
	templateService service.TemplateService
}

// NewTemplateController 创建模板控制器
func NewTemplateController(templateService service.TemplateService) *TemplateController {
	return &TemplateController{
		templateService: templateService,
	}
}

// validateTemplateID 验证模板 ID 并返回错误响应（如果无效）
func (c *TemplateController) validateTemplateID(ctx *gin.Context, id string) bool {
	if err := utils.ValidateTemplateID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid template ID", err.Error())
		return false
	}
	return true
}

// Create 创建模板
// @Summary      创建审批链模板
// @Description  为某类单据创建新的审批链模板,级别可为空后续配置
// @Tags         模板管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateTemplateRequest true "模板信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /templates [post]
// @Security    BearerAuth
func (c *TemplateController) Create(ctx *gin.Context) {
	var req service.CreateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	// 输入验证和清理
	if err := utils.ValidateTemplateName(req.Name); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid template name", err.Error())
		return
	}
	req.Name, _ = utils.TrimAndValidate(req.Name, 255)
	if req.Description != "" {
		req.Description, _ = utils.TrimAndValidate(req.Description, 1000)
	}

	template, err := c.templateService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err, "create template")
		return
	}

	Success(ctx, template)
}

// Get 获取模板
// @Summary      获取模板详情
// @Description  根据 ID 获取模板详情,含审批级别
// @Tags         模板管理
// @Produce      json
// @Param        id path string true "模板 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /templates/{id} [get]
// @Security     BearerAuth
func (c *TemplateController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTemplateID(ctx, id) {
		return
	}

	template, err := c.templateService.Get(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "template not found", err.Error())
		return
	}

	Success(ctx, template)
}

// Update 更新模板
// @Summary      更新模板基础信息
// @Description  更新模板名称和描述,级别变更走 PUT /templates/{id}/levels
// @Tags         模板管理
// @Accept       json
// @Produce      json
// @Param        id path string true "模板 ID"
// @Param        request body service.UpdateTemplateRequest true "模板信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /templates/{id} [put]
// @Security     BearerAuth
func (c *TemplateController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTemplateID(ctx, id) {
		return
	}

	var req service.UpdateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if req.Name != "" {
		if err := utils.ValidateTemplateName(req.Name); err != nil {
			Error(ctx, http.StatusBadRequest, "invalid template name", err.Error())
			return
		}
		req.Name, _ = utils.TrimAndValidate(req.Name, 255)
	}
	if req.Description != "" {
		req.Description, _ = utils.TrimAndValidate(req.Description, 1000)
	}

	template, err := c.templateService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(ctx, err, "update template")
		return
	}

	Success(ctx, template)
}

// ReplaceLevels 替换模板级别
// @Summary      替换审批级别
// @Description  整体替换模板的审批级别,级别顺序必须是从 1 开始的连续整数
// @Tags         模板管理
// @Accept       json
// @Produce      json
// @Param        id path string true "模板 ID"
// @Param        request body []approval.ChainLevel true "审批级别"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /templates/{id}/levels [put]
// @Security     BearerAuth
func (c *TemplateController) ReplaceLevels(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTemplateID(ctx, id) {
		return
	}

	var levels []approval.ChainLevel
	if err := ctx.ShouldBindJSON(&levels); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	template, err := c.templateService.ReplaceLevels(ctx.Request.Context(), id, levels)
	if err != nil {
		HandleServiceError(ctx, err, "replace template levels")
		return
	}

	Success(ctx, template)
}

// Activate 启用模板
// @Summary      启用模板
// @Description  启用模板,同一单据类型下其他模板自动停用
// @Tags         模板管理
// @Produce      json
// @Param        id path string true "模板 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /templates/{id}/activate [post]
// @Security     BearerAuth
func (c *TemplateController) Activate(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTemplateID(ctx, id) {
		return
	}

	if err := c.templateService.Activate(ctx.Request.Context(), id); err != nil {
		HandleServiceError(ctx, err, "activate template")
		return
	}

	Success(ctx, nil)
}

// Delete 删除模板
// @Summary      删除审批链模板
// @Description  删除模板,在途审批请求持有级别快照不受影响
// @Tags         模板管理
// @Produce      json
// @Param        id path string true "模板 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /templates/{id} [delete]
// @Security     BearerAuth
func (c *TemplateController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTemplateID(ctx, id) {
		return
	}

	if err := c.templateService.Delete(ctx.Request.Context(), id); err != nil {
		HandleServiceError(ctx, err, "delete template")
		return
	}

	Success(ctx, nil)
}

// List 列出模板
// @Summary      获取模板列表
// @Description  列出全部审批链模板
// @Tags         模板管理
// @Produce      json
// @Success      200  {object}  Response
// @Failure      401  {object}  ErrorResponse
// @Router       /templates [get]
// @Security     BearerAuth
func (c *TemplateController) List(ctx *gin.Context) {
	templates, err := c.templateService.List()
	if err != nil {
		HandleServiceError(ctx, err, "list templates")
		return
	}

	Success(ctx, templates)
}
