package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	gocache "github.com/patrickmn/go-cache"
)

// ChainTemplateProvider 审批链模板提供方
// 创建审批请求时查询一次,拿到带级别的启用中模板
type ChainTemplateProvider interface {
	ActiveTemplate(entityType approval.EntityType) (*approval.ChainTemplate, error)
}

// TemplateService 审批链模板服务接口
type TemplateService interface {
	ChainTemplateProvider
	Create(ctx context.Context, req *CreateTemplateRequest) (*approval.ChainTemplate, error)
	Get(id string) (*approval.ChainTemplate, error)
	Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*approval.ChainTemplate, error)
	ReplaceLevels(ctx context.Context, id string, levels []approval.ChainLevel) (*approval.ChainTemplate, error)
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List() ([]*approval.ChainTemplate, error)
}

// CreateTemplateRequest 创建模板请求
// @Description 创建审批链模板的请求参数
type CreateTemplateRequest struct {
	EntityType  string                 `json:"entity_type" example:"QUOTATION" binding:"required"` // 单据类型
	Name        string                 `json:"name" example:"报价单审批链" binding:"required"`      // 模板名称
	Description string                 `json:"description" example:"报价单三级审批"`                // 模板描述
	Levels      []approval.ChainLevel  `json:"levels"`                                             // 审批级别,可为空
}

// UpdateTemplateRequest 更新模板请求
// @Description 更新审批链模板的请求参数(级别的变更走 ReplaceLevels)
type UpdateTemplateRequest struct {
	Name        string `json:"name" example:"报价单审批链"`   // 模板名称
	Description string `json:"description" example:"三级审批"` // 模板描述
}

// templateService 模板服务实现
type templateService struct {
	templateRepo repository.ChainTemplateRepository
	auditLogSvc  AuditLogService
	cache        *gocache.Cache // 启用中模板缓存,按单据类型为键
}

// NewTemplateService 创建模板服务
func NewTemplateService(templateRepo repository.ChainTemplateRepository, auditLogSvc AuditLogService) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		auditLogSvc:  auditLogSvc,
		cache:        gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// generateTemplateID 生成模板 ID
func generateTemplateID() string {
	return fmt.Sprintf("tpl-%d", time.Now().UnixNano())
}

// toModel 将领域模板序列化为数据模型
func toTemplateModel(tpl *approval.ChainTemplate, createdBy int64, updatedBy int64) (*model.ChainTemplateModel, error) {
	data, err := json.Marshal(tpl)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}
	return &model.ChainTemplateModel{
		ID:          tpl.ID,
		EntityType:  string(tpl.EntityType),
		Name:        tpl.Name,
		Description: tpl.Description,
		Active:      tpl.Active,
		Data:        data,
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
		CreatedBy:   createdBy,
		UpdatedBy:   updatedBy,
	}, nil
}

// fromTemplateModel 从数据模型反序列化领域模板
func fromTemplateModel(m *model.ChainTemplateModel) (*approval.ChainTemplate, error) {
	var tpl approval.ChainTemplate
	if err := json.Unmarshal(m.Data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	// Active 以列为准,Activate 只改列不重写 Data
	tpl.Active = m.Active
	return &tpl, nil
}

// Create 创建模板
func (s *templateService) Create(ctx context.Context, req *CreateTemplateRequest) (*approval.ChainTemplate, error) {
	entityType := approval.EntityType(req.EntityType)
	if !entityType.IsValid() {
		return nil, fmt.Errorf("unknown entity type: %q", req.EntityType)
	}

	now := time.Now()
	tpl := &approval.ChainTemplate{
		ID:          generateTemplateID(),
		EntityType:  entityType,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tpl.ReplaceAllLevels(req.Levels); err != nil {
		return nil, err
	}

	userID := getUserIDFromContext(ctx)
	m, err := toTemplateModel(tpl, userID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(m); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "create", "template", tpl.ID, map[string]interface{}{
			"entity_type": tpl.EntityType,
			"name":        tpl.Name,
			"levels":      len(tpl.Levels),
		})
	}

	return tpl, nil
}

// Get 获取模板详情
func (s *templateService) Get(id string) (*approval.ChainTemplate, error) {
	m, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return fromTemplateModel(m)
}

// Update 更新模板名称和描述
func (s *templateService) Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*approval.ChainTemplate, error) {
	m, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	tpl, err := fromTemplateModel(m)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		tpl.Name = req.Name
	}
	if req.Description != "" {
		tpl.Description = req.Description
	}
	tpl.UpdatedAt = time.Now()

	userID := getUserIDFromContext(ctx)
	updated, err := toTemplateModel(tpl, m.CreatedBy, userID)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(updated); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	s.invalidate(tpl.EntityType)

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "update", "template", id, req)
	}

	return tpl, nil
}

// ReplaceLevels 整体替换模板的审批级别
// 不提供单级增删接口,级别顺序不变量由领域模板保证
func (s *templateService) ReplaceLevels(ctx context.Context, id string, levels []approval.ChainLevel) (*approval.ChainTemplate, error) {
	m, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	tpl, err := fromTemplateModel(m)
	if err != nil {
		return nil, err
	}

	if err := tpl.ReplaceAllLevels(levels); err != nil {
		return nil, err
	}

	userID := getUserIDFromContext(ctx)
	updated, err := toTemplateModel(tpl, m.CreatedBy, userID)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(updated); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	s.invalidate(tpl.EntityType)

	if s.auditLogSvc != nil && userID != 0 {
		_ = s.auditLogSvc.RecordAction(ctx, userID, "replace_levels", "template", id, map[string]interface{}{
			"levels": len(levels),
		})
	}

	return tpl, nil
}

// Activate 启用模板,同类型的其他模板自动停用
func (s *templateService) Activate(ctx context.Context, id string) error {
	m, err := s.templateRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.templateRepo.Activate(id); err != nil {
		return fmt.Errorf("failed to activate template: %w", err)
	}
	s.invalidate(approval.EntityType(m.EntityType))

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != 0 {
			_ = s.auditLogSvc.RecordAction(ctx, userID, "activate", "template", id, nil)
		}
	}
	return nil
}

// Delete 删除模板
// 在途的审批请求持有创建时的级别快照,不受删除影响
func (s *templateService) Delete(ctx context.Context, id string) error {
	m, err := s.templateRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.templateRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	s.invalidate(approval.EntityType(m.EntityType))

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != 0 {
			_ = s.auditLogSvc.RecordAction(ctx, userID, "delete", "template", id, nil)
		}
	}
	return nil
}

// List 列出所有模板
func (s *templateService) List() ([]*approval.ChainTemplate, error) {
	models, err := s.templateRepo.FindAll()
	if err != nil {
		return nil, err
	}
	tpls := make([]*approval.ChainTemplate, 0, len(models))
	for _, m := range models {
		tpl, err := fromTemplateModel(m)
		if err != nil {
			return nil, err
		}
		tpls = append(tpls, tpl)
	}
	return tpls, nil
}

// ActiveTemplate 查询某单据类型启用中的模板(带缓存)
func (s *templateService) ActiveTemplate(entityType approval.EntityType) (*approval.ChainTemplate, error) {
	if cached, ok := s.cache.Get(string(entityType)); ok {
		return cached.(*approval.ChainTemplate), nil
	}

	m, err := s.templateRepo.FindActiveByEntityType(string(entityType))
	if err != nil {
		return nil, fmt.Errorf("no active template for entity type %q: %w", entityType, err)
	}
	tpl, err := fromTemplateModel(m)
	if err != nil {
		return nil, err
	}

	s.cache.Set(string(entityType), tpl, gocache.DefaultExpiration)
	return tpl, nil
}

// invalidate 清除某单据类型的启用模板缓存
func (s *templateService) invalidate(entityType approval.EntityType) {
	s.cache.Delete(string(entityType))
}
