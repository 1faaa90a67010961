package service_test

import (
	"testing"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTemplateService 装配模板服务
func setupTemplateService(t *testing.T, db *gorm.DB) service.TemplateService {
	return service.NewTemplateService(repository.NewChainTemplateRepository(db), nil)
}

// TestTemplateService_Create 测试创建模板
func TestTemplateService_Create(t *testing.T) {
	db := setupServiceTestDB(t)
	templateSvc := setupTemplateService(t, db)

	tpl, err := templateSvc.Create(ctxWithUser(1), &service.CreateTemplateRequest{
		EntityType: "INVOICE",
		Name:       "发票审批链",
		Levels: []approval.ChainLevel{
			{LevelOrder: 1, LevelName: "会计审批", ApproverUserID: 400, Required: true},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tpl.ID)
	assert.False(t, tpl.Active)
	assert.Len(t, tpl.Levels, 1)

	found, err := templateSvc.Get(tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.Name, found.Name)
}

// TestTemplateService_Create_InvalidEntityType 测试未知单据类型
func TestTemplateService_Create_InvalidEntityType(t *testing.T) {
	db := setupServiceTestDB(t)
	templateSvc := setupTemplateService(t, db)

	_, err := templateSvc.Create(ctxWithUser(1), &service.CreateTemplateRequest{
		EntityType: "TIMESHEET",
		Name:       "工时审批链",
	})
	assert.Error(t, err)
}

// TestTemplateService_Create_InvalidLevels 测试级别顺序必须从 1 连续递增
func TestTemplateService_Create_InvalidLevels(t *testing.T) {
	db := setupServiceTestDB(t)
	templateSvc := setupTemplateService(t, db)

	_, err := templateSvc.Create(ctxWithUser(1), &service.CreateTemplateRequest{
		EntityType: "INVOICE",
		Name:       "发票审批链",
		Levels: []approval.ChainLevel{
			{LevelOrder: 1, ApproverUserID: 400},
			{LevelOrder: 3, ApproverUserID: 500},
		},
	})
	assert.ErrorIs(t, err, approval.ErrInvalidConfiguration)
}

// TestTemplateService_Activate 测试启用模板时同类型其他模板自动停用
func TestTemplateService_Activate(t *testing.T) {
	db := setupServiceTestDB(t)
	templateSvc := setupTemplateService(t, db)

	levels := []approval.ChainLevel{{LevelOrder: 1, ApproverUserID: 400}}
	first, err := templateSvc.Create(ctxWithUser(1), &service.CreateTemplateRequest{
		EntityType: "INVOICE", Name: "旧审批链", Levels: levels,
	})
	require.NoError(t, err)
	second, err := templateSvc.Create(ctxWithUser(1), &service.CreateTemplateRequest{
		EntityType: "INVOICE", Name: "新审批链", Levels: levels,
	})
	require.NoError(t, err)

	require.NoError(t, templateSvc.Activate(ctxWithUser(1), first.ID))

	active, err := templateSvc.ActiveTemplate(approval.EntityTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	// 启用第二个,第一个自动停用,缓存同步失效
	require.NoError(t, templateSvc.Activate(ctxWithUser(1), second.ID))

	active, err = templateSvc.ActiveTemplate(approval.EntityTypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	old, err := templateSvc.Get(first.ID)
	require.NoError(t, err)
	assert.False(t, old.Active)
}

// TestTemplateService_ReplaceLevels 测试整体替换级别
func TestTemplateService_ReplaceLevels(t *testing.T) {
	db := setupServiceTestDB(t)
	templateSvc := setupTemplateService(t, db)

	tpl, err := templateSvc.Create(ctxWithUser(1), &service.CreateTemplateRequest{
		EntityType: "QUOTATION",
		Name:       "报价审批链",
		Levels:     []approval.ChainLevel{{LevelOrder: 1, ApproverUserID: 200}},
	})
	require.NoError(t, err)

	updated, err := templateSvc.ReplaceLevels(ctxWithUser(1), tpl.ID, []approval.ChainLevel{
		{LevelOrder: 1, LevelName: "组长审批", ApproverUserID: 200},
		{LevelOrder: 2, LevelName: "部长审批", ApproverUserID: 300},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Levels, 2)

	// 非法级别序列整体拒绝,原级别保持不变
	_, err = templateSvc.ReplaceLevels(ctxWithUser(1), tpl.ID, []approval.ChainLevel{
		{LevelOrder: 2, ApproverUserID: 200},
	})
	assert.ErrorIs(t, err, approval.ErrInvalidConfiguration)

	found, err := templateSvc.Get(tpl.ID)
	require.NoError(t, err)
	assert.Len(t, found.Levels, 2)
}

// TestTemplateService_ActiveTemplate_None 测试无启用模板时报错
func TestTemplateService_ActiveTemplate_None(t *testing.T) {
	db := setupServiceTestDB(t)
	templateSvc := setupTemplateService(t, db)

	_, err := templateSvc.ActiveTemplate(approval.EntityTypeProject)
	assert.Error(t, err)
}

// TestTemplateService_Delete 测试删除模板
func TestTemplateService_Delete(t *testing.T) {
	db := setupServiceTestDB(t)
	templateSvc := setupTemplateService(t, db)

	tpl, err := templateSvc.Create(ctxWithUser(1), &service.CreateTemplateRequest{
		EntityType: "QUOTATION",
		Name:       "报价审批链",
		Levels:     []approval.ChainLevel{{LevelOrder: 1, ApproverUserID: 200}},
	})
	require.NoError(t, err)

	require.NoError(t, templateSvc.Delete(ctxWithUser(1), tpl.ID))

	_, err = templateSvc.Get(tpl.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
