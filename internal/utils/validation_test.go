package utils_test

import (
	"strings"
	"testing"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/utils"
	"github.com/stretchr/testify/assert"
)

// TestValidateResourceID 测试资源 ID 校验
func TestValidateResourceID(t *testing.T) {
	assert.NoError(t, utils.ValidateResourceID("apr-001"))
	assert.NoError(t, utils.ValidateResourceID("tpl_2026_Q1"))

	assert.ErrorIs(t, utils.ValidateResourceID(""), utils.ErrEmptyID)
	assert.ErrorIs(t, utils.ValidateResourceID("apr 001"), utils.ErrInvalidIDFormat)
	assert.ErrorIs(t, utils.ValidateResourceID("apr';--"), utils.ErrInvalidIDFormat)
	assert.ErrorIs(t, utils.ValidateResourceID(strings.Repeat("a", 65)), utils.ErrIDTooLong)
}

// TestValidateTemplateName 测试模板名称校验
func TestValidateTemplateName(t *testing.T) {
	assert.NoError(t, utils.ValidateTemplateName("报价单审批链"))

	assert.ErrorIs(t, utils.ValidateTemplateName("   "), utils.ErrEmptyName)
	assert.ErrorIs(t, utils.ValidateTemplateName(strings.Repeat("a", 256)), utils.ErrNameTooLong)
	assert.ErrorIs(t, utils.ValidateTemplateName("<script>alert(1)</script>"), utils.ErrDangerousChars)
	assert.ErrorIs(t, utils.ValidateTemplateName("x'; DROP TABLE chain_templates"), utils.ErrDangerousChars)
}

// TestValidateSortField 测试排序字段校验
func TestValidateSortField(t *testing.T) {
	assert.NoError(t, utils.ValidateSortField("submitted_at"))
	assert.NoError(t, utils.ValidateSortField("entity_type"))

	assert.Error(t, utils.ValidateSortField(""))
	assert.Error(t, utils.ValidateSortField("submitted_at; DROP TABLE x"))
	assert.Error(t, utils.ValidateSortField("1=1 OR"))
}

// TestTrimAndValidate 测试清理校验
func TestTrimAndValidate(t *testing.T) {
	out, err := utils.TrimAndValidate("  同意  ", 32)
	assert.NoError(t, err)
	assert.Equal(t, "同意", out)

	_, err = utils.TrimAndValidate("   ", 32)
	assert.ErrorIs(t, err, utils.ErrEmptyString)

	_, err = utils.TrimAndValidate(strings.Repeat("a", 33), 32)
	assert.ErrorIs(t, err, utils.ErrStringTooLong)
}
