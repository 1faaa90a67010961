package repository_test

import (
	"testing"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRequestTestDB 创建测试数据库
func setupRequestTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.ApprovalRequestModel{})
	require.NoError(t, err)

	return db
}

// newRequestModel 构造一条可入库的审批请求记录
func newRequestModel(id string, entityID string, approver int64) *model.ApprovalRequestModel {
	now := time.Now()
	return &model.ApprovalRequestModel{
		ID:              id,
		Version:         1,
		EntityType:      "QUOTATION",
		EntityID:        entityID,
		CurrentLevel:    1,
		TotalLevels:     2,
		Status:          "PENDING",
		SubmittedBy:     100,
		SubmittedAt:     now,
		CurrentApprover: approver,
		Data:            []byte(`{"id":"` + id + `"}`),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// TestRequestRepository_CreateAndFindByID 测试保存和查找审批请求
func TestRequestRepository_CreateAndFindByID(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := repository.NewApprovalRequestRepository(db)

	req := newRequestModel("apr-001", "quo-001", 200)
	err := repo.Create(req)
	require.NoError(t, err)

	found, err := repo.FindByID("apr-001")
	assert.NoError(t, err)
	assert.Equal(t, "apr-001", found.ID)
	assert.Equal(t, "QUOTATION", found.EntityType)
	assert.Equal(t, 1, found.Version)
}

// TestRequestRepository_Create_Invalid 测试保存缺少必填字段的请求
func TestRequestRepository_Create_Invalid(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := repository.NewApprovalRequestRepository(db)

	req := newRequestModel("apr-001", "quo-001", 200)
	req.EntityID = ""

	err := repo.Create(req)
	assert.Error(t, err)
}

// TestRequestRepository_FindByID_NotFound 测试查找不存在的请求
func TestRequestRepository_FindByID_NotFound(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := repository.NewApprovalRequestRepository(db)

	_, err := repo.FindByID("apr-missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestRequestRepository_FindByEntity 测试按业务单据查找
func TestRequestRepository_FindByEntity(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := repository.NewApprovalRequestRepository(db)

	require.NoError(t, repo.Create(newRequestModel("apr-001", "quo-001", 200)))
	require.NoError(t, repo.Create(newRequestModel("apr-002", "quo-001", 200)))
	require.NoError(t, repo.Create(newRequestModel("apr-003", "quo-002", 200)))

	reqs, err := repo.FindByEntity("QUOTATION", "quo-001")
	assert.NoError(t, err)
	assert.Len(t, reqs, 2)
}

// TestRequestRepository_FindPendingByApprover 测试待办查询
// 只返回当前轮到该审批人的 PENDING 请求
func TestRequestRepository_FindPendingByApprover(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := repository.NewApprovalRequestRepository(db)

	require.NoError(t, repo.Create(newRequestModel("apr-001", "quo-001", 200)))
	require.NoError(t, repo.Create(newRequestModel("apr-002", "quo-002", 300)))

	completed := newRequestModel("apr-003", "quo-003", 200)
	completed.Status = "APPROVED"
	require.NoError(t, repo.Create(completed))

	reqs, err := repo.FindPendingByApprover(200)
	assert.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "apr-001", reqs[0].ID)
}

// TestRequestRepository_FindByFilter 测试过滤和分页
func TestRequestRepository_FindByFilter(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := repository.NewApprovalRequestRepository(db)

	require.NoError(t, repo.Create(newRequestModel("apr-001", "quo-001", 200)))
	require.NoError(t, repo.Create(newRequestModel("apr-002", "quo-002", 200)))

	rejected := newRequestModel("apr-003", "quo-003", 200)
	rejected.Status = "REJECTED"
	require.NoError(t, repo.Create(rejected))

	status := "PENDING"
	reqs, total, err := repo.FindByFilter(&repository.RequestFilter{
		Status:   &status,
		Page:     1,
		PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reqs, 2)
}

// TestRequestRepository_FindByFilter_SortWhitelist 测试排序字段白名单
// 非法排序字段直接报错,不拼入 SQL
func TestRequestRepository_FindByFilter_SortWhitelist(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := repository.NewApprovalRequestRepository(db)

	require.NoError(t, repo.Create(newRequestModel("apr-001", "quo-001", 200)))

	_, _, err := repo.FindByFilter(&repository.RequestFilter{
		SortBy: "submitted_at; DROP TABLE approval_requests",
	})
	assert.Error(t, err)

	reqs, total, err := repo.FindByFilter(&repository.RequestFilter{
		SortBy: "submitted_at",
		Order:  "asc",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, reqs, 1)
}

// TestRequestRepository_Update_OptimisticLock 测试乐观锁
// 两次基于同一版本的保存,第二次返回 ErrOptimisticLock
func TestRequestRepository_Update_OptimisticLock(t *testing.T) {
	db := setupRequestTestDB(t)
	repo := repository.NewApprovalRequestRepository(db)

	req := newRequestModel("apr-001", "quo-001", 200)
	require.NoError(t, repo.Create(req))

	// 第一次更新: 版本 1 -> 2
	first := newRequestModel("apr-001", "quo-001", 300)
	first.Version = 2
	first.CurrentLevel = 2
	err := repo.Update(first, 1)
	assert.NoError(t, err)

	// 第二次基于过期版本 1 的更新失败
	second := newRequestModel("apr-001", "quo-001", 0)
	second.Version = 2
	second.Status = "REJECTED"
	err = repo.Update(second, 1)
	assert.ErrorIs(t, err, repository.ErrOptimisticLock)

	// 数据库保留第一次更新的结果
	found, err := repo.FindByID("apr-001")
	require.NoError(t, err)
	assert.Equal(t, 2, found.Version)
	assert.Equal(t, "PENDING", found.Status)
	assert.Equal(t, 2, found.CurrentLevel)
}
