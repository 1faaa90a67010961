package service_test

import (
	"testing"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedRequests 直接入库不同状态的审批请求记录
func seedRequests(t *testing.T, db *gorm.DB) {
	now := time.Now()
	rows := []struct {
		id          string
		entityType  string
		status      string
		completedAt *time.Time
	}{
		{"apr-001", "QUOTATION", "PENDING", nil},
		{"apr-002", "QUOTATION", "APPROVED", ptrTime(now.Add(-time.Hour))},
		{"apr-003", "INVOICE", "APPROVED", ptrTime(now.Add(-2 * time.Hour))},
		{"apr-004", "INVOICE", "REJECTED", ptrTime(now.Add(-30 * time.Minute))},
	}
	for _, row := range rows {
		submittedAt := now.Add(-3 * time.Hour)
		m := &model.ApprovalRequestModel{
			ID:          row.id,
			Version:     1,
			EntityType:  row.entityType,
			EntityID:    "doc-" + row.id,
			CurrentLevel: 1,
			TotalLevels: 1,
			Status:      row.status,
			SubmittedBy: 100,
			SubmittedAt: submittedAt,
			CompletedAt: row.completedAt,
			Data:        []byte(`{}`),
			CreatedAt:   submittedAt,
			UpdatedAt:   now,
		}
		require.NoError(t, db.Create(m).Error)
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

// TestStatisticsService_ByStatus 测试按状态统计
func TestStatisticsService_ByStatus(t *testing.T) {
	db := setupServiceTestDB(t)
	seedRequests(t, db)
	statsSvc := service.NewStatisticsService(db)

	stats, err := statsSvc.GetRequestStatisticsByStatus()
	require.NoError(t, err)

	counts := make(map[string]int64)
	for _, s := range stats {
		counts[s.Status] = s.Count
	}
	assert.Equal(t, int64(1), counts["PENDING"])
	assert.Equal(t, int64(2), counts["APPROVED"])
	assert.Equal(t, int64(1), counts["REJECTED"])
}

// TestStatisticsService_ByEntityType 测试按单据类型统计
func TestStatisticsService_ByEntityType(t *testing.T) {
	db := setupServiceTestDB(t)
	seedRequests(t, db)
	statsSvc := service.NewStatisticsService(db)

	stats, err := statsSvc.GetRequestStatisticsByEntityType()
	require.NoError(t, err)

	counts := make(map[string]int64)
	for _, s := range stats {
		counts[s.EntityType] = s.Count
	}
	assert.Equal(t, int64(2), counts["QUOTATION"])
	assert.Equal(t, int64(2), counts["INVOICE"])
}

// TestStatisticsService_Summary 测试总体统计
// 批准率只看终态请求: 3 条终态中 2 条批准
func TestStatisticsService_Summary(t *testing.T) {
	db := setupServiceTestDB(t)
	seedRequests(t, db)
	statsSvc := service.NewStatisticsService(db)

	stats, err := statsSvc.GetApprovalStatistics()
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.PendingCount)
	assert.Equal(t, int64(2), stats.ApprovedCount)
	assert.Equal(t, int64(1), stats.RejectedCount)
	assert.InDelta(t, 66.67, stats.ApprovalRate, 0.01)
	assert.Greater(t, stats.AverageApprovalTime, 0.0)
}

// TestStatisticsService_Empty 测试空库统计
func TestStatisticsService_Empty(t *testing.T) {
	db := setupServiceTestDB(t)
	statsSvc := service.NewStatisticsService(db)

	stats, err := statsSvc.GetApprovalStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, 0.0, stats.ApprovalRate)
	assert.Equal(t, 0.0, stats.AverageApprovalTime)
}
