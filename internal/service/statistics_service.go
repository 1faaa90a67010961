package service

import (
	"fmt"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/gorm"
)

// StatisticsService 统计服务接口
type StatisticsService interface {
	GetRequestStatisticsByStatus() ([]*RequestStatisticsByStatus, error)
	GetRequestStatisticsByEntityType() ([]*RequestStatisticsByEntityType, error)
	GetRequestStatisticsByTime() ([]*RequestStatisticsByTime, error)
	GetApprovalStatistics() (*ApprovalStatistics, error)
}

// RequestStatisticsByStatus 按状态统计
type RequestStatisticsByStatus struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// RequestStatisticsByEntityType 按单据类型统计
type RequestStatisticsByEntityType struct {
	EntityType string `json:"entity_type"`
	Count      int64  `json:"count"`
}

// RequestStatisticsByTime 按时间统计
type RequestStatisticsByTime struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ApprovalStatistics 审批统计
type ApprovalStatistics struct {
	TotalRequests       int64   `json:"total_requests"`
	PendingCount        int64   `json:"pending_count"`
	ApprovedCount       int64   `json:"approved_count"`
	RejectedCount       int64   `json:"rejected_count"`
	ApprovalRate        float64 `json:"approval_rate"`         // 终态中批准的比例,百分比
	AverageApprovalTime float64 `json:"average_approval_time"` // 单位：秒
}

// statisticsService 统计服务实现
type statisticsService struct {
	db *gorm.DB
}

// NewStatisticsService 创建统计服务
func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetRequestStatisticsByStatus 按状态统计审批请求
func (s *statisticsService) GetRequestStatisticsByStatus() ([]*RequestStatisticsByStatus, error) {
	var results []struct {
		Status string
		Count  int64
	}

	err := s.db.Model(&model.ApprovalRequestModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get request statistics by status: %w", err)
	}

	stats := make([]*RequestStatisticsByStatus, 0, len(results))
	for _, r := range results {
		stats = append(stats, &RequestStatisticsByStatus{
			Status: r.Status,
			Count:  r.Count,
		})
	}

	return stats, nil
}

// GetRequestStatisticsByEntityType 按单据类型统计审批请求
func (s *statisticsService) GetRequestStatisticsByEntityType() ([]*RequestStatisticsByEntityType, error) {
	var results []struct {
		EntityType string
		Count      int64
	}

	err := s.db.Model(&model.ApprovalRequestModel{}).
		Select("entity_type, COUNT(*) as count").
		Group("entity_type").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get request statistics by entity type: %w", err)
	}

	stats := make([]*RequestStatisticsByEntityType, 0, len(results))
	for _, r := range results {
		stats = append(stats, &RequestStatisticsByEntityType{
			EntityType: r.EntityType,
			Count:      r.Count,
		})
	}

	return stats, nil
}

// GetRequestStatisticsByTime 按提交日期统计审批请求
func (s *statisticsService) GetRequestStatisticsByTime() ([]*RequestStatisticsByTime, error) {
	var results []struct {
		Date  string
		Count int64
	}

	err := s.db.Model(&model.ApprovalRequestModel{}).
		Select("DATE(submitted_at) as date, COUNT(*) as count").
		Group("DATE(submitted_at)").
		Order("date DESC").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get request statistics by time: %w", err)
	}

	stats := make([]*RequestStatisticsByTime, 0, len(results))
	for _, r := range results {
		stats = append(stats, &RequestStatisticsByTime{
			Date:  r.Date,
			Count: r.Count,
		})
	}

	return stats, nil
}

// GetApprovalStatistics 获取审批总体统计
// 批准率只看终态请求,进行中的不计入分母
func (s *statisticsService) GetApprovalStatistics() (*ApprovalStatistics, error) {
	var totalCount int64
	err := s.db.Model(&model.ApprovalRequestModel{}).Count(&totalCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count approval requests: %w", err)
	}

	var pendingCount int64
	err = s.db.Model(&model.ApprovalRequestModel{}).
		Where("status = ?", "PENDING").
		Count(&pendingCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}

	var approvedCount int64
	err = s.db.Model(&model.ApprovalRequestModel{}).
		Where("status = ?", "APPROVED").
		Count(&approvedCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count approved requests: %w", err)
	}

	var rejectedCount int64
	err = s.db.Model(&model.ApprovalRequestModel{}).
		Where("status = ?", "REJECTED").
		Count(&rejectedCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count rejected requests: %w", err)
	}

	approvalRate := 0.0
	completed := approvedCount + rejectedCount
	if completed > 0 {
		approvalRate = float64(approvedCount) / float64(completed) * 100
	}

	// 平均审批时长在应用侧计算,避免日期函数的方言差异
	var durations []struct {
		SubmittedAt time.Time
		CompletedAt time.Time
	}
	err = s.db.Model(&model.ApprovalRequestModel{}).
		Select("submitted_at, completed_at").
		Where("completed_at IS NOT NULL").
		Scan(&durations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load completed requests: %w", err)
	}

	averageSeconds := 0.0
	if len(durations) > 0 {
		var total float64
		for _, d := range durations {
			total += d.CompletedAt.Sub(d.SubmittedAt).Seconds()
		}
		averageSeconds = total / float64(len(durations))
	}

	return &ApprovalStatistics{
		TotalRequests:       totalCount,
		PendingCount:        pendingCount,
		ApprovedCount:       approvedCount,
		RejectedCount:       rejectedCount,
		ApprovalRate:        approvalRate,
		AverageApprovalTime: averageSeconds,
	}, nil
}
