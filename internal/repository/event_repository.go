package repository

import (
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"gorm.io/gorm"
)

// EventRepository 审批事件仓储接口
type EventRepository interface {
	Save(event *model.EventModel) error
	FindByRequestID(requestID string) ([]*model.EventModel, error)
	FindPending() ([]*model.EventModel, error)
	MarkStatus(id string, status string) error
}

// eventRepository 审批事件仓储实现
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建审批事件仓储
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Save 保存事件
func (r *eventRepository) Save(event *model.EventModel) error {
	return r.db.Save(event).Error
}

// FindByRequestID 根据审批请求 ID 查找事件
func (r *eventRepository) FindByRequestID(requestID string) ([]*model.EventModel, error) {
	var events []*model.EventModel
	err := r.db.Where("request_id = ?", requestID).Order("created_at ASC").Find(&events).Error
	return events, err
}

// FindPending 查找待推送的事件
func (r *eventRepository) FindPending() ([]*model.EventModel, error) {
	var events []*model.EventModel
	err := r.db.Where("status = ?", "pending").Order("created_at ASC").Find(&events).Error
	return events, err
}

// MarkStatus 更新事件推送状态
func (r *eventRepository) MarkStatus(id string, status string) error {
	return r.db.Model(&model.EventModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status}).Error
}
