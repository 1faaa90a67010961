package service

import (
	"encoding/json"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/model"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 审批事件类型
const (
	EventSubmitted = "submitted"
	EventApproved  = "approved"
	EventRejected  = "rejected"
	EventCommented = "commented"
)

// Event 审批事件
// 状态转换持久化成功后发出,用于驱动前端刷新和后续通知
type Event struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`
	RequestID    string                 `json:"request_id"`
	EntityType   approval.EntityType    `json:"entity_type"`
	EntityID     string                 `json:"entity_id"`
	Status       approval.RequestStatus `json:"status"`
	CurrentLevel int                    `json:"current_level"`
	CreatedAt    time.Time              `json:"created_at"`
}

// EventSink 事件推送出口
// 由 websocket hub 实现;推送失败不影响审批结果
type EventSink interface {
	Publish(requestID string, payload []byte)
}

// EventService 审批事件服务
// 事件先落库作为发件箱,再异步经 worker 推送;队列满时丢弃推送
// 但保留落库记录,可由重试任务补发
type EventService interface {
	Emit(eventType string, req *approval.Request)
	History(requestID string) ([]*model.EventModel, error)
	Close()
}

// eventService 审批事件服务实现
type eventService struct {
	eventRepo repository.EventRepository
	sink      EventSink
	logger    *logrus.Logger
	queue     chan *Event
	stop      chan struct{}
}

// NewEventService 创建审批事件服务并启动推送 worker
func NewEventService(eventRepo repository.EventRepository, sink EventSink, logger *logrus.Logger, workers int) EventService {
	if workers <= 0 {
		workers = 1
	}

	s := &eventService{
		eventRepo: eventRepo,
		sink:      sink,
		logger:    logger,
		queue:     make(chan *Event, 1000),
		stop:      make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		go s.worker()
	}

	return s
}

// Emit 发出审批事件
// 先写入发件箱,再尝试入队推送;任何失败只记日志,不向调用方返回错误
func (s *eventService) Emit(eventType string, req *approval.Request) {
	evt := &Event{
		ID:           uuid.New().String(),
		Type:         eventType,
		RequestID:    req.ID,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		Status:       req.Status,
		CurrentLevel: req.CurrentLevel,
		CreatedAt:    time.Now(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal approval event")
		return
	}

	eventModel := &model.EventModel{
		ID:        evt.ID,
		RequestID: evt.RequestID,
		Type:      evt.Type,
		Data:      data,
		Status:    "pending",
		CreatedAt: evt.CreatedAt,
		UpdatedAt: evt.CreatedAt,
	}
	if err := s.eventRepo.Save(eventModel); err != nil {
		s.logger.WithError(err).WithField("request_id", evt.RequestID).Warn("failed to save approval event")
		return
	}

	select {
	case s.queue <- evt:
	default:
		// 队列满时不阻塞审批主流程,落库记录留待补发
		s.logger.WithFields(logrus.Fields{
			"type":       evt.Type,
			"request_id": evt.RequestID,
		}).Warn("event queue full, dropping push")
	}
}

// worker 事件推送 worker
func (s *eventService) worker() {
	for {
		select {
		case evt := <-s.queue:
			s.push(evt)
		case <-s.stop:
			return
		}
	}
}

// push 推送单个事件并更新发件箱状态
func (s *eventService) push(evt *Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}

	if s.sink != nil {
		s.sink.Publish(evt.RequestID, data)
	}

	if err := s.eventRepo.MarkStatus(evt.ID, "success"); err != nil {
		s.logger.WithError(err).WithField("event_id", evt.ID).Warn("failed to mark event status")
	}
}

// History 查询审批请求的事件历史
func (s *eventService) History(requestID string) ([]*model.EventModel, error) {
	return s.eventRepo.FindByRequestID(requestID)
}

// Close 停止推送 worker
func (s *eventService) Close() {
	close(s.stop)
}
