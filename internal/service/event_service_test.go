package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/approval"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/repository"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink 收集推送事件的测试 sink
type captureSink struct {
	mu       sync.Mutex
	payloads map[string][][]byte
}

func newCaptureSink() *captureSink {
	return &captureSink{payloads: make(map[string][][]byte)}
}

func (s *captureSink) Publish(requestID string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[requestID] = append(s.payloads[requestID], payload)
}

func (s *captureSink) count(requestID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads[requestID])
}

// TestEventService_EmitAndPush 测试事件先落库后异步推送
func TestEventService_EmitAndPush(t *testing.T) {
	db := setupServiceTestDB(t)
	sink := newCaptureSink()

	logger := logrus.New()
	eventSvc := service.NewEventService(repository.NewEventRepository(db), sink, logger, 2)
	defer eventSvc.Close()

	req := &approval.Request{
		ID:           "apr-001",
		EntityType:   approval.EntityTypeQuotation,
		EntityID:     "quo-001",
		Status:       approval.StatusPending,
		CurrentLevel: 1,
	}
	eventSvc.Emit(service.EventSubmitted, req)

	// 发件箱立即可查
	events, err := eventSvc.History("apr-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, service.EventSubmitted, events[0].Type)

	// 推送异步完成
	assert.Eventually(t, func() bool {
		return sink.count("apr-001") == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 推送成功后发件箱状态更新
	assert.Eventually(t, func() bool {
		events, err := eventSvc.History("apr-001")
		return err == nil && len(events) == 1 && events[0].Status == "success"
	}, 2*time.Second, 10*time.Millisecond)
}

// TestEventService_EmitMultiple 测试同一请求的多个事件按序落库
func TestEventService_EmitMultiple(t *testing.T) {
	db := setupServiceTestDB(t)
	sink := newCaptureSink()

	eventSvc := service.NewEventService(repository.NewEventRepository(db), sink, logrus.New(), 1)
	defer eventSvc.Close()

	req := &approval.Request{
		ID:         "apr-001",
		EntityType: approval.EntityTypeQuotation,
		EntityID:   "quo-001",
		Status:     approval.StatusPending,
	}
	eventSvc.Emit(service.EventSubmitted, req)
	eventSvc.Emit(service.EventApproved, req)
	eventSvc.Emit(service.EventCommented, req)

	events, err := eventSvc.History("apr-001")
	require.NoError(t, err)
	assert.Len(t, events, 3)

	assert.Eventually(t, func() bool {
		return sink.count("apr-001") == 3
	}, 2*time.Second, 10*time.Millisecond)
}
