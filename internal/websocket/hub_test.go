package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient 构造不带真实连接的测试客户端
func newTestClient(id string, userID int64, requestID string, hub *Hub) *Client {
	return &Client{
		ID:        id,
		UserID:    userID,
		RequestID: requestID,
		Hub:       hub,
		Send:      make(chan []byte, 8),
	}
}

// registerAndWait 注册客户端并等待 Hub 处理
func registerAndWait(t *testing.T, hub *Hub, c *Client) {
	hub.Register <- c
	require.Eventually(t, func() bool {
		return hub.HasClient(c.ID)
	}, time.Second, 5*time.Millisecond)
}

// TestHub_RegisterUnregister 测试注册和注销
func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient("c1", 100, "apr-001", hub)
	registerAndWait(t, hub, c)
	assert.Equal(t, 1, hub.GetClientCount())

	hub.Unregister <- c
	assert.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	// 注销后 Send 被关闭
	_, open := <-c.Send
	assert.False(t, open)
}

// TestHub_Publish_Subscription 测试按审批请求订阅推送
func TestHub_Publish_Subscription(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscribed := newTestClient("c1", 100, "apr-001", hub)
	other := newTestClient("c2", 200, "apr-002", hub)
	catchAll := newTestClient("c3", 300, "", hub)
	registerAndWait(t, hub, subscribed)
	registerAndWait(t, hub, other)
	registerAndWait(t, hub, catchAll)

	hub.Publish("apr-001", []byte(`{"type":"approved"}`))

	select {
	case msg := <-subscribed.Send:
		assert.JSONEq(t, `{"type":"approved"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("subscribed client did not receive message")
	}

	// 未指定订阅的客户端收到全部推送
	select {
	case <-catchAll.Send:
	case <-time.After(time.Second):
		t.Fatal("catch-all client did not receive message")
	}

	// 订阅了其他请求的客户端收不到
	select {
	case <-other.Send:
		t.Fatal("client subscribed to another request received message")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestHub_BroadcastToUser 测试按用户广播
func TestHub_BroadcastToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	target := newTestClient("c1", 100, "", hub)
	bystander := newTestClient("c2", 200, "", hub)
	registerAndWait(t, hub, target)
	registerAndWait(t, hub, bystander)

	hub.BroadcastToUser(100, []byte("hello"))

	select {
	case msg := <-target.Send:
		assert.Equal(t, "hello", string(msg))
	case <-time.After(time.Second):
		t.Fatal("target user did not receive message")
	}

	select {
	case <-bystander.Send:
		t.Fatal("other user received message")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestHub_Publish_SlowClientDropped 测试发送缓冲写满的客户端被移除
func TestHub_Publish_SlowClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{ID: "c1", Hub: hub, Send: make(chan []byte)}
	registerAndWait(t, hub, slow)

	hub.Publish("", []byte("msg"))

	assert.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 5*time.Millisecond)
}
