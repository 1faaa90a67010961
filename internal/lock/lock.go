package lock

import "sync"

// EntityLocker 按业务单据维度的互斥锁注册表
// 用于包住累计数量类不变量的 读取-校验-写入 序列,例如
// "同一报价单下并发创建出货单时,累计出货数量不得超过报价数量"
// 锁粒度是单个实体(类型+ID),不同实体之间互不阻塞
type EntityLocker struct {
	mu    sync.Mutex
	locks map[string]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

// NewEntityLocker 创建实体锁注册表
func NewEntityLocker() *EntityLocker {
	return &EntityLocker{
		locks: make(map[string]*entityLock),
	}
}

// Lock 获取实体锁,返回对应的解锁函数
// 锁在无人持有且无人等待时从注册表移除,避免长期运行后 map 无限增长
func (l *EntityLocker) Lock(entityType string, entityID string) func() {
	key := entityType + ":" + entityID

	l.mu.Lock()
	el, ok := l.locks[key]
	if !ok {
		el = &entityLock{}
		l.locks[key] = el
	}
	el.refs++
	l.mu.Unlock()

	el.mu.Lock()

	return func() {
		el.mu.Unlock()

		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
