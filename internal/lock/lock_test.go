package lock_test

import (
	"sync"
	"testing"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/lock"
	"github.com/stretchr/testify/assert"
)

// TestEntityLockerMutualExclusion 测试同一实体的锁互斥
func TestEntityLockerMutualExclusion(t *testing.T) {
	locker := lock.NewEntityLocker()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("QUOTATION", "quo-001")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

// TestEntityLockerIndependentKeys 测试不同实体的锁互不阻塞
func TestEntityLockerIndependentKeys(t *testing.T) {
	locker := lock.NewEntityLocker()

	unlock1 := locker.Lock("QUOTATION", "quo-001")
	defer unlock1()

	// 持有 quo-001 锁时仍能获取 quo-002 锁
	done := make(chan struct{})
	go func() {
		unlock2 := locker.Lock("QUOTATION", "quo-002")
		unlock2()
		close(done)
	}()

	<-done
}

// TestEntityLockerReuseAfterRelease 测试释放后可重新获取
func TestEntityLockerReuseAfterRelease(t *testing.T) {
	locker := lock.NewEntityLocker()

	unlock := locker.Lock("DELIVERY", "dl-001")
	unlock()

	unlock = locker.Lock("DELIVERY", "dl-001")
	unlock()
}
