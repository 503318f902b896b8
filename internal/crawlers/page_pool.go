package crawlers

import (
	"context"
	"errors"
	"sync"
)

var errLimiterClosed = errors.New("标签页池已关闭")

// TabLimiter 限制同时打开的标签页数
// 每个转换独占一个标签页,用完即关,不复用页面状态
type TabLimiter struct {
	slots chan struct{}
	done  chan struct{} // Close时关闭,唤醒阻塞中的Acquire
	once  sync.Once
}

// NewTabLimiter 创建标签页限制器
func NewTabLimiter(size int) *TabLimiter {
	if size < 1 {
		size = 1
	}
	return &TabLimiter{
		slots: make(chan struct{}, size),
		done:  make(chan struct{}),
	}
}

// Acquire 占用一个名额,达到上限时阻塞直到有名额释放、ctx结束或限制器关闭
func (tl *TabLimiter) Acquire(ctx context.Context) error {
	select {
	case <-tl.done:
		return errLimiterClosed
	default:
	}

	select {
	case tl.slots <- struct{}{}:
		return nil
	case <-tl.done:
		return errLimiterClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release 释放一个名额
func (tl *TabLimiter) Release() {
	select {
	case <-tl.slots:
	default:
	}
}

// Close 之后的Acquire全部失败,正在等待的Acquire立即返回,已占用的名额不受影响
func (tl *TabLimiter) Close() {
	tl.once.Do(func() { close(tl.done) })
}

// Size 名额上限
func (tl *TabLimiter) Size() int {
	return cap(tl.slots)
}

// InUse 当前占用的名额数
func (tl *TabLimiter) InUse() int {
	return len(tl.slots)
}
