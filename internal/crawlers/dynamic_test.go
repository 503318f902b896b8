package crawlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/RecoveryAshes/linkconv/internal/converters"
)

func TestSelectorWaitError(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-expired.Done()

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()

	other := errors.New("cdp: connection closed")

	t.Run("元素已出现", func(t *testing.T) {
		assert.NoError(t, selectorWaitError(context.Background(), nil))
	})

	t.Run("等待元素超时", func(t *testing.T) {
		err := selectorWaitError(context.Background(), context.DeadlineExceeded)
		assert.ErrorIs(t, err, converters.ErrSelectorTimeout)
	})

	t.Run("调用方截止时间已到", func(t *testing.T) {
		err := selectorWaitError(expired, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, converters.ErrSelectorTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("调用方已取消", func(t *testing.T) {
		err := selectorWaitError(canceled, context.Canceled)
		assert.NotErrorIs(t, err, converters.ErrSelectorTimeout)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("其他错误原样返回", func(t *testing.T) {
		assert.Equal(t, other, selectorWaitError(context.Background(), other))
	})
}
