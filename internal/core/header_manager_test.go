package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RecoveryAshes/linkconv/internal/crawlers"
	"github.com/RecoveryAshes/linkconv/internal/models"
)

func TestHeaderManager_Merge(t *testing.T) {
	t.Run("只有默认头部", func(t *testing.T) {
		hm, err := NewHeaderManager(nil, nil)
		require.NoError(t, err)

		headers, err := hm.GetHeaders()
		require.NoError(t, err)
		assert.Equal(t, crawlers.DefaultUserAgent, headers.Get("User-Agent"))
		assert.NotEmpty(t, headers.Get("Accept-Language"))
	})

	t.Run("配置覆盖默认,命令行覆盖配置", func(t *testing.T) {
		hm, err := NewHeaderManager(
			map[string]string{"user-agent": "from-config", "cookie": "a=1"},
			[]string{"User-Agent: from-cli"},
		)
		require.NoError(t, err)

		headers, err := hm.GetHeaders()
		require.NoError(t, err)
		assert.Equal(t, "from-cli", headers.Get("User-Agent"))
		assert.Equal(t, "a=1", headers.Get("Cookie"))
	})

	t.Run("返回副本", func(t *testing.T) {
		hm, err := NewHeaderManager(nil, nil)
		require.NoError(t, err)

		headers, _ := hm.GetHeaders()
		headers.Set("User-Agent", "changed")

		again, _ := hm.GetHeaders()
		assert.Equal(t, crawlers.DefaultUserAgent, again.Get("User-Agent"))
	})

	t.Run("日志中脱敏", func(t *testing.T) {
		hm, err := NewHeaderManager(map[string]string{"Cookie": "session=0123456789"}, nil)
		require.NoError(t, err)
		assert.NotContains(t, hm.GetSafeHeaders(), "0123456789")
	})
}

func TestHeaderManager_Invalid(t *testing.T) {
	t.Run("命令行格式错误", func(t *testing.T) {
		_, err := NewHeaderManager(nil, []string{"no-colon"})
		assert.Error(t, err)
	})

	t.Run("配置中的禁止头部", func(t *testing.T) {
		_, err := NewHeaderManager(map[string]string{"Host": "example.com"}, nil)
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("命令行中的非法值", func(t *testing.T) {
		_, err := NewHeaderManager(nil, []string{"X-Test: 中文"})
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}
