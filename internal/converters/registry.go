package converters

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
)

// Registry 有序的策略注册表
// 构造后不再修改,可以被多个goroutine同时使用
type Registry struct {
	strategies []Strategy
}

// NewRegistry 按给定顺序创建注册表
func NewRegistry(strategies ...Strategy) *Registry {
	list := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			list = append(list, s)
		}
	}
	return &Registry{strategies: list}
}

// Dispatch 按注册顺序找到第一个适用的策略并返回它的结果
// 适用策略失败时不会继续尝试后面的策略
func (r *Registry) Dispatch(ctx context.Context, u *url.URL) (string, error) {
	s := r.Find(u)
	if s == nil {
		return "", models.NewNonConvertible(u.String(), "")
	}

	utils.Debugf("使用策略 %s 转换: %s", s.Name(), u.String())
	return s.Convert(ctx, u)
}

// Find 返回第一个适用的策略,没有则返回nil
func (r *Registry) Find(u *url.URL) Strategy {
	for _, s := range r.strategies {
		if s.CanConvert(u) {
			return s
		}
	}
	return nil
}

// Names 按顺序返回策略名称
func (r *Registry) Names() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// Len 策略数量
func (r *Registry) Len() int {
	return len(r.strategies)
}

// Overlaps 返回被多个策略声明的主机
// 主机重叠属于配置错误,后注册的策略永远不会被使用
func (r *Registry) Overlaps() []string {
	owners := make(map[string]int)
	for _, s := range r.strategies {
		if hb, ok := s.(hostBound); ok {
			owners[strings.ToLower(hb.Host())]++
		}
	}

	var hosts []string
	for host, n := range owners {
		if n > 1 {
			hosts = append(hosts, host)
		}
	}
	sort.Strings(hosts)
	return hosts
}
