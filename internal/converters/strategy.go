// Package converters 实现代购站点链接到源平台规范链接的转换策略
//
// 每个站点一个策略,策略声明适用范围(主机+路径)并负责解析:
//   - 模式策略: 只根据链接的路径/查询参数提取商品ID,不做任何I/O
//   - 实时策略: 需要HTTP请求或浏览器渲染才能拿到跳转目标,再从中提取ID
//
// Registry 按注册顺序依次尝试,第一个适用的策略决定结果。
package converters

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
)

// Strategy 链接转换策略
type Strategy interface {
	// Name 策略名称(用于日志和错误信息)
	Name() string

	// CanConvert 判断策略是否适用
	// 只能检查主机和路径,不允许有副作用
	CanConvert(u *url.URL) bool

	// Convert 将链接转换为规范链接
	// 模式策略不会阻塞,ctx只对实时策略有意义
	Convert(ctx context.Context, u *url.URL) (string, error)
}

// hostBound 绑定单一主机的策略,用于检测注册表中的主机冲突
type hostBound interface {
	Host() string
}

// FetchResult 一次HTTP请求(跟随跳转后)的结果
type FetchResult struct {
	FinalURL   string // 跳转结束后的地址
	Body       string // 解压后的响应体
	StatusCode int
}

// Fetcher 发起GET请求并跟随跳转
// 实现必须支持并发调用
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// ErrSelectorTimeout 等待页面元素超时
var ErrSelectorTimeout = errors.New("等待页面元素超时")

// Browser 无头浏览器
// 实现必须支持并发打开多个标签页
type Browser interface {
	NewTab(ctx context.Context) (Tab, error)
}

// Tab 浏览器标签页
type Tab interface {
	Navigate(rawURL string) error
	// WaitForSelector 等待元素出现,超时返回 ErrSelectorTimeout
	WaitForSelector(selector string, timeout time.Duration) error
	CurrentURL() (string, error)
	Close() error
}

// PathRule 路径适用规则,Exact 优先于 Prefix,两者都为空时匹配任意路径
type PathRule struct {
	Prefix string
	Exact  string
}

// Match 检查路径是否符合规则
func (r PathRule) Match(path string) bool {
	switch {
	case r.Exact != "":
		return path == r.Exact
	case r.Prefix != "":
		return strings.HasPrefix(path, r.Prefix)
	default:
		return true
	}
}

// hostIs 主机名比较(不含端口,忽略大小写)
func hostIs(u *url.URL, host string) bool {
	return strings.EqualFold(u.Hostname(), host)
}

// urlPath 返回转义形式的路径,空路径视为 "/"
func urlPath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		return "/"
	}
	return p
}
