package converters

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
)

// errNoIdentifier 跳转结果中没有找到商品ID
var errNoIdentifier = errors.New("跳转结果中没有商品ID")

// Carrier 实时解析结果中可能携带商品ID的位置
type Carrier int

const (
	CarrierFinalURL Carrier = 1 << iota // 跳转后的最终地址
	CarrierBody                         // 响应体文本
)

// Resolver 将正则分组(不含整体匹配)转换为规范链接
type Resolver func(groups []string) (string, error)

// ItemOf 第一个非空分组作为指定平台的商品ID
func ItemOf(m models.Marketplace) Resolver {
	return func(groups []string) (string, error) {
		for _, g := range groups {
			if g == "" {
				continue
			}
			if !models.IsValidItemID(g) {
				return "", models.ErrInvalidItemID
			}
			return models.CanonicalURL(m, g)
		}
		return "", errNoIdentifier
	}
}

// GoofishOrShop 第一个分组为商品ID(闲鱼),否则第二个分组为淘宝店铺ID
func GoofishOrShop(groups []string) (string, error) {
	if len(groups) > 0 && groups[0] != "" {
		if !models.IsValidItemID(groups[0]) {
			return "", models.ErrInvalidItemID
		}
		return models.CanonicalURL(models.Goofish, groups[0])
	}
	if len(groups) > 1 && groups[1] != "" {
		return models.ShopURL(groups[1])
	}
	return "", errNoIdentifier
}

// HTTPRedirectStrategy 请求短链并跟随跳转,从最终地址或响应体中提取ID
type HTTPRedirectStrategy struct {
	name     string
	host     string
	fetcher  Fetcher
	pattern  *regexp.Regexp
	carriers Carrier
	resolve  Resolver
}

// NewHTTPRedirectStrategy 创建HTTP跳转策略
// carriers 决定扫描哪些位置,按 最终地址 → 响应体 的顺序尝试
func NewHTTPRedirectStrategy(name, host string, fetcher Fetcher, pattern *regexp.Regexp, carriers Carrier, resolve Resolver) *HTTPRedirectStrategy {
	return &HTTPRedirectStrategy{
		name:     name,
		host:     host,
		fetcher:  fetcher,
		pattern:  pattern,
		carriers: carriers,
		resolve:  resolve,
	}
}

func (s *HTTPRedirectStrategy) Name() string { return s.name }
func (s *HTTPRedirectStrategy) Host() string { return s.host }

func (s *HTTPRedirectStrategy) CanConvert(u *url.URL) bool {
	return hostIs(u, s.host)
}

func (s *HTTPRedirectStrategy) Convert(ctx context.Context, u *url.URL) (string, error) {
	source := u.String()

	result, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		return "", models.NewTransport(source, s.name, err)
	}
	utils.Debugf("短链请求完成 [%s]: 状态码=%d, 最终地址=%s, 响应体=%d字节",
		source, result.StatusCode, result.FinalURL, len(result.Body))

	var texts []string
	if s.carriers&CarrierFinalURL != 0 {
		texts = append(texts, result.FinalURL)
	}
	if s.carriers&CarrierBody != 0 {
		texts = append(texts, result.Body)
	}

	lastErr := errNoIdentifier
	for _, text := range texts {
		m := s.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		target, err := s.resolve(m[1:])
		if err == nil {
			return target, nil
		}
		lastErr = err
	}
	return "", models.NewFailedToRedirect(source, s.name, lastErr)
}

// BrowserStrategy 在无头浏览器中打开链接,等待商品页渲染后从当前地址提取ID
type BrowserStrategy struct {
	name     string
	host     string
	browser  Browser
	selector string
	timeout  time.Duration
	pattern  *regexp.Regexp
	resolve  Resolver
}

// NewBrowserStrategy 创建浏览器跳转策略
func NewBrowserStrategy(name, host string, browser Browser, selector string, timeout time.Duration, pattern *regexp.Regexp, resolve Resolver) *BrowserStrategy {
	return &BrowserStrategy{
		name:     name,
		host:     host,
		browser:  browser,
		selector: selector,
		timeout:  timeout,
		pattern:  pattern,
		resolve:  resolve,
	}
}

func (s *BrowserStrategy) Name() string { return s.name }
func (s *BrowserStrategy) Host() string { return s.host }

func (s *BrowserStrategy) CanConvert(u *url.URL) bool {
	return hostIs(u, s.host)
}

func (s *BrowserStrategy) Convert(ctx context.Context, u *url.URL) (string, error) {
	source := u.String()

	tab, err := s.browser.NewTab(ctx)
	if err != nil {
		return "", models.NewTransport(source, s.name, err)
	}
	defer func() {
		if err := tab.Close(); err != nil {
			utils.Debugf("关闭标签页失败 [%s]: %v", source, err)
		}
	}()

	if err := tab.Navigate(source); err != nil {
		return "", models.NewTransport(source, s.name, err)
	}

	if err := tab.WaitForSelector(s.selector, s.timeout); err != nil {
		if errors.Is(err, ErrSelectorTimeout) {
			return "", models.NewFailedToRedirect(source, s.name,
				fmt.Errorf("%w: %s (%v)", err, s.selector, s.timeout))
		}
		return "", models.NewTransport(source, s.name, err)
	}

	current, err := tab.CurrentURL()
	if err != nil {
		return "", models.NewTransport(source, s.name, err)
	}
	utils.Debugf("页面渲染完成 [%s]: 当前地址=%s", source, current)

	m := s.pattern.FindStringSubmatch(current)
	if m == nil {
		return "", models.NewFailedToRedirect(source, s.name, errNoIdentifier)
	}
	target, err := s.resolve(m[1:])
	if err != nil {
		return "", models.NewFailedToRedirect(source, s.name, err)
	}
	return target, nil
}
