package crawlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RecoveryAshes/linkconv/internal/converters"
	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodBrowser 基于go-rod的无头浏览器
// 浏览器在第一次打开标签页时才启动,之后所有转换共享同一个进程
type RodBrowser struct {
	config  models.BrowserConfig
	limiter *TabLimiter

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	closed   bool
}

// NewRodBrowser 创建浏览器,同时打开的标签页数取配置上限和资源评估的较小值
func NewRodBrowser(config models.BrowserConfig) *RodBrowser {
	monitor := NewResourceMonitor(DefaultResourceMonitorConfig(config.MaxTabs))
	maxTabs := monitor.CalculateMaxTabs()
	utils.Debugf("浏览器标签页上限: %d (配置=%d)", maxTabs, config.MaxTabs)

	return &RodBrowser{
		config:  config,
		limiter: NewTabLimiter(maxTabs),
	}
}

// ensureBrowser 启动浏览器(只启动一次)
func (rb *RodBrowser) ensureBrowser() (*rod.Browser, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.closed {
		return nil, fmt.Errorf("浏览器已关闭")
	}
	if rb.browser != nil {
		return rb.browser, nil
	}

	l := launcher.New().
		Headless(rb.config.Headless).
		Set("ignore-certificate-errors")
	if rb.config.Bin != "" {
		l = l.Bin(rb.config.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	rb.launcher = l
	rb.browser = browser
	utils.Infof("浏览器已启动 (headless=%v)", rb.config.Headless)
	return browser, nil
}

// NewTab 实现 converters.Browser
func (rb *RodBrowser) NewTab(ctx context.Context) (converters.Tab, error) {
	browser, err := rb.ensureBrowser()
	if err != nil {
		return nil, err
	}

	if err := rb.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("等待空闲标签页失败: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		rb.limiter.Release()
		return nil, fmt.Errorf("创建标签页失败(浏览器可能已崩溃): %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: DefaultUserAgent}); err != nil {
		utils.Debugf("设置标签页UA失败: %v", err)
	}

	return &rodTab{page: page.Context(ctx), raw: page, release: rb.limiter.Release}, nil
}

// Close 关闭浏览器进程
func (rb *RodBrowser) Close() error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.closed {
		return nil
	}
	rb.closed = true
	rb.limiter.Close()

	if rb.browser == nil {
		return nil
	}

	err := rb.browser.Close()
	rb.launcher.Cleanup()
	rb.browser = nil
	utils.Debugf("浏览器已关闭")
	return err
}

// rodTab 单个标签页
type rodTab struct {
	page    *rod.Page // 绑定调用方ctx
	raw     *rod.Page // 关闭时使用,不受ctx取消影响
	release func()
	once    sync.Once
}

func (t *rodTab) Navigate(rawURL string) error {
	if err := t.page.Navigate(rawURL); err != nil {
		return fmt.Errorf("打开页面失败: %w", err)
	}
	return nil
}

// WaitForSelector 轮询直到元素出现,超时返回 converters.ErrSelectorTimeout
func (t *rodTab) WaitForSelector(selector string, timeout time.Duration) error {
	_, err := t.page.Timeout(timeout).Element(selector)
	return selectorWaitError(t.page.GetContext(), err)
}

// selectorWaitError 区分等待元素超时和调用方ctx结束
// 调用方的截止时间同样表现为 DeadlineExceeded,不能算作页面元素超时
func selectorWaitError(callerCtx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := callerCtx.Err(); ctxErr != nil {
		return fmt.Errorf("等待页面元素被中断: %w", ctxErr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return converters.ErrSelectorTimeout
	}
	return err
}

func (t *rodTab) CurrentURL() (string, error) {
	info, err := t.page.Info()
	if err != nil {
		return "", fmt.Errorf("读取页面地址失败: %w", err)
	}
	return info.URL, nil
}

func (t *rodTab) Close() error {
	var err error
	t.once.Do(func() {
		err = t.raw.Close()
		t.release()
	})
	return err
}
