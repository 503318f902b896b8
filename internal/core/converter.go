package core

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/RecoveryAshes/linkconv/internal/converters"
	"github.com/RecoveryAshes/linkconv/internal/crawlers"
	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
)

// Converter 链接转换器
// 持有注册表及其共享的HTTP客户端和浏览器,可以被多个goroutine同时使用
type Converter struct {
	config   models.ConvertConfig
	registry *converters.Registry
	browser  *crawlers.RodBrowser
}

// NewConverter 根据配置创建转换器
// 浏览器只在 browser.enabled 时创建,并且在第一次使用时才启动
func NewConverter(config models.ConvertConfig, headerProvider models.HeaderProvider) (*Converter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}

	deps := converters.Dependencies{
		Fetcher:         crawlers.NewStaticFetcher(config.HTTP, headerProvider),
		Selector:        config.Browser.Selector,
		SelectorTimeout: config.Browser.SelectorTimeout,
	}

	var browser *crawlers.RodBrowser
	if config.Browser.Enabled {
		browser = crawlers.NewRodBrowser(config.Browser)
		deps.Browser = browser
	}

	registry, err := converters.DefaultRegistry(deps)
	if err != nil {
		return nil, err
	}

	utils.Debugf("已注册 %d 个转换策略: %v", registry.Len(), registry.Names())

	return &Converter{
		config:   config,
		registry: registry,
		browser:  browser,
	}, nil
}

// NewConverterWithRegistry 使用已构建的注册表创建转换器
func NewConverterWithRegistry(config models.ConvertConfig, registry *converters.Registry) *Converter {
	return &Converter{config: config, registry: registry}
}

// Registry 返回注册表
func (c *Converter) Registry() *converters.Registry {
	return c.registry
}

// ConvertOne 将单个链接转换为规范链接
func (c *Converter) ConvertOne(ctx context.Context, u *url.URL) (string, error) {
	return c.registry.Dispatch(ctx, u)
}

// ConvertString 解析字符串后转换
func (c *Converter) ConvertString(ctx context.Context, raw string) (string, error) {
	u, err := crawlers.ParseURL(raw)
	if err != nil {
		return "", models.NewURLParse(raw, err)
	}
	return c.ConvertOne(ctx, u)
}

// ConvertBulk 扫描文本中的所有链接,按出现顺序返回成功和失败两个序列
func (c *Converter) ConvertBulk(ctx context.Context, text string) *models.BulkResult {
	return Partition(c.NewScanner().ScanText(ctx, text))
}

// ConvertHTML 扫描HTML文档中的所有链接
func (c *Converter) ConvertHTML(ctx context.Context, r io.Reader) (*models.BulkResult, error) {
	outcomes, err := c.NewScanner().ScanHTML(ctx, r)
	if err != nil {
		return nil, err
	}
	return Partition(outcomes), nil
}

// NewScanner 按配置的并发数创建批量扫描器
func (c *Converter) NewScanner() *BatchScanner {
	return NewBatchScanner(c.registry, c.config.Scan.Workers)
}

// Config 返回转换配置
func (c *Converter) Config() models.ConvertConfig {
	return c.config
}

// Close 释放浏览器等共享资源
func (c *Converter) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}
