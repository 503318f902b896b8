package models

import (
	"fmt"
	"time"
)

// HTTPConfig 短链HTTP解析配置
type HTTPConfig struct {
	Timeout      time.Duration     `mapstructure:"timeout" json:"timeout"`             // 单次请求超时 (默认:15s)
	MaxRedirects int               `mapstructure:"max_redirects" json:"max_redirects"` // 最大跳转次数 (默认:10)
	Headers      map[string]string `mapstructure:"headers" json:"-"`                   // 自定义请求头
}

// BrowserConfig 无头浏览器配置
type BrowserConfig struct {
	Enabled         bool          `mapstructure:"enabled" json:"enabled"`                   // k.youshop10.com 改用浏览器解析 (默认:false)
	Headless        bool          `mapstructure:"headless" json:"headless"`                 // 无头模式 (默认:true)
	Bin             string        `mapstructure:"bin" json:"bin,omitempty"`                 // 浏览器可执行文件路径,为空时自动下载
	Selector        string        `mapstructure:"selector" json:"selector"`                 // 商品页渲染完成的标志元素 (默认:.into-cart)
	SelectorTimeout time.Duration `mapstructure:"selector_timeout" json:"selector_timeout"` // 等待标志元素的超时 (默认:10s)
	MaxTabs         int           `mapstructure:"max_tabs" json:"max_tabs"`                 // 同时打开的标签页上限 (默认:4)
}

// ScanConfig 批量扫描配置
type ScanConfig struct {
	Workers int `mapstructure:"workers" json:"workers"` // 并发解析数,1为顺序执行 (默认:1)
}

// ConvertConfig 转换配置
type ConvertConfig struct {
	HTTP    HTTPConfig    `mapstructure:"http" json:"http"`
	Browser BrowserConfig `mapstructure:"browser" json:"browser"`
	Scan    ScanConfig    `mapstructure:"scan" json:"scan"`
}

// DefaultConvertConfig 默认转换配置
func DefaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			MaxRedirects: 10,
		},
		Browser: BrowserConfig{
			Enabled:         false,
			Headless:        true,
			Selector:        ".into-cart",
			SelectorTimeout: 10 * time.Second,
			MaxTabs:         4,
		},
		Scan: ScanConfig{
			Workers: 1,
		},
	}
}

// Validate 验证配置
func (c *ConvertConfig) Validate() error {
	if c.HTTP.Timeout < time.Second || c.HTTP.Timeout > 2*time.Minute {
		return fmt.Errorf("HTTP超时必须在1s-2m之间,当前值: %v", c.HTTP.Timeout)
	}
	if c.HTTP.MaxRedirects < 0 || c.HTTP.MaxRedirects > 30 {
		return fmt.Errorf("最大跳转次数必须在0-30之间,当前值: %d", c.HTTP.MaxRedirects)
	}
	if c.Browser.Selector == "" {
		return fmt.Errorf("浏览器等待选择器不能为空")
	}
	if c.Browser.SelectorTimeout < time.Second || c.Browser.SelectorTimeout > time.Minute {
		return fmt.Errorf("选择器等待超时必须在1s-60s之间,当前值: %v", c.Browser.SelectorTimeout)
	}
	if c.Browser.MaxTabs < 1 || c.Browser.MaxTabs > 20 {
		return fmt.Errorf("标签页数必须在1-20之间,当前值: %d", c.Browser.MaxTabs)
	}
	if c.Scan.Workers < 1 || c.Scan.Workers > 64 {
		return fmt.Errorf("并发数必须在1-64之间,当前值: %d", c.Scan.Workers)
	}
	return nil
}
