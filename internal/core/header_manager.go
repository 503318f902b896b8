package core

import (
	"net/http"

	"github.com/RecoveryAshes/linkconv/internal/crawlers"
	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
)

// HeaderManager 管理短链请求使用的HTTP头部
// 实现 models.HeaderProvider 接口
type HeaderManager struct {
	// defaults 系统默认头部
	defaults http.Header

	// config 配置文件 http.headers
	config http.Header

	// cli 命令行 -H
	cli http.Header

	// merged 合并并验证后的结果,构造后不再修改
	merged http.Header
}

// NewHeaderManager 创建头部管理器,合并并验证所有来源的头部
func NewHeaderManager(configHeaders map[string]string, cliHeaders []string) (*HeaderManager, error) {
	hm := &HeaderManager{
		defaults: getDefaultHeaders(),
		config:   make(http.Header),
		cli:      make(http.Header),
	}

	for name, value := range configHeaders {
		hm.config.Set(name, value)
	}

	if len(cliHeaders) > 0 {
		parsed, err := models.CliHeaders(cliHeaders).Parse()
		if err != nil {
			return nil, err
		}
		hm.cli = parsed
	}

	if err := hm.Validate(); err != nil {
		return nil, err
	}

	hm.merged = hm.merge()
	utils.Debugf("短链请求头部: %s", utils.RedactHeaders(hm.merged))
	return hm, nil
}

// getDefaultHeaders 返回系统默认头部
func getDefaultHeaders() http.Header {
	return http.Header{
		"User-Agent":      []string{crawlers.DefaultUserAgent},
		"Accept":          []string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Language": []string{"zh-CN,zh;q=0.9,en;q=0.8"},
	}
}

// Validate 验证所有头部的合法性
// 验证顺序: 配置 → 命令行
func (hm *HeaderManager) Validate() error {
	validator := utils.NewHeaderValidator()

	if err := validator.Validate(hm.config); err != nil {
		utils.Errorf("配置文件头部验证失败: %v", err)
		return err
	}
	if err := validator.Validate(hm.cli); err != nil {
		utils.Errorf("命令行头部验证失败: %v", err)
		return err
	}
	return nil
}

// merge 按优先级合并头部 (default < config < cli)
func (hm *HeaderManager) merge() http.Header {
	result := make(http.Header)
	for _, layer := range []http.Header{hm.defaults, hm.config, hm.cli} {
		for name, values := range layer {
			result[name] = append([]string(nil), values...)
		}
	}
	return result
}

// GetHeaders 实现 HeaderProvider 接口,返回副本
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	return hm.merged.Clone(), nil
}

// GetSafeHeaders 返回脱敏后的头部 (用于日志)
func (hm *HeaderManager) GetSafeHeaders() string {
	return utils.RedactHeaders(hm.merged)
}
