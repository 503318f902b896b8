package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/linkconv/internal/models"
)

const (
	// DefaultConfigFile 默认配置文件路径
	DefaultConfigFile = "configs/config.yaml"

	// MaxConfigFileSize 配置文件最大大小 (1MB)
	MaxConfigFileSize = 1 * 1024 * 1024
)

//go:embed config_template.yaml
var defaultTemplate string

// Template 返回带注释的默认配置
func Template() string {
	return defaultTemplate
}

// WriteTemplate 生成配置文件模板
// 文件已存在且 force 为false时返回错误
func WriteTemplate(path string, force bool) error {
	if path == "" {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err == nil && !force {
		return &models.ConfigError{FilePath: path, Cause: fmt.Errorf("文件已存在,使用 --force 覆盖")}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("无法创建配置目录 [%s]: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0644); err != nil {
		return fmt.Errorf("无法生成配置文件 [%s]: %w", path, err)
	}
	return nil
}

// ValidateFileSize 验证配置文件大小是否在限制内
func ValidateFileSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &models.ConfigError{FilePath: path, Cause: err}
	}

	if info.Size() > MaxConfigFileSize {
		return &models.ConfigError{
			FilePath: path,
			Cause: fmt.Errorf("配置文件过大: %d 字节 (最大 %d 字节)",
				info.Size(), MaxConfigFileSize),
		}
	}
	return nil
}
