package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/linkconv/internal/config"
	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀,例如 LINKCONV_SCAN_WORKERS=4
const EnvPrefix = "LINKCONV"

// Config 应用程序配置
type Config struct {
	HTTP    models.HTTPConfig    `mapstructure:"http"`
	Browser models.BrowserConfig `mapstructure:"browser"`
	Scan    models.ScanConfig    `mapstructure:"scan"`
	Logging LoggingConfig        `mapstructure:"logging"`

	// 实际读取的配置文件,未找到时为空
	File string `mapstructure:"-"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// flagBindings 命令行参数 → 配置键
// 只有显式传入的参数才会覆盖配置文件
var flagBindings = map[string]string{
	"workers":          "scan.workers",
	"browser":          "browser.enabled",
	"headless":         "browser.headless",
	"selector-timeout": "browser.selector_timeout",
	"max-tabs":         "browser.max_tabs",
	"timeout":          "http.timeout",
	"log-level":        "logging.level",
	"log-dir":          "logging.log_dir",
}

// LoadConfig 加载配置
// 优先级: 默认值 < 配置文件 < 环境变量(含.env) < 命令行参数
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	if configPath != "" {
		if err := config.ValidateFileSize(configPath); err != nil {
			return nil, err
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".linkconv"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flag, key := range flagBindings {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("绑定参数 --%s 失败: %w", flag, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
		utils.Debugf("未找到配置文件,使用默认配置")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &models.ConfigError{
			FilePath: v.ConfigFileUsed(),
			Cause:    fmt.Errorf("解析配置失败: %w", err),
		}
	}
	cfg.File = v.ConfigFileUsed()

	convert := cfg.ConvertConfig()
	if err := convert.Validate(); err != nil {
		return nil, &models.ConfigError{FilePath: cfg.File, Cause: err}
	}

	return &cfg, nil
}

// loadDotEnv 加载当前目录的 .env,文件不存在时忽略
// 已经存在的环境变量不会被覆盖
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return &models.ConfigError{FilePath: ".env", Cause: err}
	}
	return nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	d := models.DefaultConvertConfig()

	v.SetDefault("http.timeout", d.HTTP.Timeout.String())
	v.SetDefault("http.max_redirects", d.HTTP.MaxRedirects)
	v.SetDefault("http.headers", map[string]string{})

	v.SetDefault("browser.enabled", d.Browser.Enabled)
	v.SetDefault("browser.headless", d.Browser.Headless)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.selector", d.Browser.Selector)
	v.SetDefault("browser.selector_timeout", d.Browser.SelectorTimeout.String())
	v.SetDefault("browser.max_tabs", d.Browser.MaxTabs)

	v.SetDefault("scan.workers", d.Scan.Workers)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}

// ConvertConfig 提取转换配置
func (c *Config) ConvertConfig() models.ConvertConfig {
	return models.ConvertConfig{
		HTTP:    c.HTTP,
		Browser: c.Browser,
		Scan:    c.Scan,
	}
}

// LogConfig 转换为日志系统配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}
