package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RecoveryAshes/linkconv/internal/config"
	"github.com/RecoveryAshes/linkconv/internal/models"
)

// chdir 切换到临时目录,避免读取仓库里的 configs/config.yaml
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, models.DefaultConvertConfig().HTTP.Timeout, cfg.HTTP.Timeout)
	assert.Equal(t, 10, cfg.HTTP.MaxRedirects)
	assert.False(t, cfg.Browser.Enabled)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, ".into-cart", cfg.Browser.Selector)
	assert.Equal(t, 10*time.Second, cfg.Browser.SelectorTimeout)
	assert.Equal(t, 1, cfg.Scan.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.File)
}

func TestLoadConfig_TemplateMatchesDefaults(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "configs", "config.yaml")
	require.NoError(t, config.WriteTemplate(path, false))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultConvertConfig().Browser, cfg.Browser)
	assert.Equal(t, models.DefaultConvertConfig().Scan, cfg.Scan)
	assert.Equal(t, path, cfg.File)
}

func TestLoadConfig_File(t *testing.T) {
	dir := chdir(t)
	path := writeConfig(t, dir, `
http:
  timeout: 30s
  max_redirects: 5
  headers:
    Cookie: "t=abc"
browser:
  enabled: true
  selector_timeout: 20s
scan:
  workers: 8
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 5, cfg.HTTP.MaxRedirects)
	assert.Equal(t, "t=abc", cfg.HTTP.Headers["cookie"])
	assert.True(t, cfg.Browser.Enabled)
	assert.Equal(t, 20*time.Second, cfg.Browser.SelectorTimeout)
	assert.Equal(t, 8, cfg.Scan.Workers)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := chdir(t)
	path := writeConfig(t, dir, "scan:\n  workers: 8\n")
	t.Setenv("LINKCONV_SCAN_WORKERS", "3")
	t.Setenv("LINKCONV_BROWSER_SELECTOR_TIMEOUT", "5s")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.Equal(t, 5*time.Second, cfg.Browser.SelectorTimeout)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LINKCONV_HTTP_MAX_REDIRECTS=7\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("LINKCONV_HTTP_MAX_REDIRECTS") })

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.HTTP.MaxRedirects)
}

func TestLoadConfig_FlagsOverrideEverything(t *testing.T) {
	dir := chdir(t)
	path := writeConfig(t, dir, "scan:\n  workers: 8\nbrowser:\n  headless: true\n")
	t.Setenv("LINKCONV_SCAN_WORKERS", "3")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 1, "")
	flags.Bool("headless", true, "")
	flags.Duration("selector-timeout", 10*time.Second, "")
	require.NoError(t, flags.Parse([]string{"--workers", "16", "--headless=false"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Scan.Workers)
	assert.False(t, cfg.Browser.Headless)
	// 未传入的参数不覆盖
	assert.Equal(t, 10*time.Second, cfg.Browser.SelectorTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := chdir(t)

	t.Run("超出范围", func(t *testing.T) {
		path := writeConfig(t, dir, "scan:\n  workers: 1000\n")
		_, err := LoadConfig(path, nil)
		var ce *models.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Contains(t, err.Error(), "并发数")
	})

	t.Run("YAML格式错误", func(t *testing.T) {
		path := writeConfig(t, dir, "scan: [workers\n")
		_, err := LoadConfig(path, nil)
		var ce *models.ConfigError
		assert.ErrorAs(t, err, &ce)
	})

	t.Run("指定的文件不存在", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
		assert.Error(t, err)
	})
}

func TestConfig_LogConfig(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{
		Level:    "debug",
		LogDir:   "out/logs",
		Rotation: RotationConfig{MaxSize: 5, MaxBackups: 2, MaxAge: 7, Compress: false},
	}}

	lc := cfg.LogConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "out/logs", lc.LogDir)
	assert.Equal(t, 5, lc.MaxSize)
	assert.Equal(t, 2, lc.MaxBackups)
	assert.Equal(t, 7, lc.MaxAge)
	assert.False(t, lc.Compress)
}
