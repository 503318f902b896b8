package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/RecoveryAshes/linkconv/internal/config"
	"github.com/RecoveryAshes/linkconv/internal/crawlers"
	"github.com/RecoveryAshes/linkconv/internal/models"
)

// 检查运行环境: 浏览器解析 k.youshop10.com 短链需要本机有Chrome/Chromium
func main() {
	fmt.Println("==============================================")
	fmt.Println("  linkconv 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	fmt.Printf("✅ Go版本: %s\n", runtime.Version())
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// 检查浏览器
	if path, found := launcher.LookPath(); found {
		fmt.Printf("✅ 浏览器: %s\n", path)
	} else {
		fmt.Println("⚠️  未找到Chrome/Chromium - 启用 --browser 时会自动下载")
		fmt.Println("   也可以在配置文件中设置 browser.bin 指定浏览器路径")
	}

	// 按当前机器资源估算标签页上限
	defaults := models.DefaultConvertConfig()
	monitor := crawlers.NewResourceMonitor(crawlers.DefaultResourceMonitorConfig(defaults.Browser.MaxTabs))
	fmt.Printf("✅ 标签页上限: %d (配置=%d)\n", monitor.CalculateMaxTabs(), defaults.Browser.MaxTabs)

	// 检查配置文件
	fmt.Println()
	fmt.Println("检查配置文件...")
	if _, err := os.Stat(config.DefaultConfigFile); err == nil {
		if err := config.ValidateFileSize(config.DefaultConfigFile); err != nil {
			fmt.Printf("❌ %v\n", err)
			allOK = false
		} else {
			fmt.Printf("✅ %s\n", config.DefaultConfigFile)
		}
	} else {
		fmt.Printf("⚠️  %s 不存在,将使用默认配置 (运行 'linkconv config init' 生成)\n", config.DefaultConfigFile)
	}

	// 检查项目结构
	fmt.Println()
	fmt.Println("检查项目结构...")
	requiredDirs := []string{
		"cmd/linkconv",
		"internal/converters",
		"internal/core",
		"internal/crawlers",
		"internal/models",
		"internal/utils",
	}

	for _, dir := range requiredDirs {
		if _, err := os.Stat(dir); err == nil {
			fmt.Printf("✅ %s/\n", dir)
		} else {
			fmt.Printf("❌ %s/ 不存在\n", dir)
			allOK = false
		}
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'go build ./cmd/linkconv' 构建项目")
		fmt.Println("  2. 运行 './linkconv --help' 查看帮助")
		os.Exit(0)
	}
	fmt.Println("❌ 环境验证失败,请解决上述问题。")
	os.Exit(1)
}
