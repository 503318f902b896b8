package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RecoveryAshes/linkconv/internal/config"
	"github.com/RecoveryAshes/linkconv/internal/core"
	"github.com/RecoveryAshes/linkconv/internal/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string
	logDir     string

	// HTTP头部参数
	headers        []string
	validateConfig bool

	// 输入
	inputURLs []string
	inputFile string
	inputList string
	inputText string
	htmlMode  bool

	// 输出
	jsonOutput bool
	reportPath string

	// 解析参数,只有显式传入时才覆盖配置文件
	workers         int
	browserEnabled  bool
	headless        bool
	selectorTimeout time.Duration
	maxTabs         int
	timeout         time.Duration

	// config init
	forceInit bool
)

// errHasFailures 有链接转换失败,退出码为1
var errHasFailures = errors.New("部分链接转换失败")

var rootCmd = &cobra.Command{
	Use:   "linkconv",
	Short: "代购链接转换工具",
	Long: `linkconv - 将代购网站的商品链接转换为淘宝、天猫、1688、微店、闲鱼的原始链接

支持的代购站点:
  • cnfans / acbuy / joyabuy / lovegobuy / ootdbuy / oopbuy / cssbuy
  • 淘宝手机站 (m.intl.taobao.com) 和淘宝短链 (m.tb.cn)
  • 微店短链 (k.youshop10.com)

使用示例:
  # 转换单个链接
  linkconv -u "https://cnfans.com/product/?platform=TAOBAO&id=675330231400"

  # 扫描文本中的所有链接
  linkconv -t "看看这个 https://www.cssbuy.com/item-micro-7238806524.html"

  # 扫描文件 (- 表示stdin),8个并发,输出JSON
  cat chat.txt | linkconv -f - --workers 8 --json

  # 微店短链用浏览器解析
  linkconv --browser -u https://k.youshop10.com/9bWUm-2q

  # 生成配置文件模板
  linkconv config init

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "linkconv %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "构建时间: %s\n", BuildTime)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置文件管理",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "生成带注释的配置文件模板",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteTemplate(path, forceInit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "配置文件已生成: %s\n", path)
		return nil
	},
}

// runConvert 加载配置、初始化日志,然后按输入方式转换
func runConvert(cmd *cobra.Command, args []string) error {
	appConfig, err := core.LoadConfig(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	logConfig := appConfig.LogConfig()
	if verbose && !cmd.Flags().Changed("log-level") {
		logConfig.Level = "debug"
	}
	logConfig.Console = cmd.ErrOrStderr()
	if err := utils.InitLogger(logConfig); err != nil {
		return fmt.Errorf("初始化日志系统失败: %w", err)
	}
	if appConfig.File != "" {
		utils.Debugf("使用配置文件: %s", appConfig.File)
	}

	headerManager, err := core.NewHeaderManager(appConfig.HTTP.Headers, headers)
	if err != nil {
		return fmt.Errorf("HTTP头部配置无效: %w", err)
	}

	if validateConfig {
		return printValidation(cmd.OutOrStdout(), appConfig, headerManager)
	}

	src, err := selectSource(inputURLs, inputList, inputFile, inputText)
	if err != nil {
		if errors.Is(err, errNoInput) {
			return cmd.Help()
		}
		return err
	}

	converter, err := core.NewConverter(appConfig.ConvertConfig(), headerManager)
	if err != nil {
		return fmt.Errorf("创建转换器失败: %w", err)
	}
	defer converter.Close()

	app := &app{
		converter: converter,
		stdin:     cmd.InOrStdin(),
		stdout:    cmd.OutOrStdout(),
		stderr:    cmd.ErrOrStderr(),
		json:      jsonOutput,
		html:      htmlMode,
		report:    reportPath,
	}
	return app.run(cmd.Context(), src)
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径 (默认查找 ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "日志文件目录")

	// HTTP头部参数
	rootCmd.Flags().StringSliceVarP(&headers, "header", "H", []string{}, "短链请求的自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.Flags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件和HTTP头部后退出")

	// 输入
	rootCmd.Flags().StringArrayVarP(&inputURLs, "url", "u", nil, "要转换的链接,可多次指定")
	rootCmd.Flags().StringVarP(&inputList, "list", "l", "", "链接列表文件,每行一个 (- 表示stdin)")
	rootCmd.Flags().StringVarP(&inputFile, "file", "f", "", "扫描文件中的所有链接 (- 表示stdin)")
	rootCmd.Flags().StringVarP(&inputText, "text", "t", "", "扫描文本中的所有链接")
	rootCmd.Flags().BoolVar(&htmlMode, "html", false, "按HTML解析 --file/--text 的内容")

	// 输出
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "以JSON输出结果")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "保存扫描报告的JSON文件路径")

	// 解析参数
	rootCmd.Flags().IntVar(&workers, "workers", 1, "并发解析数 (1-64)")
	rootCmd.Flags().BoolVar(&browserEnabled, "browser", false, "k.youshop10.com 短链改用无头浏览器解析")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	rootCmd.Flags().DurationVar(&selectorTimeout, "selector-timeout", 10*time.Second, "浏览器等待商品页元素的超时")
	rootCmd.Flags().IntVar(&maxTabs, "max-tabs", 4, "浏览器标签页上限 (1-20)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "短链HTTP请求超时")

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "覆盖已存在的配置文件")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}

func main() {
	// Ctrl+C 取消正在进行的解析
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errHasFailures) {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
