package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RecoveryAshes/linkconv/internal/core"
)

// errNoInput 没有指定任何输入,显示帮助
var errNoInput = errors.New("没有指定输入")

// sourceKind 输入方式
type sourceKind int

const (
	sourceURLs sourceKind = iota + 1 // -u 逐个转换
	sourceList                       // -l 列表文件逐行转换
	sourceFile                       // -f 扫描文件
	sourceText                       // -t 扫描文本
)

// source 一次运行的输入
type source struct {
	kind sourceKind
	urls []string
	path string
	text string
}

// name 报告中记录的来源
func (s source) name() string {
	switch s.kind {
	case sourceList, sourceFile:
		if s.path == "-" {
			return "stdin"
		}
		return s.path
	case sourceText:
		return "inline"
	default:
		return "args"
	}
}

// selectSource 检查输入参数,-u/-l/-f/-t 只能选择一种
func selectSource(urls []string, list, file, text string) (source, error) {
	var chosen []source
	if len(urls) > 0 {
		chosen = append(chosen, source{kind: sourceURLs, urls: urls})
	}
	if list != "" {
		chosen = append(chosen, source{kind: sourceList, path: list})
	}
	if file != "" {
		chosen = append(chosen, source{kind: sourceFile, path: file})
	}
	if text != "" {
		chosen = append(chosen, source{kind: sourceText, text: text})
	}

	switch len(chosen) {
	case 0:
		return source{}, errNoInput
	case 1:
		return chosen[0], nil
	default:
		return source{}, fmt.Errorf("--url、--list、--file、--text 只能指定其中一个")
	}
}

// printValidation 输出 --validate-config 的检查结果
func printValidation(w io.Writer, cfg *core.Config, hm *core.HeaderManager) error {
	if err := hm.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	file := cfg.File
	if file == "" {
		file = "(未找到,使用默认配置)"
	}
	convert := cfg.ConvertConfig()

	var b strings.Builder
	fmt.Fprintf(&b, "配置验证通过\n")
	fmt.Fprintf(&b, "配置文件: %s\n", file)
	fmt.Fprintf(&b, "HTTP超时: %v, 最大跳转: %d\n", convert.HTTP.Timeout, convert.HTTP.MaxRedirects)
	fmt.Fprintf(&b, "浏览器: 启用=%t, 无头=%t, 选择器=%s, 超时=%v, 标签页=%d\n",
		convert.Browser.Enabled, convert.Browser.Headless, convert.Browser.Selector,
		convert.Browser.SelectorTimeout, convert.Browser.MaxTabs)
	fmt.Fprintf(&b, "并发数: %d\n", convert.Scan.Workers)
	fmt.Fprintf(&b, "HTTP头部: %s\n", hm.GetSafeHeaders())

	_, err := io.WriteString(w, b.String())
	return err
}
