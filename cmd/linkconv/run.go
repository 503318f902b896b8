package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/RecoveryAshes/linkconv/internal/core"
	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
)

// app 一次命令行运行
type app struct {
	converter *core.Converter
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	json      bool
	html      bool
	report    string
	quiet     bool // 不显示进度条
}

// run 读取输入、转换并输出结果
func (a *app) run(ctx context.Context, src source) error {
	start := time.Now()

	scanner := a.converter.NewScanner()
	var bar *progressbar.ProgressBar
	if !a.quiet {
		scanner.OnProgress = func(done, total int) {
			if total < 2 {
				return
			}
			if bar == nil {
				bar = utils.NewProgressBar(a.stderr, total, "解析链接")
			}
			_ = bar.Set(done)
		}
	}

	outcomes, err := a.scan(ctx, scanner, src)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	records := core.Records(outcomes)
	if err := a.print(outcomes, records); err != nil {
		return err
	}

	if a.report != "" {
		report := models.NewScanReport(src.name(), start, records, a.converter.Config())
		if err := utils.WriteScanReport(a.report, report); err != nil {
			return err
		}
	}

	for _, o := range outcomes {
		if o.Err != nil {
			return errHasFailures
		}
	}
	return nil
}

func (a *app) scan(ctx context.Context, scanner *core.BatchScanner, src source) ([]core.LinkOutcome, error) {
	switch src.kind {
	case sourceURLs:
		return scanner.ScanMatches(ctx, src.urls), nil

	case sourceList:
		text, err := utils.ReadText(src.path, a.stdin)
		if err != nil {
			return nil, err
		}
		lines, err := utils.ReadLines(strings.NewReader(text))
		if err != nil {
			return nil, err
		}
		return scanner.ScanMatches(ctx, lines), nil

	case sourceFile, sourceText:
		text := src.text
		if src.kind == sourceFile {
			var err error
			if text, err = utils.ReadText(src.path, a.stdin); err != nil {
				return nil, err
			}
		}
		if a.html {
			return scanner.ScanHTML(ctx, strings.NewReader(text))
		}
		return scanner.ScanText(ctx, text), nil
	}
	return nil, fmt.Errorf("未知的输入方式: %d", src.kind)
}

// print 成功的规范链接写到stdout,失败写到stderr
// JSON模式下所有记录按顺序写到stdout
func (a *app) print(outcomes []core.LinkOutcome, records []models.LinkRecord) error {
	if a.json {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(records)
	}

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(a.stderr, "%s\t%v\n", o.Matched, o.Err)
			continue
		}
		if _, err := fmt.Fprintln(a.stdout, o.Canonical); err != nil {
			return err
		}
	}
	return nil
}
