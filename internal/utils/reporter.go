package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/schollz/progressbar/v3"
)

// WriteScanReport 将扫描报告保存为JSON文件
func WriteScanReport(path string, report *models.ScanReport) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建报告目录失败: %w", err)
		}
	}

	data, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Infof("报告已生成: %s (成功 %d, 失败 %d)", path, report.SuccessCount, report.FailCount)
	return nil
}

// NewProgressBar 创建进度条,输出到w(通常是stderr,避免与结果混在一起)
func NewProgressBar(w io.Writer, max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
