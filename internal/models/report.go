package models

import (
	"encoding/json"
	"time"
)

// LinkFailure 批量扫描中转换失败的链接
type LinkFailure struct {
	Matched string // 文本中匹配到的原始片段
	Err     error
}

// BulkResult 批量扫描结果
// 两个序列都按链接在文本中出现的顺序排列
type BulkResult struct {
	Successes []string
	Errors    []LinkFailure
}

// Total 匹配到的链接总数
func (r *BulkResult) Total() int {
	return len(r.Successes) + len(r.Errors)
}

// LinkRecord 单个链接的处理记录
type LinkRecord struct {
	Index     int    `json:"index"`               // 在文本中出现的序号(从0开始)
	Matched   string `json:"matched"`             // 原始片段
	Canonical string `json:"canonical,omitempty"` // 规范链接
	ErrorType string `json:"error_type,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

// Succeeded 是否转换成功
func (r LinkRecord) Succeeded() bool {
	return r.ErrorType == ""
}

// ScanReport 批量扫描报告
type ScanReport struct {
	// 任务信息
	ScanID string `json:"scan_id"`
	Source string `json:"source"` // 文本来源(文件路径、stdin 或 inline)

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 统计信息
	TotalLinks   int `json:"total_links"`
	SuccessCount int `json:"success_count"`
	FailCount    int `json:"fail_count"`

	Records []LinkRecord `json:"records"`

	// 配置快照
	Config ConvertConfig `json:"config"`
}

// NewScanReport 根据扫描记录创建报告
func NewScanReport(source string, start time.Time, records []LinkRecord, config ConvertConfig) *ScanReport {
	end := time.Now()
	report := &ScanReport{
		ScanID:     NewScanID(),
		Source:     source,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start).Seconds(),
		TotalLinks: len(records),
		Records:    records,
		Config:     config,
	}
	for _, r := range records {
		if r.Succeeded() {
			report.SuccessCount++
		} else {
			report.FailCount++
		}
	}
	return report
}

// ToJSON 序列化为JSON
func (r *ScanReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *ScanReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
