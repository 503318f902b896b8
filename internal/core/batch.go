package core

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RecoveryAshes/linkconv/internal/converters"
	"github.com/RecoveryAshes/linkconv/internal/crawlers"
	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
)

// LinkOutcome 文本中单个链接的处理结果
type LinkOutcome struct {
	Index     int    // 在文本中出现的序号
	Matched   string // 原始片段
	Canonical string
	Err       error
}

// Record 转换为报告记录
func (o LinkOutcome) Record() models.LinkRecord {
	r := models.LinkRecord{
		Index:     o.Index,
		Matched:   o.Matched,
		Canonical: o.Canonical,
	}
	if o.Err != nil {
		r.ErrorType = models.KindOf(o.Err).String()
		r.ErrorMsg = o.Err.Error()
	}
	return r
}

// BatchScanner 批量扫描器
// 从文本中提取链接并逐个转换,单个链接失败不影响其他链接
type BatchScanner struct {
	registry *converters.Registry
	workers  int

	// OnProgress 每处理完一个链接调用一次(可能来自多个goroutine,调用是串行的)
	OnProgress func(done, total int)
}

// NewBatchScanner 创建批量扫描器,workers<=1 时顺序执行
func NewBatchScanner(registry *converters.Registry, workers int) *BatchScanner {
	if workers < 1 {
		workers = 1
	}
	return &BatchScanner{registry: registry, workers: workers}
}

// ScanText 扫描纯文本
func (bs *BatchScanner) ScanText(ctx context.Context, text string) []LinkOutcome {
	return bs.ScanMatches(ctx, crawlers.ExtractLinks(text))
}

// ScanHTML 扫描HTML文档(链接来自 a[href] 和文本节点)
func (bs *BatchScanner) ScanHTML(ctx context.Context, r io.Reader) ([]LinkOutcome, error) {
	matches, err := crawlers.ExtractHTMLLinks(r)
	if err != nil {
		return nil, err
	}
	return bs.ScanMatches(ctx, matches), nil
}

// ScanMatches 转换已提取的片段,结果顺序与输入顺序一致
func (bs *BatchScanner) ScanMatches(ctx context.Context, matches []string) []LinkOutcome {
	total := len(matches)
	outcomes := make([]LinkOutcome, total)
	if total == 0 {
		return outcomes
	}

	start := time.Now()
	var mu sync.Mutex
	done := 0
	report := func() {
		if bs.OnProgress == nil {
			return
		}
		mu.Lock()
		done++
		bs.OnProgress(done, total)
		mu.Unlock()
	}

	if bs.workers == 1 || total == 1 {
		for i, raw := range matches {
			outcomes[i] = bs.resolve(ctx, i, raw)
			report()
		}
	} else {
		var g errgroup.Group
		g.SetLimit(bs.workers)
		for i, raw := range matches {
			g.Go(func() error {
				// 每个goroutine只写自己的下标
				outcomes[i] = bs.resolve(ctx, i, raw)
				report()
				return nil
			})
		}
		_ = g.Wait()
	}

	success := 0
	for _, o := range outcomes {
		if o.Err == nil {
			success++
		}
	}
	utils.Infof("批量扫描完成: 共 %d 个链接, 成功 %d, 失败 %d, 耗时 %v",
		total, success, total-success, time.Since(start).Round(time.Millisecond))

	return outcomes
}

// resolve 解析并转换单个片段
func (bs *BatchScanner) resolve(ctx context.Context, index int, raw string) LinkOutcome {
	outcome := LinkOutcome{Index: index, Matched: raw}

	u, err := crawlers.ParseURL(raw)
	if err != nil {
		outcome.Err = models.NewURLParse(raw, err)
		utils.Debugf("跳过无法解析的链接: %s (%v)", raw, err)
		return outcome
	}

	canonical, err := bs.registry.Dispatch(ctx, u)
	if err != nil {
		outcome.Err = err
		utils.Debugf("转换失败: %s (%v)", raw, err)
		return outcome
	}

	outcome.Canonical = canonical
	return outcome
}

// Partition 按成功/失败拆分,各自保持原有顺序
func Partition(outcomes []LinkOutcome) *models.BulkResult {
	result := &models.BulkResult{
		Successes: make([]string, 0),
		Errors:    make([]models.LinkFailure, 0),
	}
	for _, o := range outcomes {
		if o.Err != nil {
			result.Errors = append(result.Errors, models.LinkFailure{Matched: o.Matched, Err: o.Err})
		} else {
			result.Successes = append(result.Successes, o.Canonical)
		}
	}
	return result
}

// Records 转换为报告记录
func Records(outcomes []LinkOutcome) []models.LinkRecord {
	records := make([]models.LinkRecord, len(outcomes))
	for i, o := range outcomes {
		records[i] = o.Record()
	}
	return records
}
