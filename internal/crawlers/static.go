package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RecoveryAshes/linkconv/internal/converters"
	"github.com/RecoveryAshes/linkconv/internal/models"
	"github.com/RecoveryAshes/linkconv/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent 未配置User-Agent时使用的移动端UA
// 短链服务对桌面UA会返回下载App的落地页
const DefaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

// StaticFetcher 基于Colly的短链请求器
// 所有请求共享同一个HTTP客户端,每次请求克隆一个collector挂载独立的回调
type StaticFetcher struct {
	base           *colly.Collector
	config         models.HTTPConfig
	headerProvider models.HeaderProvider
}

// NewStaticFetcher 创建短链请求器
func NewStaticFetcher(config models.HTTPConfig, headerProvider models.HeaderProvider) *StaticFetcher {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(DefaultUserAgent),
	)
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(config.Timeout)

	maxRedirects := config.MaxRedirects
	c.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return fmt.Errorf("超过最大跳转次数 %d", maxRedirects)
		}
		utils.Debugf("跟随跳转 [%d/%d]: %s", len(via), maxRedirects, req.URL.String())
		return nil
	})

	utils.Debugf("短链请求器: 超时=%v, 最大跳转=%d", config.Timeout, maxRedirects)

	return &StaticFetcher{
		base:           c,
		config:         config,
		headerProvider: headerProvider,
	}
}

// Fetch 实现 converters.Fetcher
func (sf *StaticFetcher) Fetch(ctx context.Context, rawURL string) (*converters.FetchResult, error) {
	var headers http.Header
	if sf.headerProvider != nil {
		h, err := sf.headerProvider.GetHeaders()
		if err != nil {
			return nil, fmt.Errorf("获取HTTP头部失败: %w", err)
		}
		headers = h
	}

	c := sf.base.Clone()
	c.Context = ctx
	c.ParseHTTPErrorResponse = true

	var result *converters.FetchResult
	start := time.Now()

	c.OnRequest(func(r *colly.Request) {
		for name, values := range headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[0])
			}
		}
		r.Headers.Set("Accept-Encoding", "gzip, deflate, br")
	})

	c.OnResponse(func(r *colly.Response) {
		finalURL := r.Request.URL.String()
		contentEncoding := r.Headers.Get("Content-Encoding")

		body := r.Body
		if contentEncoding != "" {
			decompressed, err := decompressResponse(contentEncoding, r.Body)
			if err != nil {
				utils.Warnf("解压响应失败 [%s] (编码=%s): %v", finalURL, contentEncoding, err)
			} else {
				body = decompressed
			}
		}

		result = &converters.FetchResult{
			FinalURL:   finalURL,
			Body:       string(body),
			StatusCode: r.StatusCode,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		utils.Debugf("短链请求失败 [%s]: %v", r.Request.URL, err)
	})

	if err := c.Visit(rawURL); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("请求 %s 没有得到响应", rawURL)
	}

	utils.Debugf("短链请求耗时 %v: %s -> %s", time.Since(start).Round(time.Millisecond), rawURL, result.FinalURL)
	return result, nil
}

// decompressResponse 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate(zlib或裸流), br (Brotli)
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		// Colly已经解压过gzip,只有仍带gzip魔数时才处理
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		// HTTP的deflate是zlib格式,部分服务器直接发送裸deflate流
		if decompressed, err := inflateZlib(body); err == nil {
			return decompressed, nil
		}

		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "identity":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}

// inflateZlib 解压zlib格式的数据
func inflateZlib(body []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
