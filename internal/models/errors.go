package models

import (
	"errors"
	"fmt"
)

// ErrorKind 转换错误分类
type ErrorKind int

const (
	// KindNonConvertible 没有策略适用,或策略无法识别平台/ID组合
	KindNonConvertible ErrorKind = iota + 1
	// KindFailedToRedirect 实时解析调用成功,但结果中提取不到ID(正则未命中、等待选择器超时)
	KindFailedToRedirect
	// KindTransport HTTP或浏览器调用本身失败
	KindTransport
	// KindURLParse 文本中类似URL的片段解析失败(仅批量扫描)
	KindURLParse
)

// String 返回分类名称
func (k ErrorKind) String() string {
	switch k {
	case KindNonConvertible:
		return "non_convertible_url"
	case KindFailedToRedirect:
		return "failed_to_redirect"
	case KindTransport:
		return "transport_failure"
	case KindURLParse:
		return "url_parse_failure"
	default:
		return "unknown"
	}
}

// Retryable 是否值得由调用方重试
// 不支持的站点重试没有意义,实时解析失败和传输失败可能是暂时的
func (k ErrorKind) Retryable() bool {
	return k == KindFailedToRedirect || k == KindTransport
}

// ConversionError 链接转换错误
type ConversionError struct {
	Kind     ErrorKind
	URL      string // 原始链接
	Strategy string // 处理该链接的策略名称,未匹配时为空
	Cause    error
}

// 哨兵错误,配合errors.Is按分类判断
var (
	ErrNonConvertibleURL = &ConversionError{Kind: KindNonConvertible}
	ErrFailedToRedirect  = &ConversionError{Kind: KindFailedToRedirect}
	ErrTransport         = &ConversionError{Kind: KindTransport}
	ErrURLParse          = &ConversionError{Kind: KindURLParse}
)

// Error 实现error接口
func (e *ConversionError) Error() string {
	var msg string
	switch e.Kind {
	case KindNonConvertible:
		msg = "无法转换的链接"
	case KindFailedToRedirect:
		msg = "解析跳转链接失败"
	case KindTransport:
		msg = "请求失败"
	case KindURLParse:
		msg = "链接解析失败"
	default:
		msg = "转换失败"
	}
	if e.Strategy != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Strategy)
	}
	if e.URL != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.URL)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

// Unwrap 支持errors.Unwrap
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is 按分类匹配
func (e *ConversionError) Is(target error) bool {
	t, ok := target.(*ConversionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewNonConvertible 创建不支持的链接错误
func NewNonConvertible(url, strategy string) *ConversionError {
	return &ConversionError{Kind: KindNonConvertible, URL: url, Strategy: strategy}
}

// NewFailedToRedirect 创建实时解析失败错误
func NewFailedToRedirect(url, strategy string, cause error) *ConversionError {
	return &ConversionError{Kind: KindFailedToRedirect, URL: url, Strategy: strategy, Cause: cause}
}

// NewTransport 创建传输失败错误
func NewTransport(url, strategy string, cause error) *ConversionError {
	return &ConversionError{Kind: KindTransport, URL: url, Strategy: strategy, Cause: cause}
}

// NewURLParse 创建链接解析失败错误
func NewURLParse(raw string, cause error) *ConversionError {
	return &ConversionError{Kind: KindURLParse, URL: raw, Cause: cause}
}

// KindOf 返回错误的分类,非ConversionError返回0
func KindOf(err error) ErrorKind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
