package converters

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/RecoveryAshes/linkconv/internal/models"
)

// DiscriminatorTable 站点平台标识 → 源平台 的封闭映射
// 表中没有的值一律视为无法转换
type DiscriminatorTable map[string]models.Marketplace

// canonical 校验ID并生成规范链接,任何失败都视为无法转换
func canonical(name string, u *url.URL, m models.Marketplace, id string) (string, error) {
	if !models.IsValidItemID(id) {
		return "", models.NewNonConvertible(u.String(), name)
	}
	target, err := models.CanonicalURL(m, id)
	if err != nil {
		return "", models.NewNonConvertible(u.String(), name)
	}
	return target, nil
}

// firstQueryValue 取查询参数的第一个值,重复键以第一个为准
func firstQueryValue(q url.Values, key string) (string, bool) {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// QueryTableStrategy 从查询参数中读取商品ID和平台标识
// discriminatorKey 为空时所有ID都归属 fixed 平台
type QueryTableStrategy struct {
	name             string
	host             string
	path             PathRule
	idKey            string
	discriminatorKey string
	table            DiscriminatorTable
	fixed            models.Marketplace
	idPattern        *regexp.Regexp // 非空时ID必须完整匹配
}

// NewQueryTableStrategy 创建查询参数策略
func NewQueryTableStrategy(name, host string, path PathRule, idKey, discriminatorKey string, table DiscriminatorTable) *QueryTableStrategy {
	return &QueryTableStrategy{
		name:             name,
		host:             host,
		path:             path,
		idKey:            idKey,
		discriminatorKey: discriminatorKey,
		table:            table,
	}
}

// NewQueryIDStrategy 创建固定平台的查询参数策略
func NewQueryIDStrategy(name, host string, path PathRule, idKey string, m models.Marketplace) *QueryTableStrategy {
	return &QueryTableStrategy{
		name:  name,
		host:  host,
		path:  path,
		idKey: idKey,
		fixed: m,
	}
}

// WithIDPattern 限定ID格式,不符合时视为无法转换
func (s *QueryTableStrategy) WithIDPattern(pattern *regexp.Regexp) *QueryTableStrategy {
	s.idPattern = pattern
	return s
}

func (s *QueryTableStrategy) Name() string { return s.name }
func (s *QueryTableStrategy) Host() string { return s.host }

func (s *QueryTableStrategy) CanConvert(u *url.URL) bool {
	return hostIs(u, s.host) && s.path.Match(urlPath(u))
}

func (s *QueryTableStrategy) Convert(_ context.Context, u *url.URL) (string, error) {
	q := u.Query()

	id, ok := firstQueryValue(q, s.idKey)
	if !ok || (s.idPattern != nil && !s.idPattern.MatchString(id)) {
		return "", models.NewNonConvertible(u.String(), s.name)
	}

	m := s.fixed
	if s.discriminatorKey != "" {
		disc, ok := firstQueryValue(q, s.discriminatorKey)
		if !ok {
			return "", models.NewNonConvertible(u.String(), s.name)
		}
		if m, ok = s.table[disc]; !ok {
			return "", models.NewNonConvertible(u.String(), s.name)
		}
	}

	return canonical(s.name, u, m, id)
}

// PathSegmentStrategy 从 /{root}/{平台标识}/{ID} 形式的路径中提取
type PathSegmentStrategy struct {
	name  string
	host  string
	root  string
	table DiscriminatorTable
}

// NewPathSegmentStrategy 创建路径段策略
func NewPathSegmentStrategy(name, host, root string, table DiscriminatorTable) *PathSegmentStrategy {
	return &PathSegmentStrategy{name: name, host: host, root: root, table: table}
}

func (s *PathSegmentStrategy) Name() string { return s.name }
func (s *PathSegmentStrategy) Host() string { return s.host }

func (s *PathSegmentStrategy) CanConvert(u *url.URL) bool {
	return hostIs(u, s.host) && strings.HasPrefix(urlPath(u), "/"+s.root+"/")
}

func (s *PathSegmentStrategy) Convert(_ context.Context, u *url.URL) (string, error) {
	segments := make([]string, 0, 4)
	for _, seg := range strings.Split(urlPath(u), "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	if len(segments) < 3 || segments[0] != s.root {
		return "", models.NewNonConvertible(u.String(), s.name)
	}

	m, ok := s.table[segments[1]]
	if !ok {
		return "", models.NewNonConvertible(u.String(), s.name)
	}
	return canonical(s.name, u, m, segments[2])
}

// PathPattern 路径正则及其对应平台,正则的第一个分组为商品ID
type PathPattern struct {
	Pattern     *regexp.Regexp
	Marketplace models.Marketplace
}

// PathRegexStrategy 同一主机的多种路径形式,按顺序尝试,第一个命中的生效
type PathRegexStrategy struct {
	name     string
	host     string
	path     PathRule
	patterns []PathPattern
}

// NewPathRegexStrategy 创建路径正则策略
func NewPathRegexStrategy(name, host string, path PathRule, patterns ...PathPattern) *PathRegexStrategy {
	return &PathRegexStrategy{name: name, host: host, path: path, patterns: patterns}
}

func (s *PathRegexStrategy) Name() string { return s.name }
func (s *PathRegexStrategy) Host() string { return s.host }

func (s *PathRegexStrategy) CanConvert(u *url.URL) bool {
	return hostIs(u, s.host) && s.path.Match(urlPath(u))
}

func (s *PathRegexStrategy) Convert(_ context.Context, u *url.URL) (string, error) {
	path := urlPath(u)
	for _, p := range s.patterns {
		if m := p.Pattern.FindStringSubmatch(path); len(m) > 1 {
			return canonical(s.name, u, p.Marketplace, m[1])
		}
	}
	return "", models.NewNonConvertible(u.String(), s.name)
}
