package crawlers

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/idna"
)

// linkPattern 文本中的链接: http/https 协议后跟连续的非空白字符
// 不处理结尾标点,紧挨空白的标点会被包含在链接中
// 空白按Unicode定义,中文文本中的全角空格同样作为分隔
var linkPattern = regexp.MustCompile(`https?://[^\s\x{0B}\x{85}\p{Z}]+`)

// ExtractLinks 按出现顺序返回文本中所有形如链接的片段
// 不去重,同一链接出现多次会返回多次
func ExtractLinks(text string) []string {
	return linkPattern.FindAllString(text, -1)
}

// ParseURL 将片段解析为链接
// 只接受 http/https,必须包含主机名,主机名统一转为小写ASCII形式
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("不支持的协议: %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("链接缺少主机名")
	}

	// IPv6地址保持原样
	if strings.Contains(host, ":") {
		return u, nil
	}

	normalized := strings.ToLower(host)
	if !isASCII(normalized) {
		normalized, err = idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, fmt.Errorf("主机名无效 %q: %w", host, err)
		}
	}

	if port := u.Port(); port != "" {
		u.Host = normalized + ":" + port
	} else {
		u.Host = normalized
	}
	return u, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// ExtractHTMLLinks 从HTML文档中提取链接
// 按文档顺序收集 a[href] 的绝对地址和文本节点中的链接
// 链接文字就是href本身时只收集一次
func ExtractHTMLLinks(r io.Reader) ([]string, error) {
	tokenizer := html.NewTokenizer(r)
	links := make([]string, 0)
	skip := 0 // 位于 script/style 内部时不扫描文本
	anchorHref := "" // 当前 <a> 的地址,链接文字与它相同时不重复收集

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return links, fmt.Errorf("解析HTML失败: %w", err)
			}
			return links, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script", "style":
				if tt == html.StartTagToken {
					skip++
				}
			case "a":
				anchorHref = ""
				for _, attr := range token.Attr {
					if attr.Key != "href" {
						continue
					}
					href := strings.TrimSpace(attr.Val)
					if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
						links = append(links, href)
						if tt == html.StartTagToken {
							anchorHref = href
						}
					}
				}
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "a":
				anchorHref = ""
			}

		case html.TextToken:
			if skip > 0 {
				continue
			}
			for _, link := range ExtractLinks(string(tokenizer.Text())) {
				if link != anchorHref {
					links = append(links, link)
				}
			}
		}
	}
}
