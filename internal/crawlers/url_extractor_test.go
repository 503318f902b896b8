package crawlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "按出现顺序提取",
			text: "Hello https://www.rust-lang.org/ friend https://k.youshop10.com/abc LOL https://crates.io/ asdasd",
			want: []string{"https://www.rust-lang.org/", "https://k.youshop10.com/abc", "https://crates.io/"},
		},
		{
			name: "结尾标点被包含",
			text: "看这个 https://cnfans.com/product?id=1&platform=TAOBAO, 还有 http://a.example.com.",
			want: []string{"https://cnfans.com/product?id=1&platform=TAOBAO,", "http://a.example.com."},
		},
		{
			name: "全角空格作为分隔",
			text: "链接https://oopbuy.com/product/1/2　后面的文字",
			want: []string{"https://oopbuy.com/product/1/2"},
		},
		{
			name: "重复链接不去重",
			text: "https://a.example.com https://a.example.com",
			want: []string{"https://a.example.com", "https://a.example.com"},
		},
		{
			name: "没有链接",
			text: "ftp://files.example.com 以及 https:// 空协议",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLinks(tt.text))
		})
	}
}

func TestParseURL(t *testing.T) {
	t.Run("主机名转为小写", func(t *testing.T) {
		u, err := ParseURL("https://WWW.CSSBUY.com/item-1.html")
		require.NoError(t, err)
		assert.Equal(t, "www.cssbuy.com", u.Host)
		assert.Equal(t, "/item-1.html", u.Path)
	})

	t.Run("保留端口", func(t *testing.T) {
		u, err := ParseURL("http://Example.com:8080/x")
		require.NoError(t, err)
		assert.Equal(t, "example.com:8080", u.Host)
	})

	t.Run("国际化域名转为punycode", func(t *testing.T) {
		u, err := ParseURL("https://例子.测试/path")
		require.NoError(t, err)
		assert.Equal(t, "xn--fsqu00a.xn--0zwm56d", u.Host)
	})

	t.Run("IPv6地址", func(t *testing.T) {
		u, err := ParseURL("http://[::1]:8080/")
		require.NoError(t, err)
		assert.Equal(t, "::1", u.Hostname())
	})

	invalid := []string{
		"https:///path",
		"https://%zz",
		"ftp://example.com",
		"https://[::1",
	}
	for _, raw := range invalid {
		t.Run("无效: "+raw, func(t *testing.T) {
			_, err := ParseURL(raw)
			assert.Error(t, err)
		})
	}
}

func TestExtractHTMLLinks(t *testing.T) {
	doc := `<html><head>
<script>var x = "https://tracker.example.com/a";</script>
<style>body { background: url(https://cdn.example.com/bg.png) }</style>
</head><body>
<p>第一个 <a href="https://cnfans.com/product?id=1&amp;platform=TAOBAO">商品</a></p>
<a href="/relative">相对链接</a>
<p>文本中的 https://m.tb.cn/h.abc 链接</p>
<a href=" https://www.cssbuy.com/item-2.html ">cssbuy</a>
</body></html>`

	links, err := ExtractHTMLLinks(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cnfans.com/product?id=1&platform=TAOBAO",
		"https://m.tb.cn/h.abc",
		"https://www.cssbuy.com/item-2.html",
	}, links)
}

func TestExtractHTMLLinks_AnchorText(t *testing.T) {
	t.Run("文字与href相同", func(t *testing.T) {
		doc := `<a href="https://m.tb.cn/h.abc">https://m.tb.cn/h.abc</a>`
		links, err := ExtractHTMLLinks(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, []string{"https://m.tb.cn/h.abc"}, links)
	})

	t.Run("文字是另一个链接", func(t *testing.T) {
		doc := `<a href="https://m.tb.cn/h.abc">https://www.cssbuy.com/item-2.html</a>`
		links, err := ExtractHTMLLinks(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, []string{"https://m.tb.cn/h.abc", "https://www.cssbuy.com/item-2.html"}, links)
	})

	t.Run("a结束后同一链接再次出现", func(t *testing.T) {
		doc := `<a href="https://m.tb.cn/h.abc">https://m.tb.cn/h.abc</a> 再发一次 https://m.tb.cn/h.abc`
		links, err := ExtractHTMLLinks(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, []string{"https://m.tb.cn/h.abc", "https://m.tb.cn/h.abc"}, links)
	})
}
