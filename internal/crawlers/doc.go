// Package crawlers 提供短链解析所需的HTTP请求器、无头浏览器和链接提取
//
// # 概述
//
// converters包只定义了 Fetcher 和 Browser 两个接口,本包给出基于 Colly 和 go-rod 的实现,
// 以及批量扫描使用的链接提取函数。
//
// # 核心组件
//
// ## StaticFetcher
//
// 基于Colly的HTTP请求器,跟随跳转并返回最终地址和解压后的响应体。
// 每次请求都从同一个基础Collector克隆,连接池在所有请求之间共享,可以被多个goroutine同时使用。
//
//	fetcher := NewStaticFetcher(config.HTTP, headerManager)
//	result, err := fetcher.Fetch(ctx, "https://m.tb.cn/h.TjKAehX")
//	// result.FinalURL, result.Body
//
// 响应体按 Content-Encoding 解压 (gzip/deflate/br)。
// 状态码不是2xx时仍然返回响应体,由调用方决定如何处理。
//
// ## RodBrowser
//
// 基于go-rod的浏览器,第一次打开标签页时才启动Chrome。
// 同时打开的标签页数由 TabLimiter 限制,上限取配置值和 ResourceMonitor 计算结果中较小的一个。
//
//	browser := NewRodBrowser(config.Browser)
//	defer browser.Close()
//
//	tab, err := browser.NewTab(ctx)
//	if err != nil { /* 处理错误 */ }
//	defer tab.Close()
//
//	tab.Navigate("https://k.youshop10.com/9bWUm-2q")
//	tab.WaitForSelector(".into-cart", 10*time.Second)
//	finalURL, _ := tab.CurrentURL()
//
// ## ResourceMonitor (资源监控器)
//
// 根据可用内存和CPU核数估算可以同时打开的标签页数:
//   - 可用内存扣除预留后,按每个标签页约150MB计算
//   - 不超过CPU核数
//   - 不超过配置的 max_tabs
//   - 至少为1
//
// ## 链接提取
//
// ExtractLinks 从纯文本中按出现顺序提取 http/https 链接,链接以空白字符(包括全角空格)结束。
// ExtractHTMLLinks 额外提取 <a href> 中的绝对链接,跳过 script 和 style 的内容。
// ParseURL 解析单个链接,主机名转为小写,非ASCII域名转为punycode。
package crawlers
