package converters

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/RecoveryAshes/linkconv/internal/models"
)

var (
	// m.tb.cn 跳转页中携带商品ID或店铺ID
	mobileTaobaoPattern = regexp.MustCompile(`(?:itemId=(\d+))|(?:shop(\d+))`)

	// k.youshop10.com 跳转后的微店商品地址
	youshopItemPattern = regexp.MustCompile(`itemID=(\d+)`)

	// 淘宝商品ID只有数字
	numericIDPattern = regexp.MustCompile(`^\d+$`)
)

// Dependencies 构建默认注册表所需的共享资源
type Dependencies struct {
	// Fetcher 短链HTTP解析使用,必需
	Fetcher Fetcher

	// Browser 为nil时 k.youshop10.com 走HTTP解析
	Browser Browser

	// 浏览器等待配置
	Selector        string
	SelectorTimeout time.Duration
}

// PatternStrategies 返回全部模式策略(不需要I/O)
func PatternStrategies() []Strategy {
	return []Strategy{
		NewQueryTableStrategy("cnfans", "cnfans.com", PathRule{Prefix: "/product"}, "id", "platform",
			DiscriminatorTable{
				"TAOBAO":   models.Taobao,
				"WEIDIAN":  models.Weidian,
				"ALI_1688": models.Ali1688,
			}),
		NewQueryTableStrategy("acbuy", "www.acbuy.com", PathRule{Prefix: "/product"}, "id", "source",
			DiscriminatorTable{
				"TB": models.Taobao,
				"WD": models.Weidian,
				"AL": models.Ali1688,
			}),
		NewQueryTableStrategy("joyabuy", "joyabuy.com", PathRule{Prefix: "/product/"}, "id", "shop_type",
			DiscriminatorTable{
				"taobao":   models.Taobao,
				"weidian":  models.Weidian,
				"ali_1688": models.Ali1688,
			}),
		NewQueryTableStrategy("lovegobuy", "m.lovegobuy.com", PathRule{Exact: "/product"}, "id", "shop_type",
			DiscriminatorTable{
				"taobao":  models.Taobao,
				"weidian": models.Weidian,
				"1688":    models.Ali1688,
			}),
		NewQueryTableStrategy("ootdbuy", "www.ootdbuy.com", PathRule{Prefix: "/goods/details"}, "id", "channel",
			DiscriminatorTable{
				"TAOBAO":  models.Taobao,
				"weidian": models.Weidian,
				"1688":    models.Ali1688,
			}),
		NewPathSegmentStrategy("oopbuy", "oopbuy.com", "product",
			DiscriminatorTable{
				"1":       models.Taobao,
				"weidian": models.Weidian,
				"0":       models.Ali1688,
			}),
		NewPathRegexStrategy("cssbuy", "www.cssbuy.com", PathRule{Prefix: "/item-"},
			PathPattern{regexp.MustCompile(`^/item-(\d+)\.html$`), models.Taobao},
			PathPattern{regexp.MustCompile(`^/item-micro-(\d+)\.html$`), models.Weidian},
			PathPattern{regexp.MustCompile(`^/item-1688-(\d+)\.html$`), models.Ali1688},
		),
		NewQueryIDStrategy("mobile-intl-taobao", "m.intl.taobao.com", PathRule{}, "id", models.Taobao).
			WithIDPattern(numericIDPattern),
	}
}

// DefaultRegistry 构建包含全部站点的注册表
func DefaultRegistry(deps Dependencies) (*Registry, error) {
	if deps.Fetcher == nil {
		return nil, fmt.Errorf("缺少HTTP请求器,无法创建短链解析策略")
	}

	strategies := PatternStrategies()

	strategies = append(strategies, NewHTTPRedirectStrategy(
		"mobile-taobao", "m.tb.cn", deps.Fetcher,
		mobileTaobaoPattern, CarrierFinalURL|CarrierBody, GoofishOrShop,
	))

	if deps.Browser != nil {
		selector := deps.Selector
		if selector == "" {
			selector = ".into-cart"
		}
		timeout := deps.SelectorTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		strategies = append(strategies, NewBrowserStrategy(
			"youshop10", "k.youshop10.com", deps.Browser,
			selector, timeout, youshopItemPattern, ItemOf(models.Weidian),
		))
	} else {
		strategies = append(strategies, NewHTTPRedirectStrategy(
			"youshop10", "k.youshop10.com", deps.Fetcher,
			youshopItemPattern, CarrierFinalURL, ItemOf(models.Weidian),
		))
	}

	registry := NewRegistry(strategies...)
	if overlaps := registry.Overlaps(); len(overlaps) > 0 {
		return nil, fmt.Errorf("多个策略声明了相同的主机: %s", strings.Join(overlaps, ", "))
	}
	return registry, nil
}
