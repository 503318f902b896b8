package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Marketplace 源电商平台标识
type Marketplace string

const (
	Taobao  Marketplace = "TAOBAO"   // 淘宝
	Weidian Marketplace = "WEIDIAN"  // 微店
	Ali1688 Marketplace = "ALI_1688" // 1688
	Goofish Marketplace = "GOOFISH"  // 闲鱼
)

// ErrInvalidItemID 商品ID为空或包含非法字符
var ErrInvalidItemID = errors.New("无效的商品ID")

// itemIDPattern 商品ID只允许标识符安全的字符,保证可以原样拼接进URL
var itemIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)

// canonicalTemplates 各平台的规范商品链接模板
var canonicalTemplates = map[Marketplace]string{
	Taobao:  "https://item.taobao.com/item.htm?id=%s",
	Weidian: "https://weidian.com/item.html?itemID=%s",
	Ali1688: "https://detail.1688.com/offer/%s.html",
	Goofish: "https://www.goofish.com/item?id=%s",
}

// Marketplaces 返回全部已知平台
func Marketplaces() []Marketplace {
	return []Marketplace{Taobao, Weidian, Ali1688, Goofish}
}

// IsValidItemID 检查ID是否可以直接拼接进规范链接
func IsValidItemID(id string) bool {
	return itemIDPattern.MatchString(id)
}

// CanonicalURL 根据平台和商品ID生成规范商品链接
// ID按原样插入,调用方必须先通过IsValidItemID校验
func CanonicalURL(m Marketplace, itemID string) (string, error) {
	tmpl, ok := canonicalTemplates[m]
	if !ok {
		return "", fmt.Errorf("未知的平台: %q", m)
	}
	if strings.TrimSpace(itemID) == "" {
		return "", ErrInvalidItemID
	}
	return fmt.Sprintf(tmpl, itemID), nil
}

// ShopURL 生成淘宝店铺首页链接(短链解析到店铺而非商品时使用)
func ShopURL(shopID string) (string, error) {
	if !IsValidItemID(shopID) {
		return "", fmt.Errorf("%w: 店铺ID %q", ErrInvalidItemID, shopID)
	}
	return fmt.Sprintf("https://shop%s.world.taobao.com/", shopID), nil
}
