package converters

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RecoveryAshes/linkconv/internal/models"
)

func TestGoofishOrShop(t *testing.T) {
	got, err := GoofishOrShop([]string{"713649093700", ""})
	require.NoError(t, err)
	assert.Equal(t, "https://www.goofish.com/item?id=713649093700", got)

	got, err = GoofishOrShop([]string{"", "106593387"})
	require.NoError(t, err)
	assert.Equal(t, "https://shop106593387.world.taobao.com/", got)

	_, err = GoofishOrShop([]string{"", ""})
	assert.ErrorIs(t, err, errNoIdentifier)
}

func TestItemOf(t *testing.T) {
	resolve := ItemOf(models.Weidian)

	got, err := resolve([]string{"", "7238806524"})
	require.NoError(t, err)
	assert.Equal(t, "https://weidian.com/item.html?itemID=7238806524", got)

	_, err = resolve([]string{"12 34"})
	assert.ErrorIs(t, err, models.ErrInvalidItemID)

	_, err = resolve(nil)
	assert.ErrorIs(t, err, errNoIdentifier)
}

func TestHTTPRedirectStrategy_WrapsTransportError(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	fetcher := newFakeFetcher().fail("https://s.example.com/a", cause)
	s := NewHTTPRedirectStrategy("short", "s.example.com", fetcher,
		regexp.MustCompile(`id=(\d+)`), CarrierFinalURL, ItemOf(models.Taobao))

	_, err := s.Convert(context.Background(), mustParse(t, "https://s.example.com/a"))
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPRedirectStrategy_BodyFallback(t *testing.T) {
	fetcher := newFakeFetcher().on("https://s.example.com/a", "https://s.example.com/a", "goto id=42")
	s := NewHTTPRedirectStrategy("short", "s.example.com", fetcher,
		regexp.MustCompile(`id=(\d+)`), CarrierFinalURL|CarrierBody, ItemOf(models.Taobao))

	got, err := s.Convert(context.Background(), mustParse(t, "https://s.example.com/a"))
	require.NoError(t, err)
	assert.Equal(t, "https://item.taobao.com/item.htm?id=42", got)
}

func newTestBrowserStrategy(browser Browser, timeout time.Duration) *BrowserStrategy {
	return NewBrowserStrategy("youshop10", "k.youshop10.com", browser,
		".into-cart", timeout, youshopItemPattern, ItemOf(models.Weidian))
}

func TestBrowserStrategy_SelectorTimeout(t *testing.T) {
	const short = "https://k.youshop10.com/never"
	browser := newFakeBrowser()
	browser.stuck[short] = true
	s := newTestBrowserStrategy(browser, 50*time.Millisecond)

	start := time.Now()
	got, err := s.Convert(context.Background(), mustParse(t, short))
	elapsed := time.Since(start)

	assert.Empty(t, got)
	assert.ErrorIs(t, err, models.ErrFailedToRedirect)
	assert.ErrorIs(t, err, ErrSelectorTimeout)
	assert.Less(t, elapsed, 2*time.Second)
	assert.Equal(t, 1, browser.closed, "超时后标签页必须关闭")
}

func TestBrowserStrategy_NoItemInCurrentURL(t *testing.T) {
	const short = "https://k.youshop10.com/shop"
	browser := newFakeBrowser()
	browser.current[short] = "https://weidian.com/?userid=1"
	s := newTestBrowserStrategy(browser, time.Second)

	_, err := s.Convert(context.Background(), mustParse(t, short))
	assert.ErrorIs(t, err, models.ErrFailedToRedirect)
	assert.Equal(t, 1, browser.closed)
}

func TestBrowserStrategy_TabFailure(t *testing.T) {
	browser := newFakeBrowser()
	browser.tabErr = errors.New("browser crashed")
	s := newTestBrowserStrategy(browser, time.Second)

	_, err := s.Convert(context.Background(), mustParse(t, "https://k.youshop10.com/x"))
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.Equal(t, 0, browser.closed)
}
