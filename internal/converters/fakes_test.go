package converters

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeFetcher 按地址返回预设结果
type fakeFetcher struct {
	mu      sync.Mutex
	results map[string]*FetchResult
	errs    map[string]error
	calls   []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		results: make(map[string]*FetchResult),
		errs:    make(map[string]error),
	}
}

func (f *fakeFetcher) on(rawURL, finalURL, body string) *fakeFetcher {
	f.results[rawURL] = &FetchResult{FinalURL: finalURL, Body: body, StatusCode: 200}
	return f
}

func (f *fakeFetcher) fail(rawURL string, err error) *fakeFetcher {
	f.errs[rawURL] = err
	return f
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*FetchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rawURL)

	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if r, ok := f.results[rawURL]; ok {
		return r, nil
	}
	return nil, errors.New("connection refused")
}

// fakeBrowser 按导航地址决定标签页的行为
type fakeBrowser struct {
	mu      sync.Mutex
	tabErr  error
	current map[string]string // 导航地址 → 渲染完成后的地址
	stuck   map[string]bool   // 选择器永远不出现
	opened  int
	closed  int
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{current: make(map[string]string), stuck: make(map[string]bool)}
}

func (b *fakeBrowser) NewTab(_ context.Context) (Tab, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tabErr != nil {
		return nil, b.tabErr
	}
	b.opened++
	return &fakeTab{browser: b}, nil
}

type fakeTab struct {
	browser *fakeBrowser
	url     string
}

func (t *fakeTab) Navigate(rawURL string) error {
	t.url = rawURL
	return nil
}

func (t *fakeTab) WaitForSelector(_ string, timeout time.Duration) error {
	t.browser.mu.Lock()
	stuck := t.browser.stuck[t.url]
	t.browser.mu.Unlock()
	if stuck {
		time.Sleep(timeout)
		return ErrSelectorTimeout
	}
	return nil
}

func (t *fakeTab) CurrentURL() (string, error) {
	t.browser.mu.Lock()
	defer t.browser.mu.Unlock()
	if u, ok := t.browser.current[t.url]; ok {
		return u, nil
	}
	return t.url, nil
}

func (t *fakeTab) Close() error {
	t.browser.mu.Lock()
	defer t.browser.mu.Unlock()
	t.browser.closed++
	return nil
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
