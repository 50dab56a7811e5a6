// Package llama resolves DefiLlama protocol slugs to display names.
package llama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blues/arbigrants/internal/logger"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.llama.fi"

// Client 调用 DefiLlama protocol 接口，不重试
type Client struct {
	http *resty.Client
}

// NewClient timeout 为 0 时不设置超时
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}

	return &Client{http: c}
}

type protocolResponse struct {
	Name string `json:"name"`
}

// ProtocolName 返回 slug 对应的协议名称。slug 为空时不发请求；
// 请求失败或非 200 时返回空字符串，不影响提交流程。
func (c *Client) ProtocolName(ctx context.Context, slug string) string {
	if slug == "" {
		return ""
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("slug", slug).
		Get("/protocol/{slug}")
	if err != nil {
		logger.Warn("DefiLlama lookup for %q failed: %v", slug, err)
		return ""
	}
	if resp.StatusCode() != http.StatusOK {
		logger.Warn("DefiLlama lookup for %q returned status %d", slug, resp.StatusCode())
		return ""
	}

	var body protocolResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		logger.Warn("DefiLlama lookup for %q returned invalid JSON: %v", slug, err)
		return ""
	}

	return body.Name
}

// SlugFromURL 取页面链接最后一段路径作为 slug，去掉 #fragment 和 ?query，
// 例如 https://defillama.com/protocol/gmx#tvl -> gmx
func SlugFromURL(page string) string {
	page = strings.TrimSpace(page)
	if page == "" {
		return ""
	}

	if u, err := url.Parse(page); err == nil && u.Path != "" {
		page = u.Path
	} else {
		if i := strings.IndexAny(page, "#?"); i >= 0 {
			page = page[:i]
		}
	}

	page = strings.TrimRight(page, "/")
	if i := strings.LastIndex(page, "/"); i >= 0 {
		page = page[i+1:]
	}

	return page
}
