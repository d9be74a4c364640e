package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// DefaultUserAgent is sent when no user agent is configured. Several lyrics sites
// refuse requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/119.0"

// maxBody caps how much of a page is read.
const maxBody = 8 << 20

// Client is the HTTP client shared by every scraper.
type Client struct {
	http      *http.Client
	userAgent string
}

// Page is a fetched document.
type Page struct {
	StatusCode int
	URL        string
	Body       []byte
}

// OK reports a 2xx status.
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// New creates a client with a bounded timeout. Proxies are taken from the
// environment (HTTPS_PROXY, HTTP_PROXY, NO_PROXY).
func New(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyFromEnvironment
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Session returns a client sharing the transport but keeping its own cookies, for
// sites that hand out a form token or locale cookie before searching.
func (c *Client) Session() *Client {
	jar, _ := cookiejar.New(nil)
	hc := *c.http
	hc.Jar = jar
	return &Client{http: &hc, userAgent: c.userAgent}
}

// Get fetches rawURL. Non-2xx responses are returned, not treated as errors.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	return c.Do(ctx, http.MethodGet, rawURL, nil, nil)
}

// PostForm submits form values to rawURL.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, header http.Header) (*Page, error) {
	h := http.Header{}
	for k, v := range header {
		h[k] = v
	}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(ctx, http.MethodPost, rawURL, []byte(form.Encode()), h)
}

// Do performs a request and reads the whole body.
func (c *Client) Do(ctx context.Context, method, rawURL string, body []byte, header http.Header) (*Page, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Page{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
		Body:       data,
	}, nil
}
