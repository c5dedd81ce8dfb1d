package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"veriscan/internal/domain"
)

const (
	maxBodyBytes = 2 << 20
	maxLinks     = 200
)

// Client fetches a page and extracts the text, links, and raw markup the
// detectors work from. A failure here aborts the whole scan, unlike the soft
// header and transport probes.
type Client struct {
	http *http.Client
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewWithClient is for tests and callers that need a custom transport.
func NewWithClient(c *http.Client) *Client {
	return &Client{http: c}
}

func (c *Client) Fetch(ctx context.Context, url string) (domain.PageContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.PageContent{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "veriscan/1.0 (compliance scanner)")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PageContent{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return domain.PageContent{}, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.PageContent{}, fmt.Errorf("read %s: %w", url, err)
	}

	markup := string(body)
	text, links := extract(markup)
	return domain.PageContent{Text: text, Links: links, HTML: markup}, nil
}

// extract walks the parsed document collecting visible text and anchor
// targets in document order. Script, style, and noscript subtrees are
// skipped.
func extract(markup string) (string, []string) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// Raw markup still feeds the pattern detectors.
		return markup, nil
	}

	var b strings.Builder
	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
			if n.Data == "a" {
				for _, attr := range n.Attr {
					if attr.Key == "href" && attr.Val != "" && len(links) < maxLinks {
						links = append(links, attr.Val)
					}
				}
			}
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte(' ')
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return strings.TrimSpace(b.String()), links
}
