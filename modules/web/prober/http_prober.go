package prober

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yourusername/wildsub/internal/config"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

// HTTPProber fetches hosts and reduces responses to fingerprints
type HTTPProber struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewHTTPProber creates a prober with the configured timeout. Certificates
// are not verified: wildcard hosts rarely present a valid one.
func NewHTTPProber(cfg *config.Config, logger *zap.Logger) *HTTPProber {
	maxRedirects := cfg.HTTP.MaxRedirects

	return &HTTPProber{
		client: &http.Client{
			Timeout: cfg.TimeoutDuration(),
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, // For reconnaissance purposes
				},
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent:    cfg.HTTP.UserAgent,
		maxBodyBytes: cfg.HTTP.MaxBodyBytes,
		logger:       logger,
	}
}

// Fetch GETs scheme://host and returns its fingerprint. Any failure to
// obtain a complete response wraps types.ErrConnection.
func (p *HTTPProber) Fetch(ctx context.Context, scheme types.Scheme, host string) (*types.Fingerprint, error) {
	url := fmt.Sprintf("%s://%s", scheme, host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", url, types.ErrConnection, err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.connectionError(url, err)
	}
	defer resp.Body.Close()

	// Only the head of the body is kept for the title; the rest is counted
	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBodyBytes))
	if err != nil {
		return nil, p.connectionError(url, err)
	}
	rest, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return nil, p.connectionError(url, err)
	}

	fp := &types.Fingerprint{
		StatusCode:    resp.StatusCode,
		ContentLength: len(body) + int(rest),
		Title:         extractTitle(body),
		Server:        resp.Header.Get("Server"),
	}

	p.logger.Debug("Fetched fingerprint",
		zap.String("url", url),
		zap.Int("status_code", fp.StatusCode),
		zap.Int("content_length", fp.ContentLength),
		zap.String("title", fp.Title),
		zap.String("server", fp.Server),
	)

	return fp, nil
}

func (p *HTTPProber) connectionError(url string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w: timed out: %v", url, types.ErrConnection, err)
	}
	return fmt.Errorf("%s: %w: %v", url, types.ErrConnection, err)
}

// extractTitle returns the trimmed text of the first <title> element
func extractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
