// Package sheets retrieves published spreadsheet feeds (Google Sheets "Publish to web"
// CSV links and similar). It only moves bytes; parsing happens in connectors/csv.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	dc "stage-dashboard/domain/config"
	"stage-dashboard/domain/progress"

	"golang.org/x/oauth2"
)

const (
	acceptDefault  = "text/csv, text/plain;q=0.9, */*;q=0.8"
	defaultTimeout = 30 * time.Second
	// maxBody bounds a single feed; published sheets are small.
	maxBody = 32 << 20
	// errSnippet is how much of an error body is kept for diagnostics.
	errSnippet = 512
)

// Client is a thin wrapper over http.Client. Use New to construct it.
type Client struct {
	c *http.Client
}

// New returns a client using c, or a client with a 30s timeout when c is nil. A non-empty
// token is sent as a bearer token on every request.
func New(c *http.Client, token string) *Client {
	if c == nil {
		c = &http.Client{Timeout: defaultTimeout}
	}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
		authed.Timeout = c.Timeout
		c = authed
	}
	return &Client{c: c}
}

// ForDataset builds a client for d, reading its bearer token from d.TokenEnv when set.
func ForDataset(d dc.Dataset) *Client {
	var token string
	if d.TokenEnv != "" {
		token = os.Getenv(d.TokenEnv)
	}
	return New(nil, token)
}

func (sc *Client) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptDefault)
	// Reloads must see the sheet as it is now, not a cached copy.
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	return req, nil
}

// Fetch downloads rawURL and returns its body. Any failure is a *progress.RetrievalError.
func (sc *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, &progress.RetrievalError{Source: rawURL, Err: errors.New("no feed URL configured")}
	}
	req, err := sc.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, &progress.RetrievalError{Source: rawURL, Err: err}
	}
	start := time.Now()
	resp, err := sc.c.Do(req)
	if err != nil {
		slog.Warn("sheets.fetch.error", "url", rawURL, "error", err)
		return nil, &progress.RetrievalError{Source: rawURL, Err: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errSnippet))
		slog.Warn("sheets.fetch.status", "url", rawURL, "status", resp.StatusCode)
		return nil, &progress.RetrievalError{
			Source:     rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(b))),
		}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, &progress.RetrievalError{Source: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(body) > maxBody {
		return nil, &progress.RetrievalError{Source: rawURL, Err: fmt.Errorf("feed larger than %d bytes", maxBody)}
	}
	slog.Info("sheets.fetch.done", "url", rawURL, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, rc)
	return rc.Close()
}
