package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
)

// Client talks to the persistence service's /api endpoints.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient targets baseURL, e.g. http://localhost:3001/api.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// statusError is a non-2xx response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("api returned status code: %d, response: %s", e.code, e.body)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: string(data)}
	}
	return data, nil
}

// Snapshot fetches the whole document.
func (c *Client) Snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, "/data", nil)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// Get fetches one collection. Unknown keys and malformed bodies both report
// domain.ErrCollectionNotFound.
func (c *Client) Get(ctx context.Context, name string) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, "/data/"+url.PathEscape(name), nil)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, domain.ErrCollectionNotFound
		}
		return nil, err
	}
	if !json.Valid(data) {
		return nil, domain.ErrCollectionNotFound
	}
	return json.RawMessage(data), nil
}

// Put replaces one collection.
func (c *Client) Put(ctx context.Context, name string, value json.RawMessage) error {
	_, err := c.do(ctx, http.MethodPut, "/data/"+url.PathEscape(name), value)
	return err
}

// Reset restores the default document.
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/reset", nil)
	return err
}

// Health pings the service.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}
