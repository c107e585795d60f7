package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient posts {"prompt": ...} to a URL and expects {"result": ...} back.
type HTTPClient struct {
	url  string
	http *http.Client
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

type askResponse struct {
	Result *string `json:"result"`
}

// NewHTTPClient uses an http.Client without a timeout: the backend may
// need minutes to wake up and the caller decides how long to wait via ctx.
func NewHTTPClient(url string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTPClient{url: url, http: hc}
}

func (c *HTTPClient) Ask(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(askRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("backend returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	var out askResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Result == nil {
		return "", errors.New("backend response has no result")
	}
	return *out.Result, nil
}
