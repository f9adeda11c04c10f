package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type ingestResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client posts submissions to the ingestion endpoint. It sets no timeout of
// its own; the http.Client it is given decides.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Submit reports ErrRejected when the endpoint answers with a non-2xx status
// or without success, and a plain error when the request could not be
// completed or a 2xx response is unreadable.
func (c *Client) Submit(ctx context.Context, s Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post feedback: %w", err)
	}
	defer resp.Body.Close()

	var result ingestResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if ok && decodeErr != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, decodeErr)
	}
	if !ok || !result.Success {
		if decodeErr == nil && result.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, result.Error)
		}
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}
