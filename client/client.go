// Package client is a small Go client for the IEQI reading API, used by the
// terminal monitor and by device simulators.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ieqi-server/entities"
)

// ErrNoData is returned by Latest when the service has no readings yet.
var ErrNoData = errors.New("no data found")

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ieqi api: %d %s", e.StatusCode, e.Message)
}

// ReadingInput is the ingest payload a device submits.
type ReadingInput struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Light       float64 `json:"light"`
	IEQI        float64 `json:"ieqi"`
	DeviceID    string  `json:"device_id"`
}

type Health struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a 10s timeout.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

func (c *Client) Health() (*Health, error) {
	var h Health
	if err := c.do(http.MethodGet, "/", nil, http.StatusOK, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) Ingest(in ReadingInput) error {
	return c.do(http.MethodPost, "/api/ieqi", in, http.StatusCreated, nil)
}

func (c *Client) Recent() ([]entities.Reading, error) {
	var out struct {
		Data []entities.Reading `json:"data"`
	}
	if err := c.do(http.MethodGet, "/api/ieqi", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Latest() (*entities.Reading, error) {
	var out struct {
		Data entities.Reading `json:"data"`
	}
	err := c.do(http.MethodGet, "/api/ieqi/latest", nil, http.StatusOK, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var msg struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &msg)
		text := msg.Error
		if text == "" {
			text = msg.Message
		}
		if text == "" {
			text = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: text}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
