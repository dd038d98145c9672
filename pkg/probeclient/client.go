// Package probeclient is the verifier and planner's HTTP client for a
// running probe's control plane (pkg/controlplane): status polling,
// resets, and actuation requests (spec §4.4, §4.10). Its
// timeout'd-client-plus-doGet/doPost shape follows the now-retired ICM
// client's pattern of a single authenticated-request helper that every
// public method funnels through.
package probeclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every request this client issues against a probe
// sidecar running in the same process group; control-plane calls are
// always local and should never hang on a stalled target application.
const DefaultTimeout = 5 * time.Second

// Client talks to one probe's control plane over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a Client against baseURL (e.g. "http://127.0.0.1:9400") with
// DefaultTimeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Status is the decoded response of GET /__probe/status.
type Status struct {
	Key                  string `json:"key"`
	HitCount             uint64 `json:"hitCount"`
	LastHitEpochMs       int64  `json:"lastHitEpochMs"`
	Mode                 string `json:"mode"`
	ActuatorID           string `json:"actuatorId"`
	ActuateTargetKey     string `json:"actuateTargetKey"`
	ActuateReturnBoolean bool   `json:"actuateReturnBoolean"`
}

// Status queries a single probe key's hit count and last-hit timestamp.
func (c *Client) Status(key string) (*Status, error) {
	uri := fmt.Sprintf("%s/__probe/status?%s", c.BaseURL, url.Values{"key": {key}}.Encode())
	body, err := c.doGet(uri)
	if err != nil {
		return nil, fmt.Errorf("status(%s): %w", key, err)
	}
	var out Status
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("status(%s): parse response: %w", key, err)
	}
	return &out, nil
}

// Reset zeroes a probe key's hit count and last-hit time.
func (c *Client) Reset(key string) error {
	uri := fmt.Sprintf("%s/__probe/reset?%s", c.BaseURL, url.Values{"key": {key}}.Encode())
	if _, err := c.doPost(uri, nil); err != nil {
		return fmt.Errorf("reset(%s): %w", key, err)
	}
	return nil
}

// ActuateRequest configures the probe's actuation state. A nil field
// leaves that dimension of the runtime's current configuration untouched
// (mirroring ProbeHttpServer's ActuateHandler fallback behavior).
type ActuateRequest struct {
	Mode          string  `json:"mode,omitempty"`
	ActuatorID    *string `json:"actuatorId,omitempty"`
	TargetKey     *string `json:"targetKey,omitempty"`
	ReturnBoolean *bool   `json:"returnBoolean,omitempty"`
}

// ActuateResponse is the decoded response of POST /__probe/actuate.
type ActuateResponse struct {
	OK            bool   `json:"ok"`
	Mode          string `json:"mode"`
	ActuatorID    string `json:"actuatorId"`
	TargetKey     string `json:"targetKey"`
	ReturnBoolean bool   `json:"returnBoolean"`
}

// Actuate configures the probe's runtime mode and, in actuate mode, its
// forced target and return value.
func (c *Client) Actuate(req ActuateRequest) (*ActuateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("actuate: encode request: %w", err)
	}

	body, err := c.doPost(c.BaseURL+"/__probe/actuate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("actuate: %w", err)
	}
	var out ActuateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("actuate: parse response: %w", err)
	}
	return &out, nil
}

func (c *Client) doGet(uri string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) doPost(uri string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, uri, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(body, 300))
	}
	return body, nil
}

func truncate(b []byte, max int) string {
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
