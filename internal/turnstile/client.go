// Package turnstile implements the Cloudflare Turnstile siteverify client.
package turnstile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"recruitment-api/internal/common/config"
	"recruitment-api/internal/common/httpclient"
	"recruitment-api/internal/common/logger"
)

// Result is the verification outcome reported by the provider.
type Result struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Detail joins the provider's error codes for operator diagnostics.
func (r *Result) Detail() string {
	if len(r.ErrorCodes) == 0 {
		return ""
	}
	return strings.Join(r.ErrorCodes, ", ")
}

type Client struct {
	cfg    config.TurnstileConfig
	http   *httpclient.Client
	logger logger.Logger
}

func NewClient(cfg config.TurnstileConfig, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   httpclient.NewClient(cfg.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "turnstile"}),
	}
}

// Verify posts the token and the server secret to the siteverify endpoint and
// decodes the provider's verdict. A non-2xx status or a malformed body is an
// error; a decoded body with success=false is a valid Result, not an error.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (*Result, error) {
	form := url.Values{}
	form.Set("secret", c.cfg.SecretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("siteverify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read siteverify response: %w", err)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode siteverify response: %w", err)
	}

	if !result.Success {
		c.logger.Warn("captcha token rejected", map[string]interface{}{
			"errorCodes": result.ErrorCodes,
			"hostname":   result.Hostname,
		})
	}

	return &result, nil
}
