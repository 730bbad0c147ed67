// Package api implements the HTTP client the session manager and services
// talk to the storefront API through: fixed timeout, per-request ids, and
// normalization of transport failures into user-displayable errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Do issues an unauthenticated request. body, when non-nil, is sent as JSON;
// out, when non-nil, receives the decoded JSON response on success.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, "")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, bearer string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.normalizeTransportError(method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: MsgNetwork}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return c.normalizeStatusError(resp.StatusCode, data)
}

func (c *Client) normalizeTransportError(method, path string, err error) error {
	var netErr net.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())

	c.logger.Warn("request failed before a response arrived",
		zap.String("method", method),
		zap.String("path", path),
		zap.Bool("timeout", timedOut),
		zap.Error(err),
	)
	if timedOut {
		return &Error{Message: MsgTimeout}
	}
	return &Error{Message: MsgNetwork}
}

func (c *Client) normalizeStatusError(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		// Passed through with the server's own message so the refresh
		// transport can recognize it.
		return &Error{Status: status, Message: serverMessage(body, "unauthorized")}
	case status == http.StatusForbidden:
		return &Error{Status: status, Message: MsgForbidden}
	case status == http.StatusNotFound:
		return &Error{Status: status, Message: MsgNotFound}
	case status >= http.StatusInternalServerError:
		return &Error{Status: status, Message: MsgServer}
	default:
		fallback := fmt.Sprintf("request failed with status %d", status)
		return &Error{Status: status, Message: serverMessage(body, fallback)}
	}
}

// serverMessage extracts the message field from an error response envelope.
func serverMessage(body []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fallback
}

func requestID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
