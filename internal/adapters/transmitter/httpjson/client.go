package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/misc"
	"github.com/Root48/DataCollectionModule/internal/ports"
)

// userAgent identifies this collector on every outgoing request.
const userAgent = "PowerTelemetryCollector/1.0"

// Client posts sample envelopes to the collector endpoint.
type Client struct {
	endpoint string
	hc       *http.Client
}

var _ ports.Transmitter = (*Client)(nil)

var bufferPool = misc.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) })

// New configures the HTTP client and returns a Client. The endpoint is kept
// verbatim; it is validated on every send so a misconfiguration surfaces as a
// classified failure rather than a construction error.
func New(endpoint string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{endpoint: strings.TrimSpace(endpoint), hc: hc}
}

// Send encodes the sample and posts its envelope, retrying transient failures
// until the transmit backoff schedule is exhausted. On success it returns the
// HTTP status line of the winning attempt.
func (c *Client) Send(ctx context.Context, s domain.Sample) (string, error) {
	target, err := c.target()
	if err != nil {
		return "", err
	}

	env, err := EncodeSample(s, time.Now())
	if err != nil {
		return "", err
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)
	if err := json.NewEncoder(buf).Encode(env); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEncodingFailure, err)
	}
	payload := buf.Bytes()

	var status string
	op := func() error {
		st, err := c.post(ctx, target, payload)
		if err != nil {
			return err
		}
		status = st
		return nil
	}
	if err := misc.Retry(ctx, misc.TransmitBackoff, isRetryableSend, op); err != nil {
		return "", fmt.Errorf("send sample: %w", err)
	}
	return status, nil
}

func (c *Client) target() (string, error) {
	if c.endpoint == "" {
		return "", domain.ErrInvalidEndpoint
	}
	u, err := url.Parse(c.endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidEndpoint, c.endpoint)
	}
	return u.String(), nil
}

func (c *Client) post(ctx context.Context, target string, body []byte) (status string, retErr error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("http do: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close response body: %w", cerr)
		}
	}()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return "", fmt.Errorf("drain body: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &domain.StatusError{Code: resp.StatusCode}
	}
	return resp.Status, nil
}

func isRetryableSend(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrInvalidEndpoint) || errors.Is(err, domain.ErrEncodingFailure) {
		return false
	}
	var se *domain.StatusError
	if errors.As(err, &se) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
