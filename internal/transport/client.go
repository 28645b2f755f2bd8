package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	DefaultTimeout = 60 * time.Second

	successCode  = "200"
	maxBodyBytes = 16 << 20
	excerptBytes = 4096
)

// Request describes one call. Header keys are unique; Body, when set, is
// encoded as JSON.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   any
}

type Client struct {
	http   *http.Client
	logger *log.Logger
}

// NewClient builds a client whose dial, TLS and response-header legs each get
// timeout. A nil httpClient gets a fresh one; tests pass httptest's.
func NewClient(timeout time.Duration, httpClient *http.Client, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 2 * timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConnsPerHost:   4,
			},
		}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{http: httpClient, logger: logger}
}

func (c *Client) Get(ctx context.Context, rawURL string, header map[string]string) (json.RawMessage, error) {
	return c.Send(ctx, Request{Method: http.MethodGet, URL: rawURL, Header: header})
}

func (c *Client) Post(ctx context.Context, rawURL string, header map[string]string, body any) (json.RawMessage, error) {
	return c.Send(ctx, Request{Method: http.MethodPost, URL: rawURL, Header: header, Body: body})
}

// Send performs a single attempt and returns the validated JSON body.
func (c *Client) Send(ctx context.Context, r Request) (json.RawMessage, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for key, value := range r.Header {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "url", redactURL(r.URL), "err", err)
		return nil, &TransportError{Method: method, URL: r.URL, Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("request done", "method", method, "url", redactURL(r.URL), "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, excerptBytes))
		return nil, &RemoteCallError{StatusCode: resp.StatusCode, Detail: errorDetail(excerpt)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: method, URL: r.URL, Err: fmt.Errorf("read response body: %w", err)}
	}
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, &TransportError{Method: method, URL: r.URL, Err: errors.New("response body is not valid JSON")}
	}
	if err := checkEnvelope(raw, resp.StatusCode); err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

type envelope struct {
	Code            json.RawMessage `json:"code"`
	ErrorStackTrace string          `json:"errorStackTrace"`
	Message         string          `json:"message"`
	Error           *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// checkEnvelope rejects 2xx bodies that carry an application-level failure.
// Non-object bodies (arrays, scalars) have no envelope and pass through.
func checkEnvelope(raw []byte, status int) error {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	if code := scalarString(env.Code); code != "" && code != successCode {
		detail := env.ErrorStackTrace
		if detail == "" {
			detail = env.Message
		}
		return &RemoteCallError{StatusCode: status, Code: code, Detail: detail}
	}
	if env.Error != nil {
		return &RemoteCallError{StatusCode: status, Code: scalarString(env.Error.Code), Detail: env.Error.Message}
	}
	return nil
}

func errorDetail(excerpt []byte) string {
	excerpt = bytes.TrimSpace(excerpt)
	var env envelope
	if len(excerpt) > 0 && excerpt[0] == '{' && json.Unmarshal(excerpt, &env) == nil {
		switch {
		case env.Error != nil && env.Error.Message != "":
			return env.Error.Message
		case env.ErrorStackTrace != "":
			return env.ErrorStackTrace
		case env.Message != "":
			return env.Message
		}
	}
	return strings.TrimSpace(string(excerpt))
}

func scalarString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}
