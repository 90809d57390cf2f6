package rest

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketlink/internal/codec"
	"marketlink/pkg/exception"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/yanun0323/errors"
)

const (
	HeaderAppKey      = "X-Api-Key"
	HeaderTimestamp   = "X-Timestamp"
	HeaderSignature   = "X-Api-Signature"
	HeaderRequestID   = "X-Request-Id"
	HeaderTraceID     = "X-Trace-Id"
	HeaderAuthorize   = "Authorization"
	defaultTimeout    = 15 * time.Second
	maxErrorBodyBytes = 4 << 10
)

// Config holds the endpoint and credentials of the REST API.
type Config struct {
	BaseURL     string
	AppKey      string
	AppSecret   string
	AccessToken string
	Timeout     time.Duration
}

// Client signs and sends REST requests. It is safe for concurrent use.
type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// New builds a client. A nil httpClient uses a dedicated client with cfg.Timeout.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.Wrap(exception.ErrInvalidArgument, "empty base url")
	}
	if cfg.AppKey == "" || cfg.AppSecret == "" || cfg.AccessToken == "" {
		return nil, exception.ErrMissingCredential
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: httpClient, now: time.Now}, nil
}

// Request starts a request to path.
func (c *Client) Request(method, path string) *Request {
	return &Request{client: c, method: method, path: path}
}

// Request is a request under construction.
type Request struct {
	client *Client
	method string
	path   string
	query  any
	body   any
}

// QueryParams sets a struct encoded with `url` tags as the query string.
func (r *Request) QueryParams(v any) *Request {
	r.query = v
	return r
}

// Body sets a value encoded as the JSON request body.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Response is the envelope of every reply.
type Response[T any] struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Do sends r and decodes the reply data into R. A non-zero code or a
// non-2xx status returns *exception.RemoteError.
func Do[R any](ctx context.Context, r *Request) (R, error) {
	var zero R
	raw, traceID, status, err := r.send(ctx)
	if err != nil {
		return zero, err
	}

	var resp Response[R]
	if err := sonic.ConfigFastest.Unmarshal(raw, &resp); err != nil {
		if status/100 != 2 {
			return zero, &exception.RemoteError{Code: int64(status), Message: http.StatusText(status), TraceID: traceID}
		}
		return zero, errors.Wrapf(err, "unmarshal %s %s", r.method, r.path)
	}
	if resp.Code != 0 || status/100 != 2 {
		code := resp.Code
		if code == 0 {
			code = int64(status)
		}
		return zero, &exception.RemoteError{Code: code, Message: resp.Message, TraceID: traceID}
	}
	return resp.Data, nil
}

// Empty is the data of endpoints that reply without a payload.
type Empty struct{}

func (r *Request) send(ctx context.Context) ([]byte, string, int, error) {
	c := r.client
	query, err := codec.EncodeQuery(r.query)
	if err != nil {
		return nil, "", 0, err
	}

	var payload []byte
	if r.body != nil {
		payload, err = sonic.ConfigFastest.Marshal(r.body)
		if err != nil {
			return nil, "", 0, errors.Wrap(err, "marshal body")
		}
	}

	url := c.cfg.BaseURL + r.path
	if query != "" {
		url += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, r.method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", 0, errors.Wrap(err, "new request")
	}

	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set(HeaderAppKey, c.cfg.AppKey)
	req.Header.Set(HeaderAuthorize, c.cfg.AccessToken)
	req.Header.Set(HeaderTimestamp, ts)
	req.Header.Set(HeaderRequestID, uuid.NewString())
	req.Header.Set(HeaderSignature, Sign(c.cfg.AppSecret, r.method, r.path, query, payload, ts))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", 0, errors.Wrapf(err, "%s %s", r.method, r.path)
	}
	defer resp.Body.Close()

	reader := io.Reader(resp.Body)
	if resp.StatusCode/100 != 2 {
		reader = io.LimitReader(resp.Body, maxErrorBodyBytes)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", 0, errors.Wrapf(err, "read %s %s", r.method, r.path)
	}
	return raw, resp.Header.Get(HeaderTraceID), resp.StatusCode, nil
}

// Sign computes the request signature: hex HMAC-SHA256 over the method, path,
// query, body digest and timestamp joined by newlines.
func Sign(secret, method, path, query string, body []byte, ts string) string {
	digest := sha256.Sum256(body)
	plain := strings.Join([]string{
		strings.ToUpper(method),
		path,
		query,
		hex.EncodeToString(digest[:]),
		ts,
	}, "\n")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(plain))
	return hex.EncodeToString(mac.Sum(nil))
}
