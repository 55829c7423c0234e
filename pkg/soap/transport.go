package soap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Request is a single SOAP call.
type Request struct {
	// ID correlates the call with its CallResult. Optional.
	ID        string
	BaseURL   string
	Token     string
	Component Component
	Action    Action
	Body      string
}

// Response is the raw HTTP answer to a SOAP call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// CallContent holds the headers and body of one side of a call.
type CallContent struct {
	Header http.Header
	Body   string
}

// CallResult records a completed call for observers.
type CallResult struct {
	ID              string
	RequestURL      string
	Action          Action
	Component       Component
	StatusCode      int
	RequestContent  CallContent
	ResponseContent CallContent
	InvokeAt        time.Time
	ReturnAt        time.Time
	Err             error
}

// Duration returns how long the call took.
func (r *CallResult) Duration() time.Duration {
	return r.ReturnAt.Sub(r.InvokeAt)
}

// Transport posts SOAP requests to SE Suite endpoints.
type Transport struct {
	client  *http.Client
	observe func(*CallResult)
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithHTTPClient replaces the HTTP client used by the transport.
// The client's own TLS settings are used as-is. The transport keeps a copy,
// so later options never modify the caller's client.
func WithHTTPClient(client *http.Client) TransportOption {
	return func(t *Transport) {
		if client != nil {
			cp := *client
			t.client = &cp
		}
	}
}

// WithTimeout sets a timeout on the transport's HTTP client.
// Zero means no timeout.
func WithTimeout(timeout time.Duration) TransportOption {
	return func(t *Transport) {
		t.client.Timeout = timeout
	}
}

// WithObserver registers fn to receive a CallResult after every call.
func WithObserver(fn func(*CallResult)) TransportOption {
	return func(t *Transport) {
		t.observe = fn
	}
}

// InsecureTransport returns an http.Transport that skips TLS certificate
// verification, as the SE Suite gateway requires.
func InsecureTransport() *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // the gateway serves certificates that do not validate
	}
	return tr
}

// NewTransport creates a transport with certificate verification disabled
// and no timeout.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{
		client: &http.Client{Transport: InsecureTransport()},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Call performs one POST of req.Body to the component endpoint.
// Non-200 responses are returned without error; callers decide how to
// surface them.
func (t *Transport) Call(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if !req.Component.Valid() {
		return nil, fmt.Errorf("unknown component %q", req.Component)
	}

	url := req.Component.URL(req.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", req.Token)
	httpReq.Header.Set("Content-Type", ContentType)
	httpReq.Header.Set("SOAPAction", req.Action.Header(req.Component))

	result := &CallResult{
		ID:             req.ID,
		RequestURL:     url,
		Action:         req.Action,
		Component:      req.Component,
		RequestContent: CallContent{Header: httpReq.Header.Clone(), Body: req.Body},
		InvokeAt:       time.Now(),
	}
	defer t.notify(result)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		result.ReturnAt = time.Now()
		result.Err = err
		return nil, fmt.Errorf("%s request failed: %w", req.Action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	result.ReturnAt = time.Now()
	result.StatusCode = resp.StatusCode
	result.ResponseContent = CallContent{Header: resp.Header.Clone(), Body: string(body)}
	if err != nil {
		result.Err = err
		return nil, fmt.Errorf("failed to read %s response: %w", req.Action, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// CloseIdleConnections releases pooled connections held by the transport.
func (t *Transport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

func (t *Transport) notify(result *CallResult) {
	if t.observe != nil {
		t.observe(result)
	}
}
