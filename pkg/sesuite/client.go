package sesuite

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sesuite-go/sesuite/pkg/logging"
	"github.com/sesuite-go/sesuite/pkg/soap"
	"github.com/sesuite-go/sesuite/pkg/template"
	"github.com/sesuite-go/sesuite/pkg/util"
)

// DefaultBaseURL is the SE Suite deployment used when no base URL is given.
const DefaultBaseURL = "https://sesuite.sicredi.com.br"

// statusFailure is the Status value the service uses for rejected operations.
const statusFailure = "FAILURE"

// Client calls the SE Suite workflow and form web services.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	engine     *template.Engine

	transport *soap.Transport // nil until Open
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient makes the session use client instead of the default one,
// which skips certificate verification.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets a timeout on every request. The default is no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger. Calls are logged at debug level and business
// failures at warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTemplateEngine replaces the built-in request templates.
func WithTemplateEngine(engine *template.Engine) Option {
	return func(c *Client) {
		if engine != nil {
			c.engine = engine
		}
	}
}

// New creates a client authenticating with token. The session is not
// started; call Open before any operation.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = template.New()
	}
	return c
}

// Open starts the HTTP session. Opening an open client is a no-op.
func (c *Client) Open() error {
	if c.transport != nil {
		return nil
	}

	var opts []soap.TransportOption
	if c.httpClient != nil {
		opts = append(opts, soap.WithHTTPClient(c.httpClient))
	}
	if c.timeout > 0 {
		opts = append(opts, soap.WithTimeout(c.timeout))
	}
	opts = append(opts, soap.WithObserver(c.logCall))

	c.transport = soap.NewTransport(opts...)
	return nil
}

// Close ends the HTTP session. It is safe to call more than once.
func (c *Client) Close() error {
	if c.transport == nil {
		return nil
	}
	c.transport.CloseIdleConnections()
	c.transport = nil
	return nil
}

// BaseURL returns the base URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// With opens a client, runs fn and closes the client, also when fn fails or
// panics.
func With(token string, fn func(*Client) error, opts ...Option) (err error) {
	c := New(token, opts...)
	if err := c.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(c)
}

// call renders the template of action, posts it to component and returns the
// body of a 200 answer. Any other status becomes an OperationError for
// errComponent carrying the raw body.
func (c *Client) call(ctx context.Context, component, errComponent soap.Component, action soap.Action, values template.Values) ([]byte, error) {
	if c.transport == nil {
		return nil, ErrSessionNotStarted
	}

	body, err := c.engine.Render(action.Template(), values)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s request: %w", action, err)
	}

	resp, err := c.transport.Call(ctx, &soap.Request{
		ID:        uuid.NewString(),
		BaseURL:   c.baseURL,
		Token:     c.token,
		Component: component,
		Action:    action,
		Body:      body,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, operationError(errComponent, action, resp.StatusCode, string(resp.Body))
	}
	return resp.Body, nil
}

// outcome is the Status/Detail pair every answer carries.
type outcome struct {
	doc    *soap.Document
	status string
	detail string
}

// readOutcome parses body in the namespace of ns and extracts Status and
// Detail. A FAILURE status becomes an OperationError for errComponent.
func (c *Client) readOutcome(body []byte, ns, errComponent soap.Component, action soap.Action) (*outcome, error) {
	doc, err := soap.Parse(body, ns.Name())
	if err != nil {
		return nil, err
	}

	status, _ := doc.FindOne("Status")
	detail, _ := doc.FindOne("Detail")
	if status == statusFailure {
		c.logger.Warn("operation failed",
			"action", action.String(),
			"component", errComponent.String(),
			"detail", detail,
		)
		return nil, operationError(errComponent, action, http.StatusOK, detail)
	}
	return &outcome{doc: doc, status: status, detail: detail}, nil
}

// workflowCall runs a workflow operation and returns its parsed outcome.
func (c *Client) workflowCall(ctx context.Context, action soap.Action, values template.Values) (*outcome, error) {
	body, err := c.call(ctx, soap.Workflow, soap.Workflow, action, values)
	if err != nil {
		return nil, err
	}
	return c.readOutcome(body, soap.Workflow, soap.Workflow, action)
}

func (c *Client) logCall(r *soap.CallResult) {
	if !c.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{
		"id", r.ID,
		"action", r.Action.String(),
		"component", r.Component.String(),
		"url", r.RequestURL,
		"status", r.StatusCode,
		"duration", r.Duration(),
		"request", util.TruncateBody(r.RequestContent.Body, util.MaxLogBodySize),
		"response", util.TruncateBody(r.ResponseContent.Body, util.MaxLogBodySize),
	}
	if r.Err != nil {
		attrs = append(attrs, "error", r.Err)
	}
	c.logger.Debug("soap call", attrs...)
}
