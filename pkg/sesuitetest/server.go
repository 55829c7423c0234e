// Package sesuitetest provides an in-process SE Suite stub for tests and
// local development.
//
// The stub answers the workflow and form SOAP endpoints and the file gateway.
// Every action replies SUCCESS with Detail "ok" unless configured otherwise,
// and every request is recorded so tests can inspect what was sent.
package sesuitetest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/sesuite-go/sesuite/pkg/logging"
	"github.com/sesuite-go/sesuite/pkg/soap"
	"github.com/sesuite-go/sesuite/pkg/util"
)

// maxBodySize bounds request bodies read by the stub.
const maxBodySize = 10 << 20

// Reply configures the answer to one action.
type Reply struct {
	// HTTPStatus defaults to 200.
	HTTPStatus int
	// Raw, when set, is written verbatim instead of a generated envelope.
	Raw string

	Status   string
	Detail   string
	RecordID string

	// Records are returned by getTableRecord.
	Records map[string]string
}

// Success returns a SUCCESS reply carrying detail.
func Success(detail string) Reply {
	return Reply{Status: "SUCCESS", Detail: detail}
}

// Failure returns a FAILURE reply carrying detail.
func Failure(detail string) Reply {
	return Reply{Status: "FAILURE", Detail: detail}
}

// HTTPError returns a reply with a non-200 status and a plain body.
func HTTPError(status int, body string) Reply {
	return Reply{HTTPStatus: status, Raw: body}
}

// File is a file served by the gateway.
type File struct {
	// Status defaults to 200.
	Status int
	Data   []byte
}

// Call is a request received by the stub.
type Call struct {
	Method    string
	Path      string
	Component soap.Component
	// SOAPAction is the raw header value.
	SOAPAction string
	// Operation is the local name of the first element in the SOAP body.
	Operation  string
	Header     http.Header
	Body       string
	ReceivedAt time.Time
}

// Value returns the text of the first element in the request body whose
// local name is tag.
func (c Call) Value(tag string) (string, bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(c.Body); err != nil {
		return "", false
	}
	el := doc.FindElement("//" + tag)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}

// Values returns the text of every element in the request body whose local
// name is tag, in document order.
func (c Call) Values(tag string) []string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(c.Body); err != nil {
		return nil
	}
	var out []string
	for _, el := range doc.FindElements("//" + tag) {
		out = append(out, el.Text())
	}
	return out
}

// Handler is the stub's http.Handler.
type Handler struct {
	mu      sync.Mutex
	replies map[soap.Action]Reply
	rules   []rule
	files   map[string]File
	calls   []Call
	token   string
	logger  *slog.Logger
	mux     *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithToken makes the stub reject requests whose Authorization header is not
// token with 401.
func WithToken(token string) Option {
	return func(h *Handler) {
		h.token = token
	}
}

// WithLogger sets the logger used to trace requests.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a stub handler.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		replies: make(map[soap.Action]Reply),
		files:   make(map[string]File),
		logger:  logging.Nop(),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.mux.HandleFunc("POST /apigateway/se/ws/{endpoint}", h.serveSOAP)
	h.mux.HandleFunc("GET /apigateway/v1/file/{hash}", h.serveFile)
	return h
}

// Reply sets the answer to action.
func (h *Handler) Reply(action soap.Action, r Reply) *Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replies[action] = r
	return h
}

// File serves data under hash.
func (h *Handler) File(hash string, f File) *Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[hash] = f
	return h
}

// Calls returns every recorded request in arrival order.
func (h *Handler) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.calls)
}

// LastCall returns the most recent request.
func (h *Handler) LastCall() (Call, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.calls) == 0 {
		return Call{}, false
	}
	return h.calls[len(h.calls)-1], true
}

// Reset forgets recorded requests, rules and configured replies and files.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
	h.rules = nil
	clear(h.replies)
	clear(h.files)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveSOAP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.Body.Close() }()

	component, ok := soap.LookupComponent(strings.TrimSuffix(r.PathValue("endpoint"), "_ws.php"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	call := Call{
		Method:     r.Method,
		Path:       r.URL.Path,
		Component:  component,
		SOAPAction: strings.Trim(r.Header.Get("SOAPAction"), `"`),
		Header:     r.Header.Clone(),
		Body:       string(body),
		ReceivedAt: time.Now(),
	}
	call.Operation = operationName(body)
	h.record(call)

	h.logger.Debug("stub request",
		"component", component.String(),
		"soapAction", call.SOAPAction,
		"operation", call.Operation,
		"body", util.TruncateBody(call.Body, 0),
	)

	if !h.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	action := actionOf(call)
	if !action.Valid() {
		http.Error(w, "unknown operation: "+call.Operation, http.StatusBadRequest)
		return
	}

	reply := h.replyFor(call, action)
	status := reply.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}

	if reply.Raw != "" {
		w.Header().Set("Content-Type", soap.ContentType)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply.Raw)
		return
	}

	out, err := Envelope(action, reply)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", soap.ContentType)
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	h.record(Call{
		Method:     r.Method,
		Path:       r.URL.Path,
		Header:     r.Header.Clone(),
		ReceivedAt: time.Now(),
	})
	h.logger.Debug("stub file request", "hash", hash)

	if !h.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	h.mu.Lock()
	f, ok := h.files[hash]
	h.mu.Unlock()
	if !ok {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(status)
	_, _ = w.Write(f.Data)
}

func (h *Handler) record(c Call) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, c)
}

func (h *Handler) authorized(r *http.Request) bool {
	return h.token == "" || r.Header.Get("Authorization") == h.token
}

// replyFor returns the first matching rule's reply, the configured reply or
// the default SUCCESS answer, in that order. Record-creating actions get a
// fresh RecordID when none is configured.
func (h *Handler) replyFor(c Call, action soap.Action) Reply {
	reply, ok := h.match(c, action)
	if !ok {
		h.mu.Lock()
		reply, ok = h.replies[action]
		h.mu.Unlock()
	}
	if !ok {
		reply = Success("ok")
	}
	if reply.RecordID == "" && reply.Status != "FAILURE" &&
		(action == soap.ActionNewWorkflowEditData || action == soap.ActionNewAttachment) {
		reply.RecordID = uuid.NewString()
	}
	return reply
}

// actionOf resolves the action from the SOAPAction header, falling back to
// the body's operation element.
func actionOf(c Call) soap.Action {
	if _, name, ok := strings.Cut(c.SOAPAction, "#"); ok {
		if a := soap.Action(name); a.Valid() {
			return a
		}
	}
	return soap.Action(c.Operation)
}

// operationName returns the local name of the first element in the SOAP body.
func operationName(body []byte) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return ""
	}
	el := doc.FindElement("//Body")
	if el == nil {
		return ""
	}
	children := el.ChildElements()
	if len(children) == 0 {
		return ""
	}
	return children[0].Tag
}

// Server is a Handler listening on a local test server.
type Server struct {
	*Handler
	URL string
}

// NewServer starts a stub on a local HTTP server that is closed when the test
// ends. Its URL is a base URL for sesuite.WithBaseURL.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	h := NewHandler(opts...)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Server{Handler: h, URL: srv.URL}
}
