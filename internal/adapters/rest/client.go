package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"field-visit-service/internal/ports"
)

const (
	// Per-class deadlines. Uploads get the long deadline because a
	// multipart photo over a field connection routinely takes tens of
	// seconds.
	getTimeout    = 10 * time.Second
	postTimeout   = 30 * time.Second
	uploadTimeout = 60 * time.Second

	// How long a settled in-flight entry lingers before eviction.
	// Growth safeguard, not a freshness guarantee.
	dedupHold = 500 * time.Millisecond

	// Auth-expired callbacks fire after the failing call stack has
	// unwound.
	authFireDelay = 150 * time.Millisecond

	baseRetryDelay = 500 * time.Millisecond
	maxAttempts    = 3
)

// Every 401/403 renders this fixed text, never the server's own message.
const sessionExpiredMessage = "Sesi Anda telah berakhir. Silakan login kembali."

// Client is the single entry point for all backend traffic. It layers
// per-call timeouts, bounded retry, GET de-duplication, and
// session-expiry handling over one http.Client.
//
// Safe for concurrent use.
type Client struct {
	session    *http.Client
	baseURL    string
	tokens     ports.TokenSource
	logoutPath string

	mu            sync.Mutex
	inflight      map[string]*inflightCall
	onAuthExpired func()
	authPending   bool
}

// CallOptions tune a single request.
type CallOptions struct {
	// Timeout overrides the call-class default when positive.
	Timeout time.Duration
	// Retry enables bounded retry of transient failures. Never set for
	// uploads.
	Retry bool
	// SkipDedup opts a GET out of in-flight de-duplication.
	SkipDedup bool
}

func NewClient(baseURL string, tokens ports.TokenSource) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("rest client: base URL is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.New("rest client: base URL is not a valid URL")
	}

	return &Client{
		// The transport-level timeout is a backstop; per-call deadlines
		// are enforced via context.
		session:    &http.Client{Timeout: 2 * uploadTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		logoutPath: "/logout",
		inflight:   make(map[string]*inflightCall),
	}, nil
}

// OnAuthExpired registers the process-wide session-expiry handler.
// Registered once by the composition root.
func (c *Client) OnAuthExpired(fn func()) {
	c.mu.Lock()
	c.onAuthExpired = fn
	c.mu.Unlock()
}

// Get performs a de-duplicated, optionally retried GET.
func (c *Client) Get(ctx context.Context, path string, query url.Values, opt CallOptions) (*Envelope, error) {
	spec := callSpec{
		method:  http.MethodGet,
		path:    path,
		query:   query,
		timeout: opt.Timeout,
	}
	if spec.timeout <= 0 {
		spec.timeout = getTimeout
	}

	run := func() (*Envelope, error) { return c.execute(ctx, spec, opt.Retry) }

	if opt.SkipDedup {
		return run()
	}
	return c.joinInflight(ctx, spec.key(c.baseURL), run)
}

// PostJSON performs a JSON POST.
func (c *Client) PostJSON(ctx context.Context, path string, payload any, opt CallOptions) (*Envelope, error) {
	spec := callSpec{
		method:   http.MethodPost,
		path:     path,
		jsonBody: payload,
		timeout:  opt.Timeout,
	}
	if spec.timeout <= 0 {
		spec.timeout = postTimeout
	}

	return c.execute(ctx, spec, opt.Retry)
}

// PostMultipart performs a multipart POST. The build callback writes
// the form fields and files. Multipart calls are never retried: the
// payload is consumed by the transport, and duplicate submissions are
// worse than a surfaced failure.
func (c *Client) PostMultipart(ctx context.Context, path string, build MultipartBuilder, opt CallOptions) (*Envelope, error) {
	spec := callSpec{
		method:    http.MethodPost,
		path:      path,
		multipart: build,
		timeout:   opt.Timeout,
	}
	if spec.timeout <= 0 {
		spec.timeout = uploadTimeout
	}

	return c.execute(ctx, spec, false)
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}
