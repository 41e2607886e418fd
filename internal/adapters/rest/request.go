package rest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"field-visit-service/internal/ports"
)

// MultipartBuilder writes the form fields and files of an upload.
type MultipartBuilder func(w *multipart.Writer) error

// callSpec describes one logical call independent of attempts; the
// actual *http.Request is rebuilt per attempt.
type callSpec struct {
	method    string
	path      string
	query     url.Values
	jsonBody  any
	multipart MultipartBuilder
	timeout   time.Duration
}

func (s callSpec) url(base string) string {
	u := base + s.path
	if len(s.query) > 0 {
		u += "?" + s.query.Encode()
	}
	return u
}

// key is the de-duplication identity: method, full URL, body signature.
func (s callSpec) key(base string) string {
	return s.method + ":" + s.url(base) + ":" + s.bodySignature()
}

func (s callSpec) bodySignature() string {
	if s.jsonBody == nil {
		return ""
	}
	b, err := json.Marshal(s.jsonBody)
	if err != nil {
		return "unmarshalable"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// doOnce issues a single transport attempt and classifies the outcome.
func (c *Client) doOnce(ctx context.Context, spec callSpec) (*Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, spec.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, classifyTransportErr(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(ctx, err)
	}

	// Envelope decode is tolerant: error pages without a JSON body
	// still classify by HTTP status below.
	var env Envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.scheduleAuthExpired(spec.path)
		return nil, &ports.RequestError{
			Kind:       ports.KindAuth,
			Code:       env.Meta.Code,
			Status:     env.Meta.Status,
			Message:    sessionExpiredMessage,
			HTTPStatus: resp.StatusCode,
		}
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, &ports.RequestError{
			Kind:       ports.KindValidation,
			Code:       env.Meta.Code,
			Status:     env.Meta.Status,
			Message:    joinFieldErrors(env.Meta.Message, env.Errors),
			HTTPStatus: resp.StatusCode,
			Fields:     env.Errors,
		}
	}

	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(env.Meta.Message)
		if msg == "" {
			msg = fmt.Sprintf("server returned status %d", resp.StatusCode)
		}
		return nil, &ports.RequestError{
			Kind:       ports.KindServer,
			Code:       env.Meta.Code,
			Status:     env.Meta.Status,
			Message:    msg,
			HTTPStatus: resp.StatusCode,
		}
	}

	if env.OK() {
		return &env, nil
	}

	// 2xx transport with a non-success envelope is a domain-rule
	// rejection, surfaced verbatim.
	msg := strings.TrimSpace(env.Meta.Message)
	if msg == "" {
		msg = "request rejected by server"
	}
	return nil, &ports.RequestError{
		Kind:       ports.KindBusiness,
		Code:       env.Meta.Code,
		Status:     env.Meta.Status,
		Message:    msg,
		HTTPStatus: resp.StatusCode,
	}
}

func (c *Client) newRequest(ctx context.Context, spec callSpec) (*http.Request, error) {
	var body io.Reader
	contentType := ""

	switch {
	case spec.multipart != nil:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := spec.multipart(w); err != nil {
			return nil, fmt.Errorf("write multipart form: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("close multipart form: %w", err)
		}
		body = &buf
		// Boundary comes from the writer, never hand-assembled.
		contentType = w.FormDataContentType()

	case spec.jsonBody != nil:
		payload, err := json.Marshal(spec.jsonBody)
		if err != nil {
			return nil, fmt.Errorf("marshal json body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, spec.url(c.baseURL), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// classifyTransportErr separates deadline expiry from other transport
// failures so timeouts surface as their own error kind.
func classifyTransportErr(ctx context.Context, err error) *ports.RequestError {
	var netErr net.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())

	if timedOut {
		return &ports.RequestError{
			Kind:    ports.KindTimeout,
			Message: "request timed out",
		}
	}
	return &ports.RequestError{
		Kind:    ports.KindTransport,
		Message: "network request failed",
	}
}

// joinFieldErrors appends flattened field messages to the base message.
func joinFieldErrors(base string, fields map[string][]string) string {
	if len(fields) == 0 {
		if base == "" {
			return "validation failed"
		}
		return base
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	flat := make([]string, 0, len(fields))
	for _, k := range keys {
		flat = append(flat, strings.Join(fields[k], ", "))
	}

	joined := strings.Join(flat, "; ")
	if base == "" {
		return joined
	}
	return base + ": " + joined
}
