package ports

import "fmt"

// ErrorKind classifies a failed backend request so callers can branch
// on the failure class instead of matching message strings.
type ErrorKind int

const (
	// KindTransport: DNS/connect/reset failures before a response.
	KindTransport ErrorKind = iota
	// KindTimeout: the call exceeded its deadline.
	KindTimeout
	// KindAuth: HTTP 401/403; the session is no longer usable.
	KindAuth
	// KindValidation: HTTP 422 with field-level errors attached.
	KindValidation
	// KindBusiness: transport succeeded but the envelope carries a
	// domain-rule rejection (e.g. an already-active visit).
	KindBusiness
	// KindServer: any other non-success response.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindBusiness:
		return "business"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// RequestError is the terminal failure shape for every backend call.
// Code and Status mirror the response envelope's meta block; HTTPStatus
// is the transport status (0 when the transport never responded).
type RequestError struct {
	Kind       ErrorKind
	Code       int
	Status     string
	Message    string
	HTTPStatus int
	Fields     map[string][]string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// Retryable reports whether the failure class may succeed on a retry.
func (e *RequestError) Retryable() bool {
	switch e.Kind {
	case KindTransport, KindTimeout:
		return true
	}
	switch e.HTTPStatus {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}
