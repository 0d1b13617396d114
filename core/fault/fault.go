// Package fault classifies the ways a charging data fetch can fail. Every
// kind makes the tick abnormal; kinds only change what is shown to the user.
package fault

import (
	"errors"
	"fmt"
	"net"
)

// Kind is the failure class of a fetch.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport covers timeouts and connection failures.
	KindTransport
	// KindProtocol is a non-2xx HTTP status.
	KindProtocol
	// KindParse is a body that is not the expected JSON document.
	KindParse
	// KindApplication is a well-formed reply reporting a business failure.
	KindApplication
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindParse:
		return "parse"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// Error is a classified fetch failure.
type Error struct {
	Kind Kind
	// Status is the HTTP status code of protocol errors.
	Status int
	// Message is the server supplied message of application errors.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindProtocol:
		return fmt.Sprintf("protocol error: HTTP status %d", e.Status)
	case KindApplication:
		return fmt.Sprintf("application error: %s", e.Message)
	}
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the failure is a transport timeout.
func (e *Error) Timeout() bool {
	if e.Kind != KindTransport || e.Err == nil {
		return false
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Transport wraps a connection level failure.
func Transport(err error) *Error { return &Error{Kind: KindTransport, Err: err} }

// Protocol reports an unexpected HTTP status.
func Protocol(status int) *Error { return &Error{Kind: KindProtocol, Status: status} }

// Parse wraps a decoding failure.
func Parse(err error) *Error { return &Error{Kind: KindParse, Err: err} }

// Application reports a failure signalled by the server.
func Application(msg string) *Error { return &Error{Kind: KindApplication, Message: msg} }

// Unknown wraps any other failure.
func Unknown(err error) *Error { return &Error{Kind: KindUnknown, Err: err} }

// KindOf returns the kind of err, KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Describe returns the message shown to the user for a failed fetch.
func Describe(err error) string {
	var fe *Error
	if !errors.As(err, &fe) {
		return fmt.Sprintf("unknown error: %v", err)
	}
	switch fe.Kind {
	case KindTransport:
		if fe.Timeout() {
			return "network error: request timed out (check the network connection)"
		}
		return fmt.Sprintf("network error: %v (check the network connection or the endpoint URL)", fe.Err)
	case KindProtocol:
		return fmt.Sprintf("HTTP error: status %d (server failure or endpoint no longer available)", fe.Status)
	case KindParse:
		return "parse error: the server returned a malformed response (not JSON)"
	case KindApplication:
		return fmt.Sprintf("failed to get charging data: %s", fe.Message)
	default:
		if fe.Err == nil {
			return "unknown error"
		}
		return fmt.Sprintf("unknown error: %v", fe.Err)
	}
}
