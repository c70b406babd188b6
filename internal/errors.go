package internal

import (
	"errors"
	"fmt"
)

// TransportError represents a request that got no response: connection
// refused, DNS failure, or timeout. The UI treats all of these the same.
type TransportError struct {
	Op  string // "send", "list", "history", "create", "delete", "upload", "health"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error [%s]: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestError represents a response the server did answer with, either a
// non-2xx status or an application-level status != "success".
type RequestError struct {
	Op         string
	StatusCode int
	Message    string // server-supplied error or message field, may be empty
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request error [%s]: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("request error [%s]: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// SetupError represents a failure constructing the request before anything
// was sent.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("request setup error [%s]: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// DecodeError represents a response body that could not be parsed.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error [%s]: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UploadError represents a client-side upload validation failure. It is
// surfaced as a transient status, never as a conversation message.
type UploadError struct {
	Filename string
	Reason   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload rejected [%s]: %s", e.Filename, e.Reason)
}

// StoreError represents errors accessing the local state store.
type StoreError struct {
	Path string
	Op   string // "open", "read", "write", "delete"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ExplainSendError converts a send-message failure into the human-readable
// content of a synthetic assistant message. Every failure class degrades to
// text; nothing is re-thrown.
func ExplainSendError(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		detail := reqErr.Message
		if detail == "" {
			detail = "Unknown server error"
		}
		return fmt.Sprintf("Server error (%d): %s", reqErr.StatusCode, detail)
	}

	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return fmt.Sprintf("Request setup error: %v", setupErr.Err)
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "No response from server. Please check your connection and ensure the backend is reachable."
	}

	return "Sorry, I encountered an error. Please try again."
}
