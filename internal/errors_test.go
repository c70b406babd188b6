package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var errTimeout = errors.New("context deadline exceeded")

func TestExplainSendError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string // substring
	}{
		{
			name: "transport failure",
			err:  &TransportError{Op: "send", Err: errors.New("connection refused")},
			want: "No response from server",
		},
		{
			name: "timeout reads like transport failure",
			err:  &TransportError{Op: "send", Err: errTimeout},
			want: "No response from server",
		},
		{
			name: "server error with detail",
			err:  &RequestError{Op: "send", StatusCode: 500, Message: "index unavailable"},
			want: "Server error (500): index unavailable",
		},
		{
			name: "server error without detail",
			err:  &RequestError{Op: "send", StatusCode: 502},
			want: "Server error (502): Unknown server error",
		},
		{
			name: "setup failure",
			err:  &SetupError{Op: "send", Err: errors.New("bad payload")},
			want: "Request setup error: bad payload",
		},
		{
			name: "wrapped transport failure",
			err:  fmt.Errorf("send: %w", &TransportError{Op: "send", Err: errTimeout}),
			want: "No response from server",
		},
		{
			name: "unclassified error",
			err:  errors.New("mystery"),
			want: "Sorry, I encountered an error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExplainSendError(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("ExplainSendError() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")

	wrapped := []error{
		&TransportError{Op: "send", Err: inner},
		&SetupError{Op: "send", Err: inner},
		&DecodeError{Op: "send", Err: inner},
		&StoreError{Path: "/tmp/x", Op: "read", Err: inner},
	}
	for _, err := range wrapped {
		if !errors.Is(err, inner) {
			t.Errorf("%T does not unwrap to inner error", err)
		}
	}
}

func TestRequestErrorMessage(t *testing.T) {
	err := &RequestError{Op: "list", StatusCode: 404, Message: "no such user"}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "no such user") {
		t.Errorf("Error() = %q, want status and detail", err.Error())
	}
}
