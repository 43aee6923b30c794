package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Operations reported in RemoteError.Op.
const (
	OpProcess     = "process"
	OpInputRanges = "input-ranges"
	OpPredict     = "predict"
	OpHealth      = "health"
)

var fallbackMessages = map[string]string{
	OpProcess:     "Failed to process CSV",
	OpInputRanges: "Failed to fetch input ranges",
	OpPredict:     "Failed to make prediction",
	OpHealth:      "Service is not healthy",
}

// RemoteError is returned when the backend answers with a non-2xx status or a
// body that cannot be decoded. Message is what the user sees.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.Err }

// IsRemote reports whether err is (or wraps) a *RemoteError.
func IsRemote(err error) bool {
	var e *RemoteError
	return errors.As(err, &e)
}

// Fallback returns the generic message of op.
func Fallback(op string) string {
	if m, ok := fallbackMessages[op]; ok {
		return m
	}
	return fmt.Sprintf("%s request failed", op)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const maxErrorBody = 64 << 10

// successful reports whether status is a 2xx success.
func successful(status int) bool {
	return status >= 200 && status <= 299
}

// remoteError builds the error of a failed response. The service's "error"
// field wins; the input-range endpoint also accepts "message".
func remoteError(op string, status int, body io.Reader) *RemoteError {
	e := &RemoteError{Op: op, StatusCode: status, Message: Fallback(op)}
	var eb errorBody
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&eb); err != nil {
		return e
	}
	msg := strings.TrimSpace(eb.Error)
	if op == OpInputRanges {
		if m := strings.TrimSpace(eb.Message); m != "" {
			msg = m
		}
	}
	if msg != "" {
		e.Message = msg
	}
	return e
}

func malformed(op string, status int, err error) *RemoteError {
	return &RemoteError{Op: op, StatusCode: status, Message: Fallback(op), Err: err}
}
