package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// Code classifies an Error
type Code int

const (
	Internal Code = iota + 1
	NotFound
	Validation
	FixtureNotFound
	FixtureParse
	StoreConnection
	BatchCommit
	RecordWrite
)

var codeNames = map[Code]string{
	Internal:        "internal",
	NotFound:        "not_found",
	Validation:      "validation",
	FixtureNotFound: "fixture_not_found",
	FixtureParse:    "fixture_parse",
	StoreConnection: "store_connection",
	BatchCommit:     "batch_commit",
	RecordWrite:     "record_write",
}

// String returns the code's name
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the code as its name
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Error is a custom error
type Error struct {
	Code     Code     `json:"code"`
	Messages []string `json:"messages"`
	Err      error    `json:"-"`
}

// Error returns a human readable message: the most recent message first, followed by the cause
func (e *Error) Error() string {
	var msg string
	for i := len(e.Messages) - 1; i >= 0; i-- {
		if msg == "" {
			msg = e.Messages[i]
			continue
		}
		msg = fmt.Sprintf("%s: %s", msg, e.Messages[i])
	}
	switch {
	case e.Err == nil && msg == "":
		return e.Code.String()
	case e.Err == nil:
		return msg
	case msg == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the Error as a json string
func (e *Error) JSON() string {
	bits, _ := json.Marshal(struct {
		Code     Code     `json:"code"`
		Messages []string `json:"messages"`
		Err      string   `json:"err,omitempty"`
	}{
		Code:     e.Code,
		Messages: e.Messages,
		Err:      errString(e.Err),
	})
	return string(bits)
}

// RemoveError removes the error from the Error and leaves it's messages and code
func (e *Error) RemoveError() *Error {
	return &Error{
		Code:     e.Code,
		Messages: e.Messages,
		Err:      nil,
	}
}

// New creates a new Error with the given code and message
func New(code Code, msg string, args ...any) error {
	e := &Error{Code: code}
	if msg != "" {
		e.Messages = append(e.Messages, fmt.Sprintf(msg, args...))
	}
	return e
}

// Extract extracts the custom Error from the given error
func Extract(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return &Error{
		Code:     0,
		Messages: nil,
		Err:      err,
	}
}

// Is reports whether the error (or one it wraps) carries the given code
func Is(err error, code Code) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// Wrap wraps the given error and returns a new one. A nil error stays nil.
func Wrap(err error, code Code, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if ok {
		if msg != "" {
			e.Messages = append(e.Messages, fmt.Sprintf(msg, args...))
		}
		if code > 0 {
			e.Code = code
		}
		return e
	}
	e = &Error{
		Code: code,
		Err:  err,
	}
	if msg != "" {
		e.Messages = append(e.Messages, fmt.Sprintf(msg, args...))
	}
	return e
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
