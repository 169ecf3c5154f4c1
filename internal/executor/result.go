// In file: internal/executor/result.go

// Package executor hosts the Command Executor: the collaborator that actually performs
// a tool's action. The gateway only depends on the Executor interface; this package
// provides a local implementation with bounded retry and a Redis-queue implementation
// that hands calls to out-of-process workers.
package executor

import "encoding/json"

const (
	keySuccess = "success"
	keyError   = "error"
)

// Result is the outcome of one tool execution: a JSON object with a boolean "success"
// member, an "error" member on failure, and any tool-specific payload members.
// Results are created by an executor and treated as read-only afterwards.
type Result map[string]any

// Succeeded builds a successful result carrying payload.
func Succeeded(payload map[string]any) Result {
	r := make(Result, len(payload)+1)
	for k, v := range payload {
		r[k] = v
	}
	r[keySuccess] = true
	return r
}

// Failed builds a failed result. payload may be nil; detail always wins over a
// payload "error" member.
func Failed(detail string, payload map[string]any) Result {
	r := make(Result, len(payload)+2)
	for k, v := range payload {
		r[k] = v
	}
	r[keySuccess] = false
	r[keyError] = detail
	return r
}

// Success reports whether the result is marked successful. Anything other than a
// literal true counts as failure.
func (r Result) Success() bool {
	ok, _ := r[keySuccess].(bool)
	return ok
}

// ErrorDetail returns the failure message, if any.
func (r Result) ErrorDetail() string {
	switch v := r[keyError].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
