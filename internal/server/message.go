package server

import "encoding/json"

// Request types.
const (
	TypeSolve = "solve"
	TypeCheck = "check"
)

// Reply types.
const (
	TypeSolved  = "solved"
	TypeChecked = "checked"
	TypeError   = "error"
)

// Error codes.
const (
	CodeBadRequest      = "bad_request"
	CodeUnknownType     = "unknown_type"
	CodeInvalidArgument = "invalid_argument"
)

// Request is one client message.
type Request struct {
	Type   string          `json:"type"`
	ID     string          `json:"id,omitempty"`
	Inputs json.RawMessage `json:"inputs"`
}

// Reply answers one Request. ID echoes the request id.
type Reply struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	TraceID string `json:"trace_id"`

	// Set on solved replies. Isp is present when thrust and mass flow are known.
	Derived map[string]float64 `json:"derived,omitempty"`
	Isp     *float64           `json:"isp,omitempty"`

	// Set on checked replies.
	Derivable []string `json:"derivable,omitempty"`
	Redundant []string `json:"redundant,omitempty"`

	Error *ReplyError `json:"error,omitempty"`
}

// ReplyError describes a failed request.
type ReplyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
