// ABOUTME: Constructors for standard JSON-RPC 2.0 error objects
// ABOUTME: data carries a human-readable detail string, never internal state

package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// errData marshals a detail string for the error data field. An empty detail
// omits the field entirely.
func errData(details string) json.RawMessage {
	if details == "" {
		return nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil
	}
	return data
}

// NewParseError reports that the body is not valid JSON (-32700).
func NewParseError(details string) *Error {
	return &Error{Code: ParseError, Message: "Parse error", Data: errData(details)}
}

// NewInvalidRequestError reports a structurally invalid envelope (-32600).
func NewInvalidRequestError(details string) *Error {
	return &Error{Code: InvalidRequest, Message: "Invalid Request", Data: errData(details)}
}

// NewMethodNotFoundError reports an unregistered method name (-32601).
func NewMethodNotFoundError(method string) *Error {
	return &Error{
		Code:    MethodNotFound,
		Message: "Method not found",
		Data:    errData(fmt.Sprintf("method %q is not registered", method)),
	}
}

// NewInvalidParamsError reports an argument shape or type mismatch (-32602).
func NewInvalidParamsError(details string) *Error {
	return &Error{Code: InvalidParams, Message: "Invalid params", Data: errData(details)}
}

// NewInternalError reports a transport or encoding failure (-32603).
func NewInternalError(details string) *Error {
	return &Error{Code: InternalError, Message: "Internal error", Data: errData(details)}
}

// NewServerError reports an uncaught handler failure (-32000).
func NewServerError(details string) *Error {
	return &Error{Code: ServerError, Message: "Server error", Data: errData(details)}
}
