// ABOUTME: JSON-RPC 2.0 message types shared by the server, dispatcher and client
// ABOUTME: Implements request, response, and error structures plus standard codes

package jsonrpc

import "encoding/json"

// Version is the only protocol version this server speaks.
const Version = "2.0"

type Request struct {
	JSONRPC string           `json:"jsonrpc"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
	ID      *json.RawMessage `json:"id,omitempty"`
}

// IsNotification reports whether the request carries no id and therefore
// must never produce a response entry.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

type Response struct {
	JSONRPC string           `json:"jsonrpc"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *Error           `json:"error,omitempty"`
	ID      *json.RawMessage `json:"id"`
}

type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface so handlers can return protocol
// errors directly and have the dispatcher preserve their code.
func (e *Error) Error() string {
	return e.Message
}

// Standard JSON-RPC error codes.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
	ServerError    = -32000
)

// nullID encodes as a literal JSON null. Used when the originating request's
// id could not be determined, e.g. on a parse error.
var nullID = json.RawMessage("null")

// NullID returns the JSON null id.
func NullID() *json.RawMessage {
	id := make(json.RawMessage, len(nullID))
	copy(id, nullID)
	return &id
}

// NewResponse builds a success response echoing id. result must already be
// raw JSON; marshaling it is the caller's concern.
func NewResponse(result json.RawMessage, id *json.RawMessage) Response {
	if id == nil {
		id = NullID()
	}
	return Response{JSONRPC: Version, Result: result, ID: id}
}

// NewErrorResponse builds an error response echoing id, or null when the id
// is unknown.
func NewErrorResponse(rpcErr *Error, id *json.RawMessage) Response {
	if id == nil {
		id = NullID()
	}
	return Response{JSONRPC: Version, Error: rpcErr, ID: id}
}
