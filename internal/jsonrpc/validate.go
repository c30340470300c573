// ABOUTME: Envelope validation for raw JSON-RPC request bodies
// ABOUTME: Classifies a payload as a single call, a batch, or malformed

package jsonrpc

import (
	"bytes"
	"encoding/json"
)

// Call is one element of a parsed payload. Exactly one field is set: Request
// for an element that passed envelope validation, Invalid for a pre-built
// error response covering a malformed element.
type Call struct {
	Request *Request
	Invalid *Response
}

// ParseBody validates raw bytes as one or more JSON-RPC calls.
//
// A payload-level failure (not valid JSON, or an empty batch array) returns a
// non-nil errResp; the caller must reply with that single envelope and ignore
// calls. Otherwise calls holds one entry per element in input order and batch
// reports whether the payload was a JSON array.
func ParseBody(body []byte) (calls []Call, batch bool, errResp *Response) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		resp := NewErrorResponse(NewParseError("empty request body"), nil)
		return nil, false, &resp
	}

	if trimmed[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			resp := NewErrorResponse(NewParseError(err.Error()), nil)
			return nil, false, &resp
		}
		if len(elements) == 0 {
			resp := NewErrorResponse(NewInvalidRequestError("batch array is empty"), nil)
			return nil, false, &resp
		}
		calls = make([]Call, 0, len(elements))
		for _, element := range elements {
			calls = append(calls, validateElement(element))
		}
		return calls, true, nil
	}

	var element json.RawMessage
	if err := json.Unmarshal(trimmed, &element); err != nil {
		resp := NewErrorResponse(NewParseError(err.Error()), nil)
		return nil, false, &resp
	}

	return []Call{validateElement(element)}, false, nil
}

// validateElement checks the JSON-RPC structural rules for one payload
// element: it must be an object, carry jsonrpc "2.0" and a non-empty string
// method. The id is recovered from malformed objects when extractable so the
// error response can echo it.
func validateElement(raw json.RawMessage) Call {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		resp := NewErrorResponse(NewInvalidRequestError("request must be a JSON object"), nil)
		return Call{Invalid: &resp}
	}

	// The id key must be probed for presence: a literal null id still marks
	// the call as a request, not a notification.
	var id *json.RawMessage
	if rawID, ok := fields["id"]; ok {
		idCopy := make(json.RawMessage, len(rawID))
		copy(idCopy, rawID)
		id = &idCopy
	}

	invalid := func(details string) Call {
		resp := NewErrorResponse(NewInvalidRequestError(details), id)
		return Call{Invalid: &resp}
	}

	rawVersion, ok := fields["jsonrpc"]
	if !ok {
		return invalid("missing jsonrpc field")
	}
	var version string
	if err := json.Unmarshal(rawVersion, &version); err != nil || version != Version {
		return invalid(`jsonrpc field must be the string "2.0"`)
	}

	rawMethod, ok := fields["method"]
	if !ok {
		return invalid("missing method field")
	}
	var method string
	if err := json.Unmarshal(rawMethod, &method); err != nil {
		return invalid("method field must be a string")
	}
	if method == "" {
		return invalid("method field must not be empty")
	}

	return Call{Request: &Request{
		JSONRPC: version,
		Method:  method,
		Params:  fields["params"],
		ID:      id,
	}}
}
