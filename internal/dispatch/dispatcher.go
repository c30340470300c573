// ABOUTME: Dispatcher resolving validated calls against the method registry
// ABOUTME: Invokes handlers, maps failures to error envelopes, drops notification replies

package dispatch

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/harper/jsonrpc-playground/internal/history"
	"github.com/harper/jsonrpc-playground/internal/jsonrpc"
	"github.com/harper/jsonrpc-playground/internal/logger"
	"github.com/harper/jsonrpc-playground/internal/registry"
)

// Dispatcher runs the full message pipeline for one raw body: validation,
// registry lookup, handler invocation and response assembly. It owns no
// transport concerns; the HTTP adapter frames its output.
type Dispatcher struct {
	registry *registry.Registry
	history  *history.DB
}

// New builds a dispatcher over reg. hist may be nil to disable call
// recording.
func New(reg *registry.Registry, hist *history.DB) *Dispatcher {
	return &Dispatcher{registry: reg, history: hist}
}

// Dispatch processes a raw request body and returns the responses owed plus
// whether the input was a batch. An empty response slice means every call
// was a notification and no body must be written.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) ([]jsonrpc.Response, bool) {
	calls, batch, errResp := jsonrpc.ParseBody(body)
	if errResp != nil {
		return []jsonrpc.Response{*errResp}, false
	}

	responses := make([]jsonrpc.Response, 0, len(calls))
	for _, call := range calls {
		if call.Invalid != nil {
			responses = append(responses, *call.Invalid)
			continue
		}
		if resp, owed := d.dispatchCall(ctx, call.Request); owed {
			responses = append(responses, resp)
		}
	}

	return responses, batch
}

// dispatchCall runs one validated call. owed is false for notifications:
// any computed response or error is discarded per protocol.
func (d *Dispatcher) dispatchCall(ctx context.Context, req *jsonrpc.Request) (resp jsonrpc.Response, owed bool) {
	notification := req.IsNotification()

	handler, found := d.registry.Lookup(req.Method)
	switch {
	case !found && notification:
		// Unknown methods in notifications are silently dropped; the log is
		// the only place this surfaces.
		logger.Debug("dropping notification for unknown method %q", req.Method)
	case !found:
		resp = jsonrpc.NewErrorResponse(jsonrpc.NewMethodNotFoundError(req.Method), req.ID)
	default:
		result, err := handler.Call(ctx, req.Params)
		if err != nil {
			resp = jsonrpc.NewErrorResponse(mapHandlerError(err), req.ID)
		} else {
			resp = encodeResult(result, req.ID)
		}
	}

	d.record(req, notification, resp)

	if notification {
		return jsonrpc.Response{}, false
	}
	return resp, true
}

// encodeResult marshals a handler's return value into a success envelope,
// degrading to an internal error when the value is not JSON-serializable.
func encodeResult(result any, id *json.RawMessage) jsonrpc.Response {
	raw, err := json.Marshal(result)
	if err != nil {
		logger.Error("failed to marshal result: %v", err)
		return jsonrpc.NewErrorResponse(jsonrpc.NewInternalError("result is not JSON-serializable"), id)
	}
	return jsonrpc.NewResponse(raw, id)
}

// mapHandlerError converts a handler failure into a protocol error object.
// Handlers signal parameter problems by returning a *jsonrpc.Error, which
// keeps its code; anything else is an uncaught fault in the -32000 range
// carrying only the message text.
func mapHandlerError(err error) *jsonrpc.Error {
	var rpcErr *jsonrpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return jsonrpc.NewServerError(err.Error())
}

func (d *Dispatcher) record(req *jsonrpc.Request, notification bool, resp jsonrpc.Response) {
	if d.history == nil {
		return
	}

	kind := history.KindRequest
	requestID := ""
	var respJSON []byte
	if notification {
		kind = history.KindNotification
	} else {
		if req.ID != nil {
			requestID = string(*req.ID)
		}
		if data, err := json.Marshal(resp); err == nil {
			respJSON = data
		}
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return
	}
	if err := d.history.Record(req.Method, kind, requestID, reqJSON, respJSON); err != nil {
		logger.Warn("failed to record call history: %v", err)
	}
}
