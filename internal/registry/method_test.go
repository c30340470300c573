package registry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/harper/jsonrpc-playground/internal/jsonrpc"
)

type pairParams struct {
	A int    `json:"a"`
	B string `json:"b"`
}

func pairHandler() Handler {
	return Func(func(ctx context.Context, p pairParams) (string, error) {
		return p.B, nil
	})
}

func TestFunc_NamedParams(t *testing.T) {
	result, err := pairHandler().Call(context.Background(), json.RawMessage(`{"a":1,"b":"x"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "x" {
		t.Errorf("expected x, got %v", result)
	}
}

func TestFunc_PositionalParams(t *testing.T) {
	result, err := pairHandler().Call(context.Background(), json.RawMessage(`[1, "x"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "x" {
		t.Errorf("expected x, got %v", result)
	}
}

func TestFunc_MissingNamedParam(t *testing.T) {
	_, err := pairHandler().Call(context.Background(), json.RawMessage(`{"a":1}`))
	assertInvalidParams(t, err)
}

func TestFunc_WrongArity(t *testing.T) {
	_, err := pairHandler().Call(context.Background(), json.RawMessage(`[1]`))
	assertInvalidParams(t, err)

	_, err = pairHandler().Call(context.Background(), json.RawMessage(`[1, "x", 3]`))
	assertInvalidParams(t, err)
}

func TestFunc_WrongType(t *testing.T) {
	_, err := pairHandler().Call(context.Background(), json.RawMessage(`{"a":"not a number","b":"x"}`))
	assertInvalidParams(t, err)
}

func TestFunc_AbsentParams(t *testing.T) {
	_, err := pairHandler().Call(context.Background(), nil)
	assertInvalidParams(t, err)
}

func TestFunc_ScalarParams(t *testing.T) {
	_, err := pairHandler().Call(context.Background(), json.RawMessage(`"just a string"`))
	assertInvalidParams(t, err)
}

func TestFunc_ZeroArgMethod(t *testing.T) {
	handler := Func(func(ctx context.Context) (int, error) {
		return 7, nil
	})

	result, err := handler.Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 7 {
		t.Errorf("expected 7, got %v", result)
	}

	// Explicit null params are equivalent to absence.
	if _, err := handler.Call(context.Background(), json.RawMessage(`null`)); err != nil {
		t.Errorf("null params rejected for zero-arg method: %v", err)
	}

	// Actual params to a zero-arg method are a binding failure.
	_, err = handler.Call(context.Background(), json.RawMessage(`{"a":1}`))
	assertInvalidParams(t, err)
}

func TestFunc_HandlerErrorPassthrough(t *testing.T) {
	sentinel := errors.New("boom")
	handler := Func(func(ctx context.Context) (any, error) {
		return nil, sentinel
	})

	_, err := handler.Call(context.Background(), nil)
	if !errors.Is(err, sentinel) {
		t.Errorf("expected handler error to pass through, got %v", err)
	}
}

func TestFunc_PanicRecovered(t *testing.T) {
	handler := Func(func(ctx context.Context) (any, error) {
		panic("deliberate")
	})

	_, err := handler.Call(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error from a panicking handler")
	}

	var rpcErr *jsonrpc.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *jsonrpc.Error, got %T", err)
	}
	if rpcErr.Code != jsonrpc.ServerError {
		t.Errorf("expected code %d, got %d", jsonrpc.ServerError, rpcErr.Code)
	}
}

func TestFunc_InvalidSignaturePanics(t *testing.T) {
	for _, fn := range []any{
		42,
		func() {},
		func(a int) (int, error) { return a, nil },
		func(ctx context.Context, a int) (int, error) { return a, nil },
		func(ctx context.Context) int { return 0 },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Func(%T) did not panic", fn)
				}
			}()
			Func(fn)
		}()
	}
}

func assertInvalidParams(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an invalid params error")
	}
	var rpcErr *jsonrpc.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *jsonrpc.Error, got %T: %v", err, err)
	}
	if rpcErr.Code != jsonrpc.InvalidParams {
		t.Errorf("expected code %d, got %d", jsonrpc.InvalidParams, rpcErr.Code)
	}
}
