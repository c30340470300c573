// ABOUTME: Reflection-based parameter binding for plain Go functions
// ABOUTME: Positional arrays bind by field order, objects bind by json tag

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/harper/jsonrpc-playground/internal/jsonrpc"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// funcHandler adapts a plain function to the Handler interface, carrying the
// parameter shape needed to bind positional and named params.
type funcHandler struct {
	fn          reflect.Value
	paramType   reflect.Type // nil for zero-argument methods
	paramNames  []string     // json tag names, declaration order
	paramFields []int        // struct field indices matching paramNames
}

// Func builds a Handler from fn, which must have one of the signatures
//
//	func(ctx context.Context) (R, error)
//	func(ctx context.Context, params T) (R, error)
//
// where T is a struct whose exported fields are the method's parameters.
// Invalid signatures panic: registration happens at server construction and
// a bad handler is a programming error.
func Func(fn any) Handler {
	val := reflect.ValueOf(fn)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		panic(fmt.Sprintf("registry: handler must be a function, got %T", fn))
	}
	if typ.NumIn() < 1 || typ.NumIn() > 2 || typ.In(0) != contextType {
		panic(fmt.Sprintf("registry: handler %T must take (context.Context) or (context.Context, T)", fn))
	}
	if typ.NumOut() != 2 || !typ.Out(1).Implements(errorType) {
		panic(fmt.Sprintf("registry: handler %T must return (result, error)", fn))
	}

	h := &funcHandler{fn: val}

	if typ.NumIn() == 2 {
		paramType := typ.In(1)
		if paramType.Kind() != reflect.Struct {
			panic(fmt.Sprintf("registry: handler %T params must be a struct", fn))
		}
		h.paramType = paramType
		for i := 0; i < paramType.NumField(); i++ {
			field := paramType.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if tag := field.Tag.Get("json"); tag != "" {
				tagName := strings.Split(tag, ",")[0]
				if tagName == "-" {
					continue
				}
				if tagName != "" {
					name = tagName
				}
			}
			h.paramNames = append(h.paramNames, name)
			h.paramFields = append(h.paramFields, i)
		}
	}

	return h
}

func (h *funcHandler) Call(ctx context.Context, params json.RawMessage) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = jsonrpc.NewServerError(fmt.Sprintf("handler panic: %v", r))
		}
	}()

	args := []reflect.Value{reflect.ValueOf(ctx)}

	if h.paramType == nil {
		if len(params) > 0 && string(params) != "null" {
			return nil, jsonrpc.NewInvalidParamsError("method takes no parameters")
		}
	} else {
		bound, bindErr := h.bind(params)
		if bindErr != nil {
			return nil, bindErr
		}
		args = append(args, bound)
	}

	results := h.fn.Call(args)

	if !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// bind maps raw params onto the handler's parameter struct. A JSON array
// binds positionally in field declaration order; a JSON object binds by
// name. Absent params with a non-empty parameter set is a binding failure.
func (h *funcHandler) bind(params json.RawMessage) (reflect.Value, *jsonrpc.Error) {
	target := reflect.New(h.paramType)

	if len(params) == 0 || string(params) == "null" {
		if len(h.paramNames) > 0 {
			return reflect.Value{}, jsonrpc.NewInvalidParamsError(
				fmt.Sprintf("missing params: expected %s", strings.Join(h.paramNames, ", ")))
		}
		return target.Elem(), nil
	}

	var positional []json.RawMessage
	if err := json.Unmarshal(params, &positional); err == nil {
		if len(positional) != len(h.paramFields) {
			return reflect.Value{}, jsonrpc.NewInvalidParamsError(
				fmt.Sprintf("expected %d params, got %d", len(h.paramFields), len(positional)))
		}
		for i, raw := range positional {
			field := target.Elem().Field(h.paramFields[i])
			if err := json.Unmarshal(raw, field.Addr().Interface()); err != nil {
				return reflect.Value{}, jsonrpc.NewInvalidParamsError(
					fmt.Sprintf("param %q: %v", h.paramNames[i], err))
			}
		}
		return target.Elem(), nil
	}

	var named map[string]json.RawMessage
	if err := json.Unmarshal(params, &named); err != nil {
		return reflect.Value{}, jsonrpc.NewInvalidParamsError("params must be an array or object")
	}
	for i, name := range h.paramNames {
		raw, ok := named[name]
		if !ok {
			return reflect.Value{}, jsonrpc.NewInvalidParamsError(fmt.Sprintf("missing param: %s", name))
		}
		field := target.Elem().Field(h.paramFields[i])
		if err := json.Unmarshal(raw, field.Addr().Interface()); err != nil {
			return reflect.Value{}, jsonrpc.NewInvalidParamsError(fmt.Sprintf("param %q: %v", name, err))
		}
	}
	return target.Elem(), nil
}
