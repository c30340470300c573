// ABOUTME: Reference method set for the playground: arithmetic, greeting, log access
// ABOUTME: Registered as ordinary registry entries on a per-server registry

package methods

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/harper/jsonrpc-playground/internal/jsonrpc"
	"github.com/harper/jsonrpc-playground/internal/logstore"
	"github.com/harper/jsonrpc-playground/internal/registry"
)

// LogEmptySentinel is returned by get_log when the store has never been
// written or was cleared.
const LogEmptySentinel = "Log is empty."

// Service holds the state shared by the reference methods.
type Service struct {
	store *logstore.Store
}

func NewService(store *logstore.Store) *Service {
	return &Service{store: store}
}

// RegisterAll binds every reference method on reg.
func (s *Service) RegisterAll(reg *registry.Registry) {
	reg.Register("add", registry.Func(s.Add))
	reg.Register("strict_add", registry.Func(s.StrictAdd))
	reg.Register("greet", registry.Func(s.Greet))
	reg.Register("demo_method", registry.Func(s.DemoMethod))
	reg.Register("cause_internal_error", registry.Func(s.CauseInternalError))
	reg.Register("log_message", registry.Func(s.LogMessage))
	reg.Register("get_log", registry.Func(s.GetLog))
	reg.Register("clear_log", registry.Func(s.ClearLog))
}

type AddParams struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Add sums two JSON numbers with no coercion beyond what JSON provides.
func (s *Service) Add(ctx context.Context, p AddParams) (float64, error) {
	return p.A + p.B, nil
}

type StrictAddParams struct {
	A json.RawMessage `json:"a"`
	B json.RawMessage `json:"b"`
}

// StrictAdd sums two arguments, rejecting anything that is not an integer at
// the JSON level: string-typed numbers and fractional values both fail with
// invalid params.
func (s *Service) StrictAdd(ctx context.Context, p StrictAddParams) (int64, error) {
	a, err := strictInt(p.A, "a")
	if err != nil {
		return 0, err
	}
	b, err := strictInt(p.B, "b")
	if err != nil {
		return 0, err
	}
	return a + b, nil
}

func strictInt(raw json.RawMessage, name string) (int64, error) {
	var n int64
	if string(raw) == "null" {
		return 0, jsonrpc.NewInvalidParamsError(fmt.Sprintf("param %q must be an integer, got null", name))
	}
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, jsonrpc.NewInvalidParamsError(
			fmt.Sprintf("param %q must be an integer, got %s", name, string(raw)))
	}
	return n, nil
}

type GreetParams struct {
	Name string `json:"name"`
}

// Greet returns a greeting, including for the empty name.
func (s *Service) Greet(ctx context.Context, p GreetParams) (string, error) {
	return fmt.Sprintf("Hello, %s!", p.Name), nil
}

type DemoParams struct {
	Param1 string `json:"param1"`
	Param2 int    `json:"param2"`
}

// DemoMethod combines both required parameters into one string; exists to
// exercise required-parameter binding.
func (s *Service) DemoMethod(ctx context.Context, p DemoParams) (string, error) {
	return fmt.Sprintf("Received: %s and %d", p.Param1, p.Param2), nil
}

type TriggerParams struct {
	Trigger string `json:"trigger"`
}

// CauseInternalError fails unconditionally when trigger is "error" to
// exercise the server-error path; any other value returns a confirmation.
func (s *Service) CauseInternalError(ctx context.Context, p TriggerParams) (string, error) {
	if p.Trigger == "error" {
		return "", errors.New("This is a deliberate internal error for demonstration")
	}
	return fmt.Sprintf("No error triggered. Received: %s", p.Trigger), nil
}

type LogMessageParams struct {
	Message string `json:"message"`
}

// LogMessage appends one message to the log store. It has no return value;
// called as a request the result is null.
func (s *Service) LogMessage(ctx context.Context, p LogMessageParams) (any, error) {
	if err := s.store.Append(p.Message); err != nil {
		return nil, err
	}
	return nil, nil
}

// GetLog returns the full log contents, or the empty-log sentinel when no
// log file exists.
func (s *Service) GetLog(ctx context.Context) (string, error) {
	contents, err := s.store.Read()
	if errors.Is(err, os.ErrNotExist) {
		return LogEmptySentinel, nil
	}
	if err != nil {
		return "", err
	}
	return contents, nil
}

// ClearLog empties the log store.
func (s *Service) ClearLog(ctx context.Context) (string, error) {
	if err := s.store.Clear(); err != nil {
		return "", err
	}
	return "Log cleared.", nil
}
