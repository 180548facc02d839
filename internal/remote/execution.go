package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ExecRequest is the body of POST /execute.
type ExecRequest struct {
	Code string `json:"code"`
}

// ExecResult is what the execution service reports for one run.
type ExecResult struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// ErrNoExecutionService is returned by Execute when no base URL is set.
var ErrNoExecutionService = errors.New("no execution service configured (set GOTUTOR_EXECUTION_URL)")

// ExecutionClient submits code to the execution service.
type ExecutionClient struct {
	c client
}

// NewExecutionClient returns a client for baseURL. hc may be nil.
func NewExecutionClient(baseURL string, timeout time.Duration, hc *http.Client) *ExecutionClient {
	return &ExecutionClient{c: newClient(baseURL, timeout, hc)}
}

// Execute runs code remotely. A returned error means the service could not
// be reached or answered badly; compile and runtime failures come back in
// ExecResult.Error.
func (e *ExecutionClient) Execute(ctx context.Context, code string) (ExecResult, error) {
	if e.c.baseURL == "" {
		return ExecResult{}, ErrNoExecutionService
	}
	data, err := e.c.do(ctx, http.MethodPost, "/execute", ExecRequest{Code: code})
	if err != nil {
		return ExecResult{}, fmt.Errorf("execute: %w", err)
	}
	var res ExecResult
	if err := json.Unmarshal(data, &res); err != nil {
		return ExecResult{}, fmt.Errorf("decode execute response: %w", err)
	}
	return res, nil
}
