package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kirikab-27/courselab/internal/domain"
)

// HTTPSimulator talks to a remote execution service over its JSON API
type HTTPSimulator struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPConfig holds configuration for the remote execution backend
type HTTPConfig struct {
	BaseURL string // default: http://localhost:8799
}

// NewHTTPSimulator creates a client for a remote execution service
func NewHTTPSimulator(cfg HTTPConfig) *HTTPSimulator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8799"
	}

	return &HTTPSimulator{
		baseURL:    cfg.BaseURL,
		httpClient: newSimulatorHTTPClient(),
	}
}

func (s *HTTPSimulator) Name() string {
	return "http"
}

type executeRequest struct {
	Code                string `json:"code"`
	Language            string `json:"language"`
	IncludeCompileCheck bool   `json:"includeCompileCheck"`
	TimeoutMs           int64  `json:"timeoutMs"`
}

type executeResponse struct {
	Output          string  `json:"output"`
	Error           string  `json:"error,omitempty"`
	ExecutionTimeMs int64   `json:"executionTimeMs"`
	Success         bool    `json:"success"`
	MemoryUsageMb   float64 `json:"memoryUsageMb,omitempty"`
}

func (s *HTTPSimulator) Execute(ctx context.Context, req *Request) (*domain.ExecutionResult, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(executeRequest{
		Code:                req.Code,
		Language:            req.Language.String(),
		IncludeCompileCheck: req.IncludeCompileCheck,
		TimeoutMs:           timeout.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("execution service error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var wireResp executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &domain.ExecutionResult{
		Output:          wireResp.Output,
		Error:           wireResp.Error,
		ExecutionTimeMs: wireResp.ExecutionTimeMs,
		Success:         wireResp.Success,
		MemoryUsageMB:   wireResp.MemoryUsageMb,
	}, nil
}
