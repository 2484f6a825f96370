package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"freecode/internal/common"
	"freecode/internal/domain/model"
)

const (
	MsgNoRunOutput      = "No output returned from the execution."
	MsgNoSubmitResults  = "No test results returned from the execution."
	executeErrorPrefix  = "Error executing code: "
	maxErrorBodyPreview = 512
)

// ExecuteRequest is the body of POST /execute/. An empty InputData asks the
// judge to run its own hidden suite.
type ExecuteRequest struct {
	Code      string         `json:"code"`
	Language  model.Language `json:"language"`
	InputData string         `json:"input_data"`
}

type ExecuteResponse struct {
	TestResults []model.TestResult `json:"test_results"`
	Error       string             `json:"error,omitempty"`
}

// Client talks to the external judge. It never retries and never returns an
// error: every failure is folded into a result carrying an Error message.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes code against a single sample input and returns the first
// reported result.
func (c *Client) Run(ctx context.Context, code string, lang model.Language, sampleInput string) model.TestResult {
	results, err := c.Execute(ctx, ExecuteRequest{Code: code, Language: lang, InputData: sampleInput})
	if err != nil {
		return ErrorResult(err, MsgNoRunOutput)
	}
	return results[0]
}

// Submit runs the judge's full suite.
func (c *Client) Submit(ctx context.Context, code string, lang model.Language) []model.TestResult {
	results, err := c.Execute(ctx, ExecuteRequest{Code: code, Language: lang})
	if err != nil {
		return []model.TestResult{ErrorResult(err, MsgNoSubmitResults)}
	}
	return results
}

// Execute performs one call. It fails with common.ErrNetwork when the judge
// cannot be reached or answers with garbage, and with common.ErrNoOutput when
// it answers with no results. The returned slice is never empty on success.
func (c *Client) Execute(ctx context.Context, req ExecuteRequest) ([]model.TestResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Judge request failed", "err", err)
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}

	var decoded ExecuteResponse
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := decoded.Error
		if decodeErr != nil || msg == "" {
			msg = preview(body)
		}
		c.logger.Warn("Judge returned non-2xx", "status", resp.StatusCode, "body", msg)
		return nil, fmt.Errorf("%w: judge returned status %d: %s", common.ErrNetwork, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decoding judge response: %v", common.ErrNetwork, decodeErr)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("%w: %s", common.ErrNetwork, decoded.Error)
	}
	if len(decoded.TestResults) == 0 {
		return nil, common.ErrNoOutput
	}
	return decoded.TestResults, nil
}

// ErrorResult builds the placeholder result shown when a call produced
// nothing usable. noOutputMsg is used for common.ErrNoOutput.
func ErrorResult(err error, noOutputMsg string) model.TestResult {
	if errors.Is(err, common.ErrNoOutput) {
		return model.TestResult{Error: noOutputMsg}
	}
	return model.TestResult{Error: executeErrorPrefix + cause(err)}
}

// cause strips the sentinel prefix so users see the transport message only.
func cause(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, common.ErrNetwork.Error()+": ")
}

func preview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyPreview {
		s = s[:maxErrorBodyPreview]
	}
	if s == "" {
		return "empty response"
	}
	return s
}
