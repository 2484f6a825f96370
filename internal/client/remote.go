package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"freecode/internal/common"
	"freecode/internal/domain/model"
	"freecode/internal/judge"
)

// RemoteExecutor sends run and submit through the API server's proxy so the
// results land in the user's history. It satisfies editor.Executor.
type RemoteExecutor struct {
	baseURL     string
	problemSlug string
	identity    *Identity
	httpClient  *http.Client
}

func NewRemoteExecutor(baseURL, problemSlug string, identity *Identity, hc *http.Client) *RemoteExecutor {
	if hc == nil {
		hc = &http.Client{}
	}
	return &RemoteExecutor{
		baseURL:     strings.TrimRight(baseURL, "/"),
		problemSlug: problemSlug,
		identity:    identity,
		httpClient:  hc,
	}
}

type remoteRequest struct {
	ProblemSlug string         `json:"problem_slug"`
	Code        string         `json:"code"`
	Language    model.Language `json:"language"`
}

func (r *RemoteExecutor) call(ctx context.Context, path, code string, lang model.Language) ([]model.TestResult, error) {
	user, ok := r.identity.Current()
	if !ok {
		return nil, fmt.Errorf("%w: not logged in", common.ErrNetwork)
	}
	payload, err := json.Marshal(remoteRequest{ProblemSlug: r.problemSlug, Code: code, Language: lang})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", user.Token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d %s", common.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var job model.ExecutionJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", common.ErrNetwork, err)
	}
	if len(job.Results) == 0 {
		return nil, common.ErrNoOutput
	}
	return job.Results, nil
}

func (r *RemoteExecutor) Run(ctx context.Context, code string, lang model.Language, sampleInput string) model.TestResult {
	results, err := r.call(ctx, "/api/execute/run", code, lang)
	if err != nil {
		return judge.ErrorResult(err, judge.MsgNoRunOutput)
	}
	return results[0]
}

func (r *RemoteExecutor) Submit(ctx context.Context, code string, lang model.Language) []model.TestResult {
	results, err := r.call(ctx, "/api/execute/submit", code, lang)
	if err != nil {
		return []model.TestResult{judge.ErrorResult(err, judge.MsgNoSubmitResults)}
	}
	return results
}
