package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"freecode/internal/common"
	"freecode/internal/domain/model"
	"freecode/internal/domain/repository"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Executor is the judge as seen by the service; judge.Client satisfies it.
type Executor interface {
	Run(ctx context.Context, code string, lang model.Language, sampleInput string) model.TestResult
	Submit(ctx context.Context, code string, lang model.Language) []model.TestResult
}

type ExecutionJobService struct {
	executor Executor
	jobRepo  repository.ExecutionJobRepository
	problems *ProblemService
	now      func() time.Time
}

func NewExecutionJobService(executor Executor, jobRepo repository.ExecutionJobRepository, problems *ProblemService) *ExecutionJobService {
	return &ExecutionJobService{executor: executor, jobRepo: jobRepo, problems: problems, now: time.Now}
}

type ExecuteCodeRequest struct {
	ProblemSlug string         `json:"problem_slug"`
	Code        string         `json:"code"`
	Language    model.Language `json:"language"`
}

func (r ExecuteCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
		validation.Field(&r.Language, validation.Required, validation.In(model.LanguagePython, model.LanguageJava, model.LanguageC)),
	)
}

func (s *ExecutionJobService) resolve(ctx context.Context, req ExecuteCodeRequest) (*model.Problem, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if req.ProblemSlug == "" {
		p := model.DefaultProblem()
		return &p, nil
	}
	return s.problems.GetProblemDetails(ctx, req.ProblemSlug)
}

// RunCode judges the problem's sample input only.
func (s *ExecutionJobService) RunCode(ctx context.Context, userID string, req ExecuteCodeRequest) (*model.ExecutionJob, error) {
	problem, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	result := s.executor.Run(ctx, req.Code, req.Language, problem.SampleInput)
	return s.record(ctx, userID, model.JobTypeRun, problem.Slug, req.Language, []model.TestResult{result}), nil
}

// SubmitCode judges the full hidden suite.
func (s *ExecutionJobService) SubmitCode(ctx context.Context, userID string, req ExecuteCodeRequest) (*model.ExecutionJob, error) {
	problem, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	results := s.executor.Submit(ctx, req.Code, req.Language)
	return s.record(ctx, userID, model.JobTypeSubmit, problem.Slug, req.Language, results), nil
}

func (s *ExecutionJobService) ListHistory(ctx context.Context, userID string, limit int) ([]model.ExecutionJob, error) {
	jobs, err := s.jobRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list execution history: %w", err)
	}
	return jobs, nil
}

// record stores the job in the user's history. A storage failure is logged
// and does not hide the judge's answer from the caller.
func (s *ExecutionJobService) record(ctx context.Context, userID, jobType, problemSlug string, lang model.Language, results []model.TestResult) *model.ExecutionJob {
	job := &model.ExecutionJob{
		ID:          uuid.NewString(),
		UserID:      userID,
		JobType:     jobType,
		ProblemSlug: problemSlug,
		Language:    lang,
		Passed:      model.AllPassed(results),
		Results:     results,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.jobRepo.Append(ctx, job); err != nil {
		slog.Warn("Failed to record execution job", "job_id", job.ID, "user_id", userID, "err", err)
	}
	return job
}
