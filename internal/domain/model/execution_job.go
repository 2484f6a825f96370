package model

import "time"

const (
	JobTypeRun    = "run"
	JobTypeSubmit = "submit"
)

// ExecutionJob records one run or submit forwarded to the judge on behalf of
// a user, together with what came back.
type ExecutionJob struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	JobType     string       `json:"job_type"`
	ProblemSlug string       `json:"problem_slug"`
	Language    Language     `json:"language"`
	Passed      bool         `json:"passed"`
	Results     []TestResult `json:"results"`
	CreatedAt   time.Time    `json:"created_at"`
}
