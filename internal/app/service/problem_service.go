package service

import (
	"context"

	"freecode/internal/common"
	"freecode/internal/domain/model"
)

// ProblemService serves the catalog compiled into the binary.
type ProblemService struct {
	bySlug  map[string]model.Problem
	ordered []model.Problem
}

func NewProblemService(problems []model.Problem) *ProblemService {
	s := &ProblemService{bySlug: make(map[string]model.Problem, len(problems))}
	for _, p := range problems {
		if _, dup := s.bySlug[p.Slug]; dup {
			continue
		}
		s.bySlug[p.Slug] = p
		s.ordered = append(s.ordered, p)
	}
	return s
}

func (s *ProblemService) ListProblems(ctx context.Context) []model.Problem {
	out := make([]model.Problem, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s *ProblemService) GetProblemDetails(ctx context.Context, problemSlug string) (*model.Problem, error) {
	p, ok := s.bySlug[problemSlug]
	if !ok {
		return nil, common.ErrProblemNotFound
	}
	return &p, nil
}
