package service

import (
	"context"
	"time"

	"github.com/Nexlified/Recaller-sub002/internal/model"
	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
	"github.com/Nexlified/Recaller-sub002/internal/repository"
)

// Candidate is one recurring parent as the scheduler sees it: the parent id
// and its parsed rule. RuleErr carries a malformed pattern through to the
// tick loop, which logs and counts it instead of dropping it silently.
type Candidate struct {
	ParentID uint
	Rule     recurrence.Rule
	RuleErr  error
}

// Source is one domain's recurrence engine: it enumerates active recurring
// parents and materializes instances. Tasks and transactions share the
// whole generation pipeline through this interface; only the row copied at
// the end differs.
type Source interface {
	Name() string
	ActiveRecurrences(ctx context.Context) ([]Candidate, error)
	CountGenerated(ctx context.Context, parentID uint) (int64, error)
	// Generate must be idempotent per (parentID, due) and atomic with the
	// spec bookkeeping update.
	Generate(ctx context.Context, parentID uint, due time.Time) error
}

func candidateFromSpec(parentID uint, spec *model.RecurrenceSpec) Candidate {
	c := Candidate{ParentID: parentID}
	if spec == nil {
		return c
	}
	c.Rule, c.RuleErr = spec.Rule()
	return c
}

// TaskSource feeds recurring tasks into the scheduler.
type TaskSource struct {
	repo *repository.TaskRepository
}

func NewTaskSource(repo *repository.TaskRepository) *TaskSource {
	return &TaskSource{repo: repo}
}

func (s *TaskSource) Name() string { return "tasks" }

func (s *TaskSource) ActiveRecurrences(ctx context.Context) ([]Candidate, error) {
	templates, err := s.repo.ListRecurringTemplates(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(templates))
	for _, t := range templates {
		if t.Recurrence == nil {
			continue
		}
		candidates = append(candidates, candidateFromSpec(t.ID, t.Recurrence))
	}
	return candidates, nil
}

func (s *TaskSource) CountGenerated(ctx context.Context, parentID uint) (int64, error) {
	return s.repo.CountInstances(ctx, parentID)
}

func (s *TaskSource) Generate(ctx context.Context, parentID uint, due time.Time) error {
	return s.repo.GenerateInstance(ctx, parentID, due)
}

// TransactionSource feeds recurring-transaction templates into the
// scheduler.
type TransactionSource struct {
	repo *repository.TransactionRepository
}

func NewTransactionSource(repo *repository.TransactionRepository) *TransactionSource {
	return &TransactionSource{repo: repo}
}

func (s *TransactionSource) Name() string { return "transactions" }

func (s *TransactionSource) ActiveRecurrences(ctx context.Context) ([]Candidate, error) {
	templates, err := s.repo.ListActiveTemplates(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(templates))
	for _, t := range templates {
		if t.Recurrence == nil {
			continue
		}
		candidates = append(candidates, candidateFromSpec(t.ID, t.Recurrence))
	}
	return candidates, nil
}

func (s *TransactionSource) CountGenerated(ctx context.Context, parentID uint) (int64, error) {
	return s.repo.CountInstances(ctx, parentID)
}

func (s *TransactionSource) Generate(ctx context.Context, parentID uint, due time.Time) error {
	return s.repo.GenerateInstance(ctx, parentID, due)
}
