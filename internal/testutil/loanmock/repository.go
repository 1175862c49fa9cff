package loanmock

import (
	"context"

	domain "credit-scoring-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only set the hooks a test needs; unset lookups report not found.
type Repo struct {
	CreateFn                func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn           func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByUserEmailFn       func(ctx context.Context, email string) ([]domain.Loan, error)
	ListByStatusFn          func(ctx context.Context, status domain.Status) ([]domain.Loan, error)
	ListAllFn               func(ctx context.Context) ([]domain.Loan, error)
	AppendStatusChangeFn    func(ctx context.Context, loanID string, change domain.StatusChange) error
	SetCreditScoreFn        func(ctx context.Context, loanID string, score float64) error
	AggregateStatusCountsFn func(ctx context.Context) ([]domain.StatusCount, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByUserEmail(ctx context.Context, email string) ([]domain.Loan, error) {
	if m.ListByUserEmailFn != nil {
		return m.ListByUserEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, nil
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Loan, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}

func (m *Repo) AppendStatusChange(ctx context.Context, loanID string, change domain.StatusChange) error {
	if m.AppendStatusChangeFn != nil {
		return m.AppendStatusChangeFn(ctx, loanID, change)
	}
	return nil
}

func (m *Repo) SetCreditScore(ctx context.Context, loanID string, score float64) error {
	if m.SetCreditScoreFn != nil {
		return m.SetCreditScoreFn(ctx, loanID, score)
	}
	return nil
}

func (m *Repo) AggregateStatusCounts(ctx context.Context) ([]domain.StatusCount, error) {
	if m.AggregateStatusCountsFn != nil {
		return m.AggregateStatusCountsFn(ctx)
	}
	return nil, nil
}
