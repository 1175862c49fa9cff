package loan

import "context"

// StatusCount is one row of the per-status aggregate.
type StatusCount struct {
	Status      Status  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

type Repository interface {
	// Create persists a new loan together with its seeded status history in
	// one transaction and assigns the public LoanID.
	Create(ctx context.Context, l *Loan) error

	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	ListByUserEmail(ctx context.Context, email string) ([]Loan, error)
	ListByStatus(ctx context.Context, status Status) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)

	// AppendStatusChange atomically appends a ledger entry and sets the
	// loan's status and updated_at. Returns ErrUpdateFailed when the write
	// matched no row (lost race with a concurrent delete).
	AppendStatusChange(ctx context.Context, loanID string, change StatusChange) error

	// SetCreditScore overwrites the stored score with the same
	// zero-rows-modified guard as AppendStatusChange.
	SetCreditScore(ctx context.Context, loanID string, score float64) error

	AggregateStatusCounts(ctx context.Context) ([]StatusCount, error)
}
