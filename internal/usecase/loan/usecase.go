package loan

import (
	"context"
	"fmt"
	"time"

	domain "credit-scoring-backend/internal/domain/loan"
	"credit-scoring-backend/internal/scoring"

	"github.com/sirupsen/logrus"
)

// Usecase owns the loan lifecycle: creation with automatic scoring, status
// transitions with a mandatory ledger entry, and admin re-scoring.
type Usecase struct {
	repo   domain.Repository
	policy domain.TransitionPolicy
	log    *logrus.Logger
}

func NewUsecase(r domain.Repository, policy domain.TransitionPolicy, log *logrus.Logger) *Usecase {
	if policy == nil {
		policy = domain.AllowAny
	}
	if log == nil {
		log = logrus.New()
	}
	return &Usecase{repo: r, policy: policy, log: log}
}

// Create scores the application against the owner's full loan history and
// persists it with its first ledger entry. Scores below the review threshold
// reject the loan immediately; everything else starts out pending.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.UserEmail == "" {
		return nil, fmt.Errorf("%w: missing user email", domain.ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if in.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrValidation)
	}

	history, err := u.repo.ListByUserEmail(ctx, in.UserEmail)
	if err != nil {
		return nil, err
	}

	score := scoring.CreditScore(in.Amount, in.DurationMonths, in.Purpose, history)

	status := domain.StatusPending
	note := fmt.Sprintf("Loan application submitted (credit score %.2f)", score)
	if score < scoring.Threshold {
		status = domain.StatusRejected
		note = fmt.Sprintf("Automatically rejected: credit score %.2f is below %.1f", score, scoring.Threshold)
	}

	now := time.Now().UTC()
	l := &domain.Loan{
		UserEmail:      in.UserEmail,
		Amount:         in.Amount,
		Purpose:        in.Purpose,
		DurationMonths: in.DurationMonths,
		Status:         status,
		CreditScore:    &score,
		CreatedAt:      now,
		StatusHistory: []domain.StatusChange{{
			Status:    status,
			ChangedAt: now,
			ChangedBy: in.UserEmail,
			Notes:     &note,
		}},
	}

	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id": l.LoanID,
		"email":   l.UserEmail,
		"score":   score,
		"status":  status,
	}).Info("loan application created")
	return toDTO(l), nil
}

// Get fetches one loan. Non-admin requesters only see their own loans;
// foreign loans surface as not found, never as forbidden.
func (u *Usecase) Get(ctx context.Context, loanID, requesterEmail string, isAdmin bool) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && l.UserEmail != requesterEmail {
		return nil, domain.ErrNotFound
	}
	return toDTO(l), nil
}

func (u *Usecase) ListByOwner(ctx context.Context, email string) ([]LoanDTO, error) {
	loans, err := u.repo.ListByUserEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toDTOs(loans), nil
}

// ListAll returns every loan, optionally filtered by status. Admin-only;
// the caller enforces the role before invoking.
func (u *Usecase) ListAll(ctx context.Context, statusFilter *domain.Status) ([]LoanDTO, error) {
	var (
		loans []domain.Loan
		err   error
	)
	if statusFilter != nil {
		loans, err = u.repo.ListByStatus(ctx, *statusFilter)
	} else {
		loans, err = u.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return toDTOs(loans), nil
}

// TransitionStatus appends a ledger entry and moves the loan to newStatus.
// The transition policy is consulted first; the default permits any edge.
func (u *Usecase) TransitionStatus(ctx context.Context, loanID string, newStatus domain.Status, actorEmail string, note *string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := u.policy(l.Status, newStatus); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	change := domain.StatusChange{
		Status:    newStatus,
		ChangedAt: time.Now().UTC(),
		ChangedBy: actorEmail,
		Notes:     note,
	}
	if err := u.repo.AppendStatusChange(ctx, loanID, change); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id": loanID,
		"status":  newStatus,
		"actor":   actorEmail,
	}).Info("loan status changed")

	updated, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(updated), nil
}

// ComputeAndStoreScore recomputes the credit score from every other loan of
// the same owner and overwrites the stored value unconditionally.
func (u *Usecase) ComputeAndStoreScore(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	previous, err := u.previousLoans(ctx, l)
	if err != nil {
		return nil, err
	}

	score := scoring.CreditScore(l.Amount, l.DurationMonths, l.Purpose, previous)
	if err := u.repo.SetCreditScore(ctx, loanID, score); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"loan_id": loanID, "score": score}).Info("credit score recomputed")

	updated, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(updated), nil
}

// ScoreBreakdown exposes the per-sub-score view for one loan.
func (u *Usecase) ScoreBreakdown(ctx context.Context, loanID string) (*scoring.Breakdown, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	previous, err := u.previousLoans(ctx, l)
	if err != nil {
		return nil, err
	}
	b := scoring.ComputeBreakdown(l.Amount, l.DurationMonths, l.Purpose, previous)
	return &b, nil
}

// StatusHistory returns the loan's full ledger, with the same ownership
// filtering as Get.
func (u *Usecase) StatusHistory(ctx context.Context, loanID, requesterEmail string, isAdmin bool) ([]StatusChangeDTO, error) {
	dto, err := u.Get(ctx, loanID, requesterEmail, isAdmin)
	if err != nil {
		return nil, err
	}
	return dto.StatusHistory, nil
}

// Stats aggregates loan counts and amounts per status.
func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	rows, err := u.repo.AggregateStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := &StatsDTO{LoanStats: rows}
	for _, r := range rows {
		out.TotalLoans += r.Count
		out.TotalAmount += r.TotalAmount
	}
	return out, nil
}

// previousLoans resolves the owner's other loans, excluding l itself so a
// loan never contributes to its own history score.
func (u *Usecase) previousLoans(ctx context.Context, l *domain.Loan) ([]domain.Loan, error) {
	all, err := u.repo.ListByUserEmail(ctx, l.UserEmail)
	if err != nil {
		return nil, err
	}
	previous := make([]domain.Loan, 0, len(all))
	for _, other := range all {
		if other.LoanID != l.LoanID {
			previous = append(previous, other)
		}
	}
	return previous, nil
}
