package mysql

import (
	"context"
	"errors"
	"fmt"

	loanDomain "credit-scoring-backend/internal/domain/loan"
	"credit-scoring-backend/pkg/id"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Create inserts the loan and its seeded status history in one transaction.
// The public loan id is assigned here, never by callers.
func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	l.LoanID = id.NewID32()
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
	}
	return nil
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", orderLedger).
		Where("loan_id = ?", loanID).
		First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
	}
	return &out, nil
}

func (r *LoanRepository) ListByUserEmail(ctx context.Context, email string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", orderLedger).
		Where("user_email = ?", email).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
	}
	return out, nil
}

func (r *LoanRepository) ListByStatus(ctx context.Context, status loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", orderLedger).
		Where("status = ?", status).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
	}
	return out, nil
}

func (r *LoanRepository) ListAll(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", orderLedger).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
	}
	return out, nil
}

// AppendStatusChange pushes a ledger entry and syncs the loan row inside one
// transaction. A guarded update with zero affected rows reports
// ErrUpdateFailed, which is how a lost race with a concurrent delete shows up.
func (r *LoanRepository) AppendStatusChange(ctx context.Context, loanID string, change loanDomain.StatusChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l loanDomain.Loan
		if err := tx.Where("loan_id = ?", loanID).First(&l).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
		}

		change.ID = 0
		change.LoanRef = l.ID
		if err := tx.Create(&change).Error; err != nil {
			return fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
		}

		res := tx.Model(&loanDomain.Loan{}).
			Where("id = ?", l.ID).
			Updates(map[string]any{
				"status":     change.Status,
				"updated_at": change.ChangedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", loanDomain.ErrPersistence, res.Error)
		}
		if res.RowsAffected == 0 {
			return loanDomain.ErrUpdateFailed
		}
		return nil
	})
}

// SetCreditScore overwrites the stored score. Missing loans are reported as
// not found; a matched-but-unmodified write as ErrUpdateFailed.
func (r *LoanRepository) SetCreditScore(ctx context.Context, loanID string, score float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l loanDomain.Loan
		if err := tx.Where("loan_id = ?", loanID).First(&l).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
		}

		res := tx.Model(&loanDomain.Loan{}).
			Where("id = ?", l.ID).
			Updates(map[string]any{
				"credit_score": score,
				"updated_at":   gorm.Expr("CURRENT_TIMESTAMP"),
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", loanDomain.ErrPersistence, res.Error)
		}
		if res.RowsAffected == 0 {
			return loanDomain.ErrUpdateFailed
		}
		return nil
	})
}

func (r *LoanRepository) AggregateStatusCounts(ctx context.Context) ([]loanDomain.StatusCount, error) {
	var rows []loanDomain.StatusCount
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", loanDomain.ErrPersistence, err)
	}
	return rows, nil
}

// orderLedger keeps the status history in append order.
func orderLedger(db *gorm.DB) *gorm.DB {
	return db.Order("status_changes.id ASC")
}
