package loan

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound     = errors.New("loan not found")
	ErrValidation   = errors.New("invalid loan input")
	ErrUpdateFailed = errors.New("loan update failed")
	ErrPersistence  = errors.New("loan storage error")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusInReview Status = "in_review"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus maps a raw string onto the status enum.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInReview, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// StatusChange is one entry of a loan's append-only status ledger.
// Entries are never edited or removed once written.
type StatusChange struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanRef   uint64    `gorm:"column:loan_ref;not null;index" json:"-"`
	Status    Status    `gorm:"column:status;size:16;not null" json:"status"`
	ChangedAt time.Time `gorm:"column:changed_at;not null" json:"changed_at"`
	ChangedBy string    `gorm:"column:changed_by;size:255;not null" json:"changed_by"`
	Notes     *string   `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (StatusChange) TableName() string { return "status_changes" }

// Loan is one credit application together with its score and status ledger.
//
// Invariants: StatusHistory is non-empty from creation (the first entry is
// inserted in the same transaction as the loan); Status always equals the
// most recent ledger entry; CreditScore is never reset to nil once set;
// LoanID is assigned by storage exactly once.
type Loan struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex), assigned on insert
	LoanID         string         `gorm:"column:loan_id;size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserEmail      string         `gorm:"column:user_email;size:255;not null;index:idx_loans_user_email;index:idx_loans_user_email_status,priority:1" json:"user_email"`
	Amount         float64        `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Purpose        string         `gorm:"column:purpose;type:text;not null" json:"purpose"`
	DurationMonths int            `gorm:"column:duration_months;not null" json:"duration_months"`
	Status         Status         `gorm:"column:status;size:16;not null;index:idx_loans_user_email_status,priority:2" json:"status"`
	CreditScore    *float64       `gorm:"column:credit_score;type:decimal(5,2)" json:"credit_score"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      *time.Time     `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`
	StatusHistory  []StatusChange `gorm:"foreignKey:LoanRef;references:ID" json:"status_history"`
}

func (Loan) TableName() string { return "loans" }
