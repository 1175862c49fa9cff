package loan

import (
	"time"

	domain "credit-scoring-backend/internal/domain/loan"
)

type CreateLoanInput struct {
	UserEmail      string  `json:"user_email"`
	Amount         float64 `json:"amount"`
	Purpose        string  `json:"purpose"`
	DurationMonths int     `json:"duration_months"`
}

type StatusChangeDTO struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy string    `json:"changed_by"`
	Notes     *string   `json:"notes,omitempty"`
}

type LoanDTO struct {
	LoanID         string            `json:"loan_id"`
	UserEmail      string            `json:"user_email"`
	Amount         float64           `json:"amount"`
	Purpose        string            `json:"purpose"`
	DurationMonths int               `json:"duration_months"`
	Status         string            `json:"status"`
	CreditScore    *float64          `json:"credit_score"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      *time.Time        `json:"updated_at,omitempty"`
	StatusHistory  []StatusChangeDTO `json:"status_history"`
}

type StatsDTO struct {
	LoanStats   []domain.StatusCount `json:"loan_stats"`
	TotalLoans  int64                `json:"total_loans"`
	TotalAmount float64              `json:"total_amount"`
}

func toStatusChangeDTO(c domain.StatusChange) StatusChangeDTO {
	return StatusChangeDTO{
		Status:    string(c.Status),
		ChangedAt: c.ChangedAt,
		ChangedBy: c.ChangedBy,
		Notes:     c.Notes,
	}
}

func toDTO(l *domain.Loan) *LoanDTO {
	history := make([]StatusChangeDTO, 0, len(l.StatusHistory))
	for _, c := range l.StatusHistory {
		history = append(history, toStatusChangeDTO(c))
	}
	return &LoanDTO{
		LoanID:         l.LoanID,
		UserEmail:      l.UserEmail,
		Amount:         l.Amount,
		Purpose:        l.Purpose,
		DurationMonths: l.DurationMonths,
		Status:         string(l.Status),
		CreditScore:    l.CreditScore,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
		StatusHistory:  history,
	}
}

func toDTOs(loans []domain.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i]))
	}
	return out
}
