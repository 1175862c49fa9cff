// Package scoring computes deterministic credit scores for loan
// applications. Every function here is total: out-of-range or unrecognized
// inputs fall into an explicit default band instead of failing.
package scoring

import (
	"math"
	"strings"

	"credit-scoring-backend/internal/domain/loan"
)

// Threshold is the minimum credit score for a loan to enter admin review.
const Threshold = 60.0

// maxRawScore is the largest possible sum of the four sub-scores.
const maxRawScore = 130.0

// AmountScore scores the requested amount; smaller amounts carry less risk.
func AmountScore(amount float64) float64 {
	switch {
	case amount <= 5000:
		return 40
	case amount <= 10000:
		return 30
	case amount <= 20000:
		return 20
	default:
		return 10
	}
}

// DurationScore scores the requested term; shorter terms carry less risk.
func DurationScore(durationMonths int) float64 {
	switch {
	case durationMonths <= 6:
		return 30
	case durationMonths <= 12:
		return 25
	case durationMonths <= 24:
		return 20
	default:
		return 15
	}
}

// PurposeScore scores the declared purpose against a fixed category table.
// Matching is case-insensitive; anything outside the table scores 10.
func PurposeScore(purpose string) float64 {
	switch strings.ToLower(purpose) {
	case "education":
		return 30
	case "home renovation":
		return 25
	case "business":
		return 20
	case "debt consolidation":
		return 15
	default:
		return 10
	}
}

// HistoryScore scores the borrower's prior loans. The caller must exclude
// the loan currently being scored from previous.
func HistoryScore(previous []loan.Loan) float64 {
	if len(previous) == 0 {
		return 20 // new borrower
	}
	approved := 0
	for _, l := range previous {
		if l.Status == loan.StatusApproved {
			approved++
		}
	}
	switch {
	case approved >= 2:
		return 30
	case approved == 1:
		return 25
	default:
		return 15
	}
}

// CreditScore sums the four sub-scores and normalizes to a 0-100 scale with
// banker's rounding to two decimals.
func CreditScore(amount float64, durationMonths int, purpose string, previous []loan.Loan) float64 {
	raw := AmountScore(amount) + DurationScore(durationMonths) + PurposeScore(purpose) + HistoryScore(previous)
	return round2(raw / maxRawScore * 100)
}

// Breakdown is the per-sub-score view of one credit score.
type Breakdown struct {
	AmountScore       float64 `json:"amount_score"`
	DurationScore     float64 `json:"duration_score"`
	PurposeScore      float64 `json:"purpose_score"`
	HistoryScore      float64 `json:"history_score"`
	TotalScore        float64 `json:"total_score"`
	PreviousLoanCount int     `json:"previous_loans_count"`
}

// ComputeBreakdown returns all sub-scores plus the normalized total.
func ComputeBreakdown(amount float64, durationMonths int, purpose string, previous []loan.Loan) Breakdown {
	return Breakdown{
		AmountScore:       AmountScore(amount),
		DurationScore:     DurationScore(durationMonths),
		PurposeScore:      PurposeScore(purpose),
		HistoryScore:      HistoryScore(previous),
		TotalScore:        CreditScore(amount, durationMonths, purpose, previous),
		PreviousLoanCount: len(previous),
	}
}

// EvaluateEligibility maps a score onto in_review/rejected at the review
// threshold. Loan creation applies its own pending/rejected rule and does
// not call this; it is kept as the alternate decision path of the original
// product, unconsolidated on purpose.
func EvaluateEligibility(creditScore float64) loan.Status {
	if creditScore < Threshold {
		return loan.StatusRejected
	}
	return loan.StatusInReview
}

// round2 rounds half to even, matching the reference scoring tables.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
