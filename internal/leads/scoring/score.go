// Package scoring contains the derived-metric computations for leads:
// the quality score, the recalculation policy, and the temperature
// classification. All functions here are pure and deterministic so the
// lifecycle and analytics services can call them freely.
package scoring

import "crm_backend/internal/leads/domain"

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Additive point values for the quality score. These constants are part
// of the product contract: sales staff audit scores by hand, so the
// formula stays transparent and the numbers must not drift.
const (
	pointsCompany  = 10
	pointsJobTitle = 5
	pointsEmail    = 10
	pointsPhone    = 10

	interactionPoints = 5
	interactionCap    = 25

	// Purchase value contributes 1 point per 1000 in currency
	// (100_000 cents), capped at 30. Integer division truncates the
	// fractional remainder, matching the additive-integer design.
	purchaseValueDivisorCents = 100_000
	purchaseValueCap          = 30

	productPoints = 5
	productCap    = 20
)

// sourceBonus maps acquisition channels to their score contribution.
// Channels not listed (linkedin, trade_show, other) contribute nothing.
var sourceBonus = map[domain.Source]int{
	domain.SourceReferral:    20,
	domain.SourceWebsite:     15,
	domain.SourceEmail:       10,
	domain.SourceSocialMedia: 8,
	domain.SourcePhone:       5,
}

// Input is the snapshot of lead attributes the score is derived from.
// Monetary amounts are in cents.
type Input struct {
	Company            string
	JobTitle           string
	Email              string
	Phone              string
	Source             domain.Source
	InteractionCount   int
	PurchaseTotalCents int64
	PurchaseProducts   []string
}

// Score computes the lead quality score in [MinScore, MaxScore].
// It is a pure function of the input snapshot.
func Score(in Input) int {
	total := 0

	if in.Company != "" {
		total += pointsCompany
	}
	if in.JobTitle != "" {
		total += pointsJobTitle
	}
	if in.Email != "" {
		total += pointsEmail
	}
	if in.Phone != "" {
		total += pointsPhone
	}

	total += sourceBonus[in.Source]

	total += capped(in.InteractionCount*interactionPoints, interactionCap)

	if in.PurchaseTotalCents > 0 {
		total += capped(int(in.PurchaseTotalCents/purchaseValueDivisorCents), purchaseValueCap)
	}
	if n := len(in.PurchaseProducts); n > 0 {
		total += capped(n*productPoints, productCap)
	}

	return clamp(total, MinScore, MaxScore)
}

func capped(value, cap int) int {
	if value > cap {
		return cap
	}
	return value
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
