package scoring

import (
	"time"

	"crm_backend/internal/leads/domain"
)

// Temperature point brackets. Monetary thresholds are in cents.
const (
	valueTierHighCents = 10_000_000 // 100k
	valueTierMidCents  = 5_000_000  // 50k
	valueTierLowCents  = 1_000_000  // 10k

	recencyHotDays  = 7
	recencyWarmDays = 14

	hotThreshold  = 6
	warmThreshold = 3
)

// Temperature classifies a lead as hot, warm, or cold from its deal
// value, pipeline stage, and how recently it was touched. Evaluated at
// read time against the supplied clock; never stored.
func Temperature(valueCents int64, status domain.Status, updatedAt, now time.Time) domain.Temperature {
	points := valuePoints(valueCents) + statusPoints(status) + recencyPoints(updatedAt, now)

	switch {
	case points >= hotThreshold:
		return domain.TemperatureHot
	case points >= warmThreshold:
		return domain.TemperatureWarm
	default:
		return domain.TemperatureCold
	}
}

func valuePoints(valueCents int64) int {
	switch {
	case valueCents >= valueTierHighCents:
		return 3
	case valueCents >= valueTierMidCents:
		return 2
	case valueCents >= valueTierLowCents:
		return 1
	default:
		return 0
	}
}

func statusPoints(status domain.Status) int {
	switch status {
	case domain.StatusNegotiation:
		return 3
	case domain.StatusProposal:
		return 2
	case domain.StatusQualified:
		return 1
	default:
		return 0
	}
}

func recencyPoints(updatedAt, now time.Time) int {
	days := int(now.Sub(updatedAt).Hours() / 24)
	switch {
	case days <= recencyHotDays:
		return 2
	case days <= recencyWarmDays:
		return 1
	default:
		return 0
	}
}
