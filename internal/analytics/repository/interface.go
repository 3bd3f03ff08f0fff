package repository

import (
	"context"
	"time"
)

// Store is the aggregation surface used by the analytics service.
type Store interface {
	PeriodTotals(ctx context.Context, start, end time.Time) (PeriodTotals, error)
	ActiveLeadCount(ctx context.Context, start, end time.Time) (int, error)
	TopActiveLeads(ctx context.Context, limit int) ([]TopLead, error)
	StatusBreakdowns(ctx context.Context) ([]StatusBreakdown, error)
}

var _ Store = (*Repository)(nil)
