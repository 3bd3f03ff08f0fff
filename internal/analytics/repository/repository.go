// Package repository provides the read-only lead aggregation queries
// behind the analytics endpoints.
package repository

import (
	"context"
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PeriodTotals aggregates leads created inside [start, end).
type PeriodTotals struct {
	TotalLeads      int
	TotalSalesCents int64
	ClosedWonCount  int
}

func (r *Repository) PeriodTotals(ctx context.Context, start, end time.Time) (PeriodTotals, error) {
	var totals PeriodTotals
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(value_cents), 0),
			COUNT(*) FILTER (WHERE status = 'closed_won')
		FROM leads
		WHERE created_at >= $1 AND created_at < $2
	`, start, end).Scan(&totals.TotalLeads, &totals.TotalSalesCents, &totals.ClosedWonCount)
	return totals, err
}

// ActiveLeadCount counts open-pipeline leads touched inside [start, end).
func (r *Repository) ActiveLeadCount(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM leads
		WHERE status = ANY($1)
		  AND updated_at >= $2 AND updated_at < $3
	`, statusStrings(domain.ActiveStatuses), start, end).Scan(&count)
	return count, err
}

// TopLead is a ranked pipeline lead.
type TopLead struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Company    *string
	Status     string
	ValueCents int64
	LeadScore  int
	UpdatedAt  time.Time
}

// TopActiveLeads returns the highest-value open-pipeline leads.
func (r *Repository) TopActiveLeads(ctx context.Context, limit int) ([]TopLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, company, status, value_cents, lead_score, updated_at
		FROM leads
		WHERE status = ANY($1)
		ORDER BY value_cents DESC
		LIMIT $2
	`, statusStrings(domain.ActiveStatuses), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TopLead, 0, limit)
	for rows.Next() {
		var lead TopLead
		if err := rows.Scan(
			&lead.ID, &lead.FirstName, &lead.LastName, &lead.Company,
			&lead.Status, &lead.ValueCents, &lead.LeadScore, &lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, lead)
	}

	return items, rows.Err()
}

// StatusBreakdown is the current population of one pipeline stage.
type StatusBreakdown struct {
	Status     string
	Count      int
	ValueCents int64
}

// StatusBreakdowns groups all leads by their current status.
func (r *Repository) StatusBreakdowns(ctx context.Context) ([]StatusBreakdown, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(value_cents), 0)
		FROM leads
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]StatusBreakdown, 0, len(domain.PipelineOrder))
	for rows.Next() {
		var breakdown StatusBreakdown
		if err := rows.Scan(&breakdown.Status, &breakdown.Count, &breakdown.ValueCents); err != nil {
			return nil, err
		}
		items = append(items, breakdown)
	}

	return items, rows.Err()
}

func statusStrings(statuses []domain.Status) []string {
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}
	return values
}
