// Package service computes the dashboard aggregates: period-over-period
// performance metrics and per-stage pipeline statistics.
package service

import (
	"context"
	"time"

	"crm_backend/internal/analytics/repository"
	"crm_backend/internal/analytics/transport"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/scoring"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const topLeadsLimit = 3

type Service struct {
	store repository.Store
	log   *logger.Logger
	now   func() time.Time
}

func New(store repository.Store, log *logger.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// periodAggregates bundles the per-window numbers the metrics derive from.
type periodAggregates struct {
	totals      repository.PeriodTotals
	activeLeads int
}

func (s *Service) fetchAggregates(ctx context.Context, start, end time.Time) (periodAggregates, error) {
	var agg periodAggregates

	totals, err := s.store.PeriodTotals(ctx, start, end)
	if err != nil {
		return agg, err
	}
	active, err := s.store.ActiveLeadCount(ctx, start, end)
	if err != nil {
		return agg, err
	}

	agg.totals = totals
	agg.activeLeads = active
	return agg, nil
}

// Performance computes the metrics for the requested period alongside
// their deltas against the immediately preceding window of equal length.
// Current and previous windows are aggregated concurrently.
func (s *Service) Performance(ctx context.Context, periodToken string) (transport.PerformanceResponse, error) {
	const op = "analytics.Performance"

	now := s.now()
	period, start, end := PeriodRange(periodToken, now)
	prevStart, prevEnd := PreviousRange(start, end)

	var (
		current  periodAggregates
		previous periodAggregates
		topLeads []repository.TopLead
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		current, err = s.fetchAggregates(groupCtx, start, end)
		return err
	})
	group.Go(func() error {
		var err error
		previous, err = s.fetchAggregates(groupCtx, prevStart, prevEnd)
		return err
	})
	group.Go(func() error {
		var err error
		topLeads, err = s.store.TopActiveLeads(groupCtx, topLeadsLimit)
		return err
	})
	if err := group.Wait(); err != nil {
		return transport.PerformanceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to aggregate performance metrics", err).WithOp(op)
	}

	currentConversion := conversionRate(current.totals)
	previousConversion := conversionRate(previous.totals)
	currentAvgDeal := avgDealSizeCents(current.totals)
	previousAvgDeal := avgDealSizeCents(previous.totals)

	resp := transport.PerformanceResponse{
		Period:    period,
		StartDate: start,
		EndDate:   end,
		TotalSales: transport.MoneyMetric{
			CurrentCents:  current.totals.TotalSalesCents,
			PreviousCents: previous.totals.TotalSalesCents,
			ChangePercent: percentChange(float64(current.totals.TotalSalesCents), float64(previous.totals.TotalSalesCents)),
		},
		ActiveLeads: transport.CountMetric{
			Current:       current.activeLeads,
			Previous:      previous.activeLeads,
			ChangePercent: percentChange(float64(current.activeLeads), float64(previous.activeLeads)),
		},
		Conversion: transport.RateMetric{
			Current:       currentConversion,
			Previous:      previousConversion,
			ChangePercent: percentChange(currentConversion, previousConversion),
		},
		AvgDealSize: transport.MoneyMetric{
			CurrentCents:  currentAvgDeal,
			PreviousCents: previousAvgDeal,
			ChangePercent: percentChange(float64(currentAvgDeal), float64(previousAvgDeal)),
		},
		TopLeads: make([]transport.TopLeadResponse, 0, len(topLeads)),
	}

	for _, lead := range topLeads {
		resp.TopLeads = append(resp.TopLeads, transport.TopLeadResponse{
			ID:          lead.ID,
			FirstName:   lead.FirstName,
			LastName:    lead.LastName,
			Company:     lead.Company,
			Status:      domain.Status(lead.Status),
			ValueCents:  lead.ValueCents,
			LeadScore:   lead.LeadScore,
			Temperature: scoring.Temperature(lead.ValueCents, domain.Status(lead.Status), lead.UpdatedAt, now),
		})
	}

	return resp, nil
}

// Pipeline reports, for every stage, the current population and a
// conversion rate. A stage's conversion rate is the share of leads that
// progressed strictly past it among the leads at or past it: closed_won
// counts as past every open stage, while closed_lost progresses past
// nothing and is excluded from open-stage denominators.
func (s *Service) Pipeline(ctx context.Context) (transport.PipelineResponse, error) {
	const op = "analytics.Pipeline"

	breakdowns, err := s.store.StatusBreakdowns(ctx)
	if err != nil {
		return transport.PipelineResponse{}, apperr.Wrap(apperr.KindInternal, "failed to aggregate pipeline stages", err).WithOp(op)
	}

	counts := make(map[domain.Status]int, len(breakdowns))
	values := make(map[domain.Status]int64, len(breakdowns))
	for _, breakdown := range breakdowns {
		status := domain.Status(breakdown.Status)
		counts[status] = breakdown.Count
		values[status] = breakdown.ValueCents
	}

	openStages := []domain.Status{
		domain.StatusNew, domain.StatusContacted, domain.StatusQualified,
		domain.StatusProposal, domain.StatusNegotiation,
	}

	stages := make([]transport.StageResponse, 0, len(domain.PipelineOrder))
	for _, status := range domain.PipelineOrder {
		stage := transport.StageResponse{
			Status:     status,
			Count:      counts[status],
			ValueCents: values[status],
		}

		if idx := openStageIndex(openStages, status); idx >= 0 {
			progressed := counts[domain.StatusClosedWon]
			for _, later := range openStages[idx+1:] {
				progressed += counts[later]
			}
			atOrPast := counts[status] + progressed
			if atOrPast > 0 {
				stage.ConversionRate = float64(progressed) / float64(atOrPast) * 100
			}
		}

		stages = append(stages, stage)
	}

	return transport.PipelineResponse{Stages: stages}, nil
}

func openStageIndex(openStages []domain.Status, status domain.Status) int {
	for i, s := range openStages {
		if s == status {
			return i
		}
	}
	return -1
}

// conversionRate is closed-won leads as a percentage of all leads
// created in the period.
func conversionRate(totals repository.PeriodTotals) float64 {
	if totals.TotalLeads == 0 {
		return 0
	}
	return float64(totals.ClosedWonCount) / float64(totals.TotalLeads) * 100
}

// avgDealSizeCents is period sales divided by closed-won count, 0 when
// nothing closed.
func avgDealSizeCents(totals repository.PeriodTotals) int64 {
	if totals.ClosedWonCount == 0 {
		return 0
	}
	return totals.TotalSalesCents / int64(totals.ClosedWonCount)
}

// percentChange is (current-previous)/previous*100, defined as 0 when
// the previous value is 0.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
