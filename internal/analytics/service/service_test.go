package service

import (
	"context"
	"testing"
	"time"

	"crm_backend/internal/analytics/repository"
	"crm_backend/internal/leads/domain"
	"crm_backend/platform/logger"
)

type fakeStore struct {
	totals     map[time.Time]repository.PeriodTotals
	active     map[time.Time]int
	topLeads   []repository.TopLead
	breakdowns []repository.StatusBreakdown
}

func (f *fakeStore) PeriodTotals(_ context.Context, start, _ time.Time) (repository.PeriodTotals, error) {
	return f.totals[start], nil
}

func (f *fakeStore) ActiveLeadCount(_ context.Context, start, _ time.Time) (int, error) {
	return f.active[start], nil
}

func (f *fakeStore) TopActiveLeads(_ context.Context, _ int) ([]repository.TopLead, error) {
	return f.topLeads, nil
}

func (f *fakeStore) StatusBreakdowns(_ context.Context) ([]repository.StatusBreakdown, error) {
	return f.breakdowns, nil
}

func newTestService(store *fakeStore, now time.Time) *Service {
	svc := New(store, logger.New("test"))
	svc.now = func() time.Time { return now }
	return svc
}

func TestPeriodRange(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, time.August, 13, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		token      string
		wantPeriod string
		wantStart  time.Time
		wantEnd    time.Time
	}{
		{
			token:      "this_week",
			wantPeriod: "this_week",
			wantStart:  time.Date(2025, time.August, 11, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, time.August, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			token:      "this_month",
			wantPeriod: "this_month",
			wantStart:  time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			token:      "this_quarter",
			wantPeriod: "this_quarter",
			wantStart:  time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			token:      "this_year",
			wantPeriod: "this_year",
			wantStart:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			token:      "last_decade",
			wantPeriod: "this_month",
			wantStart:  time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			token:      "",
			wantPeriod: "this_month",
			wantStart:  time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			period, start, end := PeriodRange(tt.token, now)
			if period != tt.wantPeriod {
				t.Errorf("period = %q, want %q", period, tt.wantPeriod)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestPeriodRangeSundayBelongsToCurrentWeek(t *testing.T) {
	sunday := time.Date(2025, time.August, 17, 9, 0, 0, 0, time.UTC)
	_, start, _ := PeriodRange("this_week", sunday)
	want := time.Date(2025, time.August, 11, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestPreviousRangeIsEqualLength(t *testing.T) {
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	prevStart, prevEnd := PreviousRange(start, end)
	if !prevEnd.Equal(start) {
		t.Errorf("prevEnd = %v, want %v", prevEnd, start)
	}
	if prevEnd.Sub(prevStart) != end.Sub(start) {
		t.Errorf("previous window length %v, want %v", prevEnd.Sub(prevStart), end.Sub(start))
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"zero previous", 100, 0, 0},
		{"both zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentChange(tt.current, tt.previous); got != tt.want {
				t.Errorf("percentChange(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestPerformanceMetrics(t *testing.T) {
	now := time.Date(2025, time.August, 13, 12, 0, 0, 0, time.UTC)
	currentStart := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	// Equal-length window ending at currentStart (31 days).
	previousStart := currentStart.AddDate(0, 0, -31)

	store := &fakeStore{
		totals: map[time.Time]repository.PeriodTotals{
			currentStart:  {TotalLeads: 20, TotalSalesCents: 4_000_000, ClosedWonCount: 4},
			previousStart: {TotalLeads: 10, TotalSalesCents: 1_000_000, ClosedWonCount: 2},
		},
		active: map[time.Time]int{
			currentStart:  6,
			previousStart: 3,
		},
		topLeads: []repository.TopLead{
			{FirstName: "Big", LastName: "Deal", Status: "negotiation", ValueCents: 15_000_000, UpdatedAt: now},
		},
	}

	resp, err := newTestService(store, now).Performance(context.Background(), "this_month")
	if err != nil {
		t.Fatalf("Performance: %v", err)
	}

	if resp.Period != "this_month" {
		t.Errorf("Period = %q, want this_month", resp.Period)
	}
	if resp.TotalSales.CurrentCents != 4_000_000 || resp.TotalSales.ChangePercent != 300 {
		t.Errorf("TotalSales = %+v, want current 4000000 change 300", resp.TotalSales)
	}
	if resp.ActiveLeads.Current != 6 || resp.ActiveLeads.ChangePercent != 100 {
		t.Errorf("ActiveLeads = %+v, want current 6 change 100", resp.ActiveLeads)
	}
	// 4/20 = 20%, 2/10 = 20%: no change.
	if resp.Conversion.Current != 20 || resp.Conversion.ChangePercent != 0 {
		t.Errorf("Conversion = %+v, want current 20 change 0", resp.Conversion)
	}
	// 4000000/4 = 1000000; 1000000/2 = 500000.
	if resp.AvgDealSize.CurrentCents != 1_000_000 || resp.AvgDealSize.ChangePercent != 100 {
		t.Errorf("AvgDealSize = %+v, want current 1000000 change 100", resp.AvgDealSize)
	}

	if len(resp.TopLeads) != 1 {
		t.Fatalf("TopLeads length = %d, want 1", len(resp.TopLeads))
	}
	// $150k in negotiation updated today: 3 + 3 + 2 points.
	if resp.TopLeads[0].Temperature != domain.TemperatureHot {
		t.Errorf("top lead temperature = %q, want hot", resp.TopLeads[0].Temperature)
	}
}

func TestPerformanceEmptyStore(t *testing.T) {
	now := time.Date(2025, time.August, 13, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		totals: map[time.Time]repository.PeriodTotals{},
		active: map[time.Time]int{},
	}

	resp, err := newTestService(store, now).Performance(context.Background(), "this_month")
	if err != nil {
		t.Fatalf("Performance: %v", err)
	}

	if resp.AvgDealSize.CurrentCents != 0 {
		t.Errorf("AvgDealSize = %d, want 0 with no closed-won leads", resp.AvgDealSize.CurrentCents)
	}
	if resp.Conversion.Current != 0 {
		t.Errorf("Conversion = %v, want 0 with no leads", resp.Conversion.Current)
	}
	if resp.TotalSales.ChangePercent != 0 {
		t.Errorf("ChangePercent = %v, want 0 when previous period is empty", resp.TotalSales.ChangePercent)
	}
}

func TestPipelineStageConversion(t *testing.T) {
	now := time.Date(2025, time.August, 13, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		breakdowns: []repository.StatusBreakdown{
			{Status: "new", Count: 4, ValueCents: 100},
			{Status: "qualified", Count: 3, ValueCents: 200},
			{Status: "negotiation", Count: 1, ValueCents: 300},
			{Status: "closed_won", Count: 2, ValueCents: 400},
			{Status: "closed_lost", Count: 5, ValueCents: 0},
		},
	}

	resp, err := newTestService(store, now).Pipeline(context.Background())
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}

	byStatus := make(map[domain.Status]int, len(resp.Stages))
	for i, stage := range resp.Stages {
		byStatus[stage.Status] = i
	}

	// new: past = qualified 3 + negotiation 1 + won 2 = 6; at-or-past = 10.
	newStage := resp.Stages[byStatus[domain.StatusNew]]
	if newStage.Count != 4 {
		t.Errorf("new count = %d, want 4", newStage.Count)
	}
	if newStage.ConversionRate != 60 {
		t.Errorf("new conversion = %v, want 60", newStage.ConversionRate)
	}

	// qualified: past = negotiation 1 + won 2 = 3; at-or-past = 6.
	qualified := resp.Stages[byStatus[domain.StatusQualified]]
	if qualified.ConversionRate != 50 {
		t.Errorf("qualified conversion = %v, want 50", qualified.ConversionRate)
	}

	// negotiation: past = won 2; at-or-past = 3.
	negotiation := resp.Stages[byStatus[domain.StatusNegotiation]]
	if diff := negotiation.ConversionRate - 100.0*2.0/3.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("negotiation conversion = %v, want %v", negotiation.ConversionRate, 100.0*2.0/3.0)
	}

	// closed_lost does not enter any open-stage denominator and reports
	// no onward conversion itself.
	lost := resp.Stages[byStatus[domain.StatusClosedLost]]
	if lost.Count != 5 || lost.ConversionRate != 0 {
		t.Errorf("closed_lost = %+v, want count 5 conversion 0", lost)
	}

	// contacted has no leads at all but leads are past it.
	contacted := resp.Stages[byStatus[domain.StatusContacted]]
	if contacted.Count != 0 || contacted.ConversionRate != 100 {
		t.Errorf("contacted = %+v, want count 0 conversion 100", contacted)
	}
}

func TestPipelineEmptyStagesHaveZeroConversion(t *testing.T) {
	now := time.Date(2025, time.August, 13, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}

	resp, err := newTestService(store, now).Pipeline(context.Background())
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if len(resp.Stages) != len(domain.PipelineOrder) {
		t.Fatalf("stages = %d, want %d", len(resp.Stages), len(domain.PipelineOrder))
	}
	for _, stage := range resp.Stages {
		if stage.Count != 0 || stage.ConversionRate != 0 {
			t.Errorf("stage %s = %+v, want zeros", stage.Status, stage)
		}
	}
}
