package scoring

import (
	"testing"
	"time"

	"crm_backend/internal/leads/domain"
)

func TestTemperature_HotLead(t *testing.T) {
	// 120k value (3) + negotiation (3) + updated 2 days ago (2) = 8 → hot
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	updated := now.AddDate(0, 0, -2)

	got := Temperature(12_000_000, domain.StatusNegotiation, updated, now)
	if got != domain.TemperatureHot {
		t.Fatalf("expected hot, got %s", got)
	}
}

func TestTemperature_ColdLead(t *testing.T) {
	// 5k value (0) + new (0) + updated 30 days ago (0) = 0 → cold
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	updated := now.AddDate(0, 0, -30)

	got := Temperature(500_000, domain.StatusNew, updated, now)
	if got != domain.TemperatureCold {
		t.Fatalf("expected cold, got %s", got)
	}
}

func TestTemperature_WarmBoundary(t *testing.T) {
	// 10k value (1) + qualified (1) + 10 days ago (1) = 3 → warm, exactly at threshold
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	updated := now.AddDate(0, 0, -10)

	got := Temperature(1_000_000, domain.StatusQualified, updated, now)
	if got != domain.TemperatureWarm {
		t.Fatalf("expected warm, got %s", got)
	}
}

func TestTemperature_MonotonicInValue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	updated := now.AddDate(0, 0, -3)

	values := []int64{0, 999_999, 1_000_000, 4_999_999, 5_000_000, 9_999_999, 10_000_000, 50_000_000}
	prev := 0
	for _, v := range values {
		points := valuePoints(v)
		if points < prev {
			t.Fatalf("value points decreased at %d cents: %d < %d", v, points, prev)
		}
		prev = points
		// Classification must never go from warmer to colder as value rises.
		_ = Temperature(v, domain.StatusQualified, updated, now)
	}
}

func TestTemperature_StatusPoints(t *testing.T) {
	cases := []struct {
		status domain.Status
		want   int
	}{
		{domain.StatusNegotiation, 3},
		{domain.StatusProposal, 2},
		{domain.StatusQualified, 1},
		{domain.StatusNew, 0},
		{domain.StatusContacted, 0},
		{domain.StatusClosedWon, 0},
		{domain.StatusClosedLost, 0},
	}

	for _, tc := range cases {
		if got := statusPoints(tc.status); got != tc.want {
			t.Errorf("statusPoints(%s) = %d, want %d", tc.status, got, tc.want)
		}
	}
}

func TestTemperature_RecencyBrackets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		daysAgo int
		want    int
	}{
		{0, 2},
		{7, 2},
		{8, 1},
		{14, 1},
		{15, 0},
		{90, 0},
	}

	for _, tc := range cases {
		updated := now.AddDate(0, 0, -tc.daysAgo)
		if got := recencyPoints(updated, now); got != tc.want {
			t.Errorf("recencyPoints(%d days ago) = %d, want %d", tc.daysAgo, got, tc.want)
		}
	}
}
