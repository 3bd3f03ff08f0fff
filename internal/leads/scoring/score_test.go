package scoring

import (
	"testing"

	"crm_backend/internal/leads/domain"
)

func TestScore_FullContactReferralInteractions(t *testing.T) {
	// company 10 + title 5 + email 10 + phone 10 + referral 20 + 3 interactions 15 = 70
	in := Input{
		Company:          "Acme",
		JobTitle:         "CTO",
		Email:            "cto@acme.test",
		Phone:            "+15550100",
		Source:           domain.SourceReferral,
		InteractionCount: 3,
	}

	if got := Score(in); got != 70 {
		t.Fatalf("expected score 70, got %d", got)
	}
}

func TestScore_PurchaseHistoryBonuses(t *testing.T) {
	// Same lead plus purchases: min(5000/1000, 30)=5 and min(2*5, 20)=10 → 85
	in := Input{
		Company:            "Acme",
		JobTitle:           "CTO",
		Email:              "cto@acme.test",
		Phone:              "+15550100",
		Source:             domain.SourceReferral,
		InteractionCount:   3,
		PurchaseTotalCents: 500_000,
		PurchaseProducts:   []string{"a", "b"},
	}

	if got := Score(in); got != 85 {
		t.Fatalf("expected score 85, got %d", got)
	}
}

func TestScore_EmptyLeadIsZeroNotError(t *testing.T) {
	// A record missing every contact field is valid low-quality data.
	if got := Score(Input{Source: domain.SourceOther}); got != 0 {
		t.Fatalf("expected score 0, got %d", got)
	}
}

func TestScore_ClampedAtHundred(t *testing.T) {
	in := Input{
		Company:            "Acme",
		JobTitle:           "CTO",
		Email:              "cto@acme.test",
		Phone:              "+15550100",
		Source:             domain.SourceReferral,
		InteractionCount:   50,
		PurchaseTotalCents: 100_000_000,
		PurchaseProducts:   []string{"a", "b", "c", "d", "e", "f"},
	}

	if got := Score(in); got != 100 {
		t.Fatalf("expected score clamped to 100, got %d", got)
	}
}

func TestScore_InteractionBonusCapped(t *testing.T) {
	base := Input{Source: domain.SourceOther}
	atCap := base
	atCap.InteractionCount = 5
	aboveCap := base
	aboveCap.InteractionCount = 12

	if Score(atCap) != Score(aboveCap) {
		t.Fatalf("interaction bonus should cap at 25: got %d vs %d", Score(atCap), Score(aboveCap))
	}
	if got := Score(atCap); got != 25 {
		t.Fatalf("expected 25 from interactions alone, got %d", got)
	}
}

func TestScore_PurchaseValueTruncates(t *testing.T) {
	// 1999.99 in purchases → 1 point, not 2.
	in := Input{Source: domain.SourceOther, PurchaseTotalCents: 199_999}
	if got := Score(in); got != 1 {
		t.Fatalf("expected truncated purchase bonus 1, got %d", got)
	}
}

func TestScore_SourceBonuses(t *testing.T) {
	cases := []struct {
		source domain.Source
		want   int
	}{
		{domain.SourceReferral, 20},
		{domain.SourceWebsite, 15},
		{domain.SourceEmail, 10},
		{domain.SourceSocialMedia, 8},
		{domain.SourcePhone, 5},
		{domain.SourceLinkedIn, 0},
		{domain.SourceTradeShow, 0},
		{domain.SourceOther, 0},
	}

	for _, tc := range cases {
		if got := Score(Input{Source: tc.source}); got != tc.want {
			t.Errorf("Score(source=%s) = %d, want %d", tc.source, got, tc.want)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	in := Input{
		Company:          "Acme",
		Email:            "a@b.test",
		Source:           domain.SourceWebsite,
		InteractionCount: 2,
	}

	first := Score(in)
	for i := 0; i < 10; i++ {
		if got := Score(in); got != first {
			t.Fatalf("score not deterministic: %d then %d", first, got)
		}
	}
}

func TestScore_CompanyAddsExactlyTen(t *testing.T) {
	without := Input{Source: domain.SourceOther}
	with := without
	with.Company = "Acme"

	if diff := Score(with) - Score(without); diff != 10 {
		t.Fatalf("expected company to add exactly 10, added %d", diff)
	}
}

func TestRequiresRecalculation(t *testing.T) {
	cases := []struct {
		name    string
		touched []string
		want    bool
	}{
		{"company", []string{FieldCompany}, true},
		{"job title", []string{FieldJobTitle}, true},
		{"email", []string{FieldEmail}, true},
		{"phone", []string{FieldPhone}, true},
		{"source", []string{FieldSource}, true},
		{"interactions", []string{FieldInteractions}, true},
		{"purchase history", []string{FieldPurchaseHistory}, true},
		{"notes only", []string{"notes"}, false},
		{"status only", []string{"status"}, false},
		{"value only", []string{"value"}, false},
		{"names only", []string{"firstName", "lastName"}, false},
		{"mixed", []string{"notes", FieldEmail}, true},
		{"empty", nil, false},
	}

	for _, tc := range cases {
		if got := RequiresRecalculation(tc.touched); got != tc.want {
			t.Errorf("%s: RequiresRecalculation(%v) = %v, want %v", tc.name, tc.touched, got, tc.want)
		}
	}
}
