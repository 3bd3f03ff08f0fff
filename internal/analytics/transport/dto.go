package transport

import (
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// PerformanceRequest carries the period token. Unrecognized tokens are
// not rejected; the service falls back to this_month.
type PerformanceRequest struct {
	Period string `form:"period" validate:"max=32"`
}

// MoneyMetric is a monetary aggregate with its period-over-period delta.
type MoneyMetric struct {
	CurrentCents  int64   `json:"currentCents"`
	PreviousCents int64   `json:"previousCents"`
	ChangePercent float64 `json:"changePercent"`
}

// CountMetric is a count aggregate with its period-over-period delta.
type CountMetric struct {
	Current       int     `json:"current"`
	Previous      int     `json:"previous"`
	ChangePercent float64 `json:"changePercent"`
}

// RateMetric is a percentage aggregate with its period-over-period delta.
type RateMetric struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	ChangePercent float64 `json:"changePercent"`
}

type TopLeadResponse struct {
	ID          uuid.UUID          `json:"id"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Company     *string            `json:"company,omitempty"`
	Status      domain.Status      `json:"status"`
	ValueCents  int64              `json:"valueCents"`
	LeadScore   int                `json:"leadScore"`
	Temperature domain.Temperature `json:"temperature"`
}

type PerformanceResponse struct {
	Period      string            `json:"period"`
	StartDate   time.Time         `json:"startDate"`
	EndDate     time.Time         `json:"endDate"`
	TotalSales  MoneyMetric       `json:"totalSales"`
	ActiveLeads CountMetric       `json:"activeLeads"`
	Conversion  RateMetric        `json:"conversionRate"`
	AvgDealSize MoneyMetric       `json:"avgDealSize"`
	TopLeads    []TopLeadResponse `json:"topLeads"`
}

type StageResponse struct {
	Status         domain.Status `json:"status"`
	Count          int           `json:"count"`
	ValueCents     int64         `json:"valueCents"`
	ConversionRate float64       `json:"conversionRate"`
}

type PipelineResponse struct {
	Stages []StageResponse `json:"stages"`
}
