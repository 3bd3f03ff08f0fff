package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	subjectLeadWonFmt   = "Deal won: %s"
	subjectWeeklyDigest = "Your weekly pipeline digest"
)

// LeadWonData fills the closed-won alert template.
type LeadWonData struct {
	LeadName       string
	Company        string
	ValueFormatted string
}

// DigestStage is one pipeline row in the weekly digest.
type DigestStage struct {
	Stage          string
	Count          int
	ValueFormatted string
	ConversionRate string
}

// DigestTopLead is one ranked lead in the weekly digest.
type DigestTopLead struct {
	Name           string
	Company        string
	ValueFormatted string
	Temperature    string
}

// WeeklyDigestData fills the weekly digest template.
type WeeklyDigestData struct {
	PeriodLabel         string
	TotalSalesFormatted string
	SalesChange         string
	ActiveLeads         int
	ConversionRate      string
	AvgDealFormatted    string
	Stages              []DigestStage
	TopLeads            []DigestTopLead
}

func renderTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// FormatCurrencyUSD renders cents as a dollar amount.
func FormatCurrencyUSD(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
