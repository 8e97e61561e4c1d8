package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/pricing"
)

// QuoteDocument is the printable view of one location's breakdown.
type QuoteDocument struct {
	Title     string
	Address   string
	Date      string
	Support   string
	Breakdown domain.EstimateBreakdown
}

// SummaryRow is one labelled total in the summary block.
type SummaryRow struct {
	Label string
	Value string
}

func NewQuoteDocument(loc domain.Location, b domain.EstimateBreakdown, supportName string, date time.Time) QuoteDocument {
	title := loc.Name
	if strings.TrimSpace(title) == "" {
		title = "Installation Quote"
	}
	return QuoteDocument{
		Title:     title,
		Address:   loc.Address,
		Date:      date.Format("2006-01-02"),
		Support:   supportName,
		Breakdown: b,
	}
}

// SummaryRows lists the totals in display order. Zero optional costs are
// left out.
func (d QuoteDocument) SummaryRows() []SummaryRow {
	s := d.Breakdown.Summary
	rows := []SummaryRow{
		{"Hardware", FormatUSD(s.HardwareCost)},
		{"Installation labor", FormatUSD(s.InstallCost)},
		{"Station overhead", FormatUSD(s.OverheadCost)},
	}
	if s.IntegrationsCost > 0 {
		rows = append(rows, SummaryRow{"Integrations", FormatUSD(s.IntegrationsCost)})
	}
	if s.CablingCost > 0 {
		rows = append(rows, SummaryRow{"Network cabling", FormatUSD(s.CablingCost)})
	}
	switch {
	case d.Breakdown.TravelToBeDiscussed:
		rows = append(rows, SummaryRow{"Travel", "To be discussed"})
	case s.TravelCost > 0:
		rows = append(rows, SummaryRow{"Travel", FormatUSD(s.TravelCost)})
	}
	if s.GoLiveSupportCost > 0 {
		rows = append(rows, SummaryRow{fmt.Sprintf("Go-live support (%d days)", s.GoLiveSupportDays), FormatUSD(s.GoLiveSupportCost)})
	}
	rows = append(rows, SummaryRow{"Total (first invoice)", FormatUSD(s.TotalFirst)})
	if s.SupportCost > 0 {
		label := "Support"
		if d.Support != "" {
			label = d.Support + " support"
		}
		per := "month"
		if s.SupportPeriod == domain.PeriodAnnual {
			per = "year"
		}
		rows = append(rows, SummaryRow{label, FormatUSD(s.SupportCost) + " / " + per})
	}
	t := d.Breakdown.Time
	rows = append(rows, SummaryRow{"Estimated install time", fmt.Sprintf("%.1f to %.1f hours", t.MinHours, t.MaxHours)})
	return rows
}

// FormatUSD formats an amount as dollars with thousands separators.
func FormatUSD(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	raw := fmt.Sprintf("%.2f", amount)
	intPart, decPart, _ := strings.Cut(raw, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + decPart
	if negative {
		out = "-" + out
	}
	return out
}

func itemTypeLabel(t string) string {
	switch t {
	case pricing.ItemGoLive:
		return "Go-live"
	case "":
		return ""
	}
	return strings.ToUpper(t[:1]) + t[1:]
}
