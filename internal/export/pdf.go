package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	mutedColor  = &props.Color{Red: 90, Green: 90, Blue: 90}
	headerColor = &props.Color{Red: 31, Green: 58, Blue: 95}
	white       = &props.Color{Red: 255, Green: 255, Blue: 255}
	stripeColor = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// PDF renders d as a portrait A4 quote.
func PDF(d QuoteDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   mutedColor,
		}).
		Build()

	m := maroto.New(cfg)
	addQuoteHeader(m, d)
	addItemsTable(m, d)
	addQuoteSummary(m, d)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addQuoteHeader(m core.Maroto, d QuoteDocument) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New(d.Title, props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
		row.New(7).Add(
			col.New(8).Add(text.New(d.Address, props.Text{Size: 9, Align: align.Left, Color: mutedColor})),
			col.New(4).Add(text.New("Date: "+d.Date, props.Text{Size: 9, Align: align.Right, Color: mutedColor})),
		),
		row.New(4),
	)
}

func addItemsTable(m core.Maroto, d QuoteDocument) {
	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: white}
	headerRight := headerText
	headerRight.Align = align.Right
	headerCell := &props.Cell{BackgroundColor: headerColor}

	m.AddRows(row.New(8).Add(
		col.New(2).Add(text.New("Type", headerText)).WithStyle(headerCell),
		col.New(7).Add(text.New("Description", headerText)).WithStyle(headerCell),
		col.New(3).Add(text.New("Cost", headerRight)).WithStyle(headerCell),
	))

	body := props.Text{Size: 8, Align: align.Left}
	bodyRight := body
	bodyRight.Align = align.Right
	for i, it := range d.Breakdown.Items {
		cType := col.New(2).Add(text.New(itemTypeLabel(it.Type), body))
		cLabel := col.New(7).Add(text.New(it.Label, body))
		cCost := col.New(3).Add(text.New(FormatUSD(it.Cost), bodyRight))
		if i%2 == 1 {
			stripe := &props.Cell{BackgroundColor: stripeColor}
			cType = cType.WithStyle(stripe)
			cLabel = cLabel.WithStyle(stripe)
			cCost = cCost.WithStyle(stripe)
		}
		m.AddRows(row.New(7).Add(cType, cLabel, cCost))
	}
}

func addQuoteSummary(m core.Maroto, d QuoteDocument) {
	m.AddRows(row.New(6))

	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 9, Align: align.Right}
	for _, s := range d.SummaryRows() {
		m.AddRows(row.New(7).Add(
			col.New(9).Add(text.New(s.Label, label)),
			col.New(3).Add(text.New(s.Value, value)),
		))
	}
}
