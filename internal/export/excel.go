package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Quote"

// Spreadsheet renders d as a single-sheet xlsx workbook.
func Spreadsheet(d QuoteDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C"}
	lastCol := columns[len(columns)-1]
	widths := []float64{16, 56, 18}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#1F3A5F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}
	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}
	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// Rows 1-3: title, address, date.
	header := []string{d.Title, d.Address, "Date: " + d.Date}
	for i, v := range header {
		cell := fmt.Sprintf("A%d", i+1)
		end := fmt.Sprintf("%s%d", lastCol, i+1)
		if err := f.MergeCell(sheetName, cell, end); err != nil {
			return nil, fmt.Errorf("merge header row %d: %w", i+1, err)
		}
		f.SetCellValue(sheetName, cell, sanitizeExcelCell(v))
		style := subtitleStyle
		if i == 0 {
			style = titleStyle
		}
		f.SetCellStyle(sheetName, cell, end, style)
	}

	for i, h := range []string{"Type", "Description", "Cost"} {
		f.SetCellValue(sheetName, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	row := 6
	for _, it := range d.Breakdown.Items {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+r, itemTypeLabel(it.Type))
		f.SetCellValue(sheetName, "B"+r, sanitizeExcelCell(it.Label))
		f.SetCellValue(sheetName, "C"+r, it.Cost)
		f.SetCellStyle(sheetName, "A"+r, lastCol+r, itemStyle)
		row++
	}

	row++
	for _, s := range d.SummaryRows() {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "B"+r, s.Label+":")
		f.SetCellStyle(sheetName, "B"+r, "B"+r, summaryLabelStyle)
		f.SetCellValue(sheetName, "C"+r, s.Value)
		f.SetCellStyle(sheetName, "C"+r, "C"+r, summaryValueStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prefixes values that Excel would read as a formula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
