package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	consumption "pv-report/internal/consumption/domain"
	pv "pv-report/internal/pv/domain"
)

// Columns of the summary table; the second one counts the consumption rows of the month.
var (
	summaryHeaders = []string{"Mese", "Righe", "Prod. F1 [Wh]", "Prod. F2 [Wh]", "Prod. F3 [Wh]", "Ore F1/F2/F3", "Consumi [kWh]", "PV autocons [kWh]", "Consumi con PV [kWh]"}
	summaryWidths  = []float64{20, 14, 30, 30, 30, 30, 32, 34, 38}
)

// MonthSummary condenses one enriched month for the PDF summary.
type MonthSummary struct {
	Month             int
	Label             string
	Rows              int
	ProfileWh         consumption.BandValues
	ProfileHours      map[consumption.Band]int
	Consumption       float64
	SelfConsumedTotal float64
	WithPVTotal       float64
}

// SummarizeMonths builds one MonthSummary per labelled month of tables.
func SummarizeMonths(tables consumption.MonthTables, summary pv.BandSummary, calendar consumption.SheetCalendar) []MonthSummary {
	var months []MonthSummary
	for _, month := range tables.Months() {
		label, ok := calendar.Label(month)
		if !ok {
			continue
		}
		mt := tables[month]
		ms := MonthSummary{
			Month:        month,
			Label:        label,
			Rows:         len(mt.Rows),
			ProfileWh:    summary.Production(month),
			ProfileHours: make(map[consumption.Band]int, len(consumption.Bands)),
		}
		for _, band := range consumption.Bands {
			ms.ProfileHours[band] = summary.Totals(month, band).Hours
		}
		for _, row := range mt.Rows {
			ms.Consumption += row.Energy.Sum()
			ms.SelfConsumedTotal += row.PV.SelfConsumedTotal
			ms.WithPVTotal += row.PV.WithPVTotal
		}
		months = append(months, ms)
	}
	return months
}

// BuildSummaryPDF renders a per-month table of profile production and
// consumption before and after PV.
func BuildSummaryPDF(title string, months []MonthSummary) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	widths := summaryWidths
	for i, h := range summaryHeaders {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	var consumptionSum, selfSum, withPVSum float64
	for _, m := range months {
		cells := []string{
			m.Label,
			fmt.Sprintf("%d", m.Rows),
			fmt.Sprintf("%.0f", m.ProfileWh.F1),
			fmt.Sprintf("%.0f", m.ProfileWh.F2),
			fmt.Sprintf("%.0f", m.ProfileWh.F3),
			fmt.Sprintf("%d/%d/%d", m.ProfileHours[consumption.BandF1], m.ProfileHours[consumption.BandF2], m.ProfileHours[consumption.BandF3]),
			fmt.Sprintf("%.2f", m.Consumption),
			fmt.Sprintf("%.2f", m.SelfConsumedTotal),
			fmt.Sprintf("%.2f", m.WithPVTotal),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		consumptionSum += m.Consumption
		selfSum += m.SelfConsumedTotal
		withPVSum += m.WithPVTotal
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3]+widths[4]+widths[5], 6, "Totale", "1", 0, "L", false, 0, "")
	pdf.CellFormat(widths[6], 6, fmt.Sprintf("%.2f", consumptionSum), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[7], 6, fmt.Sprintf("%.2f", selfSum), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[8], 6, fmt.Sprintf("%.2f", withPVSum), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSummaryPDF renders the summary and writes it to path.
func WriteSummaryPDF(path, title string, months []MonthSummary) error {
	data, err := BuildSummaryPDF(title, months)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
