package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	consumption "pv-report/internal/consumption/domain"
	"pv-report/internal/observability/metrics"
	pv "pv-report/internal/pv/domain"
	"pv-report/internal/report"
)

// ResultWorkbookSuffix names the final workbook: {prefix}_Risultato_analisi_con_PV.xlsx.
const ResultWorkbookSuffix = "_Risultato_analisi_con_PV.xlsx"

// Headers of the enriched columns, in output order.
const (
	HeaderSize              = "Taglia_PV"
	HeaderProductionF1      = "Produzione_PV_F1"
	HeaderProductionF2      = "Produzione_PV_F2"
	HeaderProductionF3      = "Produzione_PV_F3"
	HeaderSelfConsumedF1    = "Produzione_PV_F1_autocons"
	HeaderSelfConsumedF2    = "Produzione_PV_F2_autocons"
	HeaderSelfConsumedF3    = "Produzione_PV_F3_autocons"
	HeaderSelfConsumedTotal = "Tot produzione PV autocons [kWh]"
	HeaderWithPVF1          = "F1 con PV"
	HeaderWithPVF2          = "F2 con PV"
	HeaderWithPVF3          = "F3 con PV"
	HeaderWithPVTotal       = "Totale consumi con PV"
	HeaderWeightF1          = "Peso F1 %"
	HeaderWeightF2          = "Peso F2 %"
	HeaderWeightF3          = "Peso F3 %"
)

var enrichedHeaders = []string{
	HeaderSize,
	HeaderProductionF1, HeaderProductionF2, HeaderProductionF3,
	HeaderSelfConsumedF1, HeaderSelfConsumedF2, HeaderSelfConsumedF3,
	HeaderSelfConsumedTotal,
	HeaderWithPVF1, HeaderWithPVF2, HeaderWithPVF3,
	HeaderWithPVTotal,
	HeaderWeightF1, HeaderWeightF2, HeaderWeightF3,
}

// MetadataLoader reads a PV metadata workbook.
type MetadataLoader interface {
	Load(path string) (*pv.Metadata, error)
}

// OverlayRequest describes one overlay run.
type OverlayRequest struct {
	Tables       consumption.MonthTables
	MetadataPath string
	OutputDir    string
	DatePrefix   string
}

// OverlayResult is the final workbook path plus the production summary used.
type OverlayResult struct {
	Path         string
	Summary      pv.BandSummary
	UnmappedRows int
}

// Engine overlays PV production and self-consumption on month tables.
type Engine struct {
	loader     MetadataLoader
	classifier pv.BandClassifier
	groups     []pv.SharedGroup
	calendar   consumption.SheetCalendar
	write      report.WriteFunc
	logger     logrus.FieldLogger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithSharedGroups sets the POD pairs that split one installation's production.
func WithSharedGroups(groups []pv.SharedGroup) EngineOption {
	return func(e *Engine) {
		e.groups = append([]pv.SharedGroup(nil), groups...)
	}
}

// WithSheetCalendar overrides the month to sheet label mapping.
func WithSheetCalendar(calendar consumption.SheetCalendar) EngineOption {
	return func(e *Engine) {
		e.calendar = calendar
	}
}

// WithWorkbookWriter overrides how workbooks are persisted.
func WithWorkbookWriter(write report.WriteFunc) EngineOption {
	return func(e *Engine) {
		if write != nil {
			e.write = write
		}
	}
}

// NewEngine constructs an Engine.
func NewEngine(loader MetadataLoader, classifier pv.BandClassifier, logger logrus.FieldLogger, opts ...EngineOption) (*Engine, error) {
	if loader == nil {
		return nil, errors.New("overlay: nil metadata loader")
	}
	if logger == nil {
		return nil, errors.New("overlay: nil logger")
	}
	e := &Engine{
		loader:     loader,
		classifier: classifier,
		calendar:   consumption.DefaultSheetCalendar(),
		write:      report.WriteWorkbook,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ResultWorkbookName returns the final workbook file name for prefix.
func ResultWorkbookName(prefix string) string {
	return prefix + ResultWorkbookSuffix
}

// Overlay enriches every month table in place and writes the final workbook.
func (e *Engine) Overlay(ctx context.Context, req OverlayRequest) (OverlayResult, error) {
	if err := ctx.Err(); err != nil {
		return OverlayResult{}, err
	}

	meta, err := e.loader.Load(req.MetadataPath)
	if err != nil {
		return OverlayResult{}, err
	}
	for _, month := range req.Tables.Months() {
		if err := req.Tables[month].Require(fmt.Sprintf("month %d", month), consumption.OverlayColumns...); err != nil {
			return OverlayResult{}, err
		}
	}

	e.classifier.ClassifyAll(meta.Profile)
	summary := pv.Summarize(meta.Profile)
	for _, band := range consumption.Bands {
		metrics.AddProfileHours(string(band), lo.CountBy(meta.Profile, func(r pv.HourlyProduction) bool { return r.Band == band }))
	}

	in := pv.Inputs{
		Capacity:        meta.Capacity,
		Summary:         summary,
		Autoconsumption: meta.Autoconsumption,
		Groups:          e.groups,
	}
	var unmapped int
	for _, month := range req.Tables.Months() {
		stats := pv.ApplyOverlay(req.Tables[month], in)
		unmapped += stats.UnmappedPODs
		if !stats.SummaryFound {
			e.logger.WithField("month", month).Warn("no production profile for month, PV columns set to 0")
		}
	}
	metrics.AddUnmappedPODs(unmapped)

	path := filepath.Join(req.OutputDir, ResultWorkbookName(req.DatePrefix))
	if err := e.write(path, e.sheets(req.Tables)); err != nil {
		return OverlayResult{}, fmt.Errorf("overlay: write %s: %w", path, err)
	}

	e.logger.WithFields(logrus.Fields{
		"path":          path,
		"months":        len(req.Tables),
		"profile_hours": len(meta.Profile),
		"unmapped_rows": unmapped,
	}).Info("PV result workbook written")
	return OverlayResult{Path: path, Summary: summary, UnmappedRows: unmapped}, nil
}

func (e *Engine) sheets(tables consumption.MonthTables) []report.Sheet {
	var sheets []report.Sheet
	for _, month := range tables.Months() {
		label, ok := e.calendar.Label(month)
		if !ok {
			continue
		}
		mt := tables[month]
		header := lo.Map(mt.Columns, func(c consumption.Column, _ int) string { return string(c) })
		sheet := report.Sheet{Name: label, Header: append(header, enrichedHeaders...)}
		for _, record := range mt.Rows {
			sheet.Rows = append(sheet.Rows, resultRow(record, mt.Columns))
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

func resultRow(record consumption.Record, columns []consumption.Column) []any {
	values := make([]any, 0, len(columns)+len(enrichedHeaders))
	for _, column := range columns {
		values = append(values, record.Value(column))
	}
	o := record.PV
	return append(values,
		o.SizeKW,
		o.Production.F1, o.Production.F2, o.Production.F3,
		o.SelfConsumed.F1, o.SelfConsumed.F2, o.SelfConsumed.F3,
		o.SelfConsumedTotal,
		o.WithPV.F1, o.WithPV.F2, o.WithPV.F3,
		o.WithPVTotal,
		o.Weight.F1, o.Weight.F2, o.Weight.F3,
	)
}
