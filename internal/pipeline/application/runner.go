package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pv-report/internal/auth"
	consumptionapp "pv-report/internal/consumption/application"
	consumption "pv-report/internal/consumption/domain"
	"pv-report/internal/observability/metrics"
	pvapp "pv-report/internal/pv/application"
	"pv-report/internal/report"
)

// SummaryPDFSuffix names the optional PDF summary: {prefix}_Riepilogo_PV.pdf.
const SummaryPDFSuffix = "_Riepilogo_PV.pdf"

const datePrefixLayout = "20060102"

// Splitter is the monthly split stage.
type Splitter interface {
	Split(ctx context.Context, req consumptionapp.SplitRequest) (consumptionapp.SplitResult, error)
}

// Overlayer is the PV overlay stage.
type Overlayer interface {
	Overlay(ctx context.Context, req pvapp.OverlayRequest) (pvapp.OverlayResult, error)
}

// Clock provides time for the runner.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Request is one analysis request.
type Request struct {
	ConsumptionPath string
	// PVOverridePath replaces the default PV metadata when AdminPassword matches.
	PVOverridePath string
	AdminPassword  string
	OutputDir      string
	// DatePrefix names the generated files; the current date when empty.
	DatePrefix string
}

// Result lists the generated artifacts.
type Result struct {
	RunID              string
	PVMetadataPath     string
	OverrideRejected   bool
	InputWorkbookPath  string
	ResultWorkbookPath string
	SummaryPDFPath     string
	Tables             consumption.MonthTables
}

// Runner executes the split and overlay stages of one request in sequence.
type Runner struct {
	splitter      Splitter
	overlayer     Overlayer
	gate          *auth.SecretGate
	defaultPVPath string
	outputDir     string
	summaryPDF    bool
	calendar      consumption.SheetCalendar
	clock         Clock
	logger        logrus.FieldLogger
}

// RunnerOption configures the Runner.
type RunnerOption func(*Runner)

// WithSummaryPDF enables the PDF summary.
func WithSummaryPDF(enabled bool) RunnerOption {
	return func(r *Runner) {
		r.summaryPDF = enabled
	}
}

// WithOutputDir sets the output directory used when a request has none.
func WithOutputDir(dir string) RunnerOption {
	return func(r *Runner) {
		if dir != "" {
			r.outputDir = dir
		}
	}
}

// WithSheetCalendar sets the calendar used by the PDF summary.
func WithSheetCalendar(calendar consumption.SheetCalendar) RunnerOption {
	return func(r *Runner) {
		r.calendar = calendar
	}
}

// WithClock overrides the clock used for default date prefixes.
func WithClock(clock Clock) RunnerOption {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewRunner constructs a Runner.
func NewRunner(splitter Splitter, overlayer Overlayer, gate *auth.SecretGate, defaultPVPath string, logger logrus.FieldLogger, opts ...RunnerOption) (*Runner, error) {
	if splitter == nil {
		return nil, errors.New("pipeline: nil splitter")
	}
	if overlayer == nil {
		return nil, errors.New("pipeline: nil overlayer")
	}
	if logger == nil {
		return nil, errors.New("pipeline: nil logger")
	}
	if gate == nil {
		gate = auth.NewSecretGate("")
	}
	r := &Runner{
		splitter:      splitter,
		overlayer:     overlayer,
		gate:          gate,
		defaultPVPath: defaultPVPath,
		outputDir:     "output",
		calendar:      consumption.DefaultSheetCalendar(),
		clock:         systemClock{},
		logger:        logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run processes req end to end. The PV metadata file is checked before any
// output is written. Errors from either stage are returned as is.
func (r *Runner) Run(ctx context.Context, req Request) (result Result, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(metrics.StageRun, err, time.Since(start)) }()

	result.RunID = uuid.NewString()
	logger := r.logger.WithField("run_id", result.RunID)

	if req.ConsumptionPath == "" {
		return result, consumption.ErrEmptyPath
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = r.outputDir
	}
	prefix := req.DatePrefix
	if prefix == "" {
		prefix = r.clock.Now().Format(datePrefixLayout)
	}

	pvPath, gateErr := r.gate.ResolvePVPath(r.defaultPVPath, req.PVOverridePath, req.AdminPassword)
	if gateErr != nil {
		result.OverrideRejected = true
		metrics.IncOverrideRejected()
		logger.WithError(gateErr).Warn("PV metadata override rejected, using default file")
	}
	result.PVMetadataPath = pvPath
	if _, statErr := os.Stat(pvPath); statErr != nil {
		missing := &consumption.MissingFileError{Path: pvPath, Err: statErr}
		logger.WithError(missing).Error("PV metadata file not available")
		return result, missing
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("pipeline: create output dir: %w", err)
	}

	stageStart := time.Now()
	split, err := r.splitter.Split(ctx, consumptionapp.SplitRequest{
		InputPath:  req.ConsumptionPath,
		OutputDir:  outputDir,
		DatePrefix: prefix,
	})
	metrics.ObserveStage(metrics.StageSplit, err, time.Since(stageStart))
	if err != nil {
		logger.WithError(err).WithField("stage", metrics.StageSplit).Error("split failed")
		return result, err
	}
	metrics.AddRows(metrics.StageSplit, split.Tables.RowCount())
	result.InputWorkbookPath = split.Path
	result.Tables = split.Tables

	stageStart = time.Now()
	overlay, err := r.overlayer.Overlay(ctx, pvapp.OverlayRequest{
		Tables:       split.Tables,
		MetadataPath: pvPath,
		OutputDir:    outputDir,
		DatePrefix:   prefix,
	})
	metrics.ObserveStage(metrics.StageOverlay, err, time.Since(stageStart))
	if err != nil {
		logger.WithError(err).WithField("stage", metrics.StageOverlay).Error("overlay failed")
		return result, err
	}
	metrics.AddRows(metrics.StageOverlay, split.Tables.RowCount())
	result.ResultWorkbookPath = overlay.Path

	if r.summaryPDF {
		stageStart = time.Now()
		path := filepath.Join(outputDir, prefix+SummaryPDFSuffix)
		months := report.SummarizeMonths(split.Tables, overlay.Summary, r.calendar)
		err = report.WriteSummaryPDF(path, "Riepilogo analisi PV "+prefix, months)
		metrics.ObserveStage(metrics.StageSummary, err, time.Since(stageStart))
		if err != nil {
			logger.WithError(err).WithField("stage", metrics.StageSummary).Error("summary failed")
			return result, fmt.Errorf("pipeline: write summary: %w", err)
		}
		result.SummaryPDFPath = path
	}

	logger.WithFields(logrus.Fields{
		"input_workbook":  result.InputWorkbookPath,
		"result_workbook": result.ResultWorkbookPath,
		"pv_metadata":     pvPath,
		"elapsed":         time.Since(start).String(),
	}).Info("analysis completed")
	return result, nil
}
