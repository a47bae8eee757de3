package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pv-report/internal/auth"
	"pv-report/internal/config"
	consumptionapp "pv-report/internal/consumption/application"
	consumption "pv-report/internal/consumption/domain"
	"pv-report/internal/consumption/infrastructure/table"
	"pv-report/internal/observability/metrics"
	pipeline "pv-report/internal/pipeline/application"
	pvapp "pv-report/internal/pv/application"
	pv "pv-report/internal/pv/domain"
	"pv-report/internal/pv/infrastructure/metadata"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "pvreport",
		Short:        "Split consumption reports by month and overlay PV self-consumption per band",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "yaml config file (default $PVREPORT_CONFIG)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newRunCommand(opts), newBandsCommand(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, *logrus.Logger, error) {
	if err := config.LoadEnvFiles(opts.envFile); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, newLogger(cfg.Debug), nil
}

func newLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{QuoteEmptyFields: true, FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func newRunCommand(root *rootOptions) *cobra.Command {
	var req pipeline.Request
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monthly split and the PV overlay on a consumption report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(root)
			if err != nil {
				return err
			}
			metrics.Init()

			runner, err := buildRunner(cfg, logger)
			if err != nil {
				return err
			}
			result, err := runner.Run(cmd.Context(), req)
			if textErr := metrics.WriteTextfile(cfg.MetricsTextfile); textErr != nil {
				logger.WithError(textErr).Warn("metrics textfile not written")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.InputWorkbookPath)
			fmt.Fprintln(out, result.ResultWorkbookPath)
			if result.SummaryPDFPath != "" {
				fmt.Fprintln(out, result.SummaryPDFPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.ConsumptionPath, "consumi", "", "consumption report (xlsx or csv)")
	cmd.Flags().StringVar(&req.PVOverridePath, "pv-override", "", "PV metadata workbook replacing the default one")
	cmd.Flags().StringVar(&req.AdminPassword, "admin-password", "", "admin password authorising --pv-override")
	cmd.Flags().StringVar(&req.OutputDir, "out", "", "output directory (default from config)")
	cmd.Flags().StringVar(&req.DatePrefix, "prefix", "", "file name date prefix (default today, YYYYMMDD)")
	_ = cmd.MarkFlagRequired("consumi")
	return cmd
}

func buildRunner(cfg config.Config, logger *logrus.Logger) (*pipeline.Runner, error) {
	holidays, err := cfg.HolidayCalendar()
	if err != nil {
		return nil, err
	}
	groups, err := cfg.Groups()
	if err != nil {
		return nil, err
	}
	calendar := cfg.SheetCalendar()

	splitter, err := consumptionapp.NewSplitter(
		table.NewReader(),
		logger.WithField("component", "splitter"),
		consumptionapp.WithSheetCalendar(calendar),
	)
	if err != nil {
		return nil, err
	}
	engine, err := pvapp.NewEngine(
		metadata.NewLoader(),
		pv.NewBandClassifier(holidays),
		logger.WithField("component", "overlay"),
		pvapp.WithSharedGroups(groups),
		pvapp.WithSheetCalendar(calendar),
	)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(
		splitter,
		engine,
		auth.NewSecretGate(cfg.AdminPassword),
		cfg.PVMetadataPath,
		logger.WithField("component", "pipeline"),
		pipeline.WithOutputDir(cfg.OutputDir),
		pipeline.WithSummaryPDF(cfg.SummaryPDF),
		pipeline.WithSheetCalendar(calendar),
	)
}

func newBandsCommand(root *rootOptions) *cobra.Command {
	var pvPath string
	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Print the per-month, per-band production of a PV metadata workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(root)
			if err != nil {
				return err
			}
			if pvPath == "" {
				pvPath = cfg.PVMetadataPath
			}
			holidays, err := cfg.HolidayCalendar()
			if err != nil {
				return err
			}
			meta, err := metadata.NewLoader().Load(pvPath)
			if err != nil {
				return err
			}
			pv.NewBandClassifier(holidays).ClassifyAll(meta.Profile)
			summary := pv.Summarize(meta.Profile)

			calendar := cfg.SheetCalendar()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "month\tband\tproduction_wh\thours")
			for _, month := range summary.Months() {
				label, ok := calendar.Label(month)
				if !ok {
					label = fmt.Sprintf("%d", month)
				}
				for _, band := range consumption.Bands {
					totals := summary.Totals(month, band)
					fmt.Fprintf(w, "%s\t%s\t%.3f\t%d\n", label, band, totals.ProductionWh, totals.Hours)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&pvPath, "pv", "", "PV metadata workbook (default from config)")
	return cmd
}
