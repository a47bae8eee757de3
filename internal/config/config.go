package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	consumption "pv-report/internal/consumption/domain"
	pv "pv-report/internal/pv/domain"
)

// DefaultHolidays are the Italian public holidays of 2025.
var DefaultHolidays = []string{
	"2025-01-01", "2025-01-06", "2025-04-20", "2025-04-21",
	"2025-04-25", "2025-05-01", "2025-06-02", "2025-08-15",
	"2025-11-01", "2025-12-08", "2025-12-25", "2025-12-26",
}

// DefaultSharedGroups are the POD pairs sharing one installation.
var DefaultSharedGroups = []SharedGroup{
	{A: "IT001E72062156", B: "IT001E04433186"},
	{A: "IT001E48602056", B: "IT001E48183760"},
}

// SharedGroup is a POD pair as written in the config file.
type SharedGroup struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// Config defines the pipeline configuration.
type Config struct {
	OutputDir       string        `yaml:"output_dir"`
	PVMetadataPath  string        `yaml:"pv_metadata_path"`
	AdminPassword   string        `yaml:"admin_password"`
	SheetYear       int           `yaml:"sheet_year"`
	Holidays        []string      `yaml:"holidays"`
	SharedGroups    []SharedGroup `yaml:"shared_groups"`
	SummaryPDF      bool          `yaml:"summary_pdf"`
	MetricsTextfile string        `yaml:"metrics_textfile"`
	Debug           bool          `yaml:"debug"`
}

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are skipped; variables already set win.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Load builds the config from defaults, the yaml file at path (or
// PVREPORT_CONFIG when path is empty) and environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		OutputDir:      "output",
		PVMetadataPath: filepath.Join("uploads", "Info_PV_per_script.xlsx"),
		SheetYear:      consumption.DefaultSheetYear,
		Holidays:       append([]string(nil), DefaultHolidays...),
		SharedGroups:   append([]SharedGroup(nil), DefaultSharedGroups...),
	}

	if path == "" {
		path = os.Getenv("PVREPORT_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.OutputDir = getenvDefault("PVREPORT_OUTPUT_DIR", cfg.OutputDir)
	cfg.PVMetadataPath = getenvDefault("PV_METADATA_PATH", cfg.PVMetadataPath)
	cfg.AdminPassword = getenvDefault("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.SheetYear = getenvIntDefault("PVREPORT_SHEET_YEAR", cfg.SheetYear)
	cfg.SummaryPDF = getenvBoolDefault("PVREPORT_SUMMARY_PDF", cfg.SummaryPDF)
	cfg.MetricsTextfile = getenvDefault("PVREPORT_METRICS_TEXTFILE", cfg.MetricsTextfile)
	cfg.Debug = getenvBoolDefault("PVREPORT_DEBUG", cfg.Debug)
	if holidays := splitCSV(os.Getenv("PVREPORT_HOLIDAYS")); len(holidays) > 0 {
		cfg.Holidays = holidays
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("config: output dir required")
	}
	if c.SheetYear <= 0 {
		return fmt.Errorf("config: invalid sheet year %d", c.SheetYear)
	}
	if _, err := c.HolidayCalendar(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Groups(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// HolidayCalendar parses Holidays.
func (c Config) HolidayCalendar() (pv.HolidayCalendar, error) {
	return pv.ParseHolidayCalendar(c.Holidays)
}

// Groups converts SharedGroups into domain groups.
func (c Config) Groups() ([]pv.SharedGroup, error) {
	groups := make([]pv.SharedGroup, 0, len(c.SharedGroups))
	for _, g := range c.SharedGroups {
		group, err := pv.NewSharedGroup(g.A, g.B)
		if err != nil {
			return nil, fmt.Errorf("shared group %q/%q: %w", g.A, g.B, err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// SheetCalendar returns the month to sheet label mapping.
func (c Config) SheetCalendar() consumption.SheetCalendar {
	return consumption.NewSheetCalendar(c.SheetYear)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
