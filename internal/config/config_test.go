package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PVREPORT_CONFIG",
	"PVREPORT_OUTPUT_DIR",
	"PV_METADATA_PATH",
	"ADMIN_PASSWORD",
	"PVREPORT_SHEET_YEAR",
	"PVREPORT_SUMMARY_PDF",
	"PVREPORT_METRICS_TEXTFILE",
	"PVREPORT_DEBUG",
	"PVREPORT_HOLIDAYS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, filepath.Join("uploads", "Info_PV_per_script.xlsx"), cfg.PVMetadataPath)
	assert.Equal(t, 2025, cfg.SheetYear)
	assert.False(t, cfg.SummaryPDF)

	holidays, err := cfg.HolidayCalendar()
	require.NoError(t, err)
	assert.Equal(t, 12, holidays.Len())
	assert.True(t, holidays.IsHoliday(time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)))

	groups, err := cfg.Groups()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "IT001E72062156", groups[0].A)

	label, _ := cfg.SheetCalendar().Label(1)
	assert.Equal(t, "gen-25", label)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "pvreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: reports
sheet_year: 2026
summary_pdf: true
holidays:
  - "2026-01-01"
shared_groups:
  - a: P1
    b: P2
`), 0o644))
	t.Setenv("PVREPORT_CONFIG", path)
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("PVREPORT_OUTPUT_DIR", "elsewhere")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", cfg.OutputDir)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.Equal(t, 2026, cfg.SheetYear)
	assert.True(t, cfg.SummaryPDF)
	assert.Equal(t, []string{"2026-01-01"}, cfg.Holidays)
	assert.Equal(t, []SharedGroup{{A: "P1", B: "P2"}}, cfg.SharedGroups)

	label, _ := cfg.SheetCalendar().Label(2)
	assert.Equal(t, "feb-26", label)
}

func TestLoadHolidaysFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PVREPORT_HOLIDAYS", "2026-12-25, 2026-12-26")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-12-25", "2026-12-26"}, cfg.Holidays)
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)

	t.Setenv("PVREPORT_HOLIDAYS", "25/12/2026")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("PVREPORT_HOLIDAYS", "")
	path := filepath.Join(t.TempDir(), "pvreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shared_groups:\n  - a: P1\n    b: P1\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFiles(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("ADMIN_PASSWORD"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_PASSWORD=from-dotenv\n"), 0o644))

	require.NoError(t, LoadEnvFiles(filepath.Join(t.TempDir(), "absent.env"), "", path))
	assert.Equal(t, "from-dotenv", os.Getenv("ADMIN_PASSWORD"))
}
