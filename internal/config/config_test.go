package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "ROW_SOURCE", "GOOGLE_SHEET_URL", "WORKBOOK_PATH",
		"SHEET_PRODUCTS", "SHEET_CUSTOMERS", "SHEET_COMPANY", "SHEET_ORDERS",
		"OUTPUT_DIR", "DELIVERY", "UPLOAD", "DRIVE_FOLDER_ID",
		"S3_BUCKET", "S3_PREFIX", "S3_REGION", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_USE_PATH_STYLE",
		"BATCH_WORKERS", "SEED_FROM_EXISTING_IDS", "PORT",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_TIME_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_SHEET_URL", "https://docs.google.com/spreadsheets/d/abc/edit")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, SourceSheets, cfg.RowSource)
	assert.Equal(t, "Orders", cfg.Tabs.Orders)
	assert.Equal(t, "./out/", cfg.OutputDir)
	assert.Equal(t, DeliveryNone, cfg.Delivery)
	assert.Equal(t, 1, cfg.BatchWorkers)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.SeedFromExistingIDs)
}

func TestLoadFile_SeedFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_SHEET_URL", "https://docs.google.com/spreadsheets/d/abc/edit")
	t.Setenv("SEED_FROM_EXISTING_IDS", "true")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.SeedFromExistingIDs)
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
row_source: xlsx
workbook_path: ./orders.xlsx
tabs:
  orders: Aufträge
output_dir: /tmp/invoices
delivery: s3
upload: true
s3:
  bucket: invoices
  prefix: "2024"
  use_path_style: true
batch_workers: 4
`)
	t.Setenv("S3_BUCKET", "override")
	t.Setenv("BATCH_WORKERS", "8")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, SourceXLSX, cfg.RowSource)
	assert.Equal(t, "./orders.xlsx", cfg.WorkbookPath)
	assert.Equal(t, "Aufträge", cfg.Tabs.Orders)
	assert.Equal(t, "Products", cfg.Tabs.Products)
	assert.Equal(t, "/tmp/invoices", cfg.OutputDir)
	assert.True(t, cfg.Upload)
	assert.Equal(t, "override", cfg.S3.Bucket)
	assert.Equal(t, "2024", cfg.S3.Prefix)
	assert.True(t, cfg.S3.UsePathStyle)
	assert.Equal(t, 8, cfg.BatchWorkers)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "sheets without url", env: map[string]string{}},
		{name: "xlsx without path", env: map[string]string{"ROW_SOURCE": "xlsx"}},
		{name: "unknown source", env: map[string]string{"ROW_SOURCE": "csv", "GOOGLE_SHEET_URL": "u"}},
		{name: "drive without folder", env: map[string]string{"GOOGLE_SHEET_URL": "u", "DELIVERY": "drive"}},
		{name: "s3 without bucket", env: map[string]string{"GOOGLE_SHEET_URL": "u", "DELIVERY": "s3"}},
		{name: "upload without delivery", env: map[string]string{"GOOGLE_SHEET_URL": "u", "UPLOAD": "true"}},
		{name: "bad bool", env: map[string]string{"GOOGLE_SHEET_URL": "u", "UPLOAD": "maybe"}},
		{name: "bad workers", env: map[string]string{"GOOGLE_SHEET_URL": "u", "BATCH_WORKERS": "0"}},
		{name: "bad port", env: map[string]string{"GOOGLE_SHEET_URL": "u", "PORT": "http"}},
		{name: "bad log level", env: map[string]string{"GOOGLE_SHEET_URL": "u", "LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFile("")
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_BrokenYAML(t *testing.T) {
	clearEnv(t)
	_, err := LoadFile(writeFile(t, "row_source: [unterminated"))
	assert.Error(t, err)
}

func TestGetLoggerConfig(t *testing.T) {
	cfg := Defaults()
	cfg.LogFormat = "json"

	lc := cfg.GetLoggerConfig()
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "stdout", lc.Output)
}
