package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"invoicer/internal/logger"
)

// Row sources and delivery targets
const (
	SourceSheets = "sheets"
	SourceXLSX   = "xlsx"

	DeliveryNone  = "none"
	DeliveryDrive = "drive"
	DeliveryS3    = "s3"
)

// Tabs holds the names of the four spreadsheet tabs
type Tabs struct {
	Products  string `yaml:"products" validate:"required"`
	Customers string `yaml:"customers" validate:"required"`
	Company   string `yaml:"company" validate:"required"`
	Orders    string `yaml:"orders" validate:"required"`
}

// S3 holds the object storage target
type S3 struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type Config struct {
	// Row source
	RowSource      string `yaml:"row_source" validate:"oneof=sheets xlsx"`
	GoogleSheetURL string `yaml:"google_sheet_url" validate:"required_if=RowSource sheets"`
	WorkbookPath   string `yaml:"workbook_path" validate:"required_if=RowSource xlsx"`
	Tabs           Tabs   `yaml:"tabs"`

	// Output
	OutputDir     string `yaml:"output_dir" validate:"required"`
	Delivery      string `yaml:"delivery" validate:"oneof=none drive s3"`
	Upload        bool   `yaml:"upload"`
	DriveFolderID string `yaml:"drive_folder_id" validate:"required_if=Delivery drive"`
	S3            S3     `yaml:"s3"`

	// Batch
	BatchWorkers        int  `yaml:"batch_workers" validate:"min=1,max=64"`
	SeedFromExistingIDs bool `yaml:"seed_from_existing_ids"`

	// HTTP trigger
	Port int `yaml:"port" validate:"min=1,max=65535"`

	// Logging Configuration
	LogLevel      string `yaml:"log_level" validate:"oneof=trace debug info warn error fatal panic"`
	LogFormat     string `yaml:"log_format" validate:"oneof=json console"`
	LogTimeFormat string `yaml:"log_time_format"`
	LogOutput     string `yaml:"log_output"`
}

// Defaults returns the configuration used when neither file nor environment set a key
func Defaults() *Config {
	return &Config{
		RowSource: SourceSheets,
		Tabs: Tabs{
			Products:  "Products",
			Customers: "Customers",
			Company:   "Company",
			Orders:    "Orders",
		},
		OutputDir:           "./out/",
		Delivery:            DeliveryNone,
		BatchWorkers:        1,
		SeedFromExistingIDs: false,
		Port:                8080,
		LogLevel:            "info",
		LogFormat:           "console",
		LogTimeFormat:       "2006-01-02T15:04:05Z07:00",
		LogOutput:           "stdout",
	}
}

// Load reads CONFIG_FILE (default config.yaml) when it exists, applies the
// environment on top and validates the result.
func Load() (*Config, error) {
	return LoadFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadFile is Load with an explicit file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	config := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	c.RowSource = strings.ToLower(getEnv("ROW_SOURCE", c.RowSource))
	c.GoogleSheetURL = getEnv("GOOGLE_SHEET_URL", c.GoogleSheetURL)
	c.WorkbookPath = getEnv("WORKBOOK_PATH", c.WorkbookPath)
	c.Tabs.Products = getEnv("SHEET_PRODUCTS", c.Tabs.Products)
	c.Tabs.Customers = getEnv("SHEET_CUSTOMERS", c.Tabs.Customers)
	c.Tabs.Company = getEnv("SHEET_COMPANY", c.Tabs.Company)
	c.Tabs.Orders = getEnv("SHEET_ORDERS", c.Tabs.Orders)

	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.Delivery = strings.ToLower(getEnv("DELIVERY", c.Delivery))
	c.DriveFolderID = getEnv("DRIVE_FOLDER_ID", c.DriveFolderID)
	c.S3.Bucket = getEnv("S3_BUCKET", c.S3.Bucket)
	c.S3.Prefix = getEnv("S3_PREFIX", c.S3.Prefix)
	c.S3.Region = getEnv("S3_REGION", c.S3.Region)
	c.S3.Endpoint = getEnv("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.AccessKey = getEnv("S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = getEnv("S3_SECRET_KEY", c.S3.SecretKey)

	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))
	c.LogTimeFormat = getEnv("LOG_TIME_FORMAT", c.LogTimeFormat)
	c.LogOutput = getEnv("LOG_OUTPUT", c.LogOutput)

	var err error
	if c.Upload, err = getEnvBool("UPLOAD", c.Upload); err != nil {
		return err
	}
	if c.S3.UsePathStyle, err = getEnvBool("S3_USE_PATH_STYLE", c.S3.UsePathStyle); err != nil {
		return err
	}
	if c.SeedFromExistingIDs, err = getEnvBool("SEED_FROM_EXISTING_IDS", c.SeedFromExistingIDs); err != nil {
		return err
	}
	if c.BatchWorkers, err = getEnvInt("BATCH_WORKERS", c.BatchWorkers); err != nil {
		return err
	}
	if c.Port, err = getEnvInt("PORT", c.Port); err != nil {
		return err
	}
	return nil
}

var validate = validator.New()

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s failed the %q check (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value()))
		}
		return err
	}
	if c.Delivery == DeliveryS3 && c.S3.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required for s3 delivery")
	}
	if c.Upload && c.Delivery == DeliveryNone {
		return fmt.Errorf("UPLOAD needs DELIVERY set to drive or s3")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return b, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, value)
	}
	return n, nil
}
