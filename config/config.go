package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"sjsage522/bookworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Catalog configuration
	CatalogBaseURL string
	PageCount      int // 0 walks pages until the catalog ends
	MaxPages       int
	HTTPTimeout    time.Duration
	CurrencySymbol string

	// Persisted files
	RawCSVPath         string
	TransformedCSVPath string
	ErrorLogPath       string

	// Warehouse credentials
	Account  string
	Username string
	Password string

	// Warehouse namespace
	Warehouse  string
	Database   string
	Schema     string
	Stage      string
	FileFormat string
	Table      string

	// Dashboard configuration
	DashboardAddr string
	MemcacheAddr  string
	SnapshotTTL   time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Metrics
	PushgatewayURL string

	// Environment
	Environment string
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	pageCount, _ := strconv.Atoi(getEnv("CATALOG_PAGE_COUNT", "0"))
	maxPages, _ := strconv.Atoi(getEnv("CATALOG_MAX_PAGES", "50"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "10"))
	snapshotTTL, _ := strconv.Atoi(getEnv("SNAPSHOT_TTL_SECONDS", "300"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "100"))

	return Config{
		CatalogBaseURL:       getEnv("CATALOG_BASE_URL", "https://books.toscrape.com"),
		PageCount:            pageCount,
		MaxPages:             maxPages,
		HTTPTimeout:          time.Duration(httpTimeout) * time.Second,
		CurrencySymbol:       getEnv("CURRENCY_SYMBOL", "£"),
		RawCSVPath:           getEnv("RAW_CSV_PATH", "books.csv"),
		TransformedCSVPath:   getEnv("TRANSFORMED_CSV_PATH", "books_transformed.csv"),
		ErrorLogPath:         getEnv("ERROR_LOG_PATH", "pipeline_errors.log"),
		Account:              os.Getenv("SNOWFLAKE_ACCOUNT"),
		Username:             os.Getenv("SNOWFLAKE_USERNAME"),
		Password:             os.Getenv("SNOWFLAKE_PASSWORD"),
		Warehouse:            getEnv("SNOWFLAKE_WAREHOUSE", "books_warehouse"),
		Database:             getEnv("SNOWFLAKE_DATABASE", "books_database"),
		Schema:               getEnv("SNOWFLAKE_SCHEMA", "books_schema"),
		Stage:                getEnv("SNOWFLAKE_STAGE", "books_stage"),
		FileFormat:           getEnv("SNOWFLAKE_FILE_FORMAT", "books_file_format"),
		Table:                getEnv("SNOWFLAKE_TABLE", "books_table"),
		DashboardAddr:        getEnv("DASHBOARD_ADDR", ":8501"),
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		SnapshotTTL:          time.Duration(snapshotTTL) * time.Second,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "books:runs"),
		RedisStreamMaxLength: redisStreamMaxLength,
		PushgatewayURL:       os.Getenv("PUSHGATEWAY_URL"),
		Environment:          getEnv("BOOKS_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration can drive a pipeline run or a dashboard
func (c Config) Validate() error {
	if c.CatalogBaseURL == "" {
		return errors.NewConfiguration("CATALOG_BASE_URL is required", nil)
	}
	if c.MaxPages <= 0 {
		return errors.NewConfiguration(fmt.Sprintf("CATALOG_MAX_PAGES must be positive, got %d", c.MaxPages), nil)
	}
	if c.PageCount < 0 || c.PageCount > c.MaxPages {
		return errors.NewConfiguration(fmt.Sprintf("CATALOG_PAGE_COUNT must be within [0, %d], got %d", c.MaxPages, c.PageCount), nil)
	}
	if c.CurrencySymbol == "" {
		return errors.NewConfiguration("CURRENCY_SYMBOL is required", nil)
	}

	for name, value := range map[string]string{
		"SNOWFLAKE_ACCOUNT":  c.Account,
		"SNOWFLAKE_USERNAME": c.Username,
		"SNOWFLAKE_PASSWORD": c.Password,
	} {
		if value == "" {
			return errors.NewConfiguration(name+" is required", nil)
		}
	}

	for name, value := range map[string]string{
		"SNOWFLAKE_WAREHOUSE":   c.Warehouse,
		"SNOWFLAKE_DATABASE":    c.Database,
		"SNOWFLAKE_SCHEMA":      c.Schema,
		"SNOWFLAKE_STAGE":       c.Stage,
		"SNOWFLAKE_FILE_FORMAT": c.FileFormat,
		"SNOWFLAKE_TABLE":       c.Table,
	} {
		if !identifierPattern.MatchString(value) {
			return errors.NewConfiguration(fmt.Sprintf("%s is not a valid identifier: %q", name, value), nil)
		}
	}

	return nil
}

// Redacted returns a copy safe to log: credentials are masked
func (c Config) Redacted() Config {
	masked := c
	masked.Account = mask(c.Account)
	masked.Username = mask(c.Username)
	masked.Password = mask(c.Password)
	return masked
}

func mask(value string) string {
	if value == "" {
		return ""
	}
	return "****"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
