package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Translate TranslateConfig
	Matching  MatchingConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Store     StoreConfig
	Sheets    SheetsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// TranslateConfig holds translation locales and endpoint.
// SourceLocale is the language of catalog product names, ReceiptLocale
// the language printed on receipts, DisplayLocale the language of the
// exported english_name column.
type TranslateConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	SourceLocale  string `mapstructure:"source_locale"`
	ReceiptLocale string `mapstructure:"receipt_locale"`
	DisplayLocale string `mapstructure:"display_locale"`
}

// MatchingConfig holds fuzzy matching configuration
type MatchingConfig struct {
	Threshold          int      `mapstructure:"threshold"`
	Stopwords          []string `mapstructure:"stopwords"`
	UnitPattern        string   `mapstructure:"unit_pattern"`
	EnableDebugLogging bool     `mapstructure:"enable_debug_logging"`
}

// CatalogConfig holds barcode catalog API configuration
type CatalogConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StoreConfig holds accumulation store file paths
type StoreConfig struct {
	ProductsPath string `mapstructure:"products_path"`
	ItemsPath    string `mapstructure:"items_path"`
}

// SheetsConfig holds spreadsheet export configuration
type SheetsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	SheetName       string `mapstructure:"sheet_name"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/receiptlens/")

	v.SetEnvPrefix("RECEIPTLENS")
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Translate defaults: Spanish catalog names, Catalan receipts,
	// English display names
	v.SetDefault("translate.base_url", "https://translate.googleapis.com")
	v.SetDefault("translate.source_locale", "es")
	v.SetDefault("translate.receipt_locale", "ca")
	v.SetDefault("translate.display_locale", "en")

	// Matching defaults
	v.SetDefault("matching.threshold", 60)
	v.SetDefault("matching.stopwords", []string{"tray", "eco", "safata", "pantry"})
	v.SetDefault("matching.unit_pattern", `\d+\s*(kg|g|l|ml|cl|oz|lb|pack|u)`)
	v.SetDefault("matching.enable_debug_logging", false)

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://world.openfoodfacts.org")

	// Cache defaults
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Store defaults
	v.SetDefault("store.products_path", "receipts/decoded_products.csv")
	v.SetDefault("store.items_path", "receipts/parsed_receipt.csv")

	// Sheets defaults
	v.SetDefault("sheets.enabled", false)
	v.SetDefault("sheets.sheet_name", "Receipts")
	v.SetDefault("sheets.credentials_file", "service_account.json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Matching.Threshold < 0 || config.Matching.Threshold > 100 {
		return fmt.Errorf("matching threshold must be in [0,100], got: %d", config.Matching.Threshold)
	}

	if _, err := regexp.Compile(`(?i)` + config.Matching.UnitPattern); err != nil {
		return fmt.Errorf("matching unit pattern does not compile: %w", err)
	}

	if config.Translate.SourceLocale == "" || config.Translate.ReceiptLocale == "" || config.Translate.DisplayLocale == "" {
		return fmt.Errorf("all three translate locales are required")
	}

	if config.Store.ProductsPath == "" || config.Store.ItemsPath == "" {
		return fmt.Errorf("store file paths are required")
	}

	if config.Sheets.Enabled && config.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet id is required when sheets export is enabled (set RECEIPTLENS_SHEETS_SPREADSHEET_ID)")
	}

	return nil
}
