package config

import (
	"strings"
	"testing"
	"time"
)

func defaultConfig() *Config {
	return &Config{
		Translate: TranslateConfig{
			SourceLocale:  "es",
			ReceiptLocale: "ca",
			DisplayLocale: "en",
		},
		Matching: MatchingConfig{
			Threshold:   60,
			UnitPattern: `\d+\s*(kg|g|l|ml|cl|oz|lb|pack|u)`,
		},
		Store: StoreConfig{
			ProductsPath: "receipts/decoded_products.csv",
			ItemsPath:    "receipts/parsed_receipt.csv",
		},
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Matching.Threshold != 60 {
		t.Errorf("Threshold = %d, want 60", cfg.Matching.Threshold)
	}
	if cfg.Translate.SourceLocale != "es" || cfg.Translate.ReceiptLocale != "ca" || cfg.Translate.DisplayLocale != "en" {
		t.Errorf("locales = %q/%q/%q, want es/ca/en",
			cfg.Translate.SourceLocale, cfg.Translate.ReceiptLocale, cfg.Translate.DisplayLocale)
	}
	if cfg.Cache.TTL != 720*time.Hour {
		t.Errorf("Cache TTL = %v, want 720h", cfg.Cache.TTL)
	}
	if cfg.Sheets.Enabled {
		t.Error("sheets export should be disabled by default")
	}
	if len(cfg.Matching.Stopwords) == 0 {
		t.Error("default stopwords should not be empty")
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts the defaults", func(t *testing.T) {
		if err := validate(defaultConfig()); err != nil {
			t.Errorf("validate: %v", err)
		}
	})

	t.Run("rejects a threshold above 100", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Matching.Threshold = 150
		if err := validate(cfg); err == nil {
			t.Error("expected error for threshold 150")
		}
	})

	t.Run("rejects a negative threshold", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Matching.Threshold = -1
		if err := validate(cfg); err == nil {
			t.Error("expected error for threshold -1")
		}
	})

	t.Run("rejects a broken unit pattern", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Matching.UnitPattern = `\d+(`
		err := validate(cfg)
		if err == nil {
			t.Fatal("expected error for unbalanced pattern")
		}
		if !strings.Contains(err.Error(), "unit pattern") {
			t.Errorf("error = %v, want mention of unit pattern", err)
		}
	})

	t.Run("rejects missing locales", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Translate.ReceiptLocale = ""
		if err := validate(cfg); err == nil {
			t.Error("expected error for missing receipt locale")
		}
	})

	t.Run("rejects missing store paths", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Store.ItemsPath = ""
		if err := validate(cfg); err == nil {
			t.Error("expected error for missing items path")
		}
	})

	t.Run("rejects sheets export without a spreadsheet id", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Sheets.Enabled = true
		err := validate(cfg)
		if err == nil {
			t.Fatal("expected error for enabled sheets without spreadsheet id")
		}
		if !strings.Contains(err.Error(), "spreadsheet") {
			t.Errorf("error = %v, want mention of spreadsheet", err)
		}
	})

	t.Run("accepts sheets export with a spreadsheet id", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Sheets.Enabled = true
		cfg.Sheets.SpreadsheetID = "1AbC"
		if err := validate(cfg); err != nil {
			t.Errorf("validate: %v", err)
		}
	})
}
