package main

import (
	"fmt"
	"log"
	"os"

	"github.com/receiptlens/backend/config"
	httpDelivery "github.com/receiptlens/backend/internal/delivery/http"
	"github.com/receiptlens/backend/internal/domain"
	"github.com/receiptlens/backend/internal/infrastructure/cache"
	"github.com/receiptlens/backend/internal/infrastructure/openfoodfacts"
	"github.com/receiptlens/backend/internal/infrastructure/sheets"
	"github.com/receiptlens/backend/internal/infrastructure/store"
	"github.com/receiptlens/backend/internal/infrastructure/translate"
	"github.com/receiptlens/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ReceiptLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Locales: %s (catalog) -> %s (receipt), %s (display)",
		cfg.Translate.SourceLocale, cfg.Translate.ReceiptLocale, cfg.Translate.DisplayLocale)

	// Infrastructure dependencies
	runStore := store.NewCSVStore(cfg.Store.ProductsPath, cfg.Store.ItemsPath)
	if err := runStore.Reset(); err != nil {
		// Stale products from a previous session would pollute this one
		log.Printf("WARNING: could not reset product store: %v", err)
	}

	memoryCache := cache.NewMemoryCache()
	translator := translate.NewClient(cfg.Translate.BaseURL)
	catalogClient := openfoodfacts.NewClient(cfg.Catalog.BaseURL)

	// Usecase layer
	normalizer, err := usecase.NewNameNormalizer(cfg.Matching.Stopwords, cfg.Matching.UnitPattern)
	if err != nil {
		log.Fatalf("Failed to build name normalizer: %v", err)
	}

	receiptService := usecase.NewReceiptService(translator, normalizer, usecase.ReceiptConfig{
		ReceiptLocale:      cfg.Translate.ReceiptLocale,
		DisplayLocale:      cfg.Translate.DisplayLocale,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	catalogService := usecase.NewCatalogService(catalogClient, memoryCache, runStore, usecase.CatalogConfig{
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	matcher := usecase.NewMatchingService(usecase.MatchConfig{
		Threshold:          cfg.Matching.Threshold,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	pipeline := usecase.NewPipelineService(translator, normalizer, matcher, usecase.PipelineConfig{
		SourceLocale:       cfg.Translate.SourceLocale,
		ReceiptLocale:      cfg.Translate.ReceiptLocale,
		DisplayLocale:      cfg.Translate.DisplayLocale,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	log.Printf("Matching: threshold=%d, stopwords=%v, debug=%v",
		matcher.Threshold(), cfg.Matching.Stopwords, cfg.Matching.EnableDebugLogging)

	var writer domain.ReportWriter
	if cfg.Sheets.Enabled {
		writer = sheets.NewWriter(cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, cfg.Sheets.CredentialsFile)
		log.Printf("Sheets export enabled: spreadsheet %s, sheet %q", cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
	} else {
		log.Printf("Sheets export disabled")
	}

	// HTTP delivery
	handler := httpDelivery.NewHandler(receiptService, catalogService, pipeline, runStore, writer)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
