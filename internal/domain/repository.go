package domain

import (
	"context"
	"time"
)

// Translator is the external translation capability. Implementations
// return an error on any failure; the pipeline falls back to the
// original text so downstream code never observes a failed translation.
type Translator interface {
	Translate(ctx context.Context, text, sourceLocale, destLocale string) (string, error)
}

// CatalogClient resolves a barcode into a product record
type CatalogClient interface {
	LookupBarcode(ctx context.Context, barcode string) (*ProductRecord, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RunStore is the external accumulation store shared between runs:
// decoded products accumulate append-only, parsed receipt items are
// replaced wholesale by each parse.
type RunStore interface {
	AppendProducts(products []ProductRecord) error
	LoadProducts() ([]ProductRecord, error)
	ReplaceItems(items []ReceiptItem) error
	LoadItems() ([]ReceiptItem, error)
	Reset() error
}

// ReportWriter is the external tabular-persistence collaborator
type ReportWriter interface {
	Write(ctx context.Context, report *MatchReport) error
}
