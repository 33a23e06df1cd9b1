package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/receiptlens/backend/internal/domain"
)

// CatalogConfig holds configuration for the catalog service
type CatalogConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// CatalogService resolves decoded barcode strings into product records,
// with a lookup cache in front of the catalog API. Resolved products
// are appended to the accumulation store so later match runs see them.
type CatalogService struct {
	client   domain.CatalogClient
	cache    domain.CacheRepository
	store    domain.RunStore
	cacheTTL time.Duration
	debug    bool
}

// NewCatalogService creates a catalog service with dependencies
func NewCatalogService(
	client domain.CatalogClient,
	cache domain.CacheRepository,
	store domain.RunStore,
	config CatalogConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour
	}

	return &CatalogService{
		client:   client,
		cache:    cache,
		store:    store,
		cacheTTL: cacheTTL,
		debug:    config.EnableDebugLogging,
	}
}

// ResolveBarcodes looks up every barcode and returns the products that
// resolved. Unknown barcodes are logged and skipped; a catalog outage
// aborts the whole run so no partial batch is stored. Returns
// ErrProductNotFound when no barcode resolved at all.
func (s *CatalogService) ResolveBarcodes(ctx context.Context, barcodes []string) ([]domain.ProductRecord, error) {
	if len(barcodes) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	products := make([]domain.ProductRecord, 0, len(barcodes))
	for _, code := range barcodes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		product, err := s.lookup(ctx, code)
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Printf("[CATALOG] barcode %s not found, skipping", code)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}

		products = append(products, *product)
	}

	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}

	if s.store != nil {
		if err := s.store.AppendProducts(products); err != nil {
			return nil, err
		}
	}

	return products, nil
}

// lookup checks the cache before hitting the catalog API
func (s *CatalogService) lookup(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	cacheKey := "product:" + barcode

	if s.cache != nil {
		if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
			if s.debug {
				log.Printf("[CATALOG] cache hit for barcode %s", barcode)
			}
			return cached, nil
		}
	}

	product, err := s.client.LookupBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, product, s.cacheTTL); err != nil {
			log.Printf("[CATALOG] failed to cache barcode %s: %v", barcode, err)
		}
	}

	return product, nil
}

// getFromCache rehydrates a cached value into a ProductRecord. The
// cache stores JSON-roundtripped values, so the value comes back as a
// generic map and goes through JSON once more.
func (s *CatalogService) getFromCache(ctx context.Context, key string) (*domain.ProductRecord, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}

	var product domain.ProductRecord
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, domain.ErrCacheMiss
	}
	if product.Barcode == "" {
		return nil, domain.ErrCacheMiss
	}

	return &product, nil
}
