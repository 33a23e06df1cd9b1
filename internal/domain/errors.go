package domain

import "errors"

var (
	// ErrEmptyReceipt is returned when no receipt text is supplied or no items could be extracted
	ErrEmptyReceipt = errors.New("no receipt items available")

	// ErrEmptyCatalog is returned when no decoded product records are available
	ErrEmptyCatalog = errors.New("no decoded products available")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when a barcode is unknown to the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrCatalogUnavailable is returned when the catalog API request fails
	ErrCatalogUnavailable = errors.New("catalog API request failed")

	// ErrTranslateUnavailable is returned by the translate client when the service fails;
	// callers above the adapter fall back to the original text and never see it
	ErrTranslateUnavailable = errors.New("translate API request failed")

	// ErrStoreUnavailable is returned when the accumulation store cannot be read or written
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrSheetsUnavailable is returned when the spreadsheet export fails
	ErrSheetsUnavailable = errors.New("spreadsheet export failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
