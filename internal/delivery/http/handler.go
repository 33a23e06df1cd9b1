package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receiptlens/backend/internal/domain"
)

// ReceiptParser parses raw OCR text into priced receipt items
type ReceiptParser interface {
	ParseReceipt(ctx context.Context, text string) ([]domain.ReceiptItem, error)
}

// BarcodeResolver resolves decoded barcode strings into product records
type BarcodeResolver interface {
	ResolveBarcodes(ctx context.Context, barcodes []string) ([]domain.ProductRecord, error)
}

// PriceMatcher runs the matching pipeline over products and items
type PriceMatcher interface {
	MatchPrices(ctx context.Context, products []domain.ProductRecord, items []domain.ReceiptItem) (*domain.MatchReport, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	receipts ReceiptParser
	catalog  BarcodeResolver
	pipeline PriceMatcher
	store    domain.RunStore
	writer   domain.ReportWriter
}

// NewHandler creates a new HTTP handler. writer may be nil when
// spreadsheet export is disabled.
func NewHandler(receipts ReceiptParser, catalog BarcodeResolver, pipeline PriceMatcher, store domain.RunStore, writer domain.ReportWriter) *Handler {
	return &Handler{
		receipts: receipts,
		catalog:  catalog,
		pipeline: pipeline,
		store:    store,
		writer:   writer,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "receiptlens-backend",
		"version": "1.0.0",
	})
}

// ParseReceipt handles receipt text uploads: parses the text into
// priced items and stores them for the next match run
func (h *Handler) ParseReceipt(c *gin.Context) {
	var req domain.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no receipt text provided"})
		return
	}

	items, err := h.receipts.ParseReceipt(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.ReplaceItems(items); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// barcodesRequest is the payload for the barcode resolution endpoint.
// Barcode symbol decoding happens on the client; only the decoded
// strings reach the server.
type barcodesRequest struct {
	Barcodes []string `json:"barcodes" binding:"required"`
}

// ResolveBarcodes handles batches of decoded barcodes: looks each one
// up in the catalog and appends the resolved products to the store
func (h *Handler) ResolveBarcodes(c *gin.Context) {
	var req barcodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no barcodes provided"})
		return
	}

	products, err := h.catalog.ResolveBarcodes(c.Request.Context(), req.Barcodes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// matchRequest is the payload for the match endpoint
type matchRequest struct {
	Save bool `json:"save"`
}

// MatchPrices runs the matching pipeline over the stored products and
// receipt items, optionally exporting the report to the spreadsheet
func (h *Handler) MatchPrices(c *gin.Context) {
	var req matchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	products, err := h.store.LoadProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := h.store.LoadItems()
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.pipeline.MatchPrices(c.Request.Context(), products, items)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Save {
		if h.writer == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "spreadsheet export is not configured"})
			return
		}
		if err := h.writer.Write(c.Request.Context(), report); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, report)
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyReceipt),
		errors.Is(err, domain.ErrEmptyCatalog),
		errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, domain.ErrSheetsUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
