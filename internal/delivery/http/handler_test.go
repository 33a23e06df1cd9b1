package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptlens/backend/internal/domain"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeParser struct {
	items []domain.ReceiptItem
	err   error
}

func (f *fakeParser) ParseReceipt(ctx context.Context, text string) ([]domain.ReceiptItem, error) {
	return f.items, f.err
}

type fakeResolver struct {
	products []domain.ProductRecord
	err      error
}

func (f *fakeResolver) ResolveBarcodes(ctx context.Context, barcodes []string) ([]domain.ProductRecord, error) {
	return f.products, f.err
}

type fakeMatcher struct {
	report *domain.MatchReport
	err    error
}

func (f *fakeMatcher) MatchPrices(ctx context.Context, products []domain.ProductRecord, items []domain.ReceiptItem) (*domain.MatchReport, error) {
	return f.report, f.err
}

type fakeStore struct {
	products []domain.ProductRecord
	items    []domain.ReceiptItem
	loadErr  error
}

func (f *fakeStore) AppendProducts(products []domain.ProductRecord) error {
	f.products = append(f.products, products...)
	return nil
}
func (f *fakeStore) LoadProducts() ([]domain.ProductRecord, error) { return f.products, f.loadErr }
func (f *fakeStore) ReplaceItems(items []domain.ReceiptItem) error {
	f.items = items
	return nil
}
func (f *fakeStore) LoadItems() ([]domain.ReceiptItem, error) { return f.items, f.loadErr }
func (f *fakeStore) Reset() error                             { return nil }

type fakeWriter struct {
	written *domain.MatchReport
	err     error
}

func (f *fakeWriter) Write(ctx context.Context, report *domain.MatchReport) error {
	if f.err != nil {
		return f.err
	}
	f.written = report
	return nil
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.POST("/api/v1/receipt/parse", handler.ParseReceipt)
	router.POST("/api/v1/barcodes", handler.ResolveBarcodes)
	router.POST("/api/v1/match", handler.MatchPrices)
	return router
}

func TestHealthCheck(t *testing.T) {
	handler := NewHandler(&fakeParser{}, &fakeResolver{}, &fakeMatcher{}, &fakeStore{}, nil)
	w := performRequest(newRouter(handler), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestParseReceiptEndpoint(t *testing.T) {
	items := []domain.ReceiptItem{{
		OriginalName: "LLET SEMI",
		Price:        decimal.RequireFromString("1.62"),
		SimpleName:   "semi milk",
	}}

	t.Run("returns parsed items and stores them", func(t *testing.T) {
		store := &fakeStore{}
		handler := NewHandler(&fakeParser{items: items}, &fakeResolver{}, &fakeMatcher{}, store, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/receipt/parse", gin.H{"text": "LLET SEMI\n1,62"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "semi milk")
		assert.Len(t, store.items, 1)
	})

	t.Run("rejects a missing text field", func(t *testing.T) {
		handler := NewHandler(&fakeParser{items: items}, &fakeResolver{}, &fakeMatcher{}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/receipt/parse", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps an empty receipt to 400", func(t *testing.T) {
		handler := NewHandler(&fakeParser{err: domain.ErrEmptyReceipt}, &fakeResolver{}, &fakeMatcher{}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/receipt/parse", gin.H{"text": "€ € €"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestResolveBarcodesEndpoint(t *testing.T) {
	t.Run("returns resolved products", func(t *testing.T) {
		products := []domain.ProductRecord{{Barcode: "8411100001234", ProductName: "Leche Semi"}}
		handler := NewHandler(&fakeParser{}, &fakeResolver{products: products}, &fakeMatcher{}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/barcodes", gin.H{"barcodes": []string{"8411100001234"}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Leche Semi")
	})

	t.Run("rejects a missing barcodes field", func(t *testing.T) {
		handler := NewHandler(&fakeParser{}, &fakeResolver{}, &fakeMatcher{}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/barcodes", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps unknown products to 404", func(t *testing.T) {
		handler := NewHandler(&fakeParser{}, &fakeResolver{err: domain.ErrProductNotFound}, &fakeMatcher{}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/barcodes", gin.H{"barcodes": []string{"0"}})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("maps a catalog outage to 502", func(t *testing.T) {
		handler := NewHandler(&fakeParser{}, &fakeResolver{err: domain.ErrCatalogUnavailable}, &fakeMatcher{}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/barcodes", gin.H{"barcodes": []string{"0"}})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestMatchPricesEndpoint(t *testing.T) {
	score := 84
	price := decimal.RequireFromString("1.62")
	report := &domain.MatchReport{
		Products: []domain.MatchedProduct{{
			ProductName:  "Leche Semi",
			EnglishName:  "semi milk",
			MatchedPrice: &price,
			MatchScore:   &score,
		}},
		Matched: 1,
		Total:   1,
	}

	t.Run("returns the match report", func(t *testing.T) {
		handler := NewHandler(&fakeParser{}, &fakeResolver{}, &fakeMatcher{report: report}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/match", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "semi milk")

		var decoded domain.MatchReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
		assert.Equal(t, 1, decoded.Matched)
		assert.Equal(t, 1, decoded.Total)
	})

	t.Run("save writes the report to the spreadsheet", func(t *testing.T) {
		writer := &fakeWriter{}
		handler := NewHandler(&fakeParser{}, &fakeResolver{}, &fakeMatcher{report: report}, &fakeStore{}, writer)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/match", gin.H{"save": true})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, writer.written)
		assert.Equal(t, 1, writer.written.Matched)
	})

	t.Run("save without a configured writer is rejected", func(t *testing.T) {
		handler := NewHandler(&fakeParser{}, &fakeResolver{}, &fakeMatcher{report: report}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/match", gin.H{"save": true})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps an empty catalog to 400", func(t *testing.T) {
		handler := NewHandler(&fakeParser{}, &fakeResolver{}, &fakeMatcher{err: domain.ErrEmptyCatalog}, &fakeStore{}, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/match", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps a store failure to 503", func(t *testing.T) {
		store := &fakeStore{loadErr: domain.ErrStoreUnavailable}
		handler := NewHandler(&fakeParser{}, &fakeResolver{}, &fakeMatcher{report: report}, store, nil)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/match", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("maps a sheets failure to 502", func(t *testing.T) {
		writer := &fakeWriter{err: domain.ErrSheetsUnavailable}
		handler := NewHandler(&fakeParser{}, &fakeResolver{}, &fakeMatcher{report: report}, &fakeStore{}, writer)

		w := performRequest(newRouter(handler), http.MethodPost, "/api/v1/match", gin.H{"save": true})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
