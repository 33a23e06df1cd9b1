package openfoodfacts

import (
	"strconv"
	"strings"

	"github.com/receiptlens/backend/internal/domain"
)

// productResponse is the OpenFoodFacts product lookup envelope
type productResponse struct {
	Status  int             `json:"status"`
	Product *productPayload `json:"product"`
}

// productPayload holds the fields we consume from a product entry
type productPayload struct {
	ProductName string                 `json:"product_name"`
	Quantity    string                 `json:"quantity"`
	Nutriments  map[string]interface{} `json:"nutriments"`
}

// macroKeys maps our nutrient names to the per-100g/ml nutriment keys
var macroKeys = map[string]string{
	"calories":      "energy-kcal_100g",
	"protein":       "proteins_100g",
	"fat":           "fat_100g",
	"carbohydrates": "carbohydrates_100g",
	"fiber":         "fiber_100g",
	"sugars":        "sugars_100g",
}

// mapToProductRecord converts an OpenFoodFacts product payload to our
// domain ProductRecord
func mapToProductRecord(barcode string, p *productPayload) *domain.ProductRecord {
	record := &domain.ProductRecord{
		Barcode:     barcode,
		ProductName: p.ProductName,
		Macros:      make(map[string]float64, len(macroKeys)),
	}

	for name, key := range macroKeys {
		if value, ok := nutrimentValue(p.Nutriments, key); ok {
			record.Macros[name] = value
		}
	}

	if quantity, ok := parseQuantity(p.Quantity); ok {
		record.Quantity = &quantity
	}

	return record
}

// nutrimentValue reads a nutriment that may arrive as a JSON number or
// a numeric string, depending on the product entry
func nutrimentValue(nutriments map[string]interface{}, key string) (float64, bool) {
	switch v := nutriments[key].(type) {
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// parseQuantity extracts the numeric part of quantity strings like
// "500 g" or "1.5 L"
func parseQuantity(quantity string) (float64, bool) {
	var b strings.Builder
	for _, r := range quantity {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
