package domain

import "github.com/shopspring/decimal"

// ProductRecord represents a product resolved from a scanned barcode.
// Macros hold nutrient values per 100 units (grams or milliliters),
// keyed by nutrient name.
type ProductRecord struct {
	Barcode     string             `json:"barcode"`
	ProductName string             `json:"product_name"`
	Quantity    *float64           `json:"quantity,omitempty"`
	Macros      map[string]float64 `json:"macros"`
}

// MatchedProduct is a ProductRecord merged with its receipt match.
// MatchedPrice, MatchScore and MatchedReceiptName are populated together
// when a match is accepted and are all nil otherwise; EnglishName is set
// on both paths.
type MatchedProduct struct {
	ProductName        string           `json:"product_name"`
	EnglishName        string           `json:"english_name"`
	Calories           *float64         `json:"calories,omitempty"`
	Protein            *float64         `json:"protein,omitempty"`
	Fat                *float64         `json:"fat,omitempty"`
	PortionSize        *float64         `json:"portion_size,omitempty"`
	NumServings        float64          `json:"num_servings"`
	MatchedPrice       *decimal.Decimal `json:"matched_price,omitempty"`
	MatchScore         *int             `json:"match_score,omitempty"`
	MatchedReceiptName *string          `json:"matched_receipt_name,omitempty"`
}

// Matched reports whether this product was paired with a receipt item
func (p *MatchedProduct) Matched() bool {
	return p.MatchedPrice != nil
}

// MatchReport is the full output of one pipeline run
type MatchReport struct {
	Products []MatchedProduct `json:"products"`
	Matched  int              `json:"matched"`
	Total    int              `json:"total"`
}

// MatchResult represents an accepted fuzzy match for one product
type MatchResult struct {
	ItemIndex int    `json:"itemIndex"`
	Score     int    `json:"score"`
	Technique string `json:"technique"`
}
