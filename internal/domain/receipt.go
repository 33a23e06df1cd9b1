package domain

import "github.com/shopspring/decimal"

// ReceiptItem is one purchased line item recovered from OCR'd receipt text.
// Items without a parseable price are dropped during extraction and never
// reach this type, so Price is always set and positive.
type ReceiptItem struct {
	OriginalName   string          `json:"original_name"`
	Price          decimal.Decimal `json:"price"`
	TranslatedName string          `json:"translated_name,omitempty"`
	SimpleName     string          `json:"simple_name,omitempty"`
}

// ParseRequest is the payload for the receipt parsing endpoint
type ParseRequest struct {
	Text string `json:"text" binding:"required"`
}
