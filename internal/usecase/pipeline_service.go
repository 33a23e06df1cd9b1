package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/receiptlens/backend/internal/domain"
)

// PipelineConfig holds configuration for the matching pipeline
type PipelineConfig struct {
	SourceLocale       string // locale of catalog product names
	ReceiptLocale      string // locale printed on the receipt
	DisplayLocale      string // locale for the exported english_name column
	EnableDebugLogging bool
}

// PipelineService orchestrates the full reconciliation: translate and
// normalize both sides, fuzzy-match every product against the receipt
// items, and merge prices into the product records.
type PipelineService struct {
	translator    domain.Translator
	normalizer    *NameNormalizer
	matcher       *MatchingService
	sourceLocale  string
	receiptLocale string
	displayLocale string
	debug         bool
}

// NewPipelineService creates a matching pipeline with dependencies
func NewPipelineService(
	translator domain.Translator,
	normalizer *NameNormalizer,
	matcher *MatchingService,
	config PipelineConfig,
) *PipelineService {
	return &PipelineService{
		translator:    translator,
		normalizer:    normalizer,
		matcher:       matcher,
		sourceLocale:  config.SourceLocale,
		receiptLocale: config.ReceiptLocale,
		displayLocale: config.DisplayLocale,
		debug:         config.EnableDebugLogging,
	}
}

// MatchPrices pairs every product with its most plausible receipt item.
// Matched products get the item's price, the score, and the item's
// original untranslated name, all populated together; unmatched
// products keep those fields nil. english_name is set on every product
// either way. The full product list is emitted, matched or not.
//
// An empty product list aborts the run; an empty item list is not an
// error and simply leaves every product unmatched. Nothing stops two
// products from claiming the same receipt item.
func (s *PipelineService) MatchPrices(
	ctx context.Context,
	products []domain.ProductRecord,
	items []domain.ReceiptItem,
) (*domain.MatchReport, error) {
	if len(products) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	itemKeys := make([]string, len(items))
	for i, item := range items {
		itemKeys[i] = s.normalizer.Simplify(item.OriginalName)
	}

	merged := make([]domain.MatchedProduct, 0, len(products))
	matched := 0

	for _, product := range products {
		name := strings.ToLower(product.ProductName)
		receiptName := strings.ToLower(translateOrFallback(ctx, s.translator, name, s.sourceLocale, s.receiptLocale))
		englishName := strings.ToLower(translateOrFallback(ctx, s.translator, name, s.sourceLocale, s.displayLocale))

		productKey := s.normalizer.Simplify(receiptName)
		if s.debug {
			log.Printf("[PIPELINE] matching product %q as %q (key %q)", product.ProductName, receiptName, productKey)
		}

		out := newMatchedProduct(product, englishName)

		if result, ok := s.matcher.BestMatch(productKey, itemKeys); ok {
			item := items[result.ItemIndex]
			price := item.Price
			score := result.Score
			receiptItemName := item.OriginalName

			out.MatchedPrice = &price
			out.MatchScore = &score
			out.MatchedReceiptName = &receiptItemName
			matched++

			log.Printf("[PIPELINE] matched %q with %q via %s (score %d, price %s)",
				product.ProductName, receiptItemName, result.Technique, score, price)
		} else {
			log.Printf("[PIPELINE] no match for %q", product.ProductName)
		}

		merged = append(merged, out)
	}

	log.Printf("[PIPELINE] summary: %d/%d products matched", matched, len(merged))

	return &domain.MatchReport{
		Products: merged,
		Matched:  matched,
		Total:    len(merged),
	}, nil
}

// newMatchedProduct carries the catalog fields of a product into the
// merged output record, with match fields still unset
func newMatchedProduct(product domain.ProductRecord, englishName string) domain.MatchedProduct {
	out := domain.MatchedProduct{
		ProductName: product.ProductName,
		EnglishName: englishName,
		NumServings: 1,
	}
	if product.Quantity != nil && *product.Quantity > 0 {
		out.NumServings = *product.Quantity
	}

	if v, ok := product.Macros["calories"]; ok {
		out.Calories = &v
	}
	if v, ok := product.Macros["protein"]; ok {
		out.Protein = &v
	}
	if v, ok := product.Macros["fat"]; ok {
		out.Fat = &v
	}

	return out
}
