package usecase

import (
	"context"
	"log"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/receiptlens/backend/internal/domain"
)

// priceTokenRegex matches a price token: digits, a comma or period
// separator, then up to two decimal digits. OCR output from European
// receipts uses commas, so both separators are accepted.
var priceTokenRegex = regexp.MustCompile(`\d+[.,]\d{0,2}`)

// ReceiptConfig holds configuration for the receipt parsing service
type ReceiptConfig struct {
	ReceiptLocale      string // language printed on the receipt
	DisplayLocale      string // language for translated item names
	EnableDebugLogging bool
}

// ReceiptService turns raw OCR'd receipt text into priced, translated,
// normalized line items
type ReceiptService struct {
	translator    domain.Translator
	normalizer    *NameNormalizer
	receiptLocale string
	displayLocale string
	debug         bool
}

// NewReceiptService creates a receipt parsing service with dependencies
func NewReceiptService(translator domain.Translator, normalizer *NameNormalizer, config ReceiptConfig) *ReceiptService {
	return &ReceiptService{
		translator:    translator,
		normalizer:    normalizer,
		receiptLocale: config.ReceiptLocale,
		displayLocale: config.DisplayLocale,
		debug:         config.EnableDebugLogging,
	}
}

// ParseReceipt extracts items from raw receipt text, then translates
// each name into the display locale (falling back to the original on
// translation failure) and derives its normalized matching key.
// Returns ErrEmptyReceipt when the text is blank or yields no priced items.
func (s *ReceiptService) ParseReceipt(ctx context.Context, text string) ([]domain.ReceiptItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyReceipt
	}

	lines := MergeLines(text)
	if s.debug {
		log.Printf("[PARSE] merged %d lines: %q", len(lines), lines)
	}

	items := ExtractItems(lines)
	if len(items) == 0 {
		return nil, domain.ErrEmptyReceipt
	}

	for i := range items {
		items[i].TranslatedName = translateOrFallback(ctx, s.translator, items[i].OriginalName, s.receiptLocale, s.displayLocale)
		items[i].SimpleName = s.normalizer.Simplify(items[i].TranslatedName)
	}

	return items, nil
}

// MergeLines splits raw OCR text into logical lines. A line starting
// with a letter begins a new logical line; anything else is a
// continuation fragment (typically a price split across OCR rows) and
// is concatenated onto the current buffer. The buffer is flushed when
// the next letter-starting line appears and again at end of input.
// Fragments appearing before the first letter-starting line have no
// item to attach to and are discarded.
func MergeLines(text string) []string {
	var merged []string
	var fragment string
	seenName := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r, _ := utf8.DecodeRuneInString(line)
		if unicode.IsLetter(r) {
			if fragment != "" {
				merged = append(merged, fragment)
				fragment = ""
			}
			merged = append(merged, line)
			seenName = true
		} else if seenName {
			fragment += line
		}
	}

	if fragment != "" {
		merged = append(merged, fragment)
	}

	return merged
}

// ExtractItems pairs merged lines into priced items: position i is a
// candidate name, position i+1 is searched for the first price token.
// A matched comma separator is rewritten to a period before decimal
// parsing. On success the walk advances by two positions; on failure
// the missing price is logged, the item dropped, and the walk advances
// by one position, so a finite input always terminates.
func ExtractItems(lines []string) []domain.ReceiptItem {
	items := make([]domain.ReceiptItem, 0, len(lines)/2)

	i := 0
	for i < len(lines)-1 {
		name := lines[i]

		token := priceTokenRegex.FindString(lines[i+1])
		if token == "" {
			log.Printf("[PARSE] could not find price for item: %q", name)
			i++
			continue
		}

		price, err := decimal.NewFromString(strings.ReplaceAll(token, ",", "."))
		if err != nil || !price.IsPositive() {
			log.Printf("[PARSE] unparseable price %q for item: %q", token, name)
			i++
			continue
		}

		items = append(items, domain.ReceiptItem{
			OriginalName: name,
			Price:        price,
		})
		i += 2
	}

	return items
}
