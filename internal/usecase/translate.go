package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/receiptlens/backend/internal/domain"
)

// translateOrFallback performs a single best-effort translation. Any
// failure (transport error, service error, empty result) is logged and
// the original text is returned unchanged, so callers never observe a
// failed translation.
func translateOrFallback(ctx context.Context, translator domain.Translator, text, sourceLocale, destLocale string) string {
	if translator == nil {
		return text
	}

	translated, err := translator.Translate(ctx, text, sourceLocale, destLocale)
	if err != nil {
		log.Printf("[TRANSLATE] %s->%s failed for %q, using original: %v", sourceLocale, destLocale, text, err)
		return text
	}
	if strings.TrimSpace(translated) == "" {
		log.Printf("[TRANSLATE] %s->%s returned empty result for %q, using original", sourceLocale, destLocale, text)
		return text
	}

	return translated
}
