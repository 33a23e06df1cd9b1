package usecase

import (
	"log"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/receiptlens/backend/internal/domain"
)

const defaultMatchThreshold = 60

// matchTechniques are the three complementary similarity measures, in
// tie-break order. Token-sort is robust to word-order differences,
// partial to one string containing the other, token-set to repeated or
// extra tokens.
var matchTechniques = []struct {
	name  string
	score func(s1, s2 string) int
}{
	{"token_sort", func(s1, s2 string) int { return fuzzy.TokenSortRatio(s1, s2) }},
	{"partial", func(s1, s2 string) int { return fuzzy.PartialRatio(s1, s2) }},
	{"token_set", func(s1, s2 string) int { return fuzzy.TokenSetRatio(s1, s2) }},
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Threshold          int // minimum accepted score, in [0,100]
	EnableDebugLogging bool
}

// MatchingService scores a normalized product key against candidate
// item keys and accepts the best score at or above the threshold
type MatchingService struct {
	threshold int
	debug     bool
}

// NewMatchingService creates a matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = defaultMatchThreshold
	}
	if threshold > 100 {
		threshold = 100
	}

	return &MatchingService{
		threshold: threshold,
		debug:     config.EnableDebugLogging,
	}
}

// Threshold returns the configured minimum accepted score
func (s *MatchingService) Threshold() int {
	return s.threshold
}

// BestMatch scores productKey against every candidate with all three
// techniques and returns the single highest-scoring candidate, or false
// when the best score is below the threshold. A rejected match is an
// expected outcome, not an error.
//
// Candidates are visited in ascending index order and techniques in
// token_sort, partial, token_set order; only a strictly higher score
// replaces the current best, which makes tie-breaking deterministic.
func (s *MatchingService) BestMatch(productKey string, itemKeys []string) (*domain.MatchResult, bool) {
	best := domain.MatchResult{ItemIndex: -1, Score: -1}

	for i, key := range itemKeys {
		for _, technique := range matchTechniques {
			score := technique.score(productKey, key)
			if score > best.Score {
				best = domain.MatchResult{
					ItemIndex: i,
					Score:     score,
					Technique: technique.name,
				}
			}
		}
	}

	if best.ItemIndex < 0 || best.Score < s.threshold {
		if s.debug {
			log.Printf("[MATCH] no match for %q (best score %d, threshold %d)", productKey, best.Score, s.threshold)
		}
		return nil, false
	}

	if s.debug {
		log.Printf("[MATCH] %q matched candidate %d via %s (score %d)", productKey, best.ItemIndex, best.Technique, best.Score)
	}
	return &best, true
}
