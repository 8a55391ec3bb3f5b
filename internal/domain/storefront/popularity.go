// Package storefront defines the public read-side view models and the
// best-seller ranking policy.
package storefront

import (
	"sort"

	"github.com/vitrinehq/vitrine/internal/domain/analytics"
)

// PopularityPolicy ranks products from raw analytics counts. The weighting
// is deliberately explicit: a quote appearance signals stronger intent than
// a page view, historically weighted 3x. The factor is configuration, not
// a constant.
type PopularityPolicy struct {
	QuoteWeight int64
}

// Score computes the popularity score for one product's counts.
func (p PopularityPolicy) Score(c analytics.ProductCounts) int64 {
	return c.Views + p.QuoteWeight*c.Quotes
}

// Rank returns product IDs ordered by descending score, ties broken by
// product ID for a stable order. At most limit IDs are returned; limit <= 0
// means no cap.
func (p PopularityPolicy) Rank(counts []analytics.ProductCounts, limit int) []string {
	type scored struct {
		id    string
		score int64
	}

	ranked := make([]scored, 0, len(counts))
	for _, c := range counts {
		ranked = append(ranked, scored{id: c.ProductID, score: p.Score(c)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.id
	}
	return ids
}
