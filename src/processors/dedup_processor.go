package processors

import (
	"github.com/username/finratio/backend/src/models"
)

// dedupProcessorImpl implements the StatementDeduplicator interface.
type dedupProcessorImpl struct{}

// NewStatementDeduplicator creates a new instance of StatementDeduplicator.
func NewStatementDeduplicator() StatementDeduplicator {
	return &dedupProcessorImpl{}
}

// Dedupe collapses repeated (account name, statement name) line items to
// the entry with the lowest ord value; a lower ord means higher display
// priority and is presumed the most authoritative amendment. On equal ord
// the later entry wins, which is stable since source order is stable per
// fetch. Must run once per fetched batch before persistence, or the
// store's uniqueness constraint would reject the batch.
//
// Deduplicating an already-deduplicated batch is a no-op. Output order is
// first-seen; callers that care about order sort by ord afterwards.
func (p *dedupProcessorImpl) Dedupe(items []models.RawStatement) []models.RawStatement {
	type dedupeKey struct {
		accountName   string
		statementName string
	}

	survivors := make(map[dedupeKey]models.RawStatement, len(items))
	order := make([]dedupeKey, 0, len(items))

	for _, item := range items {
		key := dedupeKey{accountName: item.AccountNm, statementName: item.SjNm}
		existing, seen := survivors[key]
		if !seen {
			order = append(order, key)
			survivors[key] = item
			continue
		}
		if item.OrdValue() <= existing.OrdValue() {
			survivors[key] = item
		}
	}

	result := make([]models.RawStatement, 0, len(order))
	for _, key := range order {
		result = append(result, survivors[key])
	}
	return result
}
