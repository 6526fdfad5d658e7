package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/finratio/backend/src/models"
)

func TestDedupeKeepsLowestOrd(t *testing.T) {
	dedup := NewStatementDeduplicator()

	items := []models.RawStatement{
		{AccountNm: "자산총계", SjNm: "재무상태표", Ord: "5", ThstrmAmount: "100"},
		{AccountNm: "자산총계", SjNm: "재무상태표", Ord: "2", ThstrmAmount: "200"},
	}

	result := dedup.Dedupe(items)

	assert.Len(t, result, 1)
	assert.Equal(t, "2", result[0].Ord)
	assert.Equal(t, "200", result[0].ThstrmAmount)
}

func TestDedupeDistinctStatementNamesKeptApart(t *testing.T) {
	dedup := NewStatementDeduplicator()

	// Same account name on different statements is not a duplicate.
	items := []models.RawStatement{
		{AccountNm: "당기순이익", SjNm: "손익계산서", Ord: "10"},
		{AccountNm: "당기순이익", SjNm: "현금흐름표", Ord: "1"},
	}

	result := dedup.Dedupe(items)
	assert.Len(t, result, 2)
}

func TestDedupeEqualOrdLastSeenWins(t *testing.T) {
	dedup := NewStatementDeduplicator()

	items := []models.RawStatement{
		{AccountNm: "매출액", SjNm: "손익계산서", Ord: "3", ThstrmAmount: "1"},
		{AccountNm: "매출액", SjNm: "손익계산서", Ord: "3", ThstrmAmount: "2"},
	}

	result := dedup.Dedupe(items)
	assert.Len(t, result, 1)
	assert.Equal(t, "2", result[0].ThstrmAmount)
}

func TestDedupeIsIdempotent(t *testing.T) {
	dedup := NewStatementDeduplicator()

	items := []models.RawStatement{
		{AccountNm: "자산총계", SjNm: "재무상태표", Ord: "1"},
		{AccountNm: "부채총계", SjNm: "재무상태표", Ord: "2"},
		{AccountNm: "자산총계", SjNm: "재무상태표", Ord: "4"},
	}

	once := dedup.Dedupe(items)
	twice := dedup.Dedupe(once)

	assert.Equal(t, once, twice, "deduplicating a deduplicated batch must be a fixed point")
}

func TestDedupeEmptyBatch(t *testing.T) {
	dedup := NewStatementDeduplicator()
	assert.Empty(t, dedup.Dedupe(nil))
}
