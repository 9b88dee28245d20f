package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovvlad/tender-matching-service/internal/attrmodel"
)

func TestPositionMatcher_EmptyAttributesReturnsEmptyWithoutError(t *testing.T) {
	comparator := NewValueComparator(nil, 0.85)
	scorer := NewCandidateScorer(comparator, fixedSemanticMatcher{}, ScorerConfig{ThresholdAttributeMatch: 0.73})
	pm := NewPositionMatcher(scorer, PositionConfig{})

	result, err := pm.Match(context.Background(), nil, []ProductCandidate{
		{MongoID: "a", Attrs: buildGroupedCandidate(numAttr("Длина", 1, "м"))},
	})

	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
}

func TestPositionMatcher_SortsDescendingByPoints(t *testing.T) {
	comparator := NewValueComparator(nil, 0.85)
	scorer := NewCandidateScorer(comparator, fixedSemanticMatcher{}, ScorerConfig{ThresholdAttributeMatch: 0.73})
	pm := NewPositionMatcher(scorer, PositionConfig{SemaphoreSize: 4, TresholdScore: 0.1})

	positionAttrs := []attrmodel.ParsedAttribute{
		numAttr("Длина", 100, "см"),
		numAttr("Ширина", 50, "см"),
		numAttr("Высота", 30, "см"),
	}

	candidates := []ProductCandidate{
		{MongoID: "weak", Attrs: buildGroupedCandidate(numAttr("Длина", 100, "см"))},
		{MongoID: "strong", Attrs: buildGroupedCandidate(
			numAttr("Длина", 100, "см"),
			numAttr("Ширина", 50, "см"),
			numAttr("Высота", 30, "см"),
		)},
		{MongoID: "medium", Attrs: buildGroupedCandidate(
			numAttr("Длина", 100, "см"),
			numAttr("Ширина", 50, "см"),
		)},
	}

	result, err := pm.Match(context.Background(), positionAttrs, candidates)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 3)
	assert.Equal(t, "strong", result.Candidates[0].CandidateMongoID)
	assert.Equal(t, "medium", result.Candidates[1].CandidateMongoID)
	assert.Equal(t, "weak", result.Candidates[2].CandidateMongoID)
	assert.True(t, result.Candidates[0].Points >= result.Candidates[1].Points)
	assert.True(t, result.Candidates[1].Points >= result.Candidates[2].Points)
}

func TestPositionMatcher_ScoresAllCandidatesWithSmallSemaphore(t *testing.T) {
	comparator := NewValueComparator(nil, 0.85)
	scorer := NewCandidateScorer(comparator, fixedSemanticMatcher{}, ScorerConfig{ThresholdAttributeMatch: 0.73})
	pm := NewPositionMatcher(scorer, PositionConfig{SemaphoreSize: 2, TresholdScore: 0.1})

	positionAttrs := []attrmodel.ParsedAttribute{numAttr("Длина", 100, "см")}

	var candidates []ProductCandidate
	for i := 0; i < 20; i++ {
		candidates = append(candidates, ProductCandidate{
			MongoID: "cand",
			Attrs:   buildGroupedCandidate(numAttr("Длина", 100, "см")),
		})
	}

	result, err := pm.Match(context.Background(), positionAttrs, candidates)
	require.NoError(t, err)
	assert.Len(t, result.Candidates, 20)
}

func TestAnalyzeAttributeTypes(t *testing.T) {
	result := &PositionResult{
		Candidates: []CandidateResult{
			{MatchedAttributes: []MatchedAttribute{
				{PositionAttrType: attrmodel.KindNumeric},
				{PositionAttrType: attrmodel.KindBoolean},
			}},
			{MatchedAttributes: []MatchedAttribute{
				{PositionAttrType: attrmodel.KindNumeric},
			}},
		},
	}

	analysis := AnalyzeAttributeTypes(result)
	assert.Equal(t, 2, analysis[attrmodel.KindNumeric])
	assert.Equal(t, 1, analysis[attrmodel.KindBoolean])
	assert.Equal(t, 0, analysis[attrmodel.KindString])
}
