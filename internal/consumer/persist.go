package consumer

import (
	"context"
	"math"

	"github.com/zhukovvlad/tender-matching-service/cmd/internal/util"
	"github.com/zhukovvlad/tender-matching-service/internal/matcher"
	"github.com/zhukovvlad/tender-matching-service/internal/store"
)

// persist ports _finalize_results: one transaction per position, bumping
// the tender's processed-position counter and writing the candidate/
// attribute match rows. maxPoints is the position's attribute count. A
// position without parsed attributes reaches here too, with no candidates
// (Match short-circuits that case), so only its counter is bumped.
func (c *Consumer) persist(ctx context.Context, tenderID int64, position store.Position, result *matcher.PositionResult) error {
	maxPoints := len(position.Attributes)

	matches := make([]store.MatchInsert, 0, len(result.Candidates))
	attrMatches := make([]store.AttributeMatchInsert, 0)

	for _, candidate := range result.Candidates {
		percentage := percentageScore(candidate.Points, maxPoints)

		matches = append(matches, store.MatchInsert{
			TenderPositionID:     position.ID,
			ProductMongoID:       candidate.CandidateMongoID,
			MatchScore:           candidate.Points,
			MaxMatchScore:        maxPoints,
			PercentageMatchScore: percentage,
		})

		for _, m := range candidate.MatchedAttributes {
			attrMatches = append(attrMatches, store.AttributeMatchInsert{
				TenderID:           tenderID,
				TenderPositionID:   position.ID,
				PositionAttrID:     util.NullableInt64(m.PositionAttrID),
				ProductMongoID:     candidate.CandidateMongoID,
				PositionAttrName:   m.PositionAttrName,
				PositionAttrValue:  m.PositionAttrValue,
				PositionAttrUnit:   util.NullableString(util.NilIfEmpty(m.PositionAttrUnit)),
				ProductAttrName:    m.CandidateAttrName,
				ProductAttrValue:   m.CandidateAttrValue,
				AttrNameMatchScore: util.NullableFloat64(&m.NameSimilarityScore),
			})
		}
	}

	return c.store.ExecTx(ctx, func(q *store.Queries) error {
		if _, err := q.IncrementProcessedPositions(ctx, tenderID); err != nil {
			return err
		}
		if err := q.CreateTenderMatchesBatch(ctx, matches); err != nil {
			return err
		}
		return q.CreateTenderPositionAttributeMatchesBulk(ctx, attrMatches)
	})
}

// percentageScore rounds points/max*100 to one decimal place, matching the
// original's `round(score / max * 100, 1)`.
func percentageScore(points, maxPoints int) float64 {
	if maxPoints == 0 {
		return 0
	}
	raw := float64(points) / float64(maxPoints) * 100
	return math.Round(raw*10) / 10
}
