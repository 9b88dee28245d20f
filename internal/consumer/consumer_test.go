package consumer

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
	"github.com/zhukovvlad/tender-matching-service/internal/attrmodel"
	"github.com/zhukovvlad/tender-matching-service/internal/clients"
	"github.com/zhukovvlad/tender-matching-service/internal/matcher"
	"github.com/zhukovvlad/tender-matching-service/internal/store"
)

type fakeSearch struct {
	hits []clients.CandidateHit
	err  error
}

func (f fakeSearch) FindCandidates(ctx context.Context, index string, query any) ([]clients.CandidateHit, error) {
	return f.hits, f.err
}

type fakeAttrParser struct{}

func (fakeAttrParser) ExtractAttrData(ctx context.Context, rawText string) ([]attrmodel.RawParseResult, error) {
	return []attrmodel.RawParseResult{
		{Type: "simple", Simple: &attrmodel.RawSimple{Value: 100.0, Unit: "см"}},
	}, nil
}

func identityNormalize(ctx context.Context, value float64, unit string) (float64, string, bool) {
	return value, unit, true
}

type identityUnitNormalizer struct{}

func (identityUnitNormalizer) Normalize(ctx context.Context, value float64, unit string) (float64, string, bool) {
	return identityNormalize(ctx, value, unit)
}

func fixedSemantic(score float64) matcher.SemanticMatcher {
	return fixedSemanticMatcher{score: score}
}

type fixedSemanticMatcher struct{ score float64 }

func (f fixedSemanticMatcher) CompareBatch(ctx context.Context, pairs [][2]string) ([]float64, error) {
	scores := make([]float64, len(pairs))
	for i := range scores {
		scores[i] = f.score
	}
	return scores, nil
}

func newTestMatcher() *matcher.PositionMatcher {
	comparator := matcher.NewValueComparator(identityUnitNormalizer{}, 0.85)
	scorer := matcher.NewCandidateScorer(comparator, fixedSemantic(0.9), matcher.ScorerConfig{ThresholdAttributeMatch: 0.73})
	return matcher.NewPositionMatcher(scorer, matcher.PositionConfig{SemaphoreSize: 4, TresholdScore: 0.5})
}

func TestConsumer_ProcessTender_PersistsMatchesForEachPosition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, tender_id, title, category, category_id").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tender_id", "title", "category", "category_id"}).
			AddRow(int64(1), int64(42), "Труба", "pipes", nil))

	mock.ExpectQuery("SELECT id, tender_position_id, characteristic_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tender_position_id", "characteristic_id", "name", "value", "unit",
			"required", "changeable", "fill_instructions", "type",
		}).AddRow(int64(10), int64(1), nil, "Длина", "100", "см", nil, nil, nil, "simple"))

	mock.ExpectQuery("SELECT company_id FROM tenders_info").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"company_id"}).AddRow("company-uuid"))

	mock.ExpectQuery("SELECT product_mongo_id").
		WillReturnRows(sqlmock.NewRows([]string{"product_mongo_id"}))

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE tenders_info").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"processed_positions"}).AddRow(int64(1)))
	mock.ExpectExec("INSERT INTO tender_matches").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tenders_position_attributes_matches").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	st := store.NewStore(db, logging.GetLogger())

	search := fakeSearch{hits: []clients.CandidateHit{
		{ID: "mongo-1", Title: "Труба стальная", Attributes: []map[string]any{
			{"original_name": "Длина", "original_value": "100", "attribute_type": "simple",
				"standardized_name": "Длина", "standardized_value": map[string]any{"value": 100.0, "unit": "см"}},
		}},
	}}

	c := New(nil, st, search, fakeAttrParser{}, identityNormalize, newTestMatcher(), Config{SearchIndexName: "products", CandidatesQty: 10}, logging.GetLogger())

	c.processTender(context.Background(), tenderMessage{TenderID: 42})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumer_ProcessPosition_SearchFailureSkipsWithoutPersisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT product_mongo_id").
		WillReturnRows(sqlmock.NewRows([]string{"product_mongo_id"}))

	st := store.NewStore(db, logging.GetLogger())
	search := fakeSearch{err: assertError("search down")}

	c := New(nil, st, search, fakeAttrParser{}, identityNormalize, newTestMatcher(), Config{SearchIndexName: "products", CandidatesQty: 10}, logging.GetLogger())

	position := store.Position{ID: 1, Attributes: nil}
	c.processPosition(context.Background(), logging.GetLogger(), 42, position)

	require.NoError(t, mock.ExpectationsWereMet())
}

type assertError string

func (e assertError) Error() string { return string(e) }

func TestPercentageScore(t *testing.T) {
	assert.Equal(t, 75.0, percentageScore(3, 4))
	assert.Equal(t, 0.0, percentageScore(0, 0))
	assert.Equal(t, 33.3, percentageScore(1, 3))
}
