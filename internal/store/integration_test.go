//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhukovvlad/tender-matching-service/cmd/internal/testutil"
	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
)

// TestStore_AgainstRealPostgres проверяет Queries поверх реального Postgres
// в testcontainers: загрузку позиций с атрибутами и фиксацию результата
// мэтчинга в одной транзакции.
func TestStore_AgainstRealPostgres(t *testing.T) {
	db, container, err := testutil.SetupTestDatabase(t)
	require.NoError(t, err)
	defer testutil.TeardownTestDatabase(t, db, container)

	require.NoError(t, testutil.RunMigrations(t, db))

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `INSERT INTO tenders_info (id, tender_number, processed_positions) VALUES (1, 'ETP-1', 0)`)
	require.NoError(t, err)

	fixtures := testutil.DefaultFixtures()
	for _, pos := range fixtures.Positions {
		_, err := db.ExecContext(ctx, `
			INSERT INTO tenders_positions (id, tender_id, title, category)
			VALUES ($1, $2, $3, $4)`, pos.ID, pos.TenderID, pos.Title, pos.Category)
		require.NoError(t, err)
		for _, attr := range pos.Attributes {
			_, err := db.ExecContext(ctx, `
				INSERT INTO tenders_position_attributes (id, tender_position_id, name, value, unit, type)
				VALUES ($1, $2, $3, $4, $5, $6)`, attr.ID, attr.TenderPositionID, attr.Name, attr.Value, attr.Unit, attr.Type)
			require.NoError(t, err)
		}
	}

	st := NewStore(db, logging.GetLogger())

	positions, err := st.GetTenderPositions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	require.Len(t, positions[0].Attributes, 1)
	require.Equal(t, "Диаметр", positions[0].Attributes[0].Name.String)

	err = st.ExecTx(ctx, func(q *Queries) error {
		if _, err := q.IncrementProcessedPositions(ctx, 1); err != nil {
			return err
		}
		return q.CreateTenderMatchesBatch(ctx, []MatchInsert{
			{TenderPositionID: positions[0].ID, ProductMongoID: "mongo-1", MatchScore: 1, MaxMatchScore: 1, PercentageMatchScore: 100},
		})
	})
	require.NoError(t, err)

	stats, err := st.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalMatches)
	require.Equal(t, int64(1), stats.UnmatchedCount)

	require.NoError(t, testutil.CleanupTables(t, db))
}
