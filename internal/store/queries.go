package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// GetTenderPositions loads every position of a tender together with its
// attributes, ordered by tender_position ascending with nulls last — mirrors
// `get_tender_positions_selectinload`'s ORDER BY clause. Never mutates
// tenders_positions / tenders_position_attributes.
func (q *Queries) GetTenderPositions(ctx context.Context, tenderID int64) ([]Position, error) {
	const positionsQuery = `
		SELECT id, tender_id, title, category, category_id
		FROM tenders_positions
		WHERE tender_id = $1
		ORDER BY (tender_position IS NULL), tender_position ASC`

	rows, err := q.db.QueryContext(ctx, positionsQuery, tenderID)
	if err != nil {
		return nil, fmt.Errorf("select tenders_positions: %w", err)
	}
	defer rows.Close()

	var positions []Position
	byID := make(map[int64]*Position)
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.TenderID, &p.Title, &p.Category, &p.CategoryID); err != nil {
			return nil, fmt.Errorf("scan tenders_positions row: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenders_positions: %w", err)
	}
	for i := range positions {
		byID[positions[i].ID] = &positions[i]
	}
	if len(positions) == 0 {
		return positions, nil
	}

	ids := make([]any, 0, len(positions))
	placeholders := make([]string, 0, len(positions))
	for i, p := range positions {
		ids = append(ids, p.ID)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	attrQuery := fmt.Sprintf(`
		SELECT id, tender_position_id, characteristic_id, name, value, unit,
		       required, changeable, fill_instructions, type
		FROM tenders_position_attributes
		WHERE tender_position_id IN (%s)`, strings.Join(placeholders, ","))

	attrRows, err := q.db.QueryContext(ctx, attrQuery, ids...)
	if err != nil {
		return nil, fmt.Errorf("select tenders_position_attributes: %w", err)
	}
	defer attrRows.Close()

	for attrRows.Next() {
		var a PositionAttribute
		if err := attrRows.Scan(
			&a.ID, &a.TenderPositionID, &a.CharacteristicID, &a.Name, &a.Value, &a.Unit,
			&a.Required, &a.Changeable, &a.FillInstructions, &a.Type,
		); err != nil {
			return nil, fmt.Errorf("scan tenders_position_attributes row: %w", err)
		}
		if pos, ok := byID[a.TenderPositionID]; ok {
			pos.Attributes = append(pos.Attributes, a)
		}
	}
	if err := attrRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenders_position_attributes: %w", err)
	}

	return positions, nil
}

// GetCompanyIDByTender mirrors `get_company_id_by_tender`.
func (q *Queries) GetCompanyIDByTender(ctx context.Context, tenderID int64) (string, error) {
	var companyID sql.NullString
	row := q.db.QueryRowContext(ctx, `SELECT company_id FROM tenders_info WHERE id = $1`, tenderID)
	if err := row.Scan(&companyID); err != nil {
		return "", fmt.Errorf("select company_id: %w", err)
	}
	return companyID.String, nil
}

// IncrementProcessedPositions atomically bumps tenders_info.processed_positions
// by one and returns the new value, mirroring `increment_processed_positions`'s
// UPDATE ... RETURNING.
func (q *Queries) IncrementProcessedPositions(ctx context.Context, tenderID int64) (int64, error) {
	var newValue int64
	row := q.db.QueryRowContext(ctx, `
		UPDATE tenders_info
		SET processed_positions = processed_positions + 1
		WHERE id = $1
		RETURNING processed_positions`, tenderID)
	if err := row.Scan(&newValue); err != nil {
		return 0, fmt.Errorf("increment processed_positions: %w", err)
	}
	return newValue, nil
}

// CreateTenderMatchesBatch inserts every match in one multi-row INSERT,
// mirroring `create_tender_matches_batch`'s single bulk `add_all` + commit.
func (q *Queries) CreateTenderMatchesBatch(ctx context.Context, matches []MatchInsert) error {
	if len(matches) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(`INSERT INTO tender_matches
		(tender_position_id, product_id, match_score, max_match_score, percentage_match_score)
		VALUES `)

	args := make([]any, 0, len(matches)*5)
	for i, m := range matches {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, m.TenderPositionID, m.ProductMongoID, m.MatchScore, m.MaxMatchScore, m.PercentageMatchScore)
	}

	if _, err := q.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("batch insert tender_matches: %w", err)
	}
	return nil
}

// Stats — aggregate counters surfaced by the debug server's /api/stats.
type Stats struct {
	TotalMatches   int64
	UnmatchedCount int64
}

// GetStats reports how many tender_matches rows exist and how many
// tenders_positions still have none.
func (q *Queries) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tender_matches`).Scan(&s.TotalMatches); err != nil {
		return Stats{}, fmt.Errorf("count tender_matches: %w", err)
	}
	row := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM tenders_positions p
		LEFT JOIN tender_matches m ON m.tender_position_id = p.id
		WHERE m.id IS NULL`)
	if err := row.Scan(&s.UnmatchedCount); err != nil {
		return Stats{}, fmt.Errorf("count unmatched positions: %w", err)
	}
	return s, nil
}

// GetUnmatchedPositions returns up to limit tenders_positions rows that have
// no corresponding tender_matches row yet, for manual operator review.
func (q *Queries) GetUnmatchedPositions(ctx context.Context, limit int32) ([]UnmatchedPosition, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.category
		FROM tenders_positions p
		LEFT JOIN tender_matches m ON m.tender_position_id = p.id
		WHERE m.id IS NULL
		ORDER BY p.id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select unmatched positions: %w", err)
	}
	defer rows.Close()

	var positions []UnmatchedPosition
	for rows.Next() {
		var p UnmatchedPosition
		if err := rows.Scan(&p.ID, &p.Title, &p.Category); err != nil {
			return nil, fmt.Errorf("scan unmatched position row: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unmatched positions: %w", err)
	}
	return positions, nil
}

// CreateManualMatch inserts a single full-score tender_matches row for an
// operator-confirmed position/candidate pair, bypassing the scoring
// pipeline entirely.
func (q *Queries) CreateManualMatch(ctx context.Context, tenderPositionID int64, productMongoID string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO tender_matches
			(tender_position_id, product_id, match_score, max_match_score, percentage_match_score)
		VALUES ($1, $2, 1, 1, 100)`, tenderPositionID, productMongoID)
	if err != nil {
		return fmt.Errorf("insert manual tender_matches row: %w", err)
	}
	return nil
}

// UpsertMatchingCache records a confirmed hash -> product mapping so future
// positions with identical raw text can skip the scoring pipeline.
func (q *Queries) UpsertMatchingCache(ctx context.Context, entry MatchingCacheEntry) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO matching_cache (job_title_hash, norm_version, job_title_text, product_mongo_id, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (job_title_hash, norm_version)
		DO UPDATE SET product_mongo_id = EXCLUDED.product_mongo_id,
		              job_title_text = EXCLUDED.job_title_text,
		              expires_at = EXCLUDED.expires_at`,
		entry.JobTitleHash, entry.NormVersion, entry.JobTitleText, entry.ProductMongoID, entry.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert matching_cache: %w", err)
	}
	return nil
}

// GetMatchingCacheByHash looks up a non-expired cache entry for hash/version.
// found is false both on a miss and on an expired entry.
func (q *Queries) GetMatchingCacheByHash(ctx context.Context, hash string, normVersion int) (productMongoID string, found bool, err error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT product_mongo_id
		FROM matching_cache
		WHERE job_title_hash = $1 AND norm_version = $2
		  AND (expires_at IS NULL OR expires_at > $3)`, hash, normVersion, time.Now())

	if scanErr := row.Scan(&productMongoID); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select matching_cache: %w", scanErr)
	}
	return productMongoID, true, nil
}

// CreateTenderPositionAttributeMatchesBulk inserts every attribute match in
// one multi-row INSERT, mirroring
// `create_tender_position_attribute_matches_bulk`.
func (q *Queries) CreateTenderPositionAttributeMatchesBulk(ctx context.Context, matches []AttributeMatchInsert) error {
	if len(matches) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(`INSERT INTO tenders_position_attributes_matches
		(tender_id, tender_position_id, position_attr_id, product_mongo_id,
		 position_attr_name, position_attr_value, position_attr_unit,
		 product_attr_name, product_attr_value,
		 attr_name_match_score, attr_value_match_score)
		VALUES `)

	const cols = 11
	args := make([]any, 0, len(matches)*cols)
	for i, m := range matches {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * cols
		placeholders := make([]string, cols)
		for c := 0; c < cols; c++ {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		fmt.Fprintf(&b, "(%s)", strings.Join(placeholders, ", "))

		args = append(args,
			m.TenderID, m.TenderPositionID, m.PositionAttrID, m.ProductMongoID,
			m.PositionAttrName, m.PositionAttrValue, m.PositionAttrUnit,
			m.ProductAttrName, m.ProductAttrValue,
			m.AttrNameMatchScore, m.AttrValueMatchScore,
		)
	}

	if _, err := q.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("batch insert tenders_position_attributes_matches: %w", err)
	}
	return nil
}
