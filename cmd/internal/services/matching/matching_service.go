// Package matching предоставляет операции ручного сопоставления позиций
// тендера для отладочного HTTP-сервера: список позиций без автоматических
// кандидатов и ручное подтверждение соответствия с записью в кэш.
package matching

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zhukovvlad/tender-matching-service/cmd/internal/api_models"
	"github.com/zhukovvlad/tender-matching-service/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
	"github.com/zhukovvlad/tender-matching-service/internal/store"
)

// MaxUnmatchedPositionsLimit ограничивает число позиций, возвращаемых за
// один вызов GetUnmatchedPositions, чтобы не перегружать БД и память.
const MaxUnmatchedPositionsLimit = 1000

// matchingCacheTTL — срок жизни записи ручного сопоставления в кэше.
const matchingCacheTTL = 30 * 24 * time.Hour

// defaultNormVersion используется, если клиент не прислал norm_version.
const defaultNormVersion = 1

// MatchingService управляет ручными операциями сопоставления позиций.
type MatchingService struct {
	store  *store.Store
	logger *logging.Logger
}

// NewMatchingService создаёт новый экземпляр MatchingService.
func NewMatchingService(st *store.Store, logger *logging.Logger) *MatchingService {
	return &MatchingService{store: st, logger: logger}
}

// GetUnmatchedPositions возвращает позиции тендера, для которых
// автоматический пайплайн ещё не подобрал ни одного кандидата.
func (s *MatchingService) GetUnmatchedPositions(ctx context.Context, limit int32) ([]api_models.UnmatchedPositionResponse, error) {
	if limit <= 0 {
		s.logger.Warnf("получен некорректный limit: %d (должен быть > 0)", limit)
		return nil, apierrors.NewValidationError("параметр limit должен быть положительным числом, получено: %d", limit)
	}
	if limit > MaxUnmatchedPositionsLimit {
		s.logger.Infof("запрошено limit=%d, ограничиваем до %d", limit, MaxUnmatchedPositionsLimit)
		limit = MaxUnmatchedPositionsLimit
	}

	rows, err := s.store.GetUnmatchedPositions(ctx, limit)
	if err != nil {
		s.logger.Errorf("ошибка GetUnmatchedPositions: %v", err)
		return nil, fmt.Errorf("ошибка БД: %w", err)
	}

	response := make([]api_models.UnmatchedPositionResponse, 0, len(rows))
	for _, row := range rows {
		context := fmt.Sprintf("Позиция: %s", row.Title.String)
		if row.Category.Valid && row.Category.String != "" {
			context = fmt.Sprintf("Раздел: %s | %s", row.Category.String, context)
		}

		response = append(response, api_models.UnmatchedPositionResponse{
			TenderPositionID:  row.ID,
			Title:             row.Title.String,
			RichContextString: context,
		})
	}

	s.logger.Infof("найдено %d не сопоставленных позиций", len(response))
	return response, nil
}

// MatchPosition обрабатывает POST /api/v1/positions/match: в одной
// транзакции пишет подтверждённое сопоставление в tender_matches и
// обновляет matching_cache для будущих позиций с идентичным сырым текстом.
func (s *MatchingService) MatchPosition(ctx context.Context, req api_models.MatchPositionRequest) error {
	if err := req.Validate(); err != nil {
		return apierrors.NewValidationError("%s", err.Error())
	}

	normVersion := req.NormVersion
	if normVersion == 0 {
		normVersion = defaultNormVersion
	}

	txErr := s.store.ExecTx(ctx, func(qtx *store.Queries) error {
		if err := qtx.CreateManualMatch(ctx, req.TenderPositionID, req.ProductMongoID); err != nil {
			s.logger.Errorf("MatchPosition: ошибка CreateManualMatch: %v", err)
			return fmt.Errorf("ошибка записи tender_matches: %w", err)
		}

		entry := store.MatchingCacheEntry{
			JobTitleHash:   req.Hash,
			NormVersion:    normVersion,
			ProductMongoID: req.ProductMongoID,
			ExpiresAt:      sql.NullTime{Time: time.Now().Add(matchingCacheTTL), Valid: true},
		}
		if err := qtx.UpsertMatchingCache(ctx, entry); err != nil {
			s.logger.Errorf("MatchPosition: ошибка UpsertMatchingCache: %v", err)
			return fmt.Errorf("ошибка обновления matching_cache: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.logger.Infof("позиция %d вручную сопоставлена с %s (hash: %s)",
		req.TenderPositionID, req.ProductMongoID, req.Hash)
	return nil
}
