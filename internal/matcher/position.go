package matcher

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/zhukovvlad/tender-matching-service/internal/attrmodel"
)

// defaultSemaphoreSize — ёмкость семафора по умолчанию, ограничивающая
// число одновременно оцениваемых кандидатов одной позиции
// (SHRINKER_SEMAPHORE_SIZE).
const defaultSemaphoreSize = 100

// defaultTresholdScore — доля атрибутов позиции, которую кандидат должен
// набрать, чтобы быть принятым (CANDIDATES_TRASHOLD_SCORE).
const defaultTresholdScore = 0.7

// ProductCandidate — один товар-кандидат, пришедший из поискового индекса,
// с уже разобранными и сгруппированными атрибутами.
type ProductCandidate struct {
	MongoID string
	Attrs   *attrmodel.GroupedAttributes
}

// PositionConfig параметризует PositionMatcher числовыми порогами
// конфигурации.
type PositionConfig struct {
	SemaphoreSize int
	TresholdScore float64
	Scorer        ScorerConfig
}

func (c PositionConfig) withDefaults() PositionConfig {
	if c.SemaphoreSize <= 0 {
		c.SemaphoreSize = defaultSemaphoreSize
	}
	if c.TresholdScore <= 0 {
		c.TresholdScore = defaultTresholdScore
	}
	return c
}

// PositionResult — итог оценки позиции против всех кандидатов, уже
// отсортированный по очкам по убыванию.
type PositionResult struct {
	Candidates []CandidateResult
}

// PositionMatcher оркестрирует §4.6: параллельный скоринг кандидатов по уже
// разобранным атрибутам позиции под общим семафором и сортировку принятых
// кандидатов по очкам. Разбор атрибутов позиции и запись результатов
// выполняет вызывающий код (internal/consumer).
type PositionMatcher struct {
	Scorer *CandidateScorer
	Config PositionConfig
}

// NewPositionMatcher создаёт PositionMatcher с заданным скорером и
// конфигурацией (нулевые значения конфигурации заменяются значениями по
// умолчанию).
func NewPositionMatcher(scorer *CandidateScorer, cfg PositionConfig) *PositionMatcher {
	return &PositionMatcher{Scorer: scorer, Config: cfg.withDefaults()}
}

// Match оценивает позицию против всех кандидатов. Возвращает результат с
// пустым Candidates (не ошибку), если у позиции нет разобранных атрибутов —
// вызывающий код по-прежнему обязан учесть позицию как обработанную.
func (m *PositionMatcher) Match(ctx context.Context, positionAttrs []attrmodel.ParsedAttribute, candidates []ProductCandidate) (*PositionResult, error) {
	if len(positionAttrs) == 0 {
		return &PositionResult{}, nil
	}

	minRequired := MinRequiredPoints(len(positionAttrs), m.Config.TresholdScore)

	sem := semaphore.NewWeighted(int64(m.Config.SemaphoreSize))
	var (
		mu      sync.Mutex
		results []CandidateResult
		g       sync.WaitGroup
		firstErr error
		errOnce sync.Once
	)

	for _, candidate := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			errOnce.Do(func() { firstErr = fmt.Errorf("acquire scoring semaphore: %w", err) })
			break
		}

		g.Add(1)
		go func(candidate ProductCandidate) {
			defer g.Done()
			defer sem.Release(1)

			result, err := m.Scorer.Score(ctx, candidate.MongoID, positionAttrs, candidate.Attrs, minRequired)
			if err != nil {
				errOnce.Do(func() { firstErr = fmt.Errorf("score candidate %s: %w", candidate.MongoID, err) })
				return
			}
			if result == nil {
				return
			}

			mu.Lock()
			results = append(results, *result)
			mu.Unlock()
		}(candidate)
	}

	g.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Points > results[j].Points
	})

	return &PositionResult{Candidates: results}, nil
}

// AttributeTypeAnalysis — число успешных матчей по типу атрибута позиции,
// дополнительная метрика качества мэтчинга, не влияющая на персистентность.
type AttributeTypeAnalysis map[attrmodel.Kind]int

// AnalyzeAttributeTypes агрегирует успешные матчи по типу атрибута позиции
// среди всех принятых кандидатов позиции.
func AnalyzeAttributeTypes(result *PositionResult) AttributeTypeAnalysis {
	analysis := AttributeTypeAnalysis{
		attrmodel.KindBoolean:  0,
		attrmodel.KindNumeric:  0,
		attrmodel.KindString:   0,
		attrmodel.KindRange:    0,
		attrmodel.KindMultiple: 0,
	}

	for _, candidate := range result.Candidates {
		for _, match := range candidate.MatchedAttributes {
			analysis[match.PositionAttrType]++
		}
	}
	return analysis
}
