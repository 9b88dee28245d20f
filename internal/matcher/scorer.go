package matcher

import (
	"context"

	"github.com/zhukovvlad/tender-matching-service/internal/attrmodel"
)

// MatchedAttribute — один совпавший атрибут: кто с кем совпал, под какой
// скор названий, с сохранением исходных значений обеих сторон для
// персистентности (§4.8).
type MatchedAttribute struct {
	PositionAttrID      *int64
	PositionAttrName    string
	PositionAttrValue   string
	PositionAttrUnit    string
	CandidateAttrName   string
	CandidateAttrValue  string
	NameSimilarityScore float64
	PositionAttrType    attrmodel.Kind
	CandidateAttrType   attrmodel.Kind
}

// CandidateResult — итог скоринга одного кандидата против одной позиции.
type CandidateResult struct {
	CandidateMongoID    string
	Points              int
	MatchedAttributes   []MatchedAttribute
	UnmatchedAttributes []string
	EarlyExit           bool
}

// SemanticMatcher сравнивает пары строк через внешний сервис семантического
// сравнения названий, с батчевым вызовом для минимизации round-trip'ов.
type SemanticMatcher interface {
	CompareBatch(ctx context.Context, pairs [][2]string) ([]float64, error)
}

// ScorerConfig параметризует CandidateScorer числовыми порогами конфигурации.
type ScorerConfig struct {
	// ThresholdAttributeMatch — порог скора названий для принятия матча
	// атрибутов (THRESHOLD_ATTRIBUTE_MATCH, по умолчанию 0.73).
	ThresholdAttributeMatch float64
}

// CandidateScorer реализует §4.5: для одного кандидата проходит все
// атрибуты позиции по порядку, подбирает лучший совпадающий атрибут
// кандидата через ValueComparator + батчевое сравнение названий, и
// применяет ранний выход, когда верхняя граница очков больше не может
// достичь минимально требуемого порога.
type CandidateScorer struct {
	Comparator *ValueComparator
	Semantic   SemanticMatcher
	Config     ScorerConfig
}

// NewCandidateScorer создаёт CandidateScorer c заданными зависимостями.
func NewCandidateScorer(comparator *ValueComparator, semantic SemanticMatcher, cfg ScorerConfig) *CandidateScorer {
	return &CandidateScorer{Comparator: comparator, Semantic: semantic, Config: cfg}
}

// Score оценивает одного кандидата против заданных атрибутов позиции;
// candidateMongoID — внешний идентификатор кандидата, переносится в
// результат без интерпретации. Возвращает nil, если кандидат не достиг
// minRequired (в том числе при раннем выходе).
func (s *CandidateScorer) Score(ctx context.Context, candidateMongoID string, positionAttrs []attrmodel.ParsedAttribute, candidate *attrmodel.GroupedAttributes, minRequired int) (*CandidateResult, error) {
	result := &CandidateResult{CandidateMongoID: candidateMongoID}

	for i, posAttr := range positionAttrs {
		matched, err := s.matchOne(ctx, posAttr, candidate)
		if err != nil {
			return nil, err
		}

		if matched != nil {
			result.Points++
			result.MatchedAttributes = append(result.MatchedAttributes, *matched)
		} else {
			result.UnmatchedAttributes = append(result.UnmatchedAttributes, posAttr.CanonicalName)
		}

		remaining := len(positionAttrs) - (i + 1)
		maxPossible := result.Points + remaining
		if maxPossible < minRequired {
			result.EarlyExit = true
			break
		}
	}

	if result.Points < minRequired {
		return nil, nil
	}
	return result, nil
}

// matchOne ищет лучший совпадающий атрибут кандидата для одного атрибута
// позиции: фильтрует совместимые группы по ValueComparator, затем
// выбирает максимум по батчевому сравнению названий, отклоняя результат
// ниже ThresholdAttributeMatch.
func (s *CandidateScorer) matchOne(ctx context.Context, posAttr attrmodel.ParsedAttribute, candidate *attrmodel.GroupedAttributes) (*MatchedAttribute, error) {
	groups := attrmodel.CompatibleGroups(posAttr.Kind, candidate)

	var valueMatched []attrmodel.ParsedAttribute
	for _, group := range groups {
		for _, candAttr := range group.Attrs {
			if s.Comparator.CompareValues(ctx, posAttr, candAttr) {
				valueMatched = append(valueMatched, candAttr)
			}
		}
	}

	if len(valueMatched) == 0 {
		return nil, nil
	}

	pairs := make([][2]string, 0, len(valueMatched))
	for _, candAttr := range valueMatched {
		pairs = append(pairs, [2]string{posAttr.CanonicalName, candAttr.CanonicalName})
	}

	scores, err := s.Semantic.CompareBatch(ctx, pairs)
	if err != nil || len(scores) == 0 {
		return nil, err
	}

	maxIndex := 0
	maxScore := scores[0]
	for i := 1; i < len(scores); i++ {
		if scores[i] > maxScore {
			maxScore = scores[i]
			maxIndex = i
		}
	}

	threshold := s.Config.ThresholdAttributeMatch
	if threshold == 0 {
		threshold = 0.73
	}
	if maxScore < threshold {
		return nil, nil
	}

	best := valueMatched[maxIndex]
	var posAttrID *int64
	if posAttr.PositionAttributeID != nil {
		id := *posAttr.PositionAttributeID
		posAttrID = &id
	}

	return &MatchedAttribute{
		PositionAttrID:      posAttrID,
		PositionAttrName:    posAttr.OriginalName,
		PositionAttrValue:   posAttr.OriginalValue,
		PositionAttrUnit:    posAttr.OriginalUnit,
		CandidateAttrName:   best.OriginalName,
		CandidateAttrValue:  best.OriginalValue,
		NameSimilarityScore: maxScore,
		PositionAttrType:    posAttr.Kind,
		CandidateAttrType:   best.Kind,
	}, nil
}

// MinRequiredPoints вычисляет минимально необходимое число очков для
// принятия кандидата: ⌊attributeCount × ratio⌋.
func MinRequiredPoints(attributeCount int, ratio float64) int {
	return int(float64(attributeCount) * ratio)
}
