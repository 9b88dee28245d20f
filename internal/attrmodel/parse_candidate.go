package attrmodel

import "context"

// CandidateAttributeInput — атрибут товара-кандидата, уже прошедший
// стандартизацию названия/значения во внешнем сервисе поиска (search
// index хранит его вместе с документом товара).
type CandidateAttributeInput struct {
	OriginalName  string
	OriginalValue string

	StandardizedName  string
	StandardizedValue RawParseResult

	// AttributeType — "simple", "range" или "multiple" из документа индекса
	// либо "unknown", если тип там не указан. ParseCandidateAttributes это
	// поле не читает: итоговый тип определяется по StandardizedValue.
	AttributeType string

	Lemma string
	Stem  string
}

// ParseCandidateAttributes разбирает и группирует атрибуты одного
// товара-кандидата по итоговому типу значения. Ошибочные или
// нераспознанные атрибуты попадают в группу Unknown, но не отбрасываются.
// Ни одно правило совместимости (см. CompatibleGroups) не выбирает группу
// Unknown, поэтому с атрибутами позиции они не сравниваются.
func ParseCandidateAttributes(ctx context.Context, attrs []CandidateAttributeInput, normalize NormalizeFunc) *GroupedAttributes {
	grouped := &GroupedAttributes{}

	for _, attr := range attrs {
		name := attr.StandardizedName
		if name == "" {
			name = attr.OriginalName
		}

		typedValue, kind := BuildTypedValue(ctx, attr.StandardizedValue, normalize)

		grouped.add(ParsedAttribute{
			Origin:        OriginCandidate,
			OriginalName:  attr.OriginalName,
			OriginalValue: attr.OriginalValue,
			CanonicalName: name,
			Value:         typedValue,
			Kind:          kind,
			Lemma:         attr.Lemma,
			Stem:          attr.Stem,
		})
	}

	return grouped
}
