package attrmodel

import (
	"context"
	"fmt"
	"strings"
)

// PositionAttributeInput — сырой атрибут позиции тендера до разбора.
type PositionAttributeInput struct {
	ID    int64
	Name  string
	Value string
	Unit  string
}

// RawText собирает строку "имя: значение единица" в формате, ожидаемом
// внешним сервисом attrs-standardizer.
func (a PositionAttributeInput) RawText() string {
	unit := strings.TrimSpace(a.Unit)
	raw := fmt.Sprintf("%s: %s %s", a.Name, a.Value, unit)
	return strings.TrimSpace(raw)
}

// AttrParser абстрагирует внешний сервис разбора строки атрибута в
// типизированное значение (simple/range/multiple).
type AttrParser interface {
	ExtractAttrData(ctx context.Context, rawText string) ([]RawParseResult, error)
}

// ParsePositionAttributes разбирает все атрибуты позиции: вызывает parser
// на каждый атрибут, классифицирует подтип простых значений и нормализует
// единицы измерения через normalize. Атрибуты, которые внешний сервис не
// смог разобрать (пустой результат или ошибка), пропускаются — это
// штатный случай, не повод останавливать обработку остальных атрибутов.
func ParsePositionAttributes(ctx context.Context, attrs []PositionAttributeInput, parser AttrParser, normalize NormalizeFunc) ([]ParsedAttribute, error) {
	result := make([]ParsedAttribute, 0, len(attrs))

	for _, attr := range attrs {
		parsed, err := parser.ExtractAttrData(ctx, attr.RawText())
		if err != nil || len(parsed) == 0 {
			continue
		}

		id := attr.ID
		typedValue, kind := BuildTypedValue(ctx, parsed[0], normalize)

		result = append(result, ParsedAttribute{
			Origin:              OriginPosition,
			OriginalName:        attr.Name,
			OriginalValue:       attr.Value,
			OriginalUnit:        attr.Unit,
			PositionAttributeID: &id,
			CanonicalName:       attr.Name,
			Value:               typedValue,
			Kind:                kind,
		})
	}

	return result, nil
}
