// Package matcher реализует сопоставление структурированных атрибутов
// позиции тендера со структурированными атрибутами товара-кандидата:
// сравнение значений по типам, скоринг кандидата и оркестрацию всей
// позиции.
package matcher

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/zhukovvlad/tender-matching-service/internal/attrmodel"
	"github.com/zhukovvlad/tender-matching-service/internal/ngram"
)

// compareNamesThreshold — порог ngram-суммы для сравнения названий
// булевых атрибутов (compareNamesNGram). Не настраивается через конфиг:
// в отличие от THRESHOLD_VALUE_MATCH это структурная константа алгоритма.
const compareNamesThreshold = 0.7

// Lemmatizer приводит строку к её нормальной форме. Реализация по
// умолчанию (см. NoopLemmatizer) делает только приведение регистра —
// хостинг полноценной NLP-модели вне области ответственности этого
// сервиса.
type Lemmatizer interface {
	Lemmatize(text string) string
}

// NoopLemmatizer — лемматизатор по умолчанию: сравнение по точному
// совпадению после приведения к нижнему регистру и обрезки пробелов.
type NoopLemmatizer struct{}

func (NoopLemmatizer) Lemmatize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// UnitNormalizer приводит числовое значение с единицей измерения к базовой
// единице через внешний сервис нормализации единиц.
type UnitNormalizer interface {
	Normalize(ctx context.Context, value float64, unit string) (baseValue float64, baseUnit string, ok bool)
}

// ValueComparator сравнивает значения атрибута позиции и атрибута
// кандидата, используя thresholdValueMatch как порог для
// compareMultipleTextual.
type ValueComparator struct {
	Lemmatizer     Lemmatizer
	UnitNormalizer UnitNormalizer
	// ThresholdValueMatch — порог ngram-суммы для compareMultipleTextual;
	// THRESHOLD_VALUE_MATCH конфигурации, по умолчанию 0.85.
	ThresholdValueMatch float64
	// NumericTolerance — допустимая относительная погрешность для
	// compareNumeric (numericInRange проверяет границы без допуска);
	// Matching.NumericTolerance конфигурации, по умолчанию 0.1 (10%).
	NumericTolerance float64
}

// NewValueComparator создаёт ValueComparator с NoopLemmatizer, заданным
// порогом compareMultipleTextual и числовым допуском по умолчанию (0.1).
func NewValueComparator(unitNormalizer UnitNormalizer, thresholdValueMatch float64) *ValueComparator {
	return &ValueComparator{
		Lemmatizer:          NoopLemmatizer{},
		UnitNormalizer:       unitNormalizer,
		ThresholdValueMatch: thresholdValueMatch,
		NumericTolerance:    0.1,
	}
}

// compareFunc is one cell of the posKind×candKind dispatch table.
type compareFunc func(c *ValueComparator, ctx context.Context, pos, cand attrmodel.ParsedAttribute) bool

// kindPair indexes dispatchTable by (position kind, candidate kind).
type kindPair [2]attrmodel.Kind

// dispatchTable is the 5×5 grid from §4.4: off-diagonal cells not listed
// here are rejected by CompareValues' default case. Built once as a plain
// package var, not lazily behind sync.Once — there is no runtime state to
// protect, only a fixed lookup table.
var dispatchTable = map[kindPair]compareFunc{
	{attrmodel.KindBoolean, attrmodel.KindBoolean}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareNamesNGram(pos, cand)
	},
	{attrmodel.KindBoolean, attrmodel.KindString}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareNamesNGram(pos, cand)
	},
	{attrmodel.KindBoolean, attrmodel.KindMultiple}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareNamesNGram(pos, cand)
	},
	{attrmodel.KindString, attrmodel.KindBoolean}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareNamesNGram(pos, cand)
	},
	{attrmodel.KindMultiple, attrmodel.KindBoolean}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareNamesNGram(pos, cand)
	},

	{attrmodel.KindNumeric, attrmodel.KindNumeric}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareNumeric(pos.Value, cand.Value)
	},
	{attrmodel.KindString, attrmodel.KindString}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareStringsLemma(pos, cand)
	},
	{attrmodel.KindRange, attrmodel.KindRange}: func(c *ValueComparator, ctx context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.rangesIntersect(ctx, pos.Value, cand.Value)
	},

	{attrmodel.KindNumeric, attrmodel.KindRange}: func(c *ValueComparator, ctx context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.numericInRange(ctx, pos.Value, cand.Value)
	},
	{attrmodel.KindRange, attrmodel.KindNumeric}: func(c *ValueComparator, ctx context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.numericInRange(ctx, cand.Value, pos.Value)
	},

	{attrmodel.KindMultiple, attrmodel.KindString}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareMultipleTextual(pos.Value, cand.Value)
	},
	{attrmodel.KindString, attrmodel.KindMultiple}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareMultipleTextual(pos.Value, cand.Value)
	},
	{attrmodel.KindMultiple, attrmodel.KindMultiple}: func(c *ValueComparator, _ context.Context, pos, cand attrmodel.ParsedAttribute) bool {
		return c.compareMultipleTextual(pos.Value, cand.Value)
	},
}

// CompareValues реализует диспетчеризацию 5×5 из §4.4: сравнивает значение
// атрибута позиции pos со значением атрибута кандидата cand через
// dispatchTable, выбранную по паре (pos.Kind, cand.Kind). Незарегистрированная
// пара типов всегда отклоняется.
func (c *ValueComparator) CompareValues(ctx context.Context, pos, cand attrmodel.ParsedAttribute) bool {
	fn, ok := dispatchTable[kindPair{pos.Kind, cand.Kind}]
	if !ok {
		return false
	}
	return fn(c, ctx, pos, cand)
}

// compareNamesNGram сравнивает CanonicalName обоих атрибутов через
// ngram.Similarity; используется для boolean×boolean и для пар boolean со
// string/multiple в обе стороны (пары boolean с numeric/range в
// dispatchTable не зарегистрированы и отклоняются). Значения намеренно
// игнорируются.
func (c *ValueComparator) compareNamesNGram(pos, cand attrmodel.ParsedAttribute) bool {
	if pos.CanonicalName == "" || cand.CanonicalName == "" {
		return false
	}
	if strings.EqualFold(pos.CanonicalName, cand.CanonicalName) {
		return true
	}
	return ngram.Similarity(pos.CanonicalName, cand.CanonicalName) >= compareNamesThreshold
}

// compareStringsLemma сравнивает строковые значения по равенству
// предвычисленных лемм; если лемма кандидата отсутствует, лемматизирует
// значение позиции on-demand и сравнивает как обычные строки.
func (c *ValueComparator) compareStringsLemma(pos, cand attrmodel.ParsedAttribute) bool {
	posValue := pos.Value.StringValue
	candLemma := cand.Lemma
	if candLemma == "" {
		candLemma = cand.Value.StringValue
	}

	posLemma := c.Lemmatizer.Lemmatize(posValue)
	return posLemma != "" && posLemma == strings.ToLower(strings.TrimSpace(candLemma))
}

// compareNumeric сравнивает числовые значения с учётом единиц измерения:
// при равных единицах допуск 10% от большего по модулю значения; при
// разных единицах обе приводятся к базовой через UnitNormalizer и
// сравниваются с тем же допуском.
func (c *ValueComparator) compareNumeric(pos, cand attrmodel.TypedValue) bool {
	posValue, posUnit := pos.NumericValue, pos.NumericUnit
	candValue, candUnit := cand.NumericValue, cand.NumericUnit

	if posUnit == candUnit {
		return c.withinTolerance(posValue, candValue)
	}

	if posUnit == "" || candUnit == "" || c.UnitNormalizer == nil {
		return false
	}

	posBase, _, posOK := c.UnitNormalizer.Normalize(context.Background(), posValue, posUnit)
	candBase, _, candOK := c.UnitNormalizer.Normalize(context.Background(), candValue, candUnit)
	if !posOK || !candOK {
		return false
	}
	return c.withinTolerance(posBase, candBase)
}

func (c *ValueComparator) withinTolerance(a, b float64) bool {
	tolerance := c.NumericTolerance
	if tolerance == 0 {
		tolerance = 0.1
	}
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom < 1 {
		denom = 1
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff/denom <= tolerance
}

// numericInRange проверяет, входит ли числовое значение value в границы
// диапазона rng, приводя единицы к единице диапазона при необходимости.
func (c *ValueComparator) numericInRange(ctx context.Context, value, rng attrmodel.TypedValue) bool {
	v, unit := value.NumericValue, value.NumericUnit
	if unit != "" && rng.RangeUnit != "" && unit != rng.RangeUnit && c.UnitNormalizer != nil {
		if base, _, ok := c.UnitNormalizer.Normalize(ctx, v, unit); ok {
			v = base
		}
	}

	lower, lowerOK := boundValue(rng.Lower)
	upper, upperOK := boundValue(rng.Upper)
	if lowerOK && v < lower {
		return false
	}
	if upperOK && v > upper {
		return false
	}
	return true
}

// rangesIntersect проверяет пересечение двух диапазонов после выравнивания
// единиц измерения: a.lower ≤ b.upper ∧ b.lower ≤ a.upper. Операция
// симметрична по построению.
func (c *ValueComparator) rangesIntersect(ctx context.Context, a, b attrmodel.TypedValue) bool {
	aLower, aLowerOK := boundValue(a.Lower)
	aUpper, aUpperOK := boundValue(a.Upper)
	bLower, bLowerOK := boundValue(b.Lower)
	bUpper, bUpperOK := boundValue(b.Upper)

	if aLowerOK && bUpperOK && aLower > bUpper {
		return false
	}
	if bLowerOK && aUpperOK && bLower > aUpper {
		return false
	}
	return true
}

// boundValue возвращает (значение, true) для конечной границы; для
// бесконечных границ возвращает (0, false) — отсутствие ограничения.
func boundValue(b attrmodel.Bound) (float64, bool) {
	if b.Kind != attrmodel.BoundFinite {
		return 0, false
	}
	return b.Value, true
}

// compareMultipleTextual сравнивает два значения, из которых хотя бы одно —
// Multiple, перебором всех пар текстовых представлений элементов: успех,
// если ngram-сумма любой пары ≥ ThresholdValueMatch.
func (c *ValueComparator) compareMultipleTextual(pos, cand attrmodel.TypedValue) bool {
	posItems := asTextItems(pos)
	candItems := asTextItems(cand)

	threshold := c.ThresholdValueMatch
	if threshold == 0 {
		threshold = 0.85
	}

	for _, p := range posItems {
		for _, cd := range candItems {
			if ngram.Similarity(p, cd) >= threshold {
				return true
			}
		}
	}
	return false
}

// asTextItems сводит TypedValue (simple или Multiple) к списку текстовых
// представлений его элементов, в нижнем регистре.
func asTextItems(v attrmodel.TypedValue) []string {
	if v.Kind == attrmodel.KindMultiple {
		items := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, strings.ToLower(stringifyValue(item)))
		}
		return items
	}
	return []string{strings.ToLower(stringifyValue(v))}
}

func stringifyValue(v attrmodel.TypedValue) string {
	switch v.Kind {
	case attrmodel.KindString:
		return v.StringValue
	case attrmodel.KindBoolean:
		if v.BoolValue {
			return "true"
		}
		return "false"
	case attrmodel.KindNumeric:
		return formatFloat(v.NumericValue)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
