package attrmodel

import (
	"context"
	"strconv"
	"strings"
)

// RawSimple — одна "простая" пара значение/единица, как её возвращает
// внешний сервис нормализации атрибутов для одного элемента (значения
// simple-атрибута или одного конца range/одного элемента multiple).
type RawSimple struct {
	// Value — bool, float64, string или nil: именно так размечает тип
	// внешний парсер до классификации подтипа.
	Value any
	Unit  string
}

// RawParseResult — результат разбора одной атрибутной строки внешним
// сервисом attrs-standardizer.
type RawParseResult struct {
	Type string // "simple" | "range" | "multiple"

	Simple   *RawSimple
	Range    [2]RawSimple // значимо только при Type == "range"
	Multiple []RawSimple  // значимо только при Type == "multiple"
}

// NormalizeFunc приводит числовое значение с единицей измерения к базовой
// единице через внешний сервис нормализации единиц измерения. ok=false
// означает, что нормализация не удалась и исходные value/unit должны
// использоваться без изменений.
type NormalizeFunc func(ctx context.Context, value float64, unit string) (baseValue float64, baseUnit string, ok bool)

// infPositive, infNegative — сигнальные значения бесконечных границ диапазона,
// используемые внешним парсером атрибутов вместо числа.
const (
	infPositive = "_inf+"
	infNegative = "_inf-"
)

func isInfMarker(v any) (BoundKind, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	switch s {
	case infPositive:
		return BoundPosInf, true
	case infNegative:
		return BoundNegInf, true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// buildBound конвертирует RawSimple в Bound, нормализуя единицу измерения
// через normalize, если это конечное значение.
func buildBound(ctx context.Context, raw RawSimple, normalize NormalizeFunc) Bound {
	if kind, ok := isInfMarker(raw.Value); ok {
		unit := raw.Unit
		if normalize != nil && unit != "" {
			if _, baseUnit, ok := normalize(ctx, 1, unit); ok {
				unit = baseUnit
			}
		}
		return Bound{Kind: kind, Unit: unit}
	}

	f, _ := toFloat(raw.Value)
	unit := raw.Unit
	value := f
	if normalize != nil && unit != "" {
		if baseValue, baseUnit, ok := normalize(ctx, f, unit); ok {
			value = baseValue
			unit = baseUnit
		}
	}
	return Bound{Kind: BoundFinite, Value: value, Unit: unit}
}

// BuildTypedValue конвертирует необработанный результат внешнего парсера в
// TypedValue, классифицируя подтип простых значений и нормализуя единицы
// измерения численных/диапазонных значений через normalize (может быть nil,
// тогда нормализация пропускается).
func BuildTypedValue(ctx context.Context, raw RawParseResult, normalize NormalizeFunc) (TypedValue, Kind) {
	switch raw.Type {
	case "range":
		lower := buildBound(ctx, raw.Range[0], normalize)
		upper := buildBound(ctx, raw.Range[1], normalize)
		unit := lower.Unit
		if unit == "" {
			unit = upper.Unit
		}
		return TypedValue{Kind: KindRange, Lower: lower, Upper: upper, RangeUnit: unit}, KindRange

	case "multiple":
		items := make([]TypedValue, 0, len(raw.Multiple))
		for _, item := range raw.Multiple {
			itemKind := ClassifySubtype(item.Value)
			items = append(items, buildSimpleTypedValue(ctx, item, itemKind, normalize))
		}
		return TypedValue{Kind: KindMultiple, Items: items}, KindMultiple

	default: // "simple"
		if raw.Simple == nil {
			return TypedValue{Kind: KindUnknown}, KindUnknown
		}
		kind := ClassifySubtype(raw.Simple.Value)
		return buildSimpleTypedValue(ctx, *raw.Simple, kind, normalize), kind
	}
}

func buildSimpleTypedValue(ctx context.Context, raw RawSimple, kind Kind, normalize NormalizeFunc) TypedValue {
	switch kind {
	case KindBoolean:
		b, _ := coerceBool(raw.Value)
		return TypedValue{Kind: KindBoolean, BoolValue: b}

	case KindNumeric:
		f, unit := coerceNumeric(raw.Value), raw.Unit
		if normalize != nil && unit != "" {
			if baseValue, baseUnit, ok := normalize(ctx, f, unit); ok {
				f, unit = baseValue, baseUnit
			}
		}
		return TypedValue{Kind: KindNumeric, NumericValue: f, NumericUnit: unit}

	default:
		s, _ := raw.Value.(string)
		return TypedValue{Kind: KindString, StringValue: s}
	}
}

func coerceBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if s, ok := v.(string); ok {
		switch s {
		case "да", "true", "yes", "есть", "имеется", "1", "вкл", "включено":
			return true, true
		default:
			return false, true
		}
	}
	return false, false
}

func coerceNumeric(v any) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}
	if s, ok := v.(string); ok {
		cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return f
		}
	}
	return 0
}
