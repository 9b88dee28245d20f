package attrmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTypedValue_Simple(t *testing.T) {
	raw := RawParseResult{
		Type:   "simple",
		Simple: &RawSimple{Value: 220.0, Unit: "В"},
	}

	tv, kind := BuildTypedValue(context.Background(), raw, nil)
	assert.Equal(t, KindNumeric, kind)
	assert.Equal(t, 220.0, tv.NumericValue)
	assert.Equal(t, "В", tv.NumericUnit)
}

func TestBuildTypedValue_SimpleWithNormalization(t *testing.T) {
	raw := RawParseResult{
		Type:   "simple",
		Simple: &RawSimple{Value: 1.0, Unit: "кВт"},
	}

	normalize := func(ctx context.Context, value float64, unit string) (float64, string, bool) {
		return value * 1000, "Вт", true
	}

	tv, kind := BuildTypedValue(context.Background(), raw, normalize)
	assert.Equal(t, KindNumeric, kind)
	assert.Equal(t, 1000.0, tv.NumericValue)
	assert.Equal(t, "Вт", tv.NumericUnit)
}

func TestBuildTypedValue_Boolean(t *testing.T) {
	raw := RawParseResult{Type: "simple", Simple: &RawSimple{Value: "да"}}

	tv, kind := BuildTypedValue(context.Background(), raw, nil)
	assert.Equal(t, KindBoolean, kind)
	assert.True(t, tv.BoolValue)
}

func TestBuildTypedValue_Range(t *testing.T) {
	raw := RawParseResult{
		Type: "range",
		Range: [2]RawSimple{
			{Value: 10.0, Unit: "мм"},
			{Value: 20.0, Unit: "мм"},
		},
	}

	tv, kind := BuildTypedValue(context.Background(), raw, nil)
	assert.Equal(t, KindRange, kind)
	assert.Equal(t, BoundFinite, tv.Lower.Kind)
	assert.Equal(t, 10.0, tv.Lower.Value)
	assert.Equal(t, BoundFinite, tv.Upper.Kind)
	assert.Equal(t, 20.0, tv.Upper.Value)
	assert.Equal(t, "мм", tv.RangeUnit)
}

func TestBuildTypedValue_RangeWithInfinity(t *testing.T) {
	raw := RawParseResult{
		Type: "range",
		Range: [2]RawSimple{
			{Value: "_inf-", Unit: "кг"},
			{Value: 500.0, Unit: "кг"},
		},
	}

	tv, kind := BuildTypedValue(context.Background(), raw, nil)
	assert.Equal(t, KindRange, kind)
	assert.Equal(t, BoundNegInf, tv.Lower.Kind)
	assert.Equal(t, BoundFinite, tv.Upper.Kind)
	assert.Equal(t, 500.0, tv.Upper.Value)
}

func TestBuildTypedValue_Multiple(t *testing.T) {
	raw := RawParseResult{
		Type: "multiple",
		Multiple: []RawSimple{
			{Value: "красный"},
			{Value: "синий"},
			{Value: "зелёный"},
		},
	}

	tv, kind := BuildTypedValue(context.Background(), raw, nil)
	assert.Equal(t, KindMultiple, kind)
	assert.Len(t, tv.Items, 3)
	for _, item := range tv.Items {
		assert.Equal(t, KindString, item.Kind)
	}
}

func TestParsePositionAttributes_SkipsUnparsable(t *testing.T) {
	parser := stubParser{
		results: map[string][]RawParseResult{
			"мощность: 5 кВт": {{Type: "simple", Simple: &RawSimple{Value: 5.0, Unit: "кВт"}}},
		},
	}

	attrs := []PositionAttributeInput{
		{ID: 1, Name: "мощность", Value: "5", Unit: "кВт"},
		{ID: 2, Name: "непонятный", Value: "???", Unit: ""},
	}

	result, err := ParsePositionAttributes(context.Background(), attrs, parser, nil)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, KindNumeric, result[0].Kind)
	assert.Equal(t, int64(1), *result[0].PositionAttributeID)
}

type stubParser struct {
	results map[string][]RawParseResult
}

func (s stubParser) ExtractAttrData(ctx context.Context, rawText string) ([]RawParseResult, error) {
	return s.results[rawText], nil
}
