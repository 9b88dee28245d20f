package consumer

import (
	"context"
	"encoding/json"

	"github.com/zhukovvlad/tender-matching-service/internal/attrmodel"
	"github.com/zhukovvlad/tender-matching-service/internal/clients"
)

// candidateAttrWire is the shape a candidate attribute takes inside a
// search-index hit's "attributes" array: already standardized by whatever
// produced the index document, per spec.md §4.2 ("already pre-standardized").
type candidateAttrWire struct {
	OriginalName      string              `json:"original_name"`
	OriginalValue     string              `json:"original_value"`
	StandardizedName  string              `json:"standardized_name"`
	StandardizedValue json.RawMessage     `json:"standardized_value"`
	AttributeType     string              `json:"attribute_type"`
	Lemma             string              `json:"lemma"`
	Stem              string              `json:"stem"`
}

// buildCandidateAttributes converts one search-index hit's raw attribute
// maps into attrmodel.CandidateAttributeInput, falling back to
// original_name/original_value (the latter as a simple value) when
// standardized_* is absent and tagging a
// missing attribute_type as "unknown" per spec.md §4.2.
func buildCandidateAttributes(raw []map[string]any) []attrmodel.CandidateAttributeInput {
	inputs := make([]attrmodel.CandidateAttributeInput, 0, len(raw))

	for _, item := range raw {
		body, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var wire candidateAttrWire
		if err := json.Unmarshal(body, &wire); err != nil {
			continue
		}

		attrType := wire.AttributeType
		if attrType == "" {
			attrType = "unknown"
		}

		input := attrmodel.CandidateAttributeInput{
			OriginalName:  wire.OriginalName,
			OriginalValue: wire.OriginalValue,
			AttributeType: attrType,
			Lemma:         wire.Lemma,
			Stem:          wire.Stem,
		}
		if wire.StandardizedName != "" {
			input.StandardizedName = wire.StandardizedName
		}
		if len(wire.StandardizedValue) > 0 {
			input.StandardizedValue = parseRawResult(attrType, wire.StandardizedValue)
		} else if wire.OriginalValue != "" {
			input.StandardizedValue = attrmodel.RawParseResult{
				Type:   "simple",
				Simple: &attrmodel.RawSimple{Value: wire.OriginalValue},
			}
		}

		inputs = append(inputs, input)
	}

	return inputs
}

func parseRawResult(attrType string, data json.RawMessage) attrmodel.RawParseResult {
	switch attrType {
	case "range":
		var bounds [2]struct {
			Value any    `json:"value"`
			Unit  string `json:"unit"`
		}
		if err := json.Unmarshal(data, &bounds); err != nil {
			return attrmodel.RawParseResult{Type: "range"}
		}
		return attrmodel.RawParseResult{
			Type: "range",
			Range: [2]attrmodel.RawSimple{
				{Value: bounds[0].Value, Unit: bounds[0].Unit},
				{Value: bounds[1].Value, Unit: bounds[1].Unit},
			},
		}

	case "multiple":
		var items []struct {
			Value any    `json:"value"`
			Unit  string `json:"unit"`
		}
		if err := json.Unmarshal(data, &items); err != nil {
			return attrmodel.RawParseResult{Type: "multiple"}
		}
		multiple := make([]attrmodel.RawSimple, 0, len(items))
		for _, it := range items {
			multiple = append(multiple, attrmodel.RawSimple{Value: it.Value, Unit: it.Unit})
		}
		return attrmodel.RawParseResult{Type: "multiple", Multiple: multiple}

	default:
		var simple struct {
			Value any    `json:"value"`
			Unit  string `json:"unit"`
		}
		if err := json.Unmarshal(data, &simple); err != nil {
			return attrmodel.RawParseResult{Type: "simple"}
		}
		return attrmodel.RawParseResult{
			Type:   "simple",
			Simple: &attrmodel.RawSimple{Value: simple.Value, Unit: simple.Unit},
		}
	}
}

// toProductCandidates groups every search hit's attributes and attaches its
// mongo id, ready for matcher.PositionMatcher.Match.
func toProductCandidates(ctx context.Context, hits []clients.CandidateHit, normalize attrmodel.NormalizeFunc) []candidateWithHit {
	result := make([]candidateWithHit, 0, len(hits))
	for _, hit := range hits {
		grouped := attrmodel.ParseCandidateAttributes(ctx, buildCandidateAttributes(hit.Attributes), normalize)
		result = append(result, candidateWithHit{hit: hit, grouped: grouped})
	}
	return result
}

type candidateWithHit struct {
	hit     clients.CandidateHit
	grouped *attrmodel.GroupedAttributes
}
