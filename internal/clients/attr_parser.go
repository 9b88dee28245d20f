package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"github.com/zhukovvlad/tender-matching-service/internal/attrmodel"
)

// attrParseWire — форма одного элемента ответа POST {base}/standardize.
type attrParseWire struct {
	Type  string             `json:"type"`
	Value attrParseValueWire `json:"value"`
}

type attrParseValueWire struct {
	// Simple
	Value json.RawMessage `json:"value,omitempty"`
	Unit  string          `json:"unit,omitempty"`
	// Range/Multiple — список элементов {value, unit}
	Items []attrParseValueWire `json:"-"`
}

// UnmarshalJSON поддерживает обе формы значения: объект {value,unit} для
// "simple" и массив таких объектов для "range"/"multiple".
func (v *attrParseValueWire) UnmarshalJSON(data []byte) error {
	var asObject struct {
		Value json.RawMessage `json:"value"`
		Unit  string          `json:"unit"`
	}
	if err := json.Unmarshal(data, &asObject); err == nil && len(asObject.Value) > 0 {
		v.Value = asObject.Value
		v.Unit = asObject.Unit
		return nil
	}

	var asArray []attrParseValueWire
	if err := json.Unmarshal(data, &asArray); err != nil {
		return fmt.Errorf("decode attr parse value: %w", err)
	}
	v.Items = asArray
	return nil
}

// AttrParserClient — HTTP-клиент внешнего сервиса разбора атрибутной
// строки в типизированное значение (`attrs-standardizer` в исходном
// сервисе).
type AttrParserClient struct {
	baseURL string
	http    *http.Client
}

// NewAttrParserClient создаёт клиент, используя handle из Pool.
func NewAttrParserClient(pool *Pool) *AttrParserClient {
	baseURL, client, _ := pool.AttrParserHandle()
	return &AttrParserClient{baseURL: baseURL, http: client}
}

// ExtractAttrData реализует attrmodel.AttrParser: разбирает одну
// атрибутную строку через POST {base}/standardize. Сетевые ошибки и 5xx
// повторяются через withRetry; деградированный ответ (не-200, пустой
// массив) даёт пустой результат без ошибки — это штатный "no match".
func (c *AttrParserClient) ExtractAttrData(ctx context.Context, rawText string) ([]attrmodel.RawParseResult, error) {
	var wire []attrParseWire

	err := withRetry(ctx, func() error {
		body, err := json.Marshal([]string{rawText})
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/standardize", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nonRetryableStatus(resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("attr parser: unexpected status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&wire)
	})
	if err != nil {
		return nil, nil
	}

	results := make([]attrmodel.RawParseResult, 0, len(wire))
	for _, w := range wire {
		results = append(results, convertWireResult(w))
	}
	return results, nil
}

func convertWireResult(w attrParseWire) attrmodel.RawParseResult {
	switch w.Type {
	case "range":
		if len(w.Value.Items) == 2 {
			return attrmodel.RawParseResult{
				Type: "range",
				Range: [2]attrmodel.RawSimple{
					toRawSimple(w.Value.Items[0]),
					toRawSimple(w.Value.Items[1]),
				},
			}
		}
		return attrmodel.RawParseResult{Type: "range"}

	case "multiple":
		items := make([]attrmodel.RawSimple, 0, len(w.Value.Items))
		for _, item := range w.Value.Items {
			items = append(items, toRawSimple(item))
		}
		return attrmodel.RawParseResult{Type: "multiple", Multiple: items}

	default:
		simple := toRawSimple(w.Value)
		return attrmodel.RawParseResult{Type: "simple", Simple: &simple}
	}
}

func toRawSimple(w attrParseValueWire) attrmodel.RawSimple {
	var value any
	if len(w.Value) > 0 {
		_ = json.Unmarshal(w.Value, &value)
	}
	return attrmodel.RawSimple{Value: value, Unit: w.Unit}
}
