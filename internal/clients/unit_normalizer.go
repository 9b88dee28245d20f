package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cenkalti/backoff/v4"
)

type normalizeRequest struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

type normalizeResponse struct {
	Success         bool    `json:"success"`
	BaseValue       float64 `json:"base_value"`
	BaseUnit        string  `json:"base_unit"`
	NormalizedValue float64 `json:"normalized_value"`
	NormalizedUnit  string  `json:"normalized_unit"`
}

// UnitNormalizerClient — HTTP-клиент сервиса приведения единиц измерения к
// базовой форме.
type UnitNormalizerClient struct {
	baseURL string
	http    *http.Client
}

// NewUnitNormalizerClient создаёт клиент, используя handle из Pool.
func NewUnitNormalizerClient(pool *Pool) *UnitNormalizerClient {
	baseURL, client, _ := pool.UnitNormalizerHandle()
	return &UnitNormalizerClient{baseURL: baseURL, http: client}
}

// Normalize реализует attrmodel.NormalizeFunc: приводит value/unit к
// базовой паре через POST {base}/api/v1/normalize. При любом сбое (сеть,
// не-200, success=false) возвращает ok=false — вызывающий код оставляет
// исходные value/unit без изменений.
func (c *UnitNormalizerClient) Normalize(ctx context.Context, value float64, unit string) (float64, string, bool) {
	var wire normalizeResponse

	err := withRetry(ctx, func() error {
		body, err := json.Marshal(normalizeRequest{Value: strconv.FormatFloat(value, 'f', -1, 64), Unit: unit})
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/normalize", bytes.NewReader(body))
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
			return fmt.Errorf("unit normalizer: unexpected status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&wire)
	})
	if err != nil || !wire.Success {
		return 0, "", false
	}

	baseValue, baseUnit := wire.BaseValue, wire.BaseUnit
	if baseUnit == "" {
		baseValue, baseUnit = wire.NormalizedValue, wire.NormalizedUnit
	}
	if baseUnit == "" {
		return 0, "", false
	}
	return baseValue, baseUnit, true
}
