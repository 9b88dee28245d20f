package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"
)

// SemanticMatcherClient — HTTP-клиент сервиса семантического сходства
// строк (`vectorizer` в исходном сервисе). Реализует
// matcher.SemanticMatcher.
type SemanticMatcherClient struct {
	baseURL string
	http    *http.Client
}

// NewSemanticMatcherClient создаёт клиент, используя handle из Pool.
func NewSemanticMatcherClient(pool *Pool) *SemanticMatcherClient {
	baseURL, client, _ := pool.SemanticMatcherHandle()
	return &SemanticMatcherClient{baseURL: baseURL, http: client}
}

// CompareOne сравнивает одну пару строк через POST {base}/api/v1/comparsion/strings.
func (c *SemanticMatcherClient) CompareOne(ctx context.Context, a, b string) (float64, error) {
	var wire struct {
		Score float64 `json:"score"`
	}

	err := withRetry(ctx, func() error {
		body, err := json.Marshal([2]string{a, b})
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/comparsion/strings", bytes.NewReader(body))
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
			return fmt.Errorf("semantic matcher: unexpected status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&wire)
	})
	if err != nil {
		return 0, nil
	}
	return wire.Score, nil
}

// CompareBatch реализует matcher.SemanticMatcher: сравнивает все пары
// одним запросом к POST {base}/api/v1/comparsion/strings/batch — это
// предпочтительный путь внутри одного кандидата, так как семантический
// сервис — точка с наибольшей задержкой в конвейере.
func (c *SemanticMatcherClient) CompareBatch(ctx context.Context, pairs [][2]string) ([]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	var scores []float64

	err := withRetry(ctx, func() error {
		body, err := json.Marshal(pairs)
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/comparsion/strings/batch", bytes.NewReader(body))
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
			return fmt.Errorf("semantic matcher: unexpected status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&scores)
	})
	if err != nil {
		// Деградация: нулевые оценки для каждой пары — вызывающий код
		// интерпретирует это как "нет совпадения по имени", не прерывая
		// обработку остальных кандидатов.
		scores = make([]float64, len(pairs))
	}
	return scores, nil
}
