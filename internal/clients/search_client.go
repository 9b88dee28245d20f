package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// SearchConfig описывает подключение к полнотекстовому поисковому индексу.
// Это не один из трёх NLP-сервисов Pool — у него своя политика ретраев
// (ES_MAX_RETRIES) и размер выборки кандидатов (ES_CANDIDATES_QTY), поэтому
// клиент строит собственный *http.Client, а не берёт handle из Pool.
type SearchConfig struct {
	BaseURL             string
	Timeout             time.Duration
	MaxIdleConnsPerHost int
	// CandidatesQty — сколько кандидатов запрашивать на одну позицию.
	CandidatesQty int
	// MaxRetries — число попыток запроса, включая первую.
	MaxRetries int
}

func (c SearchConfig) withDefaults() SearchConfig {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = 15
	}
	if c.CandidatesQty <= 0 {
		c.CandidatesQty = 50
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = maxAttempts
	}
	return c
}

// CandidateHit — один кандидат из ответа поискового индекса
// (`hits.hits[]._source`). Непрозрачен для ядра за пределами этой формы —
// спецификация явно выводит построение запроса и сам индекс за рамки
// системы.
type CandidateHit struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Category       string           `json:"category"`
	YandexCategory string           `json:"yandex_category"`
	Attributes     []map[string]any `json:"attributes"`
}

type searchResponseWire struct {
	Hits struct {
		Hits []struct {
			Source CandidateHit `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchClient — тонкая типизированная обёртка над поисковым индексом.
// Запрос строит вызывающий код (PositionMatcher/Consumer); этот клиент
// только сериализует query, отправляет его и разбирает ответ.
type SearchClient struct {
	cfg  SearchConfig
	http *http.Client
}

// NewSearchClient строит клиент поискового индекса с собственным пулом
// соединений, независимым от трёх NLP-сервисов.
func NewSearchClient(cfg SearchConfig) *SearchClient {
	cfg = cfg.withDefaults()
	transport := &http.Transport{
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     60 * time.Second,
	}
	return &SearchClient{
		cfg:  cfg,
		http: &http.Client{Transport: transport, Timeout: cfg.Timeout},
	}
}

// FindCandidates отправляет прилагаемый query-документ на {baseURL}/{index}/_search
// и возвращает разобранные hits в исходном порядке. Сбой деградирует до
// пустого списка без ошибки — позиция просто не находит кандидатов.
func (c *SearchClient) FindCandidates(ctx context.Context, index string, query any) ([]CandidateHit, error) {
	var wire searchResponseWire

	err := withRetryN(ctx, c.cfg.MaxRetries, func() error {
		body, err := json.Marshal(query)
		if err != nil {
			return backoff.Permanent(err)
		}

		url := fmt.Sprintf("%s/%s/_search", c.cfg.BaseURL, index)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
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
			return fmt.Errorf("search client: unexpected status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&wire)
	})
	if err != nil {
		return nil, nil
	}

	hits := make([]CandidateHit, 0, len(wire.Hits.Hits))
	for _, h := range wire.Hits.Hits {
		hits = append(hits, h.Source)
	}
	return hits, nil
}

// CandidatesQty возвращает настроенный размер выборки кандидатов
// (ES_CANDIDATES_QTY), используемый вызывающим кодом при построении query.
func (c *SearchClient) CandidatesQty() int {
	return c.cfg.CandidatesQty
}
