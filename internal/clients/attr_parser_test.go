package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPoolFor(serverURL string) *Pool {
	return NewPool(Config{
		AttrParser:      ServiceConfig{BaseURL: serverURL},
		UnitNormalizer:  ServiceConfig{BaseURL: serverURL},
		SemanticMatcher: ServiceConfig{BaseURL: serverURL},
	})
}

func TestAttrParserClient_ExtractAttrData(t *testing.T) {
	t.Run("simple-значение разбирается корректно", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/standardize", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `["Длина 100 см"]`, string(body))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"type":"simple","value":{"value":100,"unit":"см"}}]`))
		}))
		defer server.Close()

		client := NewAttrParserClient(newPoolFor(server.URL))
		results, err := client.ExtractAttrData(context.Background(), "Длина 100 см")

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "simple", results[0].Type)
		require.NotNil(t, results[0].Simple)
		assert.Equal(t, float64(100), results[0].Simple.Value)
		assert.Equal(t, "см", results[0].Simple.Unit)
	})

	t.Run("range-значение разбирается в обе границы", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"type":"range","value":[{"value":1,"unit":"м"},{"value":5,"unit":"м"}]}]`))
		}))
		defer server.Close()

		client := NewAttrParserClient(newPoolFor(server.URL))
		results, err := client.ExtractAttrData(context.Background(), "от 1 до 5 м")

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "range", results[0].Type)
		assert.Equal(t, float64(1), results[0].Range[0].Value)
		assert.Equal(t, float64(5), results[0].Range[1].Value)
	})

	t.Run("4xx не повторяется и деградирует к пустому результату", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewAttrParserClient(newPoolFor(server.URL))
		results, err := client.ExtractAttrData(context.Background(), "мусор")

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, 1, calls)
	})

	t.Run("5xx повторяется до maxAttempts раз", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewAttrParserClient(newPoolFor(server.URL))
		results, err := client.ExtractAttrData(context.Background(), "текст")

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, maxAttempts, calls)
	})
}
