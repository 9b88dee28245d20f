package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticMatcherClient_CompareOne(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/comparsion/strings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score":0.91}`))
	}))
	defer server.Close()

	client := NewSemanticMatcherClient(newPoolFor(server.URL))
	score, err := client.CompareOne(context.Background(), "Длина", "длина изделия")

	require.NoError(t, err)
	assert.Equal(t, 0.91, score)
}

func TestSemanticMatcherClient_CompareBatch(t *testing.T) {
	t.Run("возвращает оценки в исходном порядке", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/comparsion/strings/batch", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[0.9, 0.2, 0.75]`))
		}))
		defer server.Close()

		client := NewSemanticMatcherClient(newPoolFor(server.URL))
		scores, err := client.CompareBatch(context.Background(), [][2]string{
			{"Длина", "длина"},
			{"Ширина", "объём"},
			{"Высота", "высота изделия"},
		})

		require.NoError(t, err)
		assert.Equal(t, []float64{0.9, 0.2, 0.75}, scores)
	})

	t.Run("пустой список пар не вызывает сеть", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer server.Close()

		client := NewSemanticMatcherClient(newPoolFor(server.URL))
		scores, err := client.CompareBatch(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, scores)
		assert.Equal(t, 0, calls)
	})

	t.Run("сбой сервиса деградирует к нулевым оценкам по числу пар", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewSemanticMatcherClient(newPoolFor(server.URL))
		scores, err := client.CompareBatch(context.Background(), [][2]string{{"a", "b"}, {"c", "d"}})

		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, scores)
	})
}
