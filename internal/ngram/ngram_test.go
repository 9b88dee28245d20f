package ngram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "рабочее напряжение", CleanText("Рабочее напряжение!", ""))
	assert.Equal(t, "рабочее_напряжение", CleanText("Рабочее   напряжение", "_"))
	assert.Equal(t, "abc123", CleanText("abc-123", ""))
}

func TestJaccard(t *testing.T) {
	t.Run("оба множества пусты", func(t *testing.T) {
		assert.Equal(t, 1.0, Jaccard(map[string]struct{}{}, map[string]struct{}{}))
	})

	t.Run("одно множество пусто", func(t *testing.T) {
		a := map[string]struct{}{"ab": {}}
		assert.Equal(t, 0.0, Jaccard(a, map[string]struct{}{}))
	})

	t.Run("идентичные множества", func(t *testing.T) {
		a := map[string]struct{}{"ab": {}, "bc": {}}
		b := map[string]struct{}{"ab": {}, "bc": {}}
		assert.Equal(t, 1.0, Jaccard(a, b))
	})

	t.Run("частичное пересечение", func(t *testing.T) {
		a := map[string]struct{}{"ab": {}, "bc": {}}
		b := map[string]struct{}{"bc": {}, "cd": {}}
		assert.InDelta(t, 1.0/3.0, Jaccard(a, b), 1e-9)
	})
}

func TestSimilarity_IsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Съёмная батарея", "Съёмный аккумулятор"},
		{"Длина", "Длина кабеля"},
		{"", "abc"},
		{"identical", "identical"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]))
	}
}

func TestSimilarity_IdenticalStrings(t *testing.T) {
	assert.Equal(t, 6.0, Similarity("Рабочее напряжение", "Рабочее напряжение"))
}

func TestSimilarity_Range(t *testing.T) {
	got := Similarity("Съёмная батарея", "Совершенно другое название")
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 6.0)
}

func TestSimilarity_CloseNamesPassBooleanThreshold(t *testing.T) {
	// Порог compareNamesNGram по спецификации — 0.7
	got := Similarity("Съёмная батарея", "Съёмный аккумулятор")
	assert.GreaterOrEqual(t, got, 0.7)
}
