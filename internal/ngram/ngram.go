// Package ngram реализует локальное сравнение строк через n-граммы Жаккара,
// используемое как дешёвый первый проход и для сравнения булевых названий
// и множественных значений.
package ngram

import (
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanText приводит текст к нижнему регистру, убирает всё кроме букв, цифр
// и пробелов, схлопывает пробелы и, если separator задан, заменяет пробелы на него.
func CleanText(text, separator string) string {
	cleaned := nonWordPattern.ReplaceAllString(text, "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.ToLower(strings.TrimSpace(cleaned))
	if separator != "" {
		cleaned = strings.ReplaceAll(cleaned, " ", separator)
	}
	return cleaned
}

// Ngrams строит множество n-грамм из text. С padding=true текст дополняется
// (n-1) символами подчёркивания с обеих сторон перед нарезкой.
func Ngrams(text string, n int, padding bool) map[string]struct{} {
	set := make(map[string]struct{})
	runes := []rune(text)
	if len(runes) == 0 || len(runes) < n {
		return set
	}

	if padding {
		pad := strings.Repeat("_", n-1)
		text = pad + text + pad
		runes = []rune(text)
	}

	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

// Jaccard вычисляет коэффициент Жаккара между двумя множествами строк.
// Два пустых множества считаются полностью совпадающими (1.0).
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Similarity сравнивает две строки через биграммы и триграммы в трёх
// кодировках каждая (без паддинга по пробелу, без паддинга по подчёркиванию,
// с паддингом по подчёркиванию) и возвращает сумму шести коэффициентов
// Жаккара, диапазон [0, 6]. Результат симметричен: Similarity(a, b) == Similarity(b, a).
func Similarity(a, b string) float64 {
	cleanSpaceA := CleanText(a, "")
	cleanUnderscoreA := CleanText(a, "_")
	cleanSpaceB := CleanText(b, "")
	cleanUnderscoreB := CleanText(b, "_")

	bigramsSpaceA := Ngrams(cleanSpaceA, 2, false)
	bigramsSpaceB := Ngrams(cleanSpaceB, 2, false)
	bigramsUnderscoreA := Ngrams(cleanUnderscoreA, 2, false)
	bigramsUnderscoreB := Ngrams(cleanUnderscoreB, 2, false)
	bigramsPaddedA := Ngrams(cleanUnderscoreA, 2, true)
	bigramsPaddedB := Ngrams(cleanUnderscoreB, 2, true)

	trigramsSpaceA := Ngrams(cleanSpaceA, 3, false)
	trigramsSpaceB := Ngrams(cleanSpaceB, 3, false)
	trigramsUnderscoreA := Ngrams(cleanUnderscoreA, 3, false)
	trigramsUnderscoreB := Ngrams(cleanUnderscoreB, 3, false)
	trigramsPaddedA := Ngrams(cleanUnderscoreA, 3, true)
	trigramsPaddedB := Ngrams(cleanUnderscoreB, 3, true)

	sum := Jaccard(bigramsSpaceA, bigramsSpaceB)
	sum += Jaccard(bigramsUnderscoreA, bigramsUnderscoreB)
	sum += Jaccard(bigramsPaddedA, bigramsPaddedB)
	sum += Jaccard(trigramsSpaceA, trigramsSpaceB)
	sum += Jaccard(trigramsUnderscoreA, trigramsUnderscoreB)
	sum += Jaccard(trigramsPaddedA, trigramsPaddedB)

	return sum
}
