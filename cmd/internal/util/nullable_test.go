package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullableString(t *testing.T) {
	t.Run("nil указатель невалиден", func(t *testing.T) {
		assert.False(t, NullableString(nil).Valid)
	})

	t.Run("пустая строка невалидна", func(t *testing.T) {
		empty := ""
		assert.False(t, NullableString(&empty).Valid)
	})

	t.Run("непустая строка валидна", func(t *testing.T) {
		s := "мм"
		result := NullableString(&s)
		assert.True(t, result.Valid)
		assert.Equal(t, "мм", result.String)
	})
}

func TestNullableFloat64(t *testing.T) {
	t.Run("nil указатель невалиден", func(t *testing.T) {
		assert.False(t, NullableFloat64(nil).Valid)
	})

	t.Run("0.0 валидно", func(t *testing.T) {
		zero := 0.0
		result := NullableFloat64(&zero)
		assert.True(t, result.Valid)
		assert.Equal(t, 0.0, result.Float64)
	})

	t.Run("ненулевое значение", func(t *testing.T) {
		f := 0.85
		result := NullableFloat64(&f)
		assert.True(t, result.Valid)
		assert.Equal(t, 0.85, result.Float64)
	})
}

func TestNullableInt64(t *testing.T) {
	t.Run("nil указатель невалиден", func(t *testing.T) {
		assert.False(t, NullableInt64(nil).Valid)
	})

	t.Run("ненулевое значение", func(t *testing.T) {
		i := int64(42)
		result := NullableInt64(&i)
		assert.True(t, result.Valid)
		assert.Equal(t, int64(42), result.Int64)
	})
}

func TestNilIfEmpty(t *testing.T) {
	t.Run("пустая строка возвращает nil", func(t *testing.T) {
		assert.Nil(t, NilIfEmpty(""))
	})

	t.Run("непустая строка возвращает указатель", func(t *testing.T) {
		result := NilIfEmpty("см")
		assert.NotNil(t, result)
		assert.Equal(t, "см", *result)
	})
}
