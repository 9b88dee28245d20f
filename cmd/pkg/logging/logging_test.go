package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogger_ReturnsSameInstance(t *testing.T) {
	t.Run("повторный вызов возвращает тот же логгер", func(t *testing.T) {
		first := GetLogger()
		second := GetLogger()

		assert.Same(t, first, second)
	})
}

func TestLogger_WithFieldReturnsChildLogger(t *testing.T) {
	t.Run("WithField не изменяет родительский логгер", func(t *testing.T) {
		base := GetLogger()
		child := base.WithField("component", "test")

		assert.NotSame(t, base, child)
	})
}
