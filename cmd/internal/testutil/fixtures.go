package testutil

import (
	"database/sql"

	"github.com/zhukovvlad/tender-matching-service/internal/store"
)

// Fixtures содержит готовый набор тестовых данных для интеграционных тестов
// internal/store: позиции тендера вместе с их атрибутами.
type Fixtures struct {
	Positions []store.Position
}

// NewFixtures создаёт пустой набор фикстур.
func NewFixtures() *Fixtures {
	return &Fixtures{}
}

// CreateTestPosition создаёт тестовую позицию тендера без атрибутов.
func CreateTestPosition(id, tenderID int64, title, category string) store.Position {
	return store.Position{
		ID:       id,
		TenderID: tenderID,
		Title:    sql.NullString{String: title, Valid: title != ""},
		Category: sql.NullString{String: category, Valid: category != ""},
	}
}

// CreateTestAttribute создаёт тестовый атрибут позиции.
func CreateTestAttribute(id, positionID int64, name, value, unit string) store.PositionAttribute {
	return store.PositionAttribute{
		ID:               id,
		TenderPositionID: positionID,
		Name:             sql.NullString{String: name, Valid: name != ""},
		Value:            sql.NullString{String: value, Valid: value != ""},
		Unit:             sql.NullString{String: unit, Valid: unit != ""},
		Type:             sql.NullString{String: "simple", Valid: true},
	}
}

// DefaultFixtures создаёт набор стандартных фикстур: две позиции одного
// тендера, у одной из которых есть числовой атрибут.
func DefaultFixtures() *Fixtures {
	f := NewFixtures()

	pipePosition := CreateTestPosition(1, 1, "Труба стальная", "Трубопроводная арматура")
	pipePosition.Attributes = []store.PositionAttribute{
		CreateTestAttribute(1, 1, "Диаметр", "100", "мм"),
	}

	valvePosition := CreateTestPosition(2, 1, "Задвижка клиновая", "Трубопроводная арматура")

	f.Positions = []store.Position{pipePosition, valvePosition}

	return f
}

// String возвращает указатель на string.
func String(s string) *string { return &s }

// Int64 возвращает указатель на int64.
func Int64(i int64) *int64 { return &i }

// Float64 возвращает указатель на float64.
func Float64(f float64) *float64 { return &f }
