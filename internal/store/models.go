// Package store реализует персистентность поверх database/sql + lib/pq:
// загрузку позиций тендера и их атрибутов, батчевую запись результатов
// сопоставления и атомарный счётчик обработанных позиций. Таблицы
// tenders_positions и tenders_position_attributes только читаются; в
// tenders_info изменяется только счётчик processed_positions; записываются
// tender_matches, tenders_position_attributes_matches и matching_cache.
package store

import "database/sql"

// PositionAttribute — строка tenders_position_attributes.
type PositionAttribute struct {
	ID               int64
	TenderPositionID int64
	CharacteristicID sql.NullInt64
	Name             sql.NullString
	Value            sql.NullString
	Unit             sql.NullString
	Required         sql.NullBool
	Changeable       sql.NullBool
	FillInstructions sql.NullString
	Type             sql.NullString
}

// Position — строка tenders_positions вместе с её атрибутами, эквивалент
// Python-прототипа `TenderPositions` с `selectinload(.attributes)`.
type Position struct {
	ID         int64
	TenderID   int64
	Title      sql.NullString
	Category   sql.NullString
	CategoryID sql.NullInt64
	Attributes []PositionAttribute
}

// MatchInsert — один элемент батча для tender_matches.
type MatchInsert struct {
	TenderPositionID     int64
	ProductMongoID       string
	MatchScore           int
	MaxMatchScore        int
	PercentageMatchScore float64
}

// UnmatchedPosition — позиция тендера, для которой ещё нет ни одной строки
// в tender_matches, отдаётся оператору для ручного сопоставления.
type UnmatchedPosition struct {
	ID       int64
	Title    sql.NullString
	Category sql.NullString
}

// MatchingCacheEntry — строка matching_cache: связывает хеш сырого текста
// позиции (и версию нормализации) с уже подтверждённым product_mongo_id, по
// аналогии с кэшем ручных сопоставлений teacher-сервиса.
type MatchingCacheEntry struct {
	JobTitleHash   string
	NormVersion    int
	JobTitleText   sql.NullString
	ProductMongoID string
	ExpiresAt      sql.NullTime
}

// AttributeMatchInsert — один элемент батча для
// tenders_position_attributes_matches.
type AttributeMatchInsert struct {
	TenderID             int64
	TenderPositionID     int64
	PositionAttrID       sql.NullInt64
	ProductMongoID       string
	PositionAttrName     string
	PositionAttrValue    string
	PositionAttrUnit     sql.NullString
	ProductAttrName      string
	ProductAttrValue     string
	AttrNameMatchScore   sql.NullFloat64
	AttrValueMatchScore  sql.NullFloat64
}
