// Package attrmodel реализует типизированную модель значений атрибутов
// позиций тендера и товаров каталога: разбор сырого текста в TypedValue,
// классификацию подтипа и нормализацию единиц измерения.
package attrmodel

// Kind — тег итогового типа значения атрибута.
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindString   Kind = "string"
	KindBoolean  Kind = "boolean"
	KindRange    Kind = "range"
	KindMultiple Kind = "multiple"
	KindUnknown  Kind = "unknown"
)

// BoundKind различает конечную и бесконечную границу диапазона.
type BoundKind int

const (
	BoundFinite BoundKind = iota
	BoundNegInf
	BoundPosInf
)

// Bound — одна граница Range: конечное число либо +/-inf.
type Bound struct {
	Kind  BoundKind
	Value float64 // значим только при Kind == BoundFinite
	Unit  string
}

// TypedValue — алгебра значений атрибута (§3 спецификации): ровно одно из
// полей ниже заполнено содержательно, выбор определяется полем Kind.
type TypedValue struct {
	Kind Kind

	// Numeric
	NumericValue float64
	NumericUnit  string

	// String
	StringValue string

	// Boolean
	BoolValue bool

	// Range
	Lower    Bound
	Upper    Bound
	RangeUnit string

	// Multiple — последовательность простых TypedValue (каждая Numeric,
	// String или Boolean).
	Items []TypedValue
}

// Origin различает, откуда пришёл атрибут: из позиции тендера или из
// товара-кандидата.
type Origin int

const (
	OriginPosition Origin = iota
	OriginCandidate
)

// ParsedAttribute — разобранный, типизированный атрибут с исходными данными,
// сохранёнными для последующей персистентности.
type ParsedAttribute struct {
	Origin Origin

	// Исходная тройка, как она пришла от позиции/кандидата.
	OriginalName  string
	OriginalValue string
	OriginalUnit  string

	// ID атрибута позиции в реляционном хранилище; nil для атрибутов кандидата.
	PositionAttributeID *int64

	CanonicalName string
	Value         TypedValue
	Kind          Kind

	// Lemma/Stem — опциональные предвычисленные формы текстового значения
	// (доступны только для атрибутов кандидата, пришедших уже
	// стандартизированными).
	Lemma string
	Stem  string
}

// GroupedAttributes — атрибуты кандидата, сгруппированные по итоговому типу,
// с сохранением порядка вставки внутри каждой группы.
type GroupedAttributes struct {
	Boolean  []ParsedAttribute
	Numeric  []ParsedAttribute
	String   []ParsedAttribute
	Range    []ParsedAttribute
	Multiple []ParsedAttribute
	Unknown  []ParsedAttribute
	All      []ParsedAttribute
}

// Group возвращает срез группы по тегу типа (только для пяти известных
// типов и unknown; для неизвестного тега возвращает nil).
func (g *GroupedAttributes) Group(k Kind) []ParsedAttribute {
	switch k {
	case KindBoolean:
		return g.Boolean
	case KindNumeric:
		return g.Numeric
	case KindString:
		return g.String
	case KindRange:
		return g.Range
	case KindMultiple:
		return g.Multiple
	case KindUnknown:
		return g.Unknown
	default:
		return nil
	}
}

// add добавляет attr в группу, соответствующую attr.Kind (или Unknown, если
// тег не распознан), и всегда — в All.
func (g *GroupedAttributes) add(attr ParsedAttribute) {
	switch attr.Kind {
	case KindBoolean:
		g.Boolean = append(g.Boolean, attr)
	case KindNumeric:
		g.Numeric = append(g.Numeric, attr)
	case KindString:
		g.String = append(g.String, attr)
	case KindRange:
		g.Range = append(g.Range, attr)
	case KindMultiple:
		g.Multiple = append(g.Multiple, attr)
	default:
		g.Unknown = append(g.Unknown, attr)
	}
	g.All = append(g.All, attr)
}
