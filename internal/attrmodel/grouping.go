package attrmodel

// compatibilityRules описывает, какие группы атрибутов кандидата стоит
// рассматривать при поиске соответствия атрибуту позиции данного типа.
// Порядок групп в срезе значим: он определяет порядок сборки пар для
// батчевого сравнения названий. Итог выбирается по максимальному скору
// среди всех пар; при равных скорах побеждает пара, собранная первой.
var compatibilityRules = map[Kind][]Kind{
	KindNumeric:  {KindRange, KindNumeric},
	KindRange:    {KindNumeric, KindRange},
	KindString:   {KindMultiple, KindBoolean, KindString},
	KindMultiple: {KindString, KindBoolean, KindMultiple},
	KindBoolean:  {KindString, KindMultiple, KindBoolean},
}

// CompatibleAttributeGroup связывает тип группы кандидата с атрибутами этой
// группы, пустые группы опускаются.
type CompatibleAttributeGroup struct {
	Kind  Kind
	Attrs []ParsedAttribute
}

// CompatibleGroups возвращает группы атрибутов кандидата, допустимые для
// кросс-типового сравнения с атрибутом позиции типа posKind, в порядке
// приоритета правил совместимости. Типы без зарегистрированного правила
// (KindUnknown) не дают совместимых групп.
func CompatibleGroups(posKind Kind, candidate *GroupedAttributes) []CompatibleAttributeGroup {
	targetKinds, ok := compatibilityRules[posKind]
	if !ok {
		return nil
	}

	var groups []CompatibleAttributeGroup
	for _, k := range targetKinds {
		attrs := candidate.Group(k)
		if len(attrs) > 0 {
			groups = append(groups, CompatibleAttributeGroup{Kind: k, Attrs: attrs})
		}
	}
	return groups
}
