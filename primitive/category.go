package primitive

import "xpathbind/options"

// kindCategories lists, per kind, the categories any one of which makes a text
// conversion into that kind possible.
var kindCategories map[KindEnum]options.CategoryEnum

func init() {
	kindCategories = make(map[KindEnum]options.CategoryEnum)

	for kind := KindEnum(0); int(kind) < KindTotal; kind++ {
		if kind.IsNumber() {
			kindCategories[kind] = options.CategoryTextNumber
		}
	}

	// strconv.ParseBool forms are always understood, categories only widen them
	kindCategories[KindBool] = options.CategoryAll
	kindCategories[KindString] = options.CategoryAll
	kindCategories[KindTime] = options.CategoryDatetime | options.CategoryTimestamp
	kindCategories[KindDuration] = options.CategoryDuration | options.CategoryNanoseconds | options.CategorySeconds
	kindCategories[KindPrimitiveEnum] = options.CategoryEnumString
	kindCategories[KindChar] = options.CategoryChar
	kindCategories[KindText] = options.CategoryText
}

// IsAllowed reports whether text can be converted into kind under the allowed categories.
func IsAllowed(kind KindEnum, allowed options.CategoryEnum) bool {
	return kindCategories[kind]&allowed != 0
}
