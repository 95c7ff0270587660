package options

// CategoryEnum is a bitmask of text conversions the binder is allowed to perform.
type CategoryEnum int

const (
	CategoryTextNumber  CategoryEnum = 1 << iota // int, uint, float <- string: decimal number representation
	CategoryTextualBool                          // bool <- string: yes, no, on, off representation on top of strconv.ParseBool
	CategoryNumericBool                          // bool <- string: any integer, non-zero is true
	CategoryDatetime                             // time.Time <- string(RFC3339Nano)
	CategoryTimestamp                            // time.Time <- string(Unix seconds)
	CategoryDuration                             // time.Duration <- string(2h45m)
	CategoryNanoseconds                          // time.Duration <- string(integer nanoseconds)
	CategorySeconds                              // time.Duration <- string(floating-point seconds)
	CategoryEnumString                           // enum <- string: named string and integer types (checked with IsValid when present)
	CategoryText                                 // encoding.TextUnmarshaler <- string
	CategoryChar                                 // rune <- string: exactly one character, requested with the "char" tag flag
	CategorySafeArray                            // nodes -> array: node list perfectly fits into a fixed array
	CategoryUnsafeArray                          // nodes -> array: node list does not fit into a fixed array and is cut

	CategoryAll     = (1 << iota) - 1                    // all categories combined
	CategoryNone    = 0                                  // no categories selected
	CategoryDefault = CategoryAll &^ CategoryUnsafeArray // everything except silent truncation
)

// Has reports whether every category of want is present in c.
func (c CategoryEnum) Has(want CategoryEnum) bool {
	return c&want == want
}
