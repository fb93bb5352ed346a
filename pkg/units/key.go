package units

import "strings"

// Key uniquely identifies a Unit within the store: one physical unit in one
// building. Both parts are trimmed, case-preserved strings.
type Key struct {
	Building   string
	UnitNumber string
}

// NewKey builds a Key from extracted text, trimming surrounding whitespace.
func NewKey(building, unitNumber string) Key {
	return Key{
		Building:   strings.TrimSpace(building),
		UnitNumber: strings.TrimSpace(unitNumber),
	}
}

// Valid reports whether both identity parts are present.
func (k Key) Valid() bool {
	return k.Building != "" && k.UnitNumber != ""
}

// String returns a human-readable form used in logs and error messages.
func (k Key) String() string {
	return k.Building + "/" + k.UnitNumber
}
