// Package features derives numeric feature vectors from historical education records.
package features

import "strings"

// DegreeLevel is the ordinal score of a degree type.
type DegreeLevel int

// Degree levels. Anything unrecognised is DegreeOther.
const (
	DegreeOther DegreeLevel = iota
	DegreeBachelor
	DegreeMaster
	DegreeDoctorate
)

// ParseDegreeLevel maps a degree-type string to its ordinal level.
// Unknown types (including "Foundation" and "Other") map to DegreeOther.
func ParseDegreeLevel(degreeType string) DegreeLevel {
	switch strings.TrimSpace(degreeType) {
	case "BS", "BA", "BCS", "BFA":
		return DegreeBachelor
	case "MS", "MA", "MBA":
		return DegreeMaster
	case "PhD":
		return DegreeDoctorate
	default:
		return DegreeOther
	}
}

func (l DegreeLevel) String() string {
	switch l {
	case DegreeBachelor:
		return "bachelor"
	case DegreeMaster:
		return "master"
	case DegreeDoctorate:
		return "doctorate"
	default:
		return "other"
	}
}

// DegreeTypes lists the degree types offered to users, in display order.
var DegreeTypes = []string{"BS", "BA", "MS", "MA", "MBA", "PhD", "Other"}
