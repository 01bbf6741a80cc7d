package features

import (
	"github.com/okian/foundermatch/internal/domain/model"
)

// Vector is the numeric projection of one education record.
type Vector struct {
	DegreeLevel     DegreeLevel
	ExperienceYears int
}

// QueryVector builds the vector for a user query.
func QueryVector(degreeType string, graduationYear, creationYear int) Vector {
	return Vector{
		DegreeLevel:     ParseDegreeLevel(degreeType),
		ExperienceYears: creationYear - graduationYear,
	}
}

// FeatureSet pairs each surviving record with its vector, in input order.
// It is immutable once built.
type FeatureSet struct {
	records []model.EducationRecord
	vectors []Vector
	dropped int
}

// Len returns the number of valid vectors.
func (s FeatureSet) Len() int { return len(s.vectors) }

// Empty reports the empty-dataset condition.
func (s FeatureSet) Empty() bool { return len(s.vectors) == 0 }

// Dropped returns how many input records failed the required-field checks.
func (s FeatureSet) Dropped() int { return s.dropped }

// At returns the i-th record and its vector.
func (s FeatureSet) At(i int) (model.EducationRecord, Vector) {
	return s.records[i], s.vectors[i]
}

// Derive computes a vector per record. Records without a graduation date, or
// without a creation date, are dropped since experience is undefined for them.
func Derive(records []model.EducationRecord) FeatureSet {
	set := FeatureSet{
		records: make([]model.EducationRecord, 0, len(records)),
		vectors: make([]Vector, 0, len(records)),
	}
	for _, r := range records {
		if r.GraduatedAt.IsZero() || r.CreatedAt.IsZero() {
			set.dropped++
			continue
		}
		set.records = append(set.records, r)
		set.vectors = append(set.vectors, Vector{
			DegreeLevel:     ParseDegreeLevel(r.DegreeType),
			ExperienceYears: r.CreatedAt.Year() - r.GraduatedAt.Year(),
		})
	}
	return set
}

// NewFeatureSet builds a set directly from paired records and vectors.
// Extra entries on the longer side are ignored.
func NewFeatureSet(records []model.EducationRecord, vectors []Vector) FeatureSet {
	n := min(len(records), len(vectors))
	return FeatureSet{
		records: append([]model.EducationRecord(nil), records[:n]...),
		vectors: append([]Vector(nil), vectors[:n]...),
	}
}
