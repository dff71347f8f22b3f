// Package features derives the attrition flag and age bucket columns.
//
// Every function here tolerates missing columns: absent inputs produce the
// documented defaults instead of errors.
package features

import (
	"strings"

	"github.com/okian/attrition/internal/domain/table"
)

// Raw and derived column names.
const (
	AttritionColumn = "Attrition"
	AgeColumn       = "Age"
	FlagColumn      = "Attrition_bool"
	AgeBucketColumn = "AgeBucket"
)

// Age bucket labels, lowest band first.
const (
	Bucket18To25 = "18-25"
	Bucket26To35 = "26-35"
	Bucket36To45 = "36-45"
	Bucket46To55 = "46-55"
	Bucket55Plus = "55+"
)

// missingAge sits below the lowest bucket bound so it never lands in a band.
const missingAge = -1

var (
	bucketBounds = [...]float64{17, 25, 35, 45, 55, 100}
	bucketLabels = [...]string{Bucket18To25, Bucket26To35, Bucket36To45, Bucket46To55, Bucket55Plus}
)

var truthy = map[string]struct{}{
	"yes":  {},
	"y":    {},
	"true": {},
	"1":    {},
}

// IsTruthy reports whether v reads as a positive attrition answer:
// yes, y, true or 1, ignoring case and surrounding space.
func IsTruthy(v table.Value) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(v.String()))]
	return ok
}

// BucketAge assigns age to its band. Bands are [17,25], (25,35], (35,45],
// (45,55] and (55,100]; anything else has no bucket.
func BucketAge(age float64) (string, bool) {
	if age < bucketBounds[0] || age > bucketBounds[len(bucketBounds)-1] {
		return "", false
	}
	for i, label := range bucketLabels {
		if age <= bucketBounds[i+1] {
			return label, true
		}
	}
	return "", false
}

// Flags returns one attrition flag per row. An existing flag column wins,
// then the raw Attrition column; with neither every flag is false.
func Flags(t *table.Table) []bool {
	out := make([]bool, t.Len())
	column := AttritionColumn
	if t.Has(FlagColumn) {
		column = FlagColumn
	} else if !t.Has(AttritionColumn) {
		return out
	}
	for i := range out {
		out[i] = IsTruthy(t.Value(i, column))
	}
	return out
}

// Derive returns a copy of t with the attrition flag column and, when an
// Age column exists, the age bucket column. An existing flag column is kept
// as is; the bucket column is always recomputed.
func Derive(t *table.Table) *table.Table {
	out := t
	if !t.Has(FlagColumn) {
		flags := Flags(t)
		values := make([]table.Value, len(flags))
		for i, f := range flags {
			if f {
				values[i] = table.Number(1)
			} else {
				values[i] = table.Number(0)
			}
		}
		out = out.WithColumn(FlagColumn, values)
	}
	if t.Has(AgeColumn) {
		out = out.WithColumn(AgeBucketColumn, ageBuckets(t))
	}
	return out
}

// ageBuckets buckets the Age column. A column holding non-numeric data
// yields all-missing buckets.
func ageBuckets(t *table.Table) []table.Value {
	values := make([]table.Value, t.Len())
	if !t.IsNumeric(AgeColumn) {
		return values
	}
	for i := range values {
		age, ok := t.Value(i, AgeColumn).Float()
		if !ok {
			age = missingAge
		}
		if label, ok := BucketAge(age); ok {
			values[i] = table.Text(label)
		}
	}
	return values
}
