package predictor

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/attrition/internal/domain/table"
	"gonum.org/v1/gonum/stat"
)

// numericColumn imputes with the training median, then standardises.
type numericColumn struct {
	name   string
	median float64
	mean   float64
	scale  float64
}

// categoricalColumn imputes with the training mode, then one-hot encodes
// over the sorted training categories.
type categoricalColumn struct {
	name       string
	mode       string
	categories []string
	position   map[string]int
}

type preprocessor struct {
	numeric     []numericColumn
	categorical []categoricalColumn
	width       int
}

// fitPreprocessor learns imputation, scaling and encoding statistics from
// the given rows of t.
func fitPreprocessor(t *table.Table, rows []int, numeric, categorical []string) *preprocessor {
	p := &preprocessor{}
	for _, name := range numeric {
		observed := make([]float64, 0, len(rows))
		for _, i := range rows {
			if f, ok := t.Value(i, name).Float(); ok {
				observed = append(observed, f)
			}
		}
		col := numericColumn{name: name, median: median(observed), scale: 1}
		if len(rows) > 0 {
			imputed := make([]float64, len(rows))
			for k, i := range rows {
				f, ok := t.Value(i, name).Float()
				if !ok {
					f = col.median
				}
				imputed[k] = f
			}
			mean, std := stat.PopMeanStdDev(imputed, nil)
			col.mean = mean
			if std > 0 {
				col.scale = std
			}
		}
		p.numeric = append(p.numeric, col)
		p.width++
	}

	for _, name := range categorical {
		counts := make(map[string]int)
		for _, i := range rows {
			v := t.Value(i, name)
			if !v.IsMissing() {
				counts[v.String()]++
			}
		}
		col := categoricalColumn{name: name, position: make(map[string]int, len(counts))}
		for c := range counts {
			col.categories = append(col.categories, c)
		}
		sort.Strings(col.categories)
		for k, c := range col.categories {
			col.position[c] = k
			// categories are sorted, so strict > keeps the smallest on ties
			if counts[c] > counts[col.mode] || col.mode == "" {
				col.mode = c
			}
		}
		p.categorical = append(p.categorical, col)
		p.width += len(col.categories)
	}
	return p
}

// encode builds the model input vector: numeric features first, then the
// one-hot blocks. get supplies the raw cell for a feature.
func (p *preprocessor) encode(get func(string) table.Value) ([]float64, error) {
	out := make([]float64, 0, p.width)
	for _, col := range p.numeric {
		f, err := numericValue(get(col.name))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, col.name, err)
		}
		if f == nil {
			f = &col.median
		}
		z := (*f - col.mean) / col.scale
		if math.IsInf(z, 0) {
			return nil, fmt.Errorf("%w: %s: %v is out of range", ErrInvalidValue, col.name, *f)
		}
		out = append(out, z)
	}
	for _, col := range p.categorical {
		block := make([]float64, len(col.categories))
		key := col.mode
		if v := get(col.name); !v.IsMissing() {
			key = v.String()
		}
		if k, ok := col.position[key]; ok {
			block[k] = 1
		}
		out = append(out, block...)
	}
	return out, nil
}

// numericValue reads a cell meant for a numeric feature. Missing cells
// return nil; text must parse as a number.
func numericValue(v table.Value) (*float64, error) {
	if v.IsMissing() {
		return nil, nil
	}
	if f, ok := v.Float(); ok {
		return &f, nil
	}
	parsed := table.Parse(v.String())
	if parsed.IsMissing() {
		return nil, nil
	}
	f, ok := parsed.Float()
	if !ok {
		return nil, fmt.Errorf("%q is not a number", v.String())
	}
	return &f, nil
}

// median of values; 0 when there are none.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func distinct(values []table.Value) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		if _, ok := seen[v.String()]; ok {
			continue
		}
		seen[v.String()] = struct{}{}
		out = append(out, v.String())
	}
	sort.Strings(out)
	return out
}
