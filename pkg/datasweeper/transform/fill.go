package transform

import (
	"github.com/go-gota/gota/series"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

// FillMissingMean replaces missing cells of every numeric column with the
// mean of that column's present values. Text and boolean columns are left
// as they are.
//
// A numeric column with no present value has no mean and is left unchanged.
// A column that receives fills becomes a float column.
func FillMissingMean(t *table.Table) (*table.Table, error) {
	out := t
	for _, col := range t.NumericColumns() {
		values, mean, missing := columnMean(t, col)
		if missing == 0 || missing == len(values) {
			continue
		}
		for i := range values {
			if t.IsNull(i, col) {
				values[i] = mean
			}
		}
		filled := series.New(values, series.Float, t.Names()[col])

		var err error
		out, err = out.Replace(filled)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// columnMean returns the column as floats, the mean of its present values
// and the number of missing cells.
func columnMean(t *table.Table, col int) (values []float64, mean float64, missing int) {
	column := t.Column(col)
	na := column.IsNaN()
	values = column.Float()
	var sum float64
	for row, isNA := range na {
		if isNA {
			values[row] = 0
			missing++
			continue
		}
		sum += values[row]
	}
	if present := len(values) - missing; present > 0 {
		mean = sum / float64(present)
	}
	return values, mean, missing
}
