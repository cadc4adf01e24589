package datasweeper

import (
	"math"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/models"
	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
)

// ChartColumns is the number of numeric columns projected by Chart.
const ChartColumns = 2

// Chart projects the first two numeric columns of t for a bar chart.
// It fails with ErrNotEnoughNumericColumns when t has fewer than two.
func Chart(t *table.Table) (models.ChartData, error) {
	numeric := t.NumericColumns()
	if len(numeric) < ChartColumns {
		return models.ChartData{}, ErrNotEnoughNumericColumns
	}

	names := t.Names()
	data := models.ChartData{
		ChartType: "bar",
		Rows:      t.Nrow(),
		Series:    make([]models.ChartSeries, 0, ChartColumns),
	}
	for _, col := range numeric[:ChartColumns] {
		s := models.ChartSeries{
			Name:   names[col],
			Type:   string(t.Type(col)),
			Values: make([]*float64, t.Nrow()),
		}
		for row := range s.Values {
			var f float64
			switch v := t.Value(row, col).(type) {
			case int:
				f = float64(v)
			case float64:
				f = v
			default:
				continue
			}
			if math.IsInf(f, 0) {
				continue
			}
			s.Values[row] = &f
		}
		data.Series = append(data.Series, s)
	}
	return data, nil
}
