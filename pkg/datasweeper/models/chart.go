package models

// ChartSeries represents one numeric column projected for a bar chart.
type ChartSeries struct {
	// Name is the source column name.
	Name string `json:"name"`
	// Type is the inferred column type ("int" or "float").
	Type string `json:"type"`
	// Values holds one value per row; nil marks a missing cell.
	Values []*float64 `json:"values"`
}

// ChartData is a read-only projection of a table's numeric columns.
type ChartData struct {
	// ChartType is the chart kind the projection is shaped for.
	ChartType string `json:"chart_type"`
	// Rows is the number of points in every series.
	Rows int `json:"rows"`
	// Series is the list of projected columns, in table order.
	Series []ChartSeries `json:"series"`
}
