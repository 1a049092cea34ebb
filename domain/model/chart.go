package model

// AxisConfig holds axis-wide styling shared by both axes.
type AxisConfig struct {
	Grid  bool
	Title []string
}

// ChartSpec is the in-memory chart description assembled from one
// %XVEGA_PLOT line. It lives for a single cell execution.
type ChartSpec struct {
	Width  *int
	Height *int
	X      *FieldSpec
	Y      *FieldSpec
	Mark   *MarkSpec
	Axis   AxisConfig
	Data   *Table
}

// NewChartSpec returns an empty spec with the grid visible.
func NewChartSpec() *ChartSpec {
	return &ChartSpec{
		Axis: AxisConfig{Grid: true},
	}
}
