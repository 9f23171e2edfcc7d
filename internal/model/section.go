package model

// ChartKind selects the embedded chart type for a section sheet.
type ChartKind string

const (
	ChartNone ChartKind = ""
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// ChartSpec describes the chart a section embeds in its sheet. Ranges are
// expressed as zero-based data-row indexes into SectionResult.Rows plus a
// column index; the workbook assembler translates them to cell references
// against the actual written extent.
type ChartSpec struct {
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	Anchor string    `json:"anchor"` // top-left cell the chart hangs from, e.g. "M10"

	// DataCol is the zero-based column (within a table row) holding the
	// plotted values. DataRows is how many leading data rows to plot;
	// 0 means all rows.
	DataCol  int `json:"dataCol"`
	DataRows int `json:"dataRows"`

	// CategoryCol is the zero-based column holding category labels, or -1
	// when the chart has no category axis.
	CategoryCol int `json:"categoryCol"`
}

// TableRow is one formatted sheet row. Cells are already display-ready:
// ints/floats for numeric cells, strings for dimension values and
// preformatted durations. A fraction in a trailing percentage column is kept
// as a float64 so the sheet's number format can render it.
type TableRow struct {
	Cells []interface{} `json:"cells"`
	Bold  bool          `json:"bold"` // label rows (Total / Average)
}

// SectionResult is the aggregation output for one section: the laid-out
// table, the optional chart, and the typed narrative figures. It is consumed
// by the workbook assembler and the accumulator, then dropped.
type SectionResult struct {
	Kind    SectionKind `json:"kind"`
	Title   string      `json:"title"`
	Headers []string    `json:"headers"`
	Rows    []TableRow  `json:"rows"`

	// PercentCol marks the trailing column as percentage-bearing; the
	// workbook assembler applies a percent number format to it.
	PercentCol bool `json:"percentCol"`

	// SheetLess is set for narrative-only sections (Page Tracking): no
	// sheet, no chart, figures only.
	SheetLess bool `json:"sheetLess"`

	Chart   *ChartSpec `json:"chart,omitempty"`
	Figures Figures    `json:"-"`
}

// DataRowCount returns the number of non-label data rows, the extent charts
// and percent formats apply to.
func (sr *SectionResult) DataRowCount() int {
	n := 0
	for _, row := range sr.Rows {
		if !row.Bold && len(row.Cells) > 0 {
			n++
		}
	}
	return n
}
