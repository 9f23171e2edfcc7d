package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"go-analytics-report/internal/model"
)

// ------------------- Workbook Assembler -------------------

// Sheet grid: the original reports leave row 1 and column A blank, so the
// header sits on row 2 starting at column B and data rows follow on row 3.
const (
	firstCol  = 2 // column B
	headerRow = 2
	firstRow  = 3
)

// WorkbookAssembler lays SectionResults out as styled sheets of one xlsx
// workbook. It owns the excelize file for the duration of one profile run.
type WorkbookAssembler struct {
	file         *excelize.File
	headerStyle  int
	cellStyle    int
	percentStyle int
	labelStyle   int
	sheets       int
}

// NewWorkbookAssembler creates an empty workbook with the report styles
// registered: bold 12pt bordered headers, centered data cells, a "0%"
// percentage format, bold label cells for Total/Average rows.
func NewWorkbookAssembler() (*WorkbookAssembler, error) {
	f := excelize.NewFile()

	thick := []excelize.Border{
		{Type: "left", Color: "000000", Style: 5},
		{Type: "right", Color: "000000", Style: 5},
		{Type: "top", Color: "000000", Style: 5},
		{Type: "bottom", Color: "000000", Style: 5},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: center,
		Border:    thick,
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Alignment: center})
	if err != nil {
		return nil, fmt.Errorf("cell style: %w", err)
	}
	percentStyle, err := f.NewStyle(&excelize.Style{NumFmt: 9, Alignment: center})
	if err != nil {
		return nil, fmt.Errorf("percent style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: center,
	})
	if err != nil {
		return nil, fmt.Errorf("label style: %w", err)
	}

	return &WorkbookAssembler{
		file:         f,
		headerStyle:  headerStyle,
		cellStyle:    cellStyle,
		percentStyle: percentStyle,
		labelStyle:   labelStyle,
	}, nil
}

// File exposes the underlying workbook, used by tests to read cells back.
func (w *WorkbookAssembler) File() *excelize.File { return w.file }

// AddSheet writes one section as a sheet: header row, data rows, a blank
// spacer before label rows, the percentage format on the data rows' trailing
// column, and the section's chart when it has one. Narrative-only sections
// are ignored.
func (w *WorkbookAssembler) AddSheet(res *model.SectionResult) error {
	if res.SheetLess {
		return nil
	}

	sheet := res.Title
	if w.sheets == 0 {
		// The very first section reuses the workbook's default sheet.
		if err := w.file.SetSheetName(w.file.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("rename sheet %s: %w", sheet, err)
		}
	} else {
		if _, err := w.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	w.sheets++

	// Header row, styled across exactly the header's width.
	for i, h := range res.Headers {
		cell, err := excelize.CoordinatesToCellName(firstCol+i, headerRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if len(res.Headers) > 0 {
		start, _ := excelize.CoordinatesToCellName(firstCol, headerRow)
		end, _ := excelize.CoordinatesToCellName(firstCol+len(res.Headers)-1, headerRow)
		if err := w.file.SetCellStyle(sheet, start, end, w.headerStyle); err != nil {
			return err
		}
	}

	// The percent format belongs to one fixed column: the trailing cell of
	// the data rows. Total/Average rows end on plain sums and must not pick
	// it up just for being last.
	percentCol := -1
	if res.PercentCol {
		for _, tr := range res.Rows {
			if !tr.Bold {
				percentCol = len(tr.Cells) - 1
				break
			}
		}
	}

	row := firstRow
	spaced := false
	for _, tr := range res.Rows {
		if tr.Bold && !spaced {
			row++ // one blank row between data and Total/Average labels
			spaced = true
		}
		for i, v := range tr.Cells {
			cell, err := excelize.CoordinatesToCellName(firstCol+i, row)
			if err != nil {
				return err
			}
			if err := w.file.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			style := w.cellStyle
			switch {
			case tr.Bold && i == 0:
				style = w.labelStyle
			case i == percentCol:
				style = w.percentStyle
			}
			if err := w.file.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
		row++
	}

	if res.Chart != nil {
		if err := w.addChart(sheet, res); err != nil {
			return err
		}
	}
	return nil
}

// addChart embeds the section chart against the actual written extents.
func (w *WorkbookAssembler) addChart(sheet string, res *model.SectionResult) error {
	spec := res.Chart
	rows := spec.DataRows
	if rows <= 0 {
		rows = res.DataRowCount()
	}
	if rows == 0 {
		return nil
	}

	valCol, err := excelize.ColumnNumberToName(firstCol + spec.DataCol)
	if err != nil {
		return err
	}
	series := excelize.ChartSeries{
		Values: fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, valCol, firstRow, valCol, firstRow+rows-1),
	}
	if spec.DataCol < len(res.Headers) {
		series.Name = res.Headers[spec.DataCol]
	}
	if spec.CategoryCol >= 0 {
		catCol, err := excelize.ColumnNumberToName(firstCol + spec.CategoryCol)
		if err != nil {
			return err
		}
		series.Categories = fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, catCol, firstRow, catCol, firstRow+rows-1)
	}

	chart := &excelize.Chart{
		Type:   chartType(spec.Kind),
		Series: []excelize.ChartSeries{series},
		Title:  []excelize.RichTextRun{{Text: spec.Title}},
	}
	if err := w.file.AddChart(sheet, spec.Anchor, chart); err != nil {
		return fmt.Errorf("add %s chart to %s: %w", spec.Kind, sheet, err)
	}
	return nil
}

func chartType(kind model.ChartKind) excelize.ChartType {
	switch kind {
	case model.ChartLine:
		return excelize.Line
	case model.ChartPie:
		return excelize.Pie
	default:
		return excelize.Col
	}
}

// Save persists the workbook. Failures surface as ErrPersistence so callers
// can tell "close the open file" apart from data problems.
func (w *WorkbookAssembler) Save(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return persistenceErr(path, err)
	}
	return nil
}

// Close releases the underlying file resources.
func (w *WorkbookAssembler) Close() error {
	return w.file.Close()
}
