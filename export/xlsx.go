package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kinderudp/paging-go"
)

// maxSheetRows is the Excel row limit, header included.
const maxSheetRows = excelize.TotalRows

// WriteXLSX writes rs as a single-sheet workbook named after the table.
// Headers read "name (TYPE)", and the order column is marked with *.
// Rows are streamed, so memory stays flat for large tables.
func WriteXLSX(w io.Writer, rs *paging.ResultSet) error {
	if rs == nil {
		rs = &paging.ResultSet{}
	}
	if len(rs.Rows)+1 > maxSheetRows {
		return fmt.Errorf("%d rows exceed the XLSX limit of %d", len(rs.Rows), maxSheetRows-1)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(rs.Table)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22}) // m/d/yy h:mm
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for col := range rs.Columns {
		if err := sw.SetColWidth(col+1, col+1, 15); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	orderIndex := rs.ColumnIndex(rs.OrderColumn)
	header := make([]any, len(rs.Columns))
	for i, c := range rs.Columns {
		title := c.Name
		if c.DatabaseType != "" {
			title = fmt.Sprintf("%s (%s)", c.Name, c.DatabaseType)
		}
		if i == orderIndex {
			title += " *"
		}
		header[i] = excelize.Cell{StyleID: headerStyle, Value: title}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rs.Rows {
		cells := make([]any, len(rs.Columns))
		for j := range cells {
			if j >= len(row) {
				continue
			}
			cells[j] = cellValue(row[j], dateStyle)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue keeps numbers and booleans native so Excel can compute with
// them; everything else is written as text.
func cellValue(v any, dateStyle int) any {
	switch t := v.(type) {
	case nil:
		return nil
	case int64, int32, int16, int, float64, float32, bool:
		return t
	case time.Time:
		return excelize.Cell{StyleID: dateStyle, Value: t}
	default:
		return FormatValue(t)
	}
}

// SheetName derives a valid worksheet name from the table: at most 31
// characters, none of : \ / ? * [ ].
func SheetName(table paging.TableRef) string {
	name := table.Name
	if name == "" {
		return "Sheet1"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		return "Sheet1"
	}
	if r := []rune(name); len(r) > excelize.MaxSheetNameLength {
		name = string(r[:excelize.MaxSheetNameLength])
	}
	return name
}
