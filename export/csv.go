package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/kinderudp/paging-go"
)

// WriteCSV writes a header of column names followed by one record per row.
func WriteCSV(w io.Writer, rs *paging.ResultSet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(rs.ColumnNames()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	if rs != nil {
		record := make([]string, len(rs.Columns))
		for i, row := range rs.Rows {
			for j := range record {
				record[j] = ""
				if j < len(row) {
					record[j] = FormatValue(row[j])
				}
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv row %d: %w", i+1, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
