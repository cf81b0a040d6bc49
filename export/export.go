// Package export writes a fetched paging.ResultSet as CSV or XLSX.
package export

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kinderudp/paging-go"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv or xlsx)", s)
	}
}

// Write encodes rs to w in format.
func Write(w io.Writer, format Format, rs *paging.ResultSet) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rs)
	case FormatXLSX:
		return WriteXLSX(w, rs)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// FormatValue renders one cell as text. NULL becomes the empty string,
// binary values become 0x-prefixed hex, times become RFC 3339.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return "0x" + strings.ToUpper(hex.EncodeToString(t))
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
