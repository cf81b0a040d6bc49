package paging

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// TableRef identifies a table as a (database, schema, table) triple.
type TableRef struct {
	Database string `json:"database" validate:"required,max=128"`
	Schema   string `json:"schema" validate:"required,max=128"`
	Name     string `json:"name" validate:"required,max=128"`
}

// NewTableRef returns a TableRef after checking that no part is blank.
func NewTableRef(database, schema, table string) (TableRef, error) {
	ref := TableRef{Database: database, Schema: schema, Name: table}
	if err := ref.Validate(); err != nil {
		return TableRef{}, err
	}
	return ref, nil
}

// FullName returns schema.table format.
func (t TableRef) FullName() string {
	return t.Schema + "." + t.Name
}

// String returns database.schema.table format.
func (t TableRef) String() string {
	return t.Database + "." + t.FullName()
}

// Validate reports ErrInvalidTable when any part is blank, longer than 128
// characters, or not valid UTF-8.
func (t TableRef) Validate() error {
	if err := validate.Struct(t); err != nil {
		return &InvalidTableError{Table: t}
	}
	for _, part := range []string{t.Database, t.Schema, t.Name} {
		if strings.TrimSpace(part) == "" || !utf8.ValidString(part) {
			return &InvalidTableError{Table: t}
		}
	}
	return nil
}

// Column describes one column of a fetched result set, as reported by the
// driver for the page query.
type Column struct {
	Name         string `json:"name"`
	DatabaseType string `json:"database_type"`
	Nullable     bool   `json:"nullable"`
	Ordinal      int    `json:"ordinal"`
}

// Row is one table row, one value per column. SQL NULL is nil.
type Row []any

// ResultSet is the in-memory table assembled from all fetched pages.
type ResultSet struct {
	Table       TableRef      `json:"table"`
	Columns     []Column      `json:"columns"`
	Rows        []Row         `json:"rows"`
	OrderColumn string        `json:"order_column"`
	TotalCount  int64         `json:"total_count"`
	Pages       int           `json:"pages"`
	Duration    time.Duration `json:"duration"`
}

// RowCount returns the number of rows actually fetched. It can differ from
// TotalCount when the table changed while it was being paged.
func (rs *ResultSet) RowCount() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// ColumnNames returns the column names in ordinal order.
func (rs *ResultSet) ColumnNames() []string {
	if rs == nil {
		return nil
	}
	names := make([]string, len(rs.Columns))
	for i, c := range rs.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1.
// Names are compared case-insensitively, as SQL Server does by default.
func (rs *ResultSet) ColumnIndex(name string) int {
	for i, c := range rs.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}
