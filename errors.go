package paging

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOrderingColumn is returned when a table has neither a primary key
	// nor any column to order by, which usually means it does not exist.
	ErrNoOrderingColumn = errors.New("could not determine a suitable column to order by")

	// ErrNoData is returned when the table holds no rows at the time it is
	// counted.
	ErrNoData = errors.New("table contains no rows")

	// ErrInvalidTable is returned for a blank or malformed table identifier.
	ErrInvalidTable = errors.New("invalid table identifier")
)

// InvalidTableError reports the identifier that failed validation.
// It matches ErrInvalidTable with errors.Is.
type InvalidTableError struct {
	Table TableRef
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("%s: database=%q schema=%q table=%q",
		ErrInvalidTable, e.Table.Database, e.Table.Schema, e.Table.Name)
}

func (e *InvalidTableError) Is(target error) bool {
	return target == ErrInvalidTable
}
