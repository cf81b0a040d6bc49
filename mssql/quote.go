package mssql

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kinderudp/paging-go"
)

// maxIdentifierLength is the sysname limit in characters.
const maxIdentifierLength = 128

// QuoteIdentifier delimits name with brackets, doubling any closing bracket,
// so it is always read as a single identifier. It fails for names SQL Server
// cannot store: empty, longer than 128 characters, invalid UTF-8, or
// containing NUL.
func QuoteIdentifier(name string) (string, error) {
	switch {
	case name == "":
		return "", fmt.Errorf("%w: empty identifier", paging.ErrInvalidTable)
	case !utf8.ValidString(name):
		return "", fmt.Errorf("%w: identifier is not valid UTF-8", paging.ErrInvalidTable)
	case utf8.RuneCountInString(name) > maxIdentifierLength:
		return "", fmt.Errorf("%w: identifier longer than %d characters", paging.ErrInvalidTable, maxIdentifierLength)
	case strings.ContainsRune(name, 0):
		return "", fmt.Errorf("%w: identifier contains NUL", paging.ErrInvalidTable)
	}
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]", nil
}

// QuoteTable returns [schema].[table] for ref. The database part is selected
// by the connection, not the query.
func QuoteTable(ref paging.TableRef) (string, error) {
	schema, err := QuoteIdentifier(ref.Schema)
	if err != nil {
		return "", err
	}
	table, err := QuoteIdentifier(ref.Name)
	if err != nil {
		return "", err
	}
	return schema + "." + table, nil
}
