package offset

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const cursorPrefix = "cursor:offset:"

// EncodeCursor encodes a row offset as a base64 string of "cursor:offset:NUMBER".
func EncodeCursor(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor extracts the row offset from a cursor made by EncodeCursor.
// It returns 0 for a nil, malformed or negative cursor, which restarts the
// fetch from the first row.
func DecodeCursor(input *string) int {
	if input == nil {
		return 0
	}

	decoded, err := base64.URLEncoding.DecodeString(*input)
	if err != nil {
		return 0
	}

	raw, ok := strings.CutPrefix(string(decoded), cursorPrefix)
	if !ok {
		return 0
	}

	offset, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || offset < 0 {
		return 0
	}
	return int(offset)
}
