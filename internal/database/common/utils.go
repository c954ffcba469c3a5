package common

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var lengthSuffix = regexp.MustCompile(`\(\s*(\d+)\s*\)`)

// QuoteBacktick quotes a MySQL identifier.
func QuoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// DeclaredLength extracts n from a declared type such as VARCHAR(n). Types
// other than char/varchar report 0.
func DeclaredLength(declared string) int {
	t := strings.ToLower(declared)
	if !strings.Contains(t, "char") {
		return 0
	}
	m := lengthSuffix.FindStringSubmatch(t)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// NormalizeID converts a scanned identifier into a value that renders the
// same way it would be written back: integers as int64, text as string and
// 16-byte UUIDs in canonical form.
func NormalizeID(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case [16]byte:
		return uuid.UUID(t).String()
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t <= 1<<63-1 {
			return int64(t)
		}
		return t
	default:
		return v
	}
}
