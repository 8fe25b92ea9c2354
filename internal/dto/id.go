package dto

import (
	"math"
	"strconv"
	"strings"
)

// ParseID accepts the identifier forms browsers send: a JSON number or a
// numeric string. Only positive integers are well formed.
func ParseID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id <= 0 || id != math.Trunc(id) || id > math.MaxInt64 {
			return 0, false
		}
		return int64(id), true
	case string:
		return ParseIDString(id)
	default:
		return 0, false
	}
}

// ParseIDString parses an id taken from a query string.
func ParseIDString(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
