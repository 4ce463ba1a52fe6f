package procedure

import (
	"fmt"
	"strconv"
)

// Row is one result row keyed by column name.
type Row map[string]interface{}

// String returns the column as text. NULL and missing columns are "".
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the column as an integer. NULL, missing and non-numeric
// columns are 0.
func (r Row) Int(column string) int {
	switch v := r[column].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	}
	n, err := strconv.Atoi(r.String(column))
	if err != nil {
		return 0
	}
	return n
}

// IsNull reports whether the column is NULL or missing.
func (r Row) IsNull(column string) bool {
	return r[column] == nil
}
