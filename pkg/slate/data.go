package slate

import (
	"fmt"
	"math"
	"strconv"
)

// Data is the type-specific attribute bag of a node. A key that is present with
// a JSON null value is still present: Has reports own keys, not non-null values.
type Data map[string]any

// Has reports whether key is an own key of the bag.
func (d Data) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d[key]
	return ok
}

// Get returns the raw value for key and whether it is present.
func (d Data) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d[key]
	return v, ok
}

// String returns the value for key rendered as a string, and whether the key
// is present. Strings are returned as is, booleans as "true"/"false" and
// numbers in their shortest decimal form. A null value renders as "".
func (d Data) String(key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	return scalarString(v), true
}

// Truthy reports whether key is present with a value other than null, false,
// zero or the empty string.
func (d Data) Truthy(key string) bool {
	v, ok := d.Get(key)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	}
	return true
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}
