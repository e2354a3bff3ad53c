package collection

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Data is an item's fields keyed by name.
type Data map[string]any

// Flatten converts a list of fields into Data. Fields without a name are
// skipped and a repeated name keeps the value of its last occurrence.
func Flatten(fields []Field) Data {
	out := make(Data, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		out[f.Name] = f.Value
	}
	return out
}

// Has reports whether key is present with a non-nil value.
func (d Data) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

// String returns the value of key formatted as a string, or "" when absent.
func (d Data) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Display returns the value of key as a string, or def when the value is
// absent or empty.
func (d Data) Display(key, def string) string {
	if s := d.String(key); s != "" {
		return s
	}
	return def
}

// Int64 returns the value of key as an integer. Numeric strings are parsed.
func (d Data) Int64(key string) (int64, bool) {
	switch val := d[key].(type) {
	case float64:
		return int64(val), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	case json.Number:
		n, err := val.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Bool returns the value of key as a boolean. Absent values are false.
func (d Data) Bool(key string) bool {
	switch val := d[key].(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	default:
		return false
	}
}

// Decode maps data onto out, which must be a pointer to a struct tagged with
// `mapstructure` names. Values are converted leniently, so a JSON number can
// populate an int64 field and a number can populate a string field.
func Decode(data Data, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("error creating decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(data)); err != nil {
		return fmt.Errorf("error decoding item: %w", err)
	}
	return nil
}
