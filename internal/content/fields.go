package content

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Image is an externally hosted image reference.
type Image struct {
	URL    string
	Width  int
	Height int
}

// StringField returns record[key] when it is a string. Numbers are formatted so
// that ids stored numerically still render.
func StringField(record Record, key string) string {
	if record == nil {
		return ""
	}
	switch v := record[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// StringsField returns the string members of an array field, preserving order.
func StringsField(record Record, key string) []string {
	if record == nil {
		return nil
	}
	switch v := record[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// ObjectField returns a nested object, or nil.
func ObjectField(record Record, key string) Record {
	if record == nil {
		return nil
	}
	switch v := record[key].(type) {
	case map[string]any:
		return Record(v)
	case Record:
		return v
	}
	return nil
}

// ImageField reads a {url, width, height} object.
func ImageField(record Record, key string) Image {
	obj := ObjectField(record, key)
	if obj == nil {
		return Image{}
	}
	return Image{
		URL:    StringField(obj, "url"),
		Width:  intField(obj, "width"),
		Height: intField(obj, "height"),
	}
}

func intField(record Record, key string) int {
	switch v := record[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	}
	return v
}

// DecodeRecord decodes a JSON object into a Record.
func DecodeRecord(raw []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("content: decode record: %w", err)
	}
	return rec, nil
}
