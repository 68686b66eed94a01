package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// TimestampLayout is the ISO-8601 layout used for result timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Field is one named value of a Result.
type Field struct {
	Key   string
	Value any
}

// Result is the ordered record produced by one analysis operation. Values are
// strings, numbers, bools, string lists, or nested *Result values. Field order
// is insertion order and is preserved by every renderer.
type Result struct {
	fields []Field
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{}
}

// Set stores value under key. An existing key keeps its position.
func (r *Result) Set(key string, value any) *Result {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return r
		}
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
	return r
}

// Get returns the value stored under key.
func (r *Result) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// GetString returns the stringified value stored under key.
func (r *Result) GetString(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	return FormatValue(v), true
}

// Has reports whether key is present.
func (r *Result) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Fields returns a copy of the fields in order.
func (r *Result) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Keys returns the field names in order.
func (r *Result) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Stamp sets the timestamp field to t.
func (r *Result) Stamp(t time.Time) *Result {
	return r.Set("timestamp", t.Format(TimestampLayout))
}

// MarshalJSON encodes the result as a JSON object in field order. HTML
// characters are not escaped.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := encodeJSON(f.Value)
		if err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("model: encode field %s", f.Key))
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order. Nested objects
// become *Result values, numbers become int64 or float64.
func (r *Result) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "model: decode result")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return eris.New("model: result must be a JSON object")
	}
	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	r.fields = parsed.fields
	return nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func decodeObject(dec *json.Decoder) (*Result, error) {
	out := NewResult()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, eris.Wrap(err, "model: decode key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, eris.Errorf("model: unexpected key token %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, eris.Wrap(err, "model: decode object end")
	}
	return out, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, eris.Wrap(err, "model: decode value")
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			var items []any
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, eris.Wrap(err, "model: decode array end")
			}
			return items, nil
		}
		return nil, eris.Errorf("model: unexpected delimiter %v", t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, eris.Wrap(err, "model: decode number")
		}
		return f, nil
	default:
		return t, nil
	}
}

// FormatValue renders a field value as display text. Lists render as
// "[a, b]" and nested results as "{key: value, ...}" in field order.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return "[" + strings.Join(t, ", ") + "]"
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Result:
		parts := make([]string, 0, t.Len())
		for _, f := range t.fields {
			parts = append(parts, f.Key+": "+FormatValue(f.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
