package sheet

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// set stores v under name. A repeated column keeps its first position and
// takes the latest value.
func (r Row) set(name string, v Value) Row {
	for i := range r {
		if r[i].Name == name {
			r[i].Value = v
			return r
		}
	}
	return append(r, Field{Name: name, Value: v})
}

// Get returns the value stored under name
func (r Row) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Names returns the column names in order
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

func (r Row) Text(name string) string {
	v, _ := r.Get(name)
	if v.Kind != KindString {
		return v.Text()
	}
	return v.Str
}

func (r Row) Int(name string) int64 {
	v, _ := r.Get(name)
	return v.Int
}

func (r Row) Float(name string) float64 {
	v, _ := r.Get(name)
	return v.Float
}

func (r Row) Bool(name string) bool {
	v, _ := r.Get(name)
	return v.Bool
}

// Text renders v the way it is written in a sheet export
func (v Value) Text() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return v.Str
	}
}

// MarshalJSON writes the typed value: ints and floats as numbers, bools as
// booleans, everything else as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

// MarshalJSON writes the row as an object with keys in column order
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode writes rows back out in the export format. Columns missing from a
// row are left empty.
func Encode(header []string, rows []Row) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(header, ","))
	sb.WriteByte('\n')
	for _, row := range rows {
		for i, name := range header {
			if i > 0 {
				sb.WriteByte(',')
			}
			if v, ok := row.Get(name); ok {
				sb.WriteString(v.Text())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
