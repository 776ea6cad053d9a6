package docmerge

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindAbsent Kind = iota
	KindBool
	KindNumber
	KindText
	KindDate
	KindRows
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindRows:
		return "rows"
	default:
		return "unknown"
	}
}

// Value is a single answer. The zero Value is Absent.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	rows []AnswerMap
}

// AnswerMap maps directive names to values for one rendering scope.
type AnswerMap map[string]Value

// Absent returns the value used for names with no answer.
func Absent() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Text returns a string value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Date returns a date value.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Rows returns a row list for a repeating group, one AnswerMap per row.
func Rows(rows ...AnswerMap) Value {
	return Value{kind: KindRows, rows: rows}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v carries no answer.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Truthy decides whether a conditional bound to v is included.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindAbsent:
		return false
	case KindBool:
		return v.b
	case KindText:
		return v.s != ""
	case KindNumber:
		return v.n != 0
	case KindDate, KindRows:
		return true
	default:
		return false
	}
}

// String returns the canonical text a variable substitution emits.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindText:
		return v.s
	case KindDate:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 && v.t.Nanosecond() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format(time.RFC3339)
	case KindAbsent, KindRows:
		return ""
	default:
		return ""
	}
}

// RowList returns the rows of a Rows value. Any other kind yields nil,
// which renders as zero repetitions.
func (v Value) RowList() []AnswerMap {
	if v.kind != KindRows {
		return nil
	}
	return v.rows
}

// BoolValue returns the boolean and whether v is a Bool.
func (v Value) BoolValue() (bool, bool) { return v.b, v.kind == KindBool }

// NumberValue returns the number and whether v is a Number.
func (v Value) NumberValue() (float64, bool) { return v.n, v.kind == KindNumber }

// TextValue returns the string and whether v is Text.
func (v Value) TextValue() (string, bool) { return v.s, v.kind == KindText }

// DateValue returns the time and whether v is a Date.
func (v Value) DateValue() (time.Time, bool) { return v.t, v.kind == KindDate }

// Lookup returns the value bound to name, or Absent.
func (m AnswerMap) Lookup(name string) Value {
	if m == nil {
		return Absent()
	}
	return m[name]
}

// FromAny converts a plain Go value into a Value. Nested rows must be maps.
func FromAny(val interface{}) (Value, error) {
	switch v := val.(type) {
	case nil:
		return Absent(), nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Number(float64(v)), nil
	case int8:
		return Number(float64(v)), nil
	case int16:
		return Number(float64(v)), nil
	case int32:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case uint:
		return Number(float64(v)), nil
	case uint8:
		return Number(float64(v)), nil
	case uint16:
		return Number(float64(v)), nil
	case uint32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	case float32:
		return Number(float64(v)), nil
	case float64:
		return Number(v), nil
	case string:
		return Text(v), nil
	case time.Time:
		return Date(v), nil
	case AnswerMap:
		return Rows(v), nil
	case []AnswerMap:
		return Rows(v...), nil
	case map[string]interface{}:
		row, err := AnswersFromMap(v)
		if err != nil {
			return Value{}, err
		}
		return Rows(row), nil
	case []map[string]interface{}:
		rows := make([]AnswerMap, 0, len(v))
		for i, item := range v {
			row, err := AnswersFromMap(item)
			if err != nil {
				return Value{}, fmt.Errorf("row %d: %w", i, err)
			}
			rows = append(rows, row)
		}
		return Rows(rows...), nil
	case []interface{}:
		rows := make([]AnswerMap, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return Value{}, fmt.Errorf("row %d: expected map, got %T", i, item)
			}
			row, err := AnswersFromMap(m)
			if err != nil {
				return Value{}, fmt.Errorf("row %d: %w", i, err)
			}
			rows = append(rows, row)
		}
		return Rows(rows...), nil
	default:
		return Value{}, fmt.Errorf("unsupported answer type %T", val)
	}
}

// AnswersFromMap converts a map of plain Go values into an AnswerMap.
func AnswersFromMap(data map[string]interface{}) (AnswerMap, error) {
	answers := make(AnswerMap, len(data))
	for name, raw := range data {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", name, err)
		}
		answers[name] = v
	}
	return answers, nil
}
