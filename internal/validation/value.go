package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type kind uint8

const (
	kindMissing kind = iota
	kindText
	kindNumber
)

// Value is a raw form value as it arrived from a text or numeric input.
// The zero Value is missing. A Number(0) is present.
type Value struct {
	kind kind
	text string
	num  float64
}

func Missing() Value { return Value{} }

func Text(s string) Value { return Value{kind: kindText, text: s} }

func Number(f float64) Value { return Value{kind: kindNumber, num: f} }

func (v Value) IsMissing() bool { return v.kind == kindMissing }

func (v Value) IsNumber() bool { return v.kind == kindNumber }

// Blank reports whether the value is missing or only whitespace text.
func (v Value) Blank() bool {
	switch v.kind {
	case kindMissing:
		return true
	case kindText:
		return strings.TrimSpace(v.text) == ""
	}
	return false
}

// Float returns the numeric payload of a Number value.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == kindNumber
}

func (v Value) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindText:
		return json.Marshal(v.text)
	case kindNumber:
		return json.Marshal(v.num)
	}
	return []byte("null"), nil
}

// UnmarshalJSON never fails on a well-formed token: booleans, objects and
// arrays are kept as text so the field validator reports them.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = Missing()
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			*v = Text(string(b))
			return nil
		}
		*v = Number(f)
	default:
		*v = Text(string(b))
	}
	return nil
}

