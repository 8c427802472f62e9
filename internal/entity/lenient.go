package entity

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON numeric leaf that never fails to decode.
// Numbers and numeric strings ("$1,250.50") are read as-is; null and
// anything else decode to 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number(coerceNumber(b))
	return nil
}

func (n Number) Float() float64 { return float64(n) }

func (n Number) Int() int { return int(math.Round(float64(n))) }

// Value reads an optional number, treating absent as 0.
func (n *Number) Value() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// NumberPtr is a convenience for building optional numbers in code and tests.
func NumberPtr(f float64) *Number {
	n := Number(f)
	return &n
}

var moneyReplacer = strings.NewReplacer("$", "", ",", "", "USD", "", "usd", "")

func coerceNumber(b []byte) float64 {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return 0
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return 0
		}
		s = strings.TrimSpace(moneyReplacer.Replace(str))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Flag is a JSON boolean leaf that also accepts "true"/"yes" style strings.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(b)), `"`))
	switch s {
	case "true", "yes", "y", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Text is a JSON string leaf. Numbers and booleans keep their literal text;
// null, objects and arrays decode to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text(coerceText(b))
	return nil
}

func (t Text) String() string { return string(t) }

func coerceText(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return ""
	}
	switch s[0] {
	case '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return ""
		}
		return str
	case '{', '[':
		return ""
	}
	return s
}

// TextList is a JSON list of strings. Elements are read as Text and empty
// ones dropped; a bare non-empty string becomes a one-element list and any
// other value reads as empty.
type TextList []string

func (l *TextList) UnmarshalJSON(b []byte) error {
	*l = nil
	s := strings.TrimSpace(string(b))
	if s == "" {
		return nil
	}
	if s[0] != '[' {
		if one := coerceText(b); one != "" && s[0] == '"' {
			*l = TextList{one}
		}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for _, r := range raw {
		if v := coerceText(r); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}

// List is a JSON array of objects. Elements that are not objects are dropped
// and a value that is not an array reads as empty.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(b []byte) error {
	*l = nil
	if !startsWith(b, '[') {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for _, r := range raw {
		if !startsWith(r, '{') {
			continue
		}
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		*l = append(*l, v)
	}
	return nil
}

// decodeObject fills v when b is a JSON object and leaves it zero otherwise.
func decodeObject[T any](b []byte, v *T) error {
	var zero T
	*v = zero
	if !startsWith(b, '{') {
		return nil
	}
	return json.Unmarshal(b, v)
}

func startsWith(b []byte, c byte) bool {
	s := strings.TrimSpace(string(b))
	return s != "" && s[0] == c
}
