package validation

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatFull   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// parseFloat reads the longest numeric prefix of s after leading whitespace,
// so "10abc" is 10. In strict mode the whole trimmed text must be a number.
func parseFloat(s string, strict bool) (float64, bool) {
	if strict {
		s = strings.TrimSpace(s)
		if !floatFull.MatchString(s) {
			return 0, false
		}
		return atof(s)
	}

	m := floatPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if m == "" {
		return 0, false
	}
	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if m[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	return atof(m)
}

// parseInt reads a base-10 integer prefix of s. "10.5" yields 10 and "1e3"
// yields 1; callers check integrality separately.
func parseInt(s string, strict bool) (float64, bool) {
	if strict {
		f, ok := parseFloat(s, true)
		if !ok {
			return 0, false
		}
		return math.Trunc(f), true
	}

	m := intPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if m == "" {
		return 0, false
	}
	return atof(m)
}

func atof(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// numeric returns the float and integer readings of a present value.
func (v Value) numeric(strict bool) (f float64, fok bool, i float64, iok bool) {
	if n, ok := v.Float(); ok {
		if math.IsNaN(n) {
			return 0, false, 0, false
		}
		return n, true, math.Trunc(n), !math.IsInf(n, 0)
	}
	f, fok = parseFloat(v.text, strict)
	i, iok = parseInt(v.text, strict)
	return f, fok, i, iok
}

// PriceOf returns the number a valid price was read as.
func (e *Engine) PriceOf(v Value) float64 {
	f, _, _, _ := v.numeric(e.rules.StrictNumbers)
	return f
}

// QuantityOf returns the whole number a valid quantity was read as.
func (e *Engine) QuantityOf(v Value) int64 {
	_, _, i, _ := v.numeric(e.rules.StrictNumbers)
	return int64(i)
}
