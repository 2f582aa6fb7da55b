// Package validation holds the field validators used by every form the admin
// front-end submits. Validators are pure: a result is "" when the value is
// valid and a human readable message otherwise.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLength    = 3
	maxUsernameLength    = 50
	minPasswordLength    = 6
	maxProductNameLength = 100
	maxDescriptionLength = 500

	MaxPrice    = 1_000_000_000
	MaxQuantity = 1_000_000
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// Categories is the fixed set of product categories, in display order.
var Categories = []string{"iphone", "ipad", "macbook", "imac", "airpod", "airmax", "applewatch"}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

// Engine validates form input under one Ruleset. It is immutable and safe
// for concurrent use.
type Engine struct {
	rules Ruleset
}

func NewEngine(rules Ruleset) *Engine {
	return &Engine{rules: rules}
}

func (e *Engine) Ruleset() Ruleset { return e.rules }

func length(s string) int { return utf8.RuneCountInString(s) }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (e *Engine) Email(v string) string {
	if blank(v) {
		return MsgEmailRequired
	}
	if !emailPattern.MatchString(v) {
		return MsgEmailInvalid
	}
	return ""
}

func (e *Engine) Username(v string) string {
	if blank(v) {
		if e.rules.Username == UsernameCharset {
			return MsgUsernameBlank
		}
		return MsgUsernameRequired
	}

	switch n := length(v); {
	case n < minUsernameLength:
		return MsgUsernameTooShort
	case n > maxUsernameLength:
		return MsgUsernameTooLong
	}

	if e.rules.Username == UsernameCharset && !usernamePattern.MatchString(v) {
		return MsgUsernameCharset
	}
	return ""
}

func (e *Engine) Password(v string) string {
	if blank(v) {
		return MsgPasswordRequired
	}

	switch n := length(v); {
	case n < minPasswordLength:
		return MsgPasswordTooShort
	case n > e.rules.PasswordMaxLength:
		return fmt.Sprintf(MsgPasswordTooLongFmt, e.rules.PasswordMaxLength)
	}

	if !letterPattern.MatchString(v) || !digitPattern.MatchString(v) {
		return MsgPasswordComposition
	}
	return ""
}

// ConfirmPassword compares against the raw password, not its verdict.
func (e *Engine) ConfirmPassword(v, password string) string {
	if blank(v) {
		return MsgConfirmRequired
	}
	if v != password {
		return MsgConfirmMismatch
	}
	return ""
}

func (e *Engine) ProductName(v string) string {
	if blank(v) {
		return MsgProductNameRequired
	}
	if length(strings.TrimSpace(v)) < e.rules.ProductNameMinLength {
		return fmt.Sprintf(MsgProductNameTooShortFmt, e.rules.ProductNameMinLength)
	}
	if length(v) > maxProductNameLength {
		return MsgProductNameTooLong
	}
	return ""
}

// Description is optional.
func (e *Engine) Description(v string) string {
	if length(v) > maxDescriptionLength {
		return MsgDescriptionTooLong
	}
	return ""
}

func (e *Engine) Price(v Value) string {
	if v.Blank() {
		return MsgPriceRequired
	}

	f, ok, _, _ := v.numeric(e.rules.StrictNumbers)
	switch {
	case !ok:
		return MsgPriceNaN
	case f < 0:
		return MsgPriceNegative
	case f > MaxPrice:
		return MsgPriceTooLarge
	}
	return ""
}

func (e *Engine) Quantity(v Value) string {
	if v.Blank() {
		return MsgQuantityRequired
	}

	f, fok, i, iok := v.numeric(e.rules.StrictNumbers)
	switch {
	case !iok, !fok, math.IsInf(f, 0), f != math.Trunc(f):
		return MsgQuantityNotInteger
	case i < 0:
		return MsgQuantityNegative
	case i > MaxQuantity:
		return MsgQuantityTooLarge
	}
	return ""
}

func (e *Engine) Category(v string) string {
	if blank(v) {
		return MsgCategoryRequired
	}
	if !IsCategory(v) {
		return MsgCategoryInvalid
	}
	return ""
}
