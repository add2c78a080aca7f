// Package phone normalizes loosely formatted phone numbers into the
// canonical address form the messaging gateway expects.
package phone

import (
	"errors"
	"strings"
)

// ErrInvalid is returned when a value cannot be shaped into a gateway address.
var ErrInvalid = errors.New("invalid phone number")

const groupSuffix = "@g.us"

// Config carries the country-specific normalization rules.
type Config struct {
	CountryCode   string
	LocalLength   int
	LocalPrefixes []string
}

// IsGroupAddress reports whether the value is a group-chat identifier.
// Groups have no local-number shape and are never normalized or rejected.
func IsGroupAddress(v string) bool {
	return strings.Contains(v, groupSuffix)
}

// Normalize turns a raw phone value into canonical gateway form.
//
// All non-digit characters are stripped. A digit string of exactly
// LocalLength digits is treated as a local number and prefixed with the
// country code — unconditionally when no prefixes are configured, otherwise
// only when it starts with one of them. The final value must be at least
// len(CountryCode)+LocalLength-1 digits long.
func Normalize(raw string, cfg Config) (string, error) {
	if IsGroupAddress(raw) {
		return raw, nil
	}

	digits := Digits(raw)
	if digits == "" {
		return "", ErrInvalid
	}

	if len(digits) == cfg.LocalLength {
		if len(cfg.LocalPrefixes) == 0 {
			digits = cfg.CountryCode + digits
		} else {
			for _, p := range cfg.LocalPrefixes {
				if p != "" && strings.HasPrefix(digits, p) {
					digits = cfg.CountryCode + digits
					break
				}
			}
		}
	}

	if len(digits) < len(cfg.CountryCode)+cfg.LocalLength-1 {
		return "", ErrInvalid
	}

	return digits, nil
}

// Digits returns only the decimal digits of v.
func Digits(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LastN returns the last n digits of v, or all of them when fewer exist.
// Used for suffix matching across country-code format drift.
func LastN(v string, n int) string {
	d := Digits(v)
	if len(d) <= n {
		return d
	}
	return d[len(d)-n:]
}

// FormatForDisplay renders a number for human-facing comments.
func FormatForDisplay(v string) string {
	if v == "" {
		return "unknown"
	}
	d := Digits(v)
	if d == "" {
		return v
	}
	if len(d) > 9 {
		return "+" + d
	}
	return d
}
