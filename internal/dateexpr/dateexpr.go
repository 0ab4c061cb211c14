// Package dateexpr evaluates date expression tokens of the form
// "<format-body>[+N|-N]", e.g. "yyyy-MM-dd-1" or "yyyyMMdd+7".
package dateexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// formatTokens are the recognised date-format placeholders, checked in
// longest-first order so "yyyy" is matched before a stray "yy" would be
// (not part of the grammar, but keeps substitution unambiguous).
var formatTokens = []struct {
	token string
	get   func(time.Time) string
}{
	{"yyyy", func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }},
	{"MM", func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{"dd", func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) }},
	{"HH", func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) }},
	{"mm", func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) }},
	{"ss", func(t time.Time) string { return fmt.Sprintf("%02d", t.Second()) }},
}

// offsetPattern matches a trailing sign+digits offset, e.g. "-1" or "+7".
var offsetPattern = regexp.MustCompile(`^(.*?)([+-])(\d+)$`)

// malformedOffsetPattern matches a trailing sign immediately followed by at
// least one digit (clearly an attempted offset) but with trailing garbage
// after the digit run, e.g. "yyyy-MM-dd-1x".
var malformedOffsetPattern = regexp.MustCompile(`[+-]\d+[A-Za-z][A-Za-z0-9]*$`)

// LooksLikeDateExpr reports whether body contains at least one recognised
// format token, the precondition for attempting evaluation.
func LooksLikeDateExpr(body string) bool {
	for _, ft := range formatTokens {
		if strings.Contains(body, ft.token) {
			return true
		}
	}
	return false
}

// ErrMalformedOffset indicates the body looked like a date expression but
// its trailing offset was not a valid "+N"/"-N" suffix; callers should
// leave the original token literal on this error.
var ErrMalformedOffset = fmt.Errorf("dateexpr: malformed offset")

// Eval evaluates a date expression body against refDate, returning the
// formatted result. body must already have passed LooksLikeDateExpr.
func Eval(body string, refDate time.Time) (string, error) {
	if malformedOffsetPattern.MatchString(body) {
		return "", ErrMalformedOffset
	}

	formatBody := body
	sign := 1
	offsetDays := 0

	if m := offsetPattern.FindStringSubmatch(body); m != nil && LooksLikeDateExpr(m[1]) {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return "", ErrMalformedOffset
		}
		formatBody = m[1]
		offsetDays = n
		if m[2] == "-" {
			sign = -1
		}
	}

	target := refDate.AddDate(0, 0, sign*offsetDays)
	return format(formatBody, target), nil
}

// format substitutes every recognised token in formatBody with its value
// for t, leaving any other characters (dashes, slashes, literal text)
// untouched.
func format(formatBody string, t time.Time) string {
	out := formatBody
	for _, ft := range formatTokens {
		out = strings.ReplaceAll(out, ft.token, ft.get(t))
	}
	return out
}
