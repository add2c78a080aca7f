// Package render evaluates message and condition templates against a
// document context.
package render

import (
	"fmt"
	"strings"
	"text/template"
)

// Context is the data exposed to templates. Handlers put the document under
// "doc" plus any extra keys (option_label, received_text, ...).
type Context map[string]interface{}

// funcs are the formatting helpers available inside every template.
var funcs = template.FuncMap{
	"bold":   func(s string) string { return wrap(s, "*") },
	"italic": func(s string) string { return wrap(s, "_") },
	"strike": func(s string) string { return wrap(s, "~") },
	"mono":   func(s string) string { return wrap(s, "`") },
	"money": func(amount float64, symbol string) string {
		return fmt.Sprintf("%s %s", formatThousands(amount), symbol)
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
}

func wrap(s, marker string) string {
	if s == "" {
		return ""
	}
	return marker + s + marker
}

func formatThousands(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",") + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Render evaluates a template string against the context. A template that
// fails to parse or execute returns an error; callers treat that as
// "do not send", never as a fatal condition.
func Render(tmpl string, ctx Context) (string, error) {
	t, err := template.New("msg").Funcs(funcs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var b strings.Builder
	if err := t.Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return strings.ReplaceAll(b.String(), "<no value>", ""), nil
}

// EvalCondition renders a guard-condition template and interprets the
// result as a boolean. Empty, "false" and "0" are false; anything else
// is true.
func EvalCondition(tmpl string, ctx Context) (bool, error) {
	out, err := Render(tmpl, ctx)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(out)) {
	case "", "false", "0", "none", "null", "no":
		return false, nil
	default:
		return true, nil
	}
}

// Truncate limits a message to the gateway's safe maximum, breaking at a
// word boundary when one is close enough.
func Truncate(msg string, max int) string {
	if len(msg) <= max {
		return msg
	}
	cut := msg[:max-3]
	if i := strings.LastIndex(cut, " "); i > max-50 {
		cut = cut[:i]
	}
	return cut + "..."
}
