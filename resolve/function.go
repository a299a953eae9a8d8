package resolve

import (
	"regexp"
	"strconv"
	"strings"
)

const functionMarker = "@("

// Function replaces every evaluable @( expr ) form in text with its result.
//
// The innermost form, the first whose body holds no unescaped parenthesis, is
// evaluated and spliced back in place, and the search starts over. A form that
// no pattern matches is left unchanged and skipped. Every splice removes one
// marker, so the loop ends after at most as many passes as text has markers.
func Function(text string) string {
	for {
		next, ok := spliceFunction(text)
		if !ok {
			return text
		}

		text = next
	}
}

// spliceFunction evaluates the first innermost form of text that matches a
// pattern. It reports false if no form could be evaluated.
func spliceFunction(text string) (string, bool) {
	for from := 0; ; {
		i := strings.Index(text[from:], functionMarker)
		if i < 0 {
			return text, false
		}

		start := from + i
		from = start + len(functionMarker)

		end, ok := innermost(text, from)
		if !ok {
			continue
		}

		result, ok := evaluate(text[from:end])
		if !ok {
			continue
		}

		return text[:start] + result + text[end+1:], true
	}
}

// innermost returns the index of the ')' closing the body that begins at
// offset from. It reports false if the body holds an unescaped '(' or has no
// closing parenthesis.
func innermost(text string, from int) (int, bool) {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '(':
			return 0, false
		case ')':
			return i, true
		}
	}

	return 0, false
}

// Operand patterns. Each anchors the whole trimmed expression.
//
//nolint:gochecknoglobals
var (
	arithmeticExpr = regexp.MustCompile(`^(\S+?)\s*([-+*/])\s*(\S+)$`)
	negationExpr   = regexp.MustCompile(`^(?:!\s*|(?i:not)\s+)(\S+)$`)
	equalityExpr   = regexp.MustCompile(`^(\S+?)\s*(==|!=)\s*(\S+)$`)
	relationalExpr = regexp.MustCompile(`^(\S+?)\s*([<>])\s*(\S+)$`)
	orExpr         = regexp.MustCompile(`^(\S+?)\s*\|\s*(\S+)$`)
	andExpr        = regexp.MustCompile(`^(\S+?)\s*&\s*(\S+)$`)
	ternaryExpr    = regexp.MustCompile(`^(\S+?)\s*\?\s*(\S+?)\s*:\s*(\S+)$`)

	integerLiteral = regexp.MustCompile(`^[-+]?\d+$`)
	decimalLiteral = regexp.MustCompile(
		`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?$`,
	)
)

// evaluators are tried in order; the first that matches the whole expression
// produces the result. There is no operator precedence: mixed operator
// expressions match no pattern and stay unresolved. A case/switch
// form is not part of the dispatch.
//
//nolint:gochecknoglobals
var evaluators = []func(string) (string, bool){
	arithmetic,
	negation,
	equality,
	relational,
	or,
	and,
	ternary,
}

// evaluate returns the result of the first pattern matching expr.
func evaluate(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)

	for _, eval := range evaluators {
		if result, ok := eval(expr); ok {
			return result, true
		}
	}

	return "", false
}

func arithmetic(expr string) (string, bool) {
	m := arithmeticExpr.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	a, op, b := m[1], m[2], m[3]

	if x, y, ok := integers(a, b); ok {
		switch op {
		case "+":
			return strconv.FormatInt(x+y, 10), true
		case "-":
			return strconv.FormatInt(x-y, 10), true
		case "*":
			return strconv.FormatInt(x*y, 10), true
		case "/":
			if y == 0 {
				return "", false
			}

			return strconv.FormatInt(x/y, 10), true
		}
	}

	if x, y, ok := decimals(a, b); ok {
		switch op {
		case "+":
			return formatFloat(x + y), true
		case "-":
			return formatFloat(x - y), true
		case "*":
			return formatFloat(x * y), true
		case "/":
			if y == 0 {
				return "", false
			}

			return formatFloat(x / y), true
		}
	}

	return "", false
}

func negation(expr string) (string, bool) {
	m := negationExpr.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	return formatBool(isFalse(m[1])), true
}

func equality(expr string) (string, bool) {
	m := equalityExpr.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	a, op, b := m[1], m[2], m[3]

	var equal bool

	if x, y, ok := integers(a, b); ok {
		equal = x == y
	} else if x, y, ok := decimals(a, b); ok {
		equal = x == y
	} else {
		equal = strings.EqualFold(a, b)
	}

	if op == "!=" {
		equal = !equal
	}

	return formatBool(equal), true
}

func relational(expr string) (string, bool) {
	m := relationalExpr.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	a, op, b := m[1], m[2], m[3]

	if x, y, ok := integers(a, b); ok {
		if op == ">" {
			return formatBool(x > y), true
		}

		return formatBool(x < y), true
	}

	if x, y, ok := decimals(a, b); ok {
		if op == ">" {
			return formatBool(x > y), true
		}

		return formatBool(x < y), true
	}

	return "", false
}

func or(expr string) (string, bool) {
	m := orExpr.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	return formatBool(isTrue(m[1]) || isTrue(m[2])), true
}

func and(expr string) (string, bool) {
	m := andExpr.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	return formatBool(isTrue(m[1]) && isTrue(m[2])), true
}

// ternary returns one of its raw tokens. The chosen token is not evaluated.
func ternary(expr string) (string, bool) {
	m := ternaryExpr.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}

	if isTrue(m[1]) {
		return m[2], true
	}

	return m[3], true
}

func integers(a, b string) (int64, int64, bool) {
	if !integerLiteral.MatchString(a) || !integerLiteral.MatchString(b) {
		return 0, 0, false
	}

	x, err := strconv.ParseInt(a, 10, 64)
	if err != nil {
		return 0, 0, false
	}

	y, err := strconv.ParseInt(b, 10, 64)
	if err != nil {
		return 0, 0, false
	}

	return x, y, true
}

func decimals(a, b string) (float64, float64, bool) {
	if !decimalLiteral.MatchString(a) || !decimalLiteral.MatchString(b) {
		return 0, 0, false
	}

	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, 0, false
	}

	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, 0, false
	}

	return x, y, true
}

// formatFloat formats f in its shortest decimal form, keeping a fractional
// part so the result still reads as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}

	return s
}

func formatBool(b bool) string {
	if b {
		return "true"
	}

	return "false"
}

func isTrue(s string) bool  { return strings.EqualFold(s, "true") }
func isFalse(s string) bool { return strings.EqualFold(s, "false") }
