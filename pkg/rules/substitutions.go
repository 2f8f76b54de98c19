package rules

import (
	"regexp"
	"strings"
)

// Substitution is a self-contained textual transformation used when no
// rewrite rule is registered for a fired pattern source. Each entry
// knows how to transform only text matching its own shape.
type Substitution struct {
	// Apply transforms the whole file content, replacing every
	// non-overlapping occurrence of the shape.
	Apply func(content string) string

	// Safe marks the substitution as safe under safe mode
	Safe bool
}

var (
	reDynamicFinder = regexp.MustCompile(SrcDynamicFinder)
	reURIEscape     = regexp.MustCompile(SrcURIEscape)
	reFixnum        = regexp.MustCompile(SrcFixnum)
)

// FallbackSubstitutions returns the fixed table of built-in textual
// substitutions, keyed by pattern source. The rewriter consults it
// after the rewrite registry comes up empty for a record.
func FallbackSubstitutions() map[string]Substitution {
	return map[string]Substitution{
		SrcDynamicFinder: {Apply: collapseDynamicFinders, Safe: true},
		SrcURIEscape: {
			Apply: func(content string) string {
				return reURIEscape.ReplaceAllString(content, "CGI.escape")
			},
			Safe: true,
		},
		SrcFixnum: {
			Apply: func(content string) string {
				return reFixnum.ReplaceAllString(content, "Integer")
			},
			Safe: true,
		},
	}
}

// collapseDynamicFinders turns `.find_by_name_and_email(a, b)` into
// `.find_by(name: a, email: b)`. A call whose attribute count does not
// line up with its argument count is left untouched.
func collapseDynamicFinders(content string) string {
	return reDynamicFinder.ReplaceAllStringFunc(content, func(call string) string {
		m := reDynamicFinder.FindStringSubmatch(call)
		if m == nil {
			return call
		}

		attrs := strings.Split(m[1], "_and_")
		args := splitArgs(m[2])
		if len(attrs) != len(args) {
			return call
		}

		pairs := make([]string, len(attrs))
		for i, attr := range attrs {
			pairs[i] = attr + ": " + args[i]
		}
		return ".find_by(" + strings.Join(pairs, ", ") + ")"
	})
}

// splitArgs splits a finder's argument list on top-level commas
func splitArgs(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	var args []string
	depth := 0
	start := 0
	for i, r := range list {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(list[start:]))
	return args
}
