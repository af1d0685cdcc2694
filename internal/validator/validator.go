package validator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kirikab-27/courselab/internal/domain"
)

// CodeValidator performs static checks on submitted source text before it is
// handed to the execution service. An empty result means the code is
// admissible for execution, not that it is correct.
type CodeValidator struct {
	rules map[domain.Language]SyntaxRules
}

// NewCodeValidator creates a validator with the default language rules
func NewCodeValidator() *CodeValidator {
	return &CodeValidator{rules: DefaultSyntaxRules()}
}

// Validate runs all checks in order and reports every failure found.
// Checks are independent: a delimiter error does not suppress the
// entry-point or terminator checks. Deterministic, no I/O.
func (v *CodeValidator) Validate(code string, lang domain.Language) []domain.ValidationError {
	rules, ok := v.rules[lang]
	if !ok {
		rules = SyntaxRules{LineComment: "//", BlockComments: true}
	}

	// String literals and comments are blanked up front so the scans below
	// only see significant code. Newlines survive, keeping line numbers valid.
	stripped := stripLiterals(code, rules)

	errs := []domain.ValidationError{}
	v.checkDelimiters(stripped, &errs)
	v.checkEntryPoint(stripped, rules, &errs)
	v.checkTerminators(stripped, rules, &errs)
	return errs
}

type openDelimiter struct {
	r    rune
	line int
}

var closerFor = map[rune]rune{'(': ')', '{': '}', '[': ']'}

// checkDelimiters reports the first unmatched or unclosed delimiter, if any.
// At most one error comes out of this check.
func (v *CodeValidator) checkDelimiters(stripped string, errs *[]domain.ValidationError) {
	var stack []openDelimiter
	line := 1

	for _, r := range stripped {
		switch r {
		case '\n':
			line++
		case '(', '{', '[':
			stack = append(stack, openDelimiter{r: r, line: line})
		case ')', '}', ']':
			if len(stack) == 0 {
				*errs = append(*errs, domain.ValidationError{
					Message: fmt.Sprintf("unmatched '%c' on line %d", r, line),
					Line:    line,
				})
				return
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if closerFor[top.r] != r {
				*errs = append(*errs, domain.ValidationError{
					Message: fmt.Sprintf("mismatched '%c' on line %d: expected '%c' to close '%c' from line %d", r, line, closerFor[top.r], top.r, top.line),
					Line:    line,
				})
				return
			}
		}
	}

	if len(stack) > 0 {
		first := stack[0]
		*errs = append(*errs, domain.ValidationError{
			Message: fmt.Sprintf("unclosed '%c' opened on line %d", first.r, first.line),
			Line:    first.line,
		})
	}
}

// checkEntryPoint verifies the language's program-entry construct is present
func (v *CodeValidator) checkEntryPoint(stripped string, rules SyntaxRules, errs *[]domain.ValidationError) {
	if rules.EntryPoint == nil {
		return
	}
	if !rules.EntryPoint.MatchString(stripped) {
		*errs = append(*errs, domain.ValidationError{
			Message: fmt.Sprintf("no program entry point found: expected %s", rules.EntryPointHint),
		})
	}
}

// checkTerminators flags top-level simple statements that do not end with the
// statement terminator. Block headers, declarations, and continuation lines
// carry no terminator of their own and are skipped; the line locator is best
// effort.
func (v *CodeValidator) checkTerminators(stripped string, rules SyntaxRules, errs *[]domain.ValidationError) {
	if !rules.Terminator {
		return
	}

	lines := strings.Split(stripped, "\n")
	for i, raw := range lines {
		line := strings.TrimRight(strings.TrimSpace(raw), " \t")
		if line == "" {
			continue
		}
		// Attributes, annotations, and preprocessor directives
		if strings.HasPrefix(line, "[") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@") {
			continue
		}
		if endsWithStructure(line) || isBlockHeader(line) {
			continue
		}
		if startsContinuation(nextNonEmpty(lines, i+1)) {
			continue
		}
		*errs = append(*errs, domain.ValidationError{
			Message: fmt.Sprintf("statement on line %d is missing ';'", i+1),
			Line:    i + 1,
		})
	}
}

// endsWithStructure reports whether the line ends in a token that never takes
// a statement terminator: block punctuation or a trailing operator that
// continues onto the next line.
func endsWithStructure(line string) bool {
	switch line[len(line)-1] {
	case ';', '{', '}', ',', '(', ':':
		return true
	}
	for _, op := range []string{"&&", "||", "=>", "=", "+", "-", "*", "/", "<", ">", "?", ".", "&", "|"} {
		if strings.HasSuffix(line, op) {
			return true
		}
	}
	return false
}

var headerKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "foreach": true, "while": true,
	"switch": true, "do": true, "try": true, "catch": true, "finally": true,
	"lock": true, "namespace": true, "class": true, "struct": true,
	"interface": true, "enum": true, "record": true,
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "abstract": true, "sealed": true, "override": true,
	"virtual": true, "async": true, "partial": true, "void": true, "func": true,
}

// isBlockHeader reports whether the line opens a block or declares a member.
// Control-flow headers and member declarations end without a terminator even
// though they often end in ')'.
func isBlockHeader(line string) bool {
	word := firstWord(line)
	if headerKeywords[word] {
		return true
	}
	// 'using' is a header only in its parenthesized form; 'using System'
	// is an import statement and still needs its terminator.
	if word == "using" {
		rest := strings.TrimSpace(strings.TrimPrefix(line, "using"))
		return strings.HasPrefix(rest, "(")
	}
	return false
}

func firstWord(line string) string {
	idx := strings.IndexFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if idx < 0 {
		return line
	}
	return line[:idx]
}

func nextNonEmpty(lines []string, from int) string {
	for _, raw := range lines[from:] {
		if line := strings.TrimSpace(raw); line != "" {
			return line
		}
	}
	return ""
}

// startsContinuation reports whether the following line continues the current
// statement, as in a chained method call split across lines.
func startsContinuation(next string) bool {
	if next == "" {
		return false
	}
	switch next[0] {
	case '.', '?', ':', '+', '-', '*', '/', '=', '&', '|', ')':
		return true
	}
	return false
}

// stripLiterals replaces string literals and comments with spaces so the
// delimiter and terminator scans only see significant code. A newline inside
// a normal quoted literal ends the literal, so one missing quote cannot blank
// the rest of the file; backtick literals span lines.
func stripLiterals(code string, rules SyntaxRules) string {
	const (
		stateCode = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	var b strings.Builder
	b.Grow(len(code))

	state := stateCode
	var quote rune
	escaped := false
	runes := []rune(code)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			switch state {
			case stateLineComment:
				state = stateCode
			case stateString:
				if quote != '`' {
					state = stateCode
				}
			}
			b.WriteRune('\n')
			escaped = false
			continue
		}

		switch state {
		case stateCode:
			switch {
			case r == '"' || r == '\'' || r == '`':
				quote = r
				state = stateString
				b.WriteRune(' ')
			case rules.LineComment != "" && hasPrefixAt(runes, i, rules.LineComment):
				state = stateLineComment
				for range rules.LineComment {
					b.WriteRune(' ')
				}
				i += len([]rune(rules.LineComment)) - 1
			case rules.BlockComments && hasPrefixAt(runes, i, "/*"):
				state = stateBlockComment
				b.WriteString("  ")
				i++
			default:
				b.WriteRune(r)
			}
		case stateString:
			b.WriteRune(' ')
			switch {
			case escaped:
				escaped = false
			case r == '\\' && quote != '`':
				escaped = true
			case r == quote:
				state = stateCode
			}
		case stateLineComment:
			b.WriteRune(' ')
		case stateBlockComment:
			b.WriteRune(' ')
			if r == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				b.WriteRune(' ')
				i++
				state = stateCode
			}
		}
	}

	return b.String()
}

func hasPrefixAt(runes []rune, i int, prefix string) bool {
	for _, p := range prefix {
		if i >= len(runes) || runes[i] != p {
			return false
		}
		i++
	}
	return true
}
