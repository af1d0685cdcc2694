package simulator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirikab-27/courselab/internal/domain"
)

// LocalSimulator is the built-in execution backend. It does not run the
// code: it reconstructs the program's console output from its print
// statements, which covers the lesson exercises that teach output and
// formatting without needing a sandbox.
type LocalSimulator struct{}

// NewLocalSimulator creates the built-in backend
func NewLocalSimulator() *LocalSimulator {
	return &LocalSimulator{}
}

func (s *LocalSimulator) Name() string {
	return "local"
}

func (s *LocalSimulator) Execute(ctx context.Context, req *Request) (*domain.ExecutionResult, error) {
	start := time.Now()

	if ctx.Err() != nil {
		return timedOutResult(req), nil
	}

	output := simulateOutput(req.Code, req.Language)

	elapsed := time.Since(start).Milliseconds()
	if elapsed < 1 {
		elapsed = 1
	}

	return &domain.ExecutionResult{
		Output:          output,
		ExecutionTimeMs: elapsed,
		Success:         true,
		MemoryUsageMB:   simulatedMemoryMB(req.Code),
	}, nil
}

func timedOutResult(req *Request) *domain.ExecutionResult {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &domain.ExecutionResult{
		Error:           fmt.Sprintf("execution timed out after %dms", timeout.Milliseconds()),
		ExecutionTimeMs: timeout.Milliseconds(),
		Success:         false,
	}
}

func simulatedMemoryMB(code string) float64 {
	return 8.0 + float64(len(code))/1024.0
}

// printCall describes one recognized output call for a language
type printCall struct {
	name    string
	newline bool
}

// Longer names come first so Write never shadows WriteLine.
var printCalls = map[domain.Language][]printCall{
	domain.LanguageCSharp: {
		{name: "Console.WriteLine", newline: true},
		{name: "Console.Write", newline: false},
	},
	domain.LanguageJava: {
		{name: "System.out.println", newline: true},
		{name: "System.out.print", newline: false},
	},
	domain.LanguageGo: {
		{name: "fmt.Println", newline: true},
		{name: "fmt.Printf", newline: false},
		{name: "fmt.Print", newline: false},
	},
	domain.LanguagePython: {
		{name: "print", newline: true},
	},
	domain.LanguageJavaScript: {
		{name: "console.log", newline: true},
	},
	domain.LanguageTypeScript: {
		{name: "console.log", newline: true},
	},
}

// simulateOutput walks the source line by line and emits the string-literal
// arguments of every recognized print call, in order. Non-literal arguments
// contribute nothing; calls inside strings or comments are ignored.
func simulateOutput(code string, lang domain.Language) string {
	calls, ok := printCalls[lang]
	if !ok {
		return ""
	}

	var out strings.Builder
	for _, line := range strings.Split(code, "\n") {
		scanLine(line, calls, lang, &out)
	}
	return out.String()
}

func scanLine(line string, calls []printCall, lang domain.Language, out *strings.Builder) {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]

		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '#' && lang == domain.LanguagePython:
			return
		case ch == '/' && i+1 < len(line) && line[i+1] == '/' && lang != domain.LanguagePython:
			return
		default:
			call, ok := matchCall(line, i, calls)
			if !ok {
				continue
			}
			argText, next := argumentSpan(line, i+len(call.name))
			out.WriteString(literalText(argText))
			if call.newline {
				out.WriteByte('\n')
			}
			i = next
		}
	}
}

func matchCall(line string, i int, calls []printCall) (printCall, bool) {
	if i > 0 && isIdentByte(line[i-1]) {
		return printCall{}, false
	}
	for _, c := range calls {
		if strings.HasPrefix(line[i:], c.name+"(") {
			return c, true
		}
	}
	return printCall{}, false
}

// isIdentByte treats '.' as part of an identifier path so that a method
// named like a builtin, as in obj.print(x), is not mistaken for one.
func isIdentByte(b byte) bool {
	return b == '.' || b == '_' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// argumentSpan returns the text between the call's parentheses and the index
// of the closing one. An unclosed call consumes the rest of the line.
func argumentSpan(line string, openIdx int) (string, int) {
	depth := 0
	var quote byte

	for i := openIdx; i < len(line); i++ {
		ch := line[i]

		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch ch {
		case '"', '\'':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return line[openIdx+1 : i], i
			}
		}
	}
	return line[openIdx+1:], len(line) - 1
}

// literalText concatenates the contents of every string literal in the
// argument text, decoding the common escapes.
func literalText(args string) string {
	var out strings.Builder
	var quote byte

	for i := 0; i < len(args); i++ {
		ch := args[i]

		if quote == 0 {
			if ch == '"' || ch == '\'' {
				quote = ch
			}
			continue
		}

		switch ch {
		case '\\':
			if i+1 < len(args) {
				i++
				out.WriteByte(unescape(args[i]))
			}
		case quote:
			quote = 0
		default:
			out.WriteByte(ch)
		}
	}
	return out.String()
}

func unescape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return b
	}
}
