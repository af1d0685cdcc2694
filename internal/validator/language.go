package validator

import (
	"regexp"

	"github.com/kirikab-27/courselab/internal/domain"
)

// SyntaxRules contains the language-specific static checks
type SyntaxRules struct {
	// EntryPoint matches the program-entry construct; nil skips the check
	EntryPoint *regexp.Regexp
	// EntryPointHint names the expected construct in error messages
	EntryPointHint string
	// Terminator requires top-level simple statements to end with ';'
	Terminator bool
	// LineComment starts a comment running to end of line
	LineComment string
	// BlockComments enables stripping of /* ... */ comments
	BlockComments bool
}

// DefaultSyntaxRules returns default rules for all supported languages
func DefaultSyntaxRules() map[domain.Language]SyntaxRules {
	return map[domain.Language]SyntaxRules{
		domain.LanguageCSharp: {
			EntryPoint:     regexp.MustCompile(`\bstatic\s+(?:async\s+)?(?:void|int|Task(?:\s*<\s*int\s*>)?)\s+Main\s*\(`),
			EntryPointHint: "a static Main method",
			Terminator:     true,
			LineComment:    "//",
			BlockComments:  true,
		},
		domain.LanguageJava: {
			EntryPoint:     regexp.MustCompile(`\bpublic\s+static\s+void\s+main\s*\(`),
			EntryPointHint: "a public static void main method",
			Terminator:     true,
			LineComment:    "//",
			BlockComments:  true,
		},
		domain.LanguageGo: {
			EntryPoint:     regexp.MustCompile(`\bfunc\s+main\s*\(`),
			EntryPointHint: "a func main declaration",
			LineComment:    "//",
			BlockComments:  true,
		},
		domain.LanguagePython: {
			LineComment: "#",
		},
		domain.LanguageJavaScript: {
			LineComment:   "//",
			BlockComments: true,
		},
		domain.LanguageTypeScript: {
			LineComment:   "//",
			BlockComments: true,
		},
	}
}
