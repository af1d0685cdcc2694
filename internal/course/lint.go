package course

import (
	"regexp"
	"strings"

	"github.com/kirikab-27/courselab/internal/domain"
)

// AdvisorySeverity grades how urgently an authoring advisory should be
// addressed. Advisories never fail validation.
type AdvisorySeverity string

const (
	SeverityWarning AdvisorySeverity = "warning"
	SeverityNotice  AdvisorySeverity = "notice"
)

// Advisory flags content a course author should review before publishing:
// things that pass schema validation but would embarrass the course once
// learners see them.
type Advisory struct {
	RuleID     string           `json:"rule_id"`
	Severity   AdvisorySeverity `json:"severity"`
	CourseID   string           `json:"course_id"`
	LessonID   string           `json:"lesson_id,omitempty"`
	ExerciseID string           `json:"exercise_id,omitempty"`
	Field      string           `json:"field"`
	Line       int              `json:"line,omitempty"`
	Summary    string           `json:"summary"`
	Advice     string           `json:"advice"`
}

// lintRule matches one suspicious construct. An empty language list applies
// the rule to every language; fields names which exercise or lesson fields
// the rule scans.
type lintRule struct {
	id        string
	severity  AdvisorySeverity
	summary   string
	advice    string
	regex     *regexp.Regexp
	languages []domain.Language
	fields    []string
}

const (
	fieldStarterCode = "starter_code"
	fieldSolution    = "solution"
	fieldContent     = "content"
)

var lintRules = []lintRule{
	{
		id:       "hardcoded-secret",
		severity: SeverityWarning,
		summary:  "Hardcoded credential in exercise code",
		advice:   "Replace the literal with a placeholder; learners copy starter and solution code verbatim.",
		regex:    regexp.MustCompile(`(?i)(password|secret|api_?key|token)\s*[:=]\s*["'][\w\-]+["']`),
		fields:   []string{fieldStarterCode, fieldSolution},
	},
	{
		id:       "eval-in-code",
		severity: SeverityWarning,
		summary:  "eval() in exercise code",
		advice:   "Teach a safe alternative; exercises shape the habits learners keep.",
		regex:    regexp.MustCompile(`\beval\s*\(`),
		languages: []domain.Language{
			domain.LanguagePython, domain.LanguageJavaScript, domain.LanguageTypeScript,
		},
		fields: []string{fieldStarterCode, fieldSolution},
	},
	{
		id:       "todo-in-solution",
		severity: SeverityNotice,
		summary:  "TODO marker in reference solution",
		advice:   "Finish the solution or remove the marker. Starter code is the place for TODOs, not the reference answer.",
		regex:    regexp.MustCompile(`(?i)(//|#)\s*(TODO|FIXME|HACK|XXX)`),
		fields:   []string{fieldSolution},
	},
	{
		id:       "placeholder-text",
		severity: SeverityNotice,
		summary:  "Placeholder text in lesson content",
		advice:   "Write the section or drop it before publishing.",
		regex:    regexp.MustCompile(`(?i)(lorem ipsum|\bTBD\b|coming soon|\[placeholder\])`),
		fields:   []string{fieldContent},
	},
	{
		id:       "bare-except",
		severity: SeverityNotice,
		summary:  "Bare except clause in exercise code",
		advice:   "Catch specific exceptions so learners see the errors they cause.",
		regex:    regexp.MustCompile(`except\s*:`),
		languages: []domain.Language{
			domain.LanguagePython,
		},
		fields: []string{fieldStarterCode, fieldSolution},
	},
}

// Lint inspects loaded course content for authoring mistakes the structural
// validation cannot catch. It is advisory only: the caller decides how to
// surface the results, and a non-empty report never blocks loading.
func Lint(course *domain.Course) []Advisory {
	var advisories []Advisory

	for mi := range course.Modules {
		for li := range course.Modules[mi].Lessons {
			lesson := &course.Modules[mi].Lessons[li]

			advisories = append(advisories, lintText(course.ID, lesson.ID, "",
				fieldContent, lesson.Content, course.Language)...)

			for ei := range lesson.Exercises {
				exercise := &lesson.Exercises[ei]
				advisories = append(advisories, lintExercise(course.ID, lesson.ID, exercise)...)
			}
		}
	}

	return advisories
}

func lintExercise(courseID, lessonID string, exercise *domain.Exercise) []Advisory {
	var advisories []Advisory

	advisories = append(advisories, lintText(courseID, lessonID, exercise.ID,
		fieldStarterCode, exercise.StarterCode, exercise.Language)...)
	advisories = append(advisories, lintText(courseID, lessonID, exercise.ID,
		fieldSolution, exercise.Solution, exercise.Language)...)

	// A solution identical to the starter code means the author published
	// the scaffold as the answer.
	if exercise.Solution != "" &&
		strings.TrimSpace(exercise.Solution) == strings.TrimSpace(exercise.StarterCode) {
		advisories = append(advisories, Advisory{
			RuleID:     "solution-matches-starter",
			Severity:   SeverityWarning,
			CourseID:   courseID,
			LessonID:   lessonID,
			ExerciseID: exercise.ID,
			Field:      fieldSolution,
			Summary:    "Reference solution is identical to the starter code",
			Advice:     "Write the completed solution; revealing this one tells the learner nothing.",
		})
	}

	return advisories
}

func lintText(courseID, lessonID, exerciseID, field, text string, lang domain.Language) []Advisory {
	if text == "" {
		return nil
	}

	var advisories []Advisory
	lines := strings.Split(text, "\n")

	for _, rule := range lintRules {
		if !ruleApplies(rule, field, lang) {
			continue
		}
		for i, line := range lines {
			if rule.regex.MatchString(line) {
				advisories = append(advisories, Advisory{
					RuleID:     rule.id,
					Severity:   rule.severity,
					CourseID:   courseID,
					LessonID:   lessonID,
					ExerciseID: exerciseID,
					Field:      field,
					Line:       i + 1,
					Summary:    rule.summary,
					Advice:     rule.advice,
				})
			}
		}
	}

	return advisories
}

func ruleApplies(rule lintRule, field string, lang domain.Language) bool {
	fieldOK := false
	for _, f := range rule.fields {
		if f == field {
			fieldOK = true
			break
		}
	}
	if !fieldOK {
		return false
	}
	if len(rule.languages) == 0 {
		return true
	}
	for _, l := range rule.languages {
		if l == lang {
			return true
		}
	}
	return false
}
