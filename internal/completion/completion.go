// Package completion decides whether a submitted program completes a lesson.
//
// Evaluation is a pure function of (lesson ID, code, output). Each lesson
// may register a Rule; lessons without one fall through to the default rule.
package completion

import (
	"strings"
	"sync"
)

// ErrorMarker in the displayed output vetoes completion.
const ErrorMarker = "Error:"

// MinDefaultLength is the trimmed code length the default rule requires
// to be exceeded.
const MinDefaultLength = 20

// Rule decides completion for one lesson. Rules only see submissions that
// passed the veto: code is non-blank and output has no error marker.
type Rule interface {
	Name() string
	Complete(code, output string) bool
}

// RuleFunc adapts a function to a Rule.
type RuleFunc struct {
	Label string
	Fn    func(code, output string) bool
}

func (r RuleFunc) Name() string                      { return r.Label }
func (r RuleFunc) Complete(code, output string) bool { return r.Fn(code, output) }

// CodeContainsAny completes when the code contains any of the fragments.
func CodeContainsAny(name string, fragments ...string) Rule {
	return RuleFunc{Label: name, Fn: func(code, _ string) bool {
		for _, f := range fragments {
			if strings.Contains(code, f) {
				return true
			}
		}
		return false
	}}
}

type defaultRule struct{}

func (defaultRule) Name() string { return "default" }

func (defaultRule) Complete(code, _ string) bool {
	return len(strings.TrimSpace(code)) > MinDefaultLength
}

// DefaultRule completes any submission with more than MinDefaultLength
// characters of trimmed code. It is comparable with ==.
var DefaultRule Rule = defaultRule{}

// Registry maps lesson IDs to rules. The zero value is not usable; use
// NewRegistry or Default.
type Registry struct {
	mu    sync.RWMutex
	rules map[int]Rule
	def   Rule
}

// NewRegistry returns an empty registry that uses DefaultRule.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[int]Rule), def: DefaultRule}
}

// Register sets the rule for lessonID, replacing any existing one.
func (r *Registry) Register(lessonID int, rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[lessonID] = rule
}

// Rule returns the rule that applies to lessonID.
func (r *Registry) Rule(lessonID int) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rule, ok := r.rules[lessonID]; ok && rule != nil {
		return rule
	}
	return r.def
}

// Evaluate reports whether code with the given displayed output completes
// the lesson.
func (r *Registry) Evaluate(lessonID int, code, output string) bool {
	if Vetoed(code, output) {
		return false
	}
	return r.Rule(lessonID).Complete(code, output)
}

// Vetoed reports whether the submission fails regardless of lesson.
func Vetoed(code, output string) bool {
	return strings.TrimSpace(code) == "" || strings.Contains(output, ErrorMarker)
}

// DisplayedOutput folds an execution error into the output the learner
// sees, so that a reported error always vetoes completion.
func DisplayedOutput(output, execErr string) string {
	if execErr != "" {
		return ErrorMarker + " " + execErr
	}
	return output
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry with rules for the built-in lessons.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewBuiltinRegistry()
	})
	return defaultReg
}

// Evaluate uses the Default registry.
func Evaluate(lessonID int, code, output string) bool {
	return Default().Evaluate(lessonID, code, output)
}
