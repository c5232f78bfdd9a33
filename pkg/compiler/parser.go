// lootfilter/pkg/compiler/parser.go

package compiler

import (
	"fmt"
	"strings"

	"rgehrsitz/lootfilter/pkg/logging"
	"rgehrsitz/lootfilter/pkg/rules"
)

// Result is everything a parse produces. Parsing never fails as a whole; broken
// lines end up in Errors and the remaining rules are still returned.
type Result struct {
	RuleSet   rules.RuleSet
	Errors    []Diagnostic
	Warnings  []Diagnostic
	LineTypes []LineType
}

func (r Result) OK() bool { return len(r.Errors) == 0 }

func (r Result) ErrorMessages() []string { return messages(r.Errors) }

func (r Result) WarningMessages() []string { return messages(r.Warnings) }

func messages(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message()
	}
	return out
}

// State is the parse context threaded through the lines of a document. Step
// returns a new State and leaves its receiver usable, so a document can be
// replayed from any intermediate state.
type State struct {
	ruleSet  rules.RuleSet
	errors   []Diagnostic
	warnings []Diagnostic

	open    bool
	current rules.Rule
}

// Step consumes one source line. lineNr is zero-based.
func (s State) Step(lineNr int, line string) (State, LineType) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(line, "\t", " "))
	if trimmed == "" {
		return s, Empty
	}
	if trimmed[0] == '#' {
		return s, Comment
	}

	code := strings.TrimSpace(stripComment(trimmed))
	keyword, args := splitKeyword(code)
	kw, known := keywords[keyword]
	p := &lineParser{lineNr: lineNr}

	// Only a bare Show or Hide opens a rule.
	if known && kw.Class == ClassVisibility && args == "" {
		s = s.closeRule()
		s.open = true
		s.current = rules.Rule{Show: keyword == "Show", Lines: []int{lineNr}}
		return s.record(p, Visibility, false)
	}

	if !s.open {
		p.tokenError(code, "Show or Hide")
		return s.record(p, Error, false)
	}
	if !known || kw.Class == ClassVisibility {
		p.tokenError(keyword, "filter or modifier")
		return s.record(p, Error, false)
	}

	switch kw.Class {
	case ClassFilter:
		if f := kw.filter(p, args); f != nil && !p.failed() {
			s.current.Filters = appendClipped(s.current.Filters, f)
		}
		return s.record(p, Filter, true)
	case ClassModifier:
		if m := kw.modifier(p, args); m != nil && !p.failed() {
			s.current.Modifiers = appendClipped(s.current.Modifiers, m)
		}
		return s.record(p, Modifier, true)
	default:
		if args != "" {
			p.tokenError(strings.Fields(args)[0], "no argument")
		} else {
			s.current.Continues = true
		}
		return s.record(p, Visibility, true)
	}
}

// record stores the line's diagnostics. A clean line joins the open rule's span
// when span is set.
func (s State) record(p *lineParser, lt LineType, span bool) (State, LineType) {
	if p.failed() {
		for _, d := range p.diags {
			logging.Logger.Debug().Int("line", d.Line+1).Str("kind", d.Kind.String()).Msg(d.Message())
		}
		s.errors = appendClipped(s.errors, p.diags...)
		return s, Error
	}
	if span && s.open {
		s.current.Lines = appendClipped(s.current.Lines, p.lineNr)
	}
	return s, lt
}

// closeRule validates the open rule and appends it to the rule set.
func (s State) closeRule() State {
	if !s.open {
		return s
	}
	r := s.current
	if r.AlertSoundCount() > 1 {
		w := Diagnostic{
			Kind: Warning,
			Line: r.FirstLine(),
			Detail: fmt.Sprintf("Multiple PlayAlertSound modifiers found in rule at line %d. Only the last sound will be played.",
				r.FirstLine()+1),
		}
		logging.Logger.Debug().Int("line", w.Line+1).Msg(w.Detail)
		s.warnings = appendClipped(s.warnings, w)
	}
	logging.Logger.Debug().
		Int("line", r.FirstLine()+1).
		Bool("show", r.Show).
		Int("filters", len(r.Filters)).
		Int("modifiers", len(r.Modifiers)).
		Bool("continue", r.Continues).
		Msg("Closed rule")

	s.ruleSet = appendClipped(s.ruleSet, &r)
	s.open = false
	s.current = rules.Rule{}
	return s
}

// Finish closes any open rule. LineTypes is left to the caller, which received
// one per Step.
func (s State) Finish() Result {
	s = s.closeRule()
	return Result{
		RuleSet:  s.ruleSet,
		Errors:   s.errors,
		Warnings: s.warnings,
	}
}

// Parse compiles a filter document given as lines.
func Parse(lines []string) Result {
	logging.Logger.Debug().Int("lines", len(lines)).Msg("Starting to parse filter")

	var s State
	lineTypes := make([]LineType, len(lines))
	for i, line := range lines {
		s, lineTypes[i] = s.Step(i, line)
	}
	res := s.Finish()
	res.LineTypes = lineTypes

	logging.Logger.Info().
		Int("rules", len(res.RuleSet)).
		Int("errors", len(res.Errors)).
		Int("warnings", len(res.Warnings)).
		Msg("Parsed filter")
	return res
}

// ParseString splits source into lines and parses it.
func ParseString(source string) Result {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return Parse(lines)
}

// appendClipped appends without writing into a backing array another State may share.
func appendClipped[T any](s []T, v ...T) []T {
	return append(s[:len(s):len(s)], v...)
}
