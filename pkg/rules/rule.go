// lootfilter/pkg/rules/rule.go

package rules

import (
	"fmt"

	"rgehrsitz/lootfilter/pkg/item"
)

// Rule is one Show/Hide block.
type Rule struct {
	Show      bool
	Filters   []Filter
	Modifiers []Modifier
	Continues bool
	// Lines holds the zero-based source lines that contributed to the rule.
	Lines []int
}

// Match is the conjunction of all filters. A rule without filters matches everything.
func (r *Rule) Match(it *item.Item) bool {
	for _, f := range r.Filters {
		if !f.Match(it) {
			return false
		}
	}
	return true
}

// ApplyTo sets the item's visibility and then runs the modifiers in order, so a
// later modifier of the same kind wins.
func (r *Rule) ApplyTo(it *item.Item) {
	it.SetVisibility(r.Show)
	for _, m := range r.Modifiers {
		m.ApplyTo(it)
	}
}

// FirstLine is the zero-based line of the Show/Hide keyword, or -1.
func (r *Rule) FirstLine() int {
	if len(r.Lines) == 0 {
		return -1
	}
	return r.Lines[0]
}

func (r *Rule) AlertSoundCount() int {
	n := 0
	for _, m := range r.Modifiers {
		if IsAlertSound(m) {
			n++
		}
	}
	return n
}

func (r *Rule) String() string {
	visibility := "Hide"
	if r.Show {
		visibility = "Show"
	}
	return fmt.Sprintf("%s{filters=%d modifiers=%d continue=%t}", visibility, len(r.Filters), len(r.Modifiers), r.Continues)
}

// RuleSet is an ordered list of rules. Order decides which rule applies.
type RuleSet []*Rule

// Apply walks the rules in order and applies the first match. While the last
// applied rule continues, every later matching rule is applied on top. It returns
// the indices of the applied rules; nil means the item kept its default look.
func (rs RuleSet) Apply(it *item.Item) []int {
	var applied []int
	for i, r := range rs {
		if !r.Match(it) {
			continue
		}
		r.ApplyTo(it)
		applied = append(applied, i)
		if !r.Continues {
			break
		}
	}
	return applied
}

// FirstMatch returns the index of the first rule matching it, or -1.
func (rs RuleSet) FirstMatch(it *item.Item) int {
	for i, r := range rs {
		if r.Match(it) {
			return i
		}
	}
	return -1
}
