// lootfilter/pkg/compiler/index.go

package compiler

import (
	"sort"

	"rgehrsitz/lootfilter/pkg/rules"
)

// PropertyDependency lists the item properties one rule reads.
type PropertyDependency struct {
	Rule       int
	Properties []rules.Property
}

// GenerateIndices builds the property lookup index (property to the rules that
// test it, in rule order) and the per-rule dependency index.
func GenerateIndices(rs rules.RuleSet) (map[rules.Property][]int, []PropertyDependency) {
	propertyIndex := make(map[rules.Property][]int)
	dependencies := make([]PropertyDependency, len(rs))

	for i, r := range rs {
		props := collectProperties(r)
		dependencies[i] = PropertyDependency{Rule: i, Properties: props}
		for _, p := range props {
			propertyIndex[p] = append(propertyIndex[p], i)
		}
	}
	return propertyIndex, dependencies
}

// collectProperties returns the distinct properties of the rule's filters, sorted.
func collectProperties(r *rules.Rule) []rules.Property {
	seen := make(map[rules.Property]bool, len(r.Filters))
	var props []rules.Property
	for _, f := range r.Filters {
		if p := f.Property(); !seen[p] {
			seen[p] = true
			props = append(props, p)
		}
	}
	sort.Slice(props, func(i, j int) bool { return props[i] < props[j] })
	return props
}
