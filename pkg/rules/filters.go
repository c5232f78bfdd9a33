// lootfilter/pkg/rules/filters.go

package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	ac "github.com/petar-dambovaliev/aho-corasick"

	"rgehrsitz/lootfilter/pkg/item"
)

// Filter is a predicate over one item attribute. Filters are validated when they
// are built and never change afterwards.
type Filter interface {
	Property() Property
	Match(it *item.Item) bool
	String() string
}

// ---------------------------------------------------------------- numeric

type NumericFilter struct {
	prop     Property
	accessor numericAccessor
	Op       Operator
	Values   []int
}

func NewNumericFilter(prop Property, op Operator, values ...int) (*NumericFilter, error) {
	acc, ok := numericProps[prop]
	if !ok {
		return nil, fmt.Errorf("%s is not a numeric property", prop)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s needs at least one value", prop)
	}
	return &NumericFilter{prop: prop, accessor: acc, Op: op, Values: values}, nil
}

func (f *NumericFilter) Property() Property { return f.prop }

func (f *NumericFilter) Match(it *item.Item) bool {
	actual := f.accessor.get(it)
	if f.accessor.absentIsZero && actual == 0 {
		return false
	}
	return compare(f.Op, actual, f.Values)
}

func (f *NumericFilter) String() string {
	return fmt.Sprintf("%s %s %s", f.prop, f.Op.Symbol, joinInts(f.Values))
}

// ---------------------------------------------------------------- enum

// EnumFilter compares an attribute by its position in an ordered vocabulary, so
// ordering operators work on labels such as rarities.
type EnumFilter struct {
	prop       Property
	get        func(it *item.Item) interface{}
	Vocabulary []string
	Op         Operator
	Values     []int
}

func NewEnumFilter(prop Property, vocabulary []string, op Operator, values ...int) (*EnumFilter, error) {
	get, ok := enumProps[prop]
	if !ok {
		return nil, fmt.Errorf("%s is not an enum property", prop)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s needs at least one value", prop)
	}
	for _, v := range values {
		if v < 0 || v >= len(vocabulary) {
			return nil, fmt.Errorf("%s value %d outside vocabulary", prop, v)
		}
	}
	return &EnumFilter{prop: prop, get: get, Vocabulary: vocabulary, Op: op, Values: values}, nil
}

func (f *EnumFilter) Property() Property { return f.prop }

func (f *EnumFilter) Match(it *item.Item) bool {
	return compare(f.Op, f.index(f.get(it)), f.Values)
}

// index resolves an item value to a vocabulary position, -1 when unknown.
func (f *EnumFilter) index(v interface{}) int {
	switch x := v.(type) {
	case int:
		return x
	case item.Rarity:
		return int(x)
	case string:
		for i, label := range f.Vocabulary {
			if label == x {
				return i
			}
		}
	}
	return -1
}

func (f *EnumFilter) String() string {
	labels := make([]string, len(f.Values))
	for i, v := range f.Values {
		labels[i] = f.Vocabulary[v]
	}
	return fmt.Sprintf("%s %s %s", f.prop, f.Op.Symbol, strings.Join(labels, " "))
}

// ---------------------------------------------------------------- boolean

type BooleanFilter struct {
	prop  Property
	get   func(it *item.Item) bool
	Value bool
}

func NewBooleanFilter(prop Property, value bool) (Filter, error) {
	if tag, ok := fixedInfluence[prop]; ok {
		return &FixedInfluenceFilter{prop: prop, Influence: InfluenceFilter{Mode: InfluenceAny, Tags: []string{tag}}, Value: value}, nil
	}
	get, ok := boolProps[prop]
	if !ok {
		return nil, fmt.Errorf("%s is not a boolean property", prop)
	}
	return &BooleanFilter{prop: prop, get: get, Value: value}, nil
}

func (f *BooleanFilter) Property() Property { return f.prop }

func (f *BooleanFilter) Match(it *item.Item) bool {
	return f.get(it) == f.Value
}

func (f *BooleanFilter) String() string {
	return fmt.Sprintf("%s %s", f.prop, boolLabel(f.Value))
}

// ---------------------------------------------------------------- multi-string

type StringMode int

const (
	// Contains matches when any value is a substring of the attribute.
	Contains StringMode = iota
	// Exact matches when any value equals the attribute.
	Exact
	// NotContains matches when no value is a substring of the attribute.
	NotContains
)

func (m StringMode) symbol() string {
	switch m {
	case Exact:
		return "=="
	case NotContains:
		return "!="
	default:
		return "="
	}
}

// MultiStringFilter tests string attributes against a list of values. Substring
// search goes through one Aho-Corasick automaton built over all values.
type MultiStringFilter struct {
	prop     Property
	accessor stringAccessor
	Mode     StringMode
	Values   []string

	mu        sync.Mutex
	automaton ac.AhoCorasick
}

func NewMultiStringFilter(prop Property, mode StringMode, values ...string) (*MultiStringFilter, error) {
	acc, ok := stringProps[prop]
	if !ok {
		return nil, fmt.Errorf("%s is not a string property", prop)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s needs at least one string", prop)
	}
	builder := ac.NewAhoCorasickBuilder(ac.Opts{
		AsciiCaseInsensitive: acc.caseInsensitive,
		MatchKind:            ac.LeftMostLongestMatch,
	})
	return &MultiStringFilter{
		prop:      prop,
		accessor:  acc,
		Mode:      mode,
		Values:    values,
		automaton: builder.Build(values),
	}, nil
}

func (f *MultiStringFilter) Property() Property { return f.prop }

func (f *MultiStringFilter) Match(it *item.Item) bool {
	texts := f.accessor.get(it)
	if texts == nil && f.accessor.absentFails {
		return false
	}
	switch f.Mode {
	case Exact:
		for _, text := range texts {
			if f.equalsAny(text) {
				return true
			}
		}
		return false
	case NotContains:
		return !f.containsAny(texts)
	default:
		return f.containsAny(texts)
	}
}

func (f *MultiStringFilter) containsAny(texts []string) bool {
	if len(texts) == 0 {
		return false
	}
	// FindAll is not documented as safe for concurrent use.
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, text := range texts {
		if len(f.automaton.FindAll(text)) > 0 {
			return true
		}
	}
	return false
}

func (f *MultiStringFilter) equalsAny(text string) bool {
	for _, v := range f.Values {
		if v == text || (f.accessor.caseInsensitive && strings.EqualFold(v, text)) {
			return true
		}
	}
	return false
}

func (f *MultiStringFilter) String() string {
	quoted := make([]string, len(f.Values))
	for i, v := range f.Values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%s %s %s", f.prop, f.Mode.symbol(), strings.Join(quoted, " "))
}

// ---------------------------------------------------------------- sockets

// SocketCounts is the number of sockets of each color in a group.
type SocketCounts map[rune]int

func CountSockets(group string) SocketCounts {
	counts := SocketCounts{}
	for _, c := range group {
		counts[c]++
	}
	return counts
}

// Covers reports whether c has at least as many sockets of every color as required.
func (c SocketCounts) Covers(required SocketCounts) bool {
	for color, n := range required {
		if c[color] < n {
			return false
		}
	}
	return true
}

// CanonicalSocketGroup upper-cases a group and sorts its sockets.
func CanonicalSocketGroup(group string) string {
	chars := []rune(strings.ToUpper(group))
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return string(chars)
}

type SocketGroupFilter struct {
	Groups []string
	counts []SocketCounts
}

func NewSocketGroupFilter(groups ...string) (*SocketGroupFilter, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%s needs at least one group", SocketGroup)
	}
	f := &SocketGroupFilter{}
	for _, g := range groups {
		canonical := CanonicalSocketGroup(g)
		f.Groups = append(f.Groups, canonical)
		f.counts = append(f.counts, CountSockets(canonical))
	}
	return f, nil
}

func (f *SocketGroupFilter) Property() Property { return SocketGroup }

// Match holds when any linked group of the item has at least the sockets of any
// requested group. Extra sockets of other colors are fine.
func (f *SocketGroupFilter) Match(it *item.Item) bool {
	for _, group := range it.Sockets {
		have := CountSockets(strings.ToUpper(group))
		for _, want := range f.counts {
			if have.Covers(want) {
				return true
			}
		}
	}
	return false
}

func (f *SocketGroupFilter) String() string {
	return fmt.Sprintf("%s %s", SocketGroup, strings.Join(f.Groups, " "))
}

// ---------------------------------------------------------------- influence

type InfluenceMode int

const (
	InfluenceAny InfluenceMode = iota
	InfluenceAll
)

type InfluenceFilter struct {
	Mode InfluenceMode
	Tags []string
}

func NewInfluenceFilter(mode InfluenceMode, tags ...string) (*InfluenceFilter, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("%s needs at least one influence", HasInfluence)
	}
	return &InfluenceFilter{Mode: mode, Tags: tags}, nil
}

func (f *InfluenceFilter) Property() Property { return HasInfluence }

func (f *InfluenceFilter) Match(it *item.Item) bool {
	for _, tag := range f.Tags {
		has := it.HasInfluence(tag)
		if has && f.Mode == InfluenceAny {
			return true
		}
		if !has && f.Mode == InfluenceAll {
			return false
		}
	}
	return f.Mode == InfluenceAll
}

func (f *InfluenceFilter) String() string {
	if f.Mode == InfluenceAll {
		return fmt.Sprintf("%s == %s", HasInfluence, strings.Join(f.Tags, " "))
	}
	return fmt.Sprintf("%s %s", HasInfluence, strings.Join(f.Tags, " "))
}

// FixedInfluenceFilter is a boolean filter over a single influence tag
// (ElderItem, ShaperItem).
type FixedInfluenceFilter struct {
	prop      Property
	Influence InfluenceFilter
	Value     bool
}

func (f *FixedInfluenceFilter) Property() Property { return f.prop }

func (f *FixedInfluenceFilter) Match(it *item.Item) bool {
	return f.Influence.Match(it) == f.Value
}

func (f *FixedInfluenceFilter) String() string {
	return fmt.Sprintf("%s %s", f.prop, boolLabel(f.Value))
}

func boolLabel(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
