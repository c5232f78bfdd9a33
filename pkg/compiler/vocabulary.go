// lootfilter/pkg/compiler/vocabulary.go

package compiler

import (
	"strings"

	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/rules"
)

var (
	SoundNames = []string{"ShAlchemy", "ShBlessed", "ShChaos", "ShDivine", "ShExalted", "ShFusing", "ShGeneral", "ShMirror", "ShRegal", "ShVaal"}
	IconShapes = []string{"Circle", "Diamond", "Hexagon", "Square", "Star", "Triangle", "Kite", "Pentagon", "UpsideDownHouse", "Raindrop", "Moon", "Cross"}
	BoolLabels = []string{"True", "False"}
)

// KeywordClass groups keywords by the kind of line they start.
type KeywordClass int

const (
	ClassVisibility KeywordClass = iota
	ClassFilter
	ClassModifier
	ClassMeta
)

func (c KeywordClass) String() string {
	switch c {
	case ClassVisibility:
		return "visibility"
	case ClassFilter:
		return "filter"
	case ClassModifier:
		return "modifier"
	case ClassMeta:
		return "meta"
	}
	return "unknown"
}

// ArgKind is the kind of token a keyword expects at one argument position.
type ArgKind int

const (
	ArgOperator ArgKind = iota
	ArgNumber
	ArgEnum
	ArgBool
	ArgString
	ArgSocketGroup
	ArgInfluence
	ArgColorChannel
	ArgSoundID
	ArgVolume
	ArgIconSize
	ArgColorName
	ArgIconShape
	ArgTemp
	ArgPath
)

var argKindNames = map[ArgKind]string{
	ArgOperator:     "operator",
	ArgNumber:       "number",
	ArgEnum:         "enum",
	ArgBool:         "bool",
	ArgString:       "string",
	ArgSocketGroup:  "socket-group",
	ArgInfluence:    "influence",
	ArgColorChannel: "0-255",
	ArgSoundID:      "sound",
	ArgVolume:       "volume",
	ArgIconSize:     "size",
	ArgColorName:    "color",
	ArgIconShape:    "shape",
	ArgTemp:         "Temp",
	ArgPath:         "path",
}

func (k ArgKind) String() string {
	if name, ok := argKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ArgSpec describes one argument position of a keyword.
type ArgSpec struct {
	Kind       ArgKind
	Optional   bool
	Repeated   bool
	Vocabulary []string
}

func (a ArgSpec) String() string {
	s := "<" + a.Kind.String() + ">"
	if len(a.Vocabulary) > 0 && len(a.Vocabulary) <= 4 {
		s = "<" + strings.Join(a.Vocabulary, "|") + ">"
	}
	if a.Repeated {
		s += "..."
	}
	if a.Optional {
		s = "[" + s + "]"
	}
	return s
}

type filterGrammar func(p *lineParser, args string) rules.Filter

type modifierGrammar func(p *lineParser, args string) rules.Modifier

// Keyword is one entry of the grammar table. The table is shared by the parser
// and anything else that needs the language's vocabulary, such as a highlighter.
type Keyword struct {
	Name  string
	Class KeywordClass
	Args  []ArgSpec

	filter   filterGrammar
	modifier modifierGrammar
}

// Usage renders the keyword with its argument grammar.
func (k *Keyword) Usage() string {
	parts := []string{k.Name}
	for _, a := range k.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

var (
	optOperator = ArgSpec{Kind: ArgOperator, Optional: true}
	numberArgs  = []ArgSpec{optOperator, {Kind: ArgNumber}}
	stringArgs  = []ArgSpec{optOperator, {Kind: ArgString, Repeated: true}}
	boolArgs    = []ArgSpec{{Kind: ArgBool, Vocabulary: BoolLabels}}
	colorArgs   = []ArgSpec{{Kind: ArgColorChannel}, {Kind: ArgColorChannel}, {Kind: ArgColorChannel}, {Kind: ArgColorChannel, Optional: true}}
	soundArgs   = []ArgSpec{{Kind: ArgSoundID, Vocabulary: SoundNames}, {Kind: ArgVolume, Optional: true}}
)

func numericKeyword(prop rules.Property) *Keyword {
	return &Keyword{Name: string(prop), Class: ClassFilter, Args: numberArgs, filter: numericGrammar(prop)}
}

func boolKeyword(prop rules.Property) *Keyword {
	return &Keyword{Name: string(prop), Class: ClassFilter, Args: boolArgs, filter: boolGrammar(prop)}
}

func stringKeyword(prop rules.Property) *Keyword {
	return &Keyword{Name: string(prop), Class: ClassFilter, Args: stringArgs, filter: multiStringGrammar(prop)}
}

func colorKeyword(name string, target rules.ColorTarget) *Keyword {
	return &Keyword{Name: name, Class: ClassModifier, Args: colorArgs, modifier: colorGrammar(target)}
}

func soundKeyword(name string, positional bool) *Keyword {
	return &Keyword{Name: name, Class: ClassModifier, Args: soundArgs, modifier: alertSoundGrammar(positional)}
}

// keywordList is the grammar table in documentation order.
var keywordList = []*Keyword{
	{Name: "Show", Class: ClassVisibility},
	{Name: "Hide", Class: ClassVisibility},

	numericKeyword(rules.ItemLevel),
	numericKeyword(rules.DropLevel),
	numericKeyword(rules.AreaLevel),
	numericKeyword(rules.Quality),
	{
		Name:   string(rules.Rarity),
		Class:  ClassFilter,
		Args:   []ArgSpec{optOperator, {Kind: ArgEnum, Repeated: true, Vocabulary: item.RarityNames}},
		filter: enumGrammar(rules.Rarity, item.RarityNames, "rarity"),
	},
	stringKeyword(rules.Class),
	stringKeyword(rules.BaseType),
	numericKeyword(rules.Sockets),
	numericKeyword(rules.LinkedSockets),
	{Name: string(rules.SocketGroup), Class: ClassFilter, Args: []ArgSpec{{Kind: ArgSocketGroup, Repeated: true}}, filter: socketGroupGrammar},
	numericKeyword(rules.Width),
	numericKeyword(rules.Height),
	boolKeyword(rules.Identified),
	boolKeyword(rules.Corrupted),
	boolKeyword(rules.ElderItem),
	boolKeyword(rules.ShaperItem),
	{
		Name:   string(rules.HasInfluence),
		Class:  ClassFilter,
		Args:   []ArgSpec{{Kind: ArgOperator, Optional: true, Vocabulary: []string{"=="}}, {Kind: ArgInfluence, Repeated: true}},
		filter: influenceGrammar,
	},
	boolKeyword(rules.ShapedMap),
	stringKeyword(rules.HasExplicitMod),
	numericKeyword(rules.MapTier),
	numericKeyword(rules.GemLevel),
	numericKeyword(rules.StackSize),
	stringKeyword(rules.Prophecy),
	boolKeyword(rules.FracturedItem),
	boolKeyword(rules.SynthesisedItem),
	boolKeyword(rules.AnyEnchantment),
	stringKeyword(rules.HasEnchantment),
	boolKeyword(rules.BlightedMap),
	boolKeyword(rules.Replica),

	colorKeyword("SetBackgroundColor", rules.BackgroundColor),
	colorKeyword("SetBorderColor", rules.BorderColor),
	colorKeyword("SetTextColor", rules.TextColor),
	soundKeyword("PlayAlertSound", false),
	soundKeyword("PlayAlertSoundPositional", true),
	{Name: "SetFontSize", Class: ClassModifier, Args: []ArgSpec{{Kind: ArgNumber}}, modifier: fontSizeGrammar},
	{Name: "DisableDropSound", Class: ClassModifier, modifier: disableDropSoundGrammar},
	{Name: "CustomAlertSound", Class: ClassModifier, Args: []ArgSpec{{Kind: ArgPath}}, modifier: customAlertSoundGrammar},
	{
		Name:  "MinimapIcon",
		Class: ClassModifier,
		Args: []ArgSpec{
			{Kind: ArgIconSize, Vocabulary: []string{"0", "1", "2"}},
			{Kind: ArgColorName, Vocabulary: item.ColorNames},
			{Kind: ArgIconShape, Vocabulary: IconShapes},
		},
		modifier: minimapIconGrammar,
	},
	{
		Name:     "PlayEffect",
		Class:    ClassModifier,
		Args:     []ArgSpec{{Kind: ArgColorName, Vocabulary: item.ColorNames}, {Kind: ArgTemp, Optional: true, Vocabulary: []string{"Temp"}}},
		modifier: playEffectGrammar,
	},

	{Name: "Continue", Class: ClassMeta},
}

var keywords = func() map[string]*Keyword {
	m := make(map[string]*Keyword, len(keywordList))
	for _, k := range keywordList {
		m[k.Name] = k
	}
	return m
}()

// Keywords returns the grammar table in documentation order.
func Keywords() []*Keyword {
	out := make([]*Keyword, len(keywordList))
	copy(out, keywordList)
	return out
}

func LookupKeyword(name string) (*Keyword, bool) {
	k, ok := keywords[name]
	return k, ok
}

// KeywordsOf lists the keyword names of one class.
func KeywordsOf(class KeywordClass) []string {
	var names []string
	for _, k := range keywordList {
		if k.Class == class {
			names = append(names, k.Name)
		}
	}
	return names
}

func indexOf(vocabulary []string, token string) int {
	for i, v := range vocabulary {
		if v == token {
			return i
		}
	}
	return -1
}
