// lootfilter/pkg/rules/properties.go

package rules

import "rgehrsitz/lootfilter/pkg/item"

// Property names a filterable item attribute. Values match the filter keywords.
type Property string

const (
	ItemLevel       Property = "ItemLevel"
	DropLevel       Property = "DropLevel"
	AreaLevel       Property = "AreaLevel"
	Quality         Property = "Quality"
	Rarity          Property = "Rarity"
	Class           Property = "Class"
	BaseType        Property = "BaseType"
	Sockets         Property = "Sockets"
	LinkedSockets   Property = "LinkedSockets"
	SocketGroup     Property = "SocketGroup"
	Width           Property = "Width"
	Height          Property = "Height"
	Identified      Property = "Identified"
	Corrupted       Property = "Corrupted"
	ElderItem       Property = "ElderItem"
	ShaperItem      Property = "ShaperItem"
	HasInfluence    Property = "HasInfluence"
	ShapedMap       Property = "ShapedMap"
	HasExplicitMod  Property = "HasExplicitMod"
	MapTier         Property = "MapTier"
	GemLevel        Property = "GemLevel"
	StackSize       Property = "StackSize"
	Prophecy        Property = "Prophecy"
	FracturedItem   Property = "FracturedItem"
	SynthesisedItem Property = "SynthesisedItem"
	AnyEnchantment  Property = "AnyEnchantment"
	HasEnchantment  Property = "HasEnchantment"
	BlightedMap     Property = "BlightedMap"
	Replica         Property = "Replica"
)

type numericAccessor struct {
	get func(it *item.Item) int
	// absentIsZero marks attributes where 0 means the item has no such value;
	// such items never match.
	absentIsZero bool
}

var numericProps = map[Property]numericAccessor{
	ItemLevel:     {get: func(it *item.Item) int { return it.ItemLevel }},
	DropLevel:     {get: func(it *item.Item) int { return it.DropLevel }},
	AreaLevel:     {get: func(it *item.Item) int { return it.AreaLevel }},
	Quality:       {get: func(it *item.Item) int { return it.Quality }},
	Sockets:       {get: (*item.Item).NumSockets},
	LinkedSockets: {get: (*item.Item).LargestLinkedGroup},
	Width:         {get: func(it *item.Item) int { return it.Width }},
	Height:        {get: func(it *item.Item) int { return it.Height }},
	MapTier:       {get: func(it *item.Item) int { return it.MapTier }, absentIsZero: true},
	GemLevel:      {get: func(it *item.Item) int { return it.GemLevel }, absentIsZero: true},
	StackSize:     {get: func(it *item.Item) int { return it.StackSize }},
}

// enumProps resolve to either an ordinal or a label of the filter's vocabulary.
var enumProps = map[Property]func(it *item.Item) interface{}{
	Rarity: func(it *item.Item) interface{} { return it.Rarity },
}

var boolProps = map[Property]func(it *item.Item) bool{
	Identified:      func(it *item.Item) bool { return it.Identified },
	Corrupted:       func(it *item.Item) bool { return it.Corrupted },
	ShapedMap:       func(it *item.Item) bool { return it.ShapedMap },
	FracturedItem:   func(it *item.Item) bool { return it.FracturedItem },
	SynthesisedItem: func(it *item.Item) bool { return it.SynthesisedItem },
	AnyEnchantment:  func(it *item.Item) bool { return it.Enchantment != "" },
	BlightedMap:     func(it *item.Item) bool { return it.BlightedMap },
	Replica:         func(it *item.Item) bool { return it.Replica },
}

type stringAccessor struct {
	get             func(it *item.Item) []string
	caseInsensitive bool
	// absentFails makes a nil result fail every mode, negated ones included.
	absentFails bool
}

var stringProps = map[Property]stringAccessor{
	Class:          {get: func(it *item.Item) []string { return []string{it.ItemClass} }},
	BaseType:       {get: func(it *item.Item) []string { return []string{it.BaseType} }},
	HasExplicitMod: {get: func(it *item.Item) []string { return it.ExplicitMods }},
	Prophecy: {
		get: func(it *item.Item) []string {
			if it.BaseType != "Prophecy" {
				return nil
			}
			return []string{it.Name}
		},
		absentFails: true,
	},
	HasEnchantment: {
		get: func(it *item.Item) []string {
			if it.Enchantment == "" {
				return nil
			}
			return []string{it.Enchantment}
		},
		caseInsensitive: true,
	},
}

// fixedInfluence maps the legacy boolean influence filters to their tag.
var fixedInfluence = map[Property]string{
	ElderItem:  "Elder",
	ShaperItem: "Shaper",
}
