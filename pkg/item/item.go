// lootfilter/pkg/item/item.go

package item

import (
	"fmt"
	"strconv"
	"strings"
)

// Rarity is ordered: Normal < Magic < Rare < Unique.
type Rarity int

const (
	Normal Rarity = iota
	Magic
	Rare
	Unique
)

// RarityNames holds the rarity labels in ordinal order.
var RarityNames = []string{"Normal", "Magic", "Rare", "Unique"}

func (r Rarity) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
	return RarityNames[r]
}

func (r Rarity) Valid() bool {
	return r >= Normal && r <= Unique
}

// ParseRarity accepts a rarity label in any case, or its ordinal.
func ParseRarity(s string) (Rarity, error) {
	for i, name := range RarityNames {
		if strings.EqualFold(name, s) {
			return Rarity(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Rarity(n).Valid() {
		return Rarity(n), nil
	}
	return Normal, fmt.Errorf("invalid rarity: %q", s)
}

func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rarity: %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Item is a single drop as seen by the filter. Everything except Presentation is
// read-only while rules are evaluated.
type Item struct {
	ID              string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name            string   `json:"name" yaml:"name" validate:"required"`
	ItemLevel       int      `json:"itemLevel" yaml:"itemLevel" validate:"min=1,max=100"`
	DropLevel       int      `json:"dropLevel" yaml:"dropLevel" validate:"min=1,max=100"`
	AreaLevel       int      `json:"areaLevel,omitempty" yaml:"areaLevel,omitempty" validate:"min=0,max=100"`
	Quality         int      `json:"quality" yaml:"quality" validate:"min=0,max=20"`
	Rarity          Rarity   `json:"rarity" yaml:"rarity" validate:"min=0,max=3"`
	ItemClass       string   `json:"itemClass" yaml:"itemClass" validate:"required"`
	BaseType        string   `json:"baseType" yaml:"baseType" validate:"required"`
	Width           int      `json:"width" yaml:"width" validate:"min=1,max=3"`
	Height          int      `json:"height" yaml:"height" validate:"min=1,max=5"`
	Identified      bool     `json:"identified" yaml:"identified"`
	Corrupted       bool     `json:"corrupted" yaml:"corrupted"`
	FracturedItem   bool     `json:"fracturedItem" yaml:"fracturedItem"`
	SynthesisedItem bool     `json:"synthesisedItem" yaml:"synthesisedItem"`
	Replica         bool     `json:"replica" yaml:"replica"`
	Influence       []string `json:"influence" yaml:"influence"`
	Enchantment     string   `json:"enchantment" yaml:"enchantment"`
	ShapedMap       bool     `json:"shapedMap" yaml:"shapedMap"`
	BlightedMap     bool     `json:"blightedMap" yaml:"blightedMap"`
	MapTier         int      `json:"mapTier" yaml:"mapTier" validate:"min=0,max=20"`
	GemLevel        int      `json:"gemLevel" yaml:"gemLevel" validate:"min=0,max=23"`
	StackSize       int      `json:"stackSize" yaml:"stackSize" validate:"min=0"`
	ExplicitMods    []string `json:"explicitMods" yaml:"explicitMods"`
	Sockets         []string `json:"sockets" yaml:"sockets" validate:"dive,socketgroup"`

	Presentation Presentation `json:"-" yaml:"-"`
}

// NumSockets is the total number of sockets over all groups.
func (it *Item) NumSockets() int {
	n := 0
	for _, group := range it.Sockets {
		n += len(group)
	}
	return n
}

// LargestLinkedGroup is the size of the biggest socket group.
func (it *Item) LargestLinkedGroup() int {
	largest := 0
	for _, group := range it.Sockets {
		if len(group) > largest {
			largest = len(group)
		}
	}
	return largest
}

func (it *Item) HasInfluence(tag string) bool {
	for _, inf := range it.Influence {
		if strings.EqualFold(inf, tag) {
			return true
		}
	}
	return false
}

// DisplayName renders the label text shown for the item on the ground.
func (it *Item) DisplayName() string {
	var sb strings.Builder
	switch {
	case it.Replica:
		sb.WriteString("Replica ")
	case it.Quality > 0:
		sb.WriteString("Superior ")
	}
	sb.WriteString(it.Name)
	if it.StackSize > 1 {
		fmt.Fprintf(&sb, " (%d)", it.StackSize)
	}
	if it.Identified && it.BaseType != it.Name {
		sb.WriteString(" / ")
		sb.WriteString(it.BaseType)
	}
	return sb.String()
}
