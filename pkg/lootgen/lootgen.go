// lootfilter/pkg/lootgen/lootgen.go

// Package lootgen produces random but valid items and filter documents for load
// tests, benchmarks and fuzz corpora.
package lootgen

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"rgehrsitz/lootfilter/pkg/item"
)

type baseType struct {
	class         string
	name          string
	width, height int
	stackable     bool
}

var baseTypes = []baseType{
	{"Currency", "Chaos Orb", 1, 1, true},
	{"Currency", "Exalted Orb", 1, 1, true},
	{"Currency", "Orb of Alchemy", 1, 1, true},
	{"Currency", "Orb of Fusing", 1, 1, true},
	{"Divination Card", "The Doctor", 1, 1, true},
	{"Maps", "Strand Map", 1, 1, false},
	{"Helmets", "Hubris Circlet", 2, 2, false},
	{"Body Armours", "Vaal Regalia", 2, 3, false},
	{"Body Armours", "Astral Plate", 2, 3, false},
	{"Two Hand Swords", "Reaver Sword", 2, 4, false},
	{"Bows", "Thicket Bow", 2, 4, false},
	{"Rings", "Diamond Ring", 1, 1, false},
	{"Amulets", "Onyx Amulet", 1, 1, false},
	{"Belts", "Leather Belt", 2, 1, false},
	{"Active Skill Gems", "Fireball", 1, 1, false},
	{"Quest Items", "Ancient Orb", 1, 1, false},
}

var (
	Influences   = []string{"Shaper", "Elder", "Crusader", "Hunter", "Redeemer", "Warlord"}
	socketColors = []string{"R", "G", "B", "R", "G", "B", "W"}
	explicitMods = []string{
		"+80 to maximum Life", "Adds 10 to 20 Fire Damage", "+40% to Cold Resistance",
		"10% increased Attack Speed", "+1 to Level of Socketed Gems",
	}
)

// Item returns a random item that passes validation.
func Item(f *gofakeit.Faker) item.Item {
	bt := baseTypes[f.IntRange(0, len(baseTypes)-1)]
	ilvl := f.IntRange(1, 100)
	it := item.Item{
		ID:         f.UUID(),
		ItemLevel:  ilvl,
		DropLevel:  f.IntRange(1, ilvl),
		ItemClass:  bt.class,
		BaseType:   bt.name,
		Width:      bt.width,
		Height:     bt.height,
		Identified: f.Bool(),
		Corrupted:  f.Float32Range(0, 1) < 0.1,
	}

	switch {
	case bt.stackable:
		it.Name = bt.name
		it.StackSize = f.IntRange(1, 20)
	case bt.class == "Active Skill Gems":
		it.Name = bt.name
		it.GemLevel = f.IntRange(1, 20)
		it.Quality = f.IntRange(0, 20)
	case bt.class == "Quest Items":
		it.Name = bt.name
	default:
		it.Rarity = item.Rarity(f.IntRange(int(item.Normal), int(item.Unique)))
		it.Quality = f.IntRange(0, 20)
		it.Name = bt.name
		if it.Rarity >= item.Rare {
			it.Name = fmt.Sprintf("%s %s", capitalize(f.Adjective()), capitalize(f.Noun()))
		}
		if it.Rarity > item.Normal {
			for i := f.IntRange(1, 3); i > 0; i-- {
				it.ExplicitMods = append(it.ExplicitMods, explicitMods[f.IntRange(0, len(explicitMods)-1)])
			}
		}
		if f.Float32Range(0, 1) < 0.2 {
			it.Influence = []string{Influences[f.IntRange(0, len(Influences)-1)]}
		}
		if bt.class == "Maps" {
			it.MapTier = f.IntRange(1, 16)
			it.ShapedMap = f.Float32Range(0, 1) < 0.1
			it.BlightedMap = f.Float32Range(0, 1) < 0.1
		} else {
			it.Sockets = sockets(f, min(6, bt.width*bt.height))
		}
	}

	it.ResetPresentation()
	return it
}

// Items returns n random items.
func Items(f *gofakeit.Faker, n int) []item.Item {
	items := make([]item.Item, n)
	for i := range items {
		items[i] = Item(f)
	}
	return items
}

func sockets(f *gofakeit.Faker, limit int) []string {
	total := f.IntRange(0, limit)
	var groups []string
	for total > 0 {
		size := f.IntRange(1, total)
		groups = append(groups, socketGroup(f, size))
		total -= size
	}
	return groups
}

func socketGroup(f *gofakeit.Faker, size int) string {
	var sb strings.Builder
	for i := 0; i < size; i++ {
		sb.WriteString(socketColors[f.IntRange(0, len(socketColors)-1)])
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
