// lootfilter/pkg/lootgen/filter.go

package lootgen

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"rgehrsitz/lootfilter/pkg/item"
)

var (
	orderingOps = []string{"", "=", "<", "<=", ">", ">=", "!="}
	soundIDs    = []string{"1", "2", "8", "ShChaos", "ShExalted", "ShDivine"}
	iconShapes  = []string{"Circle", "Diamond", "Star", "Triangle", "Hexagon"}
)

type lineGen func(f *gofakeit.Faker) string

var filterLines = []lineGen{
	func(f *gofakeit.Faker) string { return numeric(f, "ItemLevel", 1, 100) },
	func(f *gofakeit.Faker) string { return numeric(f, "DropLevel", 1, 100) },
	func(f *gofakeit.Faker) string { return numeric(f, "Quality", 0, 20) },
	func(f *gofakeit.Faker) string { return numeric(f, "Sockets", 0, 6) },
	func(f *gofakeit.Faker) string { return numeric(f, "LinkedSockets", 0, 6) },
	func(f *gofakeit.Faker) string { return numeric(f, "Width", 1, 3) },
	func(f *gofakeit.Faker) string { return numeric(f, "MapTier", 1, 16) },
	func(f *gofakeit.Faker) string { return numeric(f, "StackSize", 1, 20) },
	func(f *gofakeit.Faker) string {
		op := orderingOps[f.IntRange(0, len(orderingOps)-1)]
		labels := pick(f, item.RarityNames, f.IntRange(1, 2))
		return strings.Join(strings.Fields("Rarity "+op+" "+strings.Join(labels, " ")), " ")
	},
	func(f *gofakeit.Faker) string {
		return "Class " + quoted(pick(f, classNames(), f.IntRange(1, 3)))
	},
	func(f *gofakeit.Faker) string {
		op := []string{"", "==", "!"}[f.IntRange(0, 2)]
		return strings.Join(strings.Fields("BaseType "+op), " ") + " " + quoted(pick(f, baseNames(), f.IntRange(1, 3)))
	},
	func(f *gofakeit.Faker) string {
		return "SocketGroup " + socketGroup(f, f.IntRange(1, 6))
	},
	func(f *gofakeit.Faker) string { return boolean(f, "Identified") },
	func(f *gofakeit.Faker) string { return boolean(f, "Corrupted") },
	func(f *gofakeit.Faker) string { return boolean(f, "ShaperItem") },
	func(f *gofakeit.Faker) string {
		return "HasInfluence " + strings.Join(pick(f, Influences, f.IntRange(1, 2)), " ")
	},
	func(f *gofakeit.Faker) string {
		return "HasExplicitMod " + quoted(pick(f, explicitMods, 1))
	},
}

var modifierLines = []lineGen{
	func(f *gofakeit.Faker) string { return "SetTextColor " + rgb(f) },
	func(f *gofakeit.Faker) string { return fmt.Sprintf("SetBorderColor %s %d", rgb(f), f.IntRange(0, 255)) },
	func(f *gofakeit.Faker) string { return "SetBackgroundColor " + rgb(f) },
	func(f *gofakeit.Faker) string { return fmt.Sprintf("SetFontSize %d", f.IntRange(18, 45)) },
	func(f *gofakeit.Faker) string {
		return fmt.Sprintf("PlayAlertSound %s %d", soundIDs[f.IntRange(0, len(soundIDs)-1)], f.IntRange(0, 300))
	},
	func(f *gofakeit.Faker) string {
		return fmt.Sprintf("MinimapIcon %d %s %s", f.IntRange(0, 2), colorName(f), iconShapes[f.IntRange(0, len(iconShapes)-1)])
	},
	func(f *gofakeit.Faker) string { return "PlayEffect " + colorName(f) },
	func(f *gofakeit.Faker) string { return "DisableDropSound" },
}

// Filter returns a filter document of n rules that parses without errors.
func Filter(f *gofakeit.Faker, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# generated filter, %d rules\n", n)
	for i := 0; i < n; i++ {
		sb.WriteString("\n")
		sb.WriteString(Rule(f))
	}
	return sb.String()
}

// Rule returns one Show or Hide block with its filter and modifier lines.
func Rule(f *gofakeit.Faker) string {
	var sb strings.Builder
	if f.Bool() {
		sb.WriteString("Show\n")
	} else {
		sb.WriteString("Hide\n")
	}
	for j := f.IntRange(1, 3); j > 0; j-- {
		sb.WriteString("    " + filterLines[f.IntRange(0, len(filterLines)-1)](f) + "\n")
	}
	for j := f.IntRange(0, 2); j > 0; j-- {
		sb.WriteString("    " + modifierLines[f.IntRange(0, len(modifierLines)-1)](f) + "\n")
	}
	if f.Float32Range(0, 1) < 0.15 {
		sb.WriteString("    Continue\n")
	}
	return sb.String()
}

func numeric(f *gofakeit.Faker, keyword string, lo, hi int) string {
	op := orderingOps[f.IntRange(0, len(orderingOps)-1)]
	return strings.Join(strings.Fields(fmt.Sprintf("%s %s %d", keyword, op, f.IntRange(lo, hi))), " ")
}

func boolean(f *gofakeit.Faker, keyword string) string {
	if f.Bool() {
		return keyword + " True"
	}
	return keyword + " False"
}

func rgb(f *gofakeit.Faker) string {
	return fmt.Sprintf("%d %d %d", f.IntRange(0, 255), f.IntRange(0, 255), f.IntRange(0, 255))
}

func colorName(f *gofakeit.Faker) string {
	return item.ColorNames[f.IntRange(0, len(item.ColorNames)-1)]
}

func quoted(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = `"` + v + `"`
	}
	return strings.Join(out, " ")
}

// pick returns n distinct entries of values in random order.
func pick(f *gofakeit.Faker, values []string, n int) []string {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	f.ShuffleInts(idx)
	if n > len(values) {
		n = len(values)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = values[idx[i]]
	}
	return out
}

func classNames() []string {
	seen := map[string]bool{}
	var out []string
	for _, bt := range baseTypes {
		if !seen[bt.class] {
			seen[bt.class] = true
			out = append(out, bt.class)
		}
	}
	return out
}

func baseNames() []string {
	out := make([]string, len(baseTypes))
	for i, bt := range baseTypes {
		out[i] = bt.name
	}
	return out
}
