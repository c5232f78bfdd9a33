// lootfilter/pkg/item/item_test.go

package item

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRarity(t *testing.T) {
	tests := []struct {
		input    string
		expected Rarity
		wantErr  bool
	}{
		{"Normal", Normal, false},
		{"magic", Magic, false},
		{"RARE", Rare, false},
		{"Unique", Unique, false},
		{"3", Unique, false},
		{"Legendary", Normal, true},
		{"7", Normal, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseRarity(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, r)
		})
	}
}

func TestRarityOrdering(t *testing.T) {
	assert.True(t, Normal < Magic)
	assert.True(t, Magic < Rare)
	assert.True(t, Rare < Unique)
	assert.Equal(t, "Rare", Rare.String())
	assert.Equal(t, "Rarity(9)", Rarity(9).String())
}

func TestDerivedSocketProperties(t *testing.T) {
	tests := []struct {
		name       string
		sockets    []string
		numSockets int
		largest    int
	}{
		{"No sockets", nil, 0, 0},
		{"Single group", []string{"RGB"}, 3, 3},
		{"Mixed groups", []string{"RG", "B", "WWW"}, 6, 3},
		{"All unlinked", []string{"R", "G", "B"}, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{Sockets: tt.sockets}
			assert.Equal(t, tt.numSockets, it.NumSockets())
			assert.Equal(t, tt.largest, it.LargestLinkedGroup())
		})
	}
}

func TestHasInfluence(t *testing.T) {
	it := Item{Influence: []string{"Shaper", "Crusader"}}
	assert.True(t, it.HasInfluence("shaper"))
	assert.True(t, it.HasInfluence("Crusader"))
	assert.False(t, it.HasInfluence("Elder"))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		expected string
	}{
		{
			name:     "Plain",
			item:     Item{Name: "Iron Ring", BaseType: "Iron Ring"},
			expected: "Iron Ring",
		},
		{
			name:     "Superior",
			item:     Item{Name: "Vaal Regalia", BaseType: "Vaal Regalia", Quality: 20},
			expected: "Superior Vaal Regalia",
		},
		{
			name:     "Replica wins over quality",
			item:     Item{Name: "Replica Headhunter", BaseType: "Leather Belt", Quality: 5, Replica: true},
			expected: "Replica Replica Headhunter",
		},
		{
			name:     "Stack",
			item:     Item{Name: "Chaos Orb", BaseType: "Chaos Orb", StackSize: 12},
			expected: "Chaos Orb (12)",
		},
		{
			name:     "Identified shows base type",
			item:     Item{Name: "Doom Song", BaseType: "Hubris Circlet", Identified: true},
			expected: "Doom Song / Hubris Circlet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.item.DisplayName())
		})
	}
}

func TestPresentationSetters(t *testing.T) {
	it := Item{ItemClass: "Currency"}
	it.ResetPresentation()
	assert.True(t, it.Presentation.Visible)

	it.SetVisibility(false)
	assert.False(t, it.Presentation.Visible)

	it.SetTextColor(RGB(255, 0, 0))
	require.NotNil(t, it.Presentation.TextColor)
	assert.Equal(t, Color{R: 255, A: 255}, *it.Presentation.TextColor)

	it.SetFontSize(10)
	assert.Equal(t, MinFontSize, it.Presentation.FontSize)
	it.SetFontSize(60)
	assert.Equal(t, MaxFontSize, it.Presentation.FontSize)
	it.SetFontSize(32)
	assert.Equal(t, 32, it.Presentation.FontSize)

	it.SetMapIcon(1, "Orange", "Star")
	require.NotNil(t, it.Presentation.MapIcon)
	assert.Equal(t, RGB(240, 140, 40), it.Presentation.MapIcon.RGB)

	it.SetBeam("Cyan", true)
	require.NotNil(t, it.Presentation.Beam)
	assert.Equal(t, RGB(100, 210, 210), it.Presentation.Beam.RGB)
	assert.True(t, it.Presentation.Beam.Temporary)

	it.ResetPresentation()
	assert.Nil(t, it.Presentation.TextColor)
	assert.Nil(t, it.Presentation.Beam)
	assert.Zero(t, it.Presentation.FontSize)
}

func TestQuestItemsAlwaysVisible(t *testing.T) {
	for _, class := range []string{"Quest Items", "Labyrinth Item", "Labyrinth Trinket"} {
		it := Item{ItemClass: class}
		it.SetVisibility(false)
		assert.True(t, it.Presentation.Visible, class)
	}
}

func TestNamedColor(t *testing.T) {
	for _, name := range ColorNames {
		_, ok := NamedColor(name)
		assert.True(t, ok, name)
	}
	_, ok := NamedColor("Magenta")
	assert.False(t, ok)
}

func TestLoadItems(t *testing.T) {
	doc := `
items:
  - name: Exalted Orb
    itemLevel: 70
    dropLevel: 35
    rarity: Normal
    itemClass: Currency
    baseType: Exalted Orb
    width: 1
    height: 1
    stackSize: 3
  - name: Kaom's Heart
    itemLevel: 75
    dropLevel: 68
    rarity: Unique
    itemClass: Body Armours
    baseType: Glorious Plate
    width: 2
    height: 3
    identified: true
    influence: [Elder]
    sockets: [RRR]
`
	items, err := LoadItems(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Exalted Orb", items[0].Name)
	assert.Equal(t, Normal, items[0].Rarity)
	assert.Equal(t, 3, items[0].StackSize)
	assert.True(t, items[0].Presentation.Visible)

	assert.Equal(t, Unique, items[1].Rarity)
	assert.Equal(t, []string{"Elder"}, items[1].Influence)
	assert.Equal(t, 3, items[1].NumSockets())
}

func TestLoadItemsRejectsUnknownFields(t *testing.T) {
	_, err := LoadItems(strings.NewReader("items:\n  - name: X\n    colour: red\n"))
	assert.Error(t, err)
}

func TestWriteItemsRoundTrip(t *testing.T) {
	items := []Item{{Name: "Chaos Orb", ItemLevel: 1, DropLevel: 1, Rarity: Normal, ItemClass: "Currency", BaseType: "Chaos Orb", Width: 1, Height: 1}}

	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, items))
	assert.Contains(t, buf.String(), "rarity: Normal")

	loaded, err := LoadItems(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Chaos Orb", loaded[0].Name)
}
