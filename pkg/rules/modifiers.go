// lootfilter/pkg/rules/modifiers.go

package rules

import (
	"fmt"

	"rgehrsitz/lootfilter/pkg/item"
)

// Modifier is a presentation action applied to an item when its rule matches.
type Modifier interface {
	Keyword() string
	ApplyTo(it *item.Item)
	String() string
}

type ColorTarget int

const (
	TextColor ColorTarget = iota
	BorderColor
	BackgroundColor
)

var colorKeywords = map[ColorTarget]string{
	TextColor:       "SetTextColor",
	BorderColor:     "SetBorderColor",
	BackgroundColor: "SetBackgroundColor",
}

type ColorModifier struct {
	Target ColorTarget
	Color  item.Color
}

func (m *ColorModifier) Keyword() string { return colorKeywords[m.Target] }

func (m *ColorModifier) ApplyTo(it *item.Item) {
	switch m.Target {
	case TextColor:
		it.SetTextColor(m.Color)
	case BorderColor:
		it.SetBorderColor(m.Color)
	case BackgroundColor:
		it.SetBackgroundColor(m.Color)
	}
}

func (m *ColorModifier) String() string {
	return fmt.Sprintf("%s %d %d %d %d", m.Keyword(), m.Color.R, m.Color.G, m.Color.B, m.Color.A)
}

type FontSizeModifier struct {
	Size int
}

func (m *FontSizeModifier) Keyword() string       { return "SetFontSize" }
func (m *FontSizeModifier) ApplyTo(it *item.Item) { it.SetFontSize(m.Size) }
func (m *FontSizeModifier) String() string        { return fmt.Sprintf("SetFontSize %d", m.Size) }

const DefaultVolume = 100

type AlertSoundModifier struct {
	SoundID    string
	Volume     int
	Positional bool
}

func (m *AlertSoundModifier) Keyword() string {
	if m.Positional {
		return "PlayAlertSoundPositional"
	}
	return "PlayAlertSound"
}

func (m *AlertSoundModifier) ApplyTo(it *item.Item) {
	it.SetAlertSound(item.AlertSound{ID: m.SoundID, Volume: m.Volume, Positional: m.Positional})
}

func (m *AlertSoundModifier) String() string {
	return fmt.Sprintf("%s %s %d", m.Keyword(), m.SoundID, m.Volume)
}

type DisableDropSoundModifier struct{}

func (m *DisableDropSoundModifier) Keyword() string       { return "DisableDropSound" }
func (m *DisableDropSoundModifier) ApplyTo(it *item.Item) { it.DisableDropSound() }
func (m *DisableDropSoundModifier) String() string        { return m.Keyword() }

type CustomAlertSoundModifier struct {
	Path string
}

func (m *CustomAlertSoundModifier) Keyword() string       { return "CustomAlertSound" }
func (m *CustomAlertSoundModifier) ApplyTo(it *item.Item) { it.SetCustomAlertSound(m.Path) }
func (m *CustomAlertSoundModifier) String() string {
	return fmt.Sprintf("CustomAlertSound %q", m.Path)
}

type MinimapIconModifier struct {
	Size  int
	Color string
	Shape string
}

func (m *MinimapIconModifier) Keyword() string { return "MinimapIcon" }
func (m *MinimapIconModifier) ApplyTo(it *item.Item) {
	it.SetMapIcon(m.Size, m.Color, m.Shape)
}
func (m *MinimapIconModifier) String() string {
	return fmt.Sprintf("MinimapIcon %d %s %s", m.Size, m.Color, m.Shape)
}

type PlayEffectModifier struct {
	Color     string
	Temporary bool
}

func (m *PlayEffectModifier) Keyword() string       { return "PlayEffect" }
func (m *PlayEffectModifier) ApplyTo(it *item.Item) { it.SetBeam(m.Color, m.Temporary) }
func (m *PlayEffectModifier) String() string {
	if m.Temporary {
		return fmt.Sprintf("PlayEffect %s Temp", m.Color)
	}
	return "PlayEffect " + m.Color
}

// IsAlertSound reports whether m plays an alert sound when the item drops.
func IsAlertSound(m Modifier) bool {
	_, ok := m.(*AlertSoundModifier)
	return ok
}
