// lootfilter/pkg/item/presentation.go

package item

import "fmt"

const (
	MinFontSize = 18
	MaxFontSize = 45
)

// Item classes the game never hides.
var alwaysVisibleClasses = map[string]bool{
	"Quest Items":       true,
	"Labyrinth Item":    true,
	"Labyrinth Trinket": true,
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

// ColorNames lists the named colors accepted by MinimapIcon and PlayEffect.
var ColorNames = []string{"Red", "Green", "Blue", "Brown", "White", "Yellow", "Grey", "Pink", "Cyan", "Purple", "Orange"}

var palette = map[string]Color{
	"Red":    RGB(250, 120, 100),
	"Green":  RGB(140, 250, 120),
	"Blue":   RGB(130, 170, 250),
	"Brown":  RGB(200, 130, 80),
	"White":  RGB(250, 250, 250),
	"Yellow": RGB(220, 220, 100),
	"Grey":   RGB(180, 180, 180),
	"Pink":   RGB(230, 130, 190),
	"Cyan":   RGB(100, 210, 210),
	"Purple": RGB(140, 50, 200),
	"Orange": RGB(240, 140, 40),
}

// NamedColor resolves a palette color name.
func NamedColor(name string) (Color, bool) {
	c, ok := palette[name]
	return c, ok
}

type AlertSound struct {
	// ID is either a named sound (ShAlchemy...) or a number between 1 and 16.
	ID         string `json:"id"`
	Volume     int    `json:"volume"`
	Positional bool   `json:"positional,omitempty"`
}

type MapIcon struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
	Shape string `json:"shape"`
	RGB   Color  `json:"rgb"`
}

type Beam struct {
	Color     string `json:"color"`
	RGB       Color  `json:"rgb"`
	Temporary bool   `json:"temporary,omitempty"`
}

// Presentation is the outcome of applying rules to an item.
type Presentation struct {
	Visible           bool        `json:"visible"`
	TextColor         *Color      `json:"textColor,omitempty"`
	BorderColor       *Color      `json:"borderColor,omitempty"`
	BackgroundColor   *Color      `json:"backgroundColor,omitempty"`
	FontSize          int         `json:"fontSize,omitempty"`
	AlertSound        *AlertSound `json:"alertSound,omitempty"`
	CustomAlertSound  string      `json:"customAlertSound,omitempty"`
	DropSoundDisabled bool        `json:"dropSoundDisabled,omitempty"`
	MapIcon           *MapIcon    `json:"mapIcon,omitempty"`
	Beam              *Beam       `json:"beam,omitempty"`
}

// ResetPresentation restores the look of an item no rule has touched.
func (it *Item) ResetPresentation() {
	it.Presentation = Presentation{Visible: true}
}

func (it *Item) SetVisibility(visible bool) {
	if alwaysVisibleClasses[it.ItemClass] {
		visible = true
	}
	it.Presentation.Visible = visible
}

func (it *Item) SetTextColor(c Color) {
	it.Presentation.TextColor = &c
}

func (it *Item) SetBorderColor(c Color) {
	it.Presentation.BorderColor = &c
}

func (it *Item) SetBackgroundColor(c Color) {
	it.Presentation.BackgroundColor = &c
}

// SetFontSize clamps size into the range the game renders.
func (it *Item) SetFontSize(size int) {
	if size < MinFontSize {
		size = MinFontSize
	}
	if size > MaxFontSize {
		size = MaxFontSize
	}
	it.Presentation.FontSize = size
}

func (it *Item) SetAlertSound(s AlertSound) {
	it.Presentation.AlertSound = &s
}

func (it *Item) SetCustomAlertSound(path string) {
	it.Presentation.CustomAlertSound = path
}

func (it *Item) DisableDropSound() {
	it.Presentation.DropSoundDisabled = true
}

func (it *Item) SetMapIcon(size int, color, shape string) {
	rgb, _ := NamedColor(color)
	it.Presentation.MapIcon = &MapIcon{Size: size, Color: color, Shape: shape, RGB: rgb}
}

func (it *Item) SetBeam(color string, temporary bool) {
	rgb, _ := NamedColor(color)
	it.Presentation.Beam = &Beam{Color: color, RGB: rgb, Temporary: temporary}
}
