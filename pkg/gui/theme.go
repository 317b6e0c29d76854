package gui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// Terminal safe color palette is available here
// https://upload.wikimedia.org/wikipedia/commons/1/15/Xterm_256color_chart.svg

var ErrNoTheme = errors.New("theme: no theme found")

// Theme colors the board and the status line.
type Theme struct {
	Name        string      `json:"name"`
	SquareDark  tcell.Color `json:"squareDark"`
	SquareLight tcell.Color `json:"squareLight"`
	SquareHigh  tcell.Color `json:"squareHigh"`
	SquareHint  tcell.Color `json:"squareHint"`
	SquareCheck tcell.Color `json:"squareCheck"`
	White       tcell.Color `json:"white"`
	Black       tcell.Color `json:"black"`
	Rank        tcell.Color `json:"rank"`
	File        tcell.Color `json:"file"`
	Status      tcell.Color `json:"status"`
}

// ThemeHex is a Theme with colors written as hex strings.
type ThemeHex struct {
	Name        string `json:"name"`
	SquareDark  string `json:"squareDark"`
	SquareLight string `json:"squareLight"`
	SquareHigh  string `json:"squareHigh"`
	SquareHint  string `json:"squareHint"`
	SquareCheck string `json:"squareCheck"`
	White       string `json:"white"`
	Black       string `json:"black"`
	Rank        string `json:"rank"`
	File        string `json:"file"`
	Status      string `json:"status"`
}

// fmtHex returns "#0" for ColorDefault so that it survives a round trip
// instead of turning into black.
func fmtHex(v int32) string {
	if v == -1 {
		return "#0"
	}
	return fmt.Sprintf("#%06x", v)
}

func (t Theme) Hex() ThemeHex {
	return ThemeHex{
		Name:        t.Name,
		SquareDark:  fmtHex(t.SquareDark.Hex()),
		SquareLight: fmtHex(t.SquareLight.Hex()),
		SquareHigh:  fmtHex(t.SquareHigh.Hex()),
		SquareHint:  fmtHex(t.SquareHint.Hex()),
		SquareCheck: fmtHex(t.SquareCheck.Hex()),
		White:       fmtHex(t.White.Hex()),
		Black:       fmtHex(t.Black.Hex()),
		Rank:        fmtHex(t.Rank.Hex()),
		File:        fmtHex(t.File.Hex()),
		Status:      fmtHex(t.Status.Hex()),
	}
}

func (t ThemeHex) Theme() Theme {
	return Theme{
		Name:        t.Name,
		SquareDark:  tcell.GetColor(t.SquareDark),
		SquareLight: tcell.GetColor(t.SquareLight),
		SquareHigh:  tcell.GetColor(t.SquareHigh),
		SquareHint:  tcell.GetColor(t.SquareHint),
		SquareCheck: tcell.GetColor(t.SquareCheck),
		White:       tcell.GetColor(t.White),
		Black:       tcell.GetColor(t.Black),
		Rank:        tcell.GetColor(t.Rank),
		File:        tcell.GetColor(t.File),
		Status:      tcell.GetColor(t.Status),
	}
}

// ImportThemes returns the theme called want from themes.
func ImportThemes(want string, themes []ThemeHex) (Theme, error) {
	for _, t := range themes {
		if t.Name == want {
			return t.Theme(), nil
		}
	}
	return Theme{}, errors.Wrap(ErrNoTheme, want)
}

// ThemeByName looks up one of the built-in themes.
func ThemeByName(name string) (Theme, error) {
	for _, t := range Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, errors.Wrap(ErrNoTheme, name)
}

// LoadThemes reads a JSON array of ThemeHex.
func LoadThemes(path string) ([]ThemeHex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "theme: read")
	}
	var themes []ThemeHex
	if err := json.Unmarshal(data, &themes); err != nil {
		return nil, errors.Wrapf(err, "theme: parse %s", path)
	}
	return themes, nil
}

// ResolveTheme picks name from the themes in path, falling back to the
// built-in themes when path is empty.
func ResolveTheme(name, path string) (Theme, error) {
	if path == "" {
		return ThemeByName(name)
	}
	themes, err := LoadThemes(path)
	if err != nil {
		return Theme{}, err
	}
	return ImportThemes(name, themes)
}

// ThemeBasic is the default theme
var ThemeBasic = Theme{
	Name:        "basic",
	SquareDark:  tcell.Color188,
	SquareLight: tcell.Color230,
	SquareHigh:  tcell.Color226,
	SquareHint:  tcell.Color223,
	SquareCheck: tcell.Color218,
	White:       tcell.Color166,
	Black:       tcell.Color232,
	Rank:        tcell.Color247,
	File:        tcell.Color247,
	Status:      tcell.Color160,
}

// ThemeClassic uses the blue and green board of the first prototype.
var ThemeClassic = Theme{
	Name:        "classic",
	SquareDark:  tcell.ColorGreen,
	SquareLight: tcell.ColorBlue,
	SquareHigh:  tcell.ColorRed,
	SquareHint:  tcell.ColorTeal,
	SquareCheck: tcell.ColorFuchsia,
	White:       tcell.ColorWhite,
	Black:       tcell.ColorBlack,
	Rank:        tcell.ColorDefault,
	File:        tcell.ColorDefault,
	Status:      tcell.ColorDefault,
}

var ThemeDark = Theme{
	Name:        "dark",
	SquareDark:  tcell.Color94,
	SquareLight: tcell.Color180,
	SquareHigh:  tcell.Color72,
	SquareHint:  tcell.Color108,
	SquareCheck: tcell.Color124,
	White:       tcell.Color231,
	Black:       tcell.Color16,
	Rank:        tcell.Color244,
	File:        tcell.Color244,
	Status:      tcell.Color214,
}

var Themes = []Theme{ThemeBasic, ThemeClassic, ThemeDark}
