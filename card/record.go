package card

import (
	"fmt"
	"strings"
)

// DefaultBackgroundPattern maps a 1-based background number to its image URL.
const DefaultBackgroundPattern = "https://raw.githubusercontent.com/PokeGenX-com/background/main/%d.jpg"

// Record is one creature of the catalog as published upstream.
type Record struct {
	DexID    int        `json:"pokedex_id"`
	Name     Names      `json:"name"`
	Category string     `json:"category"`
	Stats    Stats      `json:"stats"`
	Types    []TypeInfo `json:"types"`
	Height   string     `json:"height"`
	Weight   string     `json:"weight"`
	Sprites  Sprites    `json:"sprites"`
}

// Names holds the display names by language.
type Names struct {
	FR string `json:"fr"`
	EN string `json:"en"`
}

// Display returns the English name, falling back to French.
func (n Names) Display() string {
	if n.EN != "" {
		return n.EN
	}
	return n.FR
}

// Stats is the stat block. Missing stats decode as zero.
type Stats struct {
	HP      int `json:"hp"`
	Attack  int `json:"atk"`
	Defense int `json:"def"`
	Speed   int `json:"vit"`
}

// TypeInfo is an elemental type with its icon.
type TypeInfo struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Sprites holds the regular and shiny artwork URLs.
type Sprites struct {
	Regular string `json:"regular"`
	Shiny   string `json:"shiny"`
}

// Sprite returns the shiny artwork when requested and available,
// the regular artwork otherwise.
func (s Sprites) Sprite(shiny bool) string {
	if shiny && s.Shiny != "" {
		return s.Shiny
	}
	return s.Regular
}

// Label is the text shown for the record in a selection list.
func (r Record) Label() string {
	return fmt.Sprintf("No. %d : %s", r.DexID, r.Name.Display())
}

// BackgroundURL maps a 0-based background index to its URL using pattern.
// Negative indices select the first background.
func BackgroundURL(pattern string, index int) string {
	if pattern == "" {
		pattern = DefaultBackgroundPattern
	}
	n := 1
	if index >= 0 {
		n = index + 1
	}
	return fmt.Sprintf(pattern, n)
}

// Build creates the card configuration for r on the given background.
func Build(r Record, backgroundURL string, shiny bool) *Config {
	types := make([]TypeBadge, 0, len(r.Types))
	for _, t := range r.Types {
		types = append(types, TypeBadge{Label: t.Name, IconURL: t.Image})
	}
	return &Config{
		BackgroundURL: backgroundURL,
		SpriteURL:     r.Sprites.Sprite(shiny),
		Name:          strings.TrimSpace(r.Name.Display()),
		HP:            r.Stats.HP,
		Category:      r.Category,
		Types:         types,
		Height:        r.Height,
		Weight:        r.Weight,
		Attack:        r.Stats.Attack,
		Defense:       r.Stats.Defense,
		Speed:         r.Stats.Speed,
		DexID:         r.DexID,
	}
}
