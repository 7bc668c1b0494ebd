// Package card holds the immutable data a card face is drawn from.
package card

// Logical card surface size in pixels at the 96 DPI baseline.
// All face layout is expressed in this coordinate space.
const (
	Width  = 260
	Height = 360
)

// Side selects which face of the card is drawn.
type Side uint8

const (
	Front Side = iota
	Back
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Front {
		return Back
	}
	return Front
}

func (s Side) String() string {
	switch s {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}

// TypeBadge is one elemental type shown on the front face.
type TypeBadge struct {
	Label   string
	IconURL string
}

// Config is everything a face needs, fixed at generation time.
// Zero numeric fields and empty strings mean "absent".
type Config struct {
	BackgroundURL string
	SpriteURL     string

	Name     string
	HP       int
	Category string
	Types    []TypeBadge
	Height   string
	Weight   string

	Attack  int
	Defense int
	Speed   int

	DexID int
}

// Placeholder returns the config drawn before the first generation:
// only a background, shown on the back face.
func Placeholder(backgroundURL string) *Config {
	return &Config{BackgroundURL: backgroundURL}
}
