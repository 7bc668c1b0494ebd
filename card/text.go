package card

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultWatermark is the back-face label when no override is given.
const DefaultWatermark = "PokeGenX"

// maxWatermarkRunes caps a custom watermark.
const maxWatermarkRunes = 8

// Title returns the header name: custom when non-blank, else the catalog name,
// uppercased.
func Title(cfg *Config, custom string) string {
	name := strings.TrimSpace(custom)
	if name == "" {
		name = cfg.Name
	}
	// Casers are stateful and must not be shared across goroutines.
	return cases.Upper(language.English).String(name)
}

// Watermark returns the trimmed override cut to 8 runes, or DefaultWatermark
// when the override is blank.
func Watermark(custom string) string {
	s := strings.TrimSpace(custom)
	if utf8.RuneCountInString(s) > maxWatermarkRunes {
		s = string([]rune(s)[:maxWatermarkRunes])
	}
	if s == "" {
		return DefaultWatermark
	}
	return s
}

// HPLabel returns "HP n", or "" when HP is absent.
func HPLabel(cfg *Config) string {
	if cfg.HP <= 0 {
		return ""
	}
	return fmt.Sprintf("HP %d", cfg.HP)
}

// DexLabel returns "No. n", or "" when the identifier is absent.
func DexLabel(cfg *Config) string {
	if cfg.DexID <= 0 {
		return ""
	}
	return fmt.Sprintf("No. %d", cfg.DexID)
}

// SizeLine returns the centered height/weight footer line.
func SizeLine(cfg *Config) string {
	return fmt.Sprintf("Height: %s - Weight: %s", cfg.Height, cfg.Weight)
}

// StatsLine joins the present stats with " - ". Zero stats are omitted.
func StatsLine(cfg *Config) string {
	parts := make([]string, 0, 3)
	if cfg.Attack != 0 {
		parts = append(parts, fmt.Sprintf("ATK %d", cfg.Attack))
	}
	if cfg.Defense != 0 {
		parts = append(parts, fmt.Sprintf("DEF %d", cfg.Defense))
	}
	if cfg.Speed != 0 {
		parts = append(parts, fmt.Sprintf("SPD %d", cfg.Speed))
	}
	return strings.Join(parts, " - ")
}

var nonWord = regexp.MustCompile(`\W+`)

// FileBase returns a file-name-safe base for cfg: runs of non-word
// characters become "_", an empty name becomes "pokemon-card".
func FileBase(cfg *Config) string {
	if cfg == nil || cfg.Name == "" {
		return "pokemon-card"
	}
	return nonWord.ReplaceAllString(cfg.Name, "_")
}
