package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pikachuJSON = `{
	"pokedex_id": 25,
	"name": {"fr": "Pikachu", "en": "Pikachu"},
	"category": "Mouse Pokémon",
	"stats": {"hp": 35, "atk": 55, "vit": 90},
	"types": [{"name": "Electric", "image": "https://example.com/electric.png"}],
	"height": "0.4 m",
	"weight": "6.0 kg",
	"sprites": {"regular": "https://example.com/25.png", "shiny": "https://example.com/25s.png"}
}`

func decodeRecord(t *testing.T, s string) Record {
	t.Helper()
	var r Record
	require.NoError(t, json.Unmarshal([]byte(s), &r))
	return r
}

func TestBuild(t *testing.T) {
	r := decodeRecord(t, pikachuJSON)

	cfg := Build(r, BackgroundURL("", 0), false)

	assert.Equal(t, "https://raw.githubusercontent.com/PokeGenX-com/background/main/1.jpg", cfg.BackgroundURL)
	assert.Equal(t, "https://example.com/25.png", cfg.SpriteURL)
	assert.Equal(t, "Pikachu", cfg.Name)
	assert.Equal(t, 35, cfg.HP)
	assert.Equal(t, 0, cfg.Defense, "absent stat decodes as zero")
	assert.Equal(t, []TypeBadge{{Label: "Electric", IconURL: "https://example.com/electric.png"}}, cfg.Types)
	assert.Equal(t, 25, cfg.DexID)
}

func TestBuildShinyFallsBackToRegular(t *testing.T) {
	r := decodeRecord(t, pikachuJSON)
	assert.Equal(t, "https://example.com/25s.png", Build(r, "", true).SpriteURL)

	r.Sprites.Shiny = ""
	assert.Equal(t, "https://example.com/25.png", Build(r, "", true).SpriteURL)
}

func TestBackgroundURL(t *testing.T) {
	assert.Equal(t, "bg/1.jpg", BackgroundURL("bg/%d.jpg", -1))
	assert.Equal(t, "bg/1.jpg", BackgroundURL("bg/%d.jpg", 0))
	assert.Equal(t, "bg/12.jpg", BackgroundURL("bg/%d.jpg", 11))
}

func TestNamesDisplay(t *testing.T) {
	assert.Equal(t, "Bulbizarre", Names{FR: "Bulbizarre"}.Display())
	assert.Equal(t, "Bulbasaur", Names{FR: "Bulbizarre", EN: "Bulbasaur"}.Display())
}

func TestTitle(t *testing.T) {
	cfg := &Config{Name: "Pikachu"}
	assert.Equal(t, "PIKACHU", Title(cfg, ""))
	assert.Equal(t, "PIKACHU", Title(cfg, "   "))
	assert.Equal(t, "SPARKY", Title(cfg, "  Sparky "))
	assert.Equal(t, "ÉVOLI", Title(&Config{Name: "Évoli"}, ""))
}

func TestWatermark(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", DefaultWatermark},
		{"   ", DefaultWatermark},
		{" Ash ", "Ash"},
		{"ABCDEFGHIJ", "ABCDEFGH"},
		{"ÉÉÉÉÉÉÉÉÉ", "ÉÉÉÉÉÉÉÉ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Watermark(tt.in), "Watermark(%q)", tt.in)
	}
}

func TestLabels(t *testing.T) {
	cfg := &Config{HP: 35, DexID: 25, Attack: 55, Speed: 90, Height: "0.4 m", Weight: "6.0 kg"}

	assert.Equal(t, "HP 35", HPLabel(cfg))
	assert.Equal(t, "No. 25", DexLabel(cfg))
	assert.Equal(t, "ATK 55 - SPD 90", StatsLine(cfg))
	assert.Equal(t, "Height: 0.4 m - Weight: 6.0 kg", SizeLine(cfg))

	empty := &Config{}
	assert.Empty(t, HPLabel(empty))
	assert.Empty(t, DexLabel(empty))
	assert.Empty(t, StatsLine(empty))
}

func TestFileBase(t *testing.T) {
	assert.Equal(t, "pokemon-card", FileBase(nil))
	assert.Equal(t, "Mr_Mime", FileBase(&Config{Name: "Mr. Mime"}))
	assert.Equal(t, "Nidoran_", FileBase(&Config{Name: "Nidoran♀"}))
}

func TestSideOther(t *testing.T) {
	assert.Equal(t, Back, Front.Other())
	assert.Equal(t, Front, Back.Other())
	assert.Equal(t, "back", Back.String())
}
