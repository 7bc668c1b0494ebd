package pokegenx

import "errors"

var (
	// ErrInvalidSelection is returned by Generate when the creature index is
	// outside the catalog. Nothing is drawn.
	ErrInvalidSelection = errors.New("pokegenx: invalid selection")

	// ErrNotGenerated is returned by exports that need a generated card.
	ErrNotGenerated = errors.New("pokegenx: no card generated")
)
