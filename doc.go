// Package pokegenx renders collectible creature cards.
//
// # Overview
//
// A Session owns one live drawing surface and the state of the card shown
// on it: the generated configuration, the visible side and the user inputs
// (custom name, watermark, sparkles). It composes the sub-packages:
//
//   - asset: memoized image loading shared by every surface
//   - face: front and back face composition in logical card space
//   - sparkle: the animated particle overlay
//   - flip: the cross-fading face flip driven by a frame scheduler
//   - export: print resolution PNG and looping GIF exports
//
// # Quick Start
//
//	loader := asset.NewLoader(asset.NewHTTPFetcher(nil))
//	s, err := pokegenx.New(loader, pokegenx.WithCatalog(cat))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Generate(ctx, pokegenx.Selection{Creature: 24}); err != nil {
//	    return err
//	}
//	s.Flip(ctx)
//	s.Pump(time.Now())
//
// # Coordinate System
//
// Cards are laid out in a 260×360 logical space. The live surface is
// 260·r × 360·r device pixels for a pixel ratio r; export surfaces use
// their own scale. Origin is top-left, Y grows down.
//
// # Concurrency
//
// Drawing happens on the caller's goroutine. A Session is not safe for
// concurrent drawing; its image loader is.
package pokegenx
