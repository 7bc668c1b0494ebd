// Command pokegenx generates a card and writes its exports to a directory.
//
// Usage:
//
//	pokegenx -creature 24 -background 3 -export download-hd,download-animated
//	pokegenx -random -side back -sparkles
//	pokegenx -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/PokeGenX-com/pokegenx"
	"github.com/PokeGenX-com/pokegenx/asset"
	"github.com/PokeGenX-com/pokegenx/card"
	"github.com/PokeGenX-com/pokegenx/face"
	"github.com/PokeGenX-com/pokegenx/internal/catalog"
	"github.com/PokeGenX-com/pokegenx/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		creature   = flag.Int("creature", 0, "0-based creature index")
		background = flag.Int("background", 0, "0-based background index")
		shiny      = flag.Bool("shiny", false, "use the shiny sprite")
		random     = flag.Bool("random", false, "pick creature and background at random")
		name       = flag.String("name", "", "custom card name")
		watermark  = flag.String("watermark", "", "back-face watermark (max 8 characters)")
		sparkles   = flag.Bool("sparkles", false, "draw the sparkle overlay")
		side       = flag.String("side", "front", "visible side for still exports: front or back")
		exports    = flag.String("export", "download-hd", "comma-separated actions: download-still, download-hd, download-animated")
		list       = flag.Bool("list", false, "print the catalog and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.NewLogger(os.Stderr)
	pokegenx.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher := newFetcher(cfg)
	cat, err := catalog.Fetch(ctx, fetcher, catalog.Source{
		RecordsURL:     cfg.Catalog.RecordsURL,
		BackgroundsURL: cfg.Catalog.BackgroundsURL,
	}, logger)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	if *list {
		printCatalog(cat)
		return
	}

	actions, err := parseActions(*exports)
	if err != nil {
		logger.Error("invalid -export", "error", err)
		os.Exit(2)
	}

	loader := asset.NewLoader(fetcher, asset.WithTimeout(cfg.HTTP.Timeout), asset.WithLogger(logger))
	s, err := pokegenx.New(loader,
		pokegenx.WithCatalog(cat),
		pokegenx.WithBackgroundPattern(cfg.Catalog.BackgroundPattern),
		pokegenx.WithParticles(*cfg.Render.Particles),
		pokegenx.WithPixelRatio(cfg.Render.PixelRatio),
		pokegenx.WithHold(cfg.Render.Hold),
		pokegenx.WithFlipDuration(cfg.Render.FlipDuration),
		pokegenx.WithSaver(pokegenx.DirSaver(cfg.Output.Dir)),
		pokegenx.WithNotifier(pokegenx.NotifierFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})),
	)
	if err != nil {
		logger.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	defer func() { _ = s.Close() }()

	s.SetInputs(face.Inputs{CustomName: *name, Watermark: *watermark, Sparkles: *sparkles})

	if *random {
		err = s.Randomize(ctx)
	} else {
		err = s.Generate(ctx, pokegenx.Selection{Creature: *creature, Background: *background, Shiny: *shiny})
	}
	if err != nil {
		logger.Error("failed to generate card", "error", err)
		os.Exit(1)
	}

	if *side == card.Back.String() {
		turn(ctx, s)
	}

	failed := false
	for _, a := range actions {
		if err := run(ctx, s, a); err != nil {
			logger.Error("export failed", "action", a, "error", err)
			failed = true
		}
	}
	st := loader.Stats()
	logger.Debug("image cache", "entries", st.Entries, "hits", st.Hits, "misses", st.Misses)
	if failed {
		os.Exit(1)
	}
}

// newFetcher serves http(s) sources over the network and site-absolute
// paths from the assets directory when one is configured.
func newFetcher(cfg *config.Config) asset.Fetcher {
	remote := asset.NewHTTPFetcher(&http.Client{Timeout: cfg.HTTP.Timeout})
	m := asset.MuxFetcher{Remote: remote}
	if cfg.Catalog.AssetsDir != "" {
		m.Local = asset.FSFetcher{FS: os.DirFS(cfg.Catalog.AssetsDir)}
	}
	return m
}

// turn flips the card and runs the flip to completion.
func turn(ctx context.Context, s *pokegenx.Session) {
	if !s.Flip(ctx) {
		return
	}
	for s.Flipping() {
		s.Pump(time.Now().Add(time.Hour))
	}
}

func run(ctx context.Context, s *pokegenx.Session, a pokegenx.Action) error {
	switch a {
	case pokegenx.ActionDownloadAnimated:
		return s.DownloadAnimated(ctx)
	case pokegenx.ActionDownloadHD:
		return s.DownloadHD(ctx)
	default:
		return s.Perform(ctx, a, s.Selection())
	}
}

func parseActions(s string) ([]pokegenx.Action, error) {
	var out []pokegenx.Action
	var errs []error
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		a, err := pokegenx.ParseAction(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, a)
	}
	return out, errors.Join(errs...)
}

func printCatalog(cat card.Catalog) {
	for i, r := range cat.Records {
		fmt.Printf("%4d  %s\n", i, r.Label())
	}
	fmt.Println()
	for i, b := range cat.Backgrounds {
		fmt.Printf("%4d  %s\n", i, b)
	}
}
