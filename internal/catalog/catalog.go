// Package catalog downloads the creature records and the background list.
package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/PokeGenX-com/pokegenx/asset"
	"github.com/PokeGenX-com/pokegenx/card"
)

// ErrEmpty is returned when the records document holds no records.
var ErrEmpty = errors.New("catalog: no records")

// Source locates the two catalog documents.
type Source struct {
	RecordsURL     string
	BackgroundsURL string
}

// Fetch downloads both documents concurrently through f.
func Fetch(ctx context.Context, f asset.Fetcher, src Source, log *slog.Logger) (card.Catalog, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var cat card.Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := fetchRecords(gctx, f, src.RecordsURL)
		cat.Records = recs
		return err
	})
	g.Go(func() error {
		bgs, err := fetchBackgrounds(gctx, f, src.BackgroundsURL)
		cat.Backgrounds = bgs
		return err
	})
	if err := g.Wait(); err != nil {
		return card.Catalog{}, err
	}

	log.Info("catalog loaded", "records", len(cat.Records), "backgrounds", len(cat.Backgrounds))
	return cat, nil
}

func fetchRecords(ctx context.Context, f asset.Fetcher, url string) ([]card.Record, error) {
	rc, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("catalog: records: %w", err)
	}
	defer func() { _ = rc.Close() }()
	return DecodeRecords(rc)
}

func fetchBackgrounds(ctx context.Context, f asset.Fetcher, url string) ([]string, error) {
	rc, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("catalog: backgrounds: %w", err)
	}
	defer func() { _ = rc.Close() }()
	return ParseBackgrounds(rc)
}

// DecodeRecords decodes a JSON array of records.
func DecodeRecords(r io.Reader) ([]card.Record, error) {
	var recs []card.Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("catalog: decode records: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrEmpty
	}
	return recs, nil
}

// ParseBackgrounds splits a text document into lines, dropping blank ones.
func ParseBackgrounds(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read backgrounds: %w", err)
	}
	return out, nil
}
