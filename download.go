package pokegenx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/PokeGenX-com/pokegenx/export"
)

// Saver receives downloaded files.
type Saver interface {
	Save(name string, data []byte) error
}

// DirSaver writes downloads into a directory, creating it on demand.
type DirSaver string

// Save writes data to name inside the directory. name must be a bare file
// name.
func (d DirSaver) Save(name string, data []byte) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("pokegenx: invalid file name %q", name)
	}
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return fmt.Errorf("pokegenx: save %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(string(d), name), data, 0o644); err != nil {
		return fmt.Errorf("pokegenx: save %s: %w", name, err)
	}
	return nil
}

// DiscardSaver drops every download.
type DiscardSaver struct{}

// Save does nothing.
func (DiscardSaver) Save(string, []byte) error { return nil }

// Notifier shows short messages to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notify calls f(msg).
func (f NotifierFunc) Notify(msg string) { f(msg) }

type logNotifier struct {
	log *slog.Logger
}

func (n logNotifier) Notify(msg string) { n.log.Warn(msg) }

// User notices.
const (
	noticeGenerateFirst = "Generate a card first to export the animation"
	noticeHDFailed      = "HD export failed"
	noticeGIFFailed     = "Animated export failed"
)

// DownloadStill saves the live surface as it is, placeholder included.
func (s *Session) DownloadStill(ctx context.Context) error {
	data, err := export.EncodePNG(s.dc)
	if err != nil {
		s.log.Error("still download failed", "error", err)
		return err
	}
	return s.save(export.StillFileName, data)
}

// DownloadHD renders the visible side at print resolution and saves it.
// Without a generated card it returns ErrNotGenerated and notifies nobody.
func (s *Session) DownloadHD(ctx context.Context) error {
	cfg := s.Config()
	if cfg == nil {
		return ErrNotGenerated
	}
	still, err := s.exporter.RenderHighRes(ctx, cfg, s.Side(), s.Inputs())
	if err != nil {
		s.log.Warn("high-resolution export failed", "error", err)
		s.notifier.Notify(noticeHDFailed)
		return err
	}
	return s.save(export.FileName(cfg, still.Width, still.Height), still.PNG)
}

// DownloadAnimated renders the front/back loop and saves it, blocking until
// the file is written. Without a generated card it notifies the user and
// returns ErrNotGenerated.
func (s *Session) DownloadAnimated(ctx context.Context) error {
	cfg := s.Config()
	if cfg == nil {
		s.notifier.Notify(noticeGenerateFirst)
		return ErrNotGenerated
	}
	data, err := s.exporter.RenderAnimatedLoop(ctx, cfg, s.Inputs())
	return s.finishAnimated(data, err)
}

// DownloadAnimatedAsync is DownloadAnimated without waiting: encoding runs
// in the background and done, when non-nil, receives the outcome.
func (s *Session) DownloadAnimatedAsync(ctx context.Context, done func(error)) {
	cfg := s.Config()
	if cfg == nil {
		s.notifier.Notify(noticeGenerateFirst)
		if done != nil {
			done(ErrNotGenerated)
		}
		return
	}
	s.exporter.RenderAnimatedLoopAsync(ctx, cfg, s.Inputs(), func(data []byte, err error) {
		err = s.finishAnimated(data, err)
		if done != nil {
			done(err)
		}
	})
}

func (s *Session) finishAnimated(data []byte, err error) error {
	if err != nil {
		s.log.Warn("animated export failed", "error", err)
		s.notifier.Notify(noticeGIFFailed)
		return err
	}
	return s.save(export.AnimatedFileName, data)
}

func (s *Session) save(name string, data []byte) error {
	if err := s.saver.Save(name, data); err != nil {
		s.log.Error("download failed", "file", name, "error", err)
		return err
	}
	s.log.Info("downloaded", "file", name, "bytes", len(data))
	return nil
}

// Action is a discrete user command.
type Action uint8

// Actions in menu order. ActionNone is the resting selection.
const (
	ActionNone Action = iota
	ActionGenerate
	ActionRandomize
	ActionDownloadStill
	ActionDownloadHD
	ActionDownloadAnimated
)

var actionNames = [...]string{"none", "generate", "randomize", "download-still", "download-hd", "download-animated"}

// String returns the action name.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction returns the action named s.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return ActionNone, fmt.Errorf("pokegenx: unknown action %q", s)
}

// Perform runs a. Generate uses sel; the animated download runs in the
// background and reports failures through the notifier. Errors that the
// user is not meant to see (invalid selection, HD before generation) are
// swallowed.
func (s *Session) Perform(ctx context.Context, a Action, sel Selection) error {
	var err error
	switch a {
	case ActionNone:
	case ActionGenerate:
		err = s.Generate(ctx, sel)
	case ActionRandomize:
		err = s.Randomize(ctx)
	case ActionDownloadStill:
		err = s.DownloadStill(ctx)
	case ActionDownloadHD:
		err = s.DownloadHD(ctx)
	case ActionDownloadAnimated:
		s.DownloadAnimatedAsync(ctx, nil)
	default:
		err = fmt.Errorf("pokegenx: unknown action %d", uint8(a))
	}
	if errors.Is(err, ErrInvalidSelection) || errors.Is(err, ErrNotGenerated) {
		s.log.Debug("action ignored", "action", a, "reason", err)
		return nil
	}
	return err
}
