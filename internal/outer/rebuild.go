package outer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"mlux/internal/config"
	"mlux/internal/terminal"
	"mlux/internal/typeset"
	"mlux/internal/viewer"
	"mlux/internal/watch"
)

// RunOptions bundles everything Run needs beyond the resolved config,
// mirroring the CLI surface SPEC_FULL §6 describes.
type RunOptions struct {
	SourcePath string // "" or "-" reads stdin
	ThemeName  string // CLI --theme, empty defers to cfg.Theme
	ThemesDir  string
	FontDirs   []string
	ConfigPath string
	NoWatch    bool
	Stdin      io.Reader
	Stdout     io.Writer
}

// source reads the document body, re-reading from disk on every call for
// a file path, or reading stdin exactly once and replaying the cached
// bytes thereafter (stdin has no reload story: there is nothing to
// re-read).
type source struct {
	path    string
	isStdin bool
	cached  string
	read    bool
}

func newSource(path string) *source {
	return &source{path: path, isStdin: path == "" || path == "-"}
}

func (s *source) Read(stdin io.Reader) (string, error) {
	if s.isStdin {
		if !s.read {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return "", fmt.Errorf("reading stdin: %w", err)
			}
			s.cached = string(data)
			s.read = true
		}
		return s.cached, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}
	return string(data), nil
}

// ResolveTheme loads themes/<name>.typ's raw text to use as the World's
// theme prefix. An empty name is valid (no theme). A missing file is a
// user-input error (SPEC_FULL §7's "unknown theme").
func ResolveTheme(themesDir, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	path := filepath.Join(themesDir, name+".typ")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("unknown theme %q (expected %s)", name, path)
		}
		return "", err
	}
	return string(data), nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Run drives the outer rebuild loop described in SPEC_FULL §4.L: build,
// run the inner loop, dispatch on its exit reason, repeat until Quit.
func Run(cfg *config.Config, opts RunOptions) error {
	size, err := terminal.GetSize(os.Stdin)
	if err != nil || size.Cols == 0 || size.Rows == 0 {
		return fmt.Errorf("mlux requires stdout to be a terminal: %v", err)
	}
	if size.WidthPx == 0 || size.HeightPx == 0 {
		return fmt.Errorf("mlux requires a terminal that reports pixel dimensions (a Kitty Graphics Protocol capable terminal: kitty, wezterm, konsole, ghostty)")
	}

	guard, err := terminal.NewGuard(os.Stdin, opts.Stdout)
	if err != nil {
		return err
	}
	defer guard.Close()

	fontSizePt := 11.0
	fonts, _ := typeset.ScanFonts(opts.FontDirs, fontSizePt)

	src := newSource(opts.SourcePath)

	sigCh := notifyResize()
	resizeCh := make(chan struct{}, 1)
	go func() {
		for range sigCh {
			select {
			case resizeCh <- struct{}{}:
			default:
			}
		}
	}()

	var reloadCh <-chan struct{} = make(chan struct{})
	if !opts.NoWatch && !src.isStdin {
		if w, err := watch.New(opts.SourcePath, time.Duration(cfg.Viewer.WatchIntervalMs)*time.Millisecond); err == nil {
			reloadCh = w.Chan()
			defer w.Close()
		}
	}

	themePrefix, err := ResolveTheme(opts.ThemesDir, firstNonEmpty(opts.ThemeName, cfg.Theme))
	if err != nil {
		return err
	}

	var flash string
	var yOffset float64

	for {
		markdown, err := src.Read(opts.Stdin)
		if err != nil {
			return err
		}

		doc, _, err := Build(markdown, themePrefix, cfg, fonts)
		if err != nil {
			return err
		}

		size, err := terminal.GetSize(os.Stdin)
		if err != nil {
			return err
		}

		info, err := RunInner(doc, cfg, opts.Stdin, opts.Stdout, size, yOffset, flash, reloadCh, resizeCh)
		if err != nil {
			return err
		}
		flash = ""
		yOffset = info.YOffset

		switch info.Reason {
		case viewer.ExitQuit:
			return nil

		case viewer.ExitResize, viewer.ExitReload:
			_ = terminal.DeleteAllImages(opts.Stdout)

		case viewer.ExitConfigReload:
			_ = terminal.DeleteAllImages(opts.Stdout)
			newCfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				flash = fmt.Sprintf("config reload failed: %v", err)
				continue
			}
			newThemePrefix, err := ResolveTheme(opts.ThemesDir, firstNonEmpty(opts.ThemeName, newCfg.Theme))
			if err != nil {
				// Validate theme existence; on failure flash and keep the old
				// config entirely, per SPEC_FULL §4.L.
				flash = err.Error()
				continue
			}
			cfg = newCfg
			themePrefix = newThemePrefix
		}
	}
}
