// Command mlux is a terminal Markdown viewer that renders documents as
// images through the Kitty Graphics Protocol. It has two modes, mirroring
// fb2c's own "default command is the common case, named subcommands cover
// the rest" CLI shape: bare invocation opens the interactive scrolling
// viewer, and `mlux render` does one-shot batch rasterization to PNG
// files for scripting and CI use (SPEC_FULL §6).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mlux/internal/config"
	"mlux/internal/outer"
	"mlux/internal/state"
	"mlux/internal/typeset"
)

const appName = "mlux"

// initializeAppContext loads configuration and builds the logger before
// any command body runs, the same Before-hook shape the teacher uses to
// populate its LocalEnv.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := state.EnvFromContext(ctx)
	env.NoWatch = cmd.Bool("no-watch")

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if t := cmd.String("theme"); t != "" {
		cfg.Theme = t
	}
	env.Cfg = cfg

	// The subcommand's own Before runs after this one, so determine
	// interactivity here from the not-yet-dispatched argument list rather
	// than relying on hook ordering: the interactive viewer must never
	// have a console logging core (it owns the alternate screen buffer),
	// while "render" is a plain batch command.
	env.Interactive = cmd.Args().First() != "render"

	log, err := config.NewLogger(cmd.String("log"), env.Interactive)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.Log = log
	env.RedirectStdLog()

	env.Log.Debug("program started", zap.Strings("args", os.Args), zap.String("run_id", env.RunID))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Debug("program ended", zap.Duration("elapsed", env.Uptime()))
	}
	env.RestoreStdLog()
	return nil
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:            appName,
		Usage:           "render Markdown to the terminal as images over the Kitty Graphics Protocol",
		ArgsUsage:       "[FILE]",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (TOML)"},
			&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "theme name (overrides config), looked up as themes/NAME.typ"},
			&cli.StringFlag{Name: "themes-dir", Value: "themes", Usage: "directory holding theme files"},
			&cli.BoolFlag{Name: "no-watch", Usage: "disable the background file watcher and its Reload exit path"},
			&cli.StringFlag{Name: "log", Usage: "also write debug logs to `FILE`"},
		},
		Action: runViewer,
		Commands: []*cli.Command{
			renderCommand(),
		},
	}

	env := state.EnvFromContext(ctx)

	if err := app.Run(ctx, os.Args); err != nil {
		if env.Log != nil {
			env.Log.Error("mlux exited with error", zap.Error(err))
		}
		msg := err.Error()
		if strings.HasPrefix(msg, "[BUG]") {
			fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", msg)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s\n", appName, msg)
		}
		os.Exit(1)
	}
}

func runViewer(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	path := cmd.Args().First()

	return outer.Run(env.Cfg, outer.RunOptions{
		SourcePath: path,
		ThemeName:  cmd.String("theme"),
		ThemesDir:  cmd.String("themes-dir"),
		ConfigPath: cmd.String("config"),
		NoWatch:    cmd.Bool("no-watch"),
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
	})
}

// renderCommand implements the batch path: build the document once,
// rasterize every content tile (sidebar tiles are viewer-only furniture
// and are skipped here), and write it as a numbered PNG sequence. There
// is no interactive loop, no prefetch worker, and no placement registry
// at all — just the shared Build/Rasterize pipeline the interactive
// viewer also uses.
func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "rasterize a document to a sequence of PNG files, without opening the viewer",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path prefix (default: the input file's stem)"},
			&cli.Float64Flag{Name: "width", Usage: "page width in points (overrides config)"},
			&cli.Float64Flag{Name: "ppi", Usage: "rendering resolution in pixels per inch (overrides config)"},
			&cli.Float64Flag{Name: "tile-height", Usage: "tile height in points (overrides config)"},
			&cli.BoolFlag{Name: "dump", Usage: "also write <out>.typ (generated Typst source) and <out>-debug.txt (per-tile pixel geometry), for debugging layout"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env := state.EnvFromContext(ctx)

			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("render requires a FILE argument")
			}

			cfg := *env.Cfg
			if v := cmd.Float64("width"); v > 0 {
				cfg.Width = v
			}
			if v := cmd.Float64("ppi"); v > 0 {
				cfg.PPI = v
			}
			if v := cmd.Float64("tile-height"); v > 0 {
				cfg.Viewer.TileHeight = v
			}

			themePrefix, err := outer.ResolveTheme(cmd.String("themes-dir"), firstNonEmptyStr(cmd.String("theme"), cfg.Theme))
			if err != nil {
				return err
			}

			markdown, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			fonts, warnings := typeset.ScanFonts(nil, 11)
			for _, w := range warnings {
				env.Log.Warn("font scan", zap.String("warning", w))
			}

			doc, warnings, err := outer.Build(string(markdown), themePrefix, &cfg, fonts)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				env.Log.Warn("build", zap.String("warning", w))
			}

			outPrefix := cmd.String("out")
			if outPrefix == "" {
				base := filepath.Base(path)
				outPrefix = strings.TrimSuffix(base, filepath.Ext(base))
			}

			if cmd.Bool("dump") {
				if err := os.WriteFile(outPrefix+".typ", []byte(doc.Content), 0o644); err != nil {
					return fmt.Errorf("[BUG] writing typeset dump: %w", err)
				}
				if err := os.WriteFile(outPrefix+"-debug.txt", []byte(doc.DumpGeometry()), 0o644); err != nil {
					return fmt.Errorf("[BUG] writing geometry dump: %w", err)
				}
			}

			n := doc.Tiled.TileCount()
			for i := 0; i < n; i++ {
				pngs, err := doc.Render(i)
				if err != nil {
					return err
				}
				name := fmt.Sprintf("%s-%s.png", outPrefix, pad(i, n))
				if err := os.WriteFile(name, pngs.Content, 0o644); err != nil {
					return fmt.Errorf("[BUG] writing %s: %w", name, err)
				}
				env.Log.Info("wrote tile", zap.String("file", name), zap.Int("index", i))
			}

			fmt.Fprintf(cmd.Writer, "wrote %d tile(s) to %s-*.png\n", n, outPrefix)
			return nil
		},
	}
}

func firstNonEmptyStr(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// pad zero-pads i to match the width of n-1, the largest index rendered,
// so a directory listing of tiles sorts in the right order.
func pad(i, n int) string {
	width := len(strconv.Itoa(n - 1))
	s := strconv.Itoa(i)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
