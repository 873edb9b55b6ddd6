package outer

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"mlux/internal/config"
	"mlux/internal/placement"
	"mlux/internal/prefetch"
	"mlux/internal/terminal"
	"mlux/internal/tilecache"
	"mlux/internal/viewer"
)

// ExitInfo reports why the inner loop returned and the state the outer
// rebuild loop must carry forward.
type ExitInfo struct {
	Reason  viewer.ExitReason
	YOffset float64
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunInner runs one instance of the viewer's event loop against doc,
// until a key action or external signal produces an Exit effect, the
// reload signal fires, the resize signal fires, or stdin closes (treated
// as an implicit quit). It spawns exactly the two threads SPEC_FULL §5
// names directly (the prefetch worker and the caller itself) plus the
// input-reading pump documented in input.go.
func RunInner(
	doc *Document,
	cfg *config.Config,
	stdin io.Reader,
	stdout io.Writer,
	size terminal.Size,
	initialYOffset float64,
	initialFlash string,
	reloadCh <-chan struct{},
	resizeCh <-chan struct{},
) (ExitInfo, error) {
	cellH := size.CellHeightPx()
	cellW := size.CellWidthPx()
	viewportRows := size.Rows
	if viewportRows > 1 {
		viewportRows-- // last row reserved for the status bar
	}
	viewportHPx := float64(viewportRows * cellH)
	sidebarCols := cfg.Viewer.SidebarCols

	ctrl := prefetch.Start(doc.Render)
	defer ctrl.Close()
	cache := tilecache.New()
	inflight := prefetch.NewInFlightSet()
	reg := placement.New(stdout, cfg.Viewer.EvictDistance)

	st := &viewer.State{}
	scrollY := clampF(initialYOffset, 0, doc.Tiled.MaxScroll(viewportHPx))
	dirty := true
	flashMsg := initialFlash
	flashIsError := false
	pending := make([]byte, 0, 256)

	pump := StartInputPump(stdin)

	frameBudget := time.Duration(cfg.Viewer.FrameBudgetMs) * time.Millisecond
	watchInterval := time.Duration(cfg.Viewer.WatchIntervalMs) * time.Millisecond

	for {
		timeout := watchInterval
		if dirty {
			timeout = frameBudget
		}

		select {
		case chunk, ok := <-pump.Chan():
			if !ok {
				return ExitInfo{Reason: viewer.ExitQuit, YOffset: scrollY}, nil
			}
			pending = append(pending, chunk...)
			for {
				key, n := decodeKey(pending)
				if n == 0 {
					break
				}
				pending = pending[n:]

				ctx := viewer.Context{
					Markdown:     doc.Markdown,
					VisualLines:  doc.VisualLines,
					ScrollY:      scrollY,
					ViewportHPx:  viewportHPx,
					MaxScrollPx:  doc.Tiled.MaxScroll(viewportHPx),
					ScrollStepPx: float64(cfg.Viewer.ScrollStep * cellH),
				}
				effs := viewer.HandleKey(st, key, ctx)
				for _, e := range effs {
					switch e.Kind {
					case viewer.EffScrollTo:
						if e.ScrollY != scrollY {
							scrollY = e.ScrollY
							dirty = true
						}
					case viewer.EffExit:
						return ExitInfo{Reason: e.Reason, YOffset: scrollY}, nil
					case viewer.EffYank:
						if err := terminal.WriteClipboard(stdout, e.YankText); err != nil {
							// Clipboard failures are debug-logged only, per SPEC_FULL §7 — silent to the user.
							_ = err
						}
					case viewer.EffDeletePlacements:
						_ = reg.DeletePlacements()
						dirty = true
					case viewer.EffFlash:
						flashMsg = e.Message
						flashIsError = e.IsError
						dirty = true
					case viewer.EffRedrawStatusBar, viewer.EffRedrawUrlPicker, viewer.EffSetMode, viewer.EffSetLastSearch, viewer.EffOpenUrl:
						dirty = true
					}
				}
				if len(pending) == 0 {
					break
				}
			}

		case <-reloadCh:
			return ExitInfo{Reason: viewer.ExitReload, YOffset: scrollY}, nil

		case <-resizeCh:
			return ExitInfo{Reason: viewer.ExitResize, YOffset: scrollY}, nil

		case <-time.After(timeout):
			// Frame-budget or watch-interval wakeup: fall through to the
			// redraw/drain below. This is the "one blocking poll with a
			// timeout" suspension point SPEC_FULL §5 describes.
		}

		prefetch.Drain(ctrl, cache, inflight, func(idx int, err error) {
			log.Printf("prefetch: render tile %d: %v", idx, err)
		})

		if dirty {
			if err := redraw(doc, cfg, reg, cache, ctrl, inflight, stdout, scrollY, viewportHPx, sidebarCols, cellW, cellH, size.Rows, flashMsg, flashIsError, st); err != nil {
				return ExitInfo{}, err
			}
			flashMsg = ""
			flashIsError = false
			dirty = false
		}
	}
}

func redraw(
	doc *Document,
	cfg *config.Config,
	reg *placement.Registry,
	cache *tilecache.Cache,
	ctrl *prefetch.Controller,
	inflight *prefetch.InFlightSet,
	stdout io.Writer,
	scrollY, viewportHPx float64,
	sidebarCols, cellW, cellH, rows int,
	flashMsg string,
	flashIsError bool,
	st *viewer.State,
) error {
	ppiScale := cfg.PPI / 72.0
	vis := doc.Tiled.VisibleTiles(scrollY, viewportHPx)

	render := func(idx int) (tilecache.TilePngs, error) {
		return cache.GetOrRender(idx, doc.Render)
	}

	if err := reg.EnsureLoaded(vis.Idx, render); err != nil {
		return err
	}
	if vis.Split {
		if err := reg.EnsureLoaded(vis.TopIdx, render); err != nil {
			return err
		}
		if err := reg.EnsureLoaded(vis.BotIdx, render); err != nil {
			return err
		}
		prefetch.SendPrefetch(ctrl, cache, inflight, vis.BotIdx, doc.Tiled.TileCount())
	} else {
		if err := reg.EnsureLoaded(vis.Idx, render); err != nil {
			return err
		}
		prefetch.SendPrefetch(ctrl, cache, inflight, vis.Idx, doc.Tiled.TileCount())
	}

	if err := reg.DeletePlacements(); err != nil {
		return err
	}

	contentWidthPx := int(doc.ContentTiles[0].Frame.WidthPt*ppiScale + 0.5)
	sidebarWidthPx := sidebarCols * cellW

	place := func(idx int, row, cropY, cropH int) error {
		cID, sID, ok := reg.IDs(idx)
		if !ok {
			return fmt.Errorf("[BUG] tile %d not loaded before place", idx)
		}
		rowsCells := terminal.CellsForHeight(cropH, cellH)
		if _, err := fmt.Fprintf(stdout, "\x1b[%d;1H", row); err != nil {
			return err
		}
		if err := terminal.PlaceCropped(stdout, sID, sidebarWidthPx, cropY, cropH, sidebarCols, rowsCells); err != nil {
			return err
		}
		col := sidebarCols + 1
		if _, err := fmt.Fprintf(stdout, "\x1b[%d;%dH", row, col); err != nil {
			return err
		}
		return terminal.PlaceCropped(stdout, cID, contentWidthPx, cropY, cropH, contentWidthPx/max1(cellW), rowsCells)
	}

	if vis.Split {
		if err := place(vis.TopIdx, 1, int(vis.TopSrcY), int(vis.TopSrcH)); err != nil {
			return err
		}
		topRows := terminal.CellsForHeight(int(vis.TopSrcH), cellH)
		if err := place(vis.BotIdx, 1+topRows, 0, int(vis.BotSrcH)); err != nil {
			return err
		}
	} else {
		if err := place(vis.Idx, 1, int(vis.SrcY), int(vis.SrcH)); err != nil {
			return err
		}
	}

	status := terminal.Status{Kind: terminal.StatusIdle, ScrollPct: scrollPercent(scrollY, doc.Tiled.MaxScroll(viewportHPx)), KeyHints: "j/k scroll  / search  : cmd  q quit"}
	switch {
	case flashMsg != "" && flashIsError:
		status = terminal.Status{Kind: terminal.StatusError, Message: flashMsg}
	case flashMsg != "":
		status = terminal.Status{Kind: terminal.StatusFlash, Message: flashMsg}
	case st.HasCount:
		status = terminal.Status{Kind: terminal.StatusAccumulating, Digits: strconv.Itoa(st.Count)}
	}
	cols := sidebarCols + contentWidthPx/max1(cellW)
	return terminal.Render(stdout, rows, cols, status)
}

func scrollPercent(y, max float64) int {
	if max <= 0 {
		return 100
	}
	return int(y / max * 100)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
