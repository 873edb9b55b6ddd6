// Package placement tracks which tiles currently have images resident and
// placed on the terminal, and enforces the double-buffer discipline that
// keeps scrolling flash-free (SPEC_FULL §4.J).
package placement

import (
	"fmt"
	"io"

	"mlux/internal/terminal"
	"mlux/internal/tilecache"
)

// firstID matches the spec's "monotonic IDs starting at 100" — low IDs
// are left free for any future terminal-assigned or protocol-reserved
// use.
const firstID = 100

// entry is what the registry remembers about one placed tile.
type entry struct {
	contentID int
	sidebarID int
}

// Registry is the placed-image registry. Main-thread owned: every method
// assumes single-threaded, sequential use from the outer redraw loop.
type Registry struct {
	w        io.Writer
	nextID   int
	placed   map[int]entry
	radius   int
}

// New creates an empty registry that writes Kitty protocol commands to w.
func New(w io.Writer, evictRadius int) *Registry {
	return &Registry{w: w, nextID: firstID, placed: make(map[int]entry), radius: evictRadius}
}

// RenderFunc renders (or fetches from cache) the PNGs for a tile index.
type RenderFunc func(idx int) (tilecache.TilePngs, error)

// EnsureLoaded makes sure tile idx has resident image data on the
// terminal, allocating fresh image IDs and transferring both PNGs if it
// isn't already tracked. It then sweeps every tracked tile farther than
// Registry's eviction radius from idx, deleting both its placement and
// its image data so resident memory doesn't grow unbounded while
// scrolling through a long document.
func (r *Registry) EnsureLoaded(idx int, render RenderFunc) error {
	if _, ok := r.placed[idx]; !ok {
		pngs, err := render(idx)
		if err != nil {
			return fmt.Errorf("placement: render tile %d: %w", idx, err)
		}
		e := entry{contentID: r.nextID, sidebarID: r.nextID + 1}
		r.nextID += 2
		if err := terminal.Transfer(r.w, e.contentID, pngs.Content); err != nil {
			return err
		}
		if err := terminal.Transfer(r.w, e.sidebarID, pngs.Sidebar); err != nil {
			return err
		}
		r.placed[idx] = e
	}

	for other, e := range r.placed {
		if other == idx {
			continue
		}
		if abs(other-idx) > r.radius {
			_ = terminal.DeleteImage(r.w, e.contentID)
			_ = terminal.DeleteImage(r.w, e.sidebarID)
			delete(r.placed, other)
		}
	}
	return nil
}

// IDs returns the content/sidebar image IDs for an already-loaded tile.
func (r *Registry) IDs(idx int) (contentID, sidebarID int, ok bool) {
	e, ok := r.placed[idx]
	return e.contentID, e.sidebarID, ok
}

// DeletePlacements emits a delete-placement (not delete-image) command
// for every tracked tile, wiping visible placements while keeping image
// data resident for an immediate re-place. This is step 2 of the
// double-buffer discipline: call it after EnsureLoaded (which may be
// slow) and before placing the new frame, so the old placements stay
// visible throughout any render latency and disappear atomically right
// before the new ones appear.
func (r *Registry) DeletePlacements() error {
	for _, e := range r.placed {
		if err := terminal.DeletePlacement(r.w, e.contentID); err != nil {
			return err
		}
		if err := terminal.DeletePlacement(r.w, e.sidebarID); err != nil {
			return err
		}
	}
	return nil
}

// Len reports how many tiles currently have resident image data.
func (r *Registry) Len() int { return len(r.placed) }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
