// Package prefetch runs the single background worker that renders upcoming
// tiles ahead of the viewport reaching them. SPEC_FULL §4.H / §5: exactly
// two threads exist in this program, the main thread and one prefetch
// worker; all communication between them crosses the two channels defined
// here, never a lock or an atomic.
package prefetch

import "mlux/internal/tilecache"

// Result is one worker reply: either a rendered tile, or a render error the
// main thread logs and otherwise ignores (it falls back to synchronous
// rendering via tilecache.Cache.GetOrRender on its next redraw).
type Result struct {
	Idx  int
	Pngs tilecache.TilePngs
	Err  error
}

// RenderFunc renders both the content and sidebar PNG for a tile index. It
// must be a pure function of idx — SPEC_FULL §4.H relies on there being no
// ordering requirement between concurrently rendered tiles.
type RenderFunc func(idx int) (tilecache.TilePngs, error)

// Controller owns the worker goroutine and the two channels connecting it
// to the main thread. Requests are processed in receive order (FIFO), not
// latest-only: a single SendPrefetch call can emit up to three independent,
// equally useful requests, and collapsing to the most recent would starve
// the others and force synchronous renders on the main thread.
type Controller struct {
	reqCh chan int
	resCh chan Result
}

// Start spawns the worker. Its blocking receive on reqCh returns (ending
// the goroutine) once Close drops the sender — the scoped-thread-join
// equivalent this program relies on for deterministic cleanup.
func Start(render RenderFunc) *Controller {
	c := &Controller{
		reqCh: make(chan int, 64),
		resCh: make(chan Result, 64),
	}
	go c.run(render)
	return c
}

func (c *Controller) run(render RenderFunc) {
	for idx := range c.reqCh {
		pngs, err := render(idx)
		c.resCh <- Result{Idx: idx, Pngs: pngs, Err: err}
	}
	close(c.resCh)
}

// Request enqueues a tile index for background rendering. The caller must
// have already inserted idx into its InFlightSet to avoid a duplicate send.
func (c *Controller) Request(idx int) { c.reqCh <- idx }

// Results is the channel the main thread drains opportunistically before
// each redraw.
func (c *Controller) Results() <-chan Result { return c.resCh }

// Close drops the request sender, causing the worker's blocking receive to
// return and the worker to exit. Callers should continue draining Results
// until it closes to observe in-flight work finishing.
func (c *Controller) Close() { close(c.reqCh) }

// InFlightSet tracks tile indices sent to the worker whose result has not
// yet been drained. Main-thread owned exclusively; the worker never reads
// or writes it. Its purpose is closing the TOCTOU window between a
// worker's send and the main thread's next cache check — without it, two
// sends for the same index could race while the first result is still in
// the channel.
type InFlightSet struct {
	idx map[int]struct{}
}

func NewInFlightSet() *InFlightSet {
	return &InFlightSet{idx: make(map[int]struct{})}
}

func (s *InFlightSet) Add(idx int)      { s.idx[idx] = struct{}{} }
func (s *InFlightSet) Remove(idx int)   { delete(s.idx, idx) }
func (s *InFlightSet) Contains(i int) bool {
	_, ok := s.idx[i]
	return ok
}

// SendPrefetch requests rendering for the tiles most likely to be needed
// next — current+1, current+2, current-1, in that order — skipping any
// index that is out of range, already cached, or already in flight.
func SendPrefetch(ctrl *Controller, cache *tilecache.Cache, inflight *InFlightSet, center, tileCount int) {
	for _, idx := range [...]int{center + 1, center + 2, center - 1} {
		if idx < 0 || idx >= tileCount {
			continue
		}
		if cache.Contains(idx) || inflight.Contains(idx) {
			continue
		}
		inflight.Add(idx)
		ctrl.Request(idx)
	}
}

// Drain removes every ready result from ctrl's channel into the cache,
// clearing the matching InFlight entries. Call opportunistically between
// redraws and always immediately before a redraw.
func Drain(ctrl *Controller, cache *tilecache.Cache, inflight *InFlightSet, onErr func(idx int, err error)) {
	for {
		select {
		case res, ok := <-ctrl.Results():
			if !ok {
				return
			}
			inflight.Remove(res.Idx)
			if res.Err != nil {
				if onErr != nil {
					onErr(res.Idx, res.Err)
				}
				continue
			}
			cache.Insert(res.Idx, res.Pngs)
		default:
			return
		}
	}
}
