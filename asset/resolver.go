package asset

import (
	"context"
	"errors"
	"sync"

	"scrawl/internal/logging"
)

// State is the resolution state of one shape's asset.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is what the render path sees for a shape awaiting data.
type Status struct {
	State   State
	AssetID string
	Key     string
	Data    any
	Err     error
}

type entry struct {
	status Status
	gen    uint64
	cancel context.CancelFunc
}

// Resolver tracks asset resolution per shape.
//
// Begin and Apply must be called from the event thread. Request.Run may be
// called from any goroutine. Status is safe for concurrent use.
type Resolver struct {
	mu      sync.Mutex
	fetcher Fetcher
	entries map[string]*entry
	gen     uint64
}

// NewResolver creates a resolver using fetcher. A nil fetcher makes every
// request fail with ErrNoFetcher.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		entries: make(map[string]*entry),
	}
}

// Request is one pending fetch. Run it off the event thread and pass the
// Result back to Resolver.Apply.
type Request struct {
	ShapeID string
	AssetID string
	Key     string

	gen     uint64
	ctx     context.Context
	fetcher Fetcher
}

// Result is the outcome of a Request.
type Result struct {
	ShapeID string
	Key     string
	Data    any
	Err     error

	gen uint64
}

// Run performs the fetch. It never touches resolver state.
func (r *Request) Run() Result {
	res := Result{ShapeID: r.ShapeID, Key: r.Key, gen: r.gen}
	if r.fetcher == nil {
		res.Err = ErrNoFetcher
		return res
	}
	res.Data, res.Err = r.fetcher.Fetch(r.ctx, r.Key)
	return res
}

// Begin starts resolving a for shapeID. It returns nil when there is nothing
// to fetch: the asset has no storage key, or the same key is already loading
// or loaded for this shape. Any earlier request for the shape is cancelled.
func (r *Resolver) Begin(ctx context.Context, shapeID string, a Asset) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := a.FetchKey()
	prev := r.entries[shapeID]
	if !ok {
		if prev != nil && prev.cancel != nil {
			prev.cancel()
		}
		r.entries[shapeID] = &entry{status: Status{State: StateIdle, AssetID: a.ID}}
		return nil
	}
	if prev != nil && prev.status.Key == key &&
		(prev.status.State == StateLoading || prev.status.State == StateReady) {
		return nil
	}
	if prev != nil && prev.cancel != nil {
		prev.cancel()
	}

	r.gen++
	fctx, cancel := context.WithCancel(ctx)
	r.entries[shapeID] = &entry{
		status: Status{State: StateLoading, AssetID: a.ID, Key: key},
		gen:    r.gen,
		cancel: cancel,
	}
	logging.Logger().Debug("asset: fetch started", "shape", shapeID, "key", key)
	return &Request{
		ShapeID: shapeID,
		AssetID: a.ID,
		Key:     key,
		gen:     r.gen,
		ctx:     fctx,
		fetcher: r.fetcher,
	}
}

// Apply records a finished fetch. Results for requests that have since been
// superseded or cancelled are dropped and Apply returns false.
func (r *Resolver) Apply(res Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[res.ShapeID]
	if !ok || e.gen != res.gen || e.status.Key != res.Key {
		logging.Logger().Warn("asset: dropped stale result", "shape", res.ShapeID, "key", res.Key)
		return false
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) {
			return false
		}
		e.status.State = StateError
		e.status.Err = res.Err
		e.status.Data = nil
		logging.Logger().Warn("asset: fetch failed", "shape", res.ShapeID, "key", res.Key, "err", res.Err)
		return true
	}
	e.status.State = StateReady
	e.status.Data = res.Data
	e.status.Err = nil
	logging.Logger().Info("asset: resolved", "shape", res.ShapeID, "key", res.Key)
	return true
}

// Cancel abandons any request for shapeID and forgets its status.
func (r *Resolver) Cancel(shapeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[shapeID]; ok {
		if e.cancel != nil {
			e.cancel()
		}
		delete(r.entries, shapeID)
	}
}

// Status returns the current status for shapeID. Unknown shapes are idle.
func (r *Resolver) Status(shapeID string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[shapeID]; ok {
		return e.status
	}
	return Status{State: StateIdle}
}
