package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/route"
)

const (
	defaultFetchThrottle = 3000 * time.Millisecond
	defaultBackoffBase   = 2000 * time.Millisecond
	maxFetchAttempts     = 3
)

// RouteFetcher resolves a driving route between two positions. A (nil, nil)
// result means the provider is reachable but found no route.
type RouteFetcher interface {
	FetchRoute(ctx context.Context, origin, destination geo.Position) (*route.Route, error)
}

// RouteSink receives every route the engine resolves, tagged with the
// generation the request carried. A nil route means no route could be
// obtained for that request.
type RouteSink func(r *route.Route, generation uint64)

// RouteEngineOption customizes engine timing, mainly for tests.
type RouteEngineOption func(*RouteEngine)

// WithThrottle overrides the minimum interval between provider calls.
func WithThrottle(d time.Duration) RouteEngineOption {
	return func(e *RouteEngine) { e.throttle = d }
}

// WithBackoffBase overrides the retry backoff unit.
func WithBackoffBase(d time.Duration) RouteEngineOption {
	return func(e *RouteEngine) { e.backoffBase = d }
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) RouteEngineOption {
	return func(e *RouteEngine) { e.now = now }
}

// WithSleep overrides the retry sleep.
func WithSleep(sleep func(time.Duration)) RouteEngineOption {
	return func(e *RouteEngine) { e.sleep = sleep }
}

type routeRequest struct {
	origin      geo.Position
	destination geo.Position
	generation  uint64
	key         string
}

// RouteEngine acquires routes from a rate-limited provider. It keeps a
// single cached route keyed by quantized endpoints, enforces a global
// minimum interval between provider calls with deferred re-evaluation, and
// retries transient failures with linear backoff. Results arriving after
// the caller's generation has moved on are discarded.
type RouteEngine struct {
	fetcher    RouteFetcher
	currentGen func() uint64
	sink       RouteSink
	logger     *zap.Logger

	throttle    time.Duration
	backoffBase time.Duration
	now         func() time.Time
	sleep       func(time.Duration)

	mu           sync.Mutex
	cache        *route.CacheEntry
	lastFetch    time.Time
	pending      *routeRequest
	pendingTimer *time.Timer
	closed       bool
}

// NewRouteEngine creates an engine. currentGen reports the caller's live
// generation; sink receives every resolved route.
func NewRouteEngine(fetcher RouteFetcher, currentGen func() uint64, sink RouteSink, logger *zap.Logger, opts ...RouteEngineOption) *RouteEngine {
	e := &RouteEngine{
		fetcher:     fetcher,
		currentGen:  currentGen,
		sink:        sink,
		logger:      logger,
		throttle:    defaultFetchThrottle,
		backoffBase: defaultBackoffBase,
		now:         time.Now,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request asks for a route from origin to destination. A cache hit is
// delivered immediately without touching the provider. Requests inside the
// throttle window are deferred (the latest coordinates win when the window
// reopens) and the last cached route, if any, is re-delivered in the
// meantime. Otherwise the provider is called inline, so callers on a hot
// path should invoke Request from their own goroutine.
func (e *RouteEngine) Request(ctx context.Context, origin, destination geo.Position, generation uint64) {
	req := &routeRequest{
		origin:      origin,
		destination: destination,
		generation:  generation,
		key:         route.QuantizedKey(origin, destination),
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	if e.cache != nil && e.cache.Key == req.key {
		cached := e.cache.Route
		e.mu.Unlock()
		e.deliver(cached, generation)
		return
	}

	elapsed := e.now().Sub(e.lastFetch)
	if elapsed < e.throttle {
		e.pending = req
		if e.pendingTimer == nil {
			e.pendingTimer = time.AfterFunc(e.throttle-elapsed, func() {
				e.firePending(ctx)
			})
		}
		// Keep showing the last known route during the cooldown; the
		// deferred refetch replaces it when the window reopens.
		var stale *route.Route
		if e.cache != nil {
			stale = e.cache.Route
		}
		e.mu.Unlock()
		if stale != nil {
			e.deliver(stale, generation)
		}
		return
	}

	e.lastFetch = e.now()
	e.mu.Unlock()
	e.fetch(ctx, req)
}

// firePending re-evaluates the most recent deferred request once the
// throttle window reopens.
func (e *RouteEngine) firePending(ctx context.Context) {
	e.mu.Lock()
	e.pendingTimer = nil
	req := e.pending
	e.pending = nil
	if req == nil || e.closed {
		e.mu.Unlock()
		return
	}
	e.lastFetch = e.now()
	e.mu.Unlock()
	e.fetch(ctx, req)
}

func (e *RouteEngine) fetch(ctx context.Context, req *routeRequest) {
	var (
		r   *route.Route
		err error
	)
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		r, err = e.fetcher.FetchRoute(ctx, req.origin, req.destination)
		if err == nil {
			break
		}
		e.logger.Warn("route fetch failed",
			zap.Int("attempt", attempt),
			zap.String("key", req.key),
			zap.Error(err),
		)
		if attempt < maxFetchAttempts {
			e.sleep(time.Duration(attempt) * e.backoffBase)
		}
	}
	if err != nil {
		e.logger.Error("route unavailable after retries",
			zap.String("key", req.key),
			zap.Error(err),
		)
		e.deliver(nil, req.generation)
		return
	}

	if e.currentGen != nil && e.currentGen() != req.generation {
		e.logger.Debug("discarding stale route response",
			zap.Uint64("request_generation", req.generation),
			zap.Uint64("current_generation", e.currentGen()),
		)
		return
	}

	if r != nil {
		e.mu.Lock()
		e.cache = &route.CacheEntry{Key: req.key, Route: r, FetchedAt: e.now()}
		e.mu.Unlock()
	}
	e.deliver(r, req.generation)
}

func (e *RouteEngine) deliver(r *route.Route, generation uint64) {
	if e.sink != nil {
		e.sink(r, generation)
	}
}

// Cached returns the current cache entry, or nil.
func (e *RouteEngine) Cached() *route.CacheEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache
}

// Invalidate drops the cached route so the next request refetches.
func (e *RouteEngine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = nil
}

// Close cancels any deferred request. The engine stays safe to call but
// performs no further work.
func (e *RouteEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.pending = nil
	if e.pendingTimer != nil {
		e.pendingTimer.Stop()
		e.pendingTimer = nil
	}
}
