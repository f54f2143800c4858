// Package ratelimit provides fixed-window request counting per caller key.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter class names used across the service.
const (
	ClassGeneral    = "general"
	ClassSubmission = "score-submission"
)

// Admitter decides whether one more request from key may proceed under the
// named limiter class. Implementations must make the decision linearizable
// per key. A distributed implementation backed by a shared counter store can
// substitute the in-process gate without touching callers.
type Admitter interface {
	TryAdmit(key, class string) bool
}

// ClassConfig configures one limiter class.
type ClassConfig struct {
	MaxRequests int
	Window      time.Duration
}

type window struct {
	count        int
	windowEndsAt time.Time
}

// FixedWindowGate counts requests per (class, key) in fixed windows. A full
// window's worth of requests can land just before a boundary and another
// full window's worth just after; that burst is an accepted trade-off of the
// fixed-window scheme over sliding windows or token buckets.
//
// State is process-local and starts empty; restarting the process resets all
// counters. Single-instance deployments only.
type FixedWindowGate struct {
	mu      sync.Mutex
	classes map[string]ClassConfig
	windows map[string]*window
	now     func() time.Time
}

// Option customizes gate construction.
type Option func(*FixedWindowGate)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *FixedWindowGate) {
		if now != nil {
			g.now = now
		}
	}
}

func NewFixedWindowGate(classes map[string]ClassConfig, opts ...Option) *FixedWindowGate {
	g := &FixedWindowGate{
		classes: make(map[string]ClassConfig, len(classes)),
		windows: make(map[string]*window),
		now:     time.Now,
	}
	for name, cfg := range classes {
		g.classes[name] = cfg
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// TryAdmit admits or denies one request for key under class. Unknown classes
// deny. Denial does not mutate state, so a denied caller retrying after the
// window elapses starts a fresh window.
func (g *FixedWindowGate) TryAdmit(key, class string) bool {
	cfg, ok := g.classes[class]
	if !ok || cfg.MaxRequests <= 0 || cfg.Window <= 0 {
		return false
	}

	compound := class + "|" + key
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	w, exists := g.windows[compound]
	if !exists || now.After(w.windowEndsAt) {
		g.windows[compound] = &window{
			count:        1,
			windowEndsAt: now.Add(cfg.Window),
		}
		// Piggyback cleanup on window creation so expired entries are
		// reclaimed in proportion to traffic, without a background timer.
		g.sweepExpired(now)
		return true
	}

	if w.count >= cfg.MaxRequests {
		return false
	}

	w.count++
	return true
}

// sweepExpired drops every window already past its end. Caller holds g.mu.
func (g *FixedWindowGate) sweepExpired(now time.Time) {
	for key, w := range g.windows {
		if now.After(w.windowEndsAt) {
			delete(g.windows, key)
		}
	}
}

// ActiveWindows reports how many (class, key) windows are currently tracked.
func (g *FixedWindowGate) ActiveWindows() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.windows)
}
