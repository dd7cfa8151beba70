// Package registry tracks boundary activity across a process. A Registry
// implements boundary.Observer, attach it through Options.Observer (or inside
// a boundary.MultiObserver) and it maintains the set of currently armed
// boundaries, per site capture records, and a rate limited notification gate:
// the first capture of a site notifies, repeats inside the window are counted
// but stay quiet, a repeat after the window notifies again with the
// accumulated count.
package registry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/bulwark/boundary"
)

// Notifier receives the captures that pass the gate. count is the number of
// occurrences accumulated since the previous notification.
type Notifier interface {
	NotifyCapture(name string, err error, ctx boundary.Context, count int)
}

type noopNotifier struct{}

func (noopNotifier) NotifyCapture(string, error, boundary.Context, int) {}

// Record is one capture site as the registry saw it.
type Record struct {
	Boundary      string
	Digest        uint64
	Component     string
	Count         int
	Notifications int
	FirstSeen     time.Time
	LastSeen      time.Time
	LastMessage   string
}

type siteKey struct {
	name   string
	digest uint64
}

// Registry is safe for concurrent use. Boundary names are the unit of armed
// tracking, so boundaries sharing a registry should carry distinct names.
type Registry struct {
	mu       sync.Mutex
	seen     map[siteKey]*Record
	armed    mapset.Set[string]
	window   time.Duration
	now      func() time.Time
	notifier Notifier
	logger   *slog.Logger
}

type Option func(*Registry)

// WithWindow sets the quiet period between notifications for the same site.
func WithWindow(d time.Duration) Option {
	return func(r *Registry) { r.window = d }
}

func WithNotifier(n Notifier) Option {
	return func(r *Registry) { r.notifier = n }
}

// WithClock replaces the registry's time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

func New(opts ...Option) *Registry {
	r := &Registry{
		seen:     map[siteKey]*Record{},
		armed:    mapset.NewSet[string](),
		window:   5 * time.Minute,
		now:      time.Now,
		notifier: noopNotifier{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnCapture implements boundary.Observer.
func (r *Registry) OnCapture(name string, err error, ctx boundary.Context) {
	r.armed.Add(name)

	r.mu.Lock()
	key := siteKey{name: name, digest: ctx.Digest()}
	now := r.now()

	rec, ok := r.seen[key]
	if !ok {
		rec = &Record{
			Boundary:  name,
			Digest:    key.digest,
			Component: ctx.Component,
			FirstSeen: now,
		}
		r.seen[key] = rec
	}
	rec.Count++
	rec.LastMessage = err.Error()

	notify := !ok || now.Sub(rec.LastSeen) >= r.window
	rec.LastSeen = now

	var count int
	if notify {
		count = rec.Count - rec.Notifications
		rec.Notifications = rec.Count
	}
	r.mu.Unlock()

	if notify {
		r.logger.Debug("notifying capture", "boundary", name, "digest", key.digest, "count", count)
		r.notifier.NotifyCapture(name, err, ctx, count)
		return
	}
	r.logger.Debug("capture within window", "boundary", name, "digest", key.digest)
}

// OnReset implements boundary.Observer.
func (r *Registry) OnReset(name string, trigger boundary.ResetTrigger) {
	r.armed.Remove(name)
	r.logger.Debug("boundary reset", "boundary", name, "trigger", trigger)
}

// Armed returns the names of boundaries currently holding a capture, sorted.
func (r *Registry) Armed() []string {
	names := r.armed.ToSlice()
	sort.Strings(names)
	return names
}

// Degraded reports whether any tracked boundary is armed.
func (r *Registry) Degraded() bool {
	return r.armed.Cardinality() > 0
}

// Snapshot returns a copy of every capture record, sorted by boundary name
// then digest so output is stable.
func (r *Registry) Snapshot() []Record {
	r.mu.Lock()
	records := make([]Record, 0, len(r.seen))
	for _, rec := range r.seen {
		records = append(records, *rec)
	}
	r.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].Boundary != records[j].Boundary {
			return records[i].Boundary < records[j].Boundary
		}
		return records[i].Digest < records[j].Digest
	})
	return records
}

// Forget drops the records of one boundary, its next capture is treated as a
// first occurrence again.
func (r *Registry) Forget(name string) {
	r.mu.Lock()
	for key := range r.seen {
		if key.name == name {
			delete(r.seen, key)
		}
	}
	r.mu.Unlock()
}
