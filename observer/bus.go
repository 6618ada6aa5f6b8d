package observer

import (
	"fmt"
	"sync"

	"github.com/webperf-tools/vitaltop/model"
)

// Handler receives decoded entries for the kinds it subscribed to.
type Handler func(model.Entry)

// Bus fans decoded observation entries out to subscribers. It stands in
// for the browser's observation surface: entry kinds can be marked
// unsupported, in which case Subscribe fails the way a missing API would,
// and the collectors degrade instead of crashing.
//
// Publishing is synchronous and in subscription order. The order in which
// two collectors observe the same entry is unspecified and must not be
// relied upon.
type Bus struct {
	mu          sync.Mutex
	subs        []*Subscription
	unsupported map[model.EntryKind]bool

	// Timeline of already-delivered paint/navigation entries, kept so a
	// collector constructed late can seed from buffered timing data.
	paints []model.PaintEntry
	nav    *model.NavigationEntry
}

// Subscription is a cancellation handle for one Subscribe call. The owner
// must release it exactly once; Unsubscribe is idempotent.
type Subscription struct {
	bus   *Bus
	kinds map[model.EntryKind]bool
	fn    Handler
	once  sync.Once
}

// Unsubscribe detaches the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.bus.remove(s) })
}

// NewBus creates a bus supporting every entry kind.
func NewBus() *Bus {
	return &Bus{unsupported: map[model.EntryKind]bool{}}
}

// MarkUnsupported makes Subscribe fail for the given kinds, simulating a
// host without that observation API.
func (b *Bus) MarkUnsupported(kinds ...model.EntryKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range kinds {
		b.unsupported[k] = true
	}
}

// Subscribe registers fn for the given entry kinds. It returns an error if
// any kind is unsupported on this bus; no subscription is installed then.
func (b *Bus) Subscribe(fn Handler, kinds ...model.EntryKind) (*Subscription, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("subscribe: no entry kinds given")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range kinds {
		if b.unsupported[k] {
			return nil, fmt.Errorf("observation kind %q not supported", k)
		}
	}
	sub := &Subscription{bus: b, fn: fn, kinds: map[model.EntryKind]bool{}}
	for _, k := range kinds {
		sub.kinds[k] = true
	}
	b.subs = append(b.subs, sub)
	return sub, nil
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers one entry to all matching subscribers and records
// paint/navigation entries on the timeline.
func (b *Bus) Publish(e model.Entry) {
	b.mu.Lock()
	switch v := e.(type) {
	case model.PaintEntry:
		b.paints = append(b.paints, v)
	case model.NavigationEntry:
		nav := v
		b.nav = &nav
	}
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kinds[e.Kind()] {
			subs = append(subs, s)
		}
	}
	b.mu.Unlock()

	// Handlers run outside the lock so they can publish or unsubscribe.
	for _, s := range subs {
		s.fn(e)
	}
}

// PaintTimeline returns a copy of all paint entries published so far.
func (b *Bus) PaintTimeline() []model.PaintEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.PaintEntry, len(b.paints))
	copy(out, b.paints)
	return out
}

// Navigation returns the navigation-timing entry, or nil if none arrived.
func (b *Bus) Navigation() *model.NavigationEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nav == nil {
		return nil
	}
	nav := *b.nav
	return &nav
}
