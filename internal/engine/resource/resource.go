// Package resource tracks GPU objects and event subscriptions owned by a viewer
// and guarantees each is released exactly once.
package resource

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Kind classifies a tracked resource.
type Kind int

const (
	KindBuffer Kind = iota
	KindTexture
	KindProgram
	KindRenderTarget
	KindSubscription
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindTexture:
		return "texture"
	case KindProgram:
		return "program"
	case KindRenderTarget:
		return "render-target"
	case KindSubscription:
		return "subscription"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Handle is a single tracked resource.
type Handle struct {
	kind    Kind
	name    string
	release func() error

	mgr  *Manager
	once sync.Once
	err  error
}

// Kind returns the resource kind.
func (h *Handle) Kind() Kind { return h.kind }

// Name returns the debug name given at registration.
func (h *Handle) Name() string { return h.name }

// Release frees the resource. Further calls return the first result.
func (h *Handle) Release() error {
	h.once.Do(func() {
		if h.release != nil {
			h.err = h.release()
		}
		h.mgr.forget(h)
	})
	return h.err
}

// Manager owns the set of live handles.
type Manager struct {
	log *zap.Logger

	mu       sync.Mutex
	live     []*Handle
	released int
	disposed bool
}

// NewManager creates an empty manager.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// Track registers a resource. Tracking after Dispose releases the resource
// immediately and returns its handle already released.
func (m *Manager) Track(kind Kind, name string, release func() error) *Handle {
	h := &Handle{kind: kind, name: name, release: release, mgr: m}

	m.mu.Lock()
	disposed := m.disposed
	if !disposed {
		m.live = append(m.live, h)
	}
	m.mu.Unlock()

	if disposed {
		m.log.Warn("resource tracked after dispose, releasing", zap.Stringer("kind", kind), zap.String("name", name))
		_ = h.Release()
	}
	return h
}

func (m *Manager) forget(h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
	for i, lh := range m.live {
		if lh == h {
			m.live = append(m.live[:i], m.live[i+1:]...)
			return
		}
	}
}

// Dispose releases every live handle in reverse registration order. It is
// idempotent; only the first call does work.
func (m *Manager) Dispose() error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return nil
	}
	m.disposed = true
	live := make([]*Handle, len(m.live))
	copy(live, m.live)
	m.mu.Unlock()

	var errs error
	for i := len(live) - 1; i >= 0; i-- {
		h := live[i]
		if err := h.Release(); err != nil {
			m.log.Warn("release failed", zap.Stringer("kind", h.kind), zap.String("name", h.name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s %q: %w", h.kind, h.name, err))
		}
	}

	m.log.Debug("resources disposed", zap.Int("released", len(live)))
	return errs
}

// Disposed reports whether Dispose has been called.
func (m *Manager) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

// Live returns the number of tracked, unreleased resources.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// LiveOf returns the number of live resources of one kind.
func (m *Manager) LiveOf(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.live {
		if h.kind == kind {
			n++
		}
	}
	return n
}

// Released returns how many resources have been released so far.
func (m *Manager) Released() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Group collects handles that share a lifetime, such as the buffers of one
// attached model.
type Group struct {
	handles []*Handle
}

// Add appends a handle to the group.
func (g *Group) Add(h *Handle) {
	g.handles = append(g.handles, h)
}

// Len returns the number of handles in the group.
func (g *Group) Len() int { return len(g.handles) }

// Release releases every handle in the group and empties it.
func (g *Group) Release() error {
	var errs error
	for i := len(g.handles) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, g.handles[i].Release())
	}
	g.handles = nil
	return errs
}
