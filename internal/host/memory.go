package host

import (
	"sync"
)

// MemoryPage is a Page backed by a map. It is used for headless runs and tests.
type MemoryPage struct {
	mu         sync.Mutex
	containers map[string]*MemoryContainer
}

// NewMemoryPage creates an empty page.
func NewMemoryPage() *MemoryPage {
	return &MemoryPage{containers: make(map[string]*MemoryContainer)}
}

// Add creates and registers a container.
func (p *MemoryPage) Add(id string, width, height int, pixelRatio float64) *MemoryContainer {
	c := &MemoryContainer{
		id:         id,
		width:      width,
		height:     height,
		pixelRatio: pixelRatio,
		resize:     make(map[int]func(int, int)),
		pointer:    make(map[int]func(PointerEvent)),
	}
	p.mu.Lock()
	p.containers[id] = c
	p.mu.Unlock()
	return c
}

// Remove drops a container from the page.
func (p *MemoryPage) Remove(id string) {
	p.mu.Lock()
	delete(p.containers, id)
	p.mu.Unlock()
}

// Container implements Page.
func (p *MemoryPage) Container(id string) (Container, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.containers[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// MemoryContainer is an in-memory Container.
type MemoryContainer struct {
	id string

	mu         sync.Mutex
	width      int
	height     int
	pixelRatio float64
	nextID     int
	resize     map[int]func(int, int)
	pointer    map[int]func(PointerEvent)
	presented  int
}

// ID implements Container.
func (c *MemoryContainer) ID() string { return c.id }

// Size implements Container.
func (c *MemoryContainer) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// PixelRatio implements Container.
func (c *MemoryContainer) PixelRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixelRatio
}

// OnResize implements Container.
func (c *MemoryContainer) OnResize(fn func(int, int)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.resize[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.resize, id)
		c.mu.Unlock()
	}
}

// OnPointer implements Container.
func (c *MemoryContainer) OnPointer(fn func(PointerEvent)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.pointer[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.pointer, id)
		c.mu.Unlock()
	}
}

// Present implements Container.
func (c *MemoryContainer) Present() {
	c.mu.Lock()
	c.presented++
	c.mu.Unlock()
}

// Presented returns how many frames were presented.
func (c *MemoryContainer) Presented() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presented
}

// Subscribers returns the number of live resize and pointer subscriptions.
func (c *MemoryContainer) Subscribers() (resize, pointer int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.resize), len(c.pointer)
}

// Resize changes the size and notifies subscribers synchronously.
func (c *MemoryContainer) Resize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	subs := make([]func(int, int), 0, len(c.resize))
	for _, fn := range c.resize {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(width, height)
	}
}

// SetPixelRatio changes the device pixel ratio without notifying.
func (c *MemoryContainer) SetPixelRatio(r float64) {
	c.mu.Lock()
	c.pixelRatio = r
	c.mu.Unlock()
}

// Dispatch delivers a pointer event to subscribers synchronously.
func (c *MemoryContainer) Dispatch(ev PointerEvent) {
	c.mu.Lock()
	subs := make([]func(PointerEvent), 0, len(c.pointer))
	for _, fn := range c.pointer {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
