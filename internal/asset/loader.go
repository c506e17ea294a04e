// Package asset fetches binary glTF models and converts them into scene
// graphs and animation clips.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glowview/internal/engine/anim"
	"github.com/Faultbox/glowview/internal/engine/scene"
)

// Load errors. Returned errors wrap one of these and the underlying cause.
var (
	ErrFetch  = errors.New("asset: fetch failed")
	ErrDecode = errors.New("asset: decode failed")
	ErrEmpty  = errors.New("asset: no geometry")
)

// Asset is a decoded model ready to attach to a viewer.
type Asset struct {
	URI   string
	Root  *scene.Node
	Clips []*anim.Clip
	Size  int64
}

// Loader fetches and decodes assets. The zero value is not usable; use NewLoader.
type Loader struct {
	client *http.Client
	log    *zap.Logger

	// MaxBytes rejects payloads larger than this. Zero means unlimited.
	MaxBytes int64
	// Timeout bounds a whole load. Zero means none.
	Timeout time.Duration
}

// NewLoader creates a loader. A nil client uses http.DefaultClient.
func NewLoader(client *http.Client, log *zap.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{client: client, log: log.Named("asset")}
}

// Load fetches and decodes uri. progress, if non-nil, receives a
// non-decreasing fraction in [0,1]; 1 is reported exactly once, right
// before a successful return, and never on failure.
func (l *Loader) Load(ctx context.Context, uri string, progress func(float64)) (*Asset, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	rep := &reporter{fn: progress}
	start := time.Now()

	data, err := l.fetch(ctx, uri, rep)
	if err != nil {
		l.log.Warn("fetch failed", zap.String("uri", uri), zap.Error(err))
		return nil, err
	}

	root, clips, err := Decode(data)
	if err != nil {
		l.log.Warn("decode failed", zap.String("uri", uri), zap.Error(err))
		return nil, err
	}

	st := root.Stats()
	l.log.Debug("asset loaded",
		zap.String("uri", uri),
		zap.Int("bytes", len(data)),
		zap.Int("nodes", st.Nodes),
		zap.Int("meshes", st.Meshes),
		zap.Int("vertices", st.Vertices),
		zap.Int("clips", len(clips)),
		zap.Duration("elapsed", time.Since(start)),
	)

	rep.complete()
	return &Asset{URI: uri, Root: root, Clips: clips, Size: int64(len(data))}, nil
}

func (l *Loader) fetch(ctx context.Context, uri string, rep *reporter) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return l.fetchHTTP(ctx, u.String(), rep)
	}
	path, ok := LocalPath(uri)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrFetch, u.Scheme)
	}
	return l.fetchFile(ctx, path, rep)
}

// LocalPath returns the filesystem path a file:// URI or bare path refers to.
// It reports false for remote and unknown schemes.
func LocalPath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "file":
		return filepath.FromSlash(u.Path), true
	case "":
		return filepath.FromSlash(uri), true
	default:
		// Windows drive letters parse as a one-letter scheme.
		if len(u.Scheme) == 1 {
			return uri, true
		}
		return "", false
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, uri string, rep *reporter) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, uri, resp.Status)
	}
	return l.read(ctx, resp.Body, resp.ContentLength, rep)
}

func (l *Loader) fetchFile(ctx context.Context, path string, rep *reporter) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer f.Close()

	size := int64(-1)
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	return l.read(ctx, f, size, rep)
}

const chunkSize = 32 << 10

// read drains r reporting progress against size when it is known.
func (l *Loader) read(ctx context.Context, r io.Reader, size int64, rep *reporter) ([]byte, error) {
	if l.MaxBytes > 0 && size > l.MaxBytes {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds limit of %d", ErrFetch, size, l.MaxBytes)
	}

	var data []byte
	if size > 0 {
		data = make([]byte, 0, size)
	}
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		n, err := r.Read(buf)
		data = append(data, buf[:n]...)
		if l.MaxBytes > 0 && int64(len(data)) > l.MaxBytes {
			return nil, fmt.Errorf("%w: payload exceeds limit of %d bytes", ErrFetch, l.MaxBytes)
		}
		if size > 0 {
			rep.report(float64(len(data)) / float64(size))
		}
		if errors.Is(err, io.EOF) {
			return data, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
	}
}

// reporter keeps progress monotone and holds back 1 until complete.
type reporter struct {
	fn   func(float64)
	last float64
	done bool
}

func (r *reporter) report(f float64) {
	if r.fn == nil || r.done {
		return
	}
	f = math.Min(f, math.Nextafter(1, 0))
	if f <= r.last {
		return
	}
	r.last = f
	r.fn(f)
}

func (r *reporter) complete() {
	if r.fn == nil || r.done {
		return
	}
	r.done = true
	r.last = 1
	r.fn(1)
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Asset *Asset
	Err   error
}

// Pending is an in-flight load started by Start.
type Pending struct {
	URI string

	done     chan Result
	progress atomic.Uint64
	cancel   context.CancelFunc
}

// Start runs Load on a new goroutine. The returned Pending delivers exactly
// one Result on Done and exposes the latest progress value.
func (l *Loader) Start(ctx context.Context, uri string) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{URI: uri, done: make(chan Result, 1), cancel: cancel}

	go func() {
		defer cancel()
		a, err := l.Load(ctx, uri, func(f float64) {
			p.progress.Store(math.Float64bits(f))
		})
		p.done <- Result{Asset: a, Err: err}
	}()
	return p
}

// Done yields the result once the load finishes.
func (p *Pending) Done() <-chan Result { return p.done }

// Progress returns the most recent progress fraction.
func (p *Pending) Progress() float64 {
	return math.Float64frombits(p.progress.Load())
}

// Cancel aborts the load. The result is still delivered.
func (p *Pending) Cancel() { p.cancel() }
