package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"reelcut/internal/logging"
)

var (
	// ErrSurfaceUnavailable indicates the drawing surface had not been
	// provided when context creation was requested. Recoverable: callers
	// retry once the surface exists.
	ErrSurfaceUnavailable = errors.New("render: surface unavailable")
	// ErrContextCreation indicates the engine failed during construction.
	ErrContextCreation = errors.New("render: context creation failed")
)

// Surface identifies where the engine draws: a display plus an optional
// window the engine should embed into. A nil surface means the hosting
// window has not been mounted yet.
type Surface struct {
	Display  string
	WindowID int64
}

// Geometry is the pixel size of the compositing context.
type Geometry struct {
	Width  int
	Height int
}

// Options describes how a context is sized.
type Options struct {
	// AspectRatio is width divided by height. Values <= 0 fall back to 16:9.
	AspectRatio float64
	// BaseSize fixes the longer output dimension in pixels.
	BaseSize int
}

// Context is a live compositing context. It is owned exclusively by one
// bridge instance and never shared across scenes.
type Context struct {
	engine Engine
	geom   Geometry
	logger *slog.Logger

	mu       sync.Mutex
	disposed bool
}

// GeometryFor computes pixel dimensions from an aspect-ratio hint: the longer
// dimension is fixed at baseSize and the other is derived from the ratio,
// rounded to the nearest integer pixel.
func GeometryFor(aspectRatio float64, baseSize int) Geometry {
	if aspectRatio <= 0 || math.IsNaN(aspectRatio) || math.IsInf(aspectRatio, 0) {
		aspectRatio = 16.0 / 9.0
	}
	if baseSize <= 0 {
		baseSize = 1280
	}
	if aspectRatio >= 1 {
		return Geometry{
			Width:  baseSize,
			Height: int(math.Round(float64(baseSize) / aspectRatio)),
		}
	}
	return Geometry{
		Width:  int(math.Round(float64(baseSize) * aspectRatio)),
		Height: baseSize,
	}
}

// Prepare constructs a ready-to-use compositing context bound to the given
// surface. It fails with ErrSurfaceUnavailable when surface is nil and with
// ErrContextCreation when the engine launcher fails.
func Prepare(launcher Launcher, surface *Surface, opts Options, logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "render")

	if surface == nil {
		return nil, ErrSurfaceUnavailable
	}
	if launcher == nil {
		return nil, fmt.Errorf("%w: no engine launcher", ErrContextCreation)
	}

	geom := GeometryFor(opts.AspectRatio, opts.BaseSize)
	engine, err := launcher(*surface, geom)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextCreation, err)
	}

	logger.Debug("rendering context prepared",
		logging.Int("width", geom.Width),
		logging.Int("height", geom.Height))

	return &Context{engine: engine, geom: geom, logger: logger}, nil
}

// Engine exposes the underlying engine to the source node layer.
func (c *Context) Engine() Engine {
	if c == nil {
		return nil
	}
	return c.engine
}

// Geometry returns the context's pixel dimensions.
func (c *Context) Geometry() Geometry {
	return c.geom
}

// Disposed reports whether Dispose has run.
func (c *Context) Disposed() bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Dispose resets the engine's node graph and releases the process. Errors are
// logged rather than returned: disposal happens during teardown where the
// caller can no longer act on them, and a failing teardown must never block
// construction of a replacement context. Dispose is idempotent.
func (c *Context) Dispose() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	if err := c.engine.Unload(); err != nil {
		c.logger.Debug("engine unload during dispose", logging.Error(err))
	}
	if err := c.engine.Close(); err != nil {
		c.logger.Warn("engine close during dispose", logging.Error(err))
	}
	c.logger.Debug("rendering context disposed")
}
