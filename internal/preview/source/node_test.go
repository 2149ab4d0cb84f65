package source

import (
	"errors"
	"math"
	"sync"
	"testing"

	"reelcut/internal/preview/render"
)

type scriptedEngine struct {
	mu          sync.Mutex
	handler     func(render.Event)
	loadedURL   string
	loadErr     error
	observeErr  error
	duration    float64
	durationErr error
	playing     bool
	playNoOp    bool
	unpauses    int
	unloadCount int
}

func (e *scriptedEngine) Load(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loadErr != nil {
		return e.loadErr
	}
	e.loadedURL = url
	return nil
}

func (e *scriptedEngine) Unload() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloadCount++
	return nil
}

func (e *scriptedEngine) SetPaused(paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !paused {
		e.unpauses++
		if e.playNoOp {
			e.playNoOp = false
			return nil
		}
		e.playing = true
	} else {
		e.playing = false
	}
	return nil
}

func (e *scriptedEngine) Seek(float64) error        { return nil }
func (e *scriptedEngine) SetPosition(float64) error { return nil }

func (e *scriptedEngine) Position() (float64, error) { return 0, nil }

func (e *scriptedEngine) Duration() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration, e.durationErr
}

func (e *scriptedEngine) Playing() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing, nil
}

func (e *scriptedEngine) Observe(handler func(render.Event)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.observeErr != nil {
		return e.observeErr
	}
	e.handler = handler
	return nil
}

func (e *scriptedEngine) Close() error { return nil }

func (e *scriptedEngine) fire(ev render.Event) {
	e.mu.Lock()
	handler := e.handler
	e.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

func newTestContext(t *testing.T, engine *scriptedEngine) *render.Context {
	t.Helper()
	launcher := func(render.Surface, render.Geometry) (render.Engine, error) { return engine, nil }
	ctx, err := render.Prepare(launcher, &render.Surface{Display: ":0"}, render.Options{AspectRatio: 1, BaseSize: 640}, nil)
	if err != nil {
		t.Fatalf("render.Prepare: %v", err)
	}
	return ctx
}

type nodeRecorder struct {
	mu        sync.Mutex
	loaded    []float64
	errs      []error
	positions []float64
	ended     int
}

func (r *nodeRecorder) callbacks() Callbacks {
	return Callbacks{
		OnLoaded: func(d float64) {
			r.mu.Lock()
			r.loaded = append(r.loaded, d)
			r.mu.Unlock()
		},
		OnError: func(err error) {
			r.mu.Lock()
			r.errs = append(r.errs, err)
			r.mu.Unlock()
		},
		OnPosition: func(p float64) {
			r.mu.Lock()
			r.positions = append(r.positions, p)
			r.mu.Unlock()
		},
		OnEnded: func() {
			r.mu.Lock()
			r.ended++
			r.mu.Unlock()
		},
	}
}

func TestCreateRequiresContext(t *testing.T) {
	if _, err := Create(nil, "a.mp4", Callbacks{}, nil); !errors.Is(err, ErrNodeCreation) {
		t.Fatalf("err = %v, want ErrNodeCreation", err)
	}
}

func TestCreateRequiresURL(t *testing.T) {
	ctx := newTestContext(t, &scriptedEngine{})
	if _, err := Create(ctx, "", Callbacks{}, nil); !errors.Is(err, ErrNodeCreation) {
		t.Fatalf("err = %v, want ErrNodeCreation", err)
	}
}

func TestCreateWrapsLoadFailure(t *testing.T) {
	engine := &scriptedEngine{loadErr: errors.New("bad target")}
	ctx := newTestContext(t, engine)
	if _, err := Create(ctx, "a.mp4", Callbacks{}, nil); !errors.Is(err, ErrNodeCreation) {
		t.Fatalf("err = %v, want ErrNodeCreation", err)
	}
}

func TestCreateWrapsObserveFailure(t *testing.T) {
	engine := &scriptedEngine{observeErr: errors.New("no socket")}
	ctx := newTestContext(t, engine)
	if _, err := Create(ctx, "a.mp4", Callbacks{}, nil); !errors.Is(err, ErrNodeCreation) {
		t.Fatalf("err = %v, want ErrNodeCreation", err)
	}
}

func TestLoadedWithFiniteDurationReachesReady(t *testing.T) {
	engine := &scriptedEngine{duration: 42.25}
	ctx := newTestContext(t, engine)
	recorder := &nodeRecorder{}

	node, err := Create(ctx, "a.mp4", recorder.callbacks(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if node.State() != StatePending {
		t.Fatalf("state = %q, want pending", node.State())
	}
	if node.Bound() != PlayableCeiling {
		t.Fatalf("bound before load = %v, want ceiling", node.Bound())
	}

	engine.fire(render.Event{Kind: render.EventLoaded})

	if node.State() != StateReady {
		t.Fatalf("state = %q, want ready", node.State())
	}
	if node.Duration() != 42.25 {
		t.Fatalf("duration = %v, want 42.25", node.Duration())
	}
	if node.Bound() != 42.25 {
		t.Fatalf("bound after load = %v, want 42.25", node.Bound())
	}
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.loaded) != 1 || recorder.loaded[0] != 42.25 {
		t.Fatalf("OnLoaded = %v, want [42.25]", recorder.loaded)
	}
}

func TestLoadedWithUnusableDurationParksInvalid(t *testing.T) {
	for name, duration := range map[string]float64{
		"zero":     0,
		"negative": -1,
		"infinite": math.Inf(1),
		"nan":      math.NaN(),
	} {
		t.Run(name, func(t *testing.T) {
			engine := &scriptedEngine{duration: duration}
			ctx := newTestContext(t, engine)
			recorder := &nodeRecorder{}

			node, err := Create(ctx, "a.mp4", recorder.callbacks(), nil)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			engine.fire(render.Event{Kind: render.EventLoaded})

			if node.State() != StateInvalid {
				t.Fatalf("state = %q, want invalid", node.State())
			}
			recorder.mu.Lock()
			defer recorder.mu.Unlock()
			if len(recorder.loaded) != 0 {
				t.Fatalf("OnLoaded fired for unusable duration: %v", recorder.loaded)
			}
			if len(recorder.errs) != 0 {
				t.Fatalf("OnError fired for unusable duration: %v", recorder.errs)
			}
		})
	}
}

func TestDurationReadFailureParksInvalid(t *testing.T) {
	engine := &scriptedEngine{durationErr: errors.New("property unavailable")}
	ctx := newTestContext(t, engine)
	node, err := Create(ctx, "a.mp4", Callbacks{}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	engine.fire(render.Event{Kind: render.EventLoaded})
	if node.State() != StateInvalid {
		t.Fatalf("state = %q, want invalid", node.State())
	}
}

func TestErrorTransitionsToFailedOnce(t *testing.T) {
	engine := &scriptedEngine{duration: 10}
	ctx := newTestContext(t, engine)
	recorder := &nodeRecorder{}

	node, err := Create(ctx, "a.mp4", recorder.callbacks(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	engine.fire(render.Event{Kind: render.EventError, Err: errors.New("bad stream")})
	engine.fire(render.Event{Kind: render.EventError, Err: errors.New("bad stream")})

	if node.State() != StateFailed {
		t.Fatalf("state = %q, want failed", node.State())
	}
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.errs) != 1 {
		t.Fatalf("OnError fired %d times, want exactly 1", len(recorder.errs))
	}
	if !errors.Is(recorder.errs[0], ErrMediaDecode) {
		t.Fatalf("error = %v, want ErrMediaDecode", recorder.errs[0])
	}
}

func TestErrorAfterReadyStillFails(t *testing.T) {
	engine := &scriptedEngine{duration: 10}
	ctx := newTestContext(t, engine)
	recorder := &nodeRecorder{}

	node, err := Create(ctx, "a.mp4", recorder.callbacks(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	engine.fire(render.Event{Kind: render.EventLoaded})
	if node.State() != StateReady {
		t.Fatalf("state = %q, want ready", node.State())
	}

	engine.fire(render.Event{Kind: render.EventError, Err: errors.New("mid-playback failure")})
	if node.State() != StateFailed {
		t.Fatalf("state = %q, want failed", node.State())
	}
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.errs) != 1 {
		t.Fatalf("OnError fired %d times, want 1", len(recorder.errs))
	}
}

func TestLoadedAfterReadyIsIgnored(t *testing.T) {
	engine := &scriptedEngine{duration: 10}
	ctx := newTestContext(t, engine)
	recorder := &nodeRecorder{}

	node, err := Create(ctx, "a.mp4", recorder.callbacks(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	engine.fire(render.Event{Kind: render.EventLoaded})
	engine.setDuration(99)
	engine.fire(render.Event{Kind: render.EventLoaded})

	if node.Duration() != 10 {
		t.Fatalf("duration = %v, want the first authoritative read", node.Duration())
	}
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.loaded) != 1 {
		t.Fatalf("OnLoaded fired %d times, want 1", len(recorder.loaded))
	}
}

func TestDetachIsTerminalAndIdempotent(t *testing.T) {
	engine := &scriptedEngine{duration: 10}
	ctx := newTestContext(t, engine)
	recorder := &nodeRecorder{}

	node, err := Create(ctx, "a.mp4", recorder.callbacks(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	node.Detach()
	node.Detach()
	if node.State() != StateDisposed {
		t.Fatalf("state = %q, want disposed", node.State())
	}
	engine.mu.Lock()
	unloads := engine.unloadCount
	engine.mu.Unlock()
	if unloads != 1 {
		t.Fatalf("engine unloaded %d times, want 1", unloads)
	}

	// Events after detach are ignored entirely.
	engine.fire(render.Event{Kind: render.EventLoaded})
	engine.fire(render.Event{Kind: render.EventError, Err: errors.New("late")})
	engine.fire(render.Event{Kind: render.EventPosition, Position: 3})
	engine.fire(render.Event{Kind: render.EventEnded})

	if node.State() != StateDisposed {
		t.Fatalf("state = %q after late events, want disposed", node.State())
	}
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.loaded)+len(recorder.errs)+len(recorder.positions)+recorder.ended != 0 {
		t.Fatal("detached node forwarded engine events")
	}
}

func TestPositionAndEndedForwarding(t *testing.T) {
	engine := &scriptedEngine{duration: 10}
	ctx := newTestContext(t, engine)
	recorder := &nodeRecorder{}

	if _, err := Create(ctx, "a.mp4", recorder.callbacks(), nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	engine.fire(render.Event{Kind: render.EventPosition, Position: 1.5})
	engine.fire(render.Event{Kind: render.EventEnded})

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.positions) != 1 || recorder.positions[0] != 1.5 {
		t.Fatalf("positions = %v, want [1.5]", recorder.positions)
	}
	if recorder.ended != 1 {
		t.Fatalf("ended = %d, want 1", recorder.ended)
	}
}

func TestEnsureStartedReissuesPlay(t *testing.T) {
	engine := &scriptedEngine{duration: 10, playNoOp: true}
	ctx := newTestContext(t, engine)

	node, err := Create(ctx, "a.mp4", Callbacks{}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// First play is swallowed by the engine; EnsureStarted recovers.
	_ = engine.SetPaused(false)
	node.EnsureStarted()

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.playing {
		t.Fatal("node did not re-issue the start command")
	}
	if engine.unpauses != 2 {
		t.Fatalf("unpause issued %d times, want 2", engine.unpauses)
	}
}

func (e *scriptedEngine) setDuration(d float64) {
	e.mu.Lock()
	e.duration = d
	e.mu.Unlock()
}
