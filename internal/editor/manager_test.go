package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"reelcut/internal/media/ffprobe"
	"reelcut/internal/preview"
	"reelcut/internal/scene"
	"reelcut/internal/services"
	"reelcut/internal/testsupport"
)

type recordingBridge struct {
	mu          sync.Mutex
	initializes []initializeCall
	seeks       []float64
	plays       int
	pauses      int
	shutdowns   int
	state       preview.PlaybackState
}

type initializeCall struct {
	url    string
	kind   preview.MediaKind
	aspect float64
}

func (b *recordingBridge) Initialize(url string, kind preview.MediaKind, aspect float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initializes = append(b.initializes, initializeCall{url, kind, aspect})
}

func (b *recordingBridge) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.plays++
}

func (b *recordingBridge) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pauses++
}

func (b *recordingBridge) Seek(seconds float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seeks = append(b.seeks, seconds)
}

func (b *recordingBridge) State() preview.PlaybackState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *recordingBridge) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdowns++
}

func (b *recordingBridge) setState(st preview.PlaybackState) {
	b.mu.Lock()
	b.state = st
	b.mu.Unlock()
}

type managerHarness struct {
	manager *Manager
	bridge  *recordingBridge
	store   *scene.Store
	hooks   preview.Hooks
}

func newHarness(t *testing.T, probe ProbeFunc) *managerHarness {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	h := &managerHarness{bridge: &recordingBridge{}, store: store}
	if probe == nil {
		probe = func(context.Context, string) (ffprobe.Result, error) {
			return ffprobe.Result{
				Streams: []ffprobe.Stream{{CodecType: "video", Width: 1920, Height: 1080}},
			}, nil
		}
	}
	h.manager = NewManager(Options{
		Config: cfg,
		Store:  store,
		Probe:  probe,
		Bridge: func(opts preview.Options) Bridge {
			h.hooks = opts.Hooks
			return h.bridge
		},
	})
	return h
}

func TestManagerDefaultsSurfaceAndPollFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Preview.Display = ":5"
	cfg.Preview.WindowID = 99
	cfg.Preview.PositionPollMS = 125
	store := testsupport.MustOpenStore(t, cfg)

	var captured preview.Options
	NewManager(Options{
		Config: cfg,
		Store:  store,
		Bridge: func(opts preview.Options) Bridge {
			captured = opts
			return &recordingBridge{}
		},
	})

	if captured.Surface == nil {
		t.Fatal("manager left the surface provider unset")
	}
	surface := captured.Surface()
	if surface == nil || surface.Display != ":5" || surface.WindowID != 99 {
		t.Fatalf("surface = %+v, want display :5 window 99", surface)
	}
	if captured.PositionPollMS != 125 {
		t.Fatalf("position poll = %d, want 125", captured.PositionPollMS)
	}
}

func TestOpenInitializesBridgeWithAspectHint(t *testing.T) {
	h := newHarness(t, nil)
	sc := testsupport.AddScene(t, h.store, "Opening", "/media/opening.mp4")

	if err := h.manager.Open(context.Background(), sc.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}

	h.bridge.mu.Lock()
	defer h.bridge.mu.Unlock()
	if len(h.bridge.initializes) != 1 {
		t.Fatalf("initializes = %d, want 1", len(h.bridge.initializes))
	}
	call := h.bridge.initializes[0]
	if call.url != "/media/opening.mp4" || call.kind != preview.MediaKindVideo {
		t.Fatalf("unexpected initialize call: %#v", call)
	}
	if diff := call.aspect - 16.0/9.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("aspect = %v, want 16:9", call.aspect)
	}
}

func TestOpenUnknownSceneFails(t *testing.T) {
	h := newHarness(t, nil)
	err := h.manager.Open(context.Background(), "no-such-scene")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	h.bridge.mu.Lock()
	defer h.bridge.mu.Unlock()
	if len(h.bridge.initializes) != 0 {
		t.Fatal("bridge initialized for missing scene")
	}
}

func TestOpenToleratesProbeFailure(t *testing.T) {
	h := newHarness(t, func(context.Context, string) (ffprobe.Result, error) {
		return ffprobe.Result{}, errors.New("probe exploded")
	})
	sc := testsupport.AddScene(t, h.store, "Unprobed", "/media/unprobed.mp4")

	if err := h.manager.Open(context.Background(), sc.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}
	h.bridge.mu.Lock()
	defer h.bridge.mu.Unlock()
	if len(h.bridge.initializes) != 1 || h.bridge.initializes[0].aspect != 0 {
		t.Fatalf("unexpected initialize calls: %#v", h.bridge.initializes)
	}
}

func TestSeekClampsToTrimWindow(t *testing.T) {
	h := newHarness(t, nil)
	sc := &scene.Scene{
		MediaURL:  "/media/trimmed.mp4",
		MediaKind: scene.KindVideo,
		TrimStart: 2,
		TrimEnd:   8,
	}
	if err := h.store.Add(context.Background(), sc); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := h.manager.Open(context.Background(), sc.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}
	h.bridge.setState(preview.PlaybackState{Ready: true, Duration: 12.5})

	cases := []struct {
		seek float64
		want float64
	}{
		{5, 5},
		{0, 2},
		{20, 8},
		{-3, 2},
	}
	for _, tc := range cases {
		if err := h.manager.Seek(tc.seek); err != nil {
			t.Fatalf("Seek(%v): %v", tc.seek, err)
		}
	}

	h.bridge.mu.Lock()
	defer h.bridge.mu.Unlock()
	for i, tc := range cases {
		if h.bridge.seeks[i] != tc.want {
			t.Fatalf("seek %d: bridge received %v, want %v", i, h.bridge.seeks[i], tc.want)
		}
	}
}

func TestSeekBeforeReadyClampsToStoredTrim(t *testing.T) {
	h := newHarness(t, nil)
	sc := &scene.Scene{
		MediaURL:  "/media/trimmed.mp4",
		MediaKind: scene.KindVideo,
		TrimStart: 1,
	}
	if err := h.store.Add(context.Background(), sc); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := h.manager.Open(context.Background(), sc.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Not ready and no trim end: only the start boundary applies.
	if err := h.manager.Seek(0.25); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if err := h.manager.Seek(500); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	h.bridge.mu.Lock()
	defer h.bridge.mu.Unlock()
	if h.bridge.seeks[0] != 1 {
		t.Fatalf("seek below trim start = %v, want 1", h.bridge.seeks[0])
	}
	if h.bridge.seeks[1] != 500 {
		t.Fatalf("unbounded seek = %v, want passthrough 500", h.bridge.seeks[1])
	}
}

func TestOperationsWithoutSessionFail(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.manager.Play(); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Play err = %v, want not found", err)
	}
	if err := h.manager.Pause(); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Pause err = %v, want not found", err)
	}
	if err := h.manager.Seek(3); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Seek err = %v, want not found", err)
	}
	if st := h.manager.Status(); st.Active {
		t.Fatal("expected inactive status")
	}
}

func TestStatusReflectsBridgeAndHooks(t *testing.T) {
	h := newHarness(t, nil)
	sc := testsupport.AddScene(t, h.store, "Tracked", "/media/tracked.mp4")
	if err := h.manager.Open(context.Background(), sc.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}

	h.hooks.OnDurationChange(12.5)
	h.bridge.setState(preview.PlaybackState{Ready: true, Duration: 12.5, CurrentTime: 3})

	st := h.manager.Status()
	if !st.Active || st.SceneID != sc.ID || !st.Ready || st.Duration != 12.5 || st.CurrentTime != 3 {
		t.Fatalf("unexpected status: %#v", st)
	}

	// Discovered duration is persisted back onto the scene.
	stored, err := h.store.GetByID(context.Background(), sc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Duration != 12.5 {
		t.Fatalf("stored duration = %v, want 12.5", stored.Duration)
	}

	h.hooks.OnError(errors.New("engine fell over"))
	st = h.manager.Status()
	if st.LastError == "" {
		t.Fatal("expected last error to be recorded")
	}
}

func TestCloseShutsBridgeDown(t *testing.T) {
	h := newHarness(t, nil)
	sc := testsupport.AddScene(t, h.store, "Closable", "/media/c.mp4")
	if err := h.manager.Open(context.Background(), sc.ID); err != nil {
		t.Fatalf("Open: %v", err)
	}

	h.manager.Close()
	h.manager.Close()

	h.bridge.mu.Lock()
	shutdowns := h.bridge.shutdowns
	h.bridge.mu.Unlock()
	if shutdowns != 2 {
		t.Fatalf("shutdowns = %d, want 2 (idempotent delegate)", shutdowns)
	}
	if st := h.manager.Status(); st.Active {
		t.Fatal("expected inactive status after close")
	}
}
