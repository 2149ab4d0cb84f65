package daemon_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"reelcut/internal/config"
	"reelcut/internal/daemon"
	"reelcut/internal/editor"
	"reelcut/internal/media/ffprobe"
	"reelcut/internal/preview"
	"reelcut/internal/scene"
	"reelcut/internal/services"
	"reelcut/internal/testsupport"
)

type noopBridge struct {
	mu        sync.Mutex
	shutdowns int
}

func (b *noopBridge) Initialize(string, preview.MediaKind, float64) {}
func (b *noopBridge) Play()                                         {}
func (b *noopBridge) Pause()                                        {}
func (b *noopBridge) Seek(float64)                                  {}
func (b *noopBridge) State() preview.PlaybackState                  { return preview.PlaybackState{} }

func (b *noopBridge) Shutdown() {
	b.mu.Lock()
	b.shutdowns++
	b.mu.Unlock()
}

func newTestDaemon(t *testing.T, cfg *config.Config, store *scene.Store) (*daemon.Daemon, *noopBridge) {
	t.Helper()
	bridge := &noopBridge{}
	ed := editor.NewManager(editor.Options{
		Config: cfg,
		Store:  store,
		Probe: func(context.Context, string) (ffprobe.Result, error) {
			return ffprobe.Result{}, nil
		},
		Bridge: func(preview.Options) editor.Bridge { return bridge },
	})
	d, err := daemon.New(cfg, store, ed, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Stop() })
	return d, bridge
}

func TestStartStopLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	d, _ := newTestDaemon(t, cfg, store)

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !d.Status(ctx).Running {
		t.Fatal("expected running status")
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected error starting twice")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected stopped status")
	}
	// Stop is idempotent.
	d.Stop()
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)

	first, _ := newTestDaemon(t, cfg, store)
	second, _ := newTestDaemon(t, cfg, store)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start first: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected second instance to be rejected")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start after release: %v", err)
	}
}

func TestRemoveSceneClosesItsPreview(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, bridge := newTestDaemon(t, cfg, store)

	ctx := context.Background()
	sc := testsupport.AddScene(t, store, "Doomed", "/media/doomed.mp4")
	if err := d.OpenPreview(ctx, sc.ID); err != nil {
		t.Fatalf("OpenPreview: %v", err)
	}

	if err := d.RemoveScene(ctx, sc.ID); err != nil {
		t.Fatalf("RemoveScene: %v", err)
	}

	bridge.mu.Lock()
	shutdowns := bridge.shutdowns
	bridge.mu.Unlock()
	if shutdowns == 0 {
		t.Fatal("expected preview shutdown before scene removal")
	}
	if st := d.PreviewStatus(); st.Active {
		t.Fatal("expected inactive session after removal")
	}
}

func TestGenerateNarrationRequiresClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, _ := newTestDaemon(t, cfg, store)

	sc := testsupport.AddScene(t, store, "Silent", "/media/s.mp4")
	if _, err := d.GenerateNarration(context.Background(), sc.ID); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestStatusIncludesSceneHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, _ := newTestDaemon(t, cfg, store)

	testsupport.AddScene(t, store, "One", "/media/1.mp4")
	testsupport.AddScene(t, store, "Two", "/media/2.mp4")

	status := d.Status(context.Background())
	if status.Scenes.Total != 2 {
		t.Fatalf("scene total = %d, want 2", status.Scenes.Total)
	}
	if status.SceneDBPath == "" || status.LockPath == "" {
		t.Fatalf("expected paths in status: %#v", status)
	}
	if len(status.Dependencies) == 0 {
		t.Fatal("expected dependency statuses")
	}
}
