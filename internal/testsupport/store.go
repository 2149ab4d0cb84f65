package testsupport

import (
	"context"
	"testing"

	"reelcut/internal/config"
	"reelcut/internal/scene"
)

// MustOpenStore opens a scene.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *scene.Store {
	t.Helper()

	store, err := scene.Open(cfg)
	if err != nil {
		t.Fatalf("scene.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddScene inserts a minimal video scene for tests using the provided store.
func AddScene(t testing.TB, store *scene.Store, title, mediaURL string) *scene.Scene {
	t.Helper()

	sc := &scene.Scene{
		Title:     title,
		MediaURL:  mediaURL,
		MediaKind: scene.KindVideo,
	}
	if err := store.Add(context.Background(), sc); err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return sc
}
