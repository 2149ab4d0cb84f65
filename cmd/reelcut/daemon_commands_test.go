package main

import (
	"testing"
)

func TestStatusCommandRendersSections(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Daemon ==")
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "== Preview Session ==")
	requireContains(t, out, "no scene open")
}

func TestPreviewStatusWithoutSession(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"preview", "status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("preview status: %v", err)
	}
	requireContains(t, out, "no scene open")
}

func TestPreviewRoundTripViaCLI(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"scene", "add", "/media/clip.mp4", "--title", "Clip"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene add: %v", err)
	}
	id := addedSceneID(t, env)

	out, _, err := runCLI(t, []string{"preview", "open", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("preview open: %v", err)
	}
	requireContains(t, out, "Opened scene")

	out, _, err = runCLI(t, []string{"preview", "play"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("preview play: %v", err)
	}
	requireContains(t, out, "Playing")

	out, _, err = runCLI(t, []string{"preview", "seek", "2.5"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("preview seek: %v", err)
	}
	requireContains(t, out, "2.50s")

	out, _, err = runCLI(t, []string{"preview", "pause"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("preview pause: %v", err)
	}
	requireContains(t, out, "Paused")

	out, _, err = runCLI(t, []string{"preview", "close"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("preview close: %v", err)
	}
	requireContains(t, out, "Preview closed")
}

func TestSeekRejectsNonNumericPosition(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"preview", "seek", "abc"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected parse error for non-numeric seek position")
	}
}

func TestNarrateWithoutServiceFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"scene", "add", "/media/clip.mp4"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene add: %v", err)
	}
	id := addedSceneID(t, env)

	if _, _, err := runCLI(t, []string{"narrate", id}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error when narration is disabled")
	}
}

func TestStopCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"stop"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, out, "Daemon stopped")
}
