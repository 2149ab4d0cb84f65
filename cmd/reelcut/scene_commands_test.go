package main

import (
	"strings"
	"testing"

	"reelcut/internal/ipc"
)

func TestSceneLifecycleViaCLI(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"scene", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene list: %v", err)
	}
	requireContains(t, out, "Project is empty")

	out, _, err = runCLI(t, []string{
		"scene", "add", "/media/intro.mp4",
		"--title", "Intro",
		"--trim-start", "1.5",
	}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene add: %v", err)
	}
	requireContains(t, out, "Added scene")

	id := addedSceneID(t, env)

	out, _, err = runCLI(t, []string{"scene", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene list: %v", err)
	}
	requireContains(t, out, "Intro")
	requireContains(t, out, "/media/intro.mp4")

	out, _, err = runCLI(t, []string{"scene", "show", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene show: %v", err)
	}
	requireContains(t, out, "Intro")
	requireContains(t, out, "1.50s")

	out, _, err = runCLI(t, []string{"scene", "set", id, "--title", "Opening"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene set: %v", err)
	}
	requireContains(t, out, "Updated scene")

	out, _, err = runCLI(t, []string{"scene", "show", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene show after set: %v", err)
	}
	requireContains(t, out, "Opening")

	out, _, err = runCLI(t, []string{"scene", "health"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene health: %v", err)
	}
	requireContains(t, out, "Total")

	out, _, err = runCLI(t, []string{"scene", "rm", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("scene rm: %v", err)
	}
	requireContains(t, out, "Removed scene")
}

func TestSceneSetRequiresAField(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"scene", "set", "some-id"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected error when no update flags are passed")
	}
	if !strings.Contains(err.Error(), "no fields to update") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSceneAddRejectsUnknownKind(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{
		"scene", "add", "/media/clip.mp4", "--kind", "hologram",
	}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown media kind")
	}
}

func addedSceneID(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	client, err := ipc.Dial(env.socketPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	resp, err := client.SceneList()
	if err != nil {
		t.Fatalf("SceneList: %v", err)
	}
	if len(resp.Scenes) == 0 {
		t.Fatal("expected at least one scene")
	}
	return resp.Scenes[len(resp.Scenes)-1].ID
}
