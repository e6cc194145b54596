package build

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type buildEvent struct {
	res *Result
	err error
}

func waitBuild(t *testing.T, events <-chan buildEvent) buildEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for build")
	}
	return buildEvent{}
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	ctx, env := setupTestEnv(t)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dir := t.TempDir()
	src := writeRecipe(t, dir, "styles.yaml", sampleRecipe)
	b := newBuilder(env, Options{Src: src, Dst: filepath.Join(dir, "out")}, env.Log)
	defer b.close()

	events := make(chan buildEvent, 4)
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, b, func(res *Result, err error) {
			select {
			case events <- buildEvent{res, err}:
			default:
			}
		})
	}()

	first := waitBuild(t, events)
	if first.err != nil {
		t.Fatalf("initial build error = %v", first.err)
	}

	// unrelated files in the same directory are ignored
	writeRecipe(t, dir, "notes.txt", "x")

	writeRecipe(t, dir, "styles.yaml", sampleRecipe+strings.TrimPrefix(cardRecipe, "styles:\n"))
	second := waitBuild(t, events)
	if second.err != nil {
		t.Fatalf("rebuild error = %v", second.err)
	}
	if second.res.Classes["button"] != first.res.Classes["button"] {
		t.Errorf("unchanged style got new classes %q", second.res.Classes["button"])
	}
	if second.res.Classes["card"] != "m_6" {
		t.Errorf("card = %q, want m_6", second.res.Classes["card"])
	}

	// broken recipe does not stop watching
	writeRecipe(t, dir, "styles.yaml", "styles: [")
	if bad := waitBuild(t, events); bad.err == nil {
		t.Error("expected rebuild error for broken recipe")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_InitialBuildFailure(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dir := t.TempDir()
	b := newBuilder(env, Options{Src: filepath.Join(dir, "absent.yaml"), Dst: dir}, env.Log)

	var calls int
	err := watch(ctx, b, func(*Result, error) { calls++ })
	if err == nil {
		t.Error("expected error when recipe is absent")
	}
	if calls != 1 {
		t.Errorf("notify called %d times, want 1", calls)
	}
}
