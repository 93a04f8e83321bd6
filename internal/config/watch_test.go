package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/toolgate/toolgate/internal/testutil"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(25 * time.Millisecond)
	}
	return cond()
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := testutil.WriteConfigDir(t, map[string]string{
		"rules/a.md": validRule,
	})

	store := NewStore(dir)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx, nil) }()

	// Let the watcher register before touching the tree.
	time.Sleep(100 * time.Millisecond)

	extra := "---\nname: second\nevent: PreToolUse\npattern: x\noperator: contains\naction: ask\n---\n"
	if err := os.WriteFile(filepath.Join(dir, "rules", "b.md"), []byte(extra), 0o600); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 5*time.Second, func() bool {
		return len(store.Snapshot().Rules) == 2
	}) {
		t.Error("watcher did not pick up the new rule file")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not return after cancel")
	}
}

func TestWatchPicksUpNewSubdirectory(t *testing.T) {
	// No rules/ directory exists when the watcher starts.
	dir := testutil.WriteConfigDir(t, nil)

	store := NewStore(dir)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if len(store.Snapshot().Rules) != 0 {
		t.Fatal("expected an empty snapshot")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Watch(ctx, nil)

	time.Sleep(100 * time.Millisecond)

	rulesDir := filepath.Join(dir, "rules")
	if err := os.MkdirAll(rulesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a chance to pick up the new directory before the
	// first file lands in it.
	time.Sleep(300 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(rulesDir, "a.md"), []byte(validRule), 0o600); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 5*time.Second, func() bool {
		return len(store.Snapshot().Rules) == 1
	}) {
		t.Error("rule added in a post-startup rules/ directory was never loaded")
	}
}

func TestWatchKeepsSnapshotOnBadReload(t *testing.T) {
	dir := testutil.WriteConfigDir(t, map[string]string{
		"rules/a.md": validRule,
	})

	store := NewStore(dir)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	good := store.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reported := make(chan error, 1)
	go func() {
		store.Watch(ctx, func(err error) {
			select {
			case reported <- err:
			default:
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "rules", "bad.md"), []byte("no frontmatter\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-reported:
		if err == nil {
			t.Error("onErr called with nil error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("failed reload was never reported")
	}

	if store.Snapshot() != good {
		t.Error("failed reload replaced the live snapshot")
	}
}
