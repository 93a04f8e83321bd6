package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/toolgate/toolgate/internal/testutil"
)

func TestStoreLoadPublishesSnapshot(t *testing.T) {
	dir := testutil.WriteConfigDir(t, map[string]string{
		"rules/a.md": validRule,
	})

	store := NewStore(dir)
	if store.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", store.Dir(), dir)
	}
	if store.Snapshot() != nil {
		t.Fatal("snapshot should be nil before first load")
	}

	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	snap := store.Snapshot()
	if snap == nil {
		t.Fatal("no snapshot published after Load")
	}
	if len(snap.Rules) != 1 {
		t.Errorf("snapshot has %d rules, want 1", len(snap.Rules))
	}
}

func TestStoreKeepsOldSnapshotOnFailedReload(t *testing.T) {
	dir := testutil.WriteConfigDir(t, map[string]string{
		"rules/a.md": validRule,
	})

	store := NewStore(dir)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	first := store.Snapshot()

	// Break the config on disk, then reload. The failed load must not
	// clobber the published snapshot.
	bad := filepath.Join(dir, "rules", "bad.md")
	if err := os.WriteFile(bad, []byte("no frontmatter here\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := store.Load(); err == nil {
		t.Fatal("expected reload to fail")
	}
	if store.Snapshot() != first {
		t.Error("failed reload replaced the live snapshot")
	}
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	dir := testutil.WriteConfigDir(t, map[string]string{
		"rules/a.md": validRule,
	})

	store := NewStore(dir)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	first := store.Snapshot()

	more := filepath.Join(dir, "rules", "b.md")
	extra := "---\nname: second\nevent: PreToolUse\npattern: x\noperator: contains\naction: ask\n---\n"
	if err := os.WriteFile(more, []byte(extra), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	second := store.Snapshot()
	if second == first {
		t.Fatal("reload should produce a new snapshot")
	}
	if len(first.Rules) != 1 || len(second.Rules) != 2 {
		t.Errorf("snapshots not independent: first has %d rules, second has %d", len(first.Rules), len(second.Rules))
	}
}
