package imagesync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwnf/legacy-importer/internal/config"
	"github.com/mwnf/legacy-importer/pkg/logger"
)

type fakeStore struct {
	pending map[string][]Image
	updates map[string][]Update
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pending: make(map[string][]Image),
		updates: make(map[string][]Update),
	}
}

func (f *fakeStore) PendingImages(ctx context.Context, table string) ([]Image, error) {
	return f.pending[table], f.err
}

func (f *fakeStore) UpdateImage(ctx context.Context, table string, upd Update) error {
	f.updates[table] = append(f.updates[table], upd)
	return nil
}

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testSyncer(t *testing.T, store Store, symlink, dryRun bool) (*Syncer, config.ImageConfig) {
	t.Helper()
	cfg := config.ImageConfig{
		LegacyRoot: t.TempDir(),
		NewRoot:    t.TempDir(),
		UseSymlink: symlink,
	}
	return New(store, logger.New("error", "text"), cfg, dryRun), cfg
}

func TestSyncerCopiesAndUpdates(t *testing.T) {
	store := newFakeStore()
	store.pending["item_images"] = []Image{
		{ID: 42, Path: "objects/isl/tr/bowl.jpg"},
	}
	syncer, cfg := testSyncer(t, store, false, false)
	writeSource(t, cfg.LegacyRoot, "objects/isl/tr/bowl.jpg", "jpeg-bytes")

	results, ok := syncer.Run(context.Background())
	if !ok {
		t.Fatalf("sync failed: %+v", results)
	}

	dest := filepath.Join(cfg.NewRoot, "item_images", "42.jpg")
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("copied content = %q", data)
	}

	upds := store.updates["item_images"]
	if len(upds) != 1 {
		t.Fatalf("updates = %d, want 1", len(upds))
	}
	upd := upds[0]
	if upd.Path != "42.jpg" {
		t.Fatalf("new path = %q, want bare filename", upd.Path)
	}
	if upd.OriginalName != "objects/isl/tr/bowl.jpg" {
		t.Fatalf("original name = %q, want the legacy path", upd.OriginalName)
	}
	if upd.Size != int64(len("jpeg-bytes")) {
		t.Fatalf("size = %d, want the real byte size", upd.Size)
	}
}

func TestSyncerSymlinkReplacesExisting(t *testing.T) {
	store := newFakeStore()
	store.pending["item_images"] = []Image{{ID: 7, Path: "old/photo.png"}}
	syncer, cfg := testSyncer(t, store, true, false)
	writeSource(t, cfg.LegacyRoot, "old/photo.png", "png-bytes")

	// A stale file from an earlier run sits at the destination.
	destDir := filepath.Join(cfg.NewRoot, "item_images")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(destDir, "7.png")
	if err := os.WriteFile(dest, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := syncer.Run(context.Background()); !ok {
		t.Fatal("sync failed")
	}

	info, err := os.Lstat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatal("destination is not a symlink")
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("symlink resolves to %q", data)
	}
}

func TestSyncerMissingSourceIsIsolated(t *testing.T) {
	store := newFakeStore()
	store.pending["item_images"] = []Image{
		{ID: 1, Path: "gone.jpg"},
		{ID: 2, Path: "here.jpg"},
	}
	syncer, cfg := testSyncer(t, store, false, false)
	writeSource(t, cfg.LegacyRoot, "here.jpg", "x")

	results, ok := syncer.Run(context.Background())
	if ok {
		t.Fatal("a missing source file must fail the run")
	}

	var itemResult *Result
	for _, res := range results {
		if res.Table == "item_images" {
			itemResult = res
		}
	}
	if itemResult.Synced != 1 {
		t.Fatalf("synced = %d, want 1", itemResult.Synced)
	}
	if len(itemResult.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(itemResult.Errors))
	}
	if len(store.updates["item_images"]) != 1 {
		t.Fatal("only the synced row should be updated")
	}
}

func TestSyncerDryRunTouchesNothing(t *testing.T) {
	store := newFakeStore()
	store.pending["item_images"] = []Image{{ID: 9, Path: "photo.jpg"}}
	syncer, cfg := testSyncer(t, store, false, true)

	results, ok := syncer.Run(context.Background())
	if !ok {
		t.Fatalf("dry run failed: %+v", results)
	}

	if len(store.updates["item_images"]) != 0 {
		t.Fatal("dry run must not update rows")
	}
	if _, err := os.Stat(filepath.Join(cfg.NewRoot, "item_images")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("dry run must not create destination files")
	}
}

func TestSyncerEmptyExtensionIsError(t *testing.T) {
	store := newFakeStore()
	store.pending["item_images"] = []Image{
		{ID: 3, Path: "legacy/noextension"},
		{ID: 4, Path: "legacy/fine.jpg"},
	}
	syncer, cfg := testSyncer(t, store, false, false)
	writeSource(t, cfg.LegacyRoot, "legacy/fine.jpg", "x")

	results, ok := syncer.Run(context.Background())
	if ok {
		t.Fatal("an extensionless path must fail the run")
	}

	var itemResult *Result
	for _, res := range results {
		if res.Table == "item_images" {
			itemResult = res
		}
	}
	if len(itemResult.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(itemResult.Errors))
	}
	if !strings.Contains(itemResult.Errors[0], "extension") {
		t.Fatalf("error should name the extension problem: %s", itemResult.Errors[0])
	}
	if itemResult.Synced != 1 {
		t.Fatalf("synced = %d, want 1", itemResult.Synced)
	}
	if len(store.updates["item_images"]) != 1 {
		t.Fatal("the extensionless row must not be updated")
	}
}

func TestSyncerExistingDestinationCountsSkipped(t *testing.T) {
	store := newFakeStore()
	store.pending["item_images"] = []Image{{ID: 5, Path: "photos/cup.jpg"}}
	syncer, cfg := testSyncer(t, store, false, false)
	writeSource(t, cfg.LegacyRoot, "photos/cup.jpg", "same-bytes")

	// An earlier run copied the file but never updated the row.
	destDir := filepath.Join(cfg.NewRoot, "item_images")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(destDir, "5.jpg"), []byte("same-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	results, ok := syncer.Run(context.Background())
	if !ok {
		t.Fatalf("sync failed: %+v", results)
	}

	var itemResult *Result
	for _, res := range results {
		if res.Table == "item_images" {
			itemResult = res
		}
	}
	if itemResult.Skipped != 1 || itemResult.Synced != 0 {
		t.Fatalf("synced = %d skipped = %d, want 0/1", itemResult.Synced, itemResult.Skipped)
	}
	if len(store.updates["item_images"]) != 1 {
		t.Fatal("the row still needs its update")
	}
}

func TestSyncerStoreErrorRecorded(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	syncer, _ := testSyncer(t, store, false, false)

	results, ok := syncer.Run(context.Background())
	if ok {
		t.Fatal("store failure must fail the run")
	}
	if len(results) != len(Tables) {
		t.Fatalf("results = %d, want one per table", len(results))
	}
}
