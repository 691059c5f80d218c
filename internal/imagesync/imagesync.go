// Package imagesync moves legacy image files into the new storage layout
// and rewrites their database rows. A row with size = 1 is an original
// awaiting sync; after sync the path holds the bare {id}{ext} filename,
// the old path moves to original_name, and size holds the file's real
// byte size.
package imagesync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mwnf/legacy-importer/internal/config"
	"github.com/mwnf/legacy-importer/pkg/logger"
)

// Tables holding image rows, synced in this order.
var Tables = []string{"item_images", "partner_images", "collection_images"}

// sizeOriginal is the legacy placeholder marker meaning "not yet
// synchronized". After sync the column holds the real byte size.
const sizeOriginal = 1

// Image is one unsynced row.
type Image struct {
	ID   int64
	Path string
}

// Update rewrites one row after its file has been placed.
type Update struct {
	ID           int64
	Path         string // bare {id}{ext} filename
	Size         int64  // byte size of the synced file
	OriginalName string // the legacy relative path
}

// Store is the database surface of the sync; the MySQL implementation is
// in store.go, tests substitute fakes.
type Store interface {
	PendingImages(ctx context.Context, table string) ([]Image, error)
	UpdateImage(ctx context.Context, table string, upd Update) error
}

// Result accumulates per-table statistics. Skipped counts rows whose
// destination file was already in place from an earlier interrupted run.
type Result struct {
	Table   string
	Synced  int
	Skipped int
	Errors  []string
}

// Syncer copies or symlinks legacy image files into the new layout.
type Syncer struct {
	store  Store
	log    *logger.Logger
	cfg    config.ImageConfig
	dryRun bool
}

func New(store Store, log *logger.Logger, cfg config.ImageConfig, dryRun bool) *Syncer {
	return &Syncer{store: store, log: log, cfg: cfg, dryRun: dryRun}
}

// Run syncs every table and returns the per-table results. The boolean
// reports whether every row synced cleanly.
func (s *Syncer) Run(ctx context.Context) ([]*Result, bool) {
	var results []*Result
	ok := true

	for _, table := range Tables {
		res := s.syncTable(ctx, table)
		results = append(results, res)
		if len(res.Errors) > 0 {
			ok = false
		}
	}

	var synced, skipped, errs int
	for _, res := range results {
		synced += res.Synced
		skipped += res.Skipped
		errs += len(res.Errors)
	}
	s.log.Info("Image sync complete",
		"synced", synced, "skipped", skipped, "errors", errs)
	return results, ok
}

func (s *Syncer) syncTable(ctx context.Context, table string) *Result {
	res := &Result{Table: table}

	images, err := s.store.PendingImages(ctx, table)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("query %s: %v", table, err))
		return res
	}

	s.log.Info("Syncing images", "table", table, "pending", len(images))

	for _, img := range images {
		select {
		case <-ctx.Done():
			res.Errors = append(res.Errors, "interrupted")
			return res
		default:
		}

		skipped, err := s.syncOne(ctx, table, img)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("image %d: %v", img.ID, err))
			s.log.Error("Failed to sync image", "table", table, "id", img.ID, "error", err)
			continue
		}
		if skipped {
			res.Skipped++
		} else {
			res.Synced++
		}
	}

	s.log.Info("Table synced", "table", table,
		"synced", res.Synced, "skipped", res.Skipped, "errors", len(res.Errors))
	return res
}

// syncOne places one file and rewrites its row. It reports skipped=true
// when the destination already held the file and only the row needed
// rewriting.
func (s *Syncer) syncOne(ctx context.Context, table string, img Image) (bool, error) {
	ext := filepath.Ext(img.Path)
	if ext == "" {
		return false, fmt.Errorf("cannot determine file extension for %q", img.Path)
	}

	src := filepath.Join(s.cfg.LegacyRoot, img.Path)
	filename := fmt.Sprintf("%d%s", img.ID, ext)
	dest := filepath.Join(s.cfg.NewRoot, table, filename)

	if s.dryRun {
		s.log.Info("Would sync image",
			"table", table, "id", img.ID, "src", src, "dest", dest)
		return false, nil
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("source file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("create destination directory: %w", err)
	}

	skipped := false
	if s.cfg.UseSymlink {
		if err := s.symlink(src, dest); err != nil {
			return false, err
		}
	} else if destInfo, err := os.Stat(dest); err == nil && destInfo.Size() == srcInfo.Size() {
		// An earlier run placed the file but died before the row update.
		skipped = true
	} else {
		if err := copyFile(src, dest); err != nil {
			return false, err
		}
	}

	info, err := os.Stat(dest)
	if err != nil {
		return false, fmt.Errorf("stat destination: %w", err)
	}

	err = s.store.UpdateImage(ctx, table, Update{
		ID:           img.ID,
		Path:         filename,
		Size:         info.Size(),
		OriginalName: img.Path,
	})
	if err != nil {
		return false, err
	}
	return skipped, nil
}

// symlink links dest to the absolute source path, replacing any existing
// link or file at dest so re-runs converge.
func (s *Syncer) symlink(src, dest string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing destination: %w", err)
	}
	if err := os.Symlink(abs, dest); err != nil {
		return fmt.Errorf("symlink: %w", err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
