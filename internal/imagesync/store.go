package imagesync

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/mwnf/legacy-importer/internal/config"
)

// MySQLStore reads and rewrites image rows in the legacy database.
type MySQLStore struct {
	db     *sql.DB
	schema string
}

// ConnectStore opens the legacy database for image synchronization.
func ConnectStore(ctx context.Context, cfg config.Database) (*MySQLStore, error) {
	db, err := sql.Open("mysql", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections / 2)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping legacy database: %w", err)
	}

	return &MySQLStore{db: db, schema: cfg.Database}, nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) PendingImages(ctx context.Context, table string) ([]Image, error) {
	query := fmt.Sprintf(
		"SELECT id, path FROM %s.%s WHERE size = ? ORDER BY id",
		s.schema, table)

	rows, err := s.db.QueryContext(ctx, query, sizeOriginal)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var out []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.Path); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (s *MySQLStore) UpdateImage(ctx context.Context, table string, upd Update) error {
	query := fmt.Sprintf(
		`UPDATE %s.%s
		 SET path = ?, size = ?, original_name = ?, alt_text = NULL, updated_at = NOW()
		 WHERE id = ?`,
		s.schema, table)

	_, err := s.db.ExecContext(ctx, query, upd.Path, upd.Size, upd.OriginalName, upd.ID)
	if err != nil {
		return fmt.Errorf("failed to update %s row %d: %w", table, upd.ID, err)
	}
	return nil
}
