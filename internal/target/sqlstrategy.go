package target

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/mwnf/legacy-importer/internal/config"
	"github.com/mwnf/legacy-importer/internal/tracker"
)

// entityTables maps entity type names to target tables for lookups.
// Every table here carries a backward_compatibility column, so any of
// these entities can be found again on a re-run.
var entityTables = map[string]string{
	EntityLanguage:            "languages",
	EntityLanguageTranslation: "language_translations",
	EntityCountry:             "countries",
	EntityCountryTranslation:  "country_translations",
	EntityContext:             "contexts",
	EntityGlossary:            "glossaries",
	EntityGlossaryTranslation: "glossary_translations",
	EntityGlossarySpelling:    "glossary_spellings",
	EntityItem:                "items",
	EntityItemTranslation:     "item_translations",
	EntityTag:                 "tags",
	EntityAuthor:              "authors",
	EntityArtist:              "artists",
}

// SQLStrategy writes entities with direct statements against the target
// schema. This is the fast path for bulk offline migration.
type SQLStrategy struct {
	db      *sql.DB
	tracker tracker.Tracker
	now     string // single run timestamp for created_at/updated_at
}

// ConnectSQL opens the target database and returns a SQLStrategy bound to
// the given tracker. Created entities are registered as they are written.
func ConnectSQL(ctx context.Context, cfg config.Database, tr tracker.Tracker) (*SQLStrategy, error) {
	db, err := sql.Open("mysql", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open target database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections / 2)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping target database: %w", err)
	}

	return NewSQLStrategy(db, tr), nil
}

// NewSQLStrategy wraps an existing connection.
func NewSQLStrategy(db *sql.DB, tr tracker.Tracker) *SQLStrategy {
	return &SQLStrategy{
		db:      db,
		tracker: tr,
		now:     time.Now().UTC().Format("2006-01-02 15:04:05"),
	}
}

// Close releases the underlying connection pool.
func (s *SQLStrategy) Close() error {
	return s.db.Close()
}

// exec runs an insert, translating duplicate-key violations into
// ConflictError so callers can run the search fallback.
func (s *SQLStrategy) exec(ctx context.Context, entity, query string, args ...interface{}) error {
	_, err := s.db.ExecContext(ctx, query, args...)
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return &ConflictError{Entity: entity, Detail: mysqlErr.Message}
	}
	return err
}

func (s *SQLStrategy) register(uuid, key, entityType string) {
	s.tracker.Register(tracker.Record{
		UUID:       uuid,
		Key:        key,
		EntityType: entityType,
		CreatedAt:  time.Now(),
	})
}

func (s *SQLStrategy) WriteLanguage(ctx context.Context, data LanguageData) (string, error) {
	err := s.exec(ctx, EntityLanguage,
		`INSERT INTO languages (id, internal_name, backward_compatibility, is_default, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.ID, data.InternalName, data.BackwardCompatibility, data.IsDefault, s.now, s.now)
	if err != nil {
		return "", err
	}

	s.register(data.ID, data.BackwardCompatibility, EntityLanguage)
	return data.ID, nil
}

func (s *SQLStrategy) WriteLanguageTranslation(ctx context.Context, data LanguageTranslationData) error {
	return s.exec(ctx, EntityLanguageTranslation,
		`INSERT INTO language_translations (id, language_id, display_language_id, name, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), data.LanguageID, data.DisplayLanguageID, data.Name,
		data.BackwardCompatibility, s.now, s.now)
}

func (s *SQLStrategy) WriteCountry(ctx context.Context, data CountryData) (string, error) {
	err := s.exec(ctx, EntityCountry,
		`INSERT INTO countries (id, internal_name, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		data.ID, data.InternalName, data.BackwardCompatibility, s.now, s.now)
	if err != nil {
		return "", err
	}

	s.register(data.ID, data.BackwardCompatibility, EntityCountry)
	return data.ID, nil
}

func (s *SQLStrategy) WriteCountryTranslation(ctx context.Context, data CountryTranslationData) error {
	return s.exec(ctx, EntityCountryTranslation,
		`INSERT INTO country_translations (id, country_id, language_id, name, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), data.CountryID, data.LanguageID, data.Name,
		data.BackwardCompatibility, s.now, s.now)
}

func (s *SQLStrategy) WriteContext(ctx context.Context, data ContextData) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx, EntityContext,
		`INSERT INTO contexts (id, internal_name, is_default, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, data.InternalName, data.IsDefault, data.BackwardCompatibility, s.now, s.now)
	if err != nil {
		return "", err
	}

	s.register(id, data.BackwardCompatibility, EntityContext)
	return id, nil
}

func (s *SQLStrategy) WriteGlossary(ctx context.Context, data GlossaryData) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx, EntityGlossary,
		`INSERT INTO glossaries (id, internal_name, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, data.InternalName, data.BackwardCompatibility, s.now, s.now)
	if err != nil {
		return "", err
	}

	s.register(id, data.BackwardCompatibility, EntityGlossary)
	return id, nil
}

func (s *SQLStrategy) WriteGlossaryTranslation(ctx context.Context, data GlossaryTranslationData) error {
	return s.exec(ctx, EntityGlossaryTranslation,
		`INSERT INTO glossary_translations (id, glossary_id, language_id, definition, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), data.GlossaryID, data.LanguageID, data.Definition,
		data.BackwardCompatibility, s.now, s.now)
}

func (s *SQLStrategy) WriteGlossarySpelling(ctx context.Context, data GlossarySpellingData) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx, EntityGlossarySpelling,
		`INSERT INTO glossary_spellings (id, glossary_id, language_id, spelling, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, data.GlossaryID, data.LanguageID, data.Spelling,
		data.BackwardCompatibility, s.now, s.now)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLStrategy) WriteItem(ctx context.Context, data ItemData) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx, EntityItem,
		`INSERT INTO items (id, type, internal_name, backward_compatibility, country_id, partner_id, project_id, parent_id, owner_reference, mwnf_reference, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, data.Type, data.InternalName, data.BackwardCompatibility,
		data.CountryID, data.PartnerID, data.ProjectID, data.ParentID,
		data.OwnerReference, data.MWNFReference, s.now, s.now)
	if err != nil {
		return "", err
	}

	s.register(id, data.BackwardCompatibility, EntityItem)
	return id, nil
}

func (s *SQLStrategy) WriteItemTranslation(ctx context.Context, data ItemTranslationData) error {
	return s.exec(ctx, EntityItemTranslation,
		`INSERT INTO item_translations (id, item_id, language_id, context_id, name, description, alternate_name, holder, dates, location, dimensions, place_of_production, bibliography, author_id, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), data.ItemID, data.LanguageID, data.ContextID,
		data.Name, data.Description, data.AlternateName, data.Holder,
		data.Dates, data.Location, data.Dimensions, data.PlaceOfProduction,
		data.Bibliography, data.AuthorID, data.BackwardCompatibility, s.now, s.now)
}

func (s *SQLStrategy) WriteTag(ctx context.Context, data TagData) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx, EntityTag,
		`INSERT INTO tags (id, internal_name, category, language_id, description, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, data.InternalName, data.Category, data.LanguageID,
		data.Description, data.BackwardCompatibility, s.now, s.now)
	if err != nil {
		return "", err
	}

	s.register(id, data.BackwardCompatibility, EntityTag)
	return id, nil
}

func (s *SQLStrategy) WriteAuthor(ctx context.Context, data AuthorData) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx, EntityAuthor,
		`INSERT INTO authors (id, internal_name, name, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, data.InternalName, data.Name, data.BackwardCompatibility, s.now, s.now)
	if err != nil {
		return "", err
	}

	s.register(id, data.BackwardCompatibility, EntityAuthor)
	return id, nil
}

func (s *SQLStrategy) WriteArtist(ctx context.Context, data ArtistData) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx, EntityArtist,
		`INSERT INTO artists (id, internal_name, name, place_of_birth, place_of_death, date_of_birth, date_of_death, period_of_activity, backward_compatibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, data.InternalName, data.Name, data.PlaceOfBirth, data.PlaceOfDeath,
		data.DateOfBirth, data.DateOfDeath, data.PeriodOfActivity,
		data.BackwardCompatibility, s.now, s.now)
	if err != nil {
		return "", err
	}

	s.register(id, data.BackwardCompatibility, EntityArtist)
	return id, nil
}

func (s *SQLStrategy) AttachTagsToItem(ctx context.Context, itemID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		err := s.exec(ctx, "item_tag",
			`INSERT INTO item_tag (item_id, tag_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			itemID, tagID, s.now, s.now)
		if err != nil {
			// Re-attaching an existing pair on a re-run is not a failure.
			var conflict *ConflictError
			if errors.As(err, &conflict) {
				continue
			}
			return err
		}
	}
	return nil
}

func (s *SQLStrategy) AttachArtistsToItem(ctx context.Context, itemID string, artistIDs []string) error {
	for _, artistID := range artistIDs {
		err := s.exec(ctx, "artist_item",
			`INSERT INTO artist_item (artist_id, item_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			artistID, itemID, s.now, s.now)
		if err != nil {
			var conflict *ConflictError
			if errors.As(err, &conflict) {
				continue
			}
			return err
		}
	}
	return nil
}

// Index reads one page of an entity table, oldest first. Used by the
// conflict-recovery search and the tracker warm-up on re-runs.
func (s *SQLStrategy) Index(ctx context.Context, entity string, page, perPage int) ([]Resource, error) {
	table, ok := entityTables[entity]
	if !ok {
		return nil, fmt.Errorf("no lookup table for entity type %q", entity)
	}
	if page < 1 {
		page = 1
	}

	cols := "id, internal_name, COALESCE(backward_compatibility, ''), '', ''"
	switch entity {
	case EntityTag:
		cols = "id, internal_name, COALESCE(backward_compatibility, ''), category, language_id"
	case EntityLanguageTranslation, EntityCountryTranslation, EntityItemTranslation:
		cols = "id, name, COALESCE(backward_compatibility, ''), '', ''"
	case EntityGlossaryTranslation, EntityGlossarySpelling:
		cols = "id, '', COALESCE(backward_compatibility, ''), '', ''"
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at, id LIMIT ? OFFSET ?", cols, table)

	rows, err := s.db.QueryContext(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", entity, err)
	}
	defer rows.Close()

	var out []Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.InternalName, &res.BackwardCompatibility,
			&res.Category, &res.LanguageID); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", entity, err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (s *SQLStrategy) FindByBackwardCompatibility(ctx context.Context, entity, key string) (string, error) {
	table, ok := entityTables[entity]
	if !ok {
		return "", fmt.Errorf("no lookup table for entity type %q", entity)
	}

	var id string
	query := fmt.Sprintf("SELECT id FROM %s WHERE backward_compatibility = ? LIMIT 1", table)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up %s by backward compatibility: %w", entity, err)
	}
	return id, nil
}
