// Package legacy provides read-only access to the legacy relational
// schema. Every query result has an explicit row struct; untyped maps do
// not cross package boundaries.
package legacy

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/mwnf/legacy-importer/internal/config"
)

// Querier is the read surface importers depend on. The DB type below is
// the MySQL implementation; tests substitute fakes.
type Querier interface {
	GlossaryWords(ctx context.Context) ([]GlossaryWord, error)
	GlossaryDefinitions(ctx context.Context) ([]GlossaryDefinition, error)
	GlossarySpellings(ctx context.Context) ([]GlossarySpelling, error)
	Objects(ctx context.Context) ([]ObjectRow, error)
}

// GlossaryWord is a row of mwnf3.glossary.
type GlossaryWord struct {
	WordID int64
	Name   sql.NullString
}

// GlossaryDefinition is a row of mwnf3.gl_definitions.
type GlossaryDefinition struct {
	WordID     int64
	LangID     string
	Definition sql.NullString
}

// GlossarySpelling is a row of mwnf3.gl_spellings.
type GlossarySpelling struct {
	SpellingID int64
	WordID     int64
	LangID     string
	Spelling   string
}

// ObjectRow is a denormalized row of mwnf3.objects: one row per object
// per language. The non-lang primary key is (project_id, country,
// museum_id, number).
type ObjectRow struct {
	ProjectID   string
	Country     string
	MuseumID    string
	Number      string
	Lang        string
	Name        sql.NullString
	Description sql.NullString
	Material    sql.NullString
	Dynasty     sql.NullString
	Keywords    sql.NullString
	Artist      sql.NullString
	Preparator  sql.NullString
}

// DB wraps the legacy MySQL connection.
type DB struct {
	db     *sql.DB
	schema string
}

// Connect opens the legacy database with the configured pool settings and
// verifies the connection.
func Connect(ctx context.Context, cfg config.Database) (*DB, error) {
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

	return &DB{db: db, schema: cfg.Database}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// GlossaryWords returns all glossary words ordered by primary key.
func (d *DB) GlossaryWords(ctx context.Context) ([]GlossaryWord, error) {
	rows, err := d.db.QueryContext(ctx,
		fmt.Sprintf("SELECT word_id, name FROM %s.glossary ORDER BY word_id", d.schema))
	if err != nil {
		return nil, fmt.Errorf("failed to query glossary words: %w", err)
	}
	defer rows.Close()

	var words []GlossaryWord
	for rows.Next() {
		var w GlossaryWord
		if err := rows.Scan(&w.WordID, &w.Name); err != nil {
			return nil, fmt.Errorf("failed to scan glossary word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// GlossaryDefinitions returns all glossary definitions ordered by word
// and language.
func (d *DB) GlossaryDefinitions(ctx context.Context) ([]GlossaryDefinition, error) {
	rows, err := d.db.QueryContext(ctx,
		fmt.Sprintf("SELECT word_id, lang_id, definition FROM %s.gl_definitions ORDER BY word_id, lang_id", d.schema))
	if err != nil {
		return nil, fmt.Errorf("failed to query glossary definitions: %w", err)
	}
	defer rows.Close()

	var defs []GlossaryDefinition
	for rows.Next() {
		var def GlossaryDefinition
		if err := rows.Scan(&def.WordID, &def.LangID, &def.Definition); err != nil {
			return nil, fmt.Errorf("failed to scan glossary definition: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// GlossarySpellings returns all glossary spellings ordered by word,
// language, and spelling id.
func (d *DB) GlossarySpellings(ctx context.Context) ([]GlossarySpelling, error) {
	rows, err := d.db.QueryContext(ctx,
		fmt.Sprintf("SELECT spelling_id, word_id, lang_id, spelling FROM %s.gl_spellings ORDER BY word_id, lang_id, spelling_id", d.schema))
	if err != nil {
		return nil, fmt.Errorf("failed to query glossary spellings: %w", err)
	}
	defer rows.Close()

	var spellings []GlossarySpelling
	for rows.Next() {
		var s GlossarySpelling
		if err := rows.Scan(&s.SpellingID, &s.WordID, &s.LangID, &s.Spelling); err != nil {
			return nil, fmt.Errorf("failed to scan glossary spelling: %w", err)
		}
		spellings = append(spellings, s)
	}
	return spellings, rows.Err()
}

// Objects returns all denormalized object rows ordered by the non-lang
// primary key so that rows of the same object are adjacent.
func (d *DB) Objects(ctx context.Context) ([]ObjectRow, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT project_id, country, museum_id, number, lang,
		        name, description, material, dynasty, keywords, artist, preparator
		 FROM %s.objects
		 ORDER BY project_id, country, museum_id, number, lang`, d.schema))
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	defer rows.Close()

	var objects []ObjectRow
	for rows.Next() {
		var o ObjectRow
		if err := rows.Scan(
			&o.ProjectID, &o.Country, &o.MuseumID, &o.Number, &o.Lang,
			&o.Name, &o.Description, &o.Material, &o.Dynasty, &o.Keywords,
			&o.Artist, &o.Preparator,
		); err != nil {
			return nil, fmt.Errorf("failed to scan object row: %w", err)
		}
		objects = append(objects, o)
	}
	return objects, rows.Err()
}
