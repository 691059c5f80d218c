// Package importer migrates legacy rows into the new system. Each
// importer covers one legacy concept and follows the same loop: query the
// legacy rows in primary-key order, skip rows whose backward-compatibility
// key is already tracked, transform, write through the strategy, register
// the new identifier. A single bad row never aborts a run.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/mwnf/legacy-importer/internal/legacy"
	"github.com/mwnf/legacy-importer/internal/target"
	"github.com/mwnf/legacy-importer/internal/tracker"
	"github.com/mwnf/legacy-importer/pkg/logger"
)

// Tracker metadata keys set by the foundational importers.
const (
	MetaDefaultLanguageID = "default_language_id"
	MetaDefaultContextID  = "default_context_id"
)

// Context carries the dependencies every importer needs. It is
// constructed once per migration run and passed by reference; the tracker
// inside it is the run's shared registry.
type Context struct {
	Legacy          legacy.Querier
	Strategy        target.Strategy
	Tracker         tracker.Tracker
	Log             *logger.Logger
	Schema          string // legacy schema prefix for backward-compatibility keys
	DefaultLanguage string // ISO 639-3 code of the run's default language
	DefaultContext  string // internal name of the default content context
	DryRun          bool
	SampleOnly      bool
}

// skipWrites reports whether the run only simulates writes.
func (c *Context) skipWrites() bool {
	return c.DryRun || c.SampleOnly
}

// mode names the simulation mode for log lines.
func (c *Context) mode() string {
	if c.SampleOnly {
		return "SAMPLE"
	}
	return "DRY-RUN"
}

// register records a migrated entity in the run tracker.
func (c *Context) register(uuid, key, entityType string) {
	c.Tracker.Register(tracker.Record{
		UUID:       uuid,
		Key:        key,
		EntityType: entityType,
		CreatedAt:  time.Now(),
	})
}

// defaultLanguageID returns the default language set by the language
// importer. Dependent importers cannot run before it.
func (c *Context) defaultLanguageID() (string, error) {
	id, ok := c.Tracker.Meta(MetaDefaultLanguageID)
	if !ok {
		return "", fmt.Errorf("default language not set: language import must run first")
	}
	return id, nil
}

// defaultContextID returns the default context set by the context
// importer.
func (c *Context) defaultContextID() (string, error) {
	id, ok := c.Tracker.Meta(MetaDefaultContextID)
	if !ok {
		return "", fmt.Errorf("default context not set: context import must run first")
	}
	return id, nil
}

// Result accumulates per-run statistics for one importer.
type Result struct {
	Success  bool
	Imported int
	Skipped  int
	Errors   []string
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{Success: true}
}

// RecordError appends a per-row error message.
func (r *Result) RecordError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Finish fixes Success from the error count and returns the result.
func (r *Result) Finish() *Result {
	r.Success = len(r.Errors) == 0
	return r
}

// Importer is one migration pass over a legacy concept.
type Importer interface {
	Name() string
	Import(ctx context.Context) *Result
}

// summarize logs the standard end-of-importer summary.
func summarize(log *logger.Logger, name string, r *Result) {
	log.Info("Import summary",
		"importer", name,
		"imported", r.Imported,
		"skipped", r.Skipped,
		"errors", len(r.Errors))
}
