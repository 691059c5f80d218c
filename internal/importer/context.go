package importer

import (
	"context"

	"github.com/mwnf/legacy-importer/internal/compat"
	"github.com/mwnf/legacy-importer/internal/target"
)

// ContextImporter creates the default content context every item
// translation attaches to, and records its identifier in the tracker
// metadata.
type ContextImporter struct {
	ctx *Context
}

func NewContextImporter(ctx *Context) *ContextImporter {
	return &ContextImporter{ctx: ctx}
}

func (i *ContextImporter) Name() string { return "ContextImporter" }

func (i *ContextImporter) Import(ctx context.Context) *Result {
	result := NewResult()
	c := i.ctx

	key := compat.Format(compat.Reference{
		Schema:   c.Schema,
		Table:    "contexts",
		PKValues: []string{"default"},
	})

	if id, ok := c.Tracker.GetUUID(key); ok {
		c.Tracker.SetMeta(MetaDefaultContextID, id)
		result.Skipped++
		summarize(c.Log, i.Name(), result)
		return result.Finish()
	}

	if c.skipWrites() {
		c.Log.Info("Would create default context", "mode", c.mode())
		c.register("default-context", key, target.EntityContext)
		c.Tracker.SetMeta(MetaDefaultContextID, "default-context")
		result.Imported++
		summarize(c.Log, i.Name(), result)
		return result.Finish()
	}

	id, err := c.Strategy.WriteContext(ctx, target.ContextData{
		InternalName:          c.DefaultContext,
		BackwardCompatibility: key,
		IsDefault:             true,
	})
	if err != nil {
		result.RecordError("Context: %v", err)
		c.Log.Error("Failed to create default context", "error", err)
		result.Success = false
		return result
	}

	c.register(id, key, target.EntityContext)
	c.Tracker.SetMeta(MetaDefaultContextID, id)
	result.Imported++

	summarize(c.Log, i.Name(), result)
	return result.Finish()
}
