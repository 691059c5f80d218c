package tracker

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func record(uuid, key, entityType string) Record {
	return Record{UUID: uuid, Key: key, EntityType: entityType, CreatedAt: time.Now()}
}

func TestRegisterAndLookup(t *testing.T) {
	tr := NewMemory()
	tr.Register(record("uuid-1", "mwnf3:projects:vm", "context"))

	if !tr.Exists("mwnf3:projects:vm") {
		t.Fatal("expected registered key to exist")
	}
	uuid, ok := tr.GetUUID("mwnf3:projects:vm")
	if !ok || uuid != "uuid-1" {
		t.Fatalf("GetUUID() = %q, %v", uuid, ok)
	}

	if tr.Exists("mwnf3:projects:unknown") {
		t.Error("unregistered key should not exist")
	}
	if _, ok := tr.GetUUID("mwnf3:projects:unknown"); ok {
		t.Error("GetUUID of unregistered key should report not found")
	}
}

func TestRegisterIsUpsert(t *testing.T) {
	tr := NewMemory()
	tr.Register(record("uuid-1", "mwnf3:projects:vm", "context"))
	tr.Register(record("uuid-2", "mwnf3:projects:vm", "context"))

	uuid, _ := tr.GetUUID("mwnf3:projects:vm")
	if uuid != "uuid-2" {
		t.Fatalf("expected last write to win, got %q", uuid)
	}
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tr.Len())
	}
}

func TestByTypeAndStats(t *testing.T) {
	tr := NewMemory()
	tr.Register(record("c1", "mwnf3:projects:vm", "context"))
	tr.Register(record("c2", "sh:projects:sh1", "context"))
	tr.Register(record("i1", "mwnf3:objects:vm:ma:louvre:001", "item"))

	contexts := tr.ByType("context")
	if len(contexts) != 2 {
		t.Fatalf("ByType(context) returned %d records, want 2", len(contexts))
	}
	for _, rec := range contexts {
		if rec.EntityType != "context" {
			t.Errorf("unexpected entity type %q", rec.EntityType)
		}
	}
	if len(tr.ByType("image")) != 0 {
		t.Error("ByType of empty type should return no records")
	}

	stats := tr.Stats()
	if stats["context"] != 2 || stats["item"] != 1 {
		t.Errorf("Stats() = %v", stats)
	}
}

func TestClear(t *testing.T) {
	tr := NewMemory()
	tr.Register(record("x", "mwnf3:projects:vm", "context"))
	tr.SetMeta("default_language_id", "eng")
	tr.Clear()

	if tr.Exists("mwnf3:projects:vm") {
		t.Error("cleared key should not exist")
	}
	if _, ok := tr.Meta("default_language_id"); ok {
		t.Error("cleared metadata should not exist")
	}
}

func TestMeta(t *testing.T) {
	tr := NewMemory()
	tr.SetMeta("default_language_id", "eng")

	v, ok := tr.Meta("default_language_id")
	if !ok || v != "eng" {
		t.Fatalf("Meta() = %q, %v", v, ok)
	}
	if _, ok := tr.Meta("missing"); ok {
		t.Error("missing metadata should report not found")
	}
}

func TestConcurrentRegister(t *testing.T) {
	tr := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("mwnf3:glossary:%d", n)
			tr.Register(record("uuid", key, "glossary"))
			tr.GetUUID(key)
		}(i)
	}
	wg.Wait()

	if tr.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", tr.Len())
	}
}
