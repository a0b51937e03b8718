package mapping

import (
	"errors"
	"testing"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
)

type fakeRecord struct {
	id   string
	kind string
}

func (f *fakeRecord) GetID() string      { return f.id }
func (f *fakeRecord) RecordKind() string { return f.kind }

func fakeBinding(entityKind, recordKind string) Binding {
	return Binding{
		EntityKind: entityKind,
		RecordKind: recordKind,
		NewRecord:  func() Record { return &fakeRecord{kind: recordKind} },
		FillRecord: func(e domain.Entity, rec Record, _ *Mapper) error {
			rec.(*fakeRecord).id = e.GetID()
			return nil
		},
		ToEntity: func(rec Record, _ *Mapper) (domain.Entity, error) {
			return &domain.Product{Base: domain.Base{ID: rec.GetID()}}, nil
		},
	}
}

func TestRegistryLookupBothDirections(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fakeBinding("widget", "widgets"))

	byEntity, err := reg.ByEntity("widget")
	if err != nil {
		t.Fatalf("ByEntity: %v", err)
	}
	if byEntity.RecordKind != "widgets" {
		t.Fatalf("unexpected record kind %q", byEntity.RecordKind)
	}

	byRecord, err := reg.ByRecord("widgets")
	if err != nil {
		t.Fatalf("ByRecord: %v", err)
	}
	if byRecord.EntityKind != "widget" {
		t.Fatalf("unexpected entity kind %q", byRecord.EntityKind)
	}
}

func TestRegistryUnregisteredLookupFails(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.ByEntity("ghost"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
	if _, err := reg.ByRecord("ghosts"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestRegistryLastRegistrationWinsBothSides(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fakeBinding("widget", "widgets"))
	// Re-pairing the entity side must evict the stale record-side key too.
	reg.Register(fakeBinding("widget", "widget_rows"))

	if _, err := reg.ByRecord("widgets"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected stale record kind to be evicted, got %v", err)
	}

	b, err := reg.ByEntity("widget")
	if err != nil {
		t.Fatalf("ByEntity: %v", err)
	}
	if b.RecordKind != "widget_rows" {
		t.Fatalf("expected last registration to win, got %q", b.RecordKind)
	}

	// Re-pairing the record side evicts the stale entity-side key.
	reg.Register(fakeBinding("gadget", "widget_rows"))
	if _, err := reg.ByEntity("widget"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected stale entity kind to be evicted, got %v", err)
	}
}
