package anchor

import (
	"errors"
	"testing"

	"github.com/san-kum/liquidchain/internal/dynamo"
)

func TestRegistryAddLookup(t *testing.T) {
	r := NewRegistry()
	src := r.Add("source", dynamo.V(0, 1, 0))
	cup := r.Add("cup", dynamo.V(1, 0, 0), "target")

	if src == None || cup == None || src == cup {
		t.Fatalf("expected distinct non-zero ids, got %d and %d", src, cup)
	}
	if id, ok := r.Lookup("cup"); !ok || id != cup {
		t.Errorf("Lookup(cup) = %d,%v want %d,true", id, ok, cup)
	}
	if pos, ok := r.Position(src); !ok || pos != dynamo.V(0, 1, 0) {
		t.Errorf("Position(source) = %v,%v", pos, ok)
	}
	if r.Name(cup) != "cup" {
		t.Errorf("Name = %q, want cup", r.Name(cup))
	}
	if !r.HasTag(cup, "target") || r.HasTag(src, "target") {
		t.Error("tag membership wrong")
	}
}

func TestRegistryRemoveStopsResolving(t *testing.T) {
	r := NewRegistry()
	id := r.Add("a", dynamo.V(1, 2, 3))
	r.Remove(id)

	if _, ok := r.Position(id); ok {
		t.Error("removed anchor still resolves")
	}
	if err := r.Move(id, dynamo.Vec3{}); !errors.Is(err, dynamo.ErrUnknownAnchor) {
		t.Errorf("Move on removed anchor: got %v, want ErrUnknownAnchor", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistryReAddReplaces(t *testing.T) {
	r := NewRegistry()
	first := r.Add("a", dynamo.Vec3{})
	second := r.Add("a", dynamo.V(1, 0, 0))

	if first == second {
		t.Fatal("re-add should issue a fresh handle")
	}
	if _, ok := r.Position(first); ok {
		t.Error("stale handle still resolves after replacement")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestTagFinder(t *testing.T) {
	r := NewRegistry()
	src := r.Add("source", dynamo.V(0, 0, 0), "target")
	r.Add("far", dynamo.V(1, 0, 0), "target")
	r.Add("untagged", dynamo.V(0.01, 0, 0))
	near := r.Add("near", dynamo.V(0.02, 0, 0), "target")

	f := NewTagFinder(r, "target")

	id, ok := f.FindTarget(dynamo.Vec3{}, 0.03, src)
	if !ok || id != near {
		t.Errorf("FindTarget = %d,%v want %d,true", id, ok, near)
	}

	// strictly within the radius
	if _, ok := f.FindTarget(dynamo.Vec3{}, 0.02, src); ok {
		t.Error("anchor exactly on the radius should not match")
	}

	if _, ok := NewTagFinder(r, "missing").FindTarget(dynamo.Vec3{}, 10, None); ok {
		t.Error("unexpected match for unused tag")
	}
}

func TestTagFinderInsertionOrder(t *testing.T) {
	r := NewRegistry()
	first := r.Add("b", dynamo.V(0.02, 0, 0), "t")
	r.Add("a", dynamo.V(0.01, 0, 0), "t")

	id, ok := NewTagFinder(r, "t").FindTarget(dynamo.Vec3{}, 0.05, None)
	if !ok || id != first {
		t.Errorf("expected first registered match %d, got %d", first, id)
	}
}
