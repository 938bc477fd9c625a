// Package anchor holds the externally owned anchors a chain can pin to.
//
// Chains never own an anchor; they keep an [ID] and resolve it every step.
// A removed anchor simply stops resolving.
package anchor

import (
	"fmt"

	"github.com/san-kum/liquidchain/internal/dynamo"
)

// ID is a weak handle into a Registry. The zero value is None.
type ID int

const None ID = 0

// Resolver looks up the current world position of an anchor.
type Resolver interface {
	Position(id ID) (dynamo.Vec3, bool)
}

type entry struct {
	name string
	pos  dynamo.Vec3
	tags map[string]bool
}

// Registry stores anchors in insertion order.
type Registry struct {
	next    ID
	order   []ID
	entries map[ID]*entry
	names   map[string]ID
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[ID]*entry),
		names:   make(map[string]ID),
	}
}

// Add registers an anchor and returns its handle. Re-adding a name replaces the old anchor.
func (r *Registry) Add(name string, pos dynamo.Vec3, tags ...string) ID {
	if old, ok := r.names[name]; ok {
		r.Remove(old)
	}
	r.next++
	id := r.next
	e := &entry{name: name, pos: pos, tags: make(map[string]bool, len(tags))}
	for _, t := range tags {
		e.tags[t] = true
	}
	r.entries[id] = e
	r.names[name] = id
	r.order = append(r.order, id)
	return id
}

func (r *Registry) Remove(id ID) {
	e, ok := r.entries[id]
	if !ok {
		return
	}
	delete(r.entries, id)
	delete(r.names, e.name)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) Move(id ID, pos dynamo.Vec3) error {
	e, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("move %d: %w", id, dynamo.ErrUnknownAnchor)
	}
	e.pos = pos
	return nil
}

func (r *Registry) Position(id ID) (dynamo.Vec3, bool) {
	e, ok := r.entries[id]
	if !ok {
		return dynamo.Vec3{}, false
	}
	return e.pos, true
}

func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.names[name]
	return id, ok
}

// Name returns the registered name, or "" for unknown handles.
func (r *Registry) Name(id ID) string {
	if e, ok := r.entries[id]; ok {
		return e.name
	}
	return ""
}

func (r *Registry) HasTag(id ID, tag string) bool {
	e, ok := r.entries[id]
	return ok && e.tags[tag]
}

// IDs returns the live handles in insertion order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Registry) Len() int { return len(r.order) }
