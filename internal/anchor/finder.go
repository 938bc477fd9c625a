package anchor

import "github.com/san-kum/liquidchain/internal/dynamo"

// Finder discovers a new anchor for a dead chain to reconnect to.
type Finder interface {
	FindTarget(pos dynamo.Vec3, radius float64, exclude ID) (ID, bool)
}

// TagFinder returns the first anchor carrying Tag that lies strictly within radius.
type TagFinder struct {
	Registry *Registry
	Tag      string
}

func NewTagFinder(r *Registry, tag string) *TagFinder {
	return &TagFinder{Registry: r, Tag: tag}
}

func (f *TagFinder) FindTarget(pos dynamo.Vec3, radius float64, exclude ID) (ID, bool) {
	sqRange := radius * radius
	for _, id := range f.Registry.order {
		if id == exclude || !f.Registry.HasTag(id, f.Tag) {
			continue
		}
		p, _ := f.Registry.Position(id)
		if pos.Sub(p).LenSq() < sqRange {
			return id, true
		}
	}
	return None, false
}
