// Package scene maps a storyboard scene's type tag to a renderable
// implementation. The registry is constructed once at startup and
// read-only afterwards, so concurrent frame evaluation needs no locking.
package scene

import (
	"sort"

	"github.com/ivlev/board2video/internal/storyboard"
)

// Node is the renderable output of one scene at one frame: a component
// name plus its props, matching what the host player consumes.
type Node struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props,omitempty"`
	Children  []Node         `json:"children,omitempty"`
}

// Context carries everything a renderable may consult for a frame. All
// fields are read-only; LocalFrame is relative to the scene start.
type Context struct {
	Scene          *storyboard.Scene
	Style          storyboard.StyleConfig
	LocalFrame     int
	DurationFrames int
	FPS            int
}

// Progress is the scene-local position in [0,1].
func (c Context) Progress() float64 {
	if c.DurationFrames <= 1 {
		return 1
	}
	p := float64(c.LocalFrame) / float64(c.DurationFrames-1)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Renderable produces the visual content of a scene at a local frame.
type Renderable interface {
	Render(ctx Context) Node
}

// Registry is the static type-tag lookup table.
type Registry struct {
	entries map[string]Renderable
}

// NewRegistry copies the entry map so later mutation of the argument
// cannot reach a live registry.
func NewRegistry(entries map[string]Renderable) *Registry {
	copied := make(map[string]Renderable, len(entries))
	for tag, r := range entries {
		copied[tag] = r
	}
	return &Registry{entries: copied}
}

// Resolve returns the renderable registered for a type tag. A miss yields
// a placeholder carrying the unresolved tag rather than nil: the defect
// stays visible in the output while the rest of the composition renders.
func (r *Registry) Resolve(tag string) Renderable {
	if impl, ok := r.entries[tag]; ok {
		return impl
	}
	return &missingScene{tag: tag}
}

// Tags lists the registered type tags in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// missingScene is the fallback for unregistered type tags.
type missingScene struct {
	tag string
}

func (m *missingScene) Render(ctx Context) Node {
	return Node{
		Component: "MissingScene",
		Props: map[string]any{
			"type":  m.tag,
			"id":    ctx.Scene.ID,
			"title": ctx.Scene.Title,
		},
	}
}
