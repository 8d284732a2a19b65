package scene

import (
	"github.com/ivlev/board2video/internal/ease"
)

// Builtins returns the renderables shipped with the engine. Projects
// register their own implementations on top of (or instead of) these.
func Builtins() map[string]Renderable {
	return map[string]Renderable{
		"core/title":       &TitleCard{},
		"core/bullet-list": &BulletList{},
		"core/endcard":     &Endcard{},
	}
}

// appearSeconds is how long builtin content takes to settle in.
const appearSeconds = 0.8

func appearProgress(ctx Context) float64 {
	frames := int(appearSeconds * float64(ctx.FPS))
	if frames <= 0 {
		return 1
	}
	return ease.OutCubic(ease.Clamp01(float64(ctx.LocalFrame) / float64(frames)))
}

// TitleCard shows the scene title with an optional subtitle prop.
type TitleCard struct{}

func (t *TitleCard) Render(ctx Context) Node {
	props := map[string]any{
		"title":    ctx.Scene.Title,
		"progress": appearProgress(ctx),
		"color":    ctx.Style.PrimaryColor,
	}
	if sub, ok := ctx.Scene.Props["subtitle"].(string); ok {
		props["subtitle"] = sub
	}
	return Node{Component: "TitleCard", Props: props}
}

// BulletList reveals its items one by one across the scene. Items come
// from the scene's "items" prop.
type BulletList struct{}

func (b *BulletList) Render(ctx Context) Node {
	items := stringItems(ctx.Scene.Props["items"])

	// Reveal spans the first 70% of the scene; the rest holds.
	revealed := len(items)
	if len(items) > 0 {
		p := ease.Clamp01(ctx.Progress() / 0.7)
		revealed = int(p * float64(len(items)))
		if revealed > len(items) {
			revealed = len(items)
		}
	}

	children := make([]Node, 0, len(items))
	for i, item := range items {
		visible := i < revealed
		children = append(children, Node{
			Component: "BulletItem",
			Props: map[string]any{
				"text":    item,
				"visible": visible,
			},
		})
	}
	return Node{
		Component: "BulletList",
		Props: map[string]any{
			"title": ctx.Scene.Title,
			"color": ctx.Style.PrimaryColor,
		},
		Children: children,
	}
}

func stringItems(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			items = append(items, s)
		}
	}
	return items
}
