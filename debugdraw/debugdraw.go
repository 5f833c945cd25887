// Package debugdraw renders a bvh.Tree with Ebitengine for debugging: node
// volumes, ray casts, and tree statistics.
package debugdraw

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/bvh"
)

// Options controls how a tree is drawn. The zero value draws nothing useful;
// start from DefaultOptions.
type Options struct {
	// InternalColor strokes internal node volumes. Deeper nodes are drawn
	// more transparent.
	InternalColor color.RGBA
	// LeafColor strokes leaf volumes.
	LeafColor color.RGBA
	// HitColor and MissColor draw rays passed to DrawRay.
	HitColor  color.RGBA
	MissColor color.RGBA

	StrokeWidth float32
	// MaxDepth stops drawing below this depth. 0 draws every level.
	MaxDepth int
	// LeavesOnly skips internal nodes.
	LeavesOnly bool
	// Offset is added to world coordinates to get screen coordinates.
	Offset bvh.Vec2
}

// DefaultOptions returns the options used by the demo overlay.
func DefaultOptions() Options {
	return Options{
		InternalColor: color.RGBA{R: 80, G: 160, B: 255, A: 255},
		LeafColor:     color.RGBA{R: 120, G: 255, B: 120, A: 255},
		HitColor:      color.RGBA{R: 255, G: 80, B: 80, A: 255},
		MissColor:     color.RGBA{R: 200, G: 200, B: 200, A: 255},
		StrokeWidth:   1,
	}
}

// DrawTree strokes the volume of every node in t onto dst.
func DrawTree[D any](dst *ebiten.Image, t *bvh.Tree[D], opts *Options) {
	t.Walk(func(idx bvh.NodeIdx, depth int) bool {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return false
		}
		var clr color.RGBA
		switch t.Kind(idx) {
		case bvh.NodeKindLeaf:
			clr = opts.LeafColor
		case bvh.NodeKindInternal:
			if opts.LeavesOnly {
				return true
			}
			clr = depthColor(opts.InternalColor, depth)
		}
		strokeAABB(dst, t.Volume(idx), clr, opts)
		return true
	})
}

// DrawRay draws the segment from origin to target, colored by hit.
func DrawRay(dst *ebiten.Image, origin, target bvh.Vec2, hit bool, opts *Options) {
	clr := opts.MissColor
	if hit {
		clr = opts.HitColor
	}
	o := origin.Add(opts.Offset)
	p := target.Add(opts.Offset)
	vector.StrokeLine(dst, float32(o.X), float32(o.Y), float32(p.X), float32(p.Y), opts.StrokeWidth, clr, true)
}

// DrawStats prints st at (x, y) using the Ebitengine debug font.
func DrawStats(dst *ebiten.Image, st bvh.TreeStats, x, y int) {
	ebitenutil.DebugPrintAt(dst, FormatStats(st), x, y)
}

// FormatStats renders st as the multi-line text DrawStats prints.
func FormatStats(st bvh.TreeStats) string {
	return fmt.Sprintf("leaves: %d  nodes: %d  height: %d\nroot area: %.1f  internal area: %.1f\nsearch: visited %d  pushed %d  pruned %d",
		st.Leaves, st.Nodes, st.Height,
		st.RootArea, st.InternalArea,
		st.SearchVisited, st.SearchPushed, st.SearchPruned)
}

func strokeAABB(dst *ebiten.Image, b bvh.AABB, clr color.RGBA, opts *Options) {
	lo := b.Lower.Add(opts.Offset)
	w, h := b.Width(), b.Height()
	if w == 0 && h == 0 {
		// Degenerate boxes would vanish; mark them with a dot.
		vector.DrawFilledRect(dst, float32(lo.X)-1, float32(lo.Y)-1, 2, 2, clr, false)
		return
	}
	vector.StrokeRect(dst, float32(lo.X), float32(lo.Y), float32(w), float32(h), opts.StrokeWidth, clr, false)
}

// depthColor fades base towards transparent with depth, down to a quarter of
// its alpha, so that the upper levels of the tree stay readable.
func depthColor(base color.RGBA, depth int) color.RGBA {
	const minFactor = 0.25
	f := 1.0 / float64(1+depth)
	if f < minFactor {
		f = minFactor
	}
	// RGBA is alpha-premultiplied, so every channel scales.
	return color.RGBA{
		R: uint8(float64(base.R) * f),
		G: uint8(float64(base.G) * f),
		B: uint8(float64(base.B) * f),
		A: uint8(float64(base.A) * f),
	}
}
