// raycast spawns random boxes into a Donburi world, keeps them in a bvh broad
// phase, and sweeps a ray around the screen centre. Boxes whose volume the ray
// touches are highlighted. Click to add a box, press D to toggle the tree
// overlay.
package main

import (
	_ "embed"
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	"github.com/phanxgames/bvh"
	"github.com/phanxgames/bvh/debugdraw"
	"github.com/phanxgames/bvh/ecs"
)

const (
	screenW  = 1280
	screenH  = 720
	boxCount = 200
	minSize  = 8.0
	maxSize  = 40.0

	// One full turn of the sweeping ray, in seconds.
	sweepSeconds = 6
	rayLength    = 900.0
)

//go:embed scene.json
var sceneScript []byte

// body is the per-entity render state, stored next to the collider.
type body struct {
	color color.RGBA
	hit   bool
}

var bodyComponent = donburi.NewComponentType[body]()

type game struct {
	world donburi.World
	bp    *ecs.BroadPhase
	level *bvh.Tree[string]

	sweep  *gween.Tween
	origin bvh.Vec2
	target bvh.Vec2
	hit    bool

	overlay bool
	opts    debugdraw.Options
}

func main() {
	level := bvh.New[string]()
	script, err := bvh.LoadScript(sceneScript)
	if err != nil {
		log.Fatalf("failed to load scene: %v", err)
	}
	if _, err := bvh.RunScript(script, level); err != nil {
		log.Fatalf("failed to build scene: %v", err)
	}

	g := &game{
		world:   donburi.NewWorld(),
		bp:      ecs.NewBroadPhase(),
		level:   level,
		sweep:   gween.New(0, 2*math.Pi, sweepSeconds, ease.InOutSine),
		origin:  bvh.Vec2{X: screenW / 2, Y: screenH / 2},
		overlay: true,
		opts:    debugdraw.DefaultOptions(),
	}
	for i := 0; i < boxCount; i++ {
		w := minSize + rand.Float64()*(maxSize-minSize)
		h := minSize + rand.Float64()*(maxSize-minSize)
		g.spawn(100+rand.Float64()*(screenW-200-w), 100+rand.Float64()*(screenH-200-h), w, h)
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("bvh: ray cast demo")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func (g *game) spawn(x, y, w, h float64) {
	e := g.world.Entry(g.world.Create(ecs.Collider, bodyComponent))
	ecs.Collider.SetValue(e, ecs.ColliderData{Volume: bvh.AABBFromRect(x, y, w, h)})
	bodyComponent.SetValue(e, body{color: color.RGBA{
		R: uint8(80 + rand.IntN(120)),
		G: uint8(80 + rand.IntN(120)),
		B: uint8(80 + rand.IntN(120)),
		A: 255,
	}})
}

func (g *game) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()
		g.spawn(float64(cx)-12, float64(cy)-12, 24, 24)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.overlay = !g.overlay
	}

	g.bp.Update(g.world)

	angle, done := g.sweep.Update(float32(1.0 / float64(ebiten.TPS())))
	if done {
		g.sweep.Reset()
	}
	g.target = bvh.Vec2{
		X: g.origin.X + rayLength*math.Cos(float64(angle)),
		Y: g.origin.Y + rayLength*math.Sin(float64(angle)),
	}

	bodyComponent.Each(g.world, func(e *donburi.Entry) {
		bodyComponent.Get(e).hit = false
	})
	g.bp.RayCastEntities(g.world, g.origin, g.target, func(e *donburi.Entry) bool {
		bodyComponent.Get(e).hit = true
		return true
	})
	g.hit = g.bp.RayCast(g.origin, g.target) || g.level.RayCast(g.origin, g.target)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 16, B: 24, A: 255})

	g.level.Walk(func(idx bvh.NodeIdx, _ int) bool {
		if g.level.IsLeaf(idx) {
			fillAABB(screen, g.level.Volume(idx), color.RGBA{R: 90, G: 90, B: 110, A: 255})
		}
		return true
	})

	ecs.Collider.Each(g.world, func(e *donburi.Entry) {
		b := bodyComponent.Get(e)
		clr := b.color
		if b.hit {
			clr = g.opts.HitColor
		}
		fillAABB(screen, ecs.Collider.Get(e).Volume, clr)
	})

	if g.overlay {
		debugdraw.DrawTree(screen, g.bp.Tree(), &g.opts)
		debugdraw.DrawStats(screen, g.bp.Tree().Stats(), 8, 8)
	}
	debugdraw.DrawRay(screen, g.origin, g.target, g.hit, &g.opts)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func fillAABB(dst *ebiten.Image, b bvh.AABB, clr color.Color) {
	vector.DrawFilledRect(dst, float32(b.Lower.X), float32(b.Lower.Y), float32(b.Width()), float32(b.Height()), clr, false)
}
