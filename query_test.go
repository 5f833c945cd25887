package bvh

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

func TestRayCastEmptyTree(t *testing.T) {
	tree := New[int]()
	if tree.RayCast(Vec2{0, 0}, Vec2{10, 10}) {
		t.Error("RayCast on empty tree = true, want false")
	}
	called := false
	tree.RayCastFunc(Vec2{0, 0}, Vec2{10, 10}, func(NodeIdx, int) bool {
		called = true
		return true
	})
	tree.QueryAABB(box(0, 0, 1, 1), func(NodeIdx, int) bool {
		called = true
		return true
	})
	if called {
		t.Error("callbacks should not run on an empty tree")
	}
}

func TestRayCastSingleLeaf(t *testing.T) {
	tree := New[int]()
	tree.InsertLeaf(box(0, 0, 1, 1), 1)

	if !tree.RayCast(Vec2{-1, 0.5}, Vec2{2, 0.5}) {
		t.Error("segment crossing the leaf should hit")
	}
	if tree.RayCast(Vec2{10, 10}, Vec2{20, 20}) {
		t.Error("segment far from the leaf should miss")
	}
}

func TestRayCastNonFiniteEndpointPanics(t *testing.T) {
	tree := New[int]()
	tree.InsertLeaf(box(0, 0, 1, 1), 1)

	tests := []struct {
		name           string
		origin, target Vec2
		cast           func(origin, target Vec2)
	}{
		{"RayCast NaN origin", Vec2{math.NaN(), math.NaN()}, Vec2{100, 100},
			func(o, p Vec2) { tree.RayCast(o, p) }},
		{"RayCast infinite target", Vec2{-1, 0.5}, Vec2{math.Inf(1), 0.5},
			func(o, p Vec2) { tree.RayCast(o, p) }},
		{"RayCastFunc NaN target", Vec2{0, 0}, Vec2{1, math.NaN()},
			func(o, p Vec2) { tree.RayCastFunc(o, p, func(NodeIdx, int) bool { return true }) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic for non-finite endpoint")
				}
				if msg := fmt.Sprint(r); !strings.HasPrefix(msg, "bvh: ") {
					t.Errorf("panic message should start with 'bvh: ', got: %s", msg)
				}
			}()
			tt.cast(tt.origin, tt.target)
		})
	}
}

func TestRayCastOutsideRootMisses(t *testing.T) {
	rnd := rand.New(rand.NewPCG(5, 5))
	tree := New[int]()
	for i := 0; i < 50; i++ {
		tree.InsertLeaf(randomBox(rnd, 10, 1), i)
	}
	root, _ := tree.Root()
	rv := tree.Volume(root)

	// Segments entirely beyond each side of the root volume.
	segments := [][2]Vec2{
		{{rv.Upper.X + 1, rv.Lower.Y}, {rv.Upper.X + 5, rv.Upper.Y}},
		{{rv.Lower.X - 5, rv.Lower.Y}, {rv.Lower.X - 1, rv.Upper.Y}},
		{{rv.Lower.X, rv.Upper.Y + 1}, {rv.Upper.X, rv.Upper.Y + 3}},
		{{rv.Lower.X, rv.Lower.Y - 3}, {rv.Upper.X, rv.Lower.Y - 1}},
	}
	for _, s := range segments {
		if tree.RayCast(s[0], s[1]) {
			t.Errorf("RayCast(%v, %v) outside root %v = true", s[0], s[1], rv)
		}
	}
}

func TestRayCastMatchesLinearScan(t *testing.T) {
	rnd := rand.New(rand.NewPCG(9, 1))
	tree := New[int]()
	var boxes []AABB
	for i := 0; i < 200; i++ {
		b := randomBox(rnd, 100, 4)
		boxes = append(boxes, b)
		tree.InsertLeaf(b, i)
	}

	for i := 0; i < 200; i++ {
		p1 := Vec2{rnd.Float64()*120 - 10, rnd.Float64()*120 - 10}
		p2 := Vec2{p1.X + rnd.Float64()*30 - 15, p1.Y + rnd.Float64()*30 - 15}

		var want []int
		for j, b := range boxes {
			if b.RayCast(p1, p2) {
				want = append(want, j)
			}
		}
		var got []int
		tree.RayCastFunc(p1, p2, func(_ NodeIdx, data int) bool {
			got = append(got, data)
			return true
		})
		slices.Sort(got)

		if !slices.Equal(got, want) {
			t.Fatalf("RayCastFunc(%v, %v) = %v, want %v", p1, p2, got, want)
		}
		if hit := tree.RayCast(p1, p2); hit != (len(want) > 0) {
			t.Fatalf("RayCast(%v, %v) = %v, want %v", p1, p2, hit, len(want) > 0)
		}
	}
}

func TestRayCastFuncStops(t *testing.T) {
	tree := New[int]()
	for i := 0; i < 10; i++ {
		x := float64(i)
		tree.InsertLeaf(box(x, 0, x+0.5, 1), i)
	}
	calls := 0
	tree.RayCastFunc(Vec2{-1, 0.5}, Vec2{11, 0.5}, func(NodeIdx, int) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("callback ran %d times after returning false, want 1", calls)
	}
}

func TestRayCastFuncNarrowPhase(t *testing.T) {
	// A caller-side narrow phase can reject leaves whose box is hit.
	tree := New[string]()
	tree.InsertLeaf(box(0, 0, 1, 1), "ghost")
	tree.InsertLeaf(box(3, 0, 4, 1), "wall")

	var solid []string
	tree.RayCastFunc(Vec2{-1, 0.5}, Vec2{5, 0.5}, func(_ NodeIdx, name string) bool {
		if name != "ghost" {
			solid = append(solid, name)
		}
		return true
	})
	if !slices.Equal(solid, []string{"wall"}) {
		t.Errorf("narrow phase hits = %v, want [wall]", solid)
	}
}

func TestQueryAABBMatchesLinearScan(t *testing.T) {
	rnd := rand.New(rand.NewPCG(0, 0))
	tree := New[int]()
	var boxes []AABB
	for i := 0; i < 150; i++ {
		b := randomBox(rnd, 0.9, 0.1)
		boxes = append(boxes, b)
		tree.InsertLeaf(b, i)
	}
	for i := 0; i < 50; i++ {
		q := randomBox(rnd, 0.5, 0.5)
		var want []int
		for j, b := range boxes {
			if b.Overlaps(q) {
				want = append(want, j)
			}
		}
		var got []int
		tree.QueryAABB(q, func(_ NodeIdx, data int) bool {
			got = append(got, data)
			return true
		})
		slices.Sort(got)
		if !slices.Equal(got, want) {
			t.Fatalf("QueryAABB(%v) = %v, want %v", q, got, want)
		}
	}
}

func TestQueryPoint(t *testing.T) {
	tree := New[string]()
	tree.InsertLeaf(box(0, 0, 2, 2), "a")
	tree.InsertLeaf(box(1, 1, 3, 3), "b")
	tree.InsertLeaf(box(10, 10, 11, 11), "c")

	var got []string
	tree.QueryPoint(Vec2{1.5, 1.5}, func(_ NodeIdx, name string) bool {
		got = append(got, name)
		return true
	})
	slices.Sort(got)
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("QueryPoint = %v, want [a b]", got)
	}
}

func TestNestedQueryFromCallback(t *testing.T) {
	tree := New[int]()
	for i := 0; i < 8; i++ {
		x := float64(i) * 2
		tree.InsertLeaf(box(x, 0, x+1, 1), i)
	}
	outer, inner := 0, 0
	tree.QueryAABB(box(-1, -1, 20, 2), func(_ NodeIdx, _ int) bool {
		outer++
		tree.QueryAABB(box(-1, -1, 20, 2), func(NodeIdx, int) bool {
			inner++
			return true
		})
		return true
	})
	if outer != 8 || inner != 64 {
		t.Errorf("outer=%d inner=%d, want 8 and 64", outer, inner)
	}
}
