package ecs

import (
	"github.com/phanxgames/bvh"
	"github.com/sirupsen/logrus"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// ColliderData is the bounding volume of an entity tracked by a BroadPhase.
// Volume is read once, by the first BroadPhase.Update after the component is
// added; later changes are not picked up.
type ColliderData struct {
	Volume bvh.AABB

	leaf     bvh.NodeIdx
	rejected bool
}

// Leaf returns the tree leaf created for this collider. ok is false until a
// BroadPhase has inserted it.
func (c *ColliderData) Leaf() (leaf bvh.NodeIdx, ok bool) {
	return c.leaf, !c.leaf.IsNil()
}

// Collider is the Donburi component type for ColliderData.
var Collider = donburi.NewComponentType[ColliderData]()

// LeafInserted is published when a BroadPhase inserts a collider.
type LeafInserted struct {
	Entity donburi.Entity
	Leaf   bvh.NodeIdx
	Volume bvh.AABB
}

// LeafInsertedEventType is the Donburi event type for LeafInserted. Subscribe
// to it in systems that keep per-entity broad-phase state.
var LeafInsertedEventType = events.NewEventType[LeafInserted]()

// TreeEventType is the Donburi event type for raw bvh tree events forwarded by
// a sink from NewDonburiSink.
var TreeEventType = events.NewEventType[bvh.TreeEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink that publishes tree events to
// TreeEventType in world. Events are queued until ProcessEvents.
func NewDonburiSink(world donburi.World) bvh.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event bvh.TreeEvent) {
	TreeEventType.Publish(s.world, event)
}

// BroadPhase owns a tree of collider entities. Leaves are never removed, so
// entities destroyed after insertion stay in the tree; the entity query
// methods skip them.
type BroadPhase struct {
	tree  *bvh.Tree[donburi.Entity]
	query *donburi.Query
	log   logrus.FieldLogger
}

// NewBroadPhase creates a BroadPhase with an empty tree.
func NewBroadPhase() *BroadPhase {
	return &BroadPhase{
		tree:  bvh.New[donburi.Entity](),
		query: donburi.NewQuery(filter.Contains(Collider)),
		log:   logrus.StandardLogger().WithField("component", "bvh/ecs"),
	}
}

// Tree returns the underlying tree, for debug drawing or direct queries.
func (b *BroadPhase) Tree() *bvh.Tree[donburi.Entity] {
	return b.tree
}

// SetLogger replaces the logger used for rejected colliders. It is also
// passed to the tree.
func (b *BroadPhase) SetLogger(log logrus.FieldLogger) {
	b.log = log
	b.tree.SetLogger(log)
}

// Update inserts every collider not yet in the tree and publishes a
// LeafInserted event for each. Colliders with an invalid volume are logged
// once and skipped. Returns the number of leaves inserted. Call once per tick.
func (b *BroadPhase) Update(w donburi.World) int {
	inserted := 0
	b.query.Each(w, func(entry *donburi.Entry) {
		c := Collider.Get(entry)
		if !c.leaf.IsNil() || c.rejected {
			return
		}
		if !c.Volume.IsValid() {
			c.rejected = true
			b.log.WithFields(logrus.Fields{
				"entity": entry.Entity(),
				"volume": c.Volume.String(),
			}).Warn("collider has invalid volume, skipped")
			return
		}
		c.leaf = b.tree.InsertLeaf(c.Volume, entry.Entity())
		inserted++
		LeafInsertedEventType.Publish(w, LeafInserted{
			Entity: entry.Entity(),
			Leaf:   c.leaf,
			Volume: c.Volume,
		})
	})
	return inserted
}

// RayCast reports whether the segment from origin to target reaches any
// collider volume, including colliders of destroyed entities.
func (b *BroadPhase) RayCast(origin, target bvh.Vec2) bool {
	return b.tree.RayCast(origin, target)
}

// RayCastEntities calls fn with the entry of every live entity whose collider
// volume the segment touches. Returning false stops the cast.
func (b *BroadPhase) RayCastEntities(w donburi.World, origin, target bvh.Vec2, fn func(*donburi.Entry) bool) {
	b.tree.RayCastFunc(origin, target, func(_ bvh.NodeIdx, e donburi.Entity) bool {
		if !w.Valid(e) {
			return true
		}
		return fn(w.Entry(e))
	})
}

// QueryEntities calls fn with the entry of every live entity whose collider
// volume overlaps box. Returning false stops the query.
func (b *BroadPhase) QueryEntities(w donburi.World, box bvh.AABB, fn func(*donburi.Entry) bool) {
	b.tree.QueryAABB(box, func(_ bvh.NodeIdx, e donburi.Entity) bool {
		if !w.Valid(e) {
			return true
		}
		return fn(w.Entry(e))
	})
}
