// Package ecs connects a bvh.Tree to a [Donburi] world.
//
// [BroadPhase] is a system that inserts every entity carrying a [Collider]
// into a tree once per tick and answers ray casts and overlap queries with
// entity entries. [NewDonburiSink] forwards raw tree events into the world as
// typed events.
//
// Usage:
//
//	world := donburi.NewWorld()
//	bp := ecs.NewBroadPhase()
//
//	e := world.Entry(world.Create(ecs.Collider))
//	ecs.Collider.SetValue(e, ecs.ColliderData{Volume: bvh.AABBFromRect(10, 10, 32, 32)})
//
//	// each tick
//	bp.Update(world)
//	bp.RayCastEntities(world, from, to, func(e *donburi.Entry) bool { ...; return true })
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
