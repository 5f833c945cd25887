package bvh

import "fmt"

// EventType identifies a kind of structural change.
type EventType uint8

const (
	EventLeafInserted EventType = iota // fires after every InsertLeaf
	EventRootChanged                   // fires when InsertLeaf replaced the root
)

// String implements fmt.Stringer.
func (e EventType) String() string {
	switch e {
	case EventLeafInserted:
		return "LeafInserted"
	case EventRootChanged:
		return "RootChanged"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(e))
	}
}

// TreeEvent describes one structural change. Sibling and Parent are nil for
// the first insertion into an empty tree.
type TreeEvent struct {
	Type    EventType
	Leaf    NodeIdx // the inserted leaf
	Sibling NodeIdx // node the leaf was paired with
	Parent  NodeIdx // internal node created for the pair
	Root    NodeIdx // root after the change
}

// EventSink receives tree events, for example to forward them into an ECS.
// Events are delivered synchronously at the end of InsertLeaf, when the tree
// is consistent again.
type EventSink interface {
	EmitEvent(event TreeEvent)
}

func (t *Tree[D]) emit(event TreeEvent) {
	if t.sink != nil {
		t.sink.EmitEvent(event)
	}
}
