package bvh

import "testing"

type recordingSink struct {
	events []TreeEvent
}

func (s *recordingSink) EmitEvent(event TreeEvent) {
	s.events = append(s.events, event)
}

func TestEventSink_FirstInsert(t *testing.T) {
	sink := &recordingSink{}
	tree := New[int]()
	tree.SetEventSink(sink)

	leaf := tree.InsertLeaf(box(0, 0, 1, 1), 1)

	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(sink.events))
	}
	e0, e1 := sink.events[0], sink.events[1]
	if e0.Type != EventLeafInserted || e0.Leaf != leaf || e0.Root != leaf {
		t.Errorf("event 0: %+v", e0)
	}
	if !e0.Sibling.IsNil() || !e0.Parent.IsNil() {
		t.Errorf("first insert should have no sibling or parent: %+v", e0)
	}
	if e1.Type != EventRootChanged || e1.Root != leaf {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestEventSink_SiblingAndRoot(t *testing.T) {
	sink := &recordingSink{}
	tree := New[int]()
	a := tree.InsertLeaf(box(0, 0, 1, 1), 1)
	tree.InsertLeaf(box(5, 5, 6, 6), 2)
	tree.SetEventSink(sink)

	c := tree.InsertLeaf(box(0.5, 0.5, 1.5, 1.5), 3)

	// Pairing below the root does not change it.
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(sink.events), sink.events)
	}
	e := sink.events[0]
	root, _ := tree.Root()
	parent, _ := tree.Parent(c)
	if e.Type != EventLeafInserted || e.Leaf != c || e.Sibling != a || e.Parent != parent || e.Root != root {
		t.Errorf("event: %+v", e)
	}

	sink.events = nil
	tree.InsertLeaf(box(-50, -50, 50, 50), 4)
	if len(sink.events) != 2 || sink.events[1].Type != EventRootChanged {
		t.Errorf("enclosing insert should change the root, events = %+v", sink.events)
	}

	tree.SetEventSink(nil)
	tree.InsertLeaf(box(9, 9, 10, 10), 5)
	if len(sink.events) != 2 {
		t.Error("events delivered after sink was cleared")
	}
}

func TestEventTypeString(t *testing.T) {
	if EventLeafInserted.String() != "LeafInserted" || EventRootChanged.String() != "RootChanged" {
		t.Error("EventType String mismatch")
	}
	if got := EventType(7).String(); got != "EventType(7)" {
		t.Errorf("String() = %q, want EventType(7)", got)
	}
}
