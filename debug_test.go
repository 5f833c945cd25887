package bvh

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// ---- Debug mode tests ------------------------------------------------------

func TestDebugMode_LogsSearchStats(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	tree := New[int]()
	tree.SetLogger(logger)
	tree.SetDebugMode(true)

	tree.InsertLeaf(box(0, 0, 1, 1), 1)
	tree.InsertLeaf(box(5, 5, 6, 6), 2)

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	last := hook.LastEntry()
	if last.Level != logrus.DebugLevel || last.Message != "leaf inserted" {
		t.Errorf("last entry = %v %q", last.Level, last.Message)
	}
	if v, ok := last.Data["visited"].(int); !ok || v != 1 {
		t.Errorf("visited field = %v, want 1", last.Data["visited"])
	}
	if d, ok := last.Data["depth"].(int); !ok || d != 1 {
		t.Errorf("depth field = %v, want 1", last.Data["depth"])
	}
}

func TestReleaseMode_NoLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	tree := New[int]()
	tree.SetLogger(logger)

	for i := 0; i < 10; i++ {
		x := float64(i)
		tree.InsertLeaf(box(x, x, x+1, x+1), i)
	}
	if n := len(hook.AllEntries()); n != 0 {
		t.Errorf("release mode logged %d entries", n)
	}
	if tree.DebugMode() {
		t.Error("DebugMode() = true by default")
	}
}

func TestDebugMode_TreeHeightWarning(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.WarnLevel)

	tree := New[int]()
	tree.SetLogger(logger)
	tree.SetDebugMode(true)

	// Strictly nested boxes: each new box pairs with the previous one, so the
	// tree degenerates into a chain.
	for k := 0; k < debugMaxTreeHeight+5; k++ {
		f := float64(k)
		tree.InsertLeaf(box(f, f, 1000-f, 1000-f), k)
	}

	if tree.Height() <= debugMaxTreeHeight {
		t.Fatalf("Height() = %d, expected a chain taller than %d", tree.Height(), debugMaxTreeHeight)
	}
	found := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "tree height") {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected a tree height warning")
	}
}

func TestDebugMode_CorruptTreePanics(t *testing.T) {
	tree := New[int]()
	tree.SetLogger(logrus.New())
	tree.SetDebugMode(true)
	tree.InsertLeaf(box(0, 0, 1, 1), 1)
	tree.nodes.alloc(node[int]{kind: NodeKindLeaf})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on insert into a corrupt tree, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "bvh debug") || !strings.Contains(msg, "unreachable") {
			t.Errorf("panic message = %s", msg)
		}
	}()
	tree.InsertLeaf(box(3, 3, 4, 4), 2)
}

func TestSetLoggerNilRestoresDefault(t *testing.T) {
	tree := New[int]()
	tree.SetLogger(nil)
	if tree.log != defaultLogger {
		t.Error("SetLogger(nil) should restore the default logger")
	}
}
