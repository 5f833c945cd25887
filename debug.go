package bvh

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// defaultLogger is used by trees that have not been given a logger.
var defaultLogger logrus.FieldLogger = newDefaultLogger()

func newDefaultLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return l.WithField("component", "bvh")
}

// debugMaxTreeHeight is the height past which debug mode warns that insertion
// order has degraded the tree.
const debugMaxTreeHeight = 64

// SetDebugMode enables or disables debug mode. When enabled, every insertion
// validates the whole tree and panics on a violated invariant, sibling search
// statistics are logged at debug level, and a warning is logged when the tree
// grows taller than debugMaxTreeHeight. Validation is O(n) per insert.
func (t *Tree[D]) SetDebugMode(enabled bool) {
	t.debug = enabled
}

// DebugMode reports whether debug mode is enabled.
func (t *Tree[D]) DebugMode() bool {
	return t.debug
}

// debugAfterInsert runs the debug-mode checks for a freshly inserted leaf.
// In release mode it returns immediately.
func (t *Tree[D]) debugAfterInsert(leaf NodeIdx) {
	if !t.debug {
		return
	}
	if err := t.Validate(); err != nil {
		panic(fmt.Sprintf("bvh debug: after inserting %v: %v", leaf, err))
	}

	depth := t.Depth(leaf)
	t.log.WithFields(logrus.Fields{
		"leaf":    leaf.String(),
		"depth":   depth,
		"visited": t.search.visited,
		"pushed":  t.search.pushed,
		"pruned":  t.search.pruned,
	}).Debug("leaf inserted")

	if depth+1 > debugMaxTreeHeight {
		t.log.WithFields(logrus.Fields{
			"leaf":   leaf.String(),
			"height": depth + 1,
			"limit":  debugMaxTreeHeight,
		}).Warn("tree height exceeds limit")
	}
}
