package bvh

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrScript is wrapped by errors caused by a malformed script or a failed
// expectation while running one.
var ErrScript = errors.New("bvh: script")

// scriptStep is a single action in a scenario script.
type scriptStep struct {
	Action string     `json:"action"`
	Label  string     `json:"label,omitempty"`
	Lower  [2]float64 `json:"lower,omitempty"`
	Upper  [2]float64 `json:"upper,omitempty"`
	From   [2]float64 `json:"from,omitempty"`
	To     [2]float64 `json:"to,omitempty"`
	Expect *bool      `json:"expect,omitempty"`
	// Labels lists the leaves a query step must return, in any order.
	Labels []string `json:"labels,omitempty"`
}

// scriptFile is the top-level JSON structure of a scenario script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script is a parsed scenario: a sequence of insertions and queries with
// optional expected results. Scripts drive the scenario tests and the demo
// start-up scene.
//
//	{"steps": [
//	  {"action": "insert", "label": "a", "lower": [0, 0], "upper": [1, 1]},
//	  {"action": "raycast", "from": [-1, 0.5], "to": [2, 0.5], "expect": true},
//	  {"action": "query", "lower": [0, 0], "upper": [2, 2], "labels": ["a"]},
//	  {"action": "validate"}
//	]}
type Script struct {
	steps []scriptStep
}

// StepResult is the outcome of one script step.
type StepResult struct {
	Action string
	Leaf   NodeIdx  // insert: the new leaf
	Hit    bool     // raycast: whether the segment hit a leaf
	Labels []string // query: labels of overlapping leaves
}

// LoadScript parses a JSON scenario script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrScript, err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("%w: parse: no steps", ErrScript)
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "insert", "raycast", "query", "validate":
		default:
			return nil, fmt.Errorf("%w: step %d: unknown action %q", ErrScript, i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Len returns the number of steps.
func (s *Script) Len() int {
	return len(s.steps)
}

// RunScript executes every step of s against t, using step labels as leaf
// payloads. It stops at the first failed expectation or invalid step and
// returns the results gathered so far along with the error.
func RunScript(s *Script, t *Tree[string]) ([]StepResult, error) {
	results := make([]StepResult, 0, len(s.steps))
	for i, st := range s.steps {
		res := StepResult{Action: st.Action}
		switch st.Action {
		case "insert":
			box := NewAABB(Vec2{st.Lower[0], st.Lower[1]}, Vec2{st.Upper[0], st.Upper[1]})
			if !box.IsValid() {
				return results, fmt.Errorf("%w: step %d: invalid volume %v", ErrScript, i, box)
			}
			res.Leaf = t.InsertLeaf(box, st.Label)
		case "raycast":
			res.Hit = t.RayCast(Vec2{st.From[0], st.From[1]}, Vec2{st.To[0], st.To[1]})
			if st.Expect != nil && *st.Expect != res.Hit {
				return results, fmt.Errorf("%w: step %d: raycast %v->%v = %t, want %t",
					ErrScript, i, st.From, st.To, res.Hit, *st.Expect)
			}
		case "query":
			box := NewAABB(Vec2{st.Lower[0], st.Lower[1]}, Vec2{st.Upper[0], st.Upper[1]})
			t.QueryAABB(box, func(_ NodeIdx, label string) bool {
				res.Labels = append(res.Labels, label)
				return true
			})
			if st.Labels != nil && !sameLabels(res.Labels, st.Labels) {
				return results, fmt.Errorf("%w: step %d: query %v = %v, want %v",
					ErrScript, i, box, res.Labels, st.Labels)
			}
		case "validate":
			if err := t.Validate(); err != nil {
				return results, fmt.Errorf("%w: step %d: %w", ErrScript, i, err)
			}
		default:
			return results, fmt.Errorf("%w: step %d: unknown action %q", ErrScript, i, st.Action)
		}
		results = append(results, res)
	}
	return results, nil
}

// sameLabels compares two label lists as multisets.
func sameLabels(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	counts := make(map[string]int, len(want))
	for _, l := range want {
		counts[l]++
	}
	for _, l := range got {
		counts[l]--
		if counts[l] < 0 {
			return false
		}
	}
	return true
}
