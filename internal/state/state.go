// Package state tracks the equality and inequality facts accumulated
// about features along one root-to-leaf path of a decision tree.
//
// A State is a value: Apply and ApplyAll build a fresh state and never
// touch the receiver. The DFS stack in the traversal engine relies on
// this — sibling branches hold states derived from the same parent and
// must not be able to observe each other's updates.
package state

import (
	"strings"

	"github.com/rulemint/treeflat/internal/node"
)

// fact is the accumulated knowledge about a single feature. At most one
// required value (eq), plus the values excluded via "!=" in first-seen
// order. Setting the equality supersedes the inequalities accumulated
// before it; the forbidden list never contains the equality value.
type fact struct {
	eq        string
	eqSet     bool
	forbidden []string
}

// State maps features to facts. order records first-insertion order, which
// fixes the position of each feature in the rendered conjunction.
type State struct {
	facts map[string]fact
	order []string
}

// New returns an empty state.
func New() *State {
	return &State{facts: make(map[string]fact)}
}

// Apply adds one condition to the state and returns the resulting state.
// ok is false when the condition contradicts an accumulated fact; the
// receiver is unchanged either way.
func (s *State) Apply(c node.Condition) (*State, bool) {
	f := s.facts[c.Feature]

	switch c.Op {
	case node.OpEq:
		if f.eqSet && f.eq != c.Value {
			return nil, false
		}
		if contains(f.forbidden, c.Value) {
			return nil, false
		}
		f = fact{eq: c.Value, eqSet: true}
	case node.OpNeq:
		if f.eqSet && f.eq == c.Value {
			return nil, false
		}
		if !contains(f.forbidden, c.Value) {
			forbidden := make([]string, len(f.forbidden), len(f.forbidden)+1)
			copy(forbidden, f.forbidden)
			f.forbidden = append(forbidden, c.Value)
		}
	}

	return s.with(c.Feature, f), true
}

// ApplyAll folds Apply over conds in order, short-circuiting on the first
// contradiction. No partial state escapes a failed fold.
func (s *State) ApplyAll(conds []node.Condition) (*State, bool) {
	current := s
	for _, c := range conds {
		next, ok := current.Apply(c)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Render formats the state as an "&"-joined conjunction. Features appear
// in first-insertion order; a feature contributes its "feature=value"
// term (when pinned by an equality) followed by one "feature!=value" term
// per surviving forbidden value. An unconstrained state renders as "".
func (s *State) Render() string {
	var parts []string
	for _, feature := range s.order {
		f := s.facts[feature]
		if f.eqSet {
			parts = append(parts, feature+"="+f.eq)
		}
		for _, v := range f.forbidden {
			parts = append(parts, feature+"!="+v)
		}
	}
	return strings.Join(parts, " & ")
}

// Len returns the number of constrained features.
func (s *State) Len() int {
	return len(s.order)
}

// with returns a copy of s in which feature carries f. The facts map and
// the order slice are both copied; fact slices are never mutated in place,
// so sharing their backing arrays between states is safe.
func (s *State) with(feature string, f fact) *State {
	next := &State{facts: make(map[string]fact, len(s.facts)+1)}
	for k, v := range s.facts {
		next.facts[k] = v
	}
	next.facts[feature] = f

	_, seen := s.facts[feature]
	if seen {
		next.order = s.order
	} else {
		next.order = make([]string, len(s.order), len(s.order)+1)
		copy(next.order, s.order)
		next.order = append(next.order, feature)
	}
	return next
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
