package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulemint/treeflat/internal/node"
)

func eq(feature, value string) node.Condition {
	return node.Condition{Feature: feature, Op: node.OpEq, Value: value}
}

func neq(feature, value string) node.Condition {
	return node.Condition{Feature: feature, Op: node.OpNeq, Value: value}
}

func mustApply(t *testing.T, s *State, conds ...node.Condition) *State {
	t.Helper()
	s, ok := s.ApplyAll(conds)
	require.True(t, ok, "unexpected contradiction")
	return s
}

func TestApplyEquality(t *testing.T) {
	t.Parallel()

	s := mustApply(t, New(), eq("a", "1"))
	assert.Equal(t, "a=1", s.Render())

	// same equality again is fine
	s = mustApply(t, s, eq("a", "1"))
	assert.Equal(t, "a=1", s.Render())
}

func TestApplyContradictions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		setup []node.Condition
		cond  node.Condition
	}{
		{name: "different equality", setup: []node.Condition{eq("a", "1")}, cond: eq("a", "2")},
		{name: "equality of forbidden value", setup: []node.Condition{neq("a", "1")}, cond: eq("a", "1")},
		{name: "inequality of pinned value", setup: []node.Condition{eq("a", "1")}, cond: neq("a", "1")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := mustApply(t, New(), tt.setup...)
			next, ok := s.Apply(tt.cond)
			assert.False(t, ok)
			assert.Nil(t, next)
		})
	}
}

// An equality and the inequality on the same feature and value are
// mutually exclusive, whichever is applied first.
func TestApplyThenNegateContradicts(t *testing.T) {
	t.Parallel()

	for _, c := range []node.Condition{eq("a", "1"), neq("a", "1"), eq("x", "y")} {
		s, ok := New().Apply(c)
		require.True(t, ok)
		_, ok = s.Apply(c.Negate())
		assert.False(t, ok, "applying %v after %v must contradict", c.Negate(), c)
	}
}

func TestEqualitySupersedesInequalities(t *testing.T) {
	t.Parallel()

	// accumulated != facts vanish once an equality pins the feature
	s := mustApply(t, New(), neq("a", "1"), neq("a", "2"), eq("a", "3"))
	assert.Equal(t, "a=3", s.Render())

	// a compatible inequality applied after the equality is kept
	s = mustApply(t, s, neq("a", "9"))
	assert.Equal(t, "a=3 & a!=9", s.Render())
}

func TestForbiddenValuesDeduplicated(t *testing.T) {
	t.Parallel()

	s := mustApply(t, New(), neq("a", "1"), neq("a", "1"), neq("a", "1"))
	assert.Equal(t, "a!=1", s.Render())
}

func TestRenderInsertionOrder(t *testing.T) {
	t.Parallel()

	s := mustApply(t, New(),
		eq("browser", "7"),
		neq("os", "linux"),
		neq("region", "eu"),
	)
	assert.Equal(t, "browser=7 & os!=linux & region!=eu", s.Render())

	// updating an already-seen feature keeps its original position
	s = mustApply(t, s, neq("os", "bsd"))
	assert.Equal(t, "browser=7 & os!=linux & os!=bsd & region!=eu", s.Render())
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", New().Render())
	assert.Equal(t, 0, New().Len())
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	parent := mustApply(t, New(), eq("a", "1"))
	before := parent.Render()

	_, ok := parent.Apply(neq("b", "2"))
	require.True(t, ok)
	_, ok = parent.Apply(eq("a", "2"))
	require.False(t, ok)

	assert.Equal(t, before, parent.Render())
}

// Two children derived from the same parent must not observe each other:
// the traversal pushes sibling frames built from one shared parent state.
func TestSiblingStatesAreIndependent(t *testing.T) {
	t.Parallel()

	parent := mustApply(t, New(), neq("a", "0"))

	left := mustApply(t, parent, eq("a", "1"), neq("b", "x"))
	right := mustApply(t, parent, eq("a", "2"), neq("c", "y"))

	assert.Equal(t, "a=1 & b!=x", left.Render())
	assert.Equal(t, "a=2 & c!=y", right.Render())
	assert.Equal(t, "a!=0", parent.Render())
}

func TestApplyAllShortCircuits(t *testing.T) {
	t.Parallel()

	s := mustApply(t, New(), eq("a", "1"))
	next, ok := s.ApplyAll([]node.Condition{neq("b", "2"), eq("a", "2"), neq("c", "3")})
	assert.False(t, ok)
	assert.Nil(t, next)

	// the failed fold left no trace on the input state
	assert.Equal(t, "a=1", s.Render())
}

func TestApplyAllEmpty(t *testing.T) {
	t.Parallel()

	s := mustApply(t, New(), eq("a", "1"))
	next, ok := s.ApplyAll(nil)
	require.True(t, ok)
	assert.Equal(t, "a=1", next.Render())
}
