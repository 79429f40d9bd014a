package node

// Op is a condition operator. Only equality and inequality exist in the
// tree grammar; there is no numeric ordering.
type Op int

const (
	OpEq Op = iota
	OpNeq
)

func (o Op) String() string {
	if o == OpNeq {
		return "!="
	}
	return "="
}

// Condition is a single feature test inside a decision node's bracket
// group. It is immutable once constructed.
type Condition struct {
	Feature string
	Op      Op
	Value   string
}

// Negate flips = and !=. Feature and value are unchanged.
func (c Condition) Negate() Condition {
	if c.Op == OpEq {
		c.Op = OpNeq
	} else {
		c.Op = OpEq
	}
	return c
}

func (c Condition) String() string {
	return c.Feature + c.Op.String() + c.Value
}

// Node represents one line of a serialized decision tree.
// It is either a Leaf or a Decision.
type Node interface {
	isNode()
}

// Leaf holds the output value of a terminal node.
type Leaf struct {
	Value float64
}

func (Leaf) isNode() {}

// Decision holds an ordered group of OR-ed conditions and the ids of the
// nodes to visit when the disjunction is true (Yes) or false (No). An
// empty Conds slice is a vacuous disjunction: it can never be true.
type Decision struct {
	Conds []Condition
	Yes   int
	No    int
}

func (Decision) isNode() {}
