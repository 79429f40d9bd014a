// Package internal provides the core functionality of the treeflat tool.
//
// This package implements the traversal engine that converts a serialized
// binary decision tree into a flat set of pure-conjunction strategies, one
// per leaf, each paired with the leaf's output value.
//
// Key components:
//
// Engine: drives an explicit depth-first stack of (node id, constraint
// state) frames. Decision nodes with OR-ed conditions expand into one
// branch per disjunct on the yes side; the no side conjoins the negations
// of all disjuncts, per De Morgan's law. Branches whose accumulated
// constraints become contradictory are pruned silently.
//
// Stats: per-run counters (leaves emitted, branches pruned, nodes
// visited, peak stack depth) surfaced in the CLI summary.
//
// Node lookup goes through the scanner package, which re-scans the source
// file per lookup so that memory use stays bounded by a single line
// regardless of tree size. Constraint bookkeeping lives in
// internal/state; the line grammar lives in internal/node.
//
// Usage:
//
//	engine := internal.NewEngine("tree.txt", logger)
//	stats, err := engine.FlattenFile(ctx, "strategies.txt")
//	if err != nil {
//	    // a missing or malformed node aborts the whole run
//	}
//
// This package is intended for internal use within the treeflat tool and
// should not be imported by external packages.
package internal
