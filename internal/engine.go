package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/rulemint/treeflat/internal/node"
	"github.com/rulemint/treeflat/internal/state"
	"github.com/rulemint/treeflat/scanner"
)

// Engine flattens a serialized decision tree into conjunction strategies.
// It drives an explicit depth-first stack over (node id, constraint state)
// frames, looking nodes up lazily through a scanner and writing one output
// line per leaf reached without a contradiction.
type Engine struct {
	scanner     *scanner.Scanner
	logger      *zap.Logger
	rootID      int
	warnEmptyOR bool

	stats Stats

	watcher    *fsnotify.Watcher
	isWatching bool
}

// Stats summarizes one flatten run.
type Stats struct {
	NodesVisited   int
	LeavesEmitted  int
	BranchesPruned int
	MaxStackDepth  int
}

// frame is one unit of pending traversal work. Frames are pushed on
// branching, popped on visit, and discarded after processing. Each frame
// owns its state exclusively.
type frame struct {
	id    int
	state *state.State
}

// NewEngine creates a flatten engine reading the tree at inputPath. The
// root node id defaults to 0.
func NewEngine(inputPath string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		scanner:     scanner.New(inputPath),
		logger:      logger,
		warnEmptyOR: true,
	}
}

// SetRoot changes the node id the traversal starts from.
func (e *Engine) SetRoot(id int) {
	e.rootID = id
}

// SetWarnEmptyOR controls whether an empty bracket group logs a warning.
// An empty group is vacuously false, so its yes branch is unreachable;
// real inputs containing one usually point at a broken upstream
// generator, hence the warning.
func (e *Engine) SetWarnEmptyOR(warn bool) {
	e.warnEmptyOR = warn
}

// InputPath returns the tree file this engine reads.
func (e *Engine) InputPath() string {
	return e.scanner.Path()
}

// Stats returns the counters of the most recent run.
func (e *Engine) Stats() Stats {
	return e.stats
}

// FlattenFile runs the traversal and writes the strategies to outputPath,
// overwriting any existing file.
func (e *Engine) FlattenFile(ctx context.Context, outputPath string) (Stats, error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("creating %s: %w", outputPath, err)
	}

	w := bufio.NewWriter(out)
	stats, ferr := e.Flatten(ctx, w)
	if err := w.Flush(); ferr == nil {
		ferr = err
	}
	if err := out.Close(); ferr == nil {
		ferr = err
	}
	return stats, ferr
}

// Flatten walks the tree from the root and writes one strategy line per
// reachable leaf to w. The emission order is depth-first and deterministic
// for a given input, but callers must not rely on anything beyond that.
//
// Termination is only guaranteed for acyclic inputs; the engine does not
// detect cycles.
func (e *Engine) Flatten(ctx context.Context, w io.Writer) (Stats, error) {
	e.stats = Stats{}

	stack := []frame{{id: e.rootID, state: state.New()}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return e.stats, ctx.Err()
		default:
		}

		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, err := e.scanner.Lookup(fr.id)
		if err != nil {
			return e.stats, err
		}
		e.stats.NodesVisited++

		switch n := n.(type) {
		case node.Leaf:
			line := strings.TrimSpace(fr.state.Render() + " : " + formatLeafValue(n.Value))
			if _, err := fmt.Fprintln(w, line); err != nil {
				return e.stats, fmt.Errorf("writing strategy: %w", err)
			}
			e.stats.LeavesEmitted++

		case node.Decision:
			if len(n.Conds) == 0 && e.warnEmptyOR {
				e.logger.Warn("empty condition group, yes branch is unreachable",
					zap.Int("node", fr.id),
					zap.Int("yes", n.Yes))
			}

			// A disjunction is false only when every disjunct is false,
			// so the no branch conjoins all negations in one step.
			negated := make([]node.Condition, len(n.Conds))
			for i, c := range n.Conds {
				negated[i] = c.Negate()
			}
			if st, ok := fr.state.ApplyAll(negated); ok {
				stack = append(stack, frame{id: n.No, state: st})
			} else {
				e.stats.BranchesPruned++
			}

			// A disjunction is true when any disjunct is, so each
			// disjunct seeds its own branch from the parent state.
			for _, c := range n.Conds {
				if st, ok := fr.state.Apply(c); ok {
					stack = append(stack, frame{id: n.Yes, state: st})
				} else {
					e.stats.BranchesPruned++
				}
			}
		}

		if len(stack) > e.stats.MaxStackDepth {
			e.stats.MaxStackDepth = len(stack)
		}
	}

	return e.stats, nil
}

// formatLeafValue prints a leaf value with an explicit decimal point for
// integral values ("10.0" rather than "10"), matching the established
// strategy file format.
func formatLeafValue(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !math.IsInf(v, 0) {
		s += ".0"
	}
	return s
}
