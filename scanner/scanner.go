// Package scanner locates nodes of a serialized decision tree by id
// without loading the tree into memory.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rulemint/treeflat/internal/node"
)

var (
	// ErrNodeNotFound reports a node id with no matching line in the
	// source file.
	ErrNodeNotFound = errors.New("node not found")

	// ErrMalformedNode reports a line whose id prefix matched a lookup
	// but whose payload fits neither the leaf nor the decision grammar.
	ErrMalformedNode = errors.New("malformed node line")
)

// maxLineSize bounds a single tree line. Lines are the unit of memory use
// here, so the scanner refuses to buffer arbitrarily large ones.
const maxLineSize = 1 << 20

// Scanner finds tree nodes by re-scanning the source file on every
// lookup. Memory stays bounded by one line regardless of tree size; the
// price is O(depth x file size) read work over a whole traversal. This
// trade is deliberate and callers must not assume caching between calls.
type Scanner struct {
	path string
}

func New(path string) *Scanner {
	return &Scanner{path: path}
}

// Path returns the source file this scanner reads.
func (s *Scanner) Path() string {
	return s.path
}

// Lookup scans the source file for the line describing the node with the
// given id and parses just that line. A line matches when it begins, after
// leading whitespace, with "<id>:". Lines that do not match are skipped
// without being parsed.
func (s *Scanner) Lookup(id int) (node.Node, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prefix := strconv.Itoa(id) + ":"

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(strings.TrimLeft(line, " \t"), prefix) {
			continue
		}
		_, n, err := node.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("node %d in %s: %w (%v)", id, s.path, ErrMalformedNode, err)
		}
		if n == nil {
			return nil, fmt.Errorf("node %d in %s: %w", id, s.path, ErrMalformedNode)
		}
		return n, nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	return nil, fmt.Errorf("node %d in %s: %w", id, s.path, ErrNodeNotFound)
}
