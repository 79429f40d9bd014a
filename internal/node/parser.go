package node

import (
	"fmt"
	"strconv"
	"strings"
)

// orMarker separates the disjuncts of a decision node's bracket group.
// Features and values containing the marker itself (or a bare "=" / "!=")
// are not supported by the grammar; there is no escaping mechanism.
const orMarker = "||or||"

// ParseLine parses one line of a serialized tree file.
//
// It returns (0, nil, nil) when the line is blank or is not a node line at
// all, and a non-nil error when the line matches the node grammar but its
// payload is invalid: a leaf whose numeric literal does not parse, or a
// condition item without an operator. Callers decide whether a nil node is
// "keep scanning" or "malformed input"; the parser itself never guesses.
func ParseLine(line string) (int, Node, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil, nil
	}

	idText, payload, found := strings.Cut(line, ":")
	if !found {
		return 0, nil, nil
	}

	id, ok := parseNodeID(strings.TrimSpace(idText))
	if !ok {
		return 0, nil, nil
	}

	payload = strings.TrimSpace(payload)

	if rest, found := cutKeyword(payload, "leaf"); found {
		n, err := parseLeaf(rest)
		if err != nil {
			return 0, nil, fmt.Errorf("node %d: %w", id, err)
		}
		return id, n, nil
	}

	if strings.HasPrefix(payload, "[") {
		n, err := parseDecision(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("node %d: %w", id, err)
		}
		return id, n, nil
	}

	return 0, nil, nil
}

// parseNodeID accepts non-negative decimal integers only. A leading sign
// means the line is not a node line.
func parseNodeID(s string) (int, bool) {
	if s == "" || !isDigits(s) {
		return 0, false
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseLeaf parses the remainder of a "leaf" payload: "= <number>".
// A payload that reaches this point is committed to the leaf form, so a
// bad numeric literal is an error rather than a fallback to nil.
func parseLeaf(rest string) (Node, error) {
	rest = strings.TrimSpace(rest)
	value, found := strings.CutPrefix(rest, "=")
	if !found {
		return nil, fmt.Errorf("leaf payload missing '=': %q", rest)
	}
	value = strings.TrimSpace(value)
	if !isNumericLiteral(value) {
		return nil, fmt.Errorf("invalid leaf value %q", value)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid leaf value %q: %w", value, err)
	}
	return Leaf{Value: v}, nil
}

// parseDecision parses a "[<conds>] yes=<id>,no=<id>" payload. The opening
// bracket has already been seen by the caller.
func parseDecision(payload string) (Node, error) {
	closing := strings.Index(payload, "]")
	if closing < 0 {
		return nil, fmt.Errorf("unterminated condition group: %q", payload)
	}

	conds, err := parseConditions(payload[1:closing])
	if err != nil {
		return nil, err
	}

	rest := strings.TrimSpace(payload[closing+1:])
	yesPart, noPart, found := strings.Cut(rest, ",")
	if !found {
		return nil, fmt.Errorf("decision payload missing ',' between branches: %q", rest)
	}
	yes, err := parseBranch(yesPart, "yes")
	if err != nil {
		return nil, err
	}
	no, err := parseBranch(noPart, "no")
	if err != nil {
		return nil, err
	}

	return Decision{Conds: conds, Yes: yes, No: no}, nil
}

// parseConditions splits the bracket group on the OR marker. Empty
// segments are skipped; an empty group yields an empty slice, which the
// traversal treats as a vacuously false disjunction.
func parseConditions(group string) ([]Condition, error) {
	var conds []Condition
	for _, part := range strings.Split(group, orMarker) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// parseCondition parses "<feature><op><value>". The "!=" check must come
// before the "=" check: splitting on "=" first would turn "a!=1" into
// feature "a!" with value "1".
func parseCondition(s string) (Condition, error) {
	if feature, value, found := strings.Cut(s, "!="); found {
		return Condition{
			Feature: strings.TrimSpace(feature),
			Op:      OpNeq,
			Value:   strings.TrimSpace(value),
		}, nil
	}
	if feature, value, found := strings.Cut(s, "="); found {
		return Condition{
			Feature: strings.TrimSpace(feature),
			Op:      OpEq,
			Value:   strings.TrimSpace(value),
		}, nil
	}
	return Condition{}, fmt.Errorf("condition %q has no '=' or '!=' operator", s)
}

// parseBranch parses "yes = <id>" or "no = <id>" with whitespace allowed
// around every token.
func parseBranch(s, keyword string) (int, error) {
	key, value, found := strings.Cut(s, "=")
	if !found || strings.TrimSpace(key) != keyword {
		return 0, fmt.Errorf("expected %q branch in %q", keyword, s)
	}
	value = strings.TrimSpace(value)
	id, ok := parseNodeID(value)
	if !ok {
		return 0, fmt.Errorf("invalid %s target %q", keyword, value)
	}
	return id, nil
}

// cutKeyword strips a leading keyword from the payload and reports whether
// it was present. The keyword must be followed by a non-identifier byte so
// that a feature named "leafcount" is not mistaken for a leaf payload.
func cutKeyword(s, keyword string) (string, bool) {
	rest, found := strings.CutPrefix(s, keyword)
	if !found {
		return "", false
	}
	if rest != "" && rest[0] != '=' && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return rest, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isNumericLiteral restricts leaf values to signed decimals with an
// optional fraction and exponent. strconv.ParseFloat alone is too lax for
// the grammar (it accepts "inf", "NaN" and hex floats).
func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}
