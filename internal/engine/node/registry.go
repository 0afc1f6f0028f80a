package node

import (
	"regexp"
	"strings"

	"github.com/dshills/geoedit/internal/engine/scan"
)

// openPattern matches a quoted attribute key followed by an opening bracket,
// after indentation and any trailing comma have been stripped.
var openPattern = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"\s*:\s*([{[])$`)

// Registry discovers foldable nodes from the buffer text. One registry is
// owned by one engine instance; there is no process-wide state.
type Registry struct {
	nextID  ID
	nodes   []*Node
	byID    map[ID]*Node
	openAt  map[int]*Node
	closeAt map[int]*Node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[ID]*Node),
		openAt:  make(map[int]*Node),
		closeAt: make(map[int]*Node),
	}
}

// Rebuild discards all nodes and rediscovers them from lines. When folds is
// non-nil, fold membership is reconciled across the rebuild: the ordered key
// list of currently-folded nodes is captured first, and each newly discovered
// node consumes the first unconsumed matching key. Reordered same-named
// siblings can therefore swap folds; that is accepted behavior, not corrected.
func (r *Registry) Rebuild(lines []string, folds *FoldState) {
	var foldedKeys []string
	if folds != nil {
		for _, n := range r.nodes {
			if folds.IsFolded(n.ID) {
				foldedKeys = append(foldedKeys, n.Key)
			}
		}
	}

	r.nodes = nil
	r.byID = make(map[ID]*Node)
	r.openAt = make(map[int]*Node)
	r.closeAt = make(map[int]*Node)

	for i := 0; i < len(lines); i++ {
		key, bracket, openCol, ok := detectOpen(lines[i])
		if !ok {
			continue
		}
		endLine, closeCol, ok := findClose(lines, i, openCol)
		if !ok {
			continue
		}
		r.nextID++
		n := &Node{
			ID:        r.nextID,
			StartLine: i,
			EndLine:   endLine,
			OpenCol:   openCol,
			CloseCol:  closeCol,
			Key:       key,
			Bracket:   bracket,
		}
		r.nodes = append(r.nodes, n)
		r.byID[n.ID] = n
		r.openAt[n.StartLine] = n
		// Later discoveries are more deeply nested; keep the innermost node
		// for lines where several regions close.
		r.closeAt[n.EndLine] = n
	}

	if folds != nil {
		folds.Clear()
		for _, n := range r.nodes {
			for k, key := range foldedKeys {
				if key == n.Key {
					folds.Fold(n.ID)
					foldedKeys = append(foldedKeys[:k], foldedKeys[k+1:]...)
					break
				}
			}
		}
	}
}

// Nodes returns all nodes in discovery order (by start line, outermost
// first). The slice is owned by the registry; callers must not mutate it.
func (r *Registry) Nodes() []*Node {
	return r.nodes
}

// Get returns the node with the given id, or nil.
func (r *Registry) Get(id ID) *Node {
	return r.byID[id]
}

// OpenAt returns the node opening on the given line, or nil. A well-formed
// line opens at most one node.
func (r *Registry) OpenAt(line int) *Node {
	return r.openAt[line]
}

// CloseAt returns the innermost node closing on the given line, or nil.
func (r *Registry) CloseAt(line int) *Node {
	return r.closeAt[line]
}

// Innermost returns the smallest node whose full range includes line, or nil.
func (r *Registry) Innermost(line int) *Node {
	var best *Node
	for _, n := range r.nodes {
		if !n.Spans(line) {
			continue
		}
		if best == nil || n.LineCount() < best.LineCount() {
			best = n
		}
	}
	return best
}

// MarkRootFeatures flags nodes whose start line begins a Feature object.
// starts holds the feature span start lines.
func (r *Registry) MarkRootFeatures(starts map[int]bool) {
	for _, n := range r.nodes {
		n.IsRootFeature = n.Bracket == '{' && starts[n.StartLine]
	}
}

// detectOpen reports whether line opens a foldable candidate: a quoted key
// followed by `{` or `[`, or a bare root bracket, with an optional trailing
// comma. It returns the key, the bracket byte, and the bracket's column.
func detectOpen(line string) (key string, bracket byte, openCol int, ok bool) {
	trimmed := strings.TrimRight(line, " \t")
	trimmed = strings.TrimSuffix(trimmed, ",")
	trimmed = strings.TrimRight(trimmed, " \t")
	body := strings.TrimLeft(trimmed, " \t")
	if body == "" {
		return "", 0, 0, false
	}
	indent := len(trimmed) - len(body)

	if body == "{" || body == "[" {
		return "", body[0], indent, true
	}
	m := openPattern.FindStringSubmatch(body)
	if m == nil {
		return "", 0, 0, false
	}
	return m[1], m[2][0], indent + len(body) - 1, true
}

// findClose locates the line and column of the bracket matching the opener
// at (startLine, openCol) via a string-aware depth scan. It fails when the
// match lands on the opening line (not foldable) or is never found
// (malformed input; simply no node).
func findClose(lines []string, startLine, openCol int) (endLine, closeCol int, ok bool) {
	var st scan.State
	depth := 1

	rest := lines[startLine]
	for i := openCol + 1; i < len(rest); i++ {
		c := rest[i]
		if !st.Step(c) {
			continue
		}
		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				// Closes on the opening line; nothing to fold.
				return 0, 0, false
			}
		}
	}

	for j := startLine + 1; j < len(lines); j++ {
		line := lines[j]
		for i := 0; i < len(line); i++ {
			c := line[i]
			if !st.Step(c) {
				continue
			}
			switch c {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					return j, i, true
				}
			}
		}
	}
	return 0, 0, false
}
