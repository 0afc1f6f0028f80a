package node

// FoldState is the set of currently-folded node ids. Hidden lines are the
// union of the exclusive (StartLine, EndLine) ranges of folded nodes; the
// boundary lines themselves stay visible as fold summaries.
type FoldState struct {
	folded map[ID]struct{}
}

// NewFoldState creates an empty fold state.
func NewFoldState() *FoldState {
	return &FoldState{folded: make(map[ID]struct{})}
}

// Fold marks the node as folded.
func (f *FoldState) Fold(id ID) {
	f.folded[id] = struct{}{}
}

// Unfold removes the node from the folded set.
func (f *FoldState) Unfold(id ID) {
	delete(f.folded, id)
}

// Toggle flips fold membership and reports whether the node is now folded.
func (f *FoldState) Toggle(id ID) bool {
	if _, ok := f.folded[id]; ok {
		delete(f.folded, id)
		return false
	}
	f.folded[id] = struct{}{}
	return true
}

// IsFolded reports whether the node is folded.
func (f *FoldState) IsFolded(id ID) bool {
	_, ok := f.folded[id]
	return ok
}

// Count returns the number of folded nodes.
func (f *FoldState) Count() int {
	return len(f.folded)
}

// Clear unfolds everything.
func (f *FoldState) Clear() {
	f.folded = make(map[ID]struct{})
}

// IsHidden reports whether line falls strictly inside any folded node.
func (r *Registry) IsHidden(line int, folds *FoldState) bool {
	return r.HidingNode(line, folds) != nil
}

// HidingNode returns the outermost folded node strictly containing line, or
// nil when the line is visible. Discovery order puts outer nodes first, so
// the first match is the outermost.
func (r *Registry) HidingNode(line int, folds *FoldState) *Node {
	for _, n := range r.nodes {
		if folds.IsFolded(n.ID) && n.Contains(line) {
			return n
		}
	}
	return nil
}

// IsFoldOpenLine reports whether line is the opening boundary of a folded
// node.
func (r *Registry) IsFoldOpenLine(line int, folds *FoldState) bool {
	n := r.openAt[line]
	return n != nil && folds.IsFolded(n.ID)
}

// IsFoldCloseLine reports whether line is the closing boundary of a folded
// node.
func (r *Registry) IsFoldCloseLine(line int, folds *FoldState) bool {
	n := r.closeAt[line]
	return n != nil && folds.IsFolded(n.ID)
}

// FoldedOpenAt returns the folded node opening at line, or nil.
func (r *Registry) FoldedOpenAt(line int, folds *FoldState) *Node {
	if n := r.openAt[line]; n != nil && folds.IsFolded(n.ID) {
		return n
	}
	return nil
}

// FoldedCloseAt returns the folded node closing at line, or nil.
func (r *Registry) FoldedCloseAt(line int, folds *FoldState) *Node {
	if n := r.closeAt[line]; n != nil && folds.IsFolded(n.ID) {
		return n
	}
	return nil
}

// InnermostExpandedAncestor returns the smallest unfolded node whose range
// includes line. Used by fold commands that collapse whatever region the
// cursor currently sits in.
func (r *Registry) InnermostExpandedAncestor(line int, folds *FoldState) *Node {
	var best *Node
	for _, n := range r.nodes {
		if folds.IsFolded(n.ID) || !n.Spans(line) {
			continue
		}
		if best == nil || n.LineCount() < best.LineCount() {
			best = n
		}
	}
	return best
}
