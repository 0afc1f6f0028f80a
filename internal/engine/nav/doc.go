// Package nav implements the fold-aware cursor and selection state machine.
//
// Every movement rule shares one invariant: the cursor never lands on a
// hidden line and never sits strictly inside a folded region. Vertical moves
// jump across folded spans to their boundary lines, horizontal moves
// teleport between a folded node's bracket columns, and word/attribute
// motion clamps any landing position back onto visible text.
package nav
