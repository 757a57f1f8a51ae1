package cascade

// inherits reports whether the node takes its variant for the given trigger
// kind from its parent. A node that declares its own binding for a layer
// controls that layer itself and is skipped by the parent's cascade.
func (n *Node) inherits(kind EventKind) bool {
	switch kind {
	case EventMount, EventViewportEnter, EventViewportLeave:
		return n.Animate == "" && n.InView == ""
	case EventHoverStart, EventHoverEnd:
		return n.Hover == ""
	case EventTapStart, EventTapEnd:
		return n.Tap == ""
	}
	return false
}

// cascade propagates label to the children of n that inherit it. The k-th
// participating child (zero-based, declared order, reversed for a negative
// stagger direction) is offset by delayChildren + k*stagger from the parent's
// own start, which is itself offset from the trigger time t. Each child's own
// delay is added on top, so offsets compose additively down the tree.
func (o *Orchestrator) cascade(n *Node, label string, kind EventKind, t float64, spec Transition, parentOffset float64) error {
	if len(n.children) == 0 {
		return nil
	}
	var kids []*Node
	for _, c := range n.children {
		if c.inherits(kind) && c.Variants != nil && c.Variants.Has(label) {
			kids = append(kids, c)
		}
	}
	count := len(kids)
	dir := spec.StaggerDirection()
	var firstErr error
	for i, c := range kids {
		k := i
		if dir < 0 {
			k = count - 1 - i
		}
		offset := parentOffset + spec.delayChildren + float64(k)*spec.stagger
		target := label
		if kind.setsBase() {
			// A hovered or pressed child keeps its gesture and returns to
			// the new base when the gesture ends.
			c.base = label
			target = c.layerTarget()
			if target != label && target == c.target {
				continue
			}
		}
		if err := o.animate(c, target, kind, t, Transition{}, offset); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StaggerOffsets returns the start offsets a cascade assigns to n children
// under spec, in declared order. Useful for layout previews and tests.
func StaggerOffsets(spec Transition, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		k := i
		if spec.StaggerDirection() < 0 {
			k = n - 1 - i
		}
		out[i] = spec.delayChildren + float64(k)*spec.stagger
	}
	return out
}
