package cascade

// --- Per-pointer state ---

type pointerState struct {
	down    bool
	lastX   float64
	lastY   float64
	hovered []*Node // hit node and its bound ancestors, innermost first
	pressed []*Node // hover chain captured at press time
}

// PointerMove reports the pointer position at time now. Nodes entering or
// leaving the hovered chain receive HoverStart or HoverEnd.
func (o *Orchestrator) PointerMove(x, y, now float64) {
	o.processPointer(x, y, o.pointer.down, now)
	o.flush()
}

// PointerDown reports a press at (x, y). Every node in the hovered chain
// receives TapStart.
func (o *Orchestrator) PointerDown(x, y, now float64) {
	o.processPointer(x, y, true, now)
	o.flush()
}

// PointerUp reports a release at (x, y). Every node pressed by the matching
// PointerDown receives TapEnd, wherever the release happens.
func (o *Orchestrator) PointerUp(x, y, now float64) {
	o.processPointer(x, y, false, now)
	o.flush()
}

// HitTest returns the topmost mounted node with a hover or tap binding whose
// bounds contain (x, y), or nil. Later nodes in tree order are on top.
func (o *Orchestrator) HitTest(x, y float64) *Node {
	o.hitBuf = o.hitBuf[:0]
	for _, r := range o.roots {
		o.hitBuf = collectInteractive(r, o.hitBuf)
	}
	for i := len(o.hitBuf) - 1; i >= 0; i-- {
		if o.hitBuf[i].Bounds.Contains(x, y) {
			return o.hitBuf[i]
		}
	}
	return nil
}

// collectInteractive appends the interactive nodes of the subtree in tree
// order.
func collectInteractive(n *Node, buf []*Node) []*Node {
	if n.interactive() {
		buf = append(buf, n)
	}
	for _, c := range n.children {
		buf = collectInteractive(c, buf)
	}
	return buf
}

// processPointer applies one pointer sample.
func (o *Orchestrator) processPointer(x, y float64, pressed bool, now float64) {
	ps := &o.pointer
	target := o.HitTest(x, y)

	// Hover bubbles: the hit node and every ancestor with a gesture binding.
	chain := o.chainBuf[:0]
	for p := target; p != nil; p = p.Parent {
		if p.Hover != "" || p.Tap != "" {
			chain = append(chain, p)
		}
	}
	o.chainBuf = chain

	// Leave before enter.
	for _, n := range ps.hovered {
		if !containsNode(chain, n) {
			o.firePointer(n, EventHoverEnd, now)
		}
	}
	for _, n := range chain {
		if !containsNode(ps.hovered, n) {
			o.firePointer(n, EventHoverStart, now)
		}
	}
	ps.hovered = append(ps.hovered[:0], chain...)

	if pressed && !ps.down {
		ps.down = true
		ps.pressed = append(ps.pressed[:0], chain...)
		for _, n := range ps.pressed {
			o.firePointer(n, EventTapStart, now)
		}
	} else if !pressed && ps.down {
		ps.down = false
		for _, n := range ps.pressed {
			o.firePointer(n, EventTapEnd, now)
		}
		ps.pressed = ps.pressed[:0]
	}
	ps.lastX, ps.lastY = x, y
}

// firePointer dispatches a gesture event to a node that is still mounted.
func (o *Orchestrator) firePointer(n *Node, kind EventKind, now float64) {
	if !n.mounted {
		return
	}
	if err := o.dispatch(n, TriggerEvent{Kind: kind, NodeID: n.ID, Time: now}); err != nil {
		o.logger.Warn("cascade: pointer trigger", "node", n.ID, "kind", kind.String(), "err", err)
	}
}

// dropPointerRefs forgets unmounted nodes held by the pointer state.
func (o *Orchestrator) dropPointerRefs() {
	ps := &o.pointer
	ps.hovered = keepMounted(ps.hovered)
	ps.pressed = keepMounted(ps.pressed)
}

func keepMounted(nodes []*Node) []*Node {
	kept := nodes[:0]
	for _, n := range nodes {
		if n.mounted {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(nodes); i++ {
		nodes[i] = nil
	}
	return kept
}

func containsNode(nodes []*Node, n *Node) bool {
	for _, c := range nodes {
		if c == n {
			return true
		}
	}
	return false
}
