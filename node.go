package cascade

// AnimationContext is passed to per-node animation callbacks.
type AnimationContext struct {
	Node    *Node
	Variant string
	Time    float64
}

// Node is one animatable element. Page code declares the tree (identity,
// variant bindings, visibility and hit regions, children) before mounting it;
// from then on the Orchestrator owns the node's status, target and
// presentation, which are exposed read-only.
type Node struct {
	// Identity
	ID       string
	UserData any

	// Variants is the registry the bindings below are resolved against.
	Variants *Registry

	// Bindings. Initial is applied instantly at mount; the others name the
	// variant each trigger animates to. Empty means "not bound".
	Initial string
	Animate string // EventMount
	InView  string // EventViewportEnter
	OutView string // EventViewportLeave; falls back to Initial
	Hover   string // while hovered
	Tap     string // while pressed

	// Once restricts viewport-triggered animation to the first entry per
	// mount. Amount is the fraction of Bounds that must be visible (0 means
	// any overlap).
	Once   bool
	Amount float64

	// Bounds is the node's page-space region, used for visibility and hit
	// testing. An empty rectangle never hits.
	Bounds Rect

	// Callbacks, nil by default.
	OnAnimationStart    func(AnimationContext)
	OnAnimationComplete func(AnimationContext)
	OnAnimationCancel   func(AnimationContext)

	// Hierarchy
	Parent   *Node
	children []*Node

	// Orchestrator-owned state.
	mounted  bool
	status   Status
	target   string
	hasFired bool
	initial  string // Initial, or the label inherited from the parent
	base     string // last Mount/viewport target, restored when gestures end
	hovered  bool
	pressed  bool
	current  Presentation
	track    track
	active   bool // member of Orchestrator.active
}

// NewNode creates a node bound to the given variant registry.
func NewNode(id string, variants *Registry) *Node {
	return &Node{ID: id, Variants: variants, current: DefaultPresentation}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children. Children are staggered in
// the order they are added.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, either node is mounted, or child is an ancestor of
// this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("cascade: cannot add nil child")
	}
	if n.mounted || child.mounted {
		panic("cascade: AddChild on a mounted tree; use Orchestrator.MountChild")
	}
	if isAncestor(child, n) {
		panic("cascade: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// AddChildren appends every child in order.
func (n *Node) AddChildren(children ...*Node) *Node {
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n or the tree is mounted.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("cascade: child's parent is not this node")
	}
	if n.mounted {
		panic("cascade: RemoveChild on a mounted tree; use Orchestrator.Unmount")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Walk visits n and its descendants depth-first in declared order. Returning
// false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// --- Read-only state ---

// Mounted reports whether the node belongs to a mounted tree.
func (n *Node) Mounted() bool { return n.mounted }

// Status returns the status of the node's current transition.
func (n *Node) Status() Status { return n.status }

// Target returns the variant the node is animating toward or last reached.
func (n *Node) Target() string { return n.target }

// HasFired reports whether a viewport entry has been accepted since mount.
func (n *Node) HasFired() bool { return n.hasFired }

// Presentation returns the interpolated state computed by the last Advance.
func (n *Node) Presentation() Presentation { return n.current }

// StartTime returns the time the current transition starts or started. Only
// meaningful while the status is Pending, Running or Completed.
func (n *Node) StartTime() float64 { return n.track.startAt }

// binding returns the variant a trigger of the given kind names directly.
func (n *Node) binding(kind EventKind) string {
	switch kind {
	case EventMount:
		return n.Animate
	case EventViewportEnter:
		return n.InView
	case EventViewportLeave:
		if n.OutView != "" {
			return n.OutView
		}
		if n.InView != "" {
			return n.Initial
		}
	case EventHoverStart, EventHoverEnd:
		return n.Hover
	case EventTapStart, EventTapEnd:
		return n.Tap
	}
	return ""
}

// bindingNames lists every non-empty binding, for validation.
func (n *Node) bindingNames() []string {
	names := make([]string, 0, 6)
	for _, b := range [...]string{n.Initial, n.Animate, n.InView, n.OutView, n.Hover, n.Tap} {
		if b != "" {
			names = append(names, b)
		}
	}
	return names
}

// interactive reports whether pointer input can affect the node.
func (n *Node) interactive() bool {
	return (n.Hover != "" || n.Tap != "") && !n.Bounds.Empty()
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
