package cascade

import (
	"fmt"
	"log/slog"

	"github.com/phanxgames/cascade/internal/logging"
)

// AnimationEventType identifies a node transition lifecycle change.
type AnimationEventType uint8

const (
	AnimationStarted   AnimationEventType = iota // Pending → Running
	AnimationCompleted                           // Running → Completed
	AnimationCancelled                           // interrupted or unmounted
)

func (t AnimationEventType) String() string {
	switch t {
	case AnimationStarted:
		return "started"
	case AnimationCompleted:
		return "completed"
	case AnimationCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("AnimationEventType(%d)", t)
}

// AnimationEvent reports a lifecycle change to an EventSink.
type AnimationEvent struct {
	Type     AnimationEventType
	NodeID   string
	Variant  string
	Time     float64
	UserData any

	node *Node
}

// EventSink is the interface for optional lifecycle forwarding, e.g. into an
// ECS world.
type EventSink interface {
	EmitEvent(event AnimationEvent)
}

// Config configures an Orchestrator. The zero value is usable: no visibility
// platform (viewport nodes fail open), no sink and a discarding logger.
type Config struct {
	// Defaults fills transition fields that neither the variant, its
	// registry nor the event set.
	Defaults Transition
	// Visibility is the platform primitive used to detect viewport
	// crossings.
	Visibility VisibilityPlatform
	// Sink receives every lifecycle event.
	Sink EventSink
	// Logger receives mount, unmount and degradation messages.
	Logger *slog.Logger
	// Debug enables per-frame stats and extra validation logging.
	Debug bool
}

// Orchestrator resolves triggers into transitions, cascades them through the
// node tree with staggered delays and advances them over time. It owns the
// mutable state of every mounted node. It is not safe for concurrent use: all
// calls must come from the host's event loop.
type Orchestrator struct {
	defaults Transition
	sink     EventSink
	logger   *slog.Logger
	debug    bool

	nodes  map[string]*Node
	roots  []*Node
	active []*Node
	now    float64

	visibility *VisibilityObserver
	visBuf     []TriggerEvent

	// Pointer state (input.go, inject.go).
	pointer     pointerState
	injectQueue []pointerEvent
	hitBuf      []*Node
	chainBuf    []*Node

	// Lifecycle events are queued and delivered after each public call so
	// callbacks may re-enter the orchestrator.
	events   []AnimationEvent
	eventBuf []AnimationEvent
	flushing bool

	stats Stats
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		defaults:   cfg.Defaults,
		sink:       cfg.Sink,
		logger:     logger,
		debug:      cfg.Debug,
		nodes:      make(map[string]*Node),
		visibility: NewVisibilityObserver(cfg.Visibility, logger),
	}
}

// Visibility returns the observer watching viewport-bound nodes.
func (o *Orchestrator) Visibility() *VisibilityObserver {
	return o.visibility
}

// Now returns the time passed to the most recent Advance.
func (o *Orchestrator) Now() float64 {
	return o.now
}

// --- Mounting ---

// Mount registers root and its subtree as a new top-level tree at time now.
// Initial variants are applied instantly, viewport-bound nodes are observed,
// and nodes with an Animate binding receive a Mount trigger.
func (o *Orchestrator) Mount(root *Node, now float64) error {
	if root == nil {
		panic("cascade: cannot mount nil node")
	}
	if root.Parent != nil {
		return fmt.Errorf("mount %q: node has a parent; use MountChild", root.ID)
	}
	if err := o.mount(root, "", now); err != nil {
		return err
	}
	o.roots = append(o.roots, root)
	o.start(root, now)
	return nil
}

// MountChild appends child to the mounted node parentID and mounts the child's
// subtree. An Animate binding on the child fires immediately; otherwise the
// child waits for the parent's next cascade.
func (o *Orchestrator) MountChild(parentID string, child *Node, now float64) error {
	if child == nil {
		panic("cascade: cannot mount nil child")
	}
	parent, ok := o.nodes[parentID]
	if !ok {
		return &InvalidTriggerError{NodeID: parentID, Kind: EventMount}
	}
	if child.Parent != nil {
		return fmt.Errorf("mount %q: node already has a parent", child.ID)
	}
	if err := o.mount(child, parent.initial, now); err != nil {
		return err
	}
	child.Parent = parent
	parent.children = append(parent.children, child)
	// A late child joins the parent's current base variant.
	if parent.base != "" && child.inherits(EventMount) && child.Variants != nil && child.Variants.Has(parent.base) {
		child.base = parent.base
		if err := o.animate(child, child.layerTarget(), EventMount, now, Transition{}, 0); err != nil {
			o.logger.Warn("cascade: mount child", "node", child.ID, "err", err)
		}
	}
	o.start(child, now)
	return nil
}

// mount validates and registers a subtree without triggering anything.
func (o *Orchestrator) mount(root *Node, inheritedInitial string, now float64) error {
	if err := o.validate(root); err != nil {
		return err
	}
	var register func(n *Node, inherited string)
	register = func(n *Node, inherited string) {
		o.nodes[n.ID] = n
		n.mounted = true
		n.status = StatusIdle
		n.target = ""
		n.hasFired = false
		n.hovered, n.pressed = false, false
		n.track = track{}
		n.active = false
		n.current = DefaultPresentation

		initial := n.Initial
		if initial == "" && n.Variants != nil && n.Variants.Has(inherited) {
			initial = inherited
		}
		n.initial = initial
		n.base = initial
		if initial != "" {
			v, _ := n.Variants.Resolve(initial)
			n.current = v.Props.Apply(n.current)
			n.target = initial
		}
		if n.Variants != nil {
			n.Variants.Seal()
		}
		for _, c := range n.children {
			register(c, initial)
		}
	}
	register(root, inheritedInitial)
	root.Walk(func(n *Node) bool {
		if n.InView != "" {
			o.visibility.Observe(n.ID, n.Bounds, n.Amount, n.Once)
		}
		return true
	})
	o.logger.Debug("cascade: mount", "node", root.ID, "nodes", len(o.nodes), "time", now)
	return nil
}

// start fires Mount triggers for a freshly mounted subtree and drains the
// visibility observer so fail-open entries happen immediately.
func (o *Orchestrator) start(root *Node, now float64) {
	root.Walk(func(n *Node) bool {
		if n.Animate != "" {
			if err := o.dispatch(n, TriggerEvent{Kind: EventMount, NodeID: n.ID, Time: now}); err != nil {
				o.logger.Warn("cascade: mount trigger", "node", n.ID, "err", err)
			}
		}
		return true
	})
	o.pollVisibility(now)
	o.flush()
}

// validate checks node IDs and bindings before any state changes.
func (o *Orchestrator) validate(root *Node) error {
	seen := make(map[string]bool)
	var err error
	root.Walk(func(n *Node) bool {
		if err != nil {
			return false
		}
		switch {
		case n.mounted:
			err = fmt.Errorf("mount %q: already mounted", n.ID)
		case n.ID == "":
			err = fmt.Errorf("mount: %w: empty id", ErrDuplicateNode)
		case seen[n.ID] || o.nodes[n.ID] != nil:
			err = fmt.Errorf("mount %q: %w", n.ID, ErrDuplicateNode)
		}
		if err != nil {
			return false
		}
		seen[n.ID] = true
		names := n.bindingNames()
		if len(names) > 0 && n.Variants == nil {
			err = fmt.Errorf("mount %q: %w", n.ID, ErrNoRegistry)
			return false
		}
		for _, name := range names {
			if _, rerr := n.Variants.Resolve(name); rerr != nil {
				err = fmt.Errorf("mount %q: %w", n.ID, rerr)
				return false
			}
		}
		if n.Amount < 0 || n.Amount > 1 {
			err = fmt.Errorf("mount %q: amount %v out of range [0, 1]", n.ID, n.Amount)
			return false
		}
		return true
	})
	return err
}

// Unmount cancels the node and its whole subtree, detaches it from its parent
// and forgets it. No later Advance changes the state of any node in the
// subtree. The subtree stays intact and may be mounted again.
func (o *Orchestrator) Unmount(nodeID string, now float64) error {
	n, ok := o.nodes[nodeID]
	if !ok {
		return &InvalidTriggerError{NodeID: nodeID}
	}
	n.Walk(func(d *Node) bool {
		if d.status.Active() {
			o.queue(AnimationCancelled, d, now)
			d.status = StatusCancelled
		}
		d.active = false
		d.mounted = false
		o.visibility.Unobserve(d.ID)
		delete(o.nodes, d.ID)
		return true
	})
	n.status = StatusCancelled
	o.removeInactive()
	o.dropPointerRefs()
	if n.Parent != nil {
		n.Parent.removeChildByPtr(n)
		n.Parent = nil
	} else {
		for i, r := range o.roots {
			if r == n {
				o.roots = append(o.roots[:i], o.roots[i+1:]...)
				break
			}
		}
	}
	o.logger.Debug("cascade: unmount", "node", nodeID, "nodes", len(o.nodes), "time", now)
	o.flush()
	return nil
}

// --- Triggers ---

// Trigger processes one event. A ViewportEnter on a trigger-once node that has
// already fired is a no-op, as is a trigger that resolves to the variant a
// Pending or Running node is already animating toward.
func (o *Orchestrator) Trigger(ev TriggerEvent) error {
	n, ok := o.nodes[ev.NodeID]
	if !ok {
		return &InvalidTriggerError{NodeID: ev.NodeID, Kind: ev.Kind}
	}
	if err := ev.Transition.Validate(); err != nil {
		return fmt.Errorf("%s %q: %w", ev.Kind, ev.NodeID, err)
	}
	err := o.dispatch(n, ev)
	o.flush()
	return err
}

// dispatch updates the node's trigger layers and starts a transition toward
// the highest-priority active layer.
func (o *Orchestrator) dispatch(n *Node, ev TriggerEvent) error {
	switch ev.Kind {
	case EventMount:
		if n.Animate == "" {
			return nil
		}
		n.base = n.Animate
	case EventViewportEnter:
		if n.Once && n.hasFired {
			return nil
		}
		if n.InView == "" {
			return nil
		}
		n.hasFired = true
		n.base = n.InView
	case EventViewportLeave:
		if n.Once {
			return nil
		}
		label := n.binding(EventViewportLeave)
		if label == "" {
			return nil
		}
		n.base = label
	case EventHoverStart:
		n.hovered = true
	case EventHoverEnd:
		n.hovered = false
	case EventTapStart:
		n.pressed = true
	case EventTapEnd:
		n.pressed = false
	default:
		return fmt.Errorf("%s %q: unsupported event kind", ev.Kind, n.ID)
	}
	label := n.layerTarget()
	if label == "" {
		return nil
	}
	if ev.Kind >= EventHoverStart && label == n.target && !n.status.Active() {
		// Gesture changes that leave the resolved variant unchanged.
		return nil
	}
	return o.animate(n, label, ev.Kind, ev.Time, ev.Transition, 0)
}

// layerTarget returns the variant of the highest-priority active layer:
// tap, then hover, then the base set by mount and viewport triggers.
func (n *Node) layerTarget() string {
	if n.pressed && n.Tap != "" {
		return n.Tap
	}
	if n.hovered && n.Hover != "" {
		return n.Hover
	}
	return n.base
}

// animate starts a transition of n toward label. offset delays the start past
// the trigger time (stagger cascades); the effective start is
// t + offset + transition delay.
func (o *Orchestrator) animate(n *Node, label string, kind EventKind, t float64, override Transition, offset float64) error {
	if n.status.Active() && n.target == label {
		return nil
	}
	v, err := n.Variants.Resolve(label)
	if err != nil {
		return fmt.Errorf("%s %q: %w", kind, n.ID, err)
	}
	spec := o.effective(n.Variants, v, override)
	fn, err := Easing(spec.Ease())
	if err != nil {
		return fmt.Errorf("%s %q: %w", kind, n.ID, err)
	}

	from := n.current
	if n.status.Active() {
		from, _ = n.track.sample(t)
		o.queue(AnimationCancelled, n, t)
		if o.debug {
			o.logger.Debug("cascade: interrupt", "node", n.ID, "from", n.target, "to", label, "time", t)
		}
	}
	startAt := t + offset + spec.delay
	n.track = newTrack(label, n.layeredProps(label, v.Props, from), spec, fn, from, startAt)
	n.current = from
	n.target = label
	n.status = StatusPending
	if !n.active {
		n.active = true
		o.active = append(o.active, n)
	}
	return o.cascade(n, label, kind, t, spec, startAt-t)
}

// layeredProps fills the channels props leaves unset from the lower active
// layers: hover under tap, then base, then initial. A channel no layer sets
// returns to its DefaultPresentation value.
func (n *Node) layeredProps(label string, props Props, from Presentation) Props {
	lower := [...]string{"", n.base, n.initial}
	if n.pressed && n.hovered && label == n.Tap {
		lower[0] = n.Hover
	}
	for _, name := range lower {
		if name == "" || name == label {
			continue
		}
		if v, err := n.Variants.Resolve(name); err == nil {
			props = props.fill(v.Props)
		}
	}
	for c := range numChannels {
		if def := DefaultPresentation.Get(c); !props.Has(c) && from.Get(c) != def {
			props.frames[c] = []float64{def}
		}
	}
	return props
}

// effective merges the transition layers: built-in base, orchestrator
// defaults, registry defaults, variant, event override.
func (o *Orchestrator) effective(reg *Registry, v Variant, override Transition) Transition {
	return baseTransition.
		Merge(o.defaults).
		Merge(reg.Defaults()).
		Merge(v.Transition).
		Merge(override)
}

// --- Frame loop ---

// Advance is the per-frame entry point. It processes one queued pointer event,
// polls the visibility observer, then moves every Pending or Running node
// forward to time now. Cost is proportional to the number of active nodes.
func (o *Orchestrator) Advance(now float64) {
	o.now = now
	o.processInjectedInput(now)
	o.pollVisibility(now)

	var started, completed int
	kept := o.active[:0]
	for _, n := range o.active {
		if !n.status.Active() {
			n.active = false
			continue
		}
		if n.status == StatusPending {
			if now < n.track.startAt {
				kept = append(kept, n)
				continue
			}
			n.status = StatusRunning
			started++
			o.queue(AnimationStarted, n, n.track.startAt)
		}
		p, done := n.track.sample(now)
		n.current = p
		if done {
			n.status = StatusCompleted
			n.active = false
			completed++
			o.queue(AnimationCompleted, n, now)
			continue
		}
		kept = append(kept, n)
	}
	for i := len(kept); i < len(o.active); i++ {
		o.active[i] = nil
	}
	o.active = kept

	o.stats = Stats{
		Time:      now,
		Mounted:   len(o.nodes),
		Active:    len(o.active),
		Started:   started,
		Completed: completed,
		Queued:    len(o.events),
	}
	o.flush()
}

// pollVisibility forwards viewport crossings observed since the last poll.
func (o *Orchestrator) pollVisibility(now float64) {
	o.visBuf = o.visibility.Poll(now, o.visBuf[:0])
	for _, ev := range o.visBuf {
		if n, ok := o.nodes[ev.NodeID]; ok {
			if err := o.dispatch(n, ev); err != nil {
				o.logger.Warn("cascade: viewport trigger", "node", ev.NodeID, "err", err)
			}
		}
	}
}

// removeInactive drops nodes that are no longer Pending or Running from the
// active list.
func (o *Orchestrator) removeInactive() {
	kept := o.active[:0]
	for _, n := range o.active {
		if n.active && n.status.Active() {
			kept = append(kept, n)
		} else {
			n.active = false
		}
	}
	for i := len(kept); i < len(o.active); i++ {
		o.active[i] = nil
	}
	o.active = kept
}

// --- Lifecycle events ---

func (o *Orchestrator) queue(typ AnimationEventType, n *Node, t float64) {
	o.events = append(o.events, AnimationEvent{
		Type: typ, NodeID: n.ID, Variant: n.target, Time: t, UserData: n.UserData, node: n,
	})
}

// flush delivers queued lifecycle events to the sink and node callbacks.
// Callbacks may call back into the orchestrator; events they cause are
// delivered by the same loop.
func (o *Orchestrator) flush() {
	if o.flushing {
		return
	}
	o.flushing = true
	defer func() { o.flushing = false }()
	for len(o.events) > 0 {
		o.eventBuf, o.events = o.events, o.eventBuf[:0]
		for _, ev := range o.eventBuf {
			if o.sink != nil {
				o.sink.EmitEvent(ev)
			}
			n := ev.node
			ctx := AnimationContext{Node: n, Variant: ev.Variant, Time: ev.Time}
			switch ev.Type {
			case AnimationStarted:
				if n.OnAnimationStart != nil {
					n.OnAnimationStart(ctx)
				}
			case AnimationCompleted:
				if n.OnAnimationComplete != nil {
					n.OnAnimationComplete(ctx)
				}
			case AnimationCancelled:
				if n.OnAnimationCancel != nil {
					n.OnAnimationCancel(ctx)
				}
			}
		}
	}
}

// --- Read side ---

// Node returns the mounted node with the given ID.
func (o *Orchestrator) Node(id string) (*Node, bool) {
	n, ok := o.nodes[id]
	return n, ok
}

// Presentation returns the interpolated state of a mounted node.
func (o *Orchestrator) Presentation(id string) (Presentation, error) {
	n, ok := o.nodes[id]
	if !ok {
		return Presentation{}, &InvalidTriggerError{NodeID: id}
	}
	return n.current, nil
}

// Status returns the transition status of a mounted node.
func (o *Orchestrator) Status(id string) (Status, error) {
	n, ok := o.nodes[id]
	if !ok {
		return 0, &InvalidTriggerError{NodeID: id}
	}
	return n.status, nil
}

// Roots returns the mounted top-level trees. The returned slice MUST NOT be mutated.
func (o *Orchestrator) Roots() []*Node {
	return o.roots
}

// Each visits every mounted node depth-first in tree order. The rendering
// collaborator reads Presentation from each node once per frame.
func (o *Orchestrator) Each(fn func(*Node)) {
	for _, r := range o.roots {
		r.Walk(func(n *Node) bool {
			fn(n)
			return true
		})
	}
}

// Len returns the number of mounted nodes.
func (o *Orchestrator) Len() int {
	return len(o.nodes)
}

// ActiveCount returns the number of Pending or Running nodes.
func (o *Orchestrator) ActiveCount() int {
	return len(o.active)
}
