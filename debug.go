package cascade

import (
	"fmt"
	"log/slog"
)

// Stats holds per-frame counters recorded by the last Advance. Advance never
// logs; hosts in debug mode call LogStats outside the frame step.
type Stats struct {
	Time      float64
	Mounted   int
	Active    int
	Started   int
	Completed int
	Queued    int // lifecycle events delivered at the end of the frame
}

// Stats returns the counters of the last Advance.
func (o *Orchestrator) Stats() Stats {
	return o.stats
}

// LogStats writes the last frame's counters to the orchestrator logger when
// debug mode is on.
func (o *Orchestrator) LogStats() {
	if !o.debug {
		return
	}
	s := o.stats
	o.logger.Debug("cascade: advance",
		slog.Float64("time", s.Time),
		slog.Int("mounted", s.Mounted),
		slog.Int("active", s.Active),
		slog.Int("started", s.Started),
		slog.Int("completed", s.Completed),
		slog.Int("events", s.Queued),
	)
}

// SetDebugMode enables or disables debug mode. When enabled, interruptions are
// logged, LogStats emits frame counters and CheckTree warns about oversized
// trees.
func (o *Orchestrator) SetDebugMode(enabled bool) {
	o.debug = enabled
}

// debugMaxTreeDepth is the depth above which CheckTree warns.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the child count above which CheckTree warns.
const debugMaxChildCount = 1000

// CheckTree walks every mounted tree and returns warnings about deep trees,
// very wide nodes and staggering variants on leaf nodes. It never changes
// state.
func (o *Orchestrator) CheckTree() []string {
	var warnings []string
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if depth > debugMaxTreeDepth {
			warnings = append(warnings, fmt.Sprintf("tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.ID))
		}
		if len(n.children) > debugMaxChildCount {
			warnings = append(warnings, fmt.Sprintf("node %q has %d children (threshold %d)", n.ID, len(n.children), debugMaxChildCount))
		}
		if n.Variants != nil {
			for _, name := range n.bindingNames() {
				v, err := n.Variants.Resolve(name)
				if err != nil {
					continue
				}
				if v.Transition.Stagger() > 0 && len(n.children) == 0 {
					warnings = append(warnings, fmt.Sprintf("node %q: variant %q staggers children but the node has none", n.ID, name))
				}
			}
		}
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	for _, r := range o.roots {
		walk(r, 1)
	}
	if o.debug {
		for _, w := range warnings {
			o.logger.Warn("cascade: " + w)
		}
	}
	return warnings
}
