package cascade

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in a replay script.
type scriptStep struct {
	Action  string  `yaml:"action"`
	Node    string  `yaml:"node,omitempty"`
	Event   string  `yaml:"event,omitempty"`
	X       float64 `yaml:"x,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	Width   float64 `yaml:"width,omitempty"`
	Height  float64 `yaml:"height,omitempty"`
	Seconds float64 `yaml:"seconds,omitempty"`
	Frames  int     `yaml:"frames,omitempty"`

	// expect
	Status    string   `yaml:"status,omitempty"`
	Target    string   `yaml:"target,omitempty"`
	Opacity   *float64 `yaml:"opacity,omitempty"`
	Scale     *float64 `yaml:"scale,omitempty"`
	OffsetX   *float64 `yaml:"offsetX,omitempty"`
	OffsetY   *float64 `yaml:"offsetY,omitempty"`
	Tolerance float64  `yaml:"tolerance,omitempty"`
}

// script is the top-level structure of a replay script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

// Frame describes one simulated frame of a Runner.
type Frame struct {
	Index int
	Time  float64
}

// Runner sequences triggers, scrolling and pointer input across simulated
// frames and checks expectations along the way. It drives a headless
// orchestrator at a fixed frame rate, so replays are deterministic.
type Runner struct {
	steps     []scriptStep
	cursor    int
	waitUntil float64
	done      bool
}

// defaultTolerance is used by expect steps that do not set one.
const defaultTolerance = 1e-6

// LoadScript parses a YAML (or JSON) replay script and returns a Runner.
func LoadScript(data []byte) (*Runner, error) {
	var s script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if err := st.check(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &Runner{steps: s.Steps}, nil
}

// check rejects malformed steps before anything runs.
func (st *scriptStep) check() error {
	switch st.Action {
	case "mount", "scroll", "move", "press", "release", "click":
	case "unmount":
		if st.Node == "" {
			return fmt.Errorf("unmount needs a node")
		}
	case "trigger":
		if st.Node == "" {
			return fmt.Errorf("trigger needs a node")
		}
		if _, err := ParseEventKind(st.Event); err != nil {
			return err
		}
	case "resize":
		if st.Width <= 0 || st.Height <= 0 {
			return fmt.Errorf("resize needs a positive width and height")
		}
	case "wait":
		if st.Seconds < 0 || st.Frames < 0 {
			return fmt.Errorf("wait must not be negative")
		}
	case "expect":
		if st.Node == "" {
			return fmt.Errorf("expect needs a node")
		}
		if st.Status != "" {
			if _, err := parseStatus(st.Status); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func parseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Done reports whether every step of the script has been executed.
func (r *Runner) Done() bool {
	return r.done
}

// Run replays the script against o at fps frames per second, starting at
// time zero. Each frame updates the page viewport, advances o, calls onFrame
// (when non-nil) and then executes steps until a wait blocks. Run returns
// the first failed step or ctx's error.
func (r *Runner) Run(ctx context.Context, o *Orchestrator, page *Page, fps int, onFrame func(Frame)) error {
	if fps <= 0 {
		return fmt.Errorf("run script: fps must be positive, got %d", fps)
	}
	r.cursor, r.waitUntil, r.done = 0, 0, false
	dt := 1 / float64(fps)
	for frame := 0; ; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := float64(frame) / float64(fps)
		if page != nil && page.Viewport != nil && frame > 0 {
			page.Viewport.Update(float32(dt))
		}
		o.Advance(now)
		if onFrame != nil {
			onFrame(Frame{Index: frame, Time: now})
		}
		if err := r.step(o, page, now, dt); err != nil {
			return err
		}
		if r.done {
			return nil
		}
	}
}

// step executes steps at time now until a wait blocks or the script ends.
func (r *Runner) step(o *Orchestrator, page *Page, now, dt float64) error {
	// Wait for pending injections to drain before advancing.
	if o.PendingInput() > 0 {
		return nil
	}
	if now+dt/2 < r.waitUntil {
		return nil
	}
	for r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		idx := r.cursor
		r.cursor++
		if err := r.exec(st, o, page, now, dt); err != nil {
			return fmt.Errorf("script step %d (%s): %w", idx, st.Action, err)
		}
		if st.Action == "wait" || o.PendingInput() > 0 {
			return nil
		}
	}
	r.done = true
	return nil
}

func (r *Runner) exec(st scriptStep, o *Orchestrator, page *Page, now, dt float64) error {
	switch st.Action {
	case "mount":
		if page == nil {
			return fmt.Errorf("no page loaded")
		}
		if st.Node == "" {
			return page.Mount(o, now)
		}
		n := page.Find(st.Node)
		if n == nil {
			return fmt.Errorf("unknown node %q", st.Node)
		}
		return o.Mount(n, now)
	case "unmount":
		return o.Unmount(st.Node, now)
	case "trigger":
		kind, _ := ParseEventKind(st.Event)
		return o.Trigger(TriggerEvent{Kind: kind, NodeID: st.Node, Time: now})
	case "scroll":
		vp, err := viewportOf(page)
		if err != nil {
			return err
		}
		if st.Seconds > 0 {
			vp.SmoothScrollTo(st.X, st.Y, float32(st.Seconds), ease.InOutQuad)
		} else {
			vp.ScrollTo(st.X, st.Y)
		}
	case "resize":
		vp, err := viewportOf(page)
		if err != nil {
			return err
		}
		vp.Resize(st.Width, st.Height)
	case "move":
		o.InjectMove(st.X, st.Y)
	case "press":
		o.InjectPress(st.X, st.Y)
	case "release":
		o.InjectRelease(st.X, st.Y)
	case "click":
		o.InjectClick(st.X, st.Y)
	case "wait":
		wait := st.Seconds + float64(st.Frames)*dt
		r.waitUntil = now + wait
	case "expect":
		return expect(st, o)
	}
	return nil
}

func viewportOf(page *Page) (*Viewport, error) {
	if page == nil || page.Viewport == nil {
		return nil, fmt.Errorf("page has no viewport")
	}
	return page.Viewport, nil
}

// expect compares the node state against the step.
func expect(st scriptStep, o *Orchestrator) error {
	n, ok := o.Node(st.Node)
	if !ok {
		return &InvalidTriggerError{NodeID: st.Node}
	}
	if st.Status != "" {
		want, _ := parseStatus(st.Status)
		if n.Status() != want {
			return fmt.Errorf("node %q: status %s, want %s", st.Node, n.Status(), want)
		}
	}
	if st.Target != "" && n.Target() != st.Target {
		return fmt.Errorf("node %q: target %q, want %q", st.Node, n.Target(), st.Target)
	}
	tol := st.Tolerance
	if tol <= 0 {
		tol = defaultTolerance
	}
	p := n.Presentation()
	checks := []struct {
		ch   Channel
		want *float64
	}{
		{ChannelOpacity, st.Opacity},
		{ChannelScale, st.Scale},
		{ChannelX, st.OffsetX},
		{ChannelY, st.OffsetY},
	}
	for _, c := range checks {
		if c.want == nil {
			continue
		}
		if got := p.Get(c.ch); math.Abs(got-*c.want) > tol {
			return fmt.Errorf("node %q: %s %v, want %v", st.Node, c.ch, got, *c.want)
		}
	}
	return nil
}
