package cascade

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const runnerPage = `
viewport:
  width: 100
  height: 100
  page: {width: 100, height: 1000}
variants:
  fade:
    hidden: {opacity: 0}
    visible:
      opacity: 1
      transition: {duration: 1}
  card:
    rest: {y: 0, scale: 1}
    lift: {y: -10}
    press: {scale: 0.9}
nodes:
  - id: box
    variants: fade
    initial: hidden
    animate: visible
  - id: below
    variants: fade
    initial: hidden
    whileInView: visible
    bounds: {x: 0, y: 300, width: 100, height: 50}
  - id: card
    variants: card
    initial: rest
    whileHover: lift
    whileTap: press
    bounds: {x: 0, y: 0, width: 100, height: 100}
`

func loadRunnerPage(t *testing.T) (*Page, *Orchestrator) {
	t.Helper()
	p, err := LoadPage([]byte(runnerPage))
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	return p, New(p.Config(Config{}))
}

func runScript(t *testing.T, script string) (*Page, *Orchestrator, error) {
	t.Helper()
	p, o := loadRunnerPage(t)
	r, err := LoadScript([]byte(script))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	err = r.Run(context.Background(), o, p, 60, nil)
	if err == nil && !r.Done() {
		t.Error("Run returned without finishing the script")
	}
	return p, o, err
}

func TestRunnerFade(t *testing.T) {
	_, _, err := runScript(t, `
steps:
  - action: mount
  - action: wait
    seconds: 0.5
  - action: expect
    node: box
    status: running
    target: visible
    opacity: 0.5
  - action: wait
    seconds: 1
  - action: expect
    node: box
    status: completed
    opacity: 1
`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestRunnerFailedExpectation(t *testing.T) {
	_, _, err := runScript(t, `
steps:
  - action: mount
  - action: wait
    frames: 30
  - action: expect
    node: box
    opacity: 0.9
`)
	if err == nil {
		t.Fatal("expected a failed expectation")
	}
	if !strings.Contains(err.Error(), "script step 2 (expect)") || !strings.Contains(err.Error(), "opacity") {
		t.Errorf("error = %q", err)
	}
}

func TestRunnerExpectUnmountedNode(t *testing.T) {
	_, _, err := runScript(t, `
steps:
  - action: mount
  - action: unmount
    node: box
  - action: expect
    node: box
`)
	var ite *InvalidTriggerError
	if !errors.As(err, &ite) || ite.NodeID != "box" {
		t.Errorf("err = %v, want InvalidTriggerError for box", err)
	}
}

func TestRunnerScrollReveal(t *testing.T) {
	p, _, err := runScript(t, `
steps:
  - action: mount
  - action: expect
    node: below
    status: idle
    opacity: 0
  - action: scroll
    y: 280
  - action: wait
    frames: 1
  - action: expect
    node: below
    target: visible
`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Viewport.Y != 280 {
		t.Errorf("viewport y = %v, want 280", p.Viewport.Y)
	}
}

func TestRunnerSmoothScroll(t *testing.T) {
	p, _, err := runScript(t, `
steps:
  - action: mount
  - action: scroll
    y: 280
    seconds: 0.5
  - action: wait
    seconds: 1
  - action: expect
    node: below
    status: running
    target: visible
`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Viewport.Y != 280 || p.Viewport.Scrolling() {
		t.Errorf("viewport y = %v scrolling %v", p.Viewport.Y, p.Viewport.Scrolling())
	}
}

func TestRunnerResizeClamps(t *testing.T) {
	p, _, err := runScript(t, `
steps:
  - action: mount
  - action: scroll
    y: 900
  - action: resize
    width: 100
    height: 400
`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Viewport.Y != 600 {
		t.Errorf("viewport y = %v, want 600", p.Viewport.Y)
	}
}

func TestRunnerPointerSteps(t *testing.T) {
	_, o, err := runScript(t, `
steps:
  - action: mount
    node: card
  - action: press
    x: 50
    y: 50
  - action: expect
    node: card
    target: press
  - action: release
    x: 50
    y: 50
  - action: expect
    node: card
    target: lift
  - action: move
    x: 50
    y: 500
  - action: expect
    node: card
    target: rest
  - action: click
    x: 10
    y: 10
  - action: expect
    node: card
    target: lift
`)
	if err != nil {
		t.Fatal(err)
	}
	if o.PendingInput() != 0 {
		t.Errorf("PendingInput = %d after the script", o.PendingInput())
	}
	if _, ok := o.Node("box"); ok {
		t.Error("mount with a node id mounted other roots")
	}
}

func TestRunnerTrigger(t *testing.T) {
	_, _, err := runScript(t, `
steps:
  - action: mount
  - action: trigger
    node: below
    event: viewportEnter
  - action: expect
    node: below
    status: pending
    target: visible
`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestRunnerFrameCallback(t *testing.T) {
	p, o := loadRunnerPage(t)
	r, err := LoadScript([]byte("steps:\n  - action: mount\n  - action: wait\n    frames: 10\n"))
	if err != nil {
		t.Fatal(err)
	}
	var frames []Frame
	if err := r.Run(context.Background(), o, p, 10, func(f Frame) { frames = append(frames, f) }); err != nil {
		t.Fatal(err)
	}
	if len(frames) != 11 {
		t.Fatalf("frames = %d, want 11", len(frames))
	}
	if last := frames[len(frames)-1]; last.Index != 10 || last.Time != 1 {
		t.Errorf("last frame = %+v", last)
	}
}

func TestRunnerContextCancel(t *testing.T) {
	p, o := loadRunnerPage(t)
	r, err := LoadScript([]byte("steps:\n  - action: wait\n    seconds: 100\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err = r.Run(ctx, o, p, 60, func(f Frame) {
		if f.Index == 5 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if r.Done() {
		t.Error("cancelled runner reports done")
	}
}

func TestRunnerRejectsBadFPS(t *testing.T) {
	r, err := LoadScript([]byte("steps:\n  - action: mount\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Run(context.Background(), New(Config{}), nil, 0, nil); err == nil {
		t.Error("Run with fps 0 succeeded")
	}
}

func TestRunnerWithoutPage(t *testing.T) {
	for _, script := range []string{
		"steps:\n  - action: mount\n",
		"steps:\n  - action: scroll\n    y: 10\n",
	} {
		r, err := LoadScript([]byte(script))
		if err != nil {
			t.Fatal(err)
		}
		if err := r.Run(context.Background(), New(Config{}), nil, 60, nil); err == nil {
			t.Errorf("script %q ran without a page", script)
		}
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no steps", "steps: []\n", "no steps"},
		{"unknown action", "steps: [{action: jump}]\n", `unknown action "jump"`},
		{"unknown field", "steps: [{action: wait, minutes: 1}]\n", "minutes"},
		{"trigger without node", "steps: [{action: trigger, event: mount}]\n", "trigger needs a node"},
		{"bad event", "steps: [{action: trigger, node: a, event: wiggle}]\n", `unknown event kind "wiggle"`},
		{"unmount without node", "steps: [{action: unmount}]\n", "unmount needs a node"},
		{"bad resize", "steps: [{action: resize, width: 10}]\n", "positive width and height"},
		{"negative wait", "steps: [{action: wait, seconds: -1}]\n", "must not be negative"},
		{"expect without node", "steps: [{action: expect}]\n", "expect needs a node"},
		{"bad status", "steps: [{action: expect, node: a, status: sleeping}]\n", `unknown status "sleeping"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "parse script: ") || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}
