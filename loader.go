package cascade

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Page is a declarative animation tree loaded from a page file: the variant
// registries, the node trees that use them, the orchestrator defaults and an
// optional viewport.
type Page struct {
	Defaults   Transition
	Registries map[string]*Registry
	Roots      []*Node
	Viewport   *Viewport

	index map[string]*Node
}

// Registry returns the registry declared under name, or nil.
func (p *Page) Registry(name string) *Registry {
	return p.Registries[name]
}

// Find returns the node declared with the given ID, or nil.
func (p *Page) Find(id string) *Node {
	return p.index[id]
}

// Config returns an orchestrator config with the page defaults and viewport.
// Fields of base that are already set win.
func (p *Page) Config(base Config) Config {
	if base.Defaults.IsZero() {
		base.Defaults = p.Defaults
	}
	if base.Visibility == nil && p.Viewport != nil {
		base.Visibility = p.Viewport
	}
	return base
}

// Mount mounts every root of the page in declared order.
func (p *Page) Mount(o *Orchestrator, now float64) error {
	for _, r := range p.Roots {
		if err := o.Mount(r, now); err != nil {
			return err
		}
	}
	return nil
}

// --- File format ---

type pageFile struct {
	Defaults *transitionSpec                   `yaml:"defaults"`
	Viewport *viewportSpec                     `yaml:"viewport"`
	Variants map[string]map[string]variantSpec `yaml:"variants"`
	Nodes    []nodeSpec                        `yaml:"nodes"`
}

type viewportSpec struct {
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	X      float64   `yaml:"x"`
	Y      float64   `yaml:"y"`
	Page   *rectSpec `yaml:"page"`
}

type rectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (r rectSpec) rect() Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

type nodeSpec struct {
	ID          string        `yaml:"id"`
	Variants    string        `yaml:"variants"`
	Initial     string        `yaml:"initial"`
	Animate     string        `yaml:"animate"`
	WhileInView string        `yaml:"whileInView"`
	OutView     string        `yaml:"outView"`
	WhileHover  string        `yaml:"whileHover"`
	WhileTap    string        `yaml:"whileTap"`
	Viewport    *viewportOpts `yaml:"viewport"`
	Bounds      *rectSpec     `yaml:"bounds"`
	Children    []nodeSpec    `yaml:"children"`
}

type viewportOpts struct {
	Once   bool    `yaml:"once"`
	Amount float64 `yaml:"amount"`
}

type transitionSpec struct {
	Duration         *float64     `yaml:"duration"`
	Delay            *float64     `yaml:"delay"`
	Ease             *string      `yaml:"ease"`
	Repeat           *repeatCount `yaml:"repeat"`
	RepeatType       *string      `yaml:"repeatType"`
	StaggerChildren  *float64     `yaml:"staggerChildren"`
	DelayChildren    *float64     `yaml:"delayChildren"`
	StaggerDirection *int         `yaml:"staggerDirection"`
}

func (s *transitionSpec) transition() (Transition, error) {
	var t Transition
	if s == nil {
		return t, nil
	}
	if s.Duration != nil {
		t = t.WithDuration(*s.Duration)
	}
	if s.Delay != nil {
		t = t.WithDelay(*s.Delay)
	}
	if s.Ease != nil {
		t = t.WithEase(*s.Ease)
	}
	if s.Repeat != nil || s.RepeatType != nil {
		n := 0
		if s.Repeat != nil {
			n = int(*s.Repeat)
		}
		mode := RepeatLoop
		if s.RepeatType != nil {
			switch *s.RepeatType {
			case "loop":
			case "reverse", "mirror":
				mode = RepeatReverse
			default:
				return t, fmt.Errorf("%w: repeatType %q", ErrInvalidTransition, *s.RepeatType)
			}
		}
		t = t.WithRepeat(n, mode)
	}
	if s.StaggerChildren != nil {
		t = t.WithStagger(*s.StaggerChildren)
	}
	if s.DelayChildren != nil {
		t = t.WithDelayChildren(*s.DelayChildren)
	}
	if s.StaggerDirection != nil {
		t = t.WithStaggerDirection(*s.StaggerDirection)
	}
	return t, t.Validate()
}

// transitionKeys lists the fields of a transition mapping. Node.Decode does
// not inherit the decoder's KnownFields setting, so variant transitions are
// checked here.
var transitionKeys = map[string]bool{
	"duration": true, "delay": true, "ease": true, "repeat": true, "repeatType": true,
	"staggerChildren": true, "delayChildren": true, "staggerDirection": true,
}

func checkTransitionKeys(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: transition must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if key := value.Content[i]; !transitionKeys[key.Value] {
			return fmt.Errorf("line %d: unknown transition field %q", key.Line, key.Value)
		}
	}
	return nil
}

// repeatCount accepts an integer or one of "infinite", "Infinity", "forever".
type repeatCount int

func (r *repeatCount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		switch strings.ToLower(value.Value) {
		case "infinite", "infinity", "forever", ".inf":
			*r = RepeatForever
			return nil
		}
	}
	var n int
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("line %d: repeat must be an integer or \"infinite\"", value.Line)
	}
	*r = repeatCount(n)
	return nil
}

// variantSpec is a mapping of property names to a value or a keyframe list,
// plus an optional "transition" key.
type variantSpec struct {
	props      Props
	transition *transitionSpec
}

func (v *variantSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: variant must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Value == "transition" {
			if err := checkTransitionKeys(val); err != nil {
				return err
			}
			v.transition = &transitionSpec{}
			if err := val.Decode(v.transition); err != nil {
				return err
			}
			continue
		}
		ch, err := ParseChannel(key.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
		var frames []float64
		switch val.Kind {
		case yaml.SequenceNode:
			if err := val.Decode(&frames); err != nil {
				return fmt.Errorf("line %d: %s keyframes: %w", val.Line, key.Value, err)
			}
			if len(frames) == 0 {
				return fmt.Errorf("line %d: %s has no keyframes", val.Line, key.Value)
			}
		default:
			var f float64
			if err := val.Decode(&f); err != nil {
				return fmt.Errorf("line %d: %s: %w", val.Line, key.Value, err)
			}
			frames = []float64{f}
		}
		v.props = v.props.WithKeyframes(ch, frames...)
	}
	return nil
}

// LoadPage parses a YAML (or JSON) page definition and builds its registries
// and node trees. The result is ready to be mounted.
func LoadPage(data []byte) (*Page, error) {
	var f pageFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse page: empty document")
		}
		return nil, fmt.Errorf("parse page: %w", err)
	}
	if len(f.Nodes) == 0 {
		return nil, fmt.Errorf("parse page: no nodes")
	}

	p := &Page{Registries: make(map[string]*Registry), index: make(map[string]*Node)}
	var err error
	if p.Defaults, err = f.Defaults.transition(); err != nil {
		return nil, fmt.Errorf("parse page: defaults: %w", err)
	}
	if f.Viewport != nil {
		vp := NewViewport(f.Viewport.Width, f.Viewport.Height)
		vp.X, vp.Y = f.Viewport.X, f.Viewport.Y
		if f.Viewport.Page != nil {
			vp.SetPageBounds(f.Viewport.Page.rect())
		}
		p.Viewport = vp
	}
	regNames := make([]string, 0, len(f.Variants))
	for name := range f.Variants {
		regNames = append(regNames, name)
	}
	sort.Strings(regNames)
	for _, regName := range regNames {
		states := f.Variants[regName]
		reg := NewRegistry(regName)
		names := make([]string, 0, len(states))
		for name := range states {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			vs := states[name]
			t, err := vs.transition.transition()
			if err != nil {
				return nil, fmt.Errorf("parse page: variants.%s.%s: %w", regName, name, err)
			}
			if err := reg.Register(name, Variant{Props: vs.props, Transition: t}); err != nil {
				return nil, fmt.Errorf("parse page: variants.%s: %w", regName, err)
			}
		}
		p.Registries[regName] = reg
	}
	for i := range f.Nodes {
		n, err := p.build(&f.Nodes[i], fmt.Sprintf("nodes[%d]", i))
		if err != nil {
			return nil, fmt.Errorf("parse page: %w", err)
		}
		p.Roots = append(p.Roots, n)
	}
	return p, nil
}

// build converts a node spec and its children.
func (p *Page) build(s *nodeSpec, path string) (*Node, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("%s: missing id", path)
	}
	if _, dup := p.index[s.ID]; dup {
		return nil, fmt.Errorf("%s: %w %q", path, ErrDuplicateNode, s.ID)
	}
	var reg *Registry
	if s.Variants != "" {
		reg = p.Registries[s.Variants]
		if reg == nil {
			return nil, fmt.Errorf("%s: unknown variants %q", path, s.Variants)
		}
	}
	n := NewNode(s.ID, reg)
	n.Initial = s.Initial
	n.Animate = s.Animate
	n.InView = s.WhileInView
	n.OutView = s.OutView
	n.Hover = s.WhileHover
	n.Tap = s.WhileTap
	if s.Viewport != nil {
		n.Once = s.Viewport.Once
		n.Amount = s.Viewport.Amount
	}
	if s.Bounds != nil {
		n.Bounds = s.Bounds.rect()
	}
	p.index[s.ID] = n
	for i := range s.Children {
		c, err := p.build(&s.Children[i], fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}
