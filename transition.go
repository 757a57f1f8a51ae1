package cascade

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tanema/gween/ease"
)

// RepeatForever makes a transition repeat until the node is retargeted or
// unmounted. Such transitions never reach StatusCompleted.
const RepeatForever = -1

// RepeatMode selects how successive iterations of a repeating transition run.
type RepeatMode uint8

const (
	RepeatLoop    RepeatMode = iota // every iteration runs origin → target
	RepeatReverse                   // iterations alternate direction (yoyo)
)

// ErrInvalidTransition is returned for negative durations, delays or stagger
// increments and for repeat counts below RepeatForever.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnknownEasing is returned when a transition names an easing that is not
// in the easing table.
var ErrUnknownEasing = errors.New("unknown easing")

// DefaultEase is the easing used when neither the event, the variant nor any
// defaults name one.
const DefaultEase = "linear"

// DefaultDuration is the duration used when no layer sets one.
const DefaultDuration = 0.3

// easings maps easing identifiers to gween easing functions. The framer-style
// names are aliases for the closest gween curve.
var easings = map[string]ease.TweenFunc{
	"linear":      ease.Linear,
	"easeIn":      ease.InQuad,
	"easeOut":     ease.OutQuad,
	"easeInOut":   ease.InOutQuad,
	"inQuad":      ease.InQuad,
	"outQuad":     ease.OutQuad,
	"inOutQuad":   ease.InOutQuad,
	"inCubic":     ease.InCubic,
	"outCubic":    ease.OutCubic,
	"inOutCubic":  ease.InOutCubic,
	"inQuart":     ease.InQuart,
	"outQuart":    ease.OutQuart,
	"inOutQuart":  ease.InOutQuart,
	"inSine":      ease.InSine,
	"outSine":     ease.OutSine,
	"inOutSine":   ease.InOutSine,
	"inExpo":      ease.InExpo,
	"outExpo":     ease.OutExpo,
	"inOutExpo":   ease.InOutExpo,
	"circIn":      ease.InCirc,
	"circOut":     ease.OutCirc,
	"circInOut":   ease.InOutCirc,
	"backIn":      ease.InBack,
	"backOut":     ease.OutBack,
	"backInOut":   ease.InOutBack,
	"outBounce":   ease.OutBounce,
	"outElastic":  ease.OutElastic,
	"anticipate":  ease.InBack,
	"inOutBounce": ease.InOutBounce,
}

// Easing looks up an easing function by identifier.
func Easing(name string) (ease.TweenFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEasing, name)
	}
	return fn, nil
}

// EasingNames returns the known easing identifiers in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type transitionField uint16

const (
	fieldDuration transitionField = 1 << iota
	fieldDelay
	fieldEase
	fieldRepeat
	fieldRepeatMode
	fieldStagger
	fieldDelayChildren
	fieldStaggerDirection
)

// Transition describes how a node interpolates toward a variant. Values are
// immutable; the With methods return modified copies. Every field remembers
// whether it was set so layers can be merged field by field.
// All times are in seconds.
type Transition struct {
	duration         float64
	delay            float64
	ease             string
	repeat           int
	repeatMode       RepeatMode
	stagger          float64
	delayChildren    float64
	staggerDirection int
	set              transitionField
}

// Tween returns a transition with only the duration set.
func Tween(duration float64) Transition {
	return Transition{}.WithDuration(duration)
}

// WithDuration returns a copy of t with the given duration.
func (t Transition) WithDuration(d float64) Transition {
	t.duration = d
	t.set |= fieldDuration
	return t
}

// WithDelay returns a copy of t with the given start delay.
func (t Transition) WithDelay(d float64) Transition {
	t.delay = d
	t.set |= fieldDelay
	return t
}

// WithEase returns a copy of t with the given easing identifier.
func (t Transition) WithEase(name string) Transition {
	t.ease = name
	t.set |= fieldEase
	return t
}

// WithRepeat returns a copy of t repeating n extra times (RepeatForever for
// infinite) in the given mode.
func (t Transition) WithRepeat(n int, mode RepeatMode) Transition {
	t.repeat = n
	t.repeatMode = mode
	t.set |= fieldRepeat | fieldRepeatMode
	return t
}

// WithStagger returns a copy of t that offsets each child by d.
func (t Transition) WithStagger(d float64) Transition {
	t.stagger = d
	t.set |= fieldStagger
	return t
}

// WithDelayChildren returns a copy of t that offsets the first child by d.
func (t Transition) WithDelayChildren(d float64) Transition {
	t.delayChildren = d
	t.set |= fieldDelayChildren
	return t
}

// WithStaggerDirection returns a copy of t that staggers children in
// declared order (dir >= 0) or in reverse order (dir < 0).
func (t Transition) WithStaggerDirection(dir int) Transition {
	if dir < 0 {
		t.staggerDirection = -1
	} else {
		t.staggerDirection = 1
	}
	t.set |= fieldStaggerDirection
	return t
}

// IsZero reports whether no field is set.
func (t Transition) IsZero() bool { return t.set == 0 }

// Duration returns the duration, 0 if unset.
func (t Transition) Duration() float64 { return t.duration }

// Delay returns the start delay, 0 if unset.
func (t Transition) Delay() float64 { return t.delay }

// Ease returns the easing identifier, DefaultEase if unset.
func (t Transition) Ease() string {
	if t.set&fieldEase == 0 {
		return DefaultEase
	}
	return t.ease
}

// Repeat returns the number of extra iterations and the repeat mode.
func (t Transition) Repeat() (int, RepeatMode) { return t.repeat, t.repeatMode }

// Stagger returns the per-child stagger increment.
func (t Transition) Stagger() float64 { return t.stagger }

// DelayChildren returns the offset applied before the first child.
func (t Transition) DelayChildren() float64 { return t.delayChildren }

// StaggerDirection returns 1 for declared order and -1 for reverse order.
func (t Transition) StaggerDirection() int {
	if t.staggerDirection < 0 {
		return -1
	}
	return 1
}

// HasDuration reports whether the duration was set explicitly.
func (t Transition) HasDuration() bool { return t.set&fieldDuration != 0 }

// Merge returns t with every field set in over replacing the value in t.
func (t Transition) Merge(over Transition) Transition {
	if over.set&fieldDuration != 0 {
		t.duration = over.duration
	}
	if over.set&fieldDelay != 0 {
		t.delay = over.delay
	}
	if over.set&fieldEase != 0 {
		t.ease = over.ease
	}
	if over.set&fieldRepeat != 0 {
		t.repeat = over.repeat
	}
	if over.set&fieldRepeatMode != 0 {
		t.repeatMode = over.repeatMode
	}
	if over.set&fieldStagger != 0 {
		t.stagger = over.stagger
	}
	if over.set&fieldDelayChildren != 0 {
		t.delayChildren = over.delayChildren
	}
	if over.set&fieldStaggerDirection != 0 {
		t.staggerDirection = over.staggerDirection
	}
	t.set |= over.set
	return t
}

// Validate checks the set fields for out-of-range values and unknown easings.
func (t Transition) Validate() error {
	bad := func(v float64) bool { return v < 0 || math.IsNaN(v) || math.IsInf(v, 0) }
	switch {
	case t.set&fieldDuration != 0 && bad(t.duration):
		return fmt.Errorf("%w: duration %v", ErrInvalidTransition, t.duration)
	case t.set&fieldDelay != 0 && bad(t.delay):
		return fmt.Errorf("%w: delay %v", ErrInvalidTransition, t.delay)
	case t.set&fieldStagger != 0 && bad(t.stagger):
		return fmt.Errorf("%w: stagger %v", ErrInvalidTransition, t.stagger)
	case t.set&fieldDelayChildren != 0 && bad(t.delayChildren):
		return fmt.Errorf("%w: delayChildren %v", ErrInvalidTransition, t.delayChildren)
	case t.set&fieldRepeat != 0 && t.repeat < RepeatForever:
		return fmt.Errorf("%w: repeat %d", ErrInvalidTransition, t.repeat)
	}
	if t.set&fieldEase != 0 {
		if _, err := Easing(t.ease); err != nil {
			return err
		}
	}
	return nil
}

// baseTransition is the innermost layer used to fill fields no other layer
// sets.
var baseTransition = Tween(DefaultDuration).WithEase(DefaultEase)

// infinite reports whether the transition repeats forever.
func (t Transition) infinite() bool {
	return t.repeat == RepeatForever
}

// iterations returns how many times the transition plays.
func (t Transition) iterations() int {
	if t.repeat < 0 {
		return 0
	}
	return t.repeat + 1
}

// total returns the wall time from start to completion, or +Inf.
func (t Transition) total() float64 {
	if t.infinite() {
		return math.Inf(1)
	}
	return t.duration * float64(t.iterations())
}
