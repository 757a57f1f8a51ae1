package cascade

import "fmt"

// Rect is an axis-aligned rectangle in page space. The coordinate system has
// its origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersection returns the overlapping area of r and other. The result has
// zero width or height when they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 < x0 || y1 < y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Area returns Width*Height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// EventKind identifies what caused a trigger.
type EventKind uint8

const (
	EventMount         EventKind = iota // node tree was mounted
	EventViewportEnter                  // node region crossed into the viewport
	EventViewportLeave                  // node region left the viewport
	EventHoverStart                     // pointer entered the node bounds
	EventHoverEnd                       // pointer left the node bounds
	EventTapStart                       // pointer pressed on the node
	EventTapEnd                         // pointer released after a press on the node
)

var eventKindNames = [...]string{
	EventMount:         "mount",
	EventViewportEnter: "viewportEnter",
	EventViewportLeave: "viewportLeave",
	EventHoverStart:    "hoverStart",
	EventHoverEnd:      "hoverEnd",
	EventTapStart:      "tapStart",
	EventTapEnd:        "tapEnd",
}

// setsBase reports whether the kind drives the base layer (mount and viewport
// triggers) rather than a gesture layer.
func (k EventKind) setsBase() bool {
	return k <= EventViewportLeave
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// ParseEventKind maps the names used in page and script files
// ("mount", "viewportEnter", ...) back to an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	for i, name := range eventKindNames {
		if name == s {
			return EventKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Status is the lifecycle state of a node's current transition.
type Status uint8

const (
	StatusIdle      Status = iota // no transition has been requested
	StatusPending                 // accepted, waiting for its start time
	StatusRunning                 // interpolating toward the target
	StatusCompleted               // reached the target
	StatusCancelled               // interrupted or unmounted
)

var statusNames = [...]string{
	StatusIdle:      "idle",
	StatusPending:   "pending",
	StatusRunning:   "running",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// Active reports whether the status is Pending or Running.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusRunning
}

// TriggerEvent asks the orchestrator to animate a node. Time is in seconds on
// the host clock; delays are always measured from it.
type TriggerEvent struct {
	Kind   EventKind
	NodeID string
	Time   float64
	// Transition, when any field is set, overrides the variant's transition.
	Transition Transition
}
