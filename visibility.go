package cascade

import (
	"log/slog"
	"math"

	"github.com/phanxgames/cascade/internal/logging"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// VisibilityPlatform is the host's visibility primitive. IntersectionRatio
// returns the visible fraction of region in [0, 1]; ok is false when the
// platform cannot currently answer, in which case the observer fails open.
type VisibilityPlatform interface {
	IntersectionRatio(region Rect) (ratio float64, ok bool)
}

// --- Viewport ---

// scrollAnim holds active smooth-scroll tweens for the viewport X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport is a scrollable, resizable window onto the page. It implements
// VisibilityPlatform by rectangle intersection.
type Viewport struct {
	// X and Y are the page-space position of the viewport's top-left corner.
	X, Y float64
	// Width and Height are the viewport size.
	Width, Height float64

	// BoundsEnabled clamps scrolling so the viewport stays within Page.
	BoundsEnabled bool
	// Page is the page-space rectangle the viewport is clamped to when
	// BoundsEnabled is true.
	Page Rect

	// Unavailable simulates a host without visibility detection.
	Unavailable bool

	scrollTween *scrollAnim
}

// NewViewport creates a viewport of the given size at the page origin.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height}
}

// Bounds returns the visible page-space rectangle.
func (v *Viewport) Bounds() Rect {
	return Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}

// IntersectionRatio returns the fraction of region inside the viewport.
// Regions without area count as fully visible when they touch the viewport.
func (v *Viewport) IntersectionRatio(region Rect) (float64, bool) {
	if v.Unavailable {
		return 0, false
	}
	view := v.Bounds()
	if region.Empty() {
		if region.Intersects(view) {
			return 1, true
		}
		return 0, true
	}
	return view.Intersection(region).Area() / region.Area(), true
}

// ScrollTo moves the viewport immediately and cancels any smooth scroll.
func (v *Viewport) ScrollTo(x, y float64) {
	v.scrollTween = nil
	v.X, v.Y = x, y
	v.clamp()
}

// ScrollBy moves the viewport by (dx, dy).
func (v *Viewport) ScrollBy(dx, dy float64) {
	v.ScrollTo(v.X+dx, v.Y+dy)
}

// SmoothScrollTo animates the viewport to (x, y) over duration seconds.
// Call Update every frame to progress it.
func (v *Viewport) SmoothScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	v.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(v.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(v.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a smooth scroll is in progress.
func (v *Viewport) Scrolling() bool {
	return v.scrollTween != nil
}

// Resize changes the viewport size, keeping its top-left corner.
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
	v.clamp()
}

// SetPageBounds enables clamping to the page rectangle.
func (v *Viewport) SetPageBounds(page Rect) {
	v.BoundsEnabled = true
	v.Page = page
	v.clamp()
}

// Update advances a smooth scroll by dt seconds.
func (v *Viewport) Update(dt float32) {
	if v.scrollTween == nil {
		return
	}
	if !v.scrollTween.doneX {
		val, done := v.scrollTween.tweenX.Update(dt)
		v.X = float64(val)
		v.scrollTween.doneX = done
	}
	if !v.scrollTween.doneY {
		val, done := v.scrollTween.tweenY.Update(dt)
		v.Y = float64(val)
		v.scrollTween.doneY = done
	}
	if v.scrollTween.doneX && v.scrollTween.doneY {
		v.scrollTween = nil
	}
	v.clamp()
}

// clamp restricts the viewport position so it stays within Page.
func (v *Viewport) clamp() {
	if !v.BoundsEnabled {
		return
	}
	maxX := v.Page.X + v.Page.Width - v.Width
	maxY := v.Page.Y + v.Page.Height - v.Height
	// A page smaller than the viewport pins it to the page origin.
	v.X = math.Max(v.Page.X, math.Min(v.X, maxX))
	v.Y = math.Max(v.Page.Y, math.Min(v.Y, maxY))
	if maxX < v.Page.X {
		v.X = v.Page.X
	}
	if maxY < v.Page.Y {
		v.Y = v.Page.Y
	}
}

// --- Observer ---

const (
	reportNone int8 = iota
	reportOutside
	reportInside
)

type observation struct {
	id        string
	region    Rect
	threshold float64
	once      bool

	emitted  bool      // any event emitted during this observation
	last     EventKind // kind of the last emitted event
	reported int8      // latest pushed crossing since the last poll
	done     bool      // once-observation that has fired
}

// VisibilityObserver watches node regions and reports viewport crossings as
// trigger events. It never touches node state; the orchestrator consumes the
// events it returns from Poll.
type VisibilityObserver struct {
	platform VisibilityPlatform
	logger   *slog.Logger

	obs   map[string]*observation
	order []*observation

	degraded bool
}

// NewVisibilityObserver creates an observer on platform. A nil platform
// makes every observation fail open.
func NewVisibilityObserver(platform VisibilityPlatform, logger *slog.Logger) *VisibilityObserver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &VisibilityObserver{
		platform: platform,
		logger:   logger,
		obs:      make(map[string]*observation),
	}
}

// Observe starts watching region for nodeID. threshold is the visible
// fraction needed to count as inside (0 means any overlap). A once
// observation emits at most one ViewportEnter and then stops watching.
// Observing an ID again replaces the previous observation.
func (v *VisibilityObserver) Observe(nodeID string, region Rect, threshold float64, once bool) {
	if old, ok := v.obs[nodeID]; ok {
		old.done = true
	}
	o := &observation{id: nodeID, region: region, threshold: threshold, once: once}
	v.obs[nodeID] = o
	v.order = append(v.order, o)
}

// SetRegion updates the watched region after a relayout.
func (v *VisibilityObserver) SetRegion(nodeID string, region Rect) {
	if o, ok := v.obs[nodeID]; ok {
		o.region = region
	}
}

// Unobserve stops watching nodeID. Unobserving an unknown ID is a no-op.
func (v *VisibilityObserver) Unobserve(nodeID string) {
	if o, ok := v.obs[nodeID]; ok {
		o.done = true
		delete(v.obs, nodeID)
	}
}

// Observing reports whether nodeID is still watched.
func (v *VisibilityObserver) Observing(nodeID string) bool {
	o, ok := v.obs[nodeID]
	return ok && !o.done
}

// Report pushes a crossing detected by a callback-style platform. Reports
// between two polls coalesce to the latest direction.
func (v *VisibilityObserver) Report(nodeID string, inside bool) {
	o, ok := v.obs[nodeID]
	if !ok || o.done {
		return
	}
	if inside {
		o.reported = reportInside
	} else {
		o.reported = reportOutside
	}
}

// Poll evaluates every observation and appends the resulting events, stamped
// with now, to dst. A node never receives two consecutive events of the same
// kind, and nothing is emitted for a node that starts outside.
func (v *VisibilityObserver) Poll(now float64, dst []TriggerEvent) []TriggerEvent {
	kept := v.order[:0]
	for _, o := range v.order {
		if o.done {
			continue
		}
		kept = append(kept, o)

		inside, ok := v.inside(o)
		if !ok {
			// Fail open: content must never stay hidden.
			inside = true
		}
		kind := EventViewportLeave
		if inside {
			kind = EventViewportEnter
		}
		switch {
		case !o.emitted && !inside:
			continue
		case o.emitted && o.last == kind:
			continue
		case o.once && kind == EventViewportLeave:
			continue
		}
		o.emitted = true
		o.last = kind
		dst = append(dst, TriggerEvent{Kind: kind, NodeID: o.id, Time: now})
		if o.once && kind == EventViewportEnter {
			o.done = true
			delete(v.obs, o.id)
		}
	}
	for i := len(kept); i < len(v.order); i++ {
		v.order[i] = nil
	}
	v.order = kept
	return dst
}

// inside decides the crossing direction of o. ok is false when the platform
// is unavailable and no crossing was pushed.
func (v *VisibilityObserver) inside(o *observation) (inside, ok bool) {
	if o.reported != reportNone {
		inside = o.reported == reportInside
		o.reported = reportNone
		return inside, true
	}
	if v.platform == nil {
		v.degrade()
		return false, false
	}
	ratio, ok := v.platform.IntersectionRatio(o.region)
	if !ok {
		v.degrade()
		return false, false
	}
	v.degraded = false
	if o.threshold <= 0 {
		return ratio > 0, true
	}
	return ratio >= o.threshold, true
}

func (v *VisibilityObserver) degrade() {
	if !v.degraded {
		v.degraded = true
		v.logger.Warn("cascade: visibility platform unavailable, revealing observed nodes")
	}
}
