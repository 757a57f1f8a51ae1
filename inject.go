package cascade

// pointerEvent is a queued pointer sample in page coordinates.
type pointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectMove queues a pointer move to (x, y). Queued events are consumed one
// per Advance, in arrival order, stamped with that Advance's time.
func (o *Orchestrator) InjectMove(x, y float64) {
	o.injectQueue = append(o.injectQueue, pointerEvent{x: x, y: y, pressed: o.lastQueuedPressed()})
}

// InjectPress queues a press at (x, y).
func (o *Orchestrator) InjectPress(x, y float64) {
	o.injectQueue = append(o.injectQueue, pointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a release at (x, y).
func (o *Orchestrator) InjectRelease(x, y float64) {
	o.injectQueue = append(o.injectQueue, pointerEvent{x: x, y: y, pressed: false})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same coordinates. Consumes two frames.
func (o *Orchestrator) InjectClick(x, y float64) {
	o.InjectPress(x, y)
	o.InjectRelease(x, y)
}

// PendingInput returns the number of queued pointer events.
func (o *Orchestrator) PendingInput() int {
	return len(o.injectQueue)
}

// lastQueuedPressed returns the button state the pointer will have after the
// queue drains, so moves keep a press held.
func (o *Orchestrator) lastQueuedPressed() bool {
	if n := len(o.injectQueue); n > 0 {
		return o.injectQueue[n-1].pressed
	}
	return o.pointer.down
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed.
func (o *Orchestrator) processInjectedInput(now float64) bool {
	if len(o.injectQueue) == 0 {
		return false
	}
	evt := o.injectQueue[0]
	copy(o.injectQueue, o.injectQueue[1:])
	o.injectQueue = o.injectQueue[:len(o.injectQueue)-1]

	o.processPointer(evt.x, evt.y, evt.pressed, now)
	return true
}
