package char

// Events is the notification hub for discrete state changes. Subscribers are
// called synchronously, in subscription order, at the moment the change
// happens. Signals carry no payload beyond "it happened now".
type Events struct {
	jump       []func()
	bounce     []func()
	brakeBegin []func()
	brakeEnd   []func()
}

// NewEvents returns an empty hub.
func NewEvents() *Events {
	return &Events{}
}

// OnJump subscribes to jump launches.
func (e *Events) OnJump(fn func()) { e.jump = append(e.jump, fn) }

// OnBounce subscribes to bounce impulses, raised once per pinned tick while a
// bounce force is held.
func (e *Events) OnBounce(fn func()) { e.bounce = append(e.bounce, fn) }

// OnBrakeBegin subscribes to the start of a braking skid.
func (e *Events) OnBrakeBegin(fn func()) { e.brakeBegin = append(e.brakeBegin, fn) }

// OnBrakeEnd subscribes to the end of a braking skid.
func (e *Events) OnBrakeEnd(fn func()) { e.brakeEnd = append(e.brakeEnd, fn) }

func (e *Events) emitJump() {
	for _, fn := range e.jump {
		fn()
	}
}

func (e *Events) emitBounce() {
	for _, fn := range e.bounce {
		fn()
	}
}

func (e *Events) emitBrakeBegin() {
	for _, fn := range e.brakeBegin {
		fn()
	}
}

func (e *Events) emitBrakeEnd() {
	for _, fn := range e.brakeEnd {
		fn()
	}
}
