package sunset

// LifecycleEvent identifies a timeline lifecycle notification.
type LifecycleEvent uint8

const (
	EventStart  LifecycleEvent = iota // fires when a timeline starts, before any value is emitted
	EventEnd                          // fires once when elapsed time reaches the timeline's duration
	EventCancel                       // fires when a running or paused timeline is cancelled
	eventListener
)

// String returns the event name.
func (e LifecycleEvent) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventCancel:
		return "cancel"
	default:
		return "listener"
	}
}

// Listener receives every lifecycle event of the timelines a Sequencer runs.
// End and Cancel are mutually exclusive for a given timeline.
type Listener interface {
	OnTimelineStart(tl *Timeline)
	OnTimelineEnd(tl *Timeline)
	OnTimelineCancel(tl *Timeline)
}

// ListenerFuncs adapts optional callbacks to the Listener interface.
// Nil fields are skipped.
type ListenerFuncs struct {
	Start  func(*Timeline)
	End    func(*Timeline)
	Cancel func(*Timeline)
}

func (f ListenerFuncs) OnTimelineStart(tl *Timeline) {
	if f.Start != nil {
		f.Start(tl)
	}
}

func (f ListenerFuncs) OnTimelineEnd(tl *Timeline) {
	if f.End != nil {
		f.End(tl)
	}
}

func (f ListenerFuncs) OnTimelineCancel(tl *Timeline) {
	if f.Cancel != nil {
		f.Cancel(tl)
	}
}

// --- Handler registry ---

type lifecycleHandler struct {
	id uint32
	fn func(*Timeline)
}

type listenerHandler struct {
	id uint32
	l  Listener
}

type handlerRegistry struct {
	start     []lifecycleHandler
	end       []lifecycleHandler
	cancel    []lifecycleHandler
	listeners []listenerHandler
	nextID    uint32
}

// CallbackHandle allows removing a registered lifecycle callback or listener.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event LifecycleEvent
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventStart:
		h.reg.start = removeLifecycleHandler(h.reg.start, h.id)
	case EventEnd:
		h.reg.end = removeLifecycleHandler(h.reg.end, h.id)
	case EventCancel:
		h.reg.cancel = removeLifecycleHandler(h.reg.cancel, h.id)
	case eventListener:
		for i := range h.reg.listeners {
			if h.reg.listeners[i].id == h.id {
				h.reg.listeners = append(h.reg.listeners[:i], h.reg.listeners[i+1:]...)
				return
			}
		}
	}
}

func removeLifecycleHandler(s []lifecycleHandler, id uint32) []lifecycleHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = lifecycleHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) add(event LifecycleEvent, fn func(*Timeline)) CallbackHandle {
	r.nextID++
	h := lifecycleHandler{id: r.nextID, fn: fn}
	switch event {
	case EventStart:
		r.start = append(r.start, h)
	case EventEnd:
		r.end = append(r.end, h)
	case EventCancel:
		r.cancel = append(r.cancel, h)
	}
	return CallbackHandle{id: r.nextID, reg: r, event: event}
}

func (r *handlerRegistry) addListener(l Listener) CallbackHandle {
	r.nextID++
	r.listeners = append(r.listeners, listenerHandler{id: r.nextID, l: l})
	return CallbackHandle{id: r.nextID, reg: r, event: eventListener}
}

// fire delivers event to listeners first, then to per-event callbacks, each
// in registration order. Handlers registered during delivery fire from the
// next event on.
func (r *handlerRegistry) fire(event LifecycleEvent, tl *Timeline) {
	listeners := append([]listenerHandler(nil), r.listeners...)
	for _, h := range listeners {
		switch event {
		case EventStart:
			h.l.OnTimelineStart(tl)
		case EventEnd:
			h.l.OnTimelineEnd(tl)
		case EventCancel:
			h.l.OnTimelineCancel(tl)
		}
	}

	var handlers []lifecycleHandler
	switch event {
	case EventStart:
		handlers = r.start
	case EventEnd:
		handlers = r.end
	case EventCancel:
		handlers = r.cancel
	}
	for _, h := range append([]lifecycleHandler(nil), handlers...) {
		h.fn(tl)
	}
}
