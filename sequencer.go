package sunset

import (
	"fmt"
	"time"
)

// PropertySink is the render boundary: it receives the current value of a
// target's property every time the engine computes one.
type PropertySink interface {
	SetProperty(target, property string, v Value)
}

// SinkFunc adapts a function to the PropertySink interface.
type SinkFunc func(target, property string, v Value)

// SetProperty calls f.
func (f SinkFunc) SetProperty(target, property string, v Value) { f(target, property, v) }

// discardSink drops every value.
type discardSink struct{}

func (discardSink) SetProperty(string, string, Value) {}

// SequencerState is the lifecycle state of a Sequencer.
type SequencerState uint8

const (
	StateIdle    SequencerState = iota // no timeline held
	StateRunning                       // ticks advance the clock
	StatePaused                        // clock frozen, timeline held
	StateEnded                         // the timeline reached its duration
)

// String returns the state name.
func (s SequencerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("SequencerState(%d)", uint8(s))
	}
}

// Sequencer drives one Timeline at a time. It is not safe for concurrent
// use: every call is expected from the same update loop.
//
// Events for a timeline are delivered in the order Start, then value
// emissions from Tick, then exactly one of End or Cancel.
type Sequencer struct {
	sink     PropertySink
	handlers handlerRegistry

	state    SequencerState
	timeline *Timeline
	elapsed  time.Duration
	settled  []bool // entries whose end value has been emitted
}

// NewSequencer creates an idle Sequencer emitting values to sink.
// A nil sink discards values.
func NewSequencer(sink PropertySink) *Sequencer {
	if sink == nil {
		sink = discardSink{}
	}
	return &Sequencer{sink: sink}
}

// State returns the current state.
func (s *Sequencer) State() SequencerState { return s.state }

// Timeline returns the held timeline, nil when idle.
func (s *Sequencer) Timeline() *Timeline { return s.timeline }

// Elapsed returns the time accumulated by Tick since Start.
func (s *Sequencer) Elapsed() time.Duration { return s.elapsed }

// Progress returns elapsed/duration clamped to [0, 1]; 0 when idle.
func (s *Sequencer) Progress() float64 {
	if s.timeline == nil {
		return 0
	}
	return clamp01(float64(s.elapsed) / float64(s.timeline.Duration()))
}

// OnStart registers a callback fired when a timeline starts.
func (s *Sequencer) OnStart(fn func(*Timeline)) CallbackHandle {
	return s.handlers.add(EventStart, fn)
}

// OnEnd registers a callback fired when a timeline completes.
func (s *Sequencer) OnEnd(fn func(*Timeline)) CallbackHandle {
	return s.handlers.add(EventEnd, fn)
}

// OnCancel registers a callback fired when a timeline is cancelled.
func (s *Sequencer) OnCancel(fn func(*Timeline)) CallbackHandle {
	return s.handlers.add(EventCancel, fn)
}

// AddListener registers l for every lifecycle event.
func (s *Sequencer) AddListener(l Listener) CallbackHandle {
	return s.handlers.addListener(l)
}

// Start adopts tl and begins running it from elapsed 0. The sequencer must be
// idle or ended; cancel a running or paused timeline first, or use Replace.
func (s *Sequencer) Start(tl *Timeline) error {
	if tl == nil {
		return fmt.Errorf("start: nil timeline: %w", ErrUnresolvedGraph)
	}
	if s.state == StateRunning || s.state == StatePaused {
		return fmt.Errorf("start: sequencer is %s: %w", s.state, ErrInvalidStateTransition)
	}
	s.timeline = tl
	s.elapsed = 0
	s.settled = make([]bool, len(tl.Entries()))
	s.state = StateRunning
	s.handlers.fire(EventStart, tl)
	return nil
}

// Replace cancels any running or paused timeline and starts tl, so two
// timelines never emit concurrently.
func (s *Sequencer) Replace(tl *Timeline) error {
	if s.state == StateRunning || s.state == StatePaused {
		s.Cancel()
	}
	return s.Start(tl)
}

// Tick advances the clock by dt while running and emits the value of every
// transition whose window has opened. A transition whose window has closed
// emits its end value once and then falls silent. When the clock reaches the
// timeline's duration the sequencer ends and fires End exactly once.
//
// Accounting is by delta only, so irregular frame intervals are fine. Ticks
// in any other state are ignored, as are negative deltas.
func (s *Sequencer) Tick(dt time.Duration) {
	if s.state != StateRunning || dt < 0 {
		return
	}
	tl := s.timeline
	s.elapsed += dt
	s.emit()
	if s.timeline != tl || s.state != StateRunning {
		return
	}
	if s.elapsed >= tl.Duration() {
		s.state = StateEnded
		s.handlers.fire(EventEnd, tl)
	}
}

// emit stops early if the sink cancels or replaces the timeline mid-frame.
func (s *Sequencer) emit() {
	tl, settled := s.timeline, s.settled
	for i, e := range tl.Entries() {
		if settled[i] || s.elapsed < e.Start {
			continue
		}
		local := s.elapsed - e.Start
		t := e.Transition
		if local >= t.Duration() {
			settled[i] = true
		}
		s.sink.SetProperty(t.Target(), t.Property(), t.ValueAt(local))
		if s.timeline != tl {
			return
		}
	}
}

// Pause freezes the clock. Only valid while running.
func (s *Sequencer) Pause() error {
	if s.state != StateRunning {
		return fmt.Errorf("pause: sequencer is %s: %w", s.state, ErrInvalidStateTransition)
	}
	s.state = StatePaused
	return nil
}

// Resume continues a paused timeline from its frozen elapsed time.
func (s *Sequencer) Resume() error {
	if s.state != StatePaused {
		return fmt.Errorf("resume: sequencer is %s: %w", s.state, ErrInvalidStateTransition)
	}
	s.state = StateRunning
	return nil
}

// Cancel discards the held timeline and returns to idle. It is valid from
// any state. Cancel fires only for a running or paused timeline; an ended
// timeline already received its terminal End event.
func (s *Sequencer) Cancel() {
	tl := s.timeline
	active := s.state == StateRunning || s.state == StatePaused
	s.state = StateIdle
	s.timeline = nil
	s.elapsed = 0
	s.settled = nil
	if active {
		s.handlers.fire(EventCancel, tl)
	}
}
