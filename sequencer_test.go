package sunset

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

// recorder captures property writes and lifecycle events in one ordered log.
type recorder struct {
	log    []string
	values map[string]Value
	writes map[string]int
}

func newRecorder() *recorder {
	return &recorder{values: make(map[string]Value), writes: make(map[string]int)}
}

func (r *recorder) SetProperty(target, property string, v Value) {
	key := target + "." + property
	r.values[key] = v
	r.writes[key]++
	r.log = append(r.log, "value:"+key)
}

func (r *recorder) OnTimelineStart(*Timeline)  { r.log = append(r.log, "start") }
func (r *recorder) OnTimelineEnd(*Timeline)    { r.log = append(r.log, "end") }
func (r *recorder) OnTimelineCancel(*Timeline) { r.log = append(r.log, "cancel") }

func (r *recorder) count(entry string) int {
	n := 0
	for _, e := range r.log {
		if e == entry {
			n++
		}
	}
	return n
}

func newTestSequencer(t *testing.T) (*Sequencer, *recorder) {
	t.Helper()
	rec := newRecorder()
	s := NewSequencer(rec)
	s.AddListener(rec)
	return s, rec
}

func linearTimeline(t *testing.T, d time.Duration) (*Timeline, *Transition) {
	t.Helper()
	tr := mustTransition(t, "sun", PropY, 0, float64(d/time.Millisecond), d)
	tl, err := Resolve(Leaf(tr))
	if err != nil {
		t.Fatal(err)
	}
	return tl, tr
}

func TestSequencerStartRequiresIdleOrEnded(t *testing.T) {
	s, _ := newTestSequencer(t)
	tl, _ := linearTimeline(t, time.Second)

	if err := s.Start(tl); err != nil {
		t.Fatalf("Start from idle: %v", err)
	}
	if err := s.Start(tl); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Start while running: err = %v, want ErrInvalidStateTransition", err)
	}
	if err := s.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(tl); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Start while paused: err = %v, want ErrInvalidStateTransition", err)
	}

	s.Cancel()
	if err := s.Start(tl); err != nil {
		t.Fatalf("Start after cancel: %v", err)
	}
	s.Tick(time.Second)
	if s.State() != StateEnded {
		t.Fatalf("State = %v, want ended", s.State())
	}
	if err := s.Start(tl); err != nil {
		t.Errorf("Start from ended: %v", err)
	}
	if err := s.Start(nil); !errors.Is(err, ErrUnresolvedGraph) && !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Start(nil): err = %v", err)
	}
}

func TestSequencerPauseResumePreservesElapsed(t *testing.T) {
	s, rec := newTestSequencer(t)
	tl, _ := linearTimeline(t, time.Second)
	if err := s.Start(tl); err != nil {
		t.Fatal(err)
	}

	s.Tick(100 * time.Millisecond)
	s.Tick(150 * time.Millisecond)
	if err := s.Pause(); err != nil {
		t.Fatal(err)
	}
	writes := rec.writes["sun.y"]

	s.Tick(500 * time.Millisecond)
	if s.Elapsed() != 250*time.Millisecond {
		t.Errorf("Elapsed while paused = %v, want 250ms", s.Elapsed())
	}
	if rec.writes["sun.y"] != writes {
		t.Error("paused sequencer emitted values")
	}

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	s.Tick(100 * time.Millisecond)
	if s.Elapsed() != 350*time.Millisecond {
		t.Errorf("Elapsed after resume = %v, want 350ms", s.Elapsed())
	}
	if got := rec.values["sun.y"].Float(); math.Abs(got-350) > 1e-6 {
		t.Errorf("sun.y = %f, want 350", got)
	}
}

func TestSequencerPauseResumeStateErrors(t *testing.T) {
	s, _ := newTestSequencer(t)
	if err := s.Pause(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Pause from idle: err = %v", err)
	}
	if err := s.Resume(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Resume from idle: err = %v", err)
	}

	tl, _ := linearTimeline(t, time.Second)
	_ = s.Start(tl)
	if err := s.Resume(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Resume while running: err = %v", err)
	}
	_ = s.Pause()
	if err := s.Pause(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Pause while paused: err = %v", err)
	}

	s.Cancel()
	_ = s.Start(tl)
	s.Tick(2 * time.Second)
	if err := s.Pause(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Pause while ended: err = %v", err)
	}
}

func TestSequencerCancelNeverEmitsEnd(t *testing.T) {
	for _, state := range []string{"running", "paused"} {
		s, rec := newTestSequencer(t)
		tl, _ := linearTimeline(t, time.Second)
		_ = s.Start(tl)
		s.Tick(400 * time.Millisecond)
		if state == "paused" {
			_ = s.Pause()
		}

		s.Cancel()
		if s.State() != StateIdle {
			t.Errorf("%s: State = %v, want idle", state, s.State())
		}
		if s.Timeline() != nil {
			t.Errorf("%s: timeline kept after cancel", state)
		}
		s.Tick(time.Second)

		if rec.count("end") != 0 {
			t.Errorf("%s: End emitted after cancel", state)
		}
		if rec.count("cancel") != 1 {
			t.Errorf("%s: cancel count = %d, want 1", state, rec.count("cancel"))
		}
	}
}

func TestSequencerCancelFromIdleOrEnded(t *testing.T) {
	s, rec := newTestSequencer(t)
	s.Cancel()
	if s.State() != StateIdle || rec.count("cancel") != 0 {
		t.Errorf("idle cancel: state %v, cancel events %d", s.State(), rec.count("cancel"))
	}

	tl, _ := linearTimeline(t, time.Second)
	_ = s.Start(tl)
	s.Tick(time.Second)
	s.Cancel()
	if s.State() != StateIdle {
		t.Errorf("State = %v, want idle", s.State())
	}
	if rec.count("cancel") != 0 || rec.count("end") != 1 {
		t.Errorf("ended timeline got cancel=%d end=%d, want 0 and 1", rec.count("cancel"), rec.count("end"))
	}
}

func TestSequencerEndFiresOnce(t *testing.T) {
	s, rec := newTestSequencer(t)
	tl, _ := linearTimeline(t, 300*time.Millisecond)
	_ = s.Start(tl)

	s.Tick(200 * time.Millisecond)
	if s.State() != StateRunning {
		t.Fatalf("State = %v before duration, want running", s.State())
	}
	s.Tick(200 * time.Millisecond)
	s.Tick(200 * time.Millisecond)

	if s.State() != StateEnded {
		t.Errorf("State = %v, want ended", s.State())
	}
	if rec.count("end") != 1 {
		t.Errorf("end count = %d, want 1", rec.count("end"))
	}
	if got := rec.values["sun.y"].Float(); got != 300 {
		t.Errorf("final sun.y = %f, want 300", got)
	}
}

func TestSequencerEventOrdering(t *testing.T) {
	s, rec := newTestSequencer(t)
	tl, _ := linearTimeline(t, 200*time.Millisecond)
	_ = s.Start(tl)
	s.Tick(100 * time.Millisecond)
	s.Tick(100 * time.Millisecond)

	want := []string{"start", "value:sun.y", "value:sun.y", "end"}
	if fmt.Sprint(rec.log) != fmt.Sprint(want) {
		t.Errorf("log = %v, want %v", rec.log, want)
	}
}

func TestSequencerReplaceCancelsPrevious(t *testing.T) {
	s, rec := newTestSequencer(t)
	first, _ := linearTimeline(t, time.Second)
	second, _ := linearTimeline(t, 2*time.Second)

	_ = s.Start(first)
	s.Tick(100 * time.Millisecond)
	if err := s.Replace(second); err != nil {
		t.Fatal(err)
	}

	if s.Timeline() != second {
		t.Error("Replace did not adopt the new timeline")
	}
	if s.Elapsed() != 0 {
		t.Errorf("Elapsed = %v, want 0", s.Elapsed())
	}
	want := []string{"start", "value:sun.y", "cancel", "start"}
	if fmt.Sprint(rec.log) != fmt.Sprint(want) {
		t.Errorf("log = %v, want %v", rec.log, want)
	}
}

func TestSequencerSecondaryStageEndToEnd(t *testing.T) {
	rec := newRecorder()
	s := NewSequencer(rec)

	move := mustTransition(t, "sun", PropY, 0, 600, 3000*time.Millisecond)
	night, err := NewTransition("sky", PropColor,
		ColorValue(Color{R: 236, G: 129, A: 255}), ColorValue(Color{R: 5, G: 25, B: 46, A: 255}),
		1500*time.Millisecond, EaseLinear)
	if err != nil {
		t.Fatal(err)
	}
	tl, err := Resolve(Play(move).Before(night).Node())
	if err != nil {
		t.Fatal(err)
	}

	var endAt time.Duration = -1
	s.OnEnd(func(*Timeline) { endAt = s.Elapsed() })
	_ = s.Start(tl)

	start := night.StartValue().Color()
	for s.State() == StateRunning {
		s.Tick(100 * time.Millisecond)
		v, written := rec.values["sky.color"]
		if s.Elapsed() < 3000*time.Millisecond {
			if written {
				t.Fatalf("sky written at %v, before its stage", s.Elapsed())
			}
			continue
		}
		if !written {
			t.Fatalf("sky not written at %v", s.Elapsed())
		}
		if s.Elapsed() == 3000*time.Millisecond && v.Color() != start {
			t.Errorf("sky at 3000ms = %v, want start %v", v.Color(), start)
		}
		if s.Elapsed() > 3000*time.Millisecond && v.Color() == start {
			t.Errorf("sky unchanged at %v", s.Elapsed())
		}
	}

	if endAt != 4500*time.Millisecond {
		t.Errorf("End fired at %v, want 4500ms", endAt)
	}
	if got := rec.values["sky.color"].Color(); got != night.EndValue().Color() {
		t.Errorf("final sky = %v, want %v", got, night.EndValue().Color())
	}
	if got := rec.values["sun.y"].Float(); got != 600 {
		t.Errorf("final sun.y = %f, want 600", got)
	}
	// The move settles at 3000ms and is not rewritten during the second stage.
	if rec.writes["sun.y"] != 30 {
		t.Errorf("sun.y writes = %d, want 30", rec.writes["sun.y"])
	}
}

func TestSequencerIrregularTicks(t *testing.T) {
	regular, regRec := newTestSequencer(t)
	irregular, irrRec := newTestSequencer(t)
	tl, _ := linearTimeline(t, time.Second)
	_ = regular.Start(tl)
	_ = irregular.Start(tl)

	for i := 0; i < 6; i++ {
		regular.Tick(100 * time.Millisecond)
	}
	for _, dt := range []time.Duration{7, 193, 0, 250, 150} {
		irregular.Tick(dt * time.Millisecond)
	}

	if regular.Elapsed() != irregular.Elapsed() {
		t.Fatalf("elapsed %v vs %v", regular.Elapsed(), irregular.Elapsed())
	}
	if a, b := regRec.values["sun.y"].Float(), irrRec.values["sun.y"].Float(); math.Abs(a-b) > 1e-9 {
		t.Errorf("sun.y %f vs %f", a, b)
	}
}

func TestSequencerCoarseTickSettlesEveryTransition(t *testing.T) {
	s, rec := newTestSequencer(t)
	a := mustTransition(t, "a", PropY, 0, 10, 100*time.Millisecond)
	b := mustTransition(t, "b", PropY, 0, 20, 100*time.Millisecond)
	tl, err := Resolve(Play(a).Before(b).Node())
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Start(tl)
	s.Tick(time.Second)

	if rec.values["a.y"].Float() != 10 || rec.values["b.y"].Float() != 20 {
		t.Errorf("a.y=%v b.y=%v, want 10 and 20", rec.values["a.y"], rec.values["b.y"])
	}
	if rec.count("end") != 1 {
		t.Errorf("end count = %d, want 1", rec.count("end"))
	}
}

func TestSequencerCallbackHandleRemove(t *testing.T) {
	s := NewSequencer(nil)
	starts := 0
	h := s.OnStart(func(*Timeline) { starts++ })

	tl, _ := linearTimeline(t, time.Second)
	_ = s.Start(tl)
	s.Cancel()
	h.Remove()
	_ = s.Start(tl)

	if starts != 1 {
		t.Errorf("starts = %d, want 1", starts)
	}
}

func TestSequencerListenerFuncsOptional(t *testing.T) {
	s := NewSequencer(nil)
	cancelled := 0
	s.AddListener(ListenerFuncs{Cancel: func(*Timeline) { cancelled++ }})

	tl, _ := linearTimeline(t, time.Second)
	_ = s.Start(tl)
	s.Tick(2 * time.Second)
	_ = s.Start(tl)
	s.Cancel()

	if cancelled != 1 {
		t.Errorf("cancelled = %d, want 1", cancelled)
	}
}

func TestSequencerCancelFromSink(t *testing.T) {
	var s *Sequencer
	writes := 0
	s = NewSequencer(SinkFunc(func(target, property string, v Value) {
		writes++
		s.Cancel()
	}))
	a := mustTransition(t, "a", PropY, 0, 1, time.Second)
	b := mustTransition(t, "b", PropY, 0, 1, time.Second)
	tl, err := Resolve(With(Leaf(a), Leaf(b)))
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Start(tl)
	s.Tick(100 * time.Millisecond)

	if writes != 1 {
		t.Errorf("writes = %d, want 1", writes)
	}
	if s.State() != StateIdle {
		t.Errorf("State = %v, want idle", s.State())
	}
}

func TestSequencerProgress(t *testing.T) {
	s := NewSequencer(nil)
	if s.Progress() != 0 {
		t.Errorf("idle Progress = %f, want 0", s.Progress())
	}
	tl, _ := linearTimeline(t, time.Second)
	_ = s.Start(tl)
	s.Tick(250 * time.Millisecond)
	if math.Abs(s.Progress()-0.25) > 1e-9 {
		t.Errorf("Progress = %f, want 0.25", s.Progress())
	}
}
