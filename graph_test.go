package sunset

import (
	"errors"
	"testing"
	"time"
)

func leafOf(t *testing.T, name string, d time.Duration) *TimelineNode {
	t.Helper()
	return Leaf(mustTransition(t, name, PropY, 0, 1, d))
}

func startOf(t *testing.T, tl *Timeline, n *TimelineNode) time.Duration {
	t.Helper()
	e, ok := tl.Find(n.Transition())
	if !ok {
		t.Fatalf("transition %s not on timeline", n.Transition())
	}
	return e.Start
}

func TestResolveBeforeChainOffsets(t *testing.T) {
	durations := []time.Duration{300, 1200, 50, 700}
	nodes := make([]*TimelineNode, len(durations))
	for i, d := range durations {
		nodes[i] = leafOf(t, "n", d*time.Millisecond)
	}

	tl, err := Resolve(Sequence(nodes...))
	if err != nil {
		t.Fatal(err)
	}

	var sum time.Duration
	for i, n := range nodes {
		if got := startOf(t, tl, n); got != sum {
			t.Errorf("node %d start = %v, want %v", i, got, sum)
		}
		sum += durations[i] * time.Millisecond
	}
	if tl.Duration() != sum {
		t.Errorf("Duration = %v, want %v", tl.Duration(), sum)
	}
}

func TestResolveWithGroupThenBefore(t *testing.T) {
	a := leafOf(t, "a", 400*time.Millisecond)
	b := leafOf(t, "b", 900*time.Millisecond)
	c := leafOf(t, "c", 100*time.Millisecond)
	x := leafOf(t, "x", 250*time.Millisecond)

	tl, err := Resolve(Sequence(With(a, b, c), x))
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []*TimelineNode{a, b, c} {
		if got := startOf(t, tl, n); got != 0 {
			t.Errorf("group member start = %v, want 0", got)
		}
	}
	if got := startOf(t, tl, x); got != 900*time.Millisecond {
		t.Errorf("x start = %v, want 900ms", got)
	}
	if tl.Duration() != 1150*time.Millisecond {
		t.Errorf("Duration = %v, want 1150ms", tl.Duration())
	}
}

func TestBuilderPlayWithBeforeBefore(t *testing.T) {
	ta := mustTransition(t, "a", PropY, 0, 1, 3*time.Second)
	tb := mustTransition(t, "b", PropY, 0, 1, 2*time.Second)
	tc := mustTransition(t, "c", PropY, 0, 1, 1500*time.Millisecond)
	td := mustTransition(t, "d", PropY, 0, 1, time.Second)

	tl, err := Resolve(Play(ta).With(tb).Before(tc).Before(td).Node())
	if err != nil {
		t.Fatal(err)
	}

	want := map[*Transition]time.Duration{
		ta: 0,
		tb: 0,
		tc: 3 * time.Second,
		td: 4500 * time.Millisecond,
	}
	for tr, start := range want {
		e, ok := tl.Find(tr)
		if !ok {
			t.Fatalf("%s missing", tr.Target())
		}
		if e.Start != start {
			t.Errorf("%s start = %v, want %v", tr.Target(), e.Start, start)
		}
		if e.End != start+tr.Duration() {
			t.Errorf("%s end = %v, want %v", tr.Target(), e.End, start+tr.Duration())
		}
	}
	if tl.Duration() != 5500*time.Millisecond {
		t.Errorf("Duration = %v, want 5.5s", tl.Duration())
	}
}

func TestBuilderWithJoinsLatestStage(t *testing.T) {
	ta := mustTransition(t, "a", PropY, 0, 1, time.Second)
	tb := mustTransition(t, "b", PropY, 0, 1, 2*time.Second)
	tc := mustTransition(t, "c", PropY, 0, 1, 500*time.Millisecond)

	tl, err := Resolve(Play(ta).Before(tb).With(tc).Node())
	if err != nil {
		t.Fatal(err)
	}
	for _, tr := range []*Transition{tb, tc} {
		e, _ := tl.Find(tr)
		if e.Start != time.Second {
			t.Errorf("%s start = %v, want 1s", tr.Target(), e.Start)
		}
	}
	if tl.Duration() != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", tl.Duration())
	}
}

func TestResolveBeforeUsesSubtreeEnd(t *testing.T) {
	// The nested chain ends at 300ms even though its first member ends at 100ms.
	inner := Sequence(leafOf(t, "i1", 100*time.Millisecond), leafOf(t, "i2", 200*time.Millisecond))
	after := leafOf(t, "after", 50*time.Millisecond)

	tl, err := Resolve(Sequence(With(inner, leafOf(t, "short", 10*time.Millisecond)), after))
	if err != nil {
		t.Fatal(err)
	}
	if got := startOf(t, tl, after); got != 300*time.Millisecond {
		t.Errorf("after start = %v, want 300ms", got)
	}
}

func TestResolveSingleLeaf(t *testing.T) {
	n := leafOf(t, "solo", 750*time.Millisecond)
	tl, err := Resolve(n)
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Entries()) != 1 || tl.Duration() != 750*time.Millisecond {
		t.Errorf("entries = %d, duration = %v; want 1, 750ms", len(tl.Entries()), tl.Duration())
	}
	if !n.IsLeaf() {
		t.Error("IsLeaf = false for a leaf")
	}
}

func TestResolveRejectsUnresolvableGraphs(t *testing.T) {
	cyclic := With(leafOf(t, "a", time.Second))
	cyclic.children = append(cyclic.children, Sequence(cyclic))

	cases := map[string]*TimelineNode{
		"nil":         nil,
		"empty with":  With(),
		"empty chain": Sequence(leafOf(t, "a", time.Second), Sequence()),
		"nil leaf":    Leaf(nil),
		"cycle":       cyclic,
	}
	for name, n := range cases {
		if _, err := Resolve(n); !errors.Is(err, ErrUnresolvedGraph) {
			t.Errorf("%s: err = %v, want ErrUnresolvedGraph", name, err)
		}
	}
}

func TestResolveSharedNodeIsNotACycle(t *testing.T) {
	shared := leafOf(t, "shared", 100*time.Millisecond)
	tl, err := Resolve(Sequence(shared, shared))
	if err != nil {
		t.Fatalf("shared node: %v", err)
	}
	if len(tl.Entries()) != 2 {
		t.Fatalf("entries = %d, want 2", len(tl.Entries()))
	}
	if tl.Entries()[1].Start != 100*time.Millisecond {
		t.Errorf("second placement start = %v, want 100ms", tl.Entries()[1].Start)
	}
}
