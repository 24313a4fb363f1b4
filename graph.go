package sunset

import (
	"fmt"
	"time"
)

// Relation orders the members of a group node.
type Relation uint8

const (
	RelationWith   Relation = iota // members start together
	RelationBefore                 // each member starts when the previous one's subtree completes
)

// String returns the relation name.
func (r Relation) String() string {
	if r == RelationBefore {
		return "before"
	}
	return "with"
}

// TimelineNode is an unresolved timeline element: either a leaf wrapping one
// Transition or a group of nodes under a Relation. Graphs are built bottom-up
// and never mutated afterwards; Resolve turns them into a Timeline.
type TimelineNode struct {
	transition *Transition
	relation   Relation
	children   []*TimelineNode
}

// Leaf wraps a single transition.
func Leaf(t *Transition) *TimelineNode {
	return &TimelineNode{transition: t}
}

// With groups nodes that start simultaneously.
func With(nodes ...*TimelineNode) *TimelineNode {
	return &TimelineNode{relation: RelationWith, children: append([]*TimelineNode{}, nodes...)}
}

// Sequence chains nodes so that each starts after the previous subtree ends.
func Sequence(nodes ...*TimelineNode) *TimelineNode {
	return &TimelineNode{relation: RelationBefore, children: append([]*TimelineNode{}, nodes...)}
}

// IsLeaf reports whether n wraps a transition rather than a group.
func (n *TimelineNode) IsLeaf() bool { return n.children == nil && n.transition != nil }

// Transition returns the wrapped transition of a leaf, nil for groups.
func (n *TimelineNode) Transition() *Transition { return n.transition }

// Relation returns the group relation. Meaningless for leaves.
func (n *TimelineNode) Relation() Relation { return n.relation }

// Children returns the group members. The returned slice MUST NOT be mutated.
func (n *TimelineNode) Children() []*TimelineNode { return n.children }

// --- Builder ---

// Builder composes a graph in the play/with/before style:
//
//	sunset.Play(a).With(b).Before(c).With(d).Node()
//
// With joins the most recent stage; Before opens a new stage that starts when
// every member of the previous stage has completed.
type Builder struct {
	stages [][]*TimelineNode
}

// Play starts a builder whose first stage contains t.
func Play(t *Transition) *Builder {
	return PlayNode(Leaf(t))
}

// PlayNode starts a builder whose first stage contains n.
func PlayNode(n *TimelineNode) *Builder {
	return &Builder{stages: [][]*TimelineNode{{n}}}
}

// With adds t to the current stage.
func (b *Builder) With(t *Transition) *Builder {
	return b.WithNode(Leaf(t))
}

// WithNode adds n to the current stage.
func (b *Builder) WithNode(n *TimelineNode) *Builder {
	last := len(b.stages) - 1
	b.stages[last] = append(b.stages[last], n)
	return b
}

// Before opens a new stage containing t.
func (b *Builder) Before(t *Transition) *Builder {
	return b.BeforeNode(Leaf(t))
}

// BeforeNode opens a new stage containing n.
func (b *Builder) BeforeNode(n *TimelineNode) *Builder {
	b.stages = append(b.stages, []*TimelineNode{n})
	return b
}

// Node returns the built graph: a Before chain of With groups.
func (b *Builder) Node() *TimelineNode {
	stages := make([]*TimelineNode, len(b.stages))
	for i, members := range b.stages {
		stages[i] = With(members...)
	}
	if len(stages) == 1 {
		return stages[0]
	}
	return Sequence(stages...)
}

// --- Resolution ---

// Entry is one leaf transition placed on a resolved timeline.
type Entry struct {
	Transition *Transition
	Start      time.Duration
	End        time.Duration
}

// Timeline is a resolved graph: every leaf with its absolute window, and the
// total duration (the latest end across leaves).
type Timeline struct {
	entries  []Entry
	duration time.Duration
}

// Entries returns the placed transitions in graph order. The returned slice
// MUST NOT be mutated.
func (tl *Timeline) Entries() []Entry { return tl.entries }

// Duration returns the total duration of the timeline.
func (tl *Timeline) Duration() time.Duration { return tl.duration }

// Find returns the entry for t, if t is on the timeline.
func (tl *Timeline) Find(t *Transition) (Entry, bool) {
	for _, e := range tl.entries {
		if e.Transition == t {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve computes absolute start and end offsets for every leaf of the
// graph rooted at root. With members share their group's start offset and the
// group lasts as long as its longest member. Before members start when the
// previous member's whole subtree has completed.
func Resolve(root *TimelineNode) (*Timeline, error) {
	r := resolver{onPath: make(map[*TimelineNode]bool)}
	end, err := r.walk(root, 0)
	if err != nil {
		return nil, err
	}
	return &Timeline{entries: r.entries, duration: end}, nil
}

type resolver struct {
	entries []Entry
	onPath  map[*TimelineNode]bool
}

// walk places n at start and returns the absolute end of its subtree.
func (r *resolver) walk(n *TimelineNode, start time.Duration) (time.Duration, error) {
	if n == nil {
		return 0, fmt.Errorf("resolve: nil node: %w", ErrUnresolvedGraph)
	}
	if n.children == nil {
		if n.transition == nil {
			return 0, fmt.Errorf("resolve: empty leaf: %w", ErrUnresolvedGraph)
		}
		end := start + n.transition.Duration()
		r.entries = append(r.entries, Entry{Transition: n.transition, Start: start, End: end})
		return end, nil
	}
	if len(n.children) == 0 {
		return 0, fmt.Errorf("resolve: empty %s group: %w", n.relation, ErrUnresolvedGraph)
	}
	if r.onPath[n] {
		return 0, fmt.Errorf("resolve: cycle: %w", ErrUnresolvedGraph)
	}
	r.onPath[n] = true
	defer delete(r.onPath, n)

	end := start
	for _, c := range n.children {
		childStart := start
		if n.relation == RelationBefore {
			childStart = end
		}
		childEnd, err := r.walk(c, childStart)
		if err != nil {
			return 0, err
		}
		if childEnd > end {
			end = childEnd
		}
	}
	return end, nil
}
