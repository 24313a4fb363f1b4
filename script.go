package sunset

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a trigger script.
type scriptStep struct {
	Action    string `json:"action"`
	Frames    int    `json:"frames,omitempty"`
	State     string `json:"state,omitempty"`
	Direction string `json:"direction,omitempty"`
	Label     string `json:"label,omitempty"`
}

// script is the top-level JSON structure for a trigger script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences triggers, waits and expectations across frames so a
// Director can be driven without input devices. Call Step once per frame,
// before Director.Update.
//
//	{"steps": [
//	  {"action": "trigger"},
//	  {"action": "wait", "frames": 90},
//	  {"action": "expect", "state": "ended", "direction": "sunset"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  []error
}

// LoadScript parses a JSON trigger script.
func LoadScript(jsonData []byte) (*Script, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "trigger", "wait", "expect":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: sc.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *Script) Done() bool {
	return r.done
}

// Failures returns trigger errors and unmet expectations, in step order.
func (r *Script) Failures() []error {
	return r.failures
}

// Step advances the script by one frame.
func (r *Script) Step(d *Director) {
	if r.done {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "trigger":
		if _, err := d.Trigger(); err != nil {
			r.fail(st, err)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "expect":
		if st.State != "" && d.Sequencer().State().String() != st.State {
			r.fail(st, fmt.Errorf("state is %s, want %s", d.Sequencer().State(), st.State))
		}
		if st.Direction != "" && d.Direction().String() != st.Direction {
			r.fail(st, fmt.Errorf("direction is %s, want %s", d.Direction(), st.Direction))
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *Script) fail(st scriptStep, err error) {
	name := st.Action
	if st.Label != "" {
		name = st.Label
	}
	r.failures = append(r.failures, fmt.Errorf("step %d (%s): %w", r.cursor-1, name, err))
}
