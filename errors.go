package sunset

import "errors"

// Sentinel errors. Operations wrap them with context; match with errors.Is.
var (
	// ErrInvalidDuration is returned when a transition is built with a
	// duration that is not strictly positive.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidStateTransition is returned by Sequencer operations that are
	// not allowed from the current state (e.g. Start while Running).
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrUnresolvedGraph is returned by Resolve for empty groups, nil nodes
	// and cycles.
	ErrUnresolvedGraph = errors.New("unresolved graph")

	// ErrMismatchedValues is returned when a transition's keyframes are fewer
	// than two or mix scalars and colors.
	ErrMismatchedValues = errors.New("mismatched values")

	// ErrUnsupportedValue is returned when an ambient effect is given a color
	// transition. Ambient tracks are scalar pulses.
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrUnknownEasing is returned by EasingByName for unregistered curves.
	ErrUnknownEasing = errors.New("unknown easing")

	// ErrUnknownColor is returned when a palette lacks a named color.
	ErrUnknownColor = errors.New("unknown color")

	// ErrInvalidColor is returned for hex colors that are not #RRGGBB or
	// #AARRGGBB.
	ErrInvalidColor = errors.New("invalid color")
)
