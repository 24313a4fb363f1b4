// Package sunset is an animation sequencing and timeline engine for a
// day/night scene, rendered with [Ebitengine].
//
// Sunset composes property transitions into timeline graphs, resolves them
// into absolute start offsets, and drives them frame by frame with a
// lifecycle-aware sequencer. A [Director] builds the sunset and sunrise
// timelines from the scene's measured geometry and keeps the ambient sun
// pulses and glow rings looping while the sun is in the sky.
//
// # Quick start
//
// Build the stock scene, lay it out, and hand it to a Director:
//
//	stage := sunset.NewSceneStage(nil)
//	sunset.LayoutScene(stage, 480, 800)
//	d, err := sunset.NewDirector(sunset.DirectorConfig{Boundary: stage})
//
// Then, from an [ebiten.Game]:
//
//	func (g *Game) Update() error {
//		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
//			g.director.Trigger()
//		}
//		g.director.Update(time.Second / 60)
//		return nil
//	}
//	func (g *Game) Draw(s *ebiten.Image) { g.stage.Draw(s) }
//
// # Transitions and graphs
//
// A [Transition] animates one property of one named target from a start
// value to an end value, optionally through evenly spaced keyframes. Values
// are either scalars or colors; see [Value].
//
// Transitions are arranged into a tree of [TimelineNode]s. [With] runs its
// children together; [Sequence] starts each child when the previous one has
// completely finished. The fluent [Builder] produces the same trees:
//
//	root := sunset.Play(sunMove).With(skyColor).
//		Before(nightSky).With(nightSea).
//		Node()
//	tl, err := sunset.Resolve(root)
//
// # Sequencer
//
// A [Sequencer] plays one resolved [Timeline] at a time. It moves between
// idle, running, paused and ended; start, end and cancel are delivered to
// registered callbacks and [Listener]s. Tick advances time and writes
// interpolated values to a [PropertySink].
//
// # Easing
//
// Easing curves are [gween] ease functions. [EasingByName] maps config names
// such as "accelerate-decelerate" or "out-bounce" to curves.
//
// # Configuration
//
// Scene timing and palette colors load from YAML; see [LoadSceneConfig] and
// [LoadPalette]. The cmd/sunset binary exposes them as flags, and can run a
// JSON trigger [Script] headlessly for automated checks.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package sunset
