// Package cascade orchestrates declarative enter, scroll-reveal and hover
// animations over a tree of nodes.
//
// Pages declare named target states ([Variant]s) in a [Registry], bind them
// to [Node]s, and let an [Orchestrator] turn triggers (mount, viewport entry
// and exit, hover, tap) into timed transitions. Parents propagate their
// variant to children with staggered delays, so a grid of cards can reveal
// itself one card at a time from a single declaration.
//
// # Quick start
//
//	items := cascade.NewRegistry("item").
//		MustRegister("hidden", cascade.Variant{Props: cascade.Props{}.WithOpacity(0).WithY(20)}).
//		MustRegister("visible", cascade.Variant{
//			Props:      cascade.Props{}.WithOpacity(1).WithY(0),
//			Transition: cascade.Tween(0.5),
//		})
//	list := cascade.NewRegistry("list").
//		MustRegister("hidden", cascade.Variant{}).
//		MustRegister("visible", cascade.Variant{Transition: cascade.Transition{}.WithStagger(0.2)})
//
//	root := cascade.NewNode("features", list)
//	root.Initial, root.InView, root.Once = "hidden", "visible", true
//	root.AddChildren(cascade.NewNode("a", items), cascade.NewNode("b", items))
//
//	o := cascade.New(cascade.Config{Visibility: viewport})
//	o.Mount(root, now)
//	// every frame:
//	o.Advance(now)
//	o.Each(func(n *cascade.Node) { draw(n, n.Presentation()) })
//
// # Time
//
// The orchestrator never reads a clock. Every call takes the host time in
// seconds, so tests and headless replays ([LoadScript]) are deterministic.
// Advance never blocks and performs no I/O; lifecycle callbacks and the
// optional [EventSink] run after each call returns to a consistent state.
//
// # Visibility
//
// A [VisibilityObserver] polls a [VisibilityPlatform], usually a [Viewport],
// and reports crossings. When the platform cannot answer, observed nodes
// are revealed rather than left hidden.
//
// # Declarative pages
//
// [LoadPage] builds registries and node trees from YAML. The ebitenrender
// sub-package draws a mounted page with [Ebitengine]; the ecs sub-package
// forwards lifecycle events into a [Donburi] world. Easing curves come from
// [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package cascade
