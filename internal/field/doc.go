// Package field implements an ambient particle field: a fixed set of
// drifting points that bounce off the viewport edges, are pulled toward the
// pointer and are joined by faint lines when close to each other.
//
// The package is host agnostic. A host provides:
//
//   - [Surface]: where circles and lines are painted
//   - [Scheduler]: the continuous frame loop ([FrameQueue] serves every host)
//   - resize and pointer notifications ([Hub] implements both)
//
// [Renderer] ties the three together and owns the mount/unmount lifecycle.
//
// # Example
//
//	tally := &field.Tally{}
//	host := field.NewHeadless(tally, 1280, 720)
//	r := field.NewRenderer(field.DefaultConfig(), field.WithSeed(1))
//	r.Mount(host)
//	defer r.Unmount()
//	host.Advance(60)
//	fmt.Println(tally.Circles) // 3050: the mount frame plus 60, 50 circles each
//
// # Thread Safety
//
// Nothing in this package takes locks. Hosts must deliver frame, resize,
// pointer and theme callbacks from a single goroutine.
package field
