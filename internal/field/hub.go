package field

type listener[F any] struct {
	id   int
	fn   F
	live bool
}

// listeners is a registry that tolerates release and registration from
// inside an emit. Released entries are compacted once no emit is running;
// entries added during an emit first fire on the next one.
type listeners[F any] struct {
	entries  []listener[F]
	emitting int
	dirty    bool
}

func (l *listeners[F]) add(id int, fn F) func() {
	l.entries = append(l.entries, listener[F]{id: id, fn: fn, live: true})
	return func() {
		for i := range l.entries {
			if l.entries[i].id == id && l.entries[i].live {
				l.entries[i].live = false
				l.dirty = true
				break
			}
		}
		l.compact()
	}
}

func (l *listeners[F]) each(call func(F)) {
	l.emitting++
	n := len(l.entries)
	for i := 0; i < n; i++ {
		if l.entries[i].live {
			call(l.entries[i].fn)
		}
	}
	l.emitting--
	l.compact()
}

func (l *listeners[F]) compact() {
	if l.emitting > 0 || !l.dirty {
		return
	}
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.live {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = listener[F]{}
	}
	l.entries = kept
	l.dirty = false
}

func (l *listeners[F]) count() int {
	n := 0
	for _, e := range l.entries {
		if e.live {
			n++
		}
	}
	return n
}

// Hub keeps the viewport size and the resize and pointer listeners of a
// host. Hosts embed it and call EmitResize and EmitPointer from their event
// loop.
type Hub struct {
	width, height float64
	nextID        int
	resize        listeners[func(w, h float64)]
	pointer       listeners[func(x, y float64)]
}

func NewHub(w, h float64) *Hub {
	return &Hub{width: w, height: h}
}

func (h *Hub) Viewport() (w, hgt float64) { return h.width, h.height }

func (h *Hub) OnResize(fn func(w, h float64)) (release func()) {
	h.nextID++
	return h.resize.add(h.nextID, fn)
}

func (h *Hub) OnPointerMove(fn func(x, y float64)) (release func()) {
	h.nextID++
	return h.pointer.add(h.nextID, fn)
}

func (h *Hub) EmitResize(w, hgt float64) {
	h.width, h.height = w, hgt
	h.resize.each(func(fn func(w, h float64)) { fn(w, hgt) })
}

func (h *Hub) EmitPointer(x, y float64) {
	h.pointer.each(func(fn func(x, y float64)) { fn(x, y) })
}

// Listeners reports the number of registered resize and pointer listeners.
func (h *Hub) Listeners() (resize, pointer int) {
	return h.resize.count(), h.pointer.count()
}
