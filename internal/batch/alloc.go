package batch

// Allocator provides destination buffers for stacked batch arrays.
//
// The collator is allocation-agnostic: the surrounding execution context
// selects the implementation. The orchestrating path uses Heap; parallel
// workers each own an Arena so a batch is assembled straight into a reusable
// buffer without a redundant copy on hand-off. Both produce identical batch
// contents.
type Allocator interface {
	Alloc(n int) []float32
}

// Heap allocates a fresh buffer per batch.
type Heap struct{}

// Alloc returns a zeroed buffer of length n.
func (Heap) Alloc(n int) []float32 {
	return make([]float32, n)
}

// Arena carves buffers out of a single grow-only backing slice.
//
// An Arena must be owned by exactly one worker; arenas are never shared
// across workers. The owner calls Reset before collating each batch, so a
// batch built from an Arena is only valid until the owning worker's next
// Reset. Consumers must finish with a batch before the worker moves on.
type Arena struct {
	buf  []float32
	used int
}

// NewArena creates an arena with an initial capacity hint.
func NewArena(capacity int) *Arena {
	return &Arena{buf: make([]float32, capacity)}
}

// Alloc carves a buffer of length n from the arena, growing the backing
// slice when needed. Contents are unspecified; callers overwrite every
// position.
func (a *Arena) Alloc(n int) []float32 {
	if a.used+n > len(a.buf) {
		// Earlier carvings keep referencing the old backing slice.
		grown := a.used + n
		if grown < 2*len(a.buf) {
			grown = 2 * len(a.buf)
		}
		a.buf = make([]float32, grown)
		a.used = 0
	}
	b := a.buf[a.used : a.used+n]
	a.used += n
	return b
}

// Reset makes the arena's full capacity available again. Buffers carved
// before the reset are overwritten by subsequent allocations.
func (a *Arena) Reset() {
	a.used = 0
}
