// Package batch assembles per-series window records into uniform
// batch-shaped arrays for numeric consumption.
//
// Elements form a closed sum over two kinds: plain numeric arrays and
// labeled window records. The collator matches the kind explicitly; a new
// element kind is a compile-time extension of this package, not a runtime
// type switch on arbitrary values.
package batch

import (
	"fmt"

	"github.com/xtxerr/raggedts/internal/errors"
	"github.com/xtxerr/raggedts/internal/ragged"
)

// Kind discriminates the closed set of collatable element kinds.
type Kind int

const (
	// KindArray is a dense numeric array.
	KindArray Kind = iota
	// KindRecord is a labeled window record (temporal + optional static).
	KindRecord
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Array is a dense float32 array with an explicit shape. Data is laid out
// row-major over Shape.
type Array struct {
	Data  []float32
	Shape []int
}

// Size returns the number of elements implied by the shape.
func (a Array) Size() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// Element is one collatable input, tagged by kind.
type Element struct {
	kind   Kind
	array  Array
	record *ragged.Window
}

// ArrayElement wraps a numeric array as a collatable element.
func ArrayElement(a Array) Element {
	return Element{kind: KindArray, array: a}
}

// RecordElement wraps a window record as a collatable element.
func RecordElement(w *ragged.Window) Element {
	return Element{kind: KindRecord, record: w}
}

// Kind returns the element's kind tag.
func (e Element) Kind() Kind {
	return e.kind
}

// Batch is the collated record produced from window elements.
//
// Temporal has shape [batch, channels+1, width]. TemporalCols is shared by
// every element and copied once from the first. Static and StaticCols are
// nil when the elements carry no static features; consumers branch on
// presence, never on null placeholders.
type Batch struct {
	Temporal     Array
	TemporalCols []string
	Static       *Array
	StaticCols   []string
}

// Size returns the number of elements in the batch.
func (b *Batch) Size() int {
	if len(b.Temporal.Shape) == 0 {
		return 0
	}
	return b.Temporal.Shape[0]
}

// Collated is the tagged result of collation, mirroring the element kind.
type Collated struct {
	Kind  Kind
	Array Array  // set when Kind == KindArray
	Batch *Batch // set when Kind == KindRecord
}

// Collate assembles an ordered sequence of elements into one batch record.
// All elements must share the kind of the first; order is preserved along
// the new leading batch axis.
func Collate(elems []Element, alloc Allocator) (Collated, error) {
	if len(elems) == 0 {
		return Collated{}, errors.ErrEmptyBatch
	}

	switch elems[0].kind {
	case KindArray:
		arrays := make([]Array, len(elems))
		for i, e := range elems {
			if e.kind != KindArray {
				return Collated{}, errors.Wrapf(errors.ErrUnsupportedElement,
					"element %d is %s, batch started with %s", i, e.kind, KindArray)
			}
			arrays[i] = e.array
		}
		stacked, err := Stack(arrays, alloc)
		if err != nil {
			return Collated{}, err
		}
		return Collated{Kind: KindArray, Array: stacked}, nil

	case KindRecord:
		b, err := collateRecords(elems, alloc)
		if err != nil {
			return Collated{}, err
		}
		return Collated{Kind: KindRecord, Batch: b}, nil

	default:
		return Collated{}, errors.Wrapf(errors.ErrUnsupportedElement, "kind %s", elems[0].kind)
	}
}

// Stack stacks same-shaped arrays along a new leading axis, copying each
// element straight into its batch slot of one destination buffer.
func Stack(arrays []Array, alloc Allocator) (Array, error) {
	if len(arrays) == 0 {
		return Array{}, errors.ErrEmptyBatch
	}

	shape := arrays[0].Shape
	size := arrays[0].Size()
	out := alloc.Alloc(len(arrays) * size)
	for i, a := range arrays {
		if !sameShape(a.Shape, shape) {
			return Array{}, errors.Wrapf(errors.ErrShapeMismatch,
				"element 0 has shape %v, element %d has shape %v", shape, i, a.Shape)
		}
		copy(out[i*size:(i+1)*size], a.Data)
	}

	stacked := make([]int, 0, len(shape)+1)
	stacked = append(stacked, len(arrays))
	stacked = append(stacked, shape...)
	return Array{Data: out, Shape: stacked}, nil
}

func collateRecords(elems []Element, alloc Allocator) (*Batch, error) {
	first := elems[0].record
	hasStatic := first.Static != nil

	temporal := make([]Array, len(elems))
	var static []Array
	if hasStatic {
		static = make([]Array, len(elems))
	}

	for i, e := range elems {
		if e.kind != KindRecord {
			return nil, errors.Wrapf(errors.ErrUnsupportedElement,
				"element %d is %s, batch started with %s", i, e.kind, KindRecord)
		}
		w := e.record
		temporal[i] = Array{Data: w.Temporal, Shape: []int{len(w.Channels), w.Width}}
		if hasStatic {
			if w.Static == nil {
				return nil, errors.Wrapf(errors.ErrShapeMismatch,
					"element %d has no static row but element 0 does", i)
			}
			static[i] = Array{Data: w.Static, Shape: []int{len(w.Static)}}
		}
	}

	stackedTemporal, err := Stack(temporal, alloc)
	if err != nil {
		return nil, err
	}

	b := &Batch{
		Temporal:     stackedTemporal,
		TemporalCols: append([]string(nil), first.Channels...),
	}
	if hasStatic {
		stackedStatic, err := Stack(static, alloc)
		if err != nil {
			return nil, err
		}
		b.Static = &stackedStatic
		b.StaticCols = append([]string(nil), first.StaticCols...)
	}
	return b, nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
