package ragged

import (
	"github.com/xtxerr/raggedts/internal/errors"
)

// View is the read-only padded window accessor for a store.
//
// Views are stateless: any number of workers may call Window concurrently
// on views of the same store without coordination.
type View struct {
	store *Store
}

// Window is one series rendered as a fixed-shape, right-padded array.
//
// Temporal is row-major with shape (len(Channels), Width): row c holds
// channel c across the window, and the final row is the availability mask.
// Real observations occupy the rightmost columns so the most recent
// observation is always the last column.
type Window struct {
	Temporal []float32
	Channels []string // ends with MaskLabel
	Width    int

	// Static is the series' static feature row, nil when the store has no
	// static table. It is attached unmodified, not broadcast across time.
	Static     []float32
	StaticCols []string
}

// ChannelRow returns channel row c of the window as a slice view.
func (w *Window) ChannelRow(c int) []float32 {
	return w.Temporal[c*w.Width : (c+1)*w.Width]
}

// Mask returns the availability mask row: 1 where the column holds a real
// observation, 0 where it is padding.
func (w *Window) Mask() []float32 {
	return w.ChannelRow(len(w.Channels) - 1)
}

// Window renders series i as a right-padded window of width MaxSize.
//
// The mask row is synthesized on every call. A zero-length series yields an
// all-zero window with an all-zero mask rather than an error.
func (v *View) Window(i int) (*Window, error) {
	s := v.store
	if i < 0 || i >= s.Len() {
		return nil, errors.NewInvalidIndex(i, s.Len())
	}

	nchan := len(s.channels)
	width := s.maxSize
	buf := make([]float32, (nchan+1)*width)

	length := s.GroupLength(i)
	pad := width - length
	base := s.offsets[i]
	for t := 0; t < length; t++ {
		row := (base + t) * nchan
		for c := 0; c < nchan; c++ {
			buf[c*width+pad+t] = s.temporal[row+c]
		}
		buf[nchan*width+pad+t] = 1
	}

	w := &Window{
		Temporal: buf,
		Channels: s.Channels(),
		Width:    width,
	}
	if s.static != nil {
		ncols := len(s.staticCols)
		w.Static = append([]float32(nil), s.static[i*ncols:(i+1)*ncols]...)
		w.StaticCols = s.StaticColumns()
	}
	return w, nil
}
