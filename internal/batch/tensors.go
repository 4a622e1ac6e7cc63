package batch

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/xtxerr/raggedts/internal/errors"
)

// Tensors converts the batch into gomlx tensors for model consumption.
// The temporal tensor has shape [batch, channels+1, width]; the static
// tensor is nil when the batch carries no static features.
//
// Different gomlx versions expose different tensor constructors, so the
// conversion goes through nested slices and tensors.FromAnyValue, which is
// stable across versions.
func (b *Batch) Tensors() (temporal *tensors.Tensor, static *tensors.Tensor, err error) {
	if len(b.Temporal.Shape) != 3 {
		return nil, nil, errors.Wrapf(errors.ErrShapeMismatch,
			"temporal shape %v, want 3 axes", b.Temporal.Shape)
	}

	nb, nc, nw := b.Temporal.Shape[0], b.Temporal.Shape[1], b.Temporal.Shape[2]
	data := make([][][]float32, nb)
	idx := 0
	for i := 0; i < nb; i++ {
		data[i] = make([][]float32, nc)
		for c := 0; c < nc; c++ {
			data[i][c] = b.Temporal.Data[idx : idx+nw]
			idx += nw
		}
	}
	temporal = tensors.FromAnyValue(data)

	if b.Static != nil {
		if len(b.Static.Shape) != 2 {
			return nil, nil, errors.Wrapf(errors.ErrShapeMismatch,
				"static shape %v, want 2 axes", b.Static.Shape)
		}
		rows := make([][]float32, b.Static.Shape[0])
		ncols := b.Static.Shape[1]
		for i := range rows {
			rows[i] = b.Static.Data[i*ncols : (i+1)*ncols]
		}
		static = tensors.FromAnyValue(rows)
	}

	return temporal, static, nil
}
