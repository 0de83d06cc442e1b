package mosaic

import (
	"context"
	"image"
	"runtime"

	"github.com/fogleman/gg"
	"github.com/sourcegraph/conc/pool"

	"github.com/okanos/blockdex/number"
	"github.com/okanos/blockdex/pipeline"
)

// Render assembles a mosaic of target: every complete blockSize block
// is replaced by the library tile whose average color is nearest to the
// block's average color. Queries run on up to jobs goroutines (0 means
// GOMAXPROCS); each query only reads the immutable library.
func Render(ctx context.Context, lib *Library, target image.Image, blockSize, jobs int) (image.Image, error) {
	if lib.Len() == 0 {
		return nil, ErrEmptyLibrary
	}
	if blockSize <= 0 {
		return nil, ErrBlockSize
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	bounds := target.Bounds()
	rects := pipeline.ToSlice(ctx, pipeline.Grid(ctx, bounds, blockSize))

	matched := make([]image.Image, len(rects))
	p := pool.New().WithMaxGoroutines(number.Max(1, number.Min(jobs, len(rects))))
	for i := range rects {
		i := i
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			tile, ok := lib.Match(AverageColor(target, rects[i]))
			if !ok {
				return
			}
			matched[i] = scaleTo(tile.Image, blockSize)
		})
	}
	p.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	for i, r := range rects {
		if matched[i] == nil {
			continue
		}
		dc.DrawImage(matched[i], r.Min.X-bounds.Min.X, r.Min.Y-bounds.Min.Y)
	}
	return dc.Image(), nil
}
