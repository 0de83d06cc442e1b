// Package mosaic builds photomosaics: it cuts images into fixed-size
// blocks, indexes them by average color, and reassembles a target image
// from the nearest-colored blocks.
package mosaic

import (
	"context"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/okanos/blockdex"
	"github.com/okanos/blockdex/pipeline"
)

// ColorKey is an average RGB color used as an index coordinate. Each
// component is in 0..255.
type ColorKey = blockdex.Key[int64]

// Tile pairs a block image with its average color.
type Tile struct {
	Image image.Image
	Key   ColorKey
}

// AverageColor returns the per-channel mean of the pixels of img inside
// rect.
func AverageColor(img image.Image, rect image.Rectangle) ColorKey {
	rect = rect.Intersect(img.Bounds())

	var sumR, sumG, sumB, count int64
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sumR += int64(r >> 8)
			sumG += int64(g >> 8)
			sumB += int64(b >> 8)
			count++
		}
	}
	if count == 0 {
		return ColorKey{}
	}
	return ColorKey{sumR / count, sumG / count, sumB / count}
}

// Cut tiles img into blockSize x blockSize tiles, each carrying its
// average color. Blocks that do not fit completely inside the image are
// dropped.
func Cut(ctx context.Context, img image.Image, blockSize int) []Tile {
	tiles := make([]Tile, 0)
	for r := range pipeline.Grid(ctx, img.Bounds(), blockSize) {
		tiles = append(tiles, Tile{
			Image: subImage(img, r),
			Key:   AverageColor(img, r),
		})
	}
	return tiles
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.Copy(dst, image.Point{}, img, r, xdraw.Src, nil)
	return dst
}

// scaleTo resizes img to a size x size square unless it already is one.
func scaleTo(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
