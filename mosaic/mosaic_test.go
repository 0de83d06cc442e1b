package mosaic

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(c color.RGBA, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func solidTile(c color.RGBA, size int) Tile {
	img := solid(c, size, size)
	return Tile{Image: img, Key: AverageColor(img, img.Bounds())}
}

func rgbAt(img image.Image, x, y int) ColorKey {
	r, g, b, _ := img.At(x, y).RGBA()
	return ColorKey{int64(r >> 8), int64(g >> 8), int64(b >> 8)}
}

func TestAverageColorSolid(t *testing.T) {
	img := solid(color.RGBA{200, 100, 50, 255}, 16, 16)
	assert.Equal(t, ColorKey{200, 100, 50}, AverageColor(img, img.Bounds()))
}

func TestAverageColorMixed(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x < 8 {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	assert.Equal(t, ColorKey{127, 127, 127}, AverageColor(img, img.Bounds()))
}

func TestAverageColorOutsideBounds(t *testing.T) {
	img := solid(color.RGBA{10, 20, 30, 255}, 8, 8)
	assert.Equal(t, ColorKey{}, AverageColor(img, image.Rect(100, 100, 132, 132)))
}

func TestCut(t *testing.T) {
	quads := [4]color.RGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 255, 255},
	}
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, quads[(x/32)*2+y/32])
		}
	}

	tiles := Cut(context.Background(), img, 32)
	require.Len(t, tiles, 4)
	for i, tile := range tiles {
		assert.Equal(t, 32, tile.Image.Bounds().Dx())
		assert.Equal(t, 32, tile.Image.Bounds().Dy())
		c := quads[i]
		assert.Equal(t, ColorKey{int64(c.R), int64(c.G), int64(c.B)}, tile.Key)
	}
}

func TestCutDropsPartialBlocks(t *testing.T) {
	img := solid(color.RGBA{1, 2, 3, 255}, 70, 40)
	tiles := Cut(context.Background(), img, 32)
	assert.Len(t, tiles, 2)
}

func TestNewLibraryEmpty(t *testing.T) {
	_, err := NewLibrary(nil)
	assert.ErrorIs(t, err, ErrEmptyLibrary)
}

func TestLibraryMatch(t *testing.T) {
	lib, err := NewLibrary([]Tile{
		solidTile(color.RGBA{255, 0, 0, 255}, 32),
		solidTile(color.RGBA{0, 255, 0, 255}, 32),
		solidTile(color.RGBA{0, 0, 255, 255}, 32),
		solidTile(color.RGBA{255, 255, 255, 255}, 32),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, lib.Len())

	for _, tc := range []struct {
		query ColorKey
		want  ColorKey
	}{
		{ColorKey{250, 10, 10}, ColorKey{255, 0, 0}},
		{ColorKey{10, 250, 10}, ColorKey{0, 255, 0}},
		{ColorKey{10, 10, 250}, ColorKey{0, 0, 255}},
		{ColorKey{240, 240, 240}, ColorKey{255, 255, 255}},
	} {
		tile, ok := lib.Match(tc.query)
		require.True(t, ok)
		assert.Equal(t, tc.want, tile.Key)
	}
}

func TestRender(t *testing.T) {
	lib, err := NewLibrary([]Tile{
		solidTile(color.RGBA{255, 0, 0, 255}, 32),
		solidTile(color.RGBA{0, 255, 0, 255}, 32),
		solidTile(color.RGBA{0, 0, 255, 255}, 32),
	})
	require.NoError(t, err)

	target := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 {
				target.SetRGBA(x, y, color.RGBA{250, 5, 5, 255})
			} else {
				target.SetRGBA(x, y, color.RGBA{5, 5, 250, 255})
			}
		}
	}

	out, err := Render(context.Background(), lib, target, 32, 2)
	require.NoError(t, err)
	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 32, out.Bounds().Dy())

	assert.Equal(t, ColorKey{255, 0, 0}, rgbAt(out, 16, 16))
	assert.Equal(t, ColorKey{0, 0, 255}, rgbAt(out, 48, 16))
}

func TestRenderScalesTiles(t *testing.T) {
	lib, err := NewLibrary([]Tile{solidTile(color.RGBA{40, 80, 120, 255}, 8)})
	require.NoError(t, err)

	target := solid(color.RGBA{0, 0, 0, 255}, 32, 32)
	out, err := Render(context.Background(), lib, target, 32, 1)
	require.NoError(t, err)
	assert.Equal(t, ColorKey{40, 80, 120}, rgbAt(out, 16, 16))
}

func TestRenderErrors(t *testing.T) {
	lib, err := NewLibrary([]Tile{solidTile(color.RGBA{1, 1, 1, 255}, 32)})
	require.NoError(t, err)
	target := solid(color.RGBA{0, 0, 0, 255}, 64, 64)

	_, err = Render(context.Background(), nil, target, 32, 1)
	assert.ErrorIs(t, err, ErrEmptyLibrary)

	_, err = Render(context.Background(), lib, target, 0, 1)
	assert.ErrorIs(t, err, ErrBlockSize)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]color.RGBA{
		"red.png":   {255, 0, 0, 255},
		"green.png": {0, 255, 0, 255},
		"blue.png":  {0, 0, 255, 255},
	}
	for name, c := range files {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, solid(c, 8, 8)))
		require.NoError(t, f.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644))

	lib, err := LoadDirectory(context.Background(), dir, 32)
	require.NoError(t, err)
	assert.Equal(t, 3, lib.Len())

	tile, ok := lib.Match(ColorKey{250, 10, 10})
	require.True(t, ok)
	assert.Equal(t, ColorKey{255, 0, 0}, tile.Key)
}

func TestLoadDirectoryEmpty(t *testing.T) {
	_, err := LoadDirectory(context.Background(), t.TempDir(), 32)
	assert.ErrorIs(t, err, ErrEmptyLibrary)
}
