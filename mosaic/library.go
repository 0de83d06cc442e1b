package mosaic

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"

	"github.com/okanos/blockdex"
)

// Library holds a tile set indexed by average color.
type Library struct {
	idx *blockdex.Index[int64, Tile]
}

// NewLibrary indexes the given tiles. At least one tile is required.
func NewLibrary(tiles []Tile) (*Library, error) {
	if len(tiles) == 0 {
		return nil, ErrEmptyLibrary
	}

	idx := blockdex.New(tiles, func(t Tile) ColorKey {
		return t.Key
	})
	return &Library{idx: idx}, nil
}

// Len returns the number of tiles in the library.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return l.idx.Len()
}

// Match returns the tile whose average color is nearest to key.
func (l *Library) Match(key ColorKey) (*Tile, bool) {
	return l.idx.FindClosest(key)
}

// Dot returns a graphviz description of the underlying tree.
func (l *Library) Dot() string {
	return l.idx.DotString()
}

// LoadDirectory builds a library from every decodable image directly
// under dir. Each image is scaled to a blockSize square and becomes one
// tile; files that are not images are skipped. Decoding runs
// concurrently, but tiles are indexed in file name order so the
// resulting library is deterministic.
func LoadDirectory(ctx context.Context, dir string, blockSize int) (*Library, error) {
	if blockSize <= 0 {
		return nil, ErrBlockSize
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type namedTile struct {
		name string
		tile Tile
	}

	var (
		mu    sync.Mutex
		found []namedTile
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := filepath.Join(dir, entry.Name())

		g.Go(func() error {
			img, err := decodeFile(name)
			if err != nil {
				if errors.Is(err, image.ErrFormat) {
					return nil
				}
				return fmt.Errorf("load %s: %w", name, err)
			}

			scaled := scaleTo(img, blockSize)
			tile := Tile{
				Image: scaled,
				Key:   AverageColor(scaled, scaled.Bounds()),
			}
			mu.Lock()
			found = append(found, namedTile{name: name, tile: tile})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].name < found[j].name
	})
	tiles := make([]Tile, len(found))
	for i, nt := range found {
		tiles[i] = nt.tile
	}
	return NewLibrary(tiles)
}

func decodeFile(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}
