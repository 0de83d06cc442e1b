package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"runtime/pprof"

	"github.com/fogleman/gg"
	"github.com/goccy/go-graphviz"
	"github.com/urfave/cli/v2"

	"github.com/okanos/blockdex/mosaic"
)

func openImage(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// loadLibrary builds the tile library from either a directory of tile
// images or a single image that is cut into blocks.
func loadLibrary(ctx context.Context, tilesPath string, blockSize int) (*mosaic.Library, error) {
	info, err := os.Stat(tilesPath)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return mosaic.LoadDirectory(ctx, tilesPath, blockSize)
	}

	img, err := openImage(tilesPath)
	if err != nil {
		return nil, err
	}
	return mosaic.NewLibrary(mosaic.Cut(ctx, img, blockSize))
}

func withProfile(profileOutputName string, f func() error) error {
	if profileOutputName != "" {
		out, err := os.Create(profileOutputName)
		if err != nil {
			return err
		}
		defer out.Close()

		if err := pprof.StartCPUProfile(out); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	return f()
}

func renderAction(c *cli.Context) error {
	tilesPath := c.String("tiles")
	inputName := c.String("input")
	outputName := c.String("output")
	blockSize := c.Int("block-size")
	jobs := c.Int("jobs")
	profileOutputName := c.String("profile-output")

	if tilesPath == "" || inputName == "" {
		return fmt.Errorf("both --tiles and --input are required")
	}

	return withProfile(profileOutputName, func() error {
		ctx := c.Context

		log.Println("loading tiles...")
		lib, err := loadLibrary(ctx, tilesPath, blockSize)
		if err != nil {
			return err
		}
		log.Printf("done (%d tiles)", lib.Len())

		target, err := openImage(inputName)
		if err != nil {
			return err
		}

		log.Println("rendering...")
		out, err := mosaic.Render(ctx, lib, target, blockSize, jobs)
		if err != nil {
			return err
		}
		log.Println("done")

		return gg.SavePNG(outputName, out)
	})
}

func dotAction(c *cli.Context) error {
	tilesPath := c.String("tiles")
	outputName := c.String("output")
	blockSize := c.Int("block-size")
	format := c.String("format")

	if tilesPath == "" {
		return fmt.Errorf("--tiles is required")
	}

	lib, err := loadLibrary(c.Context, tilesPath, blockSize)
	if err != nil {
		return err
	}
	dot := lib.Dot()

	if format == "dot" {
		return os.WriteFile(outputName, []byte(dot), 0o644)
	}

	var gvFormat graphviz.Format
	switch format {
	case "svg":
		gvFormat = graphviz.SVG
	case "png":
		gvFormat = graphviz.PNG
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return err
	}
	g := graphviz.New()
	defer g.Close()
	return g.RenderFilename(graph, gvFormat, outputName)
}

func main() {
	app := &cli.App{
		Name:     "blockdex",
		HelpName: "blockdex",
		Usage:    "photomosaic renderer backed by a 3d color index",
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "render a mosaic of the input image",
				UsageText: "blockdex render [command options]",
				Action:    renderAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tiles",
						Usage: "tile source: an image to cut up, or a directory of images",
					},
					&cli.StringFlag{
						Name:  "input",
						Usage: "image to reassemble",
					},
					&cli.StringFlag{
						Name:  "output",
						Value: "out.png",
						Usage: "output file",
					},
					&cli.IntFlag{
						Name:  "block-size",
						Value: 32,
						Usage: "mosaic block size in pixels",
					},
					&cli.IntFlag{
						Name:  "jobs",
						Value: 0,
						Usage: "render worker count (0 = all cpus)",
					},
					&cli.StringFlag{
						Name:  "profile-output",
						Usage: "write a cpu profile to this file",
					},
				},
			},
			{
				Name:      "dot",
				Usage:     "export the color tree for visualization",
				UsageText: "blockdex dot [command options]",
				Action:    dotAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tiles",
						Usage: "tile source: an image to cut up, or a directory of images",
					},
					&cli.StringFlag{
						Name:  "output",
						Value: "tree.dot",
						Usage: "output file",
					},
					&cli.IntFlag{
						Name:  "block-size",
						Value: 32,
						Usage: "mosaic block size in pixels",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "dot",
						Usage: "output format (dot, svg, png)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
