package pipeline

import (
	"context"
	"image"
)

const streamBufferSize = 8

// Grid emits the rectangle of every complete block x block area inside
// bounds, column by column. Areas that would extend past bounds are not
// emitted.
func Grid(ctx context.Context, bounds image.Rectangle, block int) <-chan image.Rectangle {
	outputStream := make(chan image.Rectangle, streamBufferSize)
	go func() {
		defer close(outputStream)

		if block <= 0 {
			return
		}
		for x := bounds.Min.X; x+block <= bounds.Max.X; x += block {
			for y := bounds.Min.Y; y+block <= bounds.Max.Y; y += block {
				select {
				case <-ctx.Done():
					return
				case outputStream <- image.Rect(x, y, x+block, y+block):
				}
			}
		}
	}()

	return outputStream
}

func ToSlice[T any](ctx context.Context, inputStream <-chan T) []T {
	output := make([]T, 0)
	for item := range inputStream {
		output = append(output, item)
	}

	return output
}

func OrDone[T any](ctx context.Context, inputStream <-chan T) <-chan T {
	outputStream := make(chan T, streamBufferSize)
	go func() {
		defer close(outputStream)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-inputStream:
				if !ok {
					return
				}

				select {
				case <-ctx.Done():
				case outputStream <- v:
				}
			}
		}
	}()

	return outputStream
}
