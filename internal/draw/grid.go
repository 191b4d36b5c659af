package draw

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	imgdraw "image/draw"
	_ "image/jpeg" // decoder registration
	"image/png"
	"io"
	"os"
)

var (
	// ErrNoImages is returned when ConcatenateImages gets an empty list.
	ErrNoImages = errors.New("draw: no images to concatenate")
	// ErrGridTooSmall is returned when there are more images than grid cells.
	ErrGridTooSmall = errors.New("draw: more images than grid cells")
)

// ConcatenateImages lays the images at paths out row-major on a rows×cols
// grid and saves the result as PNG at savePath. Every cell has the size of
// the first image; larger images are clipped, smaller ones leave black
// margins.
func ConcatenateImages(paths []string, rows, cols int, savePath string) error {
	if len(paths) == 0 {
		return ErrNoImages
	}
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("draw: invalid grid %dx%d", rows, cols)
	}
	if len(paths) > rows*cols {
		return fmt.Errorf("%w: %d images, %dx%d grid", ErrGridTooSmall, len(paths), rows, cols)
	}

	images := make([]image.Image, len(paths))
	for i, p := range paths {
		img, err := decodeImage(p)
		if err != nil {
			return err
		}
		images[i] = img
	}

	cell := images[0].Bounds().Size()
	canvas := image.NewRGBA(image.Rect(0, 0, cell.X*cols, cell.Y*rows))
	imgdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, imgdraw.Src)
	for i, img := range images {
		row, col := i/cols, i%cols
		dst := image.Rect(col*cell.X, row*cell.Y, (col+1)*cell.X, (row+1)*cell.Y)
		imgdraw.Draw(canvas, dst, img, img.Bounds().Min, imgdraw.Src)
	}

	return renderFile(savePath, func(w io.Writer) error {
		return png.Encode(w, canvas)
	})
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
