package cardtable

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // sheet decoders
	_ "image/png"
	"io/fs"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageSource produces the decoded sheet image for an atlas.
type ImageSource interface {
	Open(ctx context.Context) (image.Image, error)
	String() string
}

// FileSource reads and decodes an image file from fsys. PNG, JPEG, BMP and
// WebP are recognized.
func FileSource(fsys fs.FS, path string) ImageSource {
	return fileSource{fsys: fsys, path: path}
}

type fileSource struct {
	fsys fs.FS
	path string
}

func (s fileSource) Open(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fsys.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	logger().Debug("decoded atlas sheet", "path", s.path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, ctx.Err()
}

func (s fileSource) String() string { return s.path }

// StaticSource wraps an image that is already in memory, such as a sheet
// built at startup or an *ebiten.Image.
func StaticSource(img image.Image) ImageSource {
	return staticSource{img: img}
}

type staticSource struct {
	img image.Image
}

func (s staticSource) Open(ctx context.Context) (image.Image, error) {
	if s.img == nil {
		return nil, fmt.Errorf("no image")
	}
	return s.img, ctx.Err()
}

func (s staticSource) String() string { return "static image" }
