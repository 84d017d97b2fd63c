package tools

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

type ImageInfo struct {
	Format string
	Width  int
	Height int
}

func (i ImageInfo) String() string {
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}

// Inspect decodes b far enough to report its format and dimensions.
func Inspect(b []byte) (ImageInfo, error) {
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return ImageInfo{}, err
	}
	bounds := img.Bounds()
	return ImageInfo{
		Format: DetectImageType(b).String(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
