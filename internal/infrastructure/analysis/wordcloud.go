package analysis

import (
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/psykhi/wordclouds"

	"NewscastDigest/internal/domain"
	"NewscastDigest/internal/ports"
)

var cloudPalette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

// CloudRenderer draws frequency tables as PNG word clouds.
type CloudRenderer struct {
	fontFile string
	width    int
	height   int
}

var _ ports.CloudRenderer = (*CloudRenderer)(nil)

// NewCloudRenderer configures the renderer; the font file must support the
// glyphs appearing in the keyword set.
func NewCloudRenderer(fontFile string) *CloudRenderer {
	return &CloudRenderer{fontFile: fontFile, width: 2048, height: 1024}
}

// Render writes the word cloud to outputPath, creating parent directories
// as needed. An empty table is an error; there is nothing to draw.
func (r *CloudRenderer) Render(table domain.FrequencyTable, outputPath string) error {
	if len(table) == 0 {
		return fmt.Errorf("empty frequency table")
	}

	cloud := wordclouds.NewWordcloud(table,
		wordclouds.FontFile(r.fontFile),
		wordclouds.FontMaxSize(300),
		wordclouds.FontMinSize(10),
		wordclouds.Width(r.width),
		wordclouds.Height(r.height),
		wordclouds.Colors(cloudPalette),
		wordclouds.BackgroundColor(color.White),
	)

	img := cloud.Draw()

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create image directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	return nil
}
