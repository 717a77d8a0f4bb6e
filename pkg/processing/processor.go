// Package processing reads and writes the images fed to the preprocessing
// pipeline, and renders the boxes of an example on top of its image.
package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/trainkit/pkg/boxlist"
)

// ErrUnknownFormat is returned when no decoder accepts the image data
var ErrUnknownFormat = errors.New("image: unknown format")

// Config holds the output settings of a Processor
type Config struct {
	Quality      int
	Lossless     bool
	MinImageSize int
}

// DefaultConfig returns quality 90, lossy webp and no minimum size
func DefaultConfig() Config {
	return Config{
		Quality:      90,
		Lossless:     false,
		MinImageSize: 1,
	}
}

// Processor handles image loading, saving and overlays
type Processor struct {
	config Config
}

// NewProcessor creates a new image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// LoadImageFromURL downloads and loads an image from a URL
func (p *Processor) LoadImageFromURL(imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", "trainkit/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("failed to download image: HTTP %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image data")
	}

	return p.DecodeImage(imageData)
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// registered decoders first
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%s", path)
}

// LoadImageSmart loads an image from either a file path or URL
func (p *Processor) LoadImageSmart(source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.LoadImageFromURL(source)
	}
	return p.LoadImage(source)
}

// DecodeImage decodes an image from byte data with WebP support
func (p *Processor) DecodeImage(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, ErrUnknownFormat
}

// SaveImage saves an image with the given format: webp, png, or jpg
func (p *Processor) SaveImage(img image.Image, path, format string) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: p.config.Lossless, Quality: float32(p.config.Quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(p.config.Quality))
	}
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
}

// GetImageInfo returns basic information about an image
func (p *Processor) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	return ImageInfo{
		Width:       width,
		Height:      height,
		AspectRatio: float64(width) / float64(height),
		Area:        width * height,
	}
}

// ValidateImage checks if an image meets minimum requirements
func (p *Processor) ValidateImage(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() < p.config.MinImageSize || bounds.Dy() < p.config.MinImageSize {
		return errors.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), p.config.MinImageSize)
	}
	return nil
}

// palette used for the label colors of overlays
var palette = []color.NRGBA{
	{0, 255, 0, 255},
	{255, 204, 0, 255},
	{255, 0, 0, 255},
	{0, 170, 255, 255},
	{255, 0, 255, 255},
	{0, 255, 255, 255},
}

// LabelColor returns the overlay color of a label
func LabelColor(label int32) color.NRGBA {
	i := int(label) % len(palette)
	if i < 0 {
		i += len(palette)
	}
	return palette[i]
}

// CreateDebugOverlay draws every box of boxes on a copy of img, colored and
// tagged by its label. Boxes without a label are drawn in white, untagged.
func (p *Processor) CreateDebugOverlay(img image.Image, boxes *boxlist.BBoxList) image.Image {
	dc := gg.NewContextForImage(img)
	w := dc.Width()
	h := dc.Height()

	stroke := math.Max(2, 0.004*float64(min(w, h))) // ~0.4% of min side

	ymin, xmin, ymax, xmax := boxes.ToAbsoluteCoordinates(float32(h), float32(w))
	labels := boxes.Labels()
	for i := range ymin {
		x0, y0 := float64(xmin[i]), float64(ymin[i])
		x1, y1 := float64(xmax[i]), float64(ymax[i])

		labeled := i < len(labels)
		if labeled {
			dc.SetColor(LabelColor(labels[i]))
		} else {
			dc.SetColor(color.White)
		}
		dc.SetLineWidth(stroke)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		dc.Stroke()

		if !labeled {
			continue
		}
		tag := fmt.Sprintf("%d", labels[i])
		tw, th := dc.MeasureString(tag)
		ty := math.Max(y0, th+2)
		dc.DrawRectangle(x0, ty-th-2, tw+4, th+2)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawString(tag, x0+2, ty-1)
	}

	return dc.Image()
}
