package builder

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/trainkit/pkg/augment"
	"github.com/menta2k/trainkit/pkg/trainconfig"
)

// ResizeFunc resizes a batch of images to a fixed size
type ResizeFunc func(images []image.Image) []image.Image

// Lanczos5 is a Lanczos resampling filter with a = 5
var Lanczos5 = imaging.ResampleFilter{
	Support: 5.0,
	Kernel: func(x float64) float64 {
		x = math.Abs(x)
		if x < 5.0 {
			return sinc(x) * sinc(x/5.0)
		}
		return 0
	},
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// ResolveResizeProtocol returns the protocol used for p: an unset protocol
// resolves to bilinear
func ResolveResizeProtocol(p trainconfig.ResizeProtocol) trainconfig.ResizeProtocol {
	if p == trainconfig.ResizeProtocolUnspecified {
		return trainconfig.Bilinear
	}
	return p
}

// BuildResizeProtocol maps a resize protocol to its resampling filter.
// An unset protocol resolves to bilinear.
func BuildResizeProtocol(ctx context.Context, p trainconfig.ResizeProtocol) (imaging.ResampleFilter, error) {
	var filter imaging.ResampleFilter
	p = ResolveResizeProtocol(p)
	switch p {
	case trainconfig.NearestNeighbor:
		filter = imaging.NearestNeighbor
	case trainconfig.Bilinear:
		filter = imaging.Linear
	case trainconfig.Bicubic:
		filter = imaging.CatmullRom
	case trainconfig.Gaussian:
		filter = imaging.Gaussian
	case trainconfig.Lanczos3:
		filter = imaging.Lanczos
	case trainconfig.Lanczos5:
		filter = Lanczos5
	case trainconfig.MitchellCubic:
		filter = imaging.MitchellNetravali
	case trainconfig.Area:
		filter = imaging.Box
	default:
		return imaging.ResampleFilter{}, invalid(ctx, "Unsupported resize method %v.", p)
	}
	debug(ctx, fmt.Sprintf("Using Resize method : %v.", p))
	return filter, nil
}

// BuildResizeFunc returns a function resizing images to height x width with
// filter. It returns nil, meaning no resizing, when either dimension is 0.
func BuildResizeFunc(ctx context.Context, height, width int, filter imaging.ResampleFilter) ResizeFunc {
	if height == 0 || width == 0 {
		debug(ctx, "No resizing will be done during preprocessing.")
		return nil
	}
	return func(images []image.Image) []image.Image {
		out := make([]image.Image, len(images))
		for i, img := range images {
			out[i] = imaging.Resize(img, width, height, filter)
		}
		return out
	}
}

// BuildPreprocessing returns the resize function and the augmentation
// pipeline of a preprocessing configuration. The resize function is nil
// when no resizing is configured.
func BuildPreprocessing(ctx context.Context, cfg *trainconfig.Preprocessing, opts ...Option) (ResizeFunc, augment.Func, error) {
	if cfg == nil {
		cfg = &trainconfig.Preprocessing{}
	}
	if cfg.ImageHeight < 0 || cfg.ImageWidth < 0 {
		return nil, nil, invalid(ctx, "Image dimensions must not be negative, got %dx%d.", cfg.ImageHeight, cfg.ImageWidth)
	}

	filter, err := BuildResizeProtocol(ctx, cfg.ResizeProtocol)
	if err != nil {
		return nil, nil, err
	}
	resize := BuildResizeFunc(ctx, cfg.ImageHeight, cfg.ImageWidth, filter)

	augmentation, err := BuildAugmentations(ctx, cfg.Augmentations, opts...)
	if err != nil {
		return nil, nil, err
	}
	return resize, augmentation, nil
}
