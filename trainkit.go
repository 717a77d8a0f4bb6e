// Package trainkit builds the components of a training run from a single
// configuration document.
//
// A configuration selects an optimizer with its learning rate schedule, a
// loss and an image preprocessing pipeline. Each section is a tagged union
// whose single populated alternative picks the implementation:
//
//	optimizer:
//	  adam:
//	    learning_schedule:
//	      cosine_decay_schedule:
//	        initial_learning_rate: 0.01
//	        decay_steps: 1000
//	    beta_1: 0.95
//	loss:
//	  categorical_cross_entropy:
//	    label_smoothing: 0.1
//	preprocessing:
//	  image_height: 224
//	  image_width: 224
//	  resize_protocol: BILINEAR
//	  augmentations:
//	    augment_method:
//	      - random_horizontal_flip:
//	          flip_probability: 0.5
//
// Basic usage:
//
//	cfg, err := trainconfig.LoadFile("train.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	components, err := trainkit.Build(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, err := components.Preprocess(augment.Example{Images: images, Boxes: boxes, Labels: labels})
//
// The package consists of these components:
//
// 1. Configuration (pkg/trainconfig): loading, validation and the union types
// 2. Builders (pkg/builder): configuration to component dispatch
// 3. Numerical layer (pkg/schedules, pkg/optimizers, pkg/losses)
// 4. Augmentations (pkg/augment) and boxes (pkg/boxlist)
// 5. Image IO and overlays (pkg/processing)
package trainkit

import (
	"context"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/menta2k/trainkit/pkg/augment"
	"github.com/menta2k/trainkit/pkg/builder"
	"github.com/menta2k/trainkit/pkg/losses"
	"github.com/menta2k/trainkit/pkg/optimizers"
	"github.com/menta2k/trainkit/pkg/trainconfig"
)

// Version of the trainkit library
const Version = "1.0.0"

// Components holds everything built from a training configuration.
// Optimizer and Loss are nil when their section is absent. Resize is nil
// when no resizing is configured.
type Components struct {
	Optimizer optimizers.Optimizer
	Loss      losses.Loss
	Resize    builder.ResizeFunc
	Augment   augment.Func

	height, width int
}

// Build builds every section present in cfg
func Build(ctx context.Context, cfg *trainconfig.TrainingConfig, opts ...builder.Option) (*Components, error) {
	if cfg == nil {
		cfg = &trainconfig.TrainingConfig{}
	}

	c := &Components{}
	var err error

	if cfg.Optimizer != nil {
		if c.Optimizer, err = builder.BuildOptimizer(ctx, cfg.Optimizer); err != nil {
			return nil, err
		}
	}

	if cfg.Loss != nil {
		if c.Loss, err = builder.BuildLoss(ctx, cfg.Loss); err != nil {
			return nil, err
		}
	}

	if c.Resize, c.Augment, err = builder.BuildPreprocessing(ctx, cfg.Preprocessing, opts...); err != nil {
		return nil, err
	}
	if cfg.Preprocessing != nil {
		c.height, c.width = cfg.Preprocessing.ImageHeight, cfg.Preprocessing.ImageWidth
	}

	return c, nil
}

// BuildFromFile loads a YAML or JSON configuration and builds it
func BuildFromFile(ctx context.Context, path string, opts ...builder.Option) (*Components, error) {
	cfg, err := trainconfig.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(ctx, cfg, opts...)
}

// Preprocess resizes the images of ex, when resizing is configured, then
// runs the augmentation pipeline. Masks follow the images with nearest
// neighbor resampling. Boxes are normalized and need no resizing.
func (c *Components) Preprocess(ex augment.Example) (augment.Example, error) {
	if c.Resize != nil {
		ex.Images = c.Resize(ex.Images)
		ex.Masks = resizeMasks(ex.Masks, c.width, c.height)
	}
	if c.Augment == nil {
		return ex, nil
	}
	return c.Augment(ex)
}

func resizeMasks(masks []*image.Gray, width, height int) []*image.Gray {
	if masks == nil {
		return nil
	}
	resized := make([]*image.Gray, len(masks))
	for i, m := range masks {
		if m == nil {
			continue
		}
		scaled := imaging.Resize(m, width, height, imaging.NearestNeighbor)
		g := image.NewGray(scaled.Bounds())
		draw.Draw(g, g.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
		resized[i] = g
	}
	return resized
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
