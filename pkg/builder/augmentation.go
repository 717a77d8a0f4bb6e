package builder

import (
	"context"

	"github.com/menta2k/trainkit/pkg/augment"
	"github.com/menta2k/trainkit/pkg/trainconfig"
)

// DefaultProbability is used by augmentations with an unset probability
const DefaultProbability = 0.5

// BuildAugmentations composes the configured augmentations in order.
// A nil or empty configuration yields augment.Identity.
func BuildAugmentations(ctx context.Context, cfg *trainconfig.Augmentations, opts ...Option) (augment.Func, error) {
	if cfg == nil || len(cfg.AugmentMethod) == 0 {
		return augment.Identity, nil
	}

	o := newOptions(opts)
	fns := make([]augment.Func, 0, len(cfg.AugmentMethod))
	for i := range cfg.AugmentMethod {
		method := &cfg.AugmentMethod[i]
		name, err := method.Which()
		if err != nil {
			return nil, invalid(ctx, "%v", err)
		}

		var fn augment.Func
		switch name {
		case "random_horizontal_flip":
			fn, err = buildRandomHorizontalFlip(ctx, method.RandomHorizontalFlip, o.sampler)
		case "random_gray_scale":
			fn, err = buildRandomGrayscale(ctx, method.RandomGrayScale, o.sampler)
		default:
			return nil, invalid(ctx, "Unsupported augmentation provided.")
		}
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return augment.Compose(fns...), nil
}

func buildRandomHorizontalFlip(ctx context.Context, cfg *trainconfig.RandomHorizontalFlip, rng augment.Sampler) (augment.Func, error) {
	p, err := probability(ctx, "flip_probability", cfg.FlipProbability)
	if err != nil {
		return nil, err
	}
	debug(ctx, "Building Random Horizontal flip.")
	return func(ex augment.Example) (augment.Example, error) {
		return augment.RandomHorizontalFlip(rng, ex, p)
	}, nil
}

func buildRandomGrayscale(ctx context.Context, cfg *trainconfig.RandomGrayScale, rng augment.Sampler) (augment.Func, error) {
	p, err := probability(ctx, "gray_probability", cfg.GrayProbability)
	if err != nil {
		return nil, err
	}
	debug(ctx, "Building Random Grayscale.")
	return func(ex augment.Example) (augment.Example, error) {
		return augment.RandomGrayscale(rng, ex, p)
	}, nil
}

func probability(ctx context.Context, field string, p *float32) (float32, error) {
	v := valueOr(p, DefaultProbability)
	// rejects NaN too
	if !(v >= 0 && v <= 1) {
		return 0, invalid(ctx, "%s must be in [0, 1], got %v.", field, v)
	}
	return v, nil
}
