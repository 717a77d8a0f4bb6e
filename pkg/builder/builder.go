// Package builder turns configuration messages into ready to use training
// components: learning rate schedules, optimizers, losses, and the resize and
// augmentation functions of the preprocessing pipeline.
//
// Builders never return a partially built object: on error the result is
// nil. Configuration errors are logged and wrap errdefs.ErrInvalidConfig.
package builder

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/menta2k/trainkit/pkg/augment"
	"github.com/menta2k/trainkit/pkg/errdefs"
	"github.com/menta2k/trainkit/pkg/logger"
)

// Option configures the augmentation and preprocessing builders
type Option func(*options)

type options struct {
	sampler augment.Sampler
}

// WithSampler sets the random source of the built augmentations
func WithSampler(s augment.Sampler) Option {
	return func(o *options) {
		o.sampler = s
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.sampler == nil {
		o.sampler = augment.DefaultSampler()
	}
	return o
}

// invalid logs msg at error level and returns it as an ErrInvalidConfig
func invalid(ctx context.Context, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	logger, _ := logger.GetZapLogger(ctx)
	logger.Error(msg)
	return errors.Wrap(errdefs.ErrInvalidConfig, msg)
}

func debug(ctx context.Context, msg string) {
	logger, _ := logger.GetZapLogger(ctx)
	logger.Debug(msg)
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
