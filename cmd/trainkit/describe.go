package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/trainkit"
	"github.com/menta2k/trainkit/pkg/builder"
	"github.com/menta2k/trainkit/pkg/trainconfig"
)

// runDescribe builds every section of the configuration at path, then
// prints a summary of the built components followed by the configuration
// as YAML
func runDescribe(ctx context.Context, w io.Writer, path string) error {
	cfg, err := trainconfig.LoadFile(path)
	if err != nil {
		return err
	}
	components, err := trainkit.Build(ctx, cfg)
	if err != nil {
		return err
	}

	if o := components.Optimizer; o != nil {
		fmt.Fprintf(w, "optimizer:     %s (learning rate %g at step 0, %T)\n", o.Name(), o.LearningRate().At(0), o.LearningRate())
	} else {
		fmt.Fprintln(w, "optimizer:     none")
	}
	if l := components.Loss; l != nil {
		fmt.Fprintf(w, "loss:          %s (reduction %s)\n", l.Name(), l.Reduction())
	} else {
		fmt.Fprintln(w, "loss:          none")
	}

	p := cfg.Preprocessing
	if components.Resize != nil {
		fmt.Fprintf(w, "resize:        %dx%d %s\n", p.ImageWidth, p.ImageHeight, builder.ResolveResizeProtocol(p.ResizeProtocol))
	} else {
		fmt.Fprintln(w, "resize:        none")
	}
	n := 0
	if p != nil && p.Augmentations != nil {
		n = len(p.Augmentations.AugmentMethod)
	}
	fmt.Fprintf(w, "augmentations: %d\n", n)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal configuration")
	}
	fmt.Fprintln(w, "---")
	_, err = w.Write(data)
	return err
}
