package main

import (
	"context"
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/menta2k/trainkit/pkg/builder"
	"github.com/menta2k/trainkit/pkg/errdefs"
	"github.com/menta2k/trainkit/pkg/schedules"
	"github.com/menta2k/trainkit/pkg/trainconfig"
)

func runSchedule(ctx context.Context, path string, steps int, output string) error {
	if steps < 1 {
		return errors.Errorf("steps must be positive, got %d", steps)
	}

	cfg, err := trainconfig.LoadFile(path)
	if err != nil {
		return err
	}
	if cfg.Optimizer == nil {
		return errors.Wrap(errdefs.ErrInvalidConfig, "configuration has no optimizer")
	}
	optimizer, err := builder.BuildOptimizer(ctx, cfg.Optimizer)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s learning rate", optimizer.Name())
	if err := plotLearningRate(optimizer.LearningRate(), steps, title, output); err != nil {
		return err
	}
	fmt.Printf("Saved learning rate plot to %s\n", output)
	return nil
}

// sampleLearningRate evaluates lr at steps 0 to steps-1
func sampleLearningRate(lr schedules.LearningRate, steps int) plotter.XYs {
	pts := make(plotter.XYs, steps)
	for i := range pts {
		pts[i].X = float64(i)
		pts[i].Y = float64(lr.At(int64(i)))
	}
	return pts
}

// plotLearningRate saves the curve of lr over steps to filename. The
// image format follows the file extension.
func plotLearningRate(lr schedules.LearningRate, steps int, title, filename string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Learning rate"

	l, err := plotter.NewLine(sampleLearningRate(lr, steps))
	if err != nil {
		return errors.Wrap(err, "failed to create line")
	}
	l.Color = color.RGBA{B: 255, A: 255}
	l.LineStyle.Width = vg.Points(2)
	p.Add(l)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return errors.Wrap(err, "failed to save plot")
	}
	return nil
}
