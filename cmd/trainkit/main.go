package main

import (
	"context"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/menta2k/trainkit/internal/config"
	"github.com/menta2k/trainkit/internal/utils"
	"github.com/menta2k/trainkit/pkg/logger"
)

func main() {
	parser := argparse.NewParser("trainkit", "Build and inspect training components from a configuration file")
	settingsPath := parser.String("s", "settings", &argparse.Options{Help: "Tool settings file (yaml or json), defaults to " + config.GetConfigPath() + " when present", Default: ""})
	dumpSettings := parser.String("", "dump-settings", &argparse.Options{Help: "Write the resolved tool settings to this file", Default: ""})
	debug := parser.Flag("d", "debug", &argparse.Options{Help: "Enable debug logging", Default: false})

	preprocessCmd := parser.NewCommand("preprocess", "Resize and augment images and their boxes")
	ppConfig := preprocessCmd.String("c", "config", &argparse.Options{Help: "Training configuration file", Required: true})
	ppInput := preprocessCmd.String("i", "input", &argparse.Options{Help: "Input image, directory or URL", Required: true})
	ppAnnotations := preprocessCmd.String("a", "annotations", &argparse.Options{Help: "Annotations JSON file", Default: ""})
	ppOutput := preprocessCmd.String("o", "output", &argparse.Options{Help: "Output directory", Default: "out"})
	ppOverlay := preprocessCmd.Flag("", "overlay", &argparse.Options{Help: "Also write images with the boxes drawn on top", Default: false})
	ppSeed := preprocessCmd.Int("", "seed", &argparse.Options{Help: "Seed of the augmentations, random if negative", Default: -1})

	describeCmd := parser.NewCommand("describe", "Build every component of a configuration and print it")
	dsConfig := describeCmd.String("c", "config", &argparse.Options{Help: "Training configuration file", Required: true})

	scheduleCmd := parser.NewCommand("schedule", "Plot the learning rate of the configured optimizer")
	scConfig := scheduleCmd.String("c", "config", &argparse.Options{Help: "Training configuration file", Required: true})
	scSteps := scheduleCmd.Int("n", "steps", &argparse.Options{Help: "Number of steps to plot", Default: 1000})
	scOutput := scheduleCmd.String("o", "output", &argparse.Options{Help: "Output image file", Default: "learning_rate.png"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	settings, err := loadSettings(*settingsPath, *dumpSettings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.SetDebug(settings.Debug || *debug)

	ctx := context.Background()
	log, _ := logger.GetZapLogger(ctx)
	defer log.Sync()

	switch {
	case preprocessCmd.Happened():
		err = runPreprocess(ctx, settings, preprocessOptions{
			config:      *ppConfig,
			input:       *ppInput,
			annotations: *ppAnnotations,
			output:      *ppOutput,
			overlay:     *ppOverlay,
			seed:        *ppSeed,
		})
	case describeCmd.Happened():
		err = runDescribe(ctx, os.Stdout, *dsConfig)
	case scheduleCmd.Happened():
		err = runSchedule(ctx, *scConfig, *scSteps, *scOutput)
	}
	if err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// loadSettings loads and validates the tool settings, then writes them to
// dump when not empty
func loadSettings(path, dump string) (*config.Config, error) {
	settings, err := config.Load(settingsFile(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load settings")
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}
	if dump != "" {
		if err := settings.SaveToFile(dump); err != nil {
			return nil, errors.Wrap(err, "failed to dump settings")
		}
	}
	return settings, nil
}

// settingsFile returns path, or the default settings file when path is
// empty and that file exists
func settingsFile(path string) string {
	if path != "" {
		return path
	}
	if def := config.GetConfigPath(); utils.FileExists(def) {
		return def
	}
	return ""
}
