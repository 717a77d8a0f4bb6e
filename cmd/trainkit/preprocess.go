package main

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/menta2k/trainkit"
	"github.com/menta2k/trainkit/internal/config"
	"github.com/menta2k/trainkit/internal/utils"
	"github.com/menta2k/trainkit/pkg/augment"
	"github.com/menta2k/trainkit/pkg/boxlist"
	"github.com/menta2k/trainkit/pkg/builder"
	"github.com/menta2k/trainkit/pkg/logger"
	"github.com/menta2k/trainkit/pkg/processing"
	"github.com/menta2k/trainkit/pkg/types"
)

const annotationsFile = "annotations.json"

type preprocessOptions struct {
	config      string
	input       string
	annotations string
	output      string
	overlay     bool
	seed        int
}

func runPreprocess(ctx context.Context, settings *config.Config, opts preprocessOptions) error {
	log, _ := logger.GetZapLogger(ctx)

	var builderOpts []builder.Option
	if opts.seed >= 0 {
		builderOpts = append(builderOpts, builder.WithSampler(augment.NewSampler(uint64(opts.seed))))
	}
	components, err := trainkit.BuildFromFile(ctx, opts.config, builderOpts...)
	if err != nil {
		return err
	}

	inputs, err := listInputs(opts.input, settings.Input.SupportedFormats)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.Errorf("no images found in %s", opts.input)
	}

	annotations := map[string]types.Annotation{}
	if opts.annotations != "" {
		f, err := utils.ReadAnnotations(opts.annotations)
		if err != nil {
			return err
		}
		annotations = f.Index()
	}

	if err := utils.EnsureDir(opts.output); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	processor := processing.NewProcessor(processing.Config{
		Quality:      settings.Output.Quality,
		Lossless:     settings.Output.Lossless,
		MinImageSize: settings.Input.MinImageSize,
	})

	out := &types.AnnotationFile{}
	for _, input := range inputs {
		ann, err := preprocessOne(ctx, processor, components, settings, opts, input, annotations[filepath.Base(input)])
		if err != nil {
			log.Error("preprocessing failed", zap.String("input", input), zap.Error(err))
			continue
		}
		out.Annotations = append(out.Annotations, ann)
	}

	path := filepath.Join(opts.output, annotationsFile)
	if err := utils.WriteAnnotations(path, out); err != nil {
		return err
	}
	log.Info("wrote annotations", zap.String("path", path), zap.Int("images", len(out.Annotations)))
	return nil
}

func preprocessOne(ctx context.Context, processor *processing.Processor, components *trainkit.Components,
	settings *config.Config, opts preprocessOptions, input string, ann types.Annotation) (types.Annotation, error) {
	log, _ := logger.GetZapLogger(ctx)

	img, err := processor.LoadImageSmart(input)
	if err != nil {
		return types.Annotation{}, err
	}
	if err := processor.ValidateImage(img); err != nil {
		return types.Annotation{}, err
	}

	// validates the parallel box and label lists
	if _, err := boxlist.New(ann.Boxes, ann.Labels, nil, nil); err != nil {
		return types.Annotation{}, err
	}

	ex, err := components.Preprocess(augment.Example{
		Images: []image.Image{img},
		Labels: ann.Labels,
		Boxes:  ann.Boxes,
	})
	if err != nil {
		return types.Annotation{}, err
	}

	outPath := utils.GenerateOutputFilename(input, opts.output, settings.Output.Prefix, settings.Output.Suffix, settings.Output.Format)
	if err := processor.SaveImage(ex.Images[0], outPath, settings.Output.Format); err != nil {
		return types.Annotation{}, errors.Wrapf(err, "save %s", outPath)
	}
	logWritten(log, "wrote image", processor, ex.Images[0], outPath)

	if opts.overlay {
		boxes, err := boxlist.New(ex.Boxes, ex.Labels, nil, nil)
		if err != nil {
			return types.Annotation{}, err
		}
		overlay := processor.CreateDebugOverlay(ex.Images[0], boxes)
		overlayPath := utils.GenerateOutputFilename(input, opts.output, settings.Output.Prefix, settings.Overlay.Suffix, settings.Overlay.Format)
		if err := processor.SaveImage(overlay, overlayPath, settings.Overlay.Format); err != nil {
			return types.Annotation{}, errors.Wrapf(err, "save %s", overlayPath)
		}
		logWritten(log, "wrote overlay", processor, overlay, overlayPath)
	}

	return types.Annotation{
		Image:  filepath.Base(outPath),
		Boxes:  ex.Boxes,
		Labels: ex.Labels,
	}, nil
}

func logWritten(log *zap.Logger, msg string, processor *processing.Processor, img image.Image, path string) {
	info := processor.GetImageInfo(img)
	fields := []zap.Field{
		zap.String("path", path),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
	}
	if st, err := os.Stat(path); err == nil {
		fields = append(fields, zap.String("size", utils.FormatFileSize(st.Size())))
	}
	log.Info(msg, fields...)
}

// listInputs expands a directory into its image files. Files and URLs are
// returned as is.
func listInputs(input string, formats []string) ([]string, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return []string{input}, nil
	}
	if utils.DirExists(input) {
		return utils.ListImageFiles(input, formats)
	}
	if !utils.FileExists(input) {
		return nil, errors.Errorf("input %s does not exist", input)
	}
	return []string{input}, nil
}
