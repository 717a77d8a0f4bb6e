package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/trainkit/internal/config"
	"github.com/menta2k/trainkit/internal/utils"
	"github.com/menta2k/trainkit/pkg/schedules"
	"github.com/menta2k/trainkit/pkg/types"
)

const testConfig = `
optimizer:
  adam:
    learning_schedule:
      piecewise_constant_decay_schedule:
        boundaries: [5]
        values: [0.1, 0.01]
loss:
  huber:
    delta: 2.0
preprocessing:
  image_height: 10
  image_width: 20
  augmentations:
    augment_method:
      - random_horizontal_flip:
          flip_probability: 1.0
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunDescribe(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "train.yaml"), testConfig)

	var buf bytes.Buffer
	require.NoError(t, runDescribe(context.Background(), &buf, path))

	out := buf.String()
	assert.Contains(t, out, "optimizer:     Adam (learning rate 0.1 at step 0")
	assert.Contains(t, out, "loss:          huber_loss (reduction auto)")
	assert.Contains(t, out, "resize:        20x10 BILINEAR")
	assert.Contains(t, out, "augmentations: 1")
	assert.Contains(t, out, "piecewise_constant_decay_schedule:")
	assert.Contains(t, out, "flip_probability: 1")
}

func TestRunDescribe_Invalid(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "train.yaml"), "loss:\n  hinge: {}\n  huber: {}\n")

	var buf bytes.Buffer
	assert.Error(t, runDescribe(context.Background(), &buf, path))
}

func TestSampleLearningRate(t *testing.T) {
	lr := &schedules.PiecewiseConstantDecay{Boundaries: []int64{2}, Values: []float32{1, 0.5}}
	pts := sampleLearningRate(lr, 4)

	require.Len(t, pts, 4)
	assert.Equal(t, []float64{1, 1, 1, 0.5}, []float64{pts[0].Y, pts[1].Y, pts[2].Y, pts[3].Y})
	assert.Equal(t, 3.0, pts[3].X)
}

func TestRunSchedule(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "train.yaml"), testConfig)
	output := filepath.Join(dir, "lr.png")

	require.NoError(t, runSchedule(context.Background(), path, 20, output))
	assert.True(t, utils.FileExists(output))

	assert.Error(t, runSchedule(context.Background(), path, 0, output))

	noOptimizer := writeFile(t, filepath.Join(dir, "loss.yaml"), "loss:\n  hinge: {}\n")
	assert.Error(t, runSchedule(context.Background(), noOptimizer, 20, output))
}

func TestRunPreprocess(t *testing.T) {
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "images")
	outputDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(inputDir, 0755))

	img := imaging.New(40, 20, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(inputDir, "cat.png")))

	annPath := filepath.Join(dir, "annotations.json")
	require.NoError(t, utils.WriteAnnotations(annPath, &types.AnnotationFile{Annotations: []types.Annotation{{
		Image:  "cat.png",
		Boxes:  []types.Box{{YMin: 0.1, XMin: 0.1, YMax: 0.5, XMax: 0.3}},
		Labels: []int32{2},
	}}}))

	settings := config.Default()
	opts := preprocessOptions{
		config:      writeFile(t, filepath.Join(dir, "train.yaml"), testConfig),
		input:       inputDir,
		annotations: annPath,
		output:      outputDir,
		overlay:     true,
		seed:        7,
	}
	require.NoError(t, runPreprocess(context.Background(), settings, opts))

	outImage := filepath.Join(outputDir, "cat_preprocessed.png")
	resized, err := imaging.Open(outImage)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), resized.Bounds())
	assert.True(t, utils.FileExists(filepath.Join(outputDir, "cat_overlay.png")))

	f, err := utils.ReadAnnotations(filepath.Join(outputDir, annotationsFile))
	require.NoError(t, err)
	require.Len(t, f.Annotations, 1)
	ann := f.Annotations[0]
	assert.Equal(t, "cat_preprocessed.png", ann.Image)
	assert.Equal(t, []int32{2}, ann.Labels)
	assert.InDelta(t, 0.7, ann.Boxes[0].XMin, 1e-6)
	assert.InDelta(t, 0.9, ann.Boxes[0].XMax, 1e-6)
}

func TestListInputs(t *testing.T) {
	formats := config.Default().Input.SupportedFormats

	inputs, err := listInputs("https://example.com/cat.jpg", formats)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/cat.jpg"}, inputs)

	_, err = listInputs(filepath.Join(t.TempDir(), "missing.png"), formats)
	assert.Error(t, err)

	file := writeFile(t, filepath.Join(t.TempDir(), "a.png"), "")
	inputs, err = listInputs(file, formats)
	require.NoError(t, err)
	assert.Equal(t, []string{file}, inputs)
}

func TestSettingsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, "custom.yaml", settingsFile("custom.yaml"))
	assert.Empty(t, settingsFile(""), "no default settings file yet")

	def := config.GetConfigPath()
	require.NoError(t, utils.EnsureDir(filepath.Dir(def)))
	writeFile(t, def, "output:\n  quality: 42\n")
	assert.Equal(t, def, settingsFile(""))

	settings, err := loadSettings("", "")
	require.NoError(t, err)
	assert.Equal(t, 42, settings.Output.Quality)
}

func TestLoadSettings_Dump(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "settings.yaml"), "output:\n  format: webp\n")
	dump := filepath.Join(dir, "dump", "resolved.yaml")

	settings, err := loadSettings(path, dump)
	require.NoError(t, err)
	assert.Equal(t, "webp", settings.Output.Format)

	dumped, err := config.Load(dump)
	require.NoError(t, err)
	assert.Equal(t, settings, dumped)

	invalid := writeFile(t, filepath.Join(dir, "invalid.yaml"), "output:\n  quality: 0\n")
	_, err = loadSettings(invalid, "")
	assert.Error(t, err)
}
