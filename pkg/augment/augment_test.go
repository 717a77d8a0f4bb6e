package augment

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/menta2k/trainkit/pkg/errdefs"
	"github.com/menta2k/trainkit/pkg/types"
)

// fixedSampler always returns the same value
type fixedSampler float32

func (f fixedSampler) Float32() float32 { return float32(f) }

// countingSampler records how many samples were drawn
type countingSampler struct {
	value float32
	n     int
}

func (c *countingSampler) Float32() float32 {
	c.n++
	return c.value
}

// createTestImage creates an image whose left half is red and right half is blue
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

// createTestMask marks the leftmost column
func createTestMask(width, height int) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		m.SetGray(0, y, color.Gray{Y: 255})
	}
	return m
}

func testExample() Example {
	return Example{
		Images: []image.Image{createTestImage(8, 4), createTestImage(8, 4)},
		Labels: []int32{3, 7},
		Boxes: []types.Box{
			{YMin: 0.1, XMin: 0.2, YMax: 0.4, XMax: 0.3},
			{YMin: 0.5, XMin: 0.0, YMax: 0.9, XMax: 0.75},
		},
		Masks: []*image.Gray{createTestMask(8, 4), createTestMask(8, 4)},
	}
}

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestRandomHorizontalFlip_ProbabilityOne(t *testing.T) {
	ex := testExample()
	out, err := RandomHorizontalFlip(fixedSampler(0.5), ex, 1)
	if err != nil {
		t.Fatalf("RandomHorizontalFlip failed: %v", err)
	}

	want := types.Box{YMin: 0.1, XMin: 0.7, YMax: 0.4, XMax: 0.8}
	got := out.Boxes[0]
	if !almostEqual(got.YMin, want.YMin) || !almostEqual(got.XMin, want.XMin) ||
		!almostEqual(got.YMax, want.YMax) || !almostEqual(got.XMax, want.XMax) {
		t.Errorf("Expected flipped box %+v, got %+v", want, got)
	}

	// left pixel of the flipped image is now blue
	r, _, b, _ := out.Images[0].At(0, 0).RGBA()
	if r != 0 || b == 0 {
		t.Errorf("Expected blue pixel at (0,0) after flip, got r=%d b=%d", r, b)
	}

	// mask column moved to the right edge
	if out.Masks[0].GrayAt(7, 0).Y != 255 || out.Masks[0].GrayAt(0, 0).Y != 0 {
		t.Error("Expected mask to be mirrored")
	}

	if out.Labels[0] != 3 || out.Labels[1] != 7 {
		t.Errorf("Expected labels to be unchanged, got %v", out.Labels)
	}

	// input is not mutated
	if ex.Boxes[0].XMin != 0.2 {
		t.Errorf("Expected input boxes to be unchanged, got %+v", ex.Boxes[0])
	}
}

func TestRandomHorizontalFlip_ProbabilityZero(t *testing.T) {
	ex := testExample()
	for _, v := range []float32{0, 0.5, 0.999999} {
		out, err := RandomHorizontalFlip(fixedSampler(v), ex, 0)
		if err != nil {
			t.Fatalf("RandomHorizontalFlip failed: %v", err)
		}
		if out.Boxes[0] != ex.Boxes[0] || out.Images[0] != ex.Images[0] {
			t.Errorf("Expected no flip for sample %f", v)
		}
	}
}

func TestRandomHorizontalFlip_Threshold(t *testing.T) {
	ex := testExample()

	// sample equal to 1 - p does not flip
	out, _ := RandomHorizontalFlip(fixedSampler(0.75), ex, 0.25)
	if out.Boxes[0] != ex.Boxes[0] {
		t.Error("Expected no flip when sample equals the threshold")
	}

	out, _ = RandomHorizontalFlip(fixedSampler(0.76), ex, 0.25)
	if out.Boxes[0] == ex.Boxes[0] {
		t.Error("Expected flip when sample exceeds the threshold")
	}
}

func TestRandomHorizontalFlip_Involution(t *testing.T) {
	ex := testExample()
	rng := NewSampler(1)
	once, err := RandomHorizontalFlip(rng, ex, 1)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := RandomHorizontalFlip(rng, once, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range ex.Boxes {
		a, b := ex.Boxes[i], twice.Boxes[i]
		if !almostEqual(a.XMin, b.XMin) || !almostEqual(a.XMax, b.XMax) || a.YMin != b.YMin || a.YMax != b.YMax {
			t.Errorf("Expected double flip to restore box %d: %+v != %+v", i, a, b)
		}
	}
}

func TestRandomHorizontalFlip_OneSamplePerBatch(t *testing.T) {
	rng := &countingSampler{value: 0.9}
	if _, err := RandomHorizontalFlip(rng, testExample(), 0.5); err != nil {
		t.Fatal(err)
	}
	if rng.n != 1 {
		t.Errorf("Expected one sample per call, got %d", rng.n)
	}
}

func TestRandomHorizontalFlip_NilLabels(t *testing.T) {
	ex := Example{Images: []image.Image{createTestImage(4, 4)}}
	out, err := RandomHorizontalFlip(fixedSampler(0.5), ex, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Boxes != nil || out.Masks != nil || out.Labels != nil {
		t.Error("Expected nil boxes, masks and labels to stay nil")
	}
}

func TestKeypointsNotSupported(t *testing.T) {
	ex := testExample()
	ex.Keypoints = [][]types.Keypoint{{}, {}}

	rng := &countingSampler{value: 0.9}
	_, err := RandomHorizontalFlip(rng, ex, 1)
	if !errors.Is(err, errdefs.ErrNotImplemented) {
		t.Errorf("Expected ErrNotImplemented, got %v", err)
	}
	_, err = RandomGrayscale(rng, ex, 1)
	if !errors.Is(err, errdefs.ErrNotImplemented) {
		t.Errorf("Expected ErrNotImplemented, got %v", err)
	}
	if rng.n != 0 {
		t.Errorf("Expected no samples drawn, got %d", rng.n)
	}
}

func TestRandomGrayscale(t *testing.T) {
	ex := testExample()
	out, err := RandomGrayscale(fixedSampler(0.5), ex, 1)
	if err != nil {
		t.Fatalf("RandomGrayscale failed: %v", err)
	}
	r, g, b, _ := out.Images[0].At(0, 0).RGBA()
	if r != g || g != b {
		t.Errorf("Expected gray pixel, got %d %d %d", r, g, b)
	}
	if out.Boxes[0] != ex.Boxes[0] || out.Masks[0] != ex.Masks[0] || out.Labels[0] != ex.Labels[0] {
		t.Error("Expected labels, boxes and masks to pass through")
	}

	out, _ = RandomGrayscale(fixedSampler(0.5), ex, 0)
	if out.Images[0] != ex.Images[0] {
		t.Error("Expected images to pass through with probability 0")
	}
}

func TestCompose(t *testing.T) {
	ex := testExample()

	out, err := Compose()(ex)
	if err != nil {
		t.Fatal(err)
	}
	if out.Images[0] != ex.Images[0] || out.Boxes[0] != ex.Boxes[0] {
		t.Error("Expected empty composition to be the identity")
	}

	var order []string
	step := func(name string) Func {
		return func(e Example) (Example, error) {
			order = append(order, name)
			return e, nil
		}
	}
	if _, err := Compose(step("a"), step("b"), step("c"))(ex); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "a" || order[2] != "c" {
		t.Errorf("Expected left to right order, got %v", order)
	}

	flip := func(e Example) (Example, error) { return RandomHorizontalFlip(fixedSampler(0.5), e, 1) }
	out, err = Compose(flip, flip)(ex)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(out.Boxes[1].XMax, ex.Boxes[1].XMax) {
		t.Errorf("Expected two flips to cancel, got %+v", out.Boxes[1])
	}
}
