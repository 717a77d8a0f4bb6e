// Package augment implements stochastic, label preserving image transforms.
// Every transform acts jointly on a batch of images and on the boxes and
// masks that label them, so the output of one transform can be fed directly
// to the next.
package augment

import (
	"image"
	"image/draw"
	"math/rand/v2"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/menta2k/trainkit/pkg/errdefs"
	"github.com/menta2k/trainkit/pkg/types"
)

// ErrKeypointsNotSupported is returned by every transform when keypoints are given
var ErrKeypointsNotSupported = errors.Wrap(errdefs.ErrNotImplemented, "currently keypoints are not supported")

// Example is the tuple threaded through an augmentation pipeline.
// Labels, Boxes and Masks are optional and may be nil.
type Example struct {
	Images    []image.Image
	Labels    []int32
	Boxes     []types.Box
	Masks     []*image.Gray
	Keypoints [][]types.Keypoint
}

// Func is a single transform, or a composition of transforms
type Func func(Example) (Example, error)

// Sampler is the source of randomness of the transforms.
// Float32 returns a uniform sample in [0,1).
type Sampler interface {
	Float32() float32
}

type lockedSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSampler) Float32() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float32()
}

// NewSampler returns a goroutine safe Sampler seeded with seed
func NewSampler(seed uint64) Sampler {
	return &lockedSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// DefaultSampler returns a goroutine safe Sampler with a random seed
func DefaultSampler() Sampler {
	return &lockedSampler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Identity returns its input unchanged
func Identity(ex Example) (Example, error) {
	return ex, nil
}

// Compose chains fns left to right: the output of fns[0] is the input of
// fns[1], and so on. An empty list composes to Identity.
func Compose(fns ...Func) Func {
	if len(fns) == 0 {
		return Identity
	}
	return func(ex Example) (Example, error) {
		var err error
		for _, fn := range fns {
			ex, err = fn(ex)
			if err != nil {
				return Example{}, err
			}
		}
		return ex, nil
	}
}

// fires draws one sample for the whole batch. The transform is applied when
// the sample is strictly greater than 1 - probability.
func fires(rng Sampler, probability float32) bool {
	return rng.Float32() > 1.0-probability
}

// RandomHorizontalFlip mirrors the images, boxes and masks left to right with
// the given probability. Boxes must be normalized.
func RandomHorizontalFlip(rng Sampler, ex Example, flipProbability float32) (Example, error) {
	if ex.Keypoints != nil {
		return Example{}, ErrKeypointsNotSupported
	}
	if !fires(rng, flipProbability) {
		return ex, nil
	}

	out := Example{
		Images: make([]image.Image, len(ex.Images)),
		Labels: ex.Labels,
		Boxes:  flipBoxesLeftRight(ex.Boxes),
		Masks:  flipMasksLeftRight(ex.Masks),
	}
	for i, img := range ex.Images {
		out.Images[i] = imaging.FlipH(img)
	}
	return out, nil
}

// RandomGrayscale converts the images to grayscale with the given
// probability. The gray value is replicated over the color channels.
func RandomGrayscale(rng Sampler, ex Example, grayProbability float32) (Example, error) {
	if ex.Keypoints != nil {
		return Example{}, ErrKeypointsNotSupported
	}
	if !fires(rng, grayProbability) {
		return ex, nil
	}

	out := ex
	out.Images = make([]image.Image, len(ex.Images))
	for i, img := range ex.Images {
		out.Images[i] = imaging.Grayscale(img)
	}
	return out, nil
}

func flipBoxesLeftRight(boxes []types.Box) []types.Box {
	if boxes == nil {
		return nil
	}
	flipped := make([]types.Box, len(boxes))
	for i, b := range boxes {
		flipped[i] = types.Box{
			YMin: b.YMin,
			XMin: 1.0 - b.XMax,
			YMax: b.YMax,
			XMax: 1.0 - b.XMin,
		}
	}
	return flipped
}

func flipMasksLeftRight(masks []*image.Gray) []*image.Gray {
	if masks == nil {
		return nil
	}
	flipped := make([]*image.Gray, len(masks))
	for i, m := range masks {
		if m == nil {
			continue
		}
		mirrored := imaging.FlipH(m)
		g := image.NewGray(mirrored.Bounds())
		draw.Draw(g, g.Bounds(), mirrored, mirrored.Bounds().Min, draw.Src)
		flipped[i] = g
	}
	return flipped
}
