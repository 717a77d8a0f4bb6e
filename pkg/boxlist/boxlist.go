// Package boxlist bundles the bounding boxes of one image with their parallel
// labels, masks and keypoints, and answers geometric queries about them.
package boxlist

import (
	"context"
	"fmt"
	"image"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/menta2k/trainkit/pkg/errdefs"
	"github.com/menta2k/trainkit/pkg/logger"
	"github.com/menta2k/trainkit/pkg/types"
)

// Standard field names
const (
	FieldBoxes     = "boxes"
	FieldLabels    = "labels"
	FieldMasks     = "masks"
	FieldKeypoints = "keypoints"
)

var (
	// ErrFieldExists is returned by AddField when the name is already taken
	ErrFieldExists = errors.New("field already exists")
	// ErrFieldNotFound is returned by GetField for an unknown name
	ErrFieldNotFound = errors.New("field not found")
)

// BBoxList holds the boxes of one image plus any number of named fields.
// The standard fields (boxes, labels, masks, keypoints) are always present
// in a list made by New, masks and keypoints may hold nil. The zero value
// is an empty list with no fields.
type BBoxList struct {
	data map[string]any
}

// New creates a BBoxList. masks and keypoints are optional, but when given
// they must have one entry per box, as must labels.
func New(boxes []types.Box, labels []int32, masks []*image.Gray, keypoints [][]types.Keypoint) (*BBoxList, error) {
	n := len(boxes)
	if len(labels) != n {
		return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "got %d labels for %d boxes", len(labels), n)
	}
	if masks != nil && len(masks) != n {
		return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "got %d masks for %d boxes", len(masks), n)
	}
	if keypoints != nil && len(keypoints) != n {
		return nil, errors.Wrapf(errdefs.ErrInvalidConfig, "got %d keypoint sets for %d boxes", len(keypoints), n)
	}

	return &BBoxList{
		data: map[string]any{
			FieldBoxes:     boxes,
			FieldLabels:    labels,
			FieldMasks:     masks,
			FieldKeypoints: keypoints,
		},
	}, nil
}

// AddField inserts a new field. Use SetField to overwrite an existing one.
func (b *BBoxList) AddField(name string, value any) error {
	if _, ok := b.data[name]; ok {
		logger, _ := logger.GetZapLogger(context.Background())
		logger.Error(fmt.Sprintf("%s already exists. Cannot overwrite. Use SetField().", name))
		return errors.Wrapf(ErrFieldExists, "field %q", name)
	}
	b.SetField(name, value)
	return nil
}

// GetField returns the stored value as is, without copying it
func (b *BBoxList) GetField(name string) (any, error) {
	v, ok := b.data[name]
	if !ok {
		logger, _ := logger.GetZapLogger(context.Background())
		logger.Error("field was not found in the data dictionary", zap.String("field", name))
		return nil, errors.Wrapf(ErrFieldNotFound, "field %q", name)
	}
	return v, nil
}

// SetField inserts or overwrites a field
func (b *BBoxList) SetField(name string, value any) {
	if b.data == nil {
		b.data = map[string]any{}
	}
	b.data[name] = value
}

// ListFields returns the names of all stored fields, sorted
func (b *BBoxList) ListFields() []string {
	names := make([]string, 0, len(b.data))
	for k := range b.data {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Boxes returns the boxes field, or nil if it was overwritten with another type
func (b *BBoxList) Boxes() []types.Box {
	boxes, _ := b.data[FieldBoxes].([]types.Box)
	return boxes
}

// Labels returns the labels field
func (b *BBoxList) Labels() []int32 {
	labels, _ := b.data[FieldLabels].([]int32)
	return labels
}

// Masks returns the masks field, which may be nil
func (b *BBoxList) Masks() []*image.Gray {
	masks, _ := b.data[FieldMasks].([]*image.Gray)
	return masks
}

// Keypoints returns the keypoints field, which may be nil
func (b *BBoxList) Keypoints() [][]types.Keypoint {
	kp, _ := b.data[FieldKeypoints].([][]types.Keypoint)
	return kp
}

// NumBoxes returns the number of boxes
func (b *BBoxList) NumBoxes() int {
	return len(b.Boxes())
}

// GetHeightWidth returns the height and width of every box
func (b *BBoxList) GetHeightWidth() (heights, widths []float32) {
	boxes := b.Boxes()
	heights = make([]float32, len(boxes))
	widths = make([]float32, len(boxes))
	for i, box := range boxes {
		heights[i] = box.Height()
		widths[i] = box.Width()
	}
	return heights, widths
}

// AspectRatios returns height/width for every box. A zero width gives +Inf,
// or NaN when the height is zero too.
func (b *BBoxList) AspectRatios() []float32 {
	heights, widths := b.GetHeightWidth()
	ratios := make([]float32, len(heights))
	for i := range heights {
		ratios[i] = heights[i] / widths[i]
	}
	return ratios
}

// GetCenterCoordinates returns the center of every box
func (b *BBoxList) GetCenterCoordinates() (ycenter, xcenter []float32) {
	boxes := b.Boxes()
	heights, widths := b.GetHeightWidth()
	ycenter = make([]float32, len(boxes))
	xcenter = make([]float32, len(boxes))
	for i, box := range boxes {
		ycenter[i] = box.YMin + heights[i]/2
		xcenter[i] = box.XMin + widths[i]/2
	}
	return ycenter, xcenter
}

// ToAbsoluteCoordinates scales the normalized boxes to pixel units.
// The stored boxes are left untouched.
func (b *BBoxList) ToAbsoluteCoordinates(imageHeight, imageWidth float32) (ymin, xmin, ymax, xmax []float32) {
	boxes := b.Boxes()
	ymin = make([]float32, len(boxes))
	xmin = make([]float32, len(boxes))
	ymax = make([]float32, len(boxes))
	xmax = make([]float32, len(boxes))
	for i, box := range boxes {
		ymin[i] = box.YMin * imageHeight
		xmin[i] = box.XMin * imageWidth
		ymax[i] = box.YMax * imageHeight
		xmax[i] = box.XMax * imageWidth
	}
	return ymin, xmin, ymax, xmax
}
