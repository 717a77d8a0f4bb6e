package types

// Box represents a bounding box with coordinates normalized to the [0,1]
// range relative to the image height (y) and width (x)
type Box struct {
	YMin float32 `json:"ymin" yaml:"ymin"`
	XMin float32 `json:"xmin" yaml:"xmin"`
	YMax float32 `json:"ymax" yaml:"ymax"`
	XMax float32 `json:"xmax" yaml:"xmax"`
}

// Height returns ymax - ymin
func (b Box) Height() float32 {
	return b.YMax - b.YMin
}

// Width returns xmax - xmin
func (b Box) Width() float32 {
	return b.XMax - b.XMin
}

// Keypoint is a normalized (y, x) location attached to a box
type Keypoint struct {
	Y float32 `json:"y" yaml:"y"`
	X float32 `json:"x" yaml:"x"`
}

// Annotation holds the labels of one image, as read from and written to
// annotation files by the CLI
type Annotation struct {
	Image  string  `json:"image"`
	Boxes  []Box   `json:"boxes"`
	Labels []int32 `json:"labels"`
}

// AnnotationFile is a set of annotations keyed by image file name
type AnnotationFile struct {
	Annotations []Annotation `json:"annotations"`
}

// Index returns the annotations keyed by image file name
func (f *AnnotationFile) Index() map[string]Annotation {
	ret := make(map[string]Annotation, len(f.Annotations))
	for _, a := range f.Annotations {
		ret[a.Image] = a
	}
	return ret
}
