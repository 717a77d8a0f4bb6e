// Package errdefs holds the error sentinels shared by the builders and the
// numerical packages. Callers test for them with errors.Is.
package errdefs

import "errors"

// ErrInvalidConfig is returned when a configuration message selects an
// unknown variant or carries a malformed value.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrNotImplemented is returned when a caller requests a feature that is
// declared but not supported, such as keypoints in augmentation.
var ErrNotImplemented = errors.New("not implemented")
