package trainconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/menta2k/trainkit/pkg/errdefs"
)

// ResizeProtocol selects the interpolation used to resize images.
// The zero value is unset.
type ResizeProtocol int32

const (
	ResizeProtocolUnspecified ResizeProtocol = iota
	NearestNeighbor
	Bilinear
	Bicubic
	Gaussian
	Lanczos3
	Lanczos5
	MitchellCubic
	Area
)

var resizeProtocolNames = map[ResizeProtocol]string{
	ResizeProtocolUnspecified: "RESIZE_PROTOCOL_UNSPECIFIED",
	NearestNeighbor:           "NEAREST_NEIGHBOR",
	Bilinear:                  "BILINEAR",
	Bicubic:                   "BICUBIC",
	Gaussian:                  "GAUSSIAN",
	Lanczos3:                  "LANCZOS3",
	Lanczos5:                  "LANCZOS5",
	MitchellCubic:             "MITCHELLCUBIC",
	Area:                      "AREA",
}

func (p ResizeProtocol) String() string {
	if name, ok := resizeProtocolNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ResizeProtocol(%d)", int32(p))
}

func (p ResizeProtocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the protocol name, in any case, or its number
func (p *ResizeProtocol) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), "resize protocol", func(name string) (int32, bool) {
		for value, n := range resizeProtocolNames {
			if n == name {
				return int32(value), true
			}
		}
		return 0, false
	})
	if err != nil {
		return err
	}
	*p = ResizeProtocol(v)
	return nil
}

// LossReduction selects how per-example losses are combined.
// The zero value is unset and resolves to AUTO.
type LossReduction int32

const (
	ReductionUnspecified LossReduction = iota
	ReductionAuto
	ReductionNone
	ReductionSum
	ReductionSumOverBatchSize
)

var lossReductionNames = map[LossReduction]string{
	ReductionUnspecified:      "REDUCTION_UNSPECIFIED",
	ReductionAuto:             "AUTO",
	ReductionNone:             "NONE",
	ReductionSum:              "SUM",
	ReductionSumOverBatchSize: "SUM_OVER_BATCH_SIZE",
}

func (r LossReduction) String() string {
	if name, ok := lossReductionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("LossReduction(%d)", int32(r))
}

func (r LossReduction) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts the reduction name, in any case, or its number
func (r *LossReduction) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), "loss reduction", func(name string) (int32, bool) {
		for value, n := range lossReductionNames {
			if n == name {
				return int32(value), true
			}
		}
		return 0, false
	})
	if err != nil {
		return err
	}
	*r = LossReduction(v)
	return nil
}

func parseEnum(text, kind string, lookup func(string) (int32, bool)) (int32, error) {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseInt(text, 10, 32); err == nil {
		return int32(n), nil
	}
	if v, ok := lookup(strings.ToUpper(text)); ok {
		return v, nil
	}
	return 0, errors.Wrapf(errdefs.ErrInvalidConfig, "unknown %s %q", kind, text)
}
