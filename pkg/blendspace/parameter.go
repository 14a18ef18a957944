package blendspace

import (
	"errors"
	"fmt"
)

// MaxAxes is the number of coordinate slots carried by a blend sample.
const MaxAxes = 3

// ErrInvalidParameter is returned for a parameter with an empty range or no grid.
var ErrInvalidParameter = errors.New("invalid blend parameter")

// BlendParameter describes one axis of a blend space.
type BlendParameter struct {
	DisplayName string
	Min         float32
	Max         float32
	GridNum     int
}

// Range returns Max - Min.
func (p BlendParameter) Range() float32 {
	return p.Max - p.Min
}

// GridSize returns the width of one grid cell along this axis.
func (p BlendParameter) GridSize() float32 {
	return p.Range() / float32(p.GridNum)
}

// Validate checks Max > Min and GridNum >= 1.
func (p BlendParameter) Validate() error {
	if p.Max <= p.Min {
		return fmt.Errorf("%w: %q max %v must exceed min %v", ErrInvalidParameter, p.DisplayName, p.Max, p.Min)
	}
	if p.GridNum < 1 {
		return fmt.Errorf("%w: %q grid count %d must be at least 1", ErrInvalidParameter, p.DisplayName, p.GridNum)
	}
	return nil
}
