package valueobject

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Dimensions is a value object for physical product dimensions.
// All sides are expressed in the same unit; the unit itself is a
// catalog-level convention and not carried here.
type Dimensions struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// NewDimensions creates Dimensions, rejecting negative sides
func NewDimensions(length, width, height decimal.Decimal) (Dimensions, error) {
	d := Dimensions{Length: length, Width: width, Height: height}
	if d.HasNegativeSide() {
		return Dimensions{}, errors.New("dimensions cannot be negative")
	}
	return d, nil
}

// ZeroDimensions returns all-zero Dimensions
func ZeroDimensions() Dimensions {
	return Dimensions{Length: decimal.Zero, Width: decimal.Zero, Height: decimal.Zero}
}

// HasNegativeSide reports whether any side is negative
func (d Dimensions) HasNegativeSide() bool {
	return d.Length.IsNegative() || d.Width.IsNegative() || d.Height.IsNegative()
}

// IsZero reports whether all sides are zero
func (d Dimensions) IsZero() bool {
	return d.Length.IsZero() && d.Width.IsZero() && d.Height.IsZero()
}

// Equals returns true if both Dimensions are equal side by side
func (d Dimensions) Equals(other Dimensions) bool {
	return d.Length.Equal(other.Length) &&
		d.Width.Equal(other.Width) &&
		d.Height.Equal(other.Height)
}
