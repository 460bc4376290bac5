package accessors

import (
	"image/color"

	"github.com/bloeys/meshattr/buffers"
	"github.com/mandykoh/prism/srgb"
)

// Color4f is a color with float components, normally in [0,1]
type Color4f struct {
	R, G, B, A float32
}

// ColorAccessor reads and writes vertex colors as floats or bytes, converting from and to
// whatever encoding the colors are stored in. Byte colors are never premultiplied.
//
// Colors stored with 3 components read with an opaque alpha, and alpha writes are dropped.
type ColorAccessor interface {
	Attribute() buffers.Element
	CheckRange(index int) bool
	AssertRange(index int) error

	Color4f(index int) (Color4f, error)
	Color4ub(index int) (color.NRGBA, error)
	SetColor4f(index int, c Color4f) error
	SetColor4ub(index int, c color.NRGBA) error
}

var (
	_ ColorAccessor = &colorFloatAccessor{}
	_ ColorAccessor = &colorByteAccessor{}
)

// NewColorAccessor picks the implementation matching the encoding of the named element,
// which must have 3 or 4 components of type float32, uint8norm or uint8srgb.
//
// For uint8srgb, Color4ub is the stored (encoded) value while Color4f is linear.
//
// Anything else, or a missing element, fails with ErrInvalidArgument.
func NewColorAccessor(vd VertexData, name string) (ColorAccessor, error) {

	e, err := findElement(vd, name)
	if err != nil {
		return nil, err
	}

	if e.Count != 3 && e.Count != 4 {
		return nil, unsupportedElement("color", e)
	}

	switch e.ElementType {

	case buffers.DataTypeFloat32:
		return &colorFloatAccessor{Accessor: newAccessor(vd, e)}, nil

	case buffers.DataTypeUint8Norm:
		return &colorByteAccessor{
			Accessor: newAccessor(vd, e),
			toFloat:  unormToFloat,
			toByte:   floatToUnorm,
		}, nil

	case buffers.DataTypeUint8Srgb:
		return &colorByteAccessor{
			Accessor: newAccessor(vd, e),
			toFloat:  srgb.From8Bit,
			toByte:   func(f float32) uint8 { return srgb.To8Bit(clamp01(f)) },
		}, nil
	}

	return nil, unsupportedElement("color", e)
}

type colorFloatAccessor struct {
	Accessor
}

func (ca *colorFloatAccessor) hasAlpha() bool {
	return ca.attr.Count == 4
}

func (ca *colorFloatAccessor) Color4f(index int) (Color4f, error) {

	if err := ca.AssertRange(index); err != nil {
		return Color4f{}, err
	}

	b := ca.element(index)
	c := Color4f{R: readF32(b, 0), G: readF32(b, 1), B: readF32(b, 2), A: 1}
	if ca.hasAlpha() {
		c.A = readF32(b, 3)
	}

	return c, nil
}

func (ca *colorFloatAccessor) Color4ub(index int) (color.NRGBA, error) {

	c, err := ca.Color4f(index)
	if err != nil {
		return color.NRGBA{}, err
	}

	return color.NRGBA{R: floatToUnorm(c.R), G: floatToUnorm(c.G), B: floatToUnorm(c.B), A: floatToUnorm(c.A)}, nil
}

func (ca *colorFloatAccessor) SetColor4f(index int, c Color4f) error {

	if err := ca.AssertRange(index); err != nil {
		return err
	}

	b := ca.element(index)
	writeF32(b, 0, c.R)
	writeF32(b, 1, c.G)
	writeF32(b, 2, c.B)
	if ca.hasAlpha() {
		writeF32(b, 3, c.A)
	}

	return nil
}

func (ca *colorFloatAccessor) SetColor4ub(index int, c color.NRGBA) error {
	return ca.SetColor4f(index, Color4f{R: unormToFloat(c.R), G: unormToFloat(c.G), B: unormToFloat(c.B), A: unormToFloat(c.A)})
}

// colorByteAccessor stores one byte per component. toFloat and toByte convert the color
// channels; alpha is always a plain normalized byte.
type colorByteAccessor struct {
	Accessor
	toFloat func(uint8) float32
	toByte  func(float32) uint8
}

func (ca *colorByteAccessor) hasAlpha() bool {
	return ca.attr.Count == 4
}

func (ca *colorByteAccessor) Color4ub(index int) (color.NRGBA, error) {

	if err := ca.AssertRange(index); err != nil {
		return color.NRGBA{}, err
	}

	b := ca.element(index)
	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}
	if ca.hasAlpha() {
		c.A = b[3]
	}

	return c, nil
}

func (ca *colorByteAccessor) Color4f(index int) (Color4f, error) {

	c, err := ca.Color4ub(index)
	if err != nil {
		return Color4f{}, err
	}

	return Color4f{R: ca.toFloat(c.R), G: ca.toFloat(c.G), B: ca.toFloat(c.B), A: unormToFloat(c.A)}, nil
}

func (ca *colorByteAccessor) SetColor4ub(index int, c color.NRGBA) error {

	if err := ca.AssertRange(index); err != nil {
		return err
	}

	b := ca.element(index)
	b[0] = c.R
	b[1] = c.G
	b[2] = c.B
	if ca.hasAlpha() {
		b[3] = c.A
	}

	return nil
}

func (ca *colorByteAccessor) SetColor4f(index int, c Color4f) error {
	return ca.SetColor4ub(index, color.NRGBA{R: ca.toByte(c.R), G: ca.toByte(c.G), B: ca.toByte(c.B), A: floatToUnorm(c.A)})
}
