package buffers

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LayoutConfig is a vertex layout as written in a yaml file:
//
//	stride: 32
//	elements:
//	  - {name: position, type: float32, count: 3}
//	  - {name: color, type: uint8norm, count: 4, offset: 12}
//
// When stride is zero the elements are packed in order and their offsets are ignored.
type LayoutConfig struct {
	Stride   int             `yaml:"stride"`
	Elements []ElementConfig `yaml:"elements"`
}

type ElementConfig struct {
	Name   string      `yaml:"name"`
	Type   ElementType `yaml:"type"`
	Count  int         `yaml:"count"`
	Offset int         `yaml:"offset"`
}

func (dt *ElementType) UnmarshalYAML(value *yaml.Node) error {

	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseElementType(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*dt = parsed
	return nil
}

func (dt ElementType) MarshalYAML() (any, error) {
	return dt.String(), nil
}

func (lc *LayoutConfig) Layout() []Element {

	layout := make([]Element, len(lc.Elements))
	for i, ec := range lc.Elements {
		layout[i] = Element{
			Name:        ec.Name,
			Offset:      ec.Offset,
			Count:       ec.Count,
			ElementType: ec.Type,
		}
	}

	return layout
}

// NewVertexBuffer returns an empty buffer with the configured layout
func (lc *LayoutConfig) NewVertexBuffer() (*VertexBuffer, error) {

	if len(lc.Elements) == 0 {
		return nil, fmt.Errorf("%w: layout config has no elements", ErrInvalidLayout)
	}

	if lc.Stride == 0 {

		for _, ec := range lc.Elements {
			if ec.Count <= 0 || ec.Type == DataTypeUnknown {
				return nil, fmt.Errorf("%w: element '%s' needs a type and a positive count", ErrInvalidLayout, ec.Name)
			}
		}

		// Packing fills in offsets and stride, the rest is checked the same as explicit layouts
		vb := NewVertexBuffer(lc.Layout()...)
		if err := vb.SetLayoutWithStride(vb.Stride(), vb.GetLayout()...); err != nil {
			return nil, err
		}

		return vb, nil
	}

	vb := &VertexBuffer{}
	if err := vb.SetLayoutWithStride(lc.Stride, lc.Layout()...); err != nil {
		return nil, err
	}

	return vb, nil
}

func ParseLayoutConfig(r io.Reader) (LayoutConfig, error) {

	lc := LayoutConfig{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lc); err != nil {
		return LayoutConfig{}, fmt.Errorf("failed to parse layout config. Err: %w", err)
	}

	return lc, nil
}

func LoadLayoutConfig(path string) (LayoutConfig, error) {

	f, err := os.Open(path)
	if err != nil {
		return LayoutConfig{}, err
	}
	defer f.Close()

	return ParseLayoutConfig(f)
}
