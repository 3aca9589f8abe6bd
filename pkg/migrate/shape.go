package migrate

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ShapeKind is the closed set of schema-descriptor node kinds (§3.6). A
// Shape describes a type, not a value: it has no data, only the structure
// a conforming Value must have.
type ShapeKind int

const (
	ShapePrimitive ShapeKind = iota
	ShapeRecord
	ShapeVariant
	ShapeSequence
	ShapeMap
	ShapeOptional
)

// ShapeField is one named field of a ShapeRecord.
type ShapeField struct {
	Name  string
	Shape Shape
}

// ShapeCase is one named case of a ShapeVariant, together with its payload
// shape (conventionally a ShapeRecord, possibly with no fields).
type ShapeCase struct {
	Name  string
	Shape Shape
}

// Shape is a schema descriptor: the type a Value is expected to conform
// to. Shapes are produced from an external descriptor (YAML, see
// ParseShapeYAML) and consumed by the Validator to compute coverage.
type Shape struct {
	Kind ShapeKind

	// ShapePrimitive
	Primitive Tag

	// ShapeRecord
	Fields []ShapeField

	// ShapeVariant
	Cases []ShapeCase

	// ShapeSequence, ShapeOptional
	Element *Shape

	// ShapeMap
	MapKey   *Shape
	MapValue *Shape
}

// HierarchicalPath pairs a reachable Path within a Shape with the
// primitive Tag found at its end, the unit the Validator checks coverage
// against.
type HierarchicalPath struct {
	Path Path
	Leaf Tag
}

// ReachablePaths walks s and returns every Path reaching a primitive leaf,
// broadcasting through Sequence/Map/Optional the same way the Path
// algebra's Elements/MapKeys/MapValues/Optional nodes do, so an action's
// HandledSource()/ProvidedTarget() paths can be compared against this set
// node-for-node.
func (s Shape) ReachablePaths() []HierarchicalPath {
	return reachableFrom(Root, s)
}

func reachableFrom(prefix Path, s Shape) []HierarchicalPath {
	switch s.Kind {
	case ShapePrimitive:
		return []HierarchicalPath{{Path: prefix, Leaf: s.Primitive}}

	case ShapeRecord:
		var out []HierarchicalPath
		for _, f := range s.Fields {
			out = append(out, reachableFrom(prefix.Append(Field(f.Name)), f.Shape)...)
		}
		return out

	case ShapeVariant:
		var out []HierarchicalPath
		for _, c := range s.Cases {
			out = append(out, reachableFrom(prefix.Append(Case(c.Name)), c.Shape)...)
		}
		return out

	case ShapeSequence:
		if s.Element == nil {
			return nil
		}
		return reachableFrom(prefix.Append(Elements), *s.Element)

	case ShapeOptional:
		if s.Element == nil {
			return nil
		}
		return reachableFrom(prefix.Append(Optional), *s.Element)

	case ShapeMap:
		var out []HierarchicalPath
		if s.MapKey != nil {
			out = append(out, reachableFrom(prefix.Append(MapKeys), *s.MapKey)...)
		}
		if s.MapValue != nil {
			out = append(out, reachableFrom(prefix.Append(MapValues), *s.MapValue)...)
		}
		return out

	default:
		return nil
	}
}

// rawShape is the YAML wire shape a descriptor file is parsed into before
// being converted to the closed Shape type.
type rawShape struct {
	Kind      string     `yaml:"kind"`
	Primitive string     `yaml:"primitive,omitempty"`
	Fields    []rawField `yaml:"fields,omitempty"`
	Cases     []rawCase  `yaml:"cases,omitempty"`
	Element   *rawShape  `yaml:"element,omitempty"`
	MapKey    *rawShape  `yaml:"map_key,omitempty"`
	MapValue  *rawShape  `yaml:"map_value,omitempty"`
}

type rawField struct {
	Name  string   `yaml:"name"`
	Shape rawShape `yaml:"shape"`
}

type rawCase struct {
	Name  string   `yaml:"name"`
	Shape rawShape `yaml:"shape"`
}

// ParseShapeYAML parses a schema descriptor in the YAML form that rawShape
// describes.
func ParseShapeYAML(data []byte) (Shape, error) {
	var raw rawShape
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Shape{}, fmt.Errorf("parse shape descriptor: %w", err)
	}
	return raw.toShape()
}

func (r rawShape) toShape() (Shape, error) {
	switch r.Kind {
	case "primitive":
		tag, err := tagFromName(r.Primitive)
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: ShapePrimitive, Primitive: tag}, nil

	case "record":
		fields := make([]ShapeField, len(r.Fields))
		for i, f := range r.Fields {
			sub, err := f.Shape.toShape()
			if err != nil {
				return Shape{}, fmt.Errorf("field %q: %w", f.Name, err)
			}
			fields[i] = ShapeField{Name: f.Name, Shape: sub}
		}
		return Shape{Kind: ShapeRecord, Fields: fields}, nil

	case "variant":
		cases := make([]ShapeCase, len(r.Cases))
		for i, c := range r.Cases {
			sub, err := c.Shape.toShape()
			if err != nil {
				return Shape{}, fmt.Errorf("case %q: %w", c.Name, err)
			}
			cases[i] = ShapeCase{Name: c.Name, Shape: sub}
		}
		return Shape{Kind: ShapeVariant, Cases: cases}, nil

	case "sequence":
		if r.Element == nil {
			return Shape{}, fmt.Errorf("sequence shape missing element")
		}
		el, err := r.Element.toShape()
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: ShapeSequence, Element: &el}, nil

	case "optional":
		if r.Element == nil {
			return Shape{}, fmt.Errorf("optional shape missing element")
		}
		el, err := r.Element.toShape()
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: ShapeOptional, Element: &el}, nil

	case "map":
		if r.MapKey == nil || r.MapValue == nil {
			return Shape{}, fmt.Errorf("map shape missing map_key or map_value")
		}
		k, err := r.MapKey.toShape()
		if err != nil {
			return Shape{}, err
		}
		v, err := r.MapValue.toShape()
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: ShapeMap, MapKey: &k, MapValue: &v}, nil

	default:
		return Shape{}, fmt.Errorf("unknown shape kind %q", r.Kind)
	}
}

func tagFromName(name string) (Tag, error) {
	switch name {
	case "unit":
		return TagUnit, nil
	case "bool":
		return TagBool, nil
	case "int":
		return TagInt, nil
	case "long":
		return TagLong, nil
	case "float":
		return TagFloat, nil
	case "double":
		return TagDouble, nil
	case "string":
		return TagString, nil
	case "bytes":
		return TagBytes, nil
	default:
		return TagUnit, fmt.Errorf("unknown primitive tag %q", name)
	}
}
