// Package codec converts between the migration engine's Value tree and
// the wire formats migration files and CLI output use: YAML (the primary
// authoring format, grounded on the teacher's document.go ToYAML/ToJSON
// pair) and JSON.
package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/wayneeseguin/migrate/pkg/migrate"
)

// EncodeYAML renders v as YAML bytes.
//
// Records encode as mappings in field order (yaml.v3 preserves mapping
// node order on Marshal). Variants encode as a single-key mapping whose
// key is the case name and whose value is the payload, so the mandatory
// Option wire form migrate.Some(x) renders as "Some: {value: x}" and
// migrate.None() as "None: {}". A one-field Record that is not a Variant
// payload encodes as "__record__: {name: value}" so it does not read back
// as a Variant. Maps encode as a sequence of {key,
// value} mappings rather than a YAML mapping, since a migrate.Value map
// key is not restricted to scalars.
func EncodeYAML(v migrate.Value) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// DecodeYAML parses data against the convention EncodeYAML writes.
func DecodeYAML(data []byte) (migrate.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return migrate.Value{}, fmt.Errorf("decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return migrate.Value{}, fmt.Errorf("decode yaml: empty document")
	}
	return fromNode(node.Content[0])
}

func toNode(v migrate.Value) (*yaml.Node, error) {
	switch v.Tag() {
	case migrate.TagUnit:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	case migrate.TagBool, migrate.TagInt, migrate.TagLong, migrate.TagFloat, migrate.TagDouble, migrate.TagString:
		var node yaml.Node
		if err := node.Encode(v.Raw()); err != nil {
			return nil, err
		}
		return &node, nil

	case migrate.TagBytes:
		raw, _ := v.Raw().([]byte)
		var node yaml.Node
		if err := node.Encode(raw); err != nil {
			return nil, err
		}
		return &node, nil

	case migrate.TagRecord:
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Fields() {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
			valNode, err := toNode(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			mapping.Content = append(mapping.Content, keyNode, valNode)
		}
		if len(v.Fields()) == 1 {
			// A bare one-key mapping decodes as a Variant, so a one-field
			// Record is wrapped under the __record__ marker key.
			return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: recordMarkerKey}, mapping,
			}}, nil
		}
		return mapping, nil

	case migrate.TagVariant:
		payloadNode, err := toNode(v.Payload())
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", v.CaseName(), err)
		}
		if p := v.Payload(); p.IsRecord() && len(p.Fields()) == 1 {
			// A Variant payload is decoded straight as a Record body, so it
			// is written without the marker.
			payloadNode = payloadNode.Content[1]
		}
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.CaseName()},
			payloadNode,
		)
		return mapping, nil

	case migrate.TagSequence:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, el := range v.Elements() {
			elNode, err := toNode(el)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			seq.Content = append(seq.Content, elNode)
		}
		return seq, nil

	case migrate.TagMap:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, e := range v.Entries() {
			keyNode, err := toNode(e.Key)
			if err != nil {
				return nil, fmt.Errorf("entry %d key: %w", i, err)
			}
			valNode, err := toNode(e.Value)
			if err != nil {
				return nil, fmt.Errorf("entry %d value: %w", i, err)
			}
			entry := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			entry.Content = append(entry.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "key"}, keyNode,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "value"}, valNode,
			)
			seq.Content = append(seq.Content, entry)
		}
		return seq, nil

	default:
		return nil, fmt.Errorf("unknown value tag %d", v.Tag())
	}
}

func fromNode(node *yaml.Node) (migrate.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return scalarToValue(node)

	case yaml.MappingNode:
		if len(node.Content) == 2 {
			// Ambiguous between a one-field Record and a Variant; the
			// migration files this codec reads always carry an explicit
			// "fields:"-less record only at depth inside a known Record
			// shape, so the one-key-mapping form is reserved for
			// Variants. Single-field records must be written with the
			// "__record__" marker key to disambiguate, which EncodeYAML
			// does for every one-field Record outside a Variant payload.
			if node.Content[0].Value == recordMarkerKey {
				return decodeRecordBody(node.Content[1])
			}
			// A Variant's payload is always a Record, never itself
			// ambiguous with a Variant, so it decodes directly rather than
			// through the single-key-mapping heuristic below.
			payload, err := decodeRecordBody(node.Content[1])
			if err != nil {
				return migrate.Value{}, err
			}
			return migrate.NewVariant(node.Content[0].Value, payload), nil
		}
		return decodeRecordBody(node)

	case yaml.SequenceNode:
		// A sequence of {key, value} mappings decodes as a Map; anything
		// else decodes as a Sequence.
		if isMapEncoding(node) {
			entries := make([]migrate.MapEntry, len(node.Content))
			for i, entryNode := range node.Content {
				k, v, err := decodeMapEntry(entryNode)
				if err != nil {
					return migrate.Value{}, fmt.Errorf("entry %d: %w", i, err)
				}
				entries[i] = migrate.MapEntry{Key: k, Value: v}
			}
			return migrate.NewMap(entries...), nil
		}
		elements := make([]migrate.Value, len(node.Content))
		for i, elNode := range node.Content {
			v, err := fromNode(elNode)
			if err != nil {
				return migrate.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			elements[i] = v
		}
		return migrate.NewSequence(elements...), nil

	default:
		return migrate.Value{}, fmt.Errorf("unsupported yaml node kind %d", node.Kind)
	}
}

const recordMarkerKey = "__record__"

func decodeRecordBody(node *yaml.Node) (migrate.Value, error) {
	if node.Kind != yaml.MappingNode {
		return migrate.Value{}, fmt.Errorf("expected mapping for record, got node kind %d", node.Kind)
	}
	fields := make([]migrate.Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		v, err := fromNode(node.Content[i+1])
		if err != nil {
			return migrate.Value{}, fmt.Errorf("field %q: %w", node.Content[i].Value, err)
		}
		fields = append(fields, migrate.Field{Name: node.Content[i].Value, Value: v})
	}
	return migrate.NewRecord(fields...), nil
}

func isMapEncoding(seq *yaml.Node) bool {
	if len(seq.Content) == 0 {
		return false
	}
	for _, entry := range seq.Content {
		if entry.Kind != yaml.MappingNode || len(entry.Content) != 4 {
			return false
		}
		if entry.Content[0].Value != "key" || entry.Content[2].Value != "value" {
			return false
		}
	}
	return true
}

func decodeMapEntry(entry *yaml.Node) (migrate.Value, migrate.Value, error) {
	k, err := fromNode(entry.Content[1])
	if err != nil {
		return migrate.Value{}, migrate.Value{}, err
	}
	v, err := fromNode(entry.Content[3])
	if err != nil {
		return migrate.Value{}, migrate.Value{}, err
	}
	return k, v, nil
}

func scalarToValue(node *yaml.Node) (migrate.Value, error) {
	switch node.Tag {
	case "!!null":
		return migrate.Unit(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return migrate.Value{}, err
		}
		return migrate.Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return migrate.Value{}, err
		}
		return migrate.Long(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return migrate.Value{}, err
		}
		return migrate.Double(f), nil
	case "!!binary":
		var s string
		if err := node.Decode(&s); err != nil {
			return migrate.Value{}, err
		}
		return migrate.Bytes([]byte(s)), nil
	default:
		var s string
		if err := node.Decode(&s); err != nil {
			return migrate.Value{}, err
		}
		return migrate.String(s), nil
	}
}
