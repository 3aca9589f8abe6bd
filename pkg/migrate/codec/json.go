package codec

import (
	"encoding/json"
	"fmt"

	"github.com/wayneeseguin/migrate/pkg/migrate"
)

// EncodeJSON renders v as JSON bytes, following the same Variant/Map
// conventions as EncodeYAML (single-key object for Variant, array of
// {"key":...,"value":...} objects for Map) since JSON has no native
// concept of either. Grounded on the teacher's document.go
// convertToJSONCompatible pass that precedes json.Marshal.
func EncodeJSON(v migrate.Value) ([]byte, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

// DecodeJSON parses data against the convention EncodeJSON writes.
func DecodeJSON(data []byte) (migrate.Value, error) {
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return migrate.Value{}, fmt.Errorf("decode json: %w", err)
	}
	return genericToValue(generic)
}

func toGeneric(v migrate.Value) (interface{}, error) {
	switch v.Tag() {
	case migrate.TagUnit:
		return nil, nil

	case migrate.TagBool, migrate.TagInt, migrate.TagLong, migrate.TagFloat, migrate.TagDouble, migrate.TagString:
		return v.Raw(), nil

	case migrate.TagBytes:
		raw, _ := v.Raw().([]byte)
		return string(raw), nil

	case migrate.TagRecord:
		out := make(map[string]interface{}, len(v.Fields()))
		for _, f := range v.Fields() {
			g, err := toGeneric(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			out[f.Name] = g
		}
		return out, nil

	case migrate.TagVariant:
		payload, err := toGeneric(v.Payload())
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", v.CaseName(), err)
		}
		return map[string]interface{}{v.CaseName(): payload}, nil

	case migrate.TagSequence:
		elems := v.Elements()
		out := make([]interface{}, len(elems))
		for i, el := range elems {
			g, err := toGeneric(el)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = g
		}
		return out, nil

	case migrate.TagMap:
		entries := v.Entries()
		out := make([]interface{}, len(entries))
		for i, e := range entries {
			k, err := toGeneric(e.Key)
			if err != nil {
				return nil, fmt.Errorf("entry %d key: %w", i, err)
			}
			val, err := toGeneric(e.Value)
			if err != nil {
				return nil, fmt.Errorf("entry %d value: %w", i, err)
			}
			out[i] = map[string]interface{}{"key": k, "value": val}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown value tag %d", v.Tag())
	}
}

func genericToValue(g interface{}) (migrate.Value, error) {
	switch x := g.(type) {
	case nil:
		return migrate.Unit(), nil
	case bool:
		return migrate.Bool(x), nil
	case float64:
		return migrate.Double(x), nil
	case string:
		return migrate.String(x), nil
	case []interface{}:
		if isJSONMapEncoding(x) {
			entries := make([]migrate.MapEntry, len(x))
			for i, raw := range x {
				entry, _ := raw.(map[string]interface{})
				k, err := genericToValue(entry["key"])
				if err != nil {
					return migrate.Value{}, fmt.Errorf("entry %d key: %w", i, err)
				}
				v, err := genericToValue(entry["value"])
				if err != nil {
					return migrate.Value{}, fmt.Errorf("entry %d value: %w", i, err)
				}
				entries[i] = migrate.MapEntry{Key: k, Value: v}
			}
			return migrate.NewMap(entries...), nil
		}
		elements := make([]migrate.Value, len(x))
		for i, raw := range x {
			v, err := genericToValue(raw)
			if err != nil {
				return migrate.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			elements[i] = v
		}
		return migrate.NewSequence(elements...), nil
	case map[string]interface{}:
		if len(x) == 1 {
			for caseName, payload := range x {
				// A Variant's payload is always a Record, never itself
				// ambiguous with a Variant, so it decodes directly rather
				// than through the single-key-object heuristic this branch
				// applies to the outer object.
				p, err := decodeJSONRecord(payload)
				if err != nil {
					return migrate.Value{}, fmt.Errorf("case %q: %w", caseName, err)
				}
				return migrate.NewVariant(caseName, p), nil
			}
		}
		return migrate.Value{}, fmt.Errorf("ambiguous JSON object: use YAML for multi-field records and single-key objects for variants")
	default:
		return migrate.Value{}, fmt.Errorf("unsupported JSON value %T", g)
	}
}

func decodeJSONRecord(payload interface{}) (migrate.Value, error) {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return migrate.Value{}, fmt.Errorf("expected an object for a variant payload, got %T", payload)
	}
	fields := make([]migrate.Field, 0, len(obj))
	for name, raw := range obj {
		v, err := genericToValue(raw)
		if err != nil {
			return migrate.Value{}, fmt.Errorf("field %q: %w", name, err)
		}
		fields = append(fields, migrate.Field{Name: name, Value: v})
	}
	return migrate.NewRecord(fields...), nil
}

func isJSONMapEncoding(arr []interface{}) bool {
	if len(arr) == 0 {
		return false
	}
	for _, raw := range arr {
		m, ok := raw.(map[string]interface{})
		if !ok || len(m) != 2 {
			return false
		}
		if _, hasKey := m["key"]; !hasKey {
			return false
		}
		if _, hasValue := m["value"]; !hasValue {
			return false
		}
	}
	return true
}
