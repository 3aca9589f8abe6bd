package migrate

import "fmt"

// Tag identifies which of the closed Value variants a Value holds.
type Tag int

const (
	TagUnit Tag = iota
	TagBool
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagString
	TagBytes
	TagRecord
	TagVariant
	TagSequence
	TagMap
)

// String renders the tag the way error messages and the Convert table name
// primitive kinds.
func (t Tag) String() string {
	switch t {
	case TagUnit:
		return "unit"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagLong:
		return "long"
	case TagFloat:
		return "float"
	case TagDouble:
		return "double"
	case TagString:
		return "string"
	case TagBytes:
		return "bytes"
	case TagRecord:
		return "record"
	case TagVariant:
		return "variant"
	case TagSequence:
		return "sequence"
	case TagMap:
		return "map"
	default:
		return "unknown"
	}
}

// Field is one (name, Value) pair of a Record; field order is significant.
type Field struct {
	Name  string
	Value Value
}

// MapEntry is one (key, value) pair of a Map; entry order is preserved but
// not semantically significant beyond reproducibility.
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is the generic tagged tree every migration operates on. Values are
// immutable after construction: every With*/rewrite helper returns a new
// Value rather than mutating the receiver.
type Value struct {
	tag Tag

	boolVal   bool
	intVal    int32
	longVal   int64
	floatVal  float32
	doubleVal float64
	stringVal string
	bytesVal  []byte

	fields []Field // Record

	caseName string // Variant
	payload  *Value // Variant

	elements []Value // Sequence

	entries []MapEntry // Map
}

// Tag returns the variant tag of v.
func (v Value) Tag() Tag { return v.tag }

// Kind returns a human-readable description of v's shape, used in
// TypeMismatch diagnostics.
func (v Value) Kind() string {
	switch v.tag {
	case TagRecord, TagVariant, TagSequence, TagMap:
		return v.tag.String()
	default:
		return "primitive:" + v.tag.String()
	}
}

// Constructors for the primitive variants.

func Unit() Value                { return Value{tag: TagUnit} }
func Bool(b bool) Value          { return Value{tag: TagBool, boolVal: b} }
func Int(i int32) Value          { return Value{tag: TagInt, intVal: i} }
func Long(i int64) Value         { return Value{tag: TagLong, longVal: i} }
func Float(f float32) Value      { return Value{tag: TagFloat, floatVal: f} }
func Double(d float64) Value     { return Value{tag: TagDouble, doubleVal: d} }
func String(s string) Value      { return Value{tag: TagString, stringVal: s} }
func Bytes(bs []byte) Value      { return Value{tag: TagBytes, bytesVal: append([]byte(nil), bs...)} }

// NewRecord builds a Record value from an ordered slice of fields. The
// slice is copied so later mutation of the caller's slice is safe.
func NewRecord(fields ...Field) Value {
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return Value{tag: TagRecord, fields: cp}
}

// NewVariant builds a Variant value. payload is typically a Record,
// possibly empty (e.g. unit-like cases).
func NewVariant(caseName string, payload Value) Value {
	p := payload
	return Value{tag: TagVariant, caseName: caseName, payload: &p}
}

// NewSequence builds a Sequence value, copying the element slice.
func NewSequence(elements ...Value) Value {
	cp := make([]Value, len(elements))
	copy(cp, elements)
	return Value{tag: TagSequence, elements: cp}
}

// NewMap builds a Map value, copying the entry slice.
func NewMap(entries ...MapEntry) Value {
	cp := make([]MapEntry, len(entries))
	copy(cp, entries)
	return Value{tag: TagMap, entries: cp}
}

// None is the mandatory wire representation of an absent Option value:
// Variant("None", Record([])).
func None() Value {
	return NewVariant("None", NewRecord())
}

// Some is the mandatory wire representation of a present Option value:
// Variant("Some", Record([("value", inner)])).
func Some(inner Value) Value {
	return NewVariant("Some", NewRecord(Field{Name: "value", Value: inner}))
}

// IsRecord, IsVariant, IsSequence, IsMap report the Value's variant.
func (v Value) IsRecord() bool   { return v.tag == TagRecord }
func (v Value) IsVariant() bool  { return v.tag == TagVariant }
func (v Value) IsSequence() bool { return v.tag == TagSequence }
func (v Value) IsMap() bool      { return v.tag == TagMap }

// Fields returns the Record's ordered fields, or nil if v is not a Record.
func (v Value) Fields() []Field {
	if v.tag != TagRecord {
		return nil
	}
	return v.fields
}

// GetField looks up a field by name, honouring the rule that duplicate
// names (which producers must not create) resolve to the first occurrence.
func (v Value) GetField(name string) (Value, bool) {
	if v.tag != TagRecord {
		return Value{}, false
	}
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// CaseName returns the Variant's case tag.
func (v Value) CaseName() string { return v.caseName }

// Payload returns the Variant's payload value.
func (v Value) Payload() Value {
	if v.payload == nil {
		return Unit()
	}
	return *v.payload
}

// Elements returns the Sequence's ordered elements.
func (v Value) Elements() []Value {
	return v.elements
}

// Entries returns the Map's ordered entries.
func (v Value) Entries() []MapEntry {
	return v.entries
}

// IsNone reports whether v is the canonical None variant.
func (v Value) IsNone() bool {
	return v.tag == TagVariant && v.caseName == "None"
}

// IsSome reports whether v is the canonical Some variant, returning its
// unwrapped inner value.
func (v Value) IsSome() (Value, bool) {
	if v.tag == TagVariant && v.caseName == "Some" {
		if inner, ok := v.Payload().GetField("value"); ok {
			return inner, true
		}
		return Unit(), true
	}
	return Value{}, false
}

// Rewrite helpers. Every one returns a new Value; the receiver is never
// mutated, preserving the "immutable after construction" invariant.

// WithFieldAppended returns a copy of the Record with (name, val) inserted
// at the end, implementing AddField's local rewrite.
func (v Value) WithFieldAppended(name string, val Value) Value {
	fields := make([]Field, len(v.fields)+1)
	copy(fields, v.fields)
	fields[len(v.fields)] = Field{Name: name, Value: val}
	return Value{tag: TagRecord, fields: fields}
}

// WithFieldRemoved returns a copy of the Record with name removed, closing
// the gap (DropField's local rewrite). ok is false if name was absent.
func (v Value) WithFieldRemoved(name string) (Value, bool) {
	idx := -1
	for i, f := range v.fields {
		if f.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return v, false
	}
	fields := make([]Field, 0, len(v.fields)-1)
	fields = append(fields, v.fields[:idx]...)
	fields = append(fields, v.fields[idx+1:]...)
	return Value{tag: TagRecord, fields: fields}, true
}

// WithFieldRenamed returns a copy of the Record with the key `from` renamed
// to `to`, keeping its original index and value (Rename's local rewrite).
func (v Value) WithFieldRenamed(from, to string) (Value, bool) {
	idx := -1
	for i, f := range v.fields {
		if f.Name == from {
			idx = i
			break
		}
	}
	if idx < 0 {
		return v, false
	}
	fields := make([]Field, len(v.fields))
	copy(fields, v.fields)
	fields[idx] = Field{Name: to, Value: fields[idx].Value}
	return Value{tag: TagRecord, fields: fields}, true
}

// WithFieldValue returns a copy of the Record with name's value replaced in
// place (used by Mandate/Optionalize/TransformValue-on-a-field).
func (v Value) WithFieldValue(name string, val Value) (Value, bool) {
	idx := -1
	for i, f := range v.fields {
		if f.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return v, false
	}
	fields := make([]Field, len(v.fields))
	copy(fields, v.fields)
	fields[idx] = Field{Name: name, Value: val}
	return Value{tag: TagRecord, fields: fields}, true
}

// WithCaseName returns a copy of the Variant with its case renamed,
// preserving the payload (RenameCase's local rewrite).
func (v Value) WithCaseName(name string) Value {
	p := v.Payload()
	return Value{tag: TagVariant, caseName: name, payload: &p}
}

// WithPayload returns a copy of the Variant with a new payload, preserving
// the case name (TransformCase's local rewrite).
func (v Value) WithPayload(payload Value) Value {
	return Value{tag: TagVariant, caseName: v.caseName, payload: &payload}
}

// WithElements returns a copy of the Sequence with new elements.
func (v Value) WithElements(elements []Value) Value {
	return Value{tag: TagSequence, elements: elements}
}

// WithEntries returns a copy of the Map with new entries.
func (v Value) WithEntries(entries []MapEntry) Value {
	return Value{tag: TagMap, entries: entries}
}

// Equal reports deep structural equality, per spec.md's equality
// invariant.
func (v Value) Equal(other Value) bool {
	if v.tag != other.tag {
		return false
	}
	switch v.tag {
	case TagUnit:
		return true
	case TagBool:
		return v.boolVal == other.boolVal
	case TagInt:
		return v.intVal == other.intVal
	case TagLong:
		return v.longVal == other.longVal
	case TagFloat:
		return v.floatVal == other.floatVal
	case TagDouble:
		return v.doubleVal == other.doubleVal
	case TagString:
		return v.stringVal == other.stringVal
	case TagBytes:
		if len(v.bytesVal) != len(other.bytesVal) {
			return false
		}
		for i := range v.bytesVal {
			if v.bytesVal[i] != other.bytesVal[i] {
				return false
			}
		}
		return true
	case TagRecord:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Name != other.fields[i].Name {
				return false
			}
			if !v.fields[i].Value.Equal(other.fields[i].Value) {
				return false
			}
		}
		return true
	case TagVariant:
		if v.caseName != other.caseName {
			return false
		}
		return v.Payload().Equal(other.Payload())
	case TagSequence:
		if len(v.elements) != len(other.elements) {
			return false
		}
		for i := range v.elements {
			if !v.elements[i].Equal(other.elements[i]) {
				return false
			}
		}
		return true
	case TagMap:
		if len(v.entries) != len(other.entries) {
			return false
		}
		for i := range v.entries {
			if !v.entries[i].Key.Equal(other.entries[i].Key) {
				return false
			}
			if !v.entries[i].Value.Equal(other.entries[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Raw returns the primitive Go value underlying a primitive Value, for use
// by codec encoders and other exporters. Returns nil
// for non-primitive tags.
func (v Value) Raw() interface{} {
	switch v.tag {
	case TagUnit:
		return nil
	case TagBool:
		return v.boolVal
	case TagInt:
		return v.intVal
	case TagLong:
		return v.longVal
	case TagFloat:
		return v.floatVal
	case TagDouble:
		return v.doubleVal
	case TagString:
		return v.stringVal
	case TagBytes:
		return v.bytesVal
	default:
		return nil
	}
}

// String implements fmt.Stringer for debugging/diagnostics.
func (v Value) String() string {
	switch v.tag {
	case TagRecord:
		return fmt.Sprintf("Record%v", v.fields)
	case TagVariant:
		return fmt.Sprintf("Variant(%s, %s)", v.caseName, v.Payload())
	case TagSequence:
		return fmt.Sprintf("Sequence%v", v.elements)
	case TagMap:
		return fmt.Sprintf("Map%v", v.entries)
	default:
		return fmt.Sprintf("%v", v.Raw())
	}
}
