package migrate

// Migration[A, B] is the typed façade over a DynamicMigration (§6.3): it
// pairs the dynamic action vector with the encode/decode functions that
// bridge a concrete Go type to and from the generic Value tree, plus the
// source/target Shapes the migration was validated against.
type Migration[A any, B any] struct {
	Dynamic DynamicMigration
	Source  Shape
	Target  Shape

	encode func(A) Value
	decode func(Value) (B, error)
}

// NewTypedMigration builds a Migration[A, B] from a DynamicMigration plus
// the encode/decode functions and the source/target shapes it was checked
// against. It does not itself re-validate coverage; pass an already
// BuildStrict-checked DynamicMigration when that guarantee matters.
func NewTypedMigration[A any, B any](
	dynamic DynamicMigration,
	source, target Shape,
	encode func(A) Value,
	decode func(Value) (B, error),
) Migration[A, B] {
	return Migration[A, B]{
		Dynamic: dynamic,
		Source:  source,
		Target:  target,
		encode:  encode,
		decode:  decode,
	}
}

// Apply encodes a, runs the dynamic migration, and decodes the result
// into B.
func (m Migration[A, B]) Apply(a A) (B, error) {
	var zero B
	v, err := m.Dynamic.Apply(m.encode(a))
	if err != nil {
		return zero, err
	}
	return m.decode(v)
}

// Reverse returns the reversed typed façade, swapping the encode/decode
// functions and the source/target shapes along with the underlying
// migration. ok is false if the underlying migration has no reverse.
func (m Migration[A, B]) Reverse(encodeB func(B) Value, decodeA func(Value) (A, error)) (Migration[B, A], bool) {
	rev, ok := m.Dynamic.Reverse()
	if !ok {
		return Migration[B, A]{}, false
	}
	return Migration[B, A]{
		Dynamic: rev,
		Source:  m.Target,
		Target:  m.Source,
		encode:  encodeB,
		decode:  decodeA,
	}, true
}

// IsLossy reports whether the underlying migration can discard
// information.
func (m Migration[A, B]) IsLossy() bool {
	return m.Dynamic.IsLossy()
}
