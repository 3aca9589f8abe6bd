package migrate

// DynamicMigration is an ordered vector of Actions together with the
// algebra spec.md §5 requires of it: composition, reverse, lossiness and
// application. "Dynamic" distinguishes it from the generic typed façade
// Migration[A, B] in typed.go, which wraps one of these plus the two
// schema descriptors it was validated against.
type DynamicMigration struct {
	Actions []Action
}

// NewMigration builds a DynamicMigration from an ordered action list. The
// slice is copied so later mutation of the caller's slice is safe.
func NewMigration(actions ...Action) DynamicMigration {
	cp := make([]Action, len(actions))
	copy(cp, actions)
	return DynamicMigration{Actions: cp}
}

// IdentityMigration is the empty migration: applying it returns its input
// unchanged, and it is its own reverse.
func IdentityMigration() DynamicMigration {
	return DynamicMigration{}
}

// IsIdentity reports whether m carries no actions.
func (m DynamicMigration) IsIdentity() bool {
	return len(m.Actions) == 0
}

// Compose returns m followed by other, aliased as ++ in spec prose.
// Identity is the two-sided unit and Compose is associative because it is
// plain slice concatenation.
func (m DynamicMigration) Compose(other DynamicMigration) DynamicMigration {
	out := make([]Action, 0, len(m.Actions)+len(other.Actions))
	out = append(out, m.Actions...)
	out = append(out, other.Actions...)
	return DynamicMigration{Actions: out}
}

// IsLossy reports whether applying m can discard information: true iff any
// single action is lossy.
func (m DynamicMigration) IsLossy() bool {
	for _, a := range m.Actions {
		if a.IsLossy() {
			return true
		}
	}
	return false
}

// Reverse returns m's structural inverse and true, or (DynamicMigration{},
// false) if any action lacks a reverse. The reverse of a composition
// reverses each action and reverses their order, so
// m.Compose(n).Reverse() == n.Reverse().Compose(m.Reverse()).
func (m DynamicMigration) Reverse() (DynamicMigration, bool) {
	out := make([]Action, len(m.Actions))
	for i, a := range m.Actions {
		r, ok := a.Reverse()
		if !ok {
			return DynamicMigration{}, false
		}
		out[len(m.Actions)-1-i] = r
	}
	return DynamicMigration{Actions: out}, true
}

// Apply runs m's actions left to right against value using a fresh
// Interpreter.
func (m DynamicMigration) Apply(value Value) (Value, error) {
	return NewInterpreter().Apply(m.Actions, value)
}

// HandledSourcePaths returns every source-side path m's actions claim to
// account for, in action order, duplicates included; the Validator
// dedupes against a Shape.
func (m DynamicMigration) HandledSourcePaths() []Path {
	var out []Path
	for _, a := range m.Actions {
		out = append(out, a.HandledSource()...)
	}
	return out
}

// ProvidedTargetPaths returns every target-side path m's actions produce,
// in action order, duplicates included.
func (m DynamicMigration) ProvidedTargetPaths() []Path {
	var out []Path
	for _, a := range m.Actions {
		out = append(out, a.ProvidedTarget()...)
	}
	return out
}
