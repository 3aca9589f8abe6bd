package migrate

// Builder accumulates Actions in order and turns them into a
// DynamicMigration, the fluent sugar layer over the action constructors
// (§6.1). It carries no validation of its own beyond what each action
// constructor enforces; BuildStrict is what applies shape coverage.
type Builder struct {
	actions []Action
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddField appends an AddField action.
func (b *Builder) AddField(at Path, name string, def Expr) *Builder {
	b.actions = append(b.actions, AddField{AtPath: at, Name: name, Default: def})
	return b
}

// DropField appends a DropField action. reverseDefault is nil for a
// deliberately lossy drop, or a pointer to the Expr AddField's reverse
// should use to reintroduce the field.
func (b *Builder) DropField(at Path, name string, reverseDefault *Expr) *Builder {
	b.actions = append(b.actions, DropField{AtPath: at, Name: name, ReverseDefault: reverseDefault})
	return b
}

// RenameField appends a Rename action.
func (b *Builder) RenameField(at Path, from, to string) *Builder {
	b.actions = append(b.actions, Rename{AtPath: at, From: from, To: to})
	return b
}

// Mandate appends a Mandate action.
func (b *Builder) Mandate(at Path, name string, def Expr) *Builder {
	b.actions = append(b.actions, Mandate{AtPath: at, Name: name, Default: def})
	return b
}

// Optionalize appends an Optionalize action.
func (b *Builder) Optionalize(at Path, name string) *Builder {
	b.actions = append(b.actions, Optionalize{AtPath: at, Name: name})
	return b
}

// RenameCase appends a RenameCase action.
func (b *Builder) RenameCase(at Path, from, to string) *Builder {
	b.actions = append(b.actions, RenameCase{AtPath: at, From: from, To: to})
	return b
}

// RemoveCase appends a RemoveCase action.
func (b *Builder) RemoveCase(at Path, name string) *Builder {
	b.actions = append(b.actions, RemoveCase{AtPath: at, Name: name})
	return b
}

// TransformCase appends a TransformCase action wrapping inner actions
// applied to the matching case's payload.
func (b *Builder) TransformCase(at Path, name string, inner ...Action) *Builder {
	b.actions = append(b.actions, TransformCase{AtPath: at, Name: name, Inner: inner})
	return b
}

// TransformValue appends a TransformValue action. inverse is nil for a
// deliberately lossy transform.
func (b *Builder) TransformValue(at Path, forward Expr, inverse *Expr) *Builder {
	b.actions = append(b.actions, TransformValue{AtPath: at, Forward: forward, Inverse: inverse})
	return b
}

// TransformElements appends a TransformElements action.
func (b *Builder) TransformElements(at Path, forward, inverse Expr) *Builder {
	b.actions = append(b.actions, TransformElements{AtPath: at, Forward: forward, Inverse: inverse})
	return b
}

// TransformKeys appends a TransformKeys action.
func (b *Builder) TransformKeys(at Path, forward, inverse Expr) *Builder {
	b.actions = append(b.actions, TransformKeys{AtPath: at, Forward: forward, Inverse: inverse})
	return b
}

// TransformValues appends a TransformValues action.
func (b *Builder) TransformValues(at Path, forward, inverse Expr) *Builder {
	b.actions = append(b.actions, TransformValues{AtPath: at, Forward: forward, Inverse: inverse})
	return b
}

// Join appends a JoinPaths action combining several source paths into one
// target path.
func (b *Builder) Join(at Path, body Expr, sources ...Path) *Builder {
	b.actions = append(b.actions, JoinPaths{AtPath: at, Sources: sources, Body: body})
	return b
}

// Build returns the accumulated actions as a DynamicMigration with no
// coverage check, the "build_partial" form (§6.1).
func (b *Builder) Build() DynamicMigration {
	return NewMigration(b.actions...)
}

// BuildPartial is an alias for Build, naming the partial-coverage form
// explicitly at call sites that also use BuildStrict nearby.
func (b *Builder) BuildPartial() DynamicMigration {
	return b.Build()
}

// BuildStrict returns the accumulated migration only if it fully covers
// source and target, the "build_strict" form (§6.1). On incomplete
// coverage it returns the partial migration anyway alongside the
// Incomplete error, so callers can inspect what was built.
func (b *Builder) BuildStrict(source, target Shape) (DynamicMigration, error) {
	m := b.Build()
	_, err := ValidateShape(m, source, target)
	if err != nil {
		return m, err
	}
	return m, nil
}
