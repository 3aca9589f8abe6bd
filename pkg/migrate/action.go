package migrate

import "fmt"

// Action is the closed atomic migration algebra (§3.4). Every Action
// applies its local rewrite to the value focused by its At() path; the
// interpreter (C6) is responsible for resolving At() and reassembling
// ancestors around the rewritten focus.
type Action interface {
	// At returns the path the action focuses before rewriting.
	At() Path

	// applyLocal computes the new focused value from the old one. It
	// never itself walks At(); the interpreter does that.
	applyLocal(focus Value) (Value, error)

	// IsLossy reports whether this single action can lose information.
	IsLossy() bool

	// Reverse returns the action's structural inverse and true, or
	// (nil, false) if no reverse is defined (lossy actions).
	Reverse() (Action, bool)

	// HandledSource returns the source-side paths this action is
	// understood to fully account for (§4.4 coverage).
	HandledSource() []Path

	// ProvidedTarget returns the target-side paths this action produces
	// (§4.4 coverage).
	ProvidedTarget() []Path

	// describe names the action kind for diagnostics/encoding.
	describe() string
}

// ---- AddField ----

type AddField struct {
	AtPath  Path
	Name    string
	Default Expr
}

func (a AddField) At() Path       { return a.AtPath }
func (a AddField) describe() string { return "AddField" }
func (a AddField) IsLossy() bool  { return false }

func (a AddField) applyLocal(focus Value) (Value, error) {
	if !focus.IsRecord() {
		return Value{}, newTypeMismatch("", "record", focus.Kind())
	}
	if _, ok := focus.GetField(a.Name); ok {
		return Value{}, &MigrationError{Kind: TypeMismatch, ExpectedKind: "absent field", ActualKind: "present field: " + a.Name}
	}
	val, err := a.Default.Eval(focus, nil)
	if err != nil {
		return Value{}, err
	}
	return focus.WithFieldAppended(a.Name, val), nil
}

func (a AddField) Reverse() (Action, bool) {
	def := a.Default
	return DropField{AtPath: a.AtPath, Name: a.Name, ReverseDefault: &def}, true
}

func (a AddField) HandledSource() []Path { return nil }
func (a AddField) ProvidedTarget() []Path {
	return []Path{a.AtPath.Append(Field(a.Name))}
}

// ---- DropField ----

type DropField struct {
	AtPath         Path
	Name           string
	ReverseDefault *Expr
}

func (a DropField) At() Path        { return a.AtPath }
func (a DropField) describe() string { return "DropField" }
func (a DropField) IsLossy() bool   { return a.ReverseDefault == nil }

func (a DropField) applyLocal(focus Value) (Value, error) {
	if !focus.IsRecord() {
		return Value{}, newTypeMismatch("", "record", focus.Kind())
	}
	out, ok := focus.WithFieldRemoved(a.Name)
	if !ok {
		return Value{}, newMissingPath(a.Name)
	}
	return out, nil
}

func (a DropField) Reverse() (Action, bool) {
	if a.ReverseDefault == nil {
		return nil, false
	}
	return AddField{AtPath: a.AtPath, Name: a.Name, Default: *a.ReverseDefault}, true
}

func (a DropField) HandledSource() []Path {
	return []Path{a.AtPath.Append(Field(a.Name))}
}
func (a DropField) ProvidedTarget() []Path { return nil }

// ---- Rename ----

type Rename struct {
	AtPath   Path
	From, To string
}

func (a Rename) At() Path        { return a.AtPath }
func (a Rename) describe() string { return "Rename" }
func (a Rename) IsLossy() bool   { return false }

func (a Rename) applyLocal(focus Value) (Value, error) {
	if !focus.IsRecord() {
		return Value{}, newTypeMismatch("", "record", focus.Kind())
	}
	out, ok := focus.WithFieldRenamed(a.From, a.To)
	if !ok {
		return Value{}, newMissingPath(a.From)
	}
	return out, nil
}

func (a Rename) Reverse() (Action, bool) {
	return Rename{AtPath: a.AtPath, From: a.To, To: a.From}, true
}

func (a Rename) HandledSource() []Path {
	return []Path{a.AtPath.Append(Field(a.From))}
}
func (a Rename) ProvidedTarget() []Path {
	return []Path{a.AtPath.Append(Field(a.To))}
}

// ---- Mandate ----

type Mandate struct {
	AtPath  Path
	Name    string
	Default Expr
}

func (a Mandate) At() Path        { return a.AtPath }
func (a Mandate) describe() string { return "Mandate" }
func (a Mandate) IsLossy() bool   { return false }

func (a Mandate) applyLocal(focus Value) (Value, error) {
	if !focus.IsRecord() {
		return Value{}, newTypeMismatch("", "record", focus.Kind())
	}
	cur, ok := focus.GetField(a.Name)
	if !ok {
		return Value{}, newMissingPath(a.Name)
	}
	var newVal Value
	if cur.IsNone() {
		v, err := a.Default.Eval(focus, nil)
		if err != nil {
			return Value{}, err
		}
		newVal = v
	} else if inner, ok := cur.IsSome(); ok {
		newVal = inner
	} else {
		return Value{}, newTypeMismatch(a.Name, "Option", cur.Kind())
	}
	out, _ := focus.WithFieldValue(a.Name, newVal)
	return out, nil
}

func (a Mandate) Reverse() (Action, bool) {
	return Optionalize{AtPath: a.AtPath, Name: a.Name}, true
}

func (a Mandate) HandledSource() []Path {
	return []Path{a.AtPath.Append(Field(a.Name))}
}
func (a Mandate) ProvidedTarget() []Path {
	return []Path{a.AtPath.Append(Field(a.Name))}
}

// ---- Optionalize ----

type Optionalize struct {
	AtPath Path
	Name   string
}

func (a Optionalize) At() Path        { return a.AtPath }
func (a Optionalize) describe() string { return "Optionalize" }
func (a Optionalize) IsLossy() bool   { return false }

func (a Optionalize) applyLocal(focus Value) (Value, error) {
	if !focus.IsRecord() {
		return Value{}, newTypeMismatch("", "record", focus.Kind())
	}
	cur, ok := focus.GetField(a.Name)
	if !ok {
		return Value{}, newMissingPath(a.Name)
	}
	out, _ := focus.WithFieldValue(a.Name, Some(cur))
	return out, nil
}

func (a Optionalize) Reverse() (Action, bool) {
	return Mandate{AtPath: a.AtPath, Name: a.Name, Default: Identity()}, true
}

func (a Optionalize) HandledSource() []Path {
	return []Path{a.AtPath.Append(Field(a.Name))}
}
func (a Optionalize) ProvidedTarget() []Path {
	return []Path{a.AtPath.Append(Field(a.Name))}
}

// ---- RenameCase ----

type RenameCase struct {
	AtPath   Path
	From, To string
}

func (a RenameCase) At() Path        { return a.AtPath }
func (a RenameCase) describe() string { return "RenameCase" }
func (a RenameCase) IsLossy() bool   { return false }

func (a RenameCase) applyLocal(focus Value) (Value, error) {
	if !focus.IsVariant() {
		return Value{}, newTypeMismatch("", "variant", focus.Kind())
	}
	if focus.CaseName() != a.From {
		return focus, nil // no-op per §4.1 policy
	}
	return focus.WithCaseName(a.To), nil
}

func (a RenameCase) Reverse() (Action, bool) {
	return RenameCase{AtPath: a.AtPath, From: a.To, To: a.From}, true
}

func (a RenameCase) HandledSource() []Path { return []Path{a.AtPath} }
func (a RenameCase) ProvidedTarget() []Path { return []Path{a.AtPath} }

// ---- RemoveCase ----

type RemoveCase struct {
	AtPath Path
	Name   string
}

func (a RemoveCase) At() Path        { return a.AtPath }
func (a RemoveCase) describe() string { return "RemoveCase" }
func (a RemoveCase) IsLossy() bool   { return true }

func (a RemoveCase) applyLocal(focus Value) (Value, error) {
	if !focus.IsVariant() {
		return Value{}, newTypeMismatch("", "variant", focus.Kind())
	}
	if focus.CaseName() == a.Name {
		return Value{}, newCaseRemoved("", a.Name)
	}
	return focus, nil
}

func (a RemoveCase) Reverse() (Action, bool) { return nil, false }

func (a RemoveCase) HandledSource() []Path  { return []Path{a.AtPath} }
func (a RemoveCase) ProvidedTarget() []Path { return nil }

// ---- TransformCase ----

type TransformCase struct {
	AtPath Path
	Name   string
	Inner  []Action
}

func (a TransformCase) At() Path        { return a.AtPath }
func (a TransformCase) describe() string { return "TransformCase" }

func (a TransformCase) IsLossy() bool {
	for _, inner := range a.Inner {
		if inner.IsLossy() {
			return true
		}
	}
	return false
}

func (a TransformCase) applyLocal(focus Value) (Value, error) {
	if !focus.IsVariant() {
		return Value{}, newTypeMismatch("", "variant", focus.Kind())
	}
	if focus.CaseName() != a.Name {
		return focus, nil // no-op per §4.1 policy
	}
	newPayload, err := applyActions(a.Inner, focus.Payload())
	if err != nil {
		return Value{}, err
	}
	return focus.WithPayload(newPayload), nil
}

func (a TransformCase) Reverse() (Action, bool) {
	reversed := make([]Action, len(a.Inner))
	for i, inner := range a.Inner {
		r, ok := inner.Reverse()
		if !ok {
			return nil, false
		}
		reversed[len(a.Inner)-1-i] = r
	}
	return TransformCase{AtPath: a.AtPath, Name: a.Name, Inner: reversed}, true
}

func (a TransformCase) HandledSource() []Path {
	paths := []Path{a.AtPath}
	for _, inner := range a.Inner {
		paths = append(paths, inner.HandledSource()...)
	}
	return paths
}

func (a TransformCase) ProvidedTarget() []Path {
	paths := []Path{a.AtPath}
	for _, inner := range a.Inner {
		paths = append(paths, inner.ProvidedTarget()...)
	}
	return paths
}

// ---- TransformValue ----

type TransformValue struct {
	AtPath  Path
	Forward Expr
	Inverse *Expr
}

func (a TransformValue) At() Path        { return a.AtPath }
func (a TransformValue) describe() string { return "TransformValue" }
func (a TransformValue) IsLossy() bool   { return a.Inverse == nil }

func (a TransformValue) applyLocal(focus Value) (Value, error) {
	return a.Forward.Eval(focus, nil)
}

func (a TransformValue) Reverse() (Action, bool) {
	if a.Inverse == nil {
		return nil, false
	}
	return TransformValue{AtPath: a.AtPath, Forward: *a.Inverse, Inverse: &a.Forward}, true
}

func (a TransformValue) HandledSource() []Path  { return []Path{a.AtPath} }
func (a TransformValue) ProvidedTarget() []Path { return []Path{a.AtPath} }

// ---- TransformElements / TransformKeys / TransformValues ----
//
// §9 open question resolved: a Transform{Elements,Keys,Values} is treated
// as lossless when a genuine Inverse Expr is supplied (anything other than
// Identity), and lossy when Inverse is exactly Identity while Forward is
// not — in that case Identity is read as "no real inverse was given",
// the placeholder the table describes, rather than a claim that forward
// is its own inverse.

type TransformElements struct {
	AtPath  Path
	Forward Expr
	Inverse Expr
}

func (a TransformElements) At() Path        { return a.AtPath }
func (a TransformElements) describe() string { return "TransformElements" }

func (a TransformElements) IsLossy() bool {
	return a.Inverse.IsIdentity() && !a.Forward.IsIdentity()
}

func (a TransformElements) applyLocal(focus Value) (Value, error) {
	if !focus.IsSequence() {
		return Value{}, newTypeMismatch("", "sequence", focus.Kind())
	}
	elems := focus.Elements()
	out := make([]Value, len(elems))
	for i, el := range elems {
		v, err := a.Forward.Eval(el, nil)
		if err != nil {
			return Value{}, wrapElement(err, fmt.Sprintf("%d", i))
		}
		out[i] = v
	}
	return focus.WithElements(out), nil
}

func (a TransformElements) Reverse() (Action, bool) {
	if a.IsLossy() {
		return nil, false
	}
	return TransformElements{AtPath: a.AtPath, Forward: a.Inverse, Inverse: a.Forward}, true
}

func (a TransformElements) HandledSource() []Path  { return []Path{a.AtPath} }
func (a TransformElements) ProvidedTarget() []Path { return []Path{a.AtPath} }

type TransformKeys struct {
	AtPath  Path
	Forward Expr
	Inverse Expr
}

func (a TransformKeys) At() Path        { return a.AtPath }
func (a TransformKeys) describe() string { return "TransformKeys" }

func (a TransformKeys) IsLossy() bool {
	return a.Inverse.IsIdentity() && !a.Forward.IsIdentity()
}

func (a TransformKeys) applyLocal(focus Value) (Value, error) {
	if !focus.IsMap() {
		return Value{}, newTypeMismatch("", "map", focus.Kind())
	}
	entries := focus.Entries()
	out := make([]MapEntry, len(entries))
	for i, e := range entries {
		k, err := a.Forward.Eval(e.Key, nil)
		if err != nil {
			return Value{}, wrapElement(err, fmt.Sprintf("%d", i))
		}
		out[i] = MapEntry{Key: k, Value: e.Value}
	}
	return focus.WithEntries(out), nil
}

func (a TransformKeys) Reverse() (Action, bool) {
	if a.IsLossy() {
		return nil, false
	}
	return TransformKeys{AtPath: a.AtPath, Forward: a.Inverse, Inverse: a.Forward}, true
}

func (a TransformKeys) HandledSource() []Path  { return []Path{a.AtPath} }
func (a TransformKeys) ProvidedTarget() []Path { return []Path{a.AtPath} }

type TransformValues struct {
	AtPath  Path
	Forward Expr
	Inverse Expr
}

func (a TransformValues) At() Path        { return a.AtPath }
func (a TransformValues) describe() string { return "TransformValues" }

func (a TransformValues) IsLossy() bool {
	return a.Inverse.IsIdentity() && !a.Forward.IsIdentity()
}

func (a TransformValues) applyLocal(focus Value) (Value, error) {
	if !focus.IsMap() {
		return Value{}, newTypeMismatch("", "map", focus.Kind())
	}
	entries := focus.Entries()
	out := make([]MapEntry, len(entries))
	for i, e := range entries {
		v, err := a.Forward.Eval(e.Value, nil)
		if err != nil {
			return Value{}, wrapElement(err, fmt.Sprintf("%d", i))
		}
		out[i] = MapEntry{Key: e.Key, Value: v}
	}
	return focus.WithEntries(out), nil
}

func (a TransformValues) Reverse() (Action, bool) {
	if a.IsLossy() {
		return nil, false
	}
	return TransformValues{AtPath: a.AtPath, Forward: a.Inverse, Inverse: a.Forward}, true
}

func (a TransformValues) HandledSource() []Path  { return []Path{a.AtPath} }
func (a TransformValues) ProvidedTarget() []Path { return []Path{a.AtPath} }

// ---- JoinPaths ----
//
// Named JoinPaths (rather than Join) to avoid colliding with Expr's
// Join(args, body) expression form, which this action also uses for its
// body.

type JoinPaths struct {
	AtPath  Path
	Sources []Path
	Body    Expr
}

func (a JoinPaths) At() Path        { return a.AtPath }
func (a JoinPaths) describe() string { return "Join" }
func (a JoinPaths) IsLossy() bool   { return true }

// applyLocal is never reached for JoinPaths through the normal single-focus
// descent, since its sources are read relative to the whole value rather
// than the focus at AtPath; the interpreter special-cases it (see
// interpreter.go).
func (a JoinPaths) applyLocal(focus Value) (Value, error) {
	return Value{}, newImpureExpr("", "Join must be applied by the interpreter's root-relative path, not as a local rewrite")
}

func (a JoinPaths) Reverse() (Action, bool) { return nil, false }

func (a JoinPaths) HandledSource() []Path { return a.Sources }
func (a JoinPaths) ProvidedTarget() []Path { return []Path{a.AtPath} }

// wrapElement prefixes a MigrationError's path with the enclosing segment
// (a field name or a broadcast index) as the error leaves a descent, so
// the path reads from the root down.
func wrapElement(err error, index string) error {
	if me, ok := err.(*MigrationError); ok {
		cp := *me
		if cp.Path == "" {
			cp.Path = index
		} else {
			cp.Path = index + "." + cp.Path
		}
		return &cp
	}
	return err
}
