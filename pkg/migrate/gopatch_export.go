package migrate

import (
	"fmt"
	"strings"

	"github.com/cppforlife/go-patch/patch"
)

// ExportGoPatch renders the field-level actions of m as go-patch
// operations (github.com/cppforlife/go-patch), for interop with tooling
// that already speaks go-patch diffs rather than this package's own
// Action algebra. Only actions whose path is made entirely of Field
// nodes can be represented as a JSON-pointer-style path; anything else
// (Case, Elements, MapKeys, MapValues, Optional, Join) is reported back
// as a skipped path rather than silently dropped.
func ExportGoPatch(m DynamicMigration) (patch.Ops, []string, error) {
	var ops patch.Ops
	var skipped []string

	for _, a := range m.Actions {
		op, ok, err := actionToPatchOp(a)
		if err != nil {
			return nil, nil, fmt.Errorf("export %s at %s: %w", a.describe(), a.At().String(), err)
		}
		if !ok {
			skipped = append(skipped, fmt.Sprintf("%s at %s", a.describe(), a.At().String()))
			continue
		}
		ops = append(ops, op)
	}
	return ops, skipped, nil
}

func actionToPatchOp(a Action) (patch.Op, bool, error) {
	switch act := a.(type) {
	case AddField:
		ptr, ok := fieldPointer(act.AtPath.Append(Field(act.Name)))
		if !ok {
			return nil, false, nil
		}
		val, err := act.Default.Eval(NewRecord(), nil)
		if err != nil {
			return nil, false, nil
		}
		return patch.ReplaceOp{Path: ptr, Value: val.Raw()}, true, nil

	case DropField:
		ptr, ok := fieldPointer(act.AtPath.Append(Field(act.Name)))
		if !ok {
			return nil, false, nil
		}
		return patch.RemoveOp{Path: ptr}, true, nil

	case Rename:
		// go-patch has no rename primitive; callers wanting a faithful
		// round-trip should emit a remove+replace pair instead. Exported
		// as unsupported so callers see it as a skip, not a silent
		// approximation.
		return nil, false, nil

	case TransformValue:
		ptr, ok := fieldPointer(act.AtPath)
		if !ok {
			return nil, false, nil
		}
		v, err := act.Forward.Eval(Unit(), nil)
		if err != nil {
			return nil, false, nil
		}
		return patch.ReplaceOp{Path: ptr, Value: v.Raw()}, true, nil

	default:
		return nil, false, nil
	}
}

// fieldPointer converts a Path made entirely of Field nodes into a
// go-patch Pointer ("/a/b/c"); ok is false for any path containing a
// Case, Elements, MapKeys, MapValues or Optional node.
func fieldPointer(p Path) (patch.Pointer, bool) {
	tokens := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.Kind != NodeField {
			return patch.Pointer{}, false
		}
		tokens = append(tokens, n.Name)
	}
	return patch.MustNewPointerFromString("/" + strings.Join(tokens, "/")), true
}
