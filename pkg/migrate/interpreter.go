package migrate

import (
	"strconv"

	"github.com/wayneeseguin/migrate/log"
)

// Interpreter applies a sequence of Actions to a Value, left to right,
// resolving each Action's At() path down to the focused subtree,
// delegating the local rewrite to the Action, and reassembling the
// ancestors around the result. It carries no state between Apply calls:
// the same Interpreter value is safe to reuse or share.
type Interpreter struct{}

// NewInterpreter returns a ready-to-use Interpreter. It exists mainly so
// call sites read like other constructors in the package; Interpreter has
// no fields to configure.
func NewInterpreter() Interpreter { return Interpreter{} }

// Apply runs every action in order against value, short-circuiting on the
// first error.
func (in Interpreter) Apply(actions []Action, value Value) (Value, error) {
	return applyActions(actions, value)
}

func applyActions(actions []Action, value Value) (Value, error) {
	cur := value
	for _, a := range actions {
		next, err := applyOne(a, cur)
		if err != nil {
			return Value{}, err
		}
		cur = next
	}
	return cur, nil
}

// applyOne resolves a's path against root and rewrites the focused
// subtree, special-casing JoinPaths, whose sources are resolved against
// root rather than through a single focus-descent.
func applyOne(a Action, root Value) (Value, error) {
	at := a.At().String()
	log.DEBUG("applying (( %s )) at $.%s", a.describe(), at)

	var (
		out Value
		err error
	)
	if jp, ok := a.(JoinPaths); ok {
		out, err = applyJoin(jp, root)
	} else {
		out, err = descend(a.At().Nodes, root, a.applyLocal)
	}

	if err != nil {
		log.DEBUG("leaving (( %s )) at $.%s: %v", a.describe(), at, err)
		return Value{}, err
	}
	log.DEBUG("leaving (( %s )) at $.%s", a.describe(), at)
	return out, nil
}

// rewriteFn computes the new value for the focus found at the end of a
// path descent.
type rewriteFn func(focus Value) (Value, error)

// descend walks nodes against value, applying rewrite at the bottom and
// reassembling every ancestor around the (possibly broadcast) result.
func descend(nodes []Node, value Value, rewrite rewriteFn) (Value, error) {
	if len(nodes) == 0 {
		return rewrite(value)
	}
	node := nodes[0]
	rest := nodes[1:]

	switch node.Kind {
	case NodeField:
		if !value.IsRecord() {
			return Value{}, newTypeMismatch("", "record", value.Kind())
		}
		child, ok := value.GetField(node.Name)
		if !ok {
			return Value{}, newMissingPath(node.Name)
		}
		newChild, err := descend(rest, child, rewrite)
		if err != nil {
			return Value{}, wrapElement(err, node.Name)
		}
		out, _ := value.WithFieldValue(node.Name, newChild)
		return out, nil

	case NodeCase:
		// Reached only when a Case node is embedded *inside* a longer
		// path (e.g. Rename at status.?Active.count) rather than being
		// an action's own case-dispatch check (RenameCase/RemoveCase/
		// TransformCase match their case in applyLocal and never put
		// Case() in At()). A mismatch at this depth means the selected
		// path simply doesn't exist for this value, per spec.md §4.1's
		// root-no-op-vs-deeper-MissingPath split, so it surfaces as
		// MissingPath rather than NoMatch.
		if !value.IsVariant() {
			return Value{}, newTypeMismatch("", "variant", value.Kind())
		}
		if value.CaseName() != node.Name {
			return Value{}, newMissingPath(node.Name)
		}
		newPayload, err := descend(rest, value.Payload(), rewrite)
		if err != nil {
			return Value{}, err
		}
		return value.WithPayload(newPayload), nil

	case NodeOptional:
		if !value.IsVariant() {
			return Value{}, newTypeMismatch("", "option", value.Kind())
		}
		if value.IsNone() {
			return value, nil // silent skip per §3.2
		}
		inner, ok := value.IsSome()
		if !ok {
			return Value{}, newTypeMismatch("", "option", value.Kind())
		}
		newInner, err := descend(rest, inner, rewrite)
		if err != nil {
			return Value{}, err
		}
		return Some(newInner), nil

	case NodeElements:
		if !value.IsSequence() {
			return Value{}, newTypeMismatch("", "sequence", value.Kind())
		}
		elems := value.Elements()
		out := make([]Value, len(elems))
		for i, el := range elems {
			log.TRACE("broadcasting over element [%d]", i)
			nv, err := descend(rest, el, rewrite)
			if err != nil {
				return Value{}, wrapElement(err, indexToken(i))
			}
			out[i] = nv
		}
		return value.WithElements(out), nil

	case NodeMapKeys:
		if !value.IsMap() {
			return Value{}, newTypeMismatch("", "map", value.Kind())
		}
		entries := value.Entries()
		out := make([]MapEntry, len(entries))
		for i, e := range entries {
			log.TRACE("broadcasting over map key [%d]", i)
			nk, err := descend(rest, e.Key, rewrite)
			if err != nil {
				return Value{}, wrapElement(err, indexToken(i))
			}
			out[i] = MapEntry{Key: nk, Value: e.Value}
		}
		return value.WithEntries(out), nil

	case NodeMapValues:
		if !value.IsMap() {
			return Value{}, newTypeMismatch("", "map", value.Kind())
		}
		entries := value.Entries()
		out := make([]MapEntry, len(entries))
		for i, e := range entries {
			log.TRACE("broadcasting over map value [%d]", i)
			nv, err := descend(rest, e.Value, rewrite)
			if err != nil {
				return Value{}, wrapElement(err, indexToken(i))
			}
			out[i] = MapEntry{Key: e.Key, Value: nv}
		}
		return value.WithEntries(out), nil

	default:
		return Value{}, newImpureExpr("", "unknown path node kind")
	}
}

// resolve reads the value found at path against root, without rewriting
// it. Used by JoinPaths to gather its source values.
func resolve(path Path, root Value) (Value, error) {
	return descend(path.Nodes, root, func(focus Value) (Value, error) { return focus, nil })
}

// applyJoin resolves every source path against root, evaluates the body
// expression with those values bound positionally, and writes the result
// at the action's target path.
func applyJoin(jp JoinPaths, root Value) (Value, error) {
	bindings := make([]Value, len(jp.Sources))
	for i, src := range jp.Sources {
		v, err := resolve(src, root)
		if err != nil {
			return Value{}, err
		}
		bindings[i] = v
	}
	result, err := jp.Body.Eval(root, bindings)
	if err != nil {
		return Value{}, err
	}
	return writeAt(jp.AtPath, root, result)
}

// writeAt reassembles root with the value at path replaced by newVal,
// without requiring the old value to already exist at path's last Field
// node (so Join can introduce a brand new field).
func writeAt(path Path, root Value, newVal Value) (Value, error) {
	if path.IsRoot() {
		return newVal, nil
	}
	last := path.Nodes[len(path.Nodes)-1]
	parentPath := Path{Nodes: path.Nodes[:len(path.Nodes)-1]}

	if last.Kind != NodeField {
		return descend(path.Nodes, root, func(Value) (Value, error) { return newVal, nil })
	}

	return descend(parentPath.Nodes, root, func(parent Value) (Value, error) {
		if !parent.IsRecord() {
			return Value{}, newTypeMismatch("", "record", parent.Kind())
		}
		if _, ok := parent.GetField(last.Name); ok {
			out, _ := parent.WithFieldValue(last.Name, newVal)
			return out, nil
		}
		return parent.WithFieldAppended(last.Name, newVal), nil
	})
}

func indexToken(i int) string {
	return strconv.Itoa(i)
}
