package migrate

import (
	"strings"

	"github.com/wayneeseguin/migrate/internal/utils/tree"
)

// NodeKind distinguishes the closed set of Path node kinds.
type NodeKind int

const (
	// NodeField descends into a record field.
	NodeField NodeKind = iota
	// NodeCase descends into a matching variant payload.
	NodeCase
	// NodeElements broadcasts focus over every element of a sequence.
	NodeElements
	// NodeMapKeys broadcasts focus over every key of a map.
	NodeMapKeys
	// NodeMapValues broadcasts focus over every value of a map.
	NodeMapValues
	// NodeOptional descends into the payload of a Some variant, skipping
	// silently on None.
	NodeOptional
)

// Node is one structural step of a Path.
type Node struct {
	Kind NodeKind
	Name string // populated for NodeField and NodeCase
}

// Field builds a Field(name) path node.
func Field(name string) Node { return Node{Kind: NodeField, Name: name} }

// Case builds a Case(name) path node.
func Case(name string) Node { return Node{Kind: NodeCase, Name: name} }

// Elements is the broadcasting Elements path node.
var Elements = Node{Kind: NodeElements}

// MapKeys is the broadcasting MapKeys path node.
var MapKeys = Node{Kind: NodeMapKeys}

// MapValues is the broadcasting MapValues path node.
var MapValues = Node{Kind: NodeMapValues}

// Optional is the Optional path node.
var Optional = Node{Kind: NodeOptional}

func (n Node) token() string {
	switch n.Kind {
	case NodeField:
		return n.Name
	case NodeCase:
		return "?" + n.Name
	case NodeElements:
		return "[]"
	case NodeMapKeys:
		return "{keys}"
	case NodeMapValues:
		return "{values}"
	case NodeOptional:
		return "?"
	default:
		return "?unknown"
	}
}

// Path is an ordered list of Nodes, pure data with no host-language
// behaviour attached. The empty Path is Root.
type Path struct {
	Nodes []Node
}

// Root is the empty path, selecting the value itself.
var Root = Path{}

// Append returns a new Path with node appended, leaving the receiver
// untouched.
func (p Path) Append(n Node) Path {
	nodes := make([]Node, len(p.Nodes)+1)
	copy(nodes, p.Nodes)
	nodes[len(p.Nodes)] = n
	return Path{Nodes: nodes}
}

// AndThen concatenates p and other, aliased as >>> in spec prose.
func (p Path) AndThen(other Path) Path {
	nodes := make([]Node, 0, len(p.Nodes)+len(other.Nodes))
	nodes = append(nodes, p.Nodes...)
	nodes = append(nodes, other.Nodes...)
	return Path{Nodes: nodes}
}

// IsRoot reports whether p selects the value itself.
func (p Path) IsRoot() bool {
	return len(p.Nodes) == 0
}

// Equal reports structural equality between two paths.
func (p Path) Equal(other Path) bool {
	if len(p.Nodes) != len(other.Nodes) {
		return false
	}
	for i := range p.Nodes {
		if p.Nodes[i] != other.Nodes[i] {
			return false
		}
	}
	return true
}

// String renders the path the way MigrationError/CLI diagnostics print it:
// a dot-joined cursor with case/broadcast markers, e.g. "status.?Active" or
// "items.[]".
func (p Path) String() string {
	c := &tree.Cursor{Nodes: []string{}}
	for _, n := range p.Nodes {
		c.Push(n.token())
	}
	return strings.TrimPrefix(c.String(), ".")
}

// FieldPath is a convenience constructor for the common single-field path.
func FieldPath(name string) Path {
	return Root.Append(Field(name))
}
