package migrate

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseMigrationYAML parses an authored migration file: a top-level YAML
// sequence of action documents, each a single-key mapping whose key names
// the action kind (see the rawAction fields below for the accepted
// per-kind arguments). This is the format the cmd/migrate CLI reads and
// writes.
func ParseMigrationYAML(data []byte) (DynamicMigration, error) {
	var raws []rawAction
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return DynamicMigration{}, fmt.Errorf("parse migration file: %w", err)
	}
	actions := make([]Action, len(raws))
	for i, r := range raws {
		a, err := r.toAction()
		if err != nil {
			return DynamicMigration{}, fmt.Errorf("action %d: %w", i, err)
		}
		actions[i] = a
	}
	return NewMigration(actions...), nil
}

// EncodeMigrationYAML renders m back into the ParseMigrationYAML format.
// AddField, DropField, Rename, Mandate, Optionalize, RenameCase,
// RemoveCase and TransformValue round-trip; TransformCase,
// TransformElements/Keys/Values and Join are not yet representable in the
// authored file format and cause an error naming the offending action, so
// a caller sees a clear reason rather than a silently truncated file.
func EncodeMigrationYAML(m DynamicMigration) ([]byte, error) {
	raws := make([]rawAction, len(m.Actions))
	for i, a := range m.Actions {
		r, err := actionToRaw(a)
		if err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, a.describe(), err)
		}
		raws[i] = r
	}
	return yaml.Marshal(raws)
}

func actionToRaw(a Action) (rawAction, error) {
	switch act := a.(type) {
	case AddField:
		return rawAction{AddField: &struct {
			At      string  `yaml:"at"`
			Name    string  `yaml:"name"`
			Default rawExpr `yaml:"default"`
		}{At: act.AtPath.String(), Name: act.Name, Default: exprToRaw(act.Default)}}, nil

	case DropField:
		var rev *rawExpr
		if act.ReverseDefault != nil {
			r := exprToRaw(*act.ReverseDefault)
			rev = &r
		}
		return rawAction{DropField: &struct {
			At             string   `yaml:"at"`
			Name           string   `yaml:"name"`
			ReverseDefault *rawExpr `yaml:"reverse_default,omitempty"`
		}{At: act.AtPath.String(), Name: act.Name, ReverseDefault: rev}}, nil

	case Rename:
		return rawAction{Rename: &struct {
			At   string `yaml:"at"`
			From string `yaml:"from"`
			To   string `yaml:"to"`
		}{At: act.AtPath.String(), From: act.From, To: act.To}}, nil

	case Mandate:
		return rawAction{Mandate: &struct {
			At      string  `yaml:"at"`
			Name    string  `yaml:"name"`
			Default rawExpr `yaml:"default"`
		}{At: act.AtPath.String(), Name: act.Name, Default: exprToRaw(act.Default)}}, nil

	case Optionalize:
		return rawAction{Optionalize: &struct {
			At   string `yaml:"at"`
			Name string `yaml:"name"`
		}{At: act.AtPath.String(), Name: act.Name}}, nil

	case RenameCase:
		return rawAction{RenameCase: &struct {
			At   string `yaml:"at"`
			From string `yaml:"from"`
			To   string `yaml:"to"`
		}{At: act.AtPath.String(), From: act.From, To: act.To}}, nil

	case RemoveCase:
		return rawAction{RemoveCase: &struct {
			At   string `yaml:"at"`
			Name string `yaml:"name"`
		}{At: act.AtPath.String(), Name: act.Name}}, nil

	case TransformValue:
		var inv *rawExpr
		if act.Inverse != nil {
			r := exprToRaw(*act.Inverse)
			inv = &r
		}
		return rawAction{TransformValue: &struct {
			At      string   `yaml:"at"`
			Forward rawExpr  `yaml:"forward"`
			Inverse *rawExpr `yaml:"inverse,omitempty"`
		}{At: act.AtPath.String(), Forward: exprToRaw(act.Forward), Inverse: inv}}, nil

	default:
		return rawAction{}, fmt.Errorf("action kind %s has no authored-file encoding", a.describe())
	}
}

func exprToRaw(e Expr) rawExpr {
	switch e.Kind {
	case ExprLiteral:
		return rawExpr{Literal: &rawLiteral{Tag: e.Literal.Tag().String(), Value: literalString(e.Literal)}}
	case ExprIdentity:
		return rawExpr{Identity: &struct{}{}}
	case ExprField:
		name := e.FieldName
		return rawExpr{Field: &name}
	case ExprConvert:
		inner := exprToRaw(*e.Inner)
		return rawExpr{Convert: &struct {
			From    string  `yaml:"from"`
			To      string  `yaml:"to"`
			Inner   rawExpr `yaml:"inner"`
			Formula string  `yaml:"formula,omitempty"`
		}{From: e.FromTag.String(), To: e.ToTag.String(), Inner: inner, Formula: e.Formula}}
	case ExprConcat:
		parts := make([]rawExpr, len(e.Parts))
		for i, p := range e.Parts {
			parts[i] = exprToRaw(p)
		}
		return rawExpr{Concat: &struct {
			Separator string    `yaml:"separator"`
			Parts     []rawExpr `yaml:"parts"`
		}{Separator: e.Separator, Parts: parts}}
	default:
		// ExprJoin/ExprArg have no authored-file encoding; callers building
		// those programmatically should not round-trip through this codec.
		return rawExpr{}
	}
}

func literalString(v Value) string {
	if v.Tag() == TagString {
		return v.String()
	}
	if raw := v.Raw(); raw != nil {
		return fmt.Sprintf("%v", raw)
	}
	return ""
}

type rawAction struct {
	AddField *struct {
		At      string   `yaml:"at"`
		Name    string   `yaml:"name"`
		Default rawExpr  `yaml:"default"`
	} `yaml:"add_field,omitempty"`

	DropField *struct {
		At             string   `yaml:"at"`
		Name           string   `yaml:"name"`
		ReverseDefault *rawExpr `yaml:"reverse_default,omitempty"`
	} `yaml:"drop_field,omitempty"`

	Rename *struct {
		At   string `yaml:"at"`
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"rename,omitempty"`

	Mandate *struct {
		At      string  `yaml:"at"`
		Name    string  `yaml:"name"`
		Default rawExpr `yaml:"default"`
	} `yaml:"mandate,omitempty"`

	Optionalize *struct {
		At   string `yaml:"at"`
		Name string `yaml:"name"`
	} `yaml:"optionalize,omitempty"`

	RenameCase *struct {
		At   string `yaml:"at"`
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"rename_case,omitempty"`

	RemoveCase *struct {
		At   string `yaml:"at"`
		Name string `yaml:"name"`
	} `yaml:"remove_case,omitempty"`

	TransformValue *struct {
		At      string   `yaml:"at"`
		Forward rawExpr  `yaml:"forward"`
		Inverse *rawExpr `yaml:"inverse,omitempty"`
	} `yaml:"transform_value,omitempty"`
}

func (r rawAction) toAction() (Action, error) {
	switch {
	case r.AddField != nil:
		def, err := r.AddField.Default.toExpr()
		if err != nil {
			return nil, err
		}
		return AddField{AtPath: parsePathString(r.AddField.At), Name: r.AddField.Name, Default: def}, nil

	case r.DropField != nil:
		var rev *Expr
		if r.DropField.ReverseDefault != nil {
			e, err := r.DropField.ReverseDefault.toExpr()
			if err != nil {
				return nil, err
			}
			rev = &e
		}
		return DropField{AtPath: parsePathString(r.DropField.At), Name: r.DropField.Name, ReverseDefault: rev}, nil

	case r.Rename != nil:
		return Rename{AtPath: parsePathString(r.Rename.At), From: r.Rename.From, To: r.Rename.To}, nil

	case r.Mandate != nil:
		def, err := r.Mandate.Default.toExpr()
		if err != nil {
			return nil, err
		}
		return Mandate{AtPath: parsePathString(r.Mandate.At), Name: r.Mandate.Name, Default: def}, nil

	case r.Optionalize != nil:
		return Optionalize{AtPath: parsePathString(r.Optionalize.At), Name: r.Optionalize.Name}, nil

	case r.RenameCase != nil:
		return RenameCase{AtPath: parsePathString(r.RenameCase.At), From: r.RenameCase.From, To: r.RenameCase.To}, nil

	case r.RemoveCase != nil:
		return RemoveCase{AtPath: parsePathString(r.RemoveCase.At), Name: r.RemoveCase.Name}, nil

	case r.TransformValue != nil:
		fwd, err := r.TransformValue.Forward.toExpr()
		if err != nil {
			return nil, err
		}
		var inv *Expr
		if r.TransformValue.Inverse != nil {
			e, err := r.TransformValue.Inverse.toExpr()
			if err != nil {
				return nil, err
			}
			inv = &e
		}
		return TransformValue{AtPath: parsePathString(r.TransformValue.At), Forward: fwd, Inverse: inv}, nil

	default:
		return nil, fmt.Errorf("empty or unrecognized action document")
	}
}

// rawExpr is the YAML form of an Expr: a single-key mapping naming the
// expression kind. Only the forms authorable from a migration file are
// supported. A convert's optional formula is checked through
// NewConvertWithFormula; Join and Arg expressions have no YAML form.
type rawExpr struct {
	Literal  *rawLiteral `yaml:"literal,omitempty"`
	Identity *struct{}   `yaml:"identity,omitempty"`
	Field    *string     `yaml:"field,omitempty"`
	Convert  *struct {
		From    string  `yaml:"from"`
		To      string  `yaml:"to"`
		Inner   rawExpr `yaml:"inner"`
		Formula string  `yaml:"formula,omitempty"`
	} `yaml:"convert,omitempty"`
	Concat *struct {
		Separator string    `yaml:"separator"`
		Parts     []rawExpr `yaml:"parts"`
	} `yaml:"concat,omitempty"`
}

type rawLiteral struct {
	Tag   string `yaml:"tag"`
	Value string `yaml:"value"`
}

func (r rawExpr) toExpr() (Expr, error) {
	switch {
	case r.Literal != nil:
		v, err := literalToValue(*r.Literal)
		if err != nil {
			return Expr{}, err
		}
		return Lit(v), nil

	case r.Identity != nil:
		return Identity(), nil

	case r.Field != nil:
		return FieldExpr(*r.Field), nil

	case r.Convert != nil:
		from, err := tagFromName(r.Convert.From)
		if err != nil {
			return Expr{}, err
		}
		to, err := tagFromName(r.Convert.To)
		if err != nil {
			return Expr{}, err
		}
		inner, err := r.Convert.Inner.toExpr()
		if err != nil {
			return Expr{}, err
		}
		if r.Convert.Formula != "" {
			return NewConvertWithFormula(from, to, inner, r.Convert.Formula)
		}
		return Convert(from, to, inner), nil

	case r.Concat != nil:
		parts := make([]Expr, len(r.Concat.Parts))
		for i, p := range r.Concat.Parts {
			e, err := p.toExpr()
			if err != nil {
				return Expr{}, err
			}
			parts[i] = e
		}
		return Concat(r.Concat.Separator, parts...), nil

	default:
		return Expr{}, fmt.Errorf("empty or unrecognized expression document")
	}
}

func literalToValue(lit rawLiteral) (Value, error) {
	tag, err := tagFromName(lit.Tag)
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case TagUnit:
		return Unit(), nil
	case TagString:
		return String(lit.Value), nil
	case TagBool:
		return Bool(lit.Value == "true"), nil
	default:
		v, err := convertPrimitive(String(lit.Value), TagString, tag)
		if err != nil {
			return Value{}, fmt.Errorf("literal %q as %s: %w", lit.Value, lit.Tag, err)
		}
		return v, nil
	}
}

// parsePathString parses the dot-joined path syntax Path.String() writes
// (e.g. "status.?Active.[]") back into a Path. Malformed tokens are kept
// as plain Field nodes; callers validating migration files should expect
// a later MissingPath/TypeMismatch error rather than a parse-time one, the
// same way the rest of the package favours apply-time diagnostics.
func parsePathString(s string) Path {
	if s == "" {
		return Root
	}
	p := Root
	token := ""
	flush := func() {
		if token == "" {
			return
		}
		switch {
		case token == "[]":
			p = p.Append(Elements)
		case token == "{keys}":
			p = p.Append(MapKeys)
		case token == "{values}":
			p = p.Append(MapValues)
		case token == "?":
			p = p.Append(Optional)
		case len(token) > 1 && token[0] == '?':
			p = p.Append(Case(token[1:]))
		default:
			p = p.Append(Field(token))
		}
		token = ""
	}
	for _, r := range s {
		if r == '.' {
			flush()
			continue
		}
		token += string(r)
	}
	flush()
	return p
}
