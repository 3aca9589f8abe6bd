package migrate

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"
)

// ExprKind is the closed set of pure expression forms (§3.3). Expr never
// carries a host-language function: every field is data, so an Expr tree
// is byte-portable and reconstructible in another process.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprIdentity
	ExprConvert
	ExprConcat
	ExprField
	ExprJoin
	ExprArg
)

// Expr is a pure expression evaluated against a focused Value. Only the
// fields relevant to e.Kind are populated; the rest are left zero.
type Expr struct {
	Kind ExprKind

	// ExprLiteral
	Literal Value

	// ExprConvert
	FromTag Tag
	ToTag   Tag
	Inner   *Expr
	// Formula, when non-empty, is a govaluate arithmetic formula applied
	// to the inner numeric value before re-tagging to ToTag (e.g. unit
	// conversion during a migration). It may reference no identifier
	// other than the bound variable "value"; NewConvertWithFormula
	// rejects any other formula at construction time.
	Formula string

	// ExprConcat
	Parts     []Expr
	Separator string

	// ExprField
	FieldName string

	// ExprJoin
	Args []Expr
	Body *Expr

	// ExprArg
	ArgIndex int
}

// Lit builds a Literal expression.
func Lit(v Value) Expr { return Expr{Kind: ExprLiteral, Literal: v} }

// Identity builds the Identity expression.
func Identity() Expr { return Expr{Kind: ExprIdentity} }

// Convert builds a Convert expression with no arithmetic formula.
func Convert(from, to Tag, inner Expr) Expr {
	return Expr{Kind: ExprConvert, FromTag: from, ToTag: to, Inner: &inner}
}

// NewConvertWithFormula builds a Convert expression that additionally
// applies a govaluate arithmetic formula to the numeric value before
// re-tagging. formula must reference only the variable "value". Returns
// an ImpureExpr-flavoured error if the formula cannot be parsed or
// references anything else, refusing to construct the Expr rather than
// silently accepting an opaque transform.
func NewConvertWithFormula(from, to Tag, inner Expr, formula string) (Expr, error) {
	if !isNumericTag(from) || !isNumericTag(to) {
		return Expr{}, newImpureExpr("", "arithmetic formula only applies between numeric tags")
	}
	if err := validateFormula(formula); err != nil {
		return Expr{}, err
	}
	return Expr{Kind: ExprConvert, FromTag: from, ToTag: to, Inner: &inner, Formula: formula}, nil
}

func validateFormula(formula string) error {
	expr, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return newImpureExpr("", fmt.Sprintf("invalid formula: %v", err))
	}
	for _, v := range expr.Vars() {
		if v != "value" {
			return newImpureExpr("", fmt.Sprintf("formula references unknown variable %q", v))
		}
	}
	return nil
}

// Concat builds a Concat expression joining parts with separator.
func Concat(separator string, parts ...Expr) Expr {
	return Expr{Kind: ExprConcat, Separator: separator, Parts: parts}
}

// FieldExpr builds a Field(name) projection expression.
func FieldExpr(name string) Expr { return Expr{Kind: ExprField, FieldName: name} }

// Join builds a Join(args, body) expression: args are evaluated in the
// current focus and bound positionally, then body is evaluated with those
// bindings available via Arg(i).
func Join(body Expr, args ...Expr) Expr {
	return Expr{Kind: ExprJoin, Args: args, Body: &body}
}

// Arg references the i'th positional binding introduced by an enclosing
// Join.
func Arg(i int) Expr { return Expr{Kind: ExprArg, ArgIndex: i} }

// IsIdentity reports whether e is exactly the Identity expression, used by
// TransformElements/Keys/Values to decide the §9 placeholder-inverse
// lossiness rule.
func (e Expr) IsIdentity() bool { return e.Kind == ExprIdentity }

// Eval evaluates e against focus, with env supplying the positional
// bindings exposed inside an enclosing Join's body.
func (e Expr) Eval(focus Value, env []Value) (Value, error) {
	switch e.Kind {
	case ExprLiteral:
		return e.Literal, nil

	case ExprIdentity:
		return focus, nil

	case ExprConvert:
		inner, err := e.Inner.Eval(focus, env)
		if err != nil {
			return Value{}, err
		}
		if e.Formula != "" {
			raw, ok := numericRaw(inner)
			if !ok {
				return Value{}, newTypeMismatch("", "numeric", inner.Kind())
			}
			expr, err := govaluate.NewEvaluableExpression(e.Formula)
			if err != nil {
				return Value{}, newImpureExpr("", fmt.Sprintf("invalid formula: %v", err))
			}
			result, err := expr.Evaluate(map[string]interface{}{"value": raw})
			if err != nil {
				return Value{}, newConversionFailed("", e.FromTag.String(), e.ToTag.String(), err.Error())
			}
			f, ok := result.(float64)
			if !ok {
				return Value{}, newConversionFailed("", e.FromTag.String(), e.ToTag.String(), "formula did not evaluate to a number")
			}
			return numericFromRaw(f, e.ToTag), nil
		}
		return convertPrimitive(inner, e.FromTag, e.ToTag)

	case ExprConcat:
		var sb strings.Builder
		for i, part := range e.Parts {
			v, err := part.Eval(focus, env)
			if err != nil {
				return Value{}, err
			}
			if v.Tag() != TagString {
				return Value{}, newTypeMismatch("", "string", v.Kind())
			}
			if i > 0 {
				sb.WriteString(e.Separator)
			}
			sb.WriteString(v.stringVal)
		}
		return String(sb.String()), nil

	case ExprField:
		if !focus.IsRecord() {
			return Value{}, newTypeMismatch("", "record", focus.Kind())
		}
		v, ok := focus.GetField(e.FieldName)
		if !ok {
			return Value{}, newMissingPath(e.FieldName)
		}
		return v, nil

	case ExprJoin:
		bindings := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			v, err := arg.Eval(focus, env)
			if err != nil {
				return Value{}, err
			}
			bindings[i] = v
		}
		return e.Body.Eval(focus, bindings)

	case ExprArg:
		if e.ArgIndex < 0 || e.ArgIndex >= len(env) {
			return Value{}, newTypeMismatch("", "bound argument", "out of range")
		}
		return env[e.ArgIndex], nil

	default:
		return Value{}, newImpureExpr("", fmt.Sprintf("unknown expression kind %d", e.Kind))
	}
}
