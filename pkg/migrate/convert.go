package migrate

import (
	"strconv"
)

// convertPrimitive implements the §6.4 primitive coercion table. It never
// touches non-primitive Values; callers are responsible for requiring a
// primitive focus before calling it.
func convertPrimitive(v Value, from, to Tag) (Value, error) {
	if v.tag != from {
		return Value{}, newTypeMismatch("", from.String(), v.tag.String())
	}
	if from == to {
		return v, nil
	}

	switch from {
	case TagInt:
		switch to {
		case TagLong:
			return Long(int64(v.intVal)), nil
		case TagFloat:
			return Float(float32(v.intVal)), nil
		case TagDouble:
			return Double(float64(v.intVal)), nil
		case TagString:
			return String(strconv.FormatInt(int64(v.intVal), 10)), nil
		}
	case TagLong:
		switch to {
		case TagString:
			return String(strconv.FormatInt(v.longVal, 10)), nil
		case TagInt:
			if v.longVal > int64(int32(1<<31-1)) || v.longVal < int64(int32(-1<<31)) {
				return Value{}, newConversionFailed("", from.String(), to.String(), "value out of int32 range")
			}
			return Int(int32(v.longVal)), nil
		}
	case TagFloat:
		switch to {
		case TagDouble:
			return Double(float64(v.floatVal)), nil
		case TagString:
			return String(strconv.FormatFloat(float64(v.floatVal), 'g', -1, 32)), nil
		}
	case TagDouble:
		switch to {
		case TagFloat:
			// Lossy: narrowing double -> float.
			return Float(float32(v.doubleVal)), nil
		case TagString:
			return String(strconv.FormatFloat(v.doubleVal, 'g', -1, 64)), nil
		}
	case TagString:
		switch to {
		case TagInt:
			i, err := strconv.ParseInt(v.stringVal, 10, 32)
			if err != nil {
				return Value{}, newConversionFailed("", from.String(), to.String(), err.Error())
			}
			return Int(int32(i)), nil
		case TagLong:
			i, err := strconv.ParseInt(v.stringVal, 10, 64)
			if err != nil {
				return Value{}, newConversionFailed("", from.String(), to.String(), err.Error())
			}
			return Long(i), nil
		case TagFloat:
			f, err := strconv.ParseFloat(v.stringVal, 32)
			if err != nil {
				return Value{}, newConversionFailed("", from.String(), to.String(), err.Error())
			}
			return Float(float32(f)), nil
		case TagDouble:
			f, err := strconv.ParseFloat(v.stringVal, 64)
			if err != nil {
				return Value{}, newConversionFailed("", from.String(), to.String(), err.Error())
			}
			return Double(f), nil
		case TagBool:
			switch v.stringVal {
			case "true":
				return Bool(true), nil
			case "false":
				return Bool(false), nil
			default:
				return Value{}, newConversionFailed("", from.String(), to.String(), "only literals true/false are accepted")
			}
		}
	case TagBool:
		if to == TagString {
			if v.boolVal {
				return String("true"), nil
			}
			return String("false"), nil
		}
	}

	return Value{}, newConversionFailed("", from.String(), to.String(), "unsupported pair")
}

func isNumericTag(t Tag) bool {
	switch t {
	case TagInt, TagLong, TagFloat, TagDouble:
		return true
	default:
		return false
	}
}

func numericRaw(v Value) (float64, bool) {
	switch v.tag {
	case TagInt:
		return float64(v.intVal), true
	case TagLong:
		return float64(v.longVal), true
	case TagFloat:
		return float64(v.floatVal), true
	case TagDouble:
		return float64(v.doubleVal), true
	default:
		return 0, false
	}
}

func numericFromRaw(f float64, tag Tag) Value {
	switch tag {
	case TagInt:
		return Int(int32(f))
	case TagLong:
		return Long(int64(f))
	case TagFloat:
		return Float(float32(f))
	case TagDouble:
		return Double(f)
	default:
		return Double(f)
	}
}
