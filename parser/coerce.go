package parser

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"influxstream/lib/flux"
	"influxstream/lib/value"
)

// parseValue coerces one raw cell against a declared type. An empty cell of
// any non-string type is null; a string column keeps the empty string.
func parseValue(s string, dt flux.DataType, column string) (value.Value, error) {
	if s == "" && dt != flux.TypeString {
		return value.Nil, nil
	}

	switch dt {
	case flux.TypeString:
		return value.String(s), nil
	case flux.TypeDouble:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, coercionError("double", s, column, err)
		}
		return value.Double(v), nil
	case flux.TypeBool:
		// anything other than a case-insensitive "false" is true; this
		// leniency is part of the format, not a validation gap
		return value.Bool(!strings.EqualFold(s, "false")), nil
	case flux.TypeLong:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, coercionError("long", s, column, err)
		}
		return value.Long(v), nil
	case flux.TypeUnsignedLong:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, coercionError("unsignedLong", s, column, err)
		}
		return value.UnsignedLong(v), nil
	case flux.TypeDuration:
		v, err := time.ParseDuration(s)
		if err != nil {
			return nil, coercionError("duration", s, column, err)
		}
		return value.Duration(v), nil
	case flux.TypeBinary:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, coercionError("base64Binary", s, column, err)
		}
		return value.Binary(b), nil
	case flux.TypeTime:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, coercionError("dateTime:RFC3339", s, column, err)
		}
		return value.NewTime(t), nil
	default:
		return nil, &flux.UnknownDataTypeError{Text: dt.String()}
	}
}

func coercionError(kind, raw, column string, err error) error {
	return &flux.ParseError{
		Message: fmt.Sprintf("invalid %s %q for column %q: %v", kind, raw, column, err),
	}
}
