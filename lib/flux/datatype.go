package flux

// DataType is the declared type of a column in an annotated CSV response.
type DataType uint8

const (
	TypeString DataType = iota
	TypeDouble
	TypeBool
	TypeLong
	TypeUnsignedLong
	TypeDuration
	TypeBinary
	TypeTime
)

// ParseDataType maps the external #datatype vocabulary to a DataType. Any
// string outside the vocabulary is an UnknownDataTypeError, never a default.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "double":
		return TypeDouble, nil
	case "boolean":
		return TypeBool, nil
	case "long":
		return TypeLong, nil
	case "unsignedLong":
		return TypeUnsignedLong, nil
	case "duration":
		return TypeDuration, nil
	case "base64Binary":
		return TypeBinary, nil
	case "dateTime:RFC3339", "dateTime:RFC3339Nano":
		return TypeTime, nil
	default:
		return TypeString, &UnknownDataTypeError{Text: s}
	}
}

func (d DataType) String() string {
	switch d {
	case TypeString:
		return "string"
	case TypeDouble:
		return "double"
	case TypeBool:
		return "boolean"
	case TypeLong:
		return "long"
	case TypeUnsignedLong:
		return "unsignedLong"
	case TypeDuration:
		return "duration"
	case TypeBinary:
		return "base64Binary"
	case TypeTime:
		return "dateTime:RFC3339"
	default:
		return "unknown"
	}
}
