package sema

// Type is the closed set of value types the analyzer reasons about.
type Type int

const (
	TypeUnknown Type = iota
	TypeVoid
	TypeInt
	TypeChar
	TypeDouble
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeInt:
		return "int"
	case TypeChar:
		return "char"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// TypeFromKeyword maps a type-keyword lexeme ("int", "char", "double",
// "string") to its Type. Anything else is TypeUnknown.
func TypeFromKeyword(text string) Type {
	switch text {
	case "int":
		return TypeInt
	case "char":
		return TypeChar
	case "double":
		return TypeDouble
	case "string":
		return TypeString
	default:
		return TypeUnknown
	}
}

// Symbol is a declared name: a variable, a function, or a builtin.
type Symbol struct {
	Name         string
	Type         Type // return type for functions
	IsArray      bool
	IsFunction   bool
	ParamTypes   []Type
	ParamIsArray []bool
}
