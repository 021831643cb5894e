package cgen

import (
	"github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/idl"
)

var primitives = map[string]string{
	"i8":   "char",
	"i16":  "short",
	"i32":  "int",
	"i64":  "long long",
	"u8":   "unsigned char",
	"u16":  "unsigned short",
	"u32":  "unsigned int",
	"u64":  "unsigned long long",
	"long": "long",
	"size": "unsigned long",
	"f32":  "float",
	"f64":  "double",
	"bool": "_Bool",
	// Unicode scalar value.
	"char":   "unsigned int",
	"string": "const char*",
	"void":   "void",
}

// Primitive returns the C spelling of an IDL primitive type.
func Primitive(name string) (string, bool) {
	c, ok := primitives[name]
	return c, ok
}

// TypeName returns the C typedef name of a declaration: Thing becomes thing_t.
func TypeName(declName string) string {
	return baseName(declName) + "_t"
}

func baseName(declName string) string {
	return idl.FromCamel(declName).Snake()
}

// resolver maps IDL type names to C types for one file.
type resolver struct {
	file *idl.File
}

// ctype resolves name for use as a parameter or return type. Interfaces
// are passed by pointer, enums by value. deps collects the headers the
// type needs.
func (r resolver) ctype(path []string, name string, deps map[string]struct{}) (string, error) {
	if c, ok := primitives[name]; ok {
		return c, nil
	}
	d, ok := r.file.Lookup(name)
	if !ok {
		return "", errors.UnknownType(path, name)
	}
	switch d.(type) {
	case *idl.Interface:
		deps[name] = struct{}{}
		return TypeName(name) + "*", nil
	case *idl.Enum:
		deps[name] = struct{}{}
		return TypeName(name), nil
	default:
		return "", errors.New(errors.PhaseGenerate, errors.KindUnknownType).
			Path(path...).
			Value(name).
			Detail("%q is a setting, not a type", name).
			Build()
	}
}
