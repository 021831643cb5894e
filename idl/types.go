package idl

import "slices"

// Primitives lists the built-in type names every generator must map.
// Void is only valid as a return type.
var Primitives = []string{
	"i8", "i16", "i32", "i64", "long",
	"u8", "u16", "u32", "u64", "size",
	"f32", "f64",
	"bool", "char", "string",
	Void,
}

// IsPrimitive reports whether name is a built-in type.
func IsPrimitive(name string) bool {
	return slices.Contains(Primitives, name)
}
