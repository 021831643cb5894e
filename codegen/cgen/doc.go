// Package cgen renders C headers from parsed IDL files.
//
// Each interface becomes <snake>.h holding an opaque struct typedef, a
// vtable struct with one function pointer per member method, and one
// prototype per method. Member functions take the object as their first
// parameter, named _sides_self. Enums become typedef'd C enums whose
// constants are prefixed with the upper-case enum name.
package cgen
