// Package witgen renders a WebAssembly Interface Type (WIT) document from
// a parsed IDL file.
//
// The output is one WIT interface holding a resource per IDL interface
// and an enum per IDL enum. Names are converted to kebab-case. The
// package and interface names come from the wit_package and
// wit_interface settings of the IDL file.
package witgen
