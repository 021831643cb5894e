// Package idl parses the sides interface description language.
//
// A file declares interfaces shared between languages, enums and
// string settings used by generators:
//
//	# prefix = "sides" #
//
//	Thing = interface +js +rust {
//		destroy();
//		number(): i32;
//		static create(): Thing;
//	}
//
//	Color = enum { red; green; }
//
// Parse returns a File whose declarations keep source order and source
// positions. Syntax errors are *errors.Error values in PhaseParse with the
// line:col of the offending token as their path.
package idl
