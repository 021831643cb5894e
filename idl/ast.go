package idl

// Void is the return type of methods that declare none.
const Void = "void"

// Decl is a top-level declaration.
type Decl interface {
	DeclName() string
	Pos() Pos
}

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

// Param is a named, typed method parameter.
type Param struct {
	Name string
	Type string
}

// Method is an interface member.
type Method struct {
	Name   string
	Ret    string
	Params []Param
	Static bool
	Async  bool
	At     Pos
}

// Interface declares a type shared across languages.
//
//	Thing = interface +c +r { number(): i32; static create(): Thing; }
type Interface struct {
	Name      string
	Languages []string
	Methods   []Method
	At        Pos
}

// DeclName implements Decl.
func (i *Interface) DeclName() string { return i.Name }

// Pos implements Decl.
func (i *Interface) Pos() Pos { return i.At }

// Members returns the non-static methods, in declaration order.
func (i *Interface) Members() []Method {
	var out []Method
	for _, m := range i.Methods {
		if !m.Static {
			out = append(out, m)
		}
	}
	return out
}

// Enum declares a closed set of values.
//
//	Color = enum { red; green; }
type Enum struct {
	Name   string
	Values []string
	At     Pos
}

// DeclName implements Decl.
func (e *Enum) DeclName() string { return e.Name }

// Pos implements Decl.
func (e *Enum) Pos() Pos { return e.At }

// Setting is a string-valued option for generators.
//
//	prefix = "sides"
type Setting struct {
	Name  string
	Value string
	At    Pos
}

// DeclName implements Decl.
func (s *Setting) DeclName() string { return s.Name }

// Pos implements Decl.
func (s *Setting) Pos() Pos { return s.At }

// File is a parsed IDL source.
type File struct {
	Decls []Decl
	index map[string]Decl
}

// Lookup returns the declaration named name.
func (f *File) Lookup(name string) (Decl, bool) {
	d, ok := f.index[name]
	return d, ok
}

// Interfaces returns interface declarations in source order.
func (f *File) Interfaces() []*Interface {
	var out []*Interface
	for _, d := range f.Decls {
		if i, ok := d.(*Interface); ok {
			out = append(out, i)
		}
	}
	return out
}

// Enums returns enum declarations in source order.
func (f *File) Enums() []*Enum {
	var out []*Enum
	for _, d := range f.Decls {
		if e, ok := d.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

// Setting returns the value of the named setting, or "" if absent.
func (f *File) Setting(name string) string {
	if s, ok := f.index[name].(*Setting); ok {
		return s.Value
	}
	return ""
}
