package cgen

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/idl"
)

// SelfParam names the receiver parameter of member functions.
const SelfParam = "_sides_self"

// Header is one generated C header.
type Header struct {
	Name    string // file name, e.g. thing.h
	Content string
}

// Generate renders one header per interface and per enum in f, in
// declaration order. Interfaces without +c are still generated, since
// every interface crosses the boundary.
func Generate(f *idl.File) ([]Header, error) {
	r := resolver{file: f}
	var out []Header

	for _, d := range f.Decls {
		var (
			h   Header
			err error
		)
		switch d := d.(type) {
		case *idl.Interface:
			h, err = r.iface(d)
		case *idl.Enum:
			h, err = enumHeader(d)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		Logger().Debug("generated header",
			zap.String("decl", d.DeclName()),
			zap.String("file", h.Name))
		out = append(out, h)
	}
	return out, nil
}

type function struct {
	ret    string
	name   string
	params []string
	static bool
	method string
}

func (fn function) prototype() string {
	return fn.ret + " " + fn.name + "(" + strings.Join(fn.params, ", ") + ");"
}

func (fn function) slot() string {
	return fn.ret + " (*" + fn.method + ")(" + strings.Join(fn.params, ", ") + ");"
}

func (r resolver) iface(i *idl.Interface) (Header, error) {
	base := baseName(i.Name)
	self := TypeName(i.Name)
	deps := make(map[string]struct{})

	var fns []function
	for _, m := range i.Methods {
		path := []string{i.Name, m.Name}
		ret, err := r.ctype(path, m.Ret, deps)
		if err != nil {
			return Header{}, err
		}

		fn := function{
			ret:    ret,
			name:   base + "_" + idl.FromCamel(m.Name).Snake(),
			static: m.Static,
			method: idl.FromCamel(m.Name).Snake(),
		}
		if !m.Static {
			fn.params = append(fn.params, self+"* "+SelfParam)
		}
		for _, p := range m.Params {
			pt, err := r.ctype(append(path, p.Name), p.Type, deps)
			if err != nil {
				return Header{}, err
			}
			fn.params = append(fn.params, pt+" "+p.Name)
		}
		fns = append(fns, fn)
	}

	var b strings.Builder
	b.WriteString("#pragma once\n")

	delete(deps, i.Name)
	if len(deps) > 0 {
		b.WriteByte('\n')
		names := make([]string, 0, len(deps))
		for n := range deps {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			b.WriteString("#include \"" + baseName(n) + ".h\"\n")
		}
	}

	b.WriteString("\ntypedef struct " + base + "_s " + self + ";\n")

	b.WriteString("\nstruct " + base + "_vtable {\n")
	for _, fn := range fns {
		if fn.static {
			continue
		}
		b.WriteString("\t" + fn.slot() + "\n")
	}
	b.WriteString("};\n")

	if len(fns) > 0 {
		b.WriteByte('\n')
		for _, fn := range fns {
			b.WriteString(fn.prototype() + "\n")
		}
	}

	return Header{Name: base + ".h", Content: b.String()}, nil
}

func enumHeader(e *idl.Enum) (Header, error) {
	if len(e.Values) == 0 {
		return Header{}, errors.InvalidInput(errors.PhaseGenerate, "enum "+e.Name+" has no values")
	}
	base := baseName(e.Name)
	prefix := strings.ToUpper(base)

	var b strings.Builder
	b.WriteString("#pragma once\n\ntypedef enum {\n")
	for _, v := range e.Values {
		b.WriteString("\t" + prefix + "_" + strings.ToUpper(idl.FromCamel(v).Snake()) + ",\n")
	}
	b.WriteString("} " + TypeName(e.Name) + ";\n")

	return Header{Name: base + ".h", Content: b.String()}, nil
}
