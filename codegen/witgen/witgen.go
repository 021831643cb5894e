package witgen

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/sides/errors"
	"github.com/wippyai/sides/idl"
)

// Settings read from the IDL file.
const (
	SettingPackage   = "wit_package"
	SettingInterface = "wit_interface"
)

// Defaults used when the settings are absent.
const (
	DefaultPackage   = "sides:bindings"
	DefaultInterface = "bindings"
)

// Document is a generated WIT file.
type Document struct {
	Name    string
	Content string
}

// primitives covers idl.Primitives except void, which only appears as
// a missing result.
var primitives = map[string]wit.Type{
	"i8":     wit.S8{},
	"i16":    wit.S16{},
	"i32":    wit.S32{},
	"i64":    wit.S64{},
	"long":   wit.S64{},
	"u8":     wit.U8{},
	"u16":    wit.U16{},
	"u32":    wit.U32{},
	"u64":    wit.U64{},
	"size":   wit.U64{},
	"f32":    wit.F32{},
	"f64":    wit.F64{},
	"bool":   wit.Bool{},
	"char":   wit.Char{},
	"string": wit.String{},
}

// keywords are WIT reserved words; identifiers spelled like one are
// written with a leading %.
var keywords = map[string]bool{
	"as": true, "async": true, "bool": true, "borrow": true, "char": true,
	"constructor": true, "enum": true, "error-context": true, "export": true,
	"f32": true, "f64": true, "flags": true, "from": true, "func": true,
	"future": true, "import": true, "include": true, "interface": true,
	"list": true, "option": true, "own": true, "package": true,
	"record": true, "resource": true, "result": true,
	"s8": true, "s16": true, "s32": true, "s64": true,
	"static": true, "stream": true, "string": true, "tuple": true,
	"type": true, "u8": true, "u16": true, "u32": true, "u64": true,
	"use": true, "variant": true, "with": true, "world": true,
}

// Ident returns name as a WIT identifier, escaping reserved words.
func Ident(name string) string {
	if keywords[name] {
		return "%" + name
	}
	return name
}

// Generate renders every enum and interface of f into one WIT interface.
// Interfaces become resources; parameters of resource type are borrowed
// and results are owned.
func Generate(f *idl.File) (Document, error) {
	pkg := f.Setting(SettingPackage)
	if pkg == "" {
		pkg = DefaultPackage
	}
	ifaceName := f.Setting(SettingInterface)
	if ifaceName == "" {
		ifaceName = DefaultInterface
	}

	defs := make(map[string]*wit.TypeDef)
	for _, d := range f.Decls {
		name := idl.FromCamel(d.DeclName()).Kebab()
		switch d := d.(type) {
		case *idl.Interface:
			defs[d.Name] = &wit.TypeDef{Name: &name, Kind: &wit.Resource{}}
		case *idl.Enum:
			if len(d.Values) == 0 {
				return Document{}, errors.InvalidInput(errors.PhaseGenerate, "enum "+d.Name+" has no values")
			}
			e := &wit.Enum{}
			for _, v := range d.Values {
				e.Cases = append(e.Cases, wit.EnumCase{Name: idl.FromCamel(v).Kebab()})
			}
			defs[d.Name] = &wit.TypeDef{Name: &name, Kind: e}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package %s;\n\ninterface %s {\n", pkg, ifaceName)

	first := true
	for _, d := range f.Decls {
		var (
			body string
			err  error
		)
		switch d := d.(type) {
		case *idl.Enum:
			body = renderEnum(defs[d.Name])
		case *idl.Interface:
			body, err = renderResource(d, defs)
		default:
			continue
		}
		if err != nil {
			return Document{}, err
		}
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(body)
		Logger().Debug("rendered wit type", zap.String("decl", d.DeclName()))
	}
	b.WriteString("}\n")

	return Document{Name: ifaceName + ".wit", Content: b.String()}, nil
}

func lookup(defs map[string]*wit.TypeDef, path []string, name string) (wit.Type, error) {
	if t, ok := primitives[name]; ok {
		return t, nil
	}
	if d, ok := defs[name]; ok {
		return d, nil
	}
	return nil, errors.UnknownType(path, name)
}

func renderEnum(def *wit.TypeDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\tenum %s {\n", Ident(*def.Name))
	for _, c := range def.Kind.(*wit.Enum).Cases {
		fmt.Fprintf(&b, "\t\t%s,\n", Ident(c.Name))
	}
	b.WriteString("\t}\n")
	return b.String()
}

func renderResource(i *idl.Interface, defs map[string]*wit.TypeDef) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "\tresource %s {\n", Ident(*defs[i.Name].Name))

	for _, m := range i.Methods {
		path := []string{i.Name, m.Name}

		var params []string
		for _, p := range m.Params {
			t, err := lookup(defs, append(path, p.Name), p.Type)
			if err != nil {
				return "", err
			}
			if isResource(t) {
				t = &wit.TypeDef{Kind: &wit.Borrow{Type: t.(*wit.TypeDef)}}
			}
			params = append(params, Ident(idl.FromCamel(p.Name).Kebab())+": "+TypeString(t))
		}

		result := ""
		if m.Ret != idl.Void {
			t, err := lookup(defs, path, m.Ret)
			if err != nil {
				return "", err
			}
			result = " -> " + TypeString(t)
		}

		kw := "func"
		if m.Static {
			kw = "static func"
		}
		fmt.Fprintf(&b, "\t\t%s: %s(%s)%s;\n",
			Ident(idl.FromCamel(m.Name).Kebab()), kw, strings.Join(params, ", "), result)
	}

	b.WriteString("\t}\n")
	return b.String(), nil
}

func isResource(t wit.Type) bool {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return false
	}
	_, ok = td.Kind.(*wit.Resource)
	return ok
}

// TypeString returns the WIT spelling of t.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return Ident(*v.Name)
		}
		switch k := v.Kind.(type) {
		case *wit.Borrow:
			return "borrow<" + TypeString(k.Type) + ">"
		case *wit.Own:
			return "own<" + TypeString(k.Type) + ">"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}
