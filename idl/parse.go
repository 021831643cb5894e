package idl

import (
	"github.com/wippyai/sides/errors"
)

// Parse parses IDL source into a File.
//
//	file  := decl*
//	decl  := '#' setting '#' | setting | NAME '=' (interface | enum)
//	setting   := NAME '=' STRING
//	interface := 'interface' ('+' LANG)* '{' method* '}'
//	method    := ('static' | 'async')* NAME '(' params? ')' (':' TYPE)? ';'
//	params    := NAME ':' TYPE (',' NAME ':' TYPE)*
//	enum      := 'enum' '{' (NAME ';')* '}'
//
// Declaration names must be unique within a file.
func Parse(src string) (*File, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.file()
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return errors.Syntax(t.pos.Line, t.pos.Col, format, args...)
}

func (p *parser) expect(punct string) (token, error) {
	t := p.next()
	if !t.is(punct) {
		return t, p.errorf(t, "expected %q, got %s", punct, t.describe())
	}
	return t, nil
}

func (p *parser) ident(what string) (token, error) {
	t := p.next()
	if t.kind != tokIdent {
		return t, p.errorf(t, "expected %s, got %s", what, t.describe())
	}
	return t, nil
}

func (p *parser) file() (*File, error) {
	f := &File{index: make(map[string]Decl)}

	for p.peek().kind != tokEOF {
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		if _, ok := d.(*Setting); !ok && IsPrimitive(d.DeclName()) {
			return nil, errors.New(errors.PhaseParse, errors.KindDuplicate).
				Path(d.DeclName()).
				Detail("%d:%d redeclares built-in type", d.Pos().Line, d.Pos().Col).
				Build()
		}
		if prev, dup := f.index[d.DeclName()]; dup {
			at := d.Pos()
			return nil, errors.New(errors.PhaseParse, errors.KindDuplicate).
				Path(d.DeclName()).
				Detail("%d:%d redeclares name from %d:%d", at.Line, at.Col, prev.Pos().Line, prev.Pos().Col).
				Build()
		}
		f.index[d.DeclName()] = d
		f.Decls = append(f.Decls, d)
	}
	return f, nil
}

func (p *parser) decl() (Decl, error) {
	if p.peek().is("#") {
		p.next()
		s, err := p.setting()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("#"); err != nil {
			return nil, err
		}
		return s, nil
	}

	if p.peek().kind == tokIdent && p.peekAt(1).is("=") && p.peekAt(2).kind == tokString {
		return p.setting()
	}

	name, err := p.ident("declaration name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}

	kw := p.next()
	switch {
	case kw.kind == tokIdent && kw.text == "interface":
		return p.iface(name)
	case kw.kind == tokIdent && kw.text == "enum":
		return p.enum(name)
	default:
		return nil, p.errorf(kw, "expected interface, enum or string after %q =, got %s", name.text, kw.describe())
	}
}

func (p *parser) setting() (*Setting, error) {
	name, err := p.ident("setting name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}
	v := p.next()
	if v.kind != tokString {
		return nil, p.errorf(v, "expected string value, got %s", v.describe())
	}
	return &Setting{Name: name.text, Value: v.text, At: name.pos}, nil
}

func (p *parser) iface(name token) (*Interface, error) {
	i := &Interface{Name: name.text, At: name.pos, Languages: []string{}, Methods: []Method{}}

	for p.peek().kind == tokLang {
		i.Languages = append(i.Languages, p.next().text)
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.peek().is("}") {
		if p.peek().kind == tokEOF {
			return nil, p.errorf(p.peek(), "unterminated interface %s", i.Name)
		}
		m, err := p.method()
		if err != nil {
			return nil, err
		}
		i.Methods = append(i.Methods, m)
	}
	p.next()
	return i, nil
}

func (p *parser) method() (Method, error) {
	var m Method

	// Modifiers are keywords only when another identifier follows,
	// so a method may itself be called static or async.
	for p.peek().kind == tokIdent && p.peekAt(1).kind == tokIdent {
		mod := p.next()
		switch mod.text {
		case "static":
			m.Static = true
		case "async":
			m.Async = true
		default:
			return m, p.errorf(mod, "unknown modifier %q", mod.text)
		}
	}

	name, err := p.ident("method name")
	if err != nil {
		return m, err
	}
	m.Name = name.text
	m.At = name.pos
	m.Params = []Param{}

	if _, err := p.expect("("); err != nil {
		return m, err
	}
	for !p.peek().is(")") {
		if len(m.Params) > 0 {
			if _, err := p.expect(","); err != nil {
				return m, err
			}
		}
		pn, err := p.ident("parameter name")
		if err != nil {
			return m, err
		}
		if _, err := p.expect(":"); err != nil {
			return m, err
		}
		pt, err := p.ident("parameter type")
		if err != nil {
			return m, err
		}
		if pt.text == Void {
			return m, p.errorf(pt, "parameter %s cannot be void", pn.text)
		}
		m.Params = append(m.Params, Param{Name: pn.text, Type: pt.text})
	}
	p.next()

	m.Ret = Void
	if p.peek().is(":") {
		p.next()
		rt, err := p.ident("return type")
		if err != nil {
			return m, err
		}
		m.Ret = rt.text
	}

	if _, err := p.expect(";"); err != nil {
		return m, err
	}
	return m, nil
}

func (p *parser) enum(name token) (*Enum, error) {
	e := &Enum{Name: name.text, At: name.pos, Values: []string{}}

	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.peek().is("}") {
		v, err := p.ident("enum value")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		e.Values = append(e.Values, v.text)
	}
	end := p.next()
	if len(e.Values) == 0 {
		return nil, p.errorf(end, "enum %s needs at least one value", e.Name)
	}
	return e, nil
}
