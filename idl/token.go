package idl

import (
	"strconv"
	"strings"
	"text/scanner"

	"github.com/wippyai/sides/errors"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokLang
	tokPunct
)

type token struct {
	text string
	kind tokenKind
	pos  Pos
}

func (t token) is(punct string) bool {
	return t.kind == tokPunct && t.text == punct
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string " + strconv.Quote(t.text)
	case tokLang:
		return "language tag +" + t.text
	default:
		return strconv.Quote(t.text)
	}
}

const puncts = "={}();,:#"

// tokenize splits src into tokens. Go-style comments are skipped and
// strings are unquoted.
func tokenize(src string) ([]token, error) {
	var (
		s       scanner.Scanner
		toks    []token
		scanErr error
	)
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = errors.Syntax(s.Position.Line, s.Position.Column, "%s", msg)
		}
	}

	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		if scanErr != nil {
			return nil, scanErr
		}
		pos := Pos{Line: s.Position.Line, Col: s.Position.Column}

		switch {
		case tok == scanner.Ident:
			toks = append(toks, token{kind: tokIdent, text: s.TokenText(), pos: pos})

		case tok == scanner.String:
			v, err := strconv.Unquote(s.TokenText())
			if err != nil {
				return nil, errors.Syntax(pos.Line, pos.Col, "bad string %s", s.TokenText())
			}
			toks = append(toks, token{kind: tokString, text: v, pos: pos})

		case tok == '+':
			next := s.Scan()
			if next != scanner.Ident || s.Position.Line != pos.Line || s.Position.Column != pos.Col+1 {
				return nil, errors.Syntax(pos.Line, pos.Col, "language tag needs a name right after '+'")
			}
			toks = append(toks, token{kind: tokLang, text: s.TokenText(), pos: pos})

		case tok >= 0 && strings.ContainsRune(puncts, tok):
			toks = append(toks, token{kind: tokPunct, text: string(tok), pos: pos})

		default:
			return nil, errors.Syntax(pos.Line, pos.Col, "unexpected %s", scanner.TokenString(tok))
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}

	p := s.Pos()
	toks = append(toks, token{kind: tokEOF, pos: Pos{Line: p.Line, Col: p.Column}})
	return toks, nil
}
