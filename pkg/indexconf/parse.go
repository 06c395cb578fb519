package indexconf

import (
	"fmt"
	"io"
)

// Settings holds the raw key/value pairs of a single section.
type Settings map[string]string

// Raw is the unresolved contents of a configuration file: the settings of
// every index section, and the settings of the searchd section.
type Raw struct {
	Indexes map[string]Settings
	Searchd Settings

	// order is the order the indexes were declared in.
	order []string
}

// Names returns the names of the declared indexes in declaration order.
func (raw Raw) Names() []string {
	return append([]string(nil), raw.order...)
}

// SyntaxError is returned when the configuration is structurally invalid,
// e.g. if it's truncated in the middle of a directive.
type SyntaxError struct {
	Line int
	Msg  string
}

func (err SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", err.Line, err.Msg)
}

// Section keywords that end the index section that's currently open.
var sectionKeywords = map[string]struct{}{
	"source":  {},
	"searchd": {},
	"indexer": {},
	"common":  {},
}

type parser struct {
	tokens  *Tokenizer
	raw     Raw
	current Settings
}

// Parse reads configuration text and collects the settings this package
// understands. Directives it doesn't recognize are skipped.
func Parse(r io.Reader) (Raw, error) {
	p := parser{
		tokens: NewTokenizer(r),
		raw: Raw{
			Indexes: map[string]Settings{},
			Searchd: Settings{},
		},
	}

	for {
		tok, err := p.tokens.Next()
		if err != nil {
			return Raw{}, err
		}

		switch {
		case tok.Kind == KindEOF:
			return p.raw, nil
		case tok.Kind != KindWord:
			continue
		case tok.Value == "index":
			err = p.parseIndex(tok)
		case tok.Value == "type" || tok.Value == "path":
			err = p.parseIndexSetting(tok)
		case tok.Value == "pid_file":
			err = p.parseSearchdSetting(tok)
		default:
			if _, ok := sectionKeywords[tok.Value]; ok {
				err = p.parseSection()
			}
		}
		if err != nil {
			return Raw{}, err
		}
	}
}

// next returns the token following `after`. Running out of input is an
// error because `after` always requires a following token.
func (p *parser) next(after Token) (Token, error) {
	tok, err := p.tokens.Next()
	if err != nil {
		return Token{}, err
	}

	if tok.Kind == KindEOF {
		return Token{}, SyntaxError{Line: tok.Line,
			Msg: fmt.Sprintf("unexpected end of file after %q", after.Value)}
	}
	return tok, nil
}

func (p *parser) nextName(after Token, what string) (Token, error) {
	tok, err := p.next(after)
	if err != nil {
		return Token{}, err
	}

	if tok.Kind != KindWord && tok.Kind != KindString {
		return Token{}, SyntaxError{Line: tok.Line,
			Msg: fmt.Sprintf("expected %s, got %q", what, tok.Value)}
	}
	return tok, nil
}

// parseIndex handles `index <name>` and `index <name> : <parent>`.
func (p *parser) parseIndex(keyword Token) error {
	name, err := p.nextName(keyword, "index name")
	if err != nil {
		return err
	}

	if _, ok := p.raw.Indexes[name.Value]; ok {
		return SyntaxError{Line: name.Line,
			Msg: fmt.Sprintf("index %q is declared more than once", name.Value)}
	}

	settings := Settings{}
	lookahead, err := p.next(name)
	if err != nil {
		return err
	}

	if lookahead.is(KindPunct, ":") {
		parent, err := p.nextName(lookahead, "parent index name")
		if err != nil {
			return err
		}
		settings["parent"] = parent.Value
	} else {
		p.tokens.Push(lookahead)
	}

	p.raw.Indexes[name.Value] = settings
	p.raw.order = append(p.raw.order, name.Value)
	p.current = settings
	return nil
}

// parseAssignment reads the `= <value>` that follows key. If key isn't
// followed by `=`, it isn't a directive, and ok is false.
func (p *parser) parseAssignment(key Token) (value string, ok bool, err error) {
	eq, err := p.next(key)
	if err != nil {
		return "", false, err
	}

	if !eq.is(KindPunct, "=") {
		p.tokens.Push(eq)
		return "", false, nil
	}

	val, err := p.next(eq)
	if err != nil {
		return "", false, err
	}
	return val.Value, true, nil
}

func (p *parser) parseIndexSetting(key Token) error {
	value, ok, err := p.parseAssignment(key)
	if err != nil || !ok {
		return err
	}

	if p.current != nil {
		p.current[key.Value] = value
	}
	return nil
}

func (p *parser) parseSearchdSetting(key Token) error {
	value, ok, err := p.parseAssignment(key)
	if err != nil || !ok {
		return err
	}

	p.raw.Searchd[key.Value] = value
	return nil
}

// parseSection closes the open index section when a section keyword starts
// a new block. Section keywords can also appear as keys (`source = src1`),
// in which case nothing changes.
func (p *parser) parseSection() error {
	lookahead, err := p.tokens.Next()
	if err != nil {
		return err
	}

	if !lookahead.is(KindPunct, "=") {
		p.current = nil
	}
	p.tokens.Push(lookahead)
	return nil
}
