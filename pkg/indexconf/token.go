package indexconf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/sidkik/indexsync/pkg/errors"
)

// Kind is the lexical class of a Token.
type Kind int

const (
	// KindEOF marks the end of the token stream.
	KindEOF Kind = iota

	// KindWord is a run of word characters, such as `index`, `path` or
	// `/var/lib/sphinx/data`.
	KindWord

	// KindString is a quoted string. The quotes aren't part of the value.
	KindString

	// KindPunct is any other single character, such as `:`, `=` or `{`.
	KindPunct
)

// Token is a single lexical unit of a configuration file.
type Token struct {
	Kind  Kind
	Value string
	Line  int
}

func (tok Token) is(kind Kind, value string) bool {
	return tok.Kind == kind && tok.Value == value
}

// extraWordChars are the characters besides letters, digits and underscores
// that can appear in a word, so that paths and inheritance markers lex as a
// single token.
const extraWordChars = ".+->/"

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		strings.ContainsRune(extraWordChars, r)
}

// Tokenizer splits configuration text into tokens. It supports pushing a
// single token back onto the stream.
type Tokenizer struct {
	r      *bufio.Reader
	line   int
	pushed *Token
}

// NewTokenizer returns a Tokenizer that reads from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{r: bufio.NewReader(r), line: 1}
}

// Push returns tok to the stream so that it's the result of the next call
// to Next. Only one token can be pushed back at a time.
func (t *Tokenizer) Push(tok Token) {
	if t.pushed != nil {
		panic("indexconf: token pushed back twice")
	}
	t.pushed = &tok
}

// Next returns the next token. At the end of the input it returns a token of
// kind KindEOF, and keeps doing so on subsequent calls.
func (t *Tokenizer) Next() (Token, error) {
	if t.pushed != nil {
		tok := *t.pushed
		t.pushed = nil
		return tok, nil
	}

	if err := t.skipBlank(); err != nil {
		if err == io.EOF {
			return Token{Kind: KindEOF, Line: t.line}, nil
		}
		return Token{}, errors.WithContext(err, "read")
	}

	if t.pushed != nil {
		tok := *t.pushed
		t.pushed = nil
		return tok, nil
	}

	r, _, err := t.r.ReadRune()
	if err != nil {
		return Token{}, errors.WithContext(err, "read")
	}

	switch {
	case r == '"' || r == '\'':
		return t.readQuoted(r)
	case isWordChar(r):
		return t.readWord(r)
	default:
		return Token{Kind: KindPunct, Value: string(r), Line: t.line}, nil
	}
}

// skipBlank consumes whitespace, comments and line continuations.
func (t *Tokenizer) skipBlank() error {
	for {
		r, _, err := t.r.ReadRune()
		if err != nil {
			return err
		}

		switch {
		case r == '\n':
			t.line++
		case unicode.IsSpace(r):
		case r == '#':
			if err := t.skipComment(); err != nil {
				return err
			}
		case r == '\\':
			if t.skipLineBreak() {
				t.line++
				continue
			}
			// A lone backslash is punctuation. bufio can only unread one
			// rune, so hand the backslash back through the push-back slot.
			t.pushed = &Token{Kind: KindPunct, Value: `\`, Line: t.line}
			return nil
		default:
			return t.r.UnreadRune()
		}
	}
}

// skipLineBreak consumes a `\n` or `\r\n` line ending, and reports whether
// there was one.
func (t *Tokenizer) skipLineBreak() bool {
	next, err := t.r.Peek(2)
	switch {
	case len(next) > 0 && next[0] == '\n':
		_, _ = t.r.Discard(1)
		return true
	case err == nil && next[0] == '\r' && next[1] == '\n':
		_, _ = t.r.Discard(2)
		return true
	}
	return false
}

func (t *Tokenizer) skipComment() error {
	for {
		r, _, err := t.r.ReadRune()
		if err != nil {
			return err
		}
		if r == '\n' {
			t.line++
			return nil
		}
	}
}

func (t *Tokenizer) readWord(first rune) (Token, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, _, err := t.r.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return Token{}, errors.WithContext(err, "read")
		}

		if !isWordChar(r) {
			if err := t.r.UnreadRune(); err != nil {
				return Token{}, errors.WithContext(err, "unread")
			}
			break
		}
		sb.WriteRune(r)
	}
	return Token{Kind: KindWord, Value: sb.String(), Line: t.line}, nil
}

func (t *Tokenizer) readQuoted(quote rune) (Token, error) {
	start := t.line
	var sb strings.Builder
	for {
		r, _, err := t.r.ReadRune()
		if err == io.EOF {
			return Token{}, SyntaxError{Line: start,
				Msg: fmt.Sprintf("unterminated %c-quoted string", quote)}
		} else if err != nil {
			return Token{}, errors.WithContext(err, "read")
		}

		if r == quote {
			return Token{Kind: KindString, Value: sb.String(), Line: start}, nil
		}
		if r == '\n' {
			t.line++
		}
		sb.WriteRune(r)
	}
}
