// Package lexer turns Zin source text into tokens.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// LexicalError reports a character that starts no valid token.
type LexicalError struct {
	Char    rune
	Pos     Pos
	Message string
}

func (e *LexicalError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("lexical error at %s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("lexical error at %s: invalid character %q", e.Pos, e.Char)
}

type lexer struct {
	src    string
	offset int
	line   int
	col    int
	tokens []Token
}

// Tokenize scans the whole source. The returned slice always ends with an EOF
// token. On the first invalid character it returns no tokens at all.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	log.Trace().Int("tokens", len(l.tokens)).Int("lines", l.line).Msg("tokenized source")
	return l.tokens, nil
}

func (l *lexer) pos() Pos {
	return Pos{Offset: l.offset, Line: l.line, Col: l.col}
}

func (l *lexer) peek() rune {
	if l.offset >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.offset:])
	return r
}

func (l *lexer) peekAt(n int) rune {
	off := l.offset
	for i := 0; i < n; i++ {
		if off >= len(l.src) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}
	if off >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpaceAndComments() {
	for l.offset < len(l.src) {
		r := l.peek()
		switch {
		case r == '#':
			for l.offset < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case r == '\n' || r == ' ' || r == '\t' || r == '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) next() (Token, error) {
	l.skipSpaceAndComments()
	start := l.pos()
	if l.offset >= len(l.src) {
		return Token{Kind: EOF, Pos: start}, nil
	}
	r := l.peek()
	switch {
	case isIdentStart(r):
		return l.word(start), nil
	case isDigit(r):
		return l.number(start), nil
	case r == '"' || r == '\'':
		return l.str(start)
	}

	if op := l.operator(); op != "" {
		return Token{Kind: OPERATOR, Lexeme: op, Pos: start}, nil
	}
	if r == '=' {
		l.advance()
		return Token{Kind: ASSIGN, Lexeme: "=", Pos: start}, nil
	}
	if strings.ContainsRune("{}().,[]", r) {
		l.advance()
		return Token{Kind: SYMBOL, Lexeme: string(r), Pos: start}, nil
	}
	return Token{}, &LexicalError{Char: r, Pos: start}
}

// operator consumes an operator if one starts at the current offset. Two
// character operators win over their one character prefixes.
func (l *lexer) operator() string {
	rest := l.src[l.offset:]
	for _, op := range []string{">=", "<=", "==", "!="} {
		if strings.HasPrefix(rest, op) {
			l.advance()
			l.advance()
			return op
		}
	}
	switch r := l.peek(); r {
	case '+', '-', '*', '/', '>', '<':
		l.advance()
		return string(r)
	}
	return ""
}

func (l *lexer) word(start Pos) Token {
	for l.offset < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	w := l.src[start.Offset:l.offset]

	// File commands are spelled with a hyphen and lexed as one keyword.
	if w == "ARQUIVO" && l.peek() == '-' && isIdentStart(l.peekAt(1)) {
		save := *l
		l.advance()
		for l.offset < len(l.src) && isIdentPart(l.peek()) {
			l.advance()
		}
		joined := l.src[start.Offset:l.offset]
		if kind, kw := LookupWord(joined); kind == KEYWORD {
			return Token{Kind: kind, Lexeme: joined, Keyword: kw, Pos: start}
		}
		*l = save
	}

	kind, kw := LookupWord(w)
	return Token{Kind: kind, Lexeme: w, Keyword: kw, Pos: start}
}

func (l *lexer) number(start Pos) Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	// A dot only belongs to the number when a digit follows; otherwise it is
	// the statement terminator.
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	return Token{Kind: NUMBER, Lexeme: l.src[start.Offset:l.offset], Pos: start}
}

func (l *lexer) str(start Pos) (Token, error) {
	quote := l.advance()
	for {
		if l.offset >= len(l.src) || l.peek() == '\n' {
			return Token{}, &LexicalError{Char: quote, Pos: start, Message: "unterminated string literal"}
		}
		if l.advance() == quote {
			break
		}
	}
	return Token{Kind: STRING, Lexeme: l.src[start.Offset:l.offset], Pos: start}, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// Unquote strips the delimiters from a STRING lexeme.
func Unquote(lexeme string) string {
	if len(lexeme) >= 2 {
		first, last := lexeme[0], lexeme[len(lexeme)-1]
		if (first == '"' || first == '\'') && first == last {
			return lexeme[1 : len(lexeme)-1]
		}
	}
	return lexeme
}
