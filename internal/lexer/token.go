package lexer

import "github.com/cruffinoni/regularfmt/internal/source"

// TokenKind describes the syntactic category emitted by the lexer.
type TokenKind string

const (
	TokenEOS        TokenKind = "eos"
	TokenSign       TokenKind = "sign"
	TokenString     TokenKind = "string"
	TokenText       TokenKind = "text"
	TokenNumber     TokenKind = "number"
	TokenName       TokenKind = "name"
	TokenIdentifier TokenKind = "identifier"
	TokenKeyword    TokenKind = "keyword"
	TokenBool       TokenKind = "bool"
	TokenNull       TokenKind = "null"
	TokenUndefined  TokenKind = "undefined"
)

// Keywords of the command syntax.
const (
	KeywordIf     = "if"
	KeywordElseIf = "elseif"
	KeywordElse   = "else"
	KeywordList   = "list"
	KeywordAs     = "as"
	KeywordBy     = "by"
)

var keywords = map[string]struct{}{
	KeywordIf:     {},
	KeywordElseIf: {},
	KeywordElse:   {},
	KeywordList:   {},
	KeywordAs:     {},
	KeywordBy:     {},
}

// precedence of binary operators; higher binds tighter.
var precedence = map[string]int{
	"*":   14,
	"/":   14,
	"%":   14,
	"+":   13,
	"-":   13,
	"<=":  11,
	">=":  11,
	"<":   11,
	">":   11,
	"==":  10,
	"===": 10,
	"!=":  10,
	"&&":  6,
	"||":  5,
}

var singleEscapes = map[rune]struct{}{
	'\'': {}, '"': {}, '\\': {}, 'b': {}, 'f': {}, 'n': {}, 'r': {}, 't': {}, 'v': {}, '0': {},
}

// IsKeyword reports whether id is reserved by the command syntax.
func IsKeyword(id string) bool {
	_, ok := keywords[id]
	return ok
}

// IsBinaryOp reports whether s spells a binary operator.
func IsBinaryOp(s string) bool {
	_, ok := precedence[s]
	return ok
}

// Precedence returns the binding power of operator s, or -1.
func Precedence(s string) int {
	if p, ok := precedence[s]; ok {
		return p
	}
	return -1
}

// Token represents one lexical unit with its source range.
type Token struct {
	Kind  TokenKind
	Value string
	Loc   source.Loc
	// Quote is the delimiter of a string token.
	Quote rune
}

// IsSign reports whether the token is the punctuation s.
func (t Token) IsSign(s string) bool {
	return t.Kind == TokenSign && t.Value == s
}

// IsKeyword reports whether the token is the keyword k.
func (t Token) IsKeyword(k string) bool {
	return t.Kind == TokenKeyword && t.Value == k
}

// IsBinary reports whether the token is a binary operator.
func (t Token) IsBinary() bool {
	return t.Kind == TokenSign && IsBinaryOp(t.Value)
}

// Precedence returns the operator precedence of the token.
func (t Token) Precedence() int {
	return Precedence(t.Value)
}

// RightAssoc is always false: the grammar has no right-associative operator.
func (t Token) RightAssoc() bool {
	return false
}

// IsEOS reports whether the token marks the end of input.
func (t Token) IsEOS() bool {
	return t.Kind == TokenEOS
}
