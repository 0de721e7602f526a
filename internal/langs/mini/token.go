package mini

import "github.com/kanso-lang/repairgo/internal/span"

type TokenType int

const (
	EOF TokenType = iota
	IDENT
	INT

	LET
	IN
	IF
	THEN
	ELSE
	FN
	TRUE
	FALSE

	ARROW // ->
	EQUAL // =

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT

	EQ_EQ
	BANG_EQ
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	AND_AND
	OR_OR

	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	QUESTION // ? : explicit hole marker in source text
)

var keywords = map[string]TokenType{
	"let":   LET,
	"in":    IN,
	"if":    IF,
	"then":  THEN,
	"else":  ELSE,
	"fn":    FN,
	"true":  TRUE,
	"false": FALSE,
}

type Token struct {
	Type   TokenType
	Lexeme string
	Pos    span.Position
	EndPos span.Position
}

func (t Token) String() string { return t.Lexeme }
