// token.go — the token model for DP source text.
//
// A Token is the unit the lexer produces and the parser consumes: a kind,
// the raw lexeme, a decoded literal (for number, boolean, variable, path
// and f-string content/escape tokens), and a source position. Lines and
// columns are 1-based at this layer; the LSP shim converts to 0-based
// positions at its own boundary (see cmd/dp-lsp), never here. Columns are
// byte offsets; neither layer applies a UTF-16 correction.
package dp

import "fmt"

// Kind is the closed enumeration of token kinds.
type Kind int

const (
	// Structural
	Indent Kind = iota
	Dedent
	Linebreak
	EOF
	TokError
	PlaceHolder

	// Keywords
	KwLabel
	KwJump
	KwTour
	KwCall
	KwImport
	KwIf
	KwElse
	KwElif

	// Literals & identifiers
	Identifier
	Number
	Boolean
	VariableTok

	// F-string
	FstringQuote
	FstringContent
	FstringEscape

	// Operators: arithmetic
	Plus
	Minus
	Star
	Slash
	Percent
	Power

	// Operators: assignment
	AssignTok
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	PowerAssign

	// Operators: comparison
	Eq
	Neq
	Less
	LessEq
	Greater
	GreaterEq

	// Operators: logical
	And
	Or
	Not

	// Punctuation
	Comma
	Colon
	LParen
	RParen
	LBrace
	RBrace

	// Path (rest-of-line after 'import')
	Path
)

var kindNames = map[Kind]string{
	Indent:         "Indent",
	Dedent:         "Dedent",
	Linebreak:      "Linebreak",
	EOF:            "EOF",
	TokError:       "Error",
	PlaceHolder:    "PlaceHolder",
	KwLabel:        "label",
	KwJump:         "jump",
	KwTour:         "tour",
	KwCall:         "call",
	KwImport:       "import",
	KwIf:           "if",
	KwElse:         "else",
	KwElif:         "elif",
	Identifier:     "Identifier",
	Number:         "Number",
	Boolean:        "Boolean",
	VariableTok:    "Variable",
	FstringQuote:   "FstringQuote",
	FstringContent: "FstringContent",
	FstringEscape:  "FstringEscape",
	Plus:           "+",
	Minus:          "-",
	Star:           "*",
	Slash:          "/",
	Percent:        "%",
	Power:          "**",
	AssignTok:      "=",
	PlusAssign:     "+=",
	MinusAssign:    "-=",
	StarAssign:     "*=",
	SlashAssign:    "/=",
	PercentAssign:  "%=",
	PowerAssign:    "**=",
	Eq:             "==",
	Neq:            "!=",
	Less:           "<",
	LessEq:         "<=",
	Greater:        ">",
	GreaterEq:      ">=",
	And:            "and",
	Or:             "or",
	Not:            "not",
	Comma:          ",",
	Colon:          ":",
	LParen:         "(",
	RParen:         ")",
	LBrace:         "{",
	RBrace:         "}",
	Path:           "Path",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords recognized in Default mode.
var keywords = map[string]Kind{
	"label":  KwLabel,
	"jump":   KwJump,
	"tour":   KwTour,
	"call":   KwCall,
	"import": KwImport,
	"if":     KwIf,
	"else":   KwElse,
	"elif":   KwElif,
	"and":    And,
	"or":     Or,
	"not":    Not,
	"true":   Boolean,
	"false":  Boolean,
}

// keywords recognized in Embed mode: of the statement keywords only 'call'
// retains keyword status (label, jump, if, ... lex as identifiers here);
// the logical operators and boolean literals are recognized as in Default
// mode.
var embedKeywords = map[string]Kind{
	"call": KwCall,
	"and":  And,
	"or":   Or,
	"not":  Not,
	"true": Boolean,
	"false": Boolean,
}

// Token is a lexical token with source position and an optional decoded
// literal value (Number: float64; Boolean: bool; Variable: the name
// without '$'; Path, FstringContent, FstringEscape: the resolved text).
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}
